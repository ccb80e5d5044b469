package bom

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// Record is one decoded JSON row returned by the API.
type Record map[string]any

func (r Record) String(field string) (string, bool) {
	s, ok := r[field].(string)
	return s, ok
}

// Int coerces the field to an int, numbers may arrive as float64,
// json.Number or numeric strings.
func (r Record) Int(field string) (int, bool) {
	return ToInt(r[field])
}

// Text renders a field for display, missing and null fields are empty.
func (r Record) Text(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// Columns returns the union of field names in rows, id first and the rest
// sorted.
func Columns(rows []Record) []string {
	var columns []string
	hasId := false
	for _, row := range rows {
		for field := range row {
			if field == "id" {
				hasId = true
				continue
			}
			if !slices.Contains(columns, field) {
				columns = append(columns, field)
			}
		}
	}
	slices.Sort(columns)
	if hasId {
		columns = append([]string{"id"}, columns...)
	}
	return columns
}

func ToInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(x)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Params are query parameters for an endpoint. Nil values, empty strings and
// empty slices are left out, slices are joined with commas.
type Params map[string]any

func formatParam(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, x != ""
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case bool:
		return strconv.FormatBool(x), true
	case []string:
		var parts []string
		for _, part := range x {
			if part != "" {
				parts = append(parts, part)
			}
		}
		return strings.Join(parts, ","), len(parts) > 0
	case []int:
		parts := make([]string, len(x))
		for i, n := range x {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, ","), len(parts) > 0
	case fmt.Stringer:
		s := x.String()
		return s, s != ""
	default:
		s := fmt.Sprint(x)
		return s, s != ""
	}
}

func (p Params) Values() url.Values {
	q := url.Values{}
	for key, v := range p {
		formatted, ok := formatParam(v)
		if ok {
			q.Set(key, formatted)
		}
	}
	return q
}

// Encode returns the canonical query string, keys are sorted.
func (p Params) Encode() string {
	return p.Values().Encode()
}

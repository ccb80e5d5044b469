package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"bom-dashboard/internal/bom"
	"bom-dashboard/internal/pagination"
)

// DatasetCap is the most rows a paginated response may carry.
const DatasetCap = 1000

type Shape int

const (
	// ShapePage is a `{data, next_cursor, has_more}` envelope.
	ShapePage Shape = iota
	// ShapeList is a bare array, all records with no further pages.
	ShapeList
	// ShapeObject is any other object, passed through untouched.
	ShapeObject
)

func (s Shape) String() string {
	switch s {
	case ShapePage:
		return "page"
	case ShapeList:
		return "list"
	case ShapeObject:
		return "object"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// Payload is a normalized API response. Rows are shared with the cache and
// must be treated as read only.
type Payload struct {
	Shape      Shape          `json:"shape"`
	Rows       []bom.Record   `json:"rows,omitempty"`
	NextCursor *string        `json:"next_cursor,omitempty"`
	HasMore    bool           `json:"has_more,omitempty"`
	Object     map[string]any `json:"object,omitempty"`
}

// TotalRecords returns the authoritative total carried by the first row or
// by the envelope.
func (p Payload) TotalRecords() (int, bool) {
	if len(p.Rows) > 0 {
		if total, ok := p.Rows[0].Int("totalrecords"); ok {
			return total, true
		}
	}
	if p.Object != nil {
		return bom.ToInt(p.Object["totalrecords"])
	}
	return 0, false
}

// PageResult describes the payload to the pagination engine.
func (p Payload) PageResult() pagination.Result {
	res := pagination.Result{Rows: len(p.Rows)}
	if p.Shape == ShapePage {
		hasMore := p.HasMore
		res.HasMore = &hasMore
		res.NextCursor = p.NextCursor
	}
	if total, ok := p.TotalRecords(); ok {
		res.Total = &total
	}
	return res
}

// ParsePayload decodes and validates a response body.
func ParsePayload(body []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Payload{}, fmt.Errorf("%w: empty body", ErrUnexpectedResponseFormat)
	}

	switch trimmed[0] {
	case '[':
		var items []any
		err := json.Unmarshal(trimmed, &items)
		if err != nil {
			return Payload{}, fmt.Errorf("%w: %w", ErrUnexpectedResponseFormat, err)
		}
		rows, err := toRows(items)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Shape: ShapeList, Rows: rows}, nil
	case '{':
		var object map[string]any
		err := json.Unmarshal(trimmed, &object)
		if err != nil {
			return Payload{}, fmt.Errorf("%w: %w", ErrUnexpectedResponseFormat, err)
		}
		return parseObject(object)
	}
	return Payload{}, fmt.Errorf("%w: body is neither an object nor an array", ErrUnexpectedResponseFormat)
}

func parseObject(object map[string]any) (Payload, error) {
	if message, ok := object["error"].(string); ok && message != "" {
		return Payload{}, &APIError{Message: message}
	}

	data, isEnvelope := object["data"].([]any)
	if !isEnvelope {
		return Payload{Shape: ShapeObject, Object: object}, nil
	}

	if len(data) > DatasetCap {
		return Payload{}, &DatasetTooLargeError{Count: len(data), Limit: DatasetCap}
	}

	payload := Payload{Shape: ShapePage}
	switch cursor := object["next_cursor"].(type) {
	case nil:
	case string:
		payload.NextCursor = &cursor
	default:
		return Payload{}, fmt.Errorf("%w: next_cursor is %T", ErrUnexpectedResponseFormat, cursor)
	}
	switch hasMore := object["has_more"].(type) {
	case nil:
	case bool:
		payload.HasMore = hasMore
	default:
		return Payload{}, fmt.Errorf("%w: has_more is %T", ErrUnexpectedResponseFormat, hasMore)
	}

	rows, err := toRows(data)
	if err != nil {
		return Payload{}, err
	}
	payload.Rows = rows

	if total, ok := object["totalrecords"]; ok {
		payload.Object = map[string]any{"totalrecords": total}
	}
	return payload, nil
}

// toRows requires every item to be an object and gives items without an id
// their position in the array.
func toRows(items []any) ([]bom.Record, error) {
	rows := make([]bom.Record, len(items))
	for i, item := range items {
		object, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: item %d is %T, not an object", ErrUnexpectedResponseFormat, i, item)
		}
		if id, ok := object["id"]; !ok || id == nil {
			object["id"] = float64(i)
		}
		rows[i] = bom.Record(object)
	}
	return rows, nil
}

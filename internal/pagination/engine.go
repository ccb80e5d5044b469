// Package pagination tracks the page a table is on and decides, for every
// page change, whether the request can follow a server cursor or has to
// fall back to limit/offset.
package pagination

import (
	"errors"
	"fmt"

	"bom-dashboard/internal/bom"
)

var (
	ErrInvalidPage    = errors.New("page must be at least 1")
	ErrNoMorePages    = errors.New("there are no more pages")
	ErrPageOutOfRange = errors.New("page is past the last page")
)

// Request is the plan for fetching one page. Cursor is set only when
// UseCursor is true and the page is not the first.
type Request struct {
	Page      int
	PageSize  int
	Cursor    string
	UseCursor bool
}

func (r Request) Offset() int {
	return (r.Page - 1) * r.PageSize
}

func (r Request) String() string {
	if r.Cursor != "" {
		return fmt.Sprintf("page %d (cursor %s)", r.Page, r.Cursor)
	}
	if !r.UseCursor {
		return fmt.Sprintf("page %d (offset %d)", r.Page, r.Offset())
	}
	return fmt.Sprintf("page %d", r.Page)
}

// Result is what a response says about pagination, nil fields were absent
// from the response.
type Result struct {
	Rows       int
	NextCursor *string
	HasMore    *bool
	Total      *int
}

// Engine is not safe for concurrent use.
type Engine struct {
	pageSize   int
	page       int
	total      int
	totalKnown bool
	cursor     string
	cursors    []string
	hasMore    bool
	useCursor  bool
	loaded     bool
}

func NewEngine(pageSize int) *Engine {
	e := &Engine{pageSize: bom.ClampPageSize(pageSize)}
	e.Reset()
	return e
}

// Reset returns to page 1 and forgets every cursor and the total.
func (e *Engine) Reset() {
	e.page = 1
	e.total = 0
	e.totalKnown = false
	e.cursor = ""
	e.cursors = nil
	e.hasMore = false
	e.useCursor = true
	e.loaded = false
}

// SetPageSize clamps size to the allowed range and resets.
func (e *Engine) SetPageSize(size int) {
	e.pageSize = bom.ClampPageSize(size)
	e.Reset()
}

func (e *Engine) cursorFor(page int) (string, bool) {
	idx := page - 2
	if idx < 0 || idx >= len(e.cursors) || e.cursors[idx] == "" {
		return "", false
	}
	return e.cursors[idx], true
}

// Plan decides how to fetch target without changing any state.
func (e *Engine) Plan(target int) (Request, error) {
	if target < 1 {
		return Request{}, ErrInvalidPage
	}
	req := Request{Page: target, PageSize: e.pageSize, UseCursor: true}
	if target == 1 {
		return req, nil
	}
	if !e.loaded {
		// a deep link, there are no cursors yet
		req.UseCursor = false
		return req, nil
	}

	switch {
	case target == e.page+1:
		if !e.hasMore {
			return Request{}, ErrNoMorePages
		}
	case target > e.LastPage():
		return Request{}, ErrPageOutOfRange
	}

	adjacent := target >= e.page-1 && target <= e.page+1
	if adjacent && e.useCursor {
		if cursor, ok := e.cursorFor(target); ok {
			req.Cursor = cursor
			return req, nil
		}
	}
	req.UseCursor = false
	return req, nil
}

// Complete applies the response to a planned request.
func (e *Engine) Complete(req Request, res Result) {
	e.loaded = true
	e.page = req.Page
	e.cursor = req.Cursor

	switch {
	case req.Page == 1:
		e.cursors = nil
		e.useCursor = true
	case !req.UseCursor:
		e.useCursor = false
	}

	if res.NextCursor != nil && *res.NextCursor != "" {
		idx := req.Page - 1
		switch {
		case idx < len(e.cursors):
			e.cursors[idx] = *res.NextCursor
		case idx == len(e.cursors):
			e.cursors = append(e.cursors, *res.NextCursor)
		}
	}

	if res.Total != nil {
		e.total = max(*res.Total, 0)
		e.totalKnown = true
	} else if !e.totalKnown {
		e.total = e.pageSize * e.page
	}

	switch {
	case res.HasMore != nil:
		e.hasMore = *res.HasMore
	case res.NextCursor != nil:
		e.hasMore = *res.NextCursor != ""
	case e.totalKnown:
		e.hasMore = e.page*e.pageSize < e.total
	default:
		e.hasMore = res.Rows >= e.pageSize
	}
}

func (e *Engine) Page() int        { return e.page }
func (e *Engine) PageSize() int    { return e.pageSize }
func (e *Engine) Total() int       { return e.total }
func (e *Engine) TotalKnown() bool { return e.totalKnown }
func (e *Engine) HasMore() bool    { return e.hasMore }
func (e *Engine) UseCursor() bool  { return e.useCursor }
func (e *Engine) Cursor() string   { return e.cursor }

func (e *Engine) Cursors() []string {
	out := make([]string, len(e.cursors))
	copy(out, e.cursors)
	return out
}

// LastPage is derived from the total. Without a known total it is an
// estimate that grows by one while the server reports more pages.
func (e *Engine) LastPage() int {
	last := (e.total + e.pageSize - 1) / e.pageSize
	if last < 1 {
		last = 1
	}
	if !e.totalKnown && e.hasMore {
		last++
	}
	return last
}

func (e *Engine) FirstDisplayedRow() int {
	if e.total == 0 {
		return 0
	}
	return (e.page-1)*e.pageSize + 1
}

func (e *Engine) LastDisplayedRow() int {
	return min(e.page*e.pageSize, e.total)
}

package dashboard

import (
	"fmt"
	"net/url"
	"slices"

	"bom-dashboard/internal/bom"
	"bom-dashboard/internal/urlstate"
)

const (
	MessageLoading       = "Loading data..."
	MessageNoResults     = "No data available. Please try different filters."
	MessageSlow          = "This is taking longer than usual. Your connection may be slow."
	MessageStaticTimeout = "Loading reference data timed out. Please reload to try again."
)

// View is a copy of the controller state for rendering.
type View struct {
	Stage     Stage
	InitError string

	Filters bom.FilterState
	Tabs    bom.TabSelection
	Rows    []bom.Record
	Meta    Meta
	Sort    bom.SortState

	Page      int
	PageSize  int
	Total     int
	LastPage  int
	FirstRow  int
	LastRow   int
	HasMore   bool
	UseCursor bool

	Reference Reference
}

func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	return View{
		Stage:     c.stage,
		InitError: c.initError,
		Filters:   c.filters,
		Tabs:      c.tabs,
		Rows:      slices.Clone(c.rows[c.tabs.Secondary]),
		Meta:      c.meta,
		Sort:      c.sort,
		Page:      c.pages.Page(),
		PageSize:  c.pages.PageSize(),
		Total:     c.pages.Total(),
		LastPage:  c.pages.LastPage(),
		FirstRow:  c.pages.FirstDisplayedRow(),
		LastRow:   c.pages.LastDisplayedRow(),
		HasMore:   c.pages.HasMore(),
		UseCursor: c.pages.UseCursor(),
		Reference: c.reference,
	}
}

// Query is the address bar form of the current state.
func (c *Controller) Query() url.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return urlstate.Encode(c.urlStateLocked())
}

// Summary describes the rows on screen.
func (v View) Summary() string {
	switch {
	case v.Meta.Loading:
		return MessageLoading
	case v.Meta.Error != "":
		return v.Meta.Error
	case len(v.Rows) == 0:
		return MessageNoResults
	}
	return fmt.Sprintf("Showing %d to %d of %d records", v.FirstRow, v.LastRow, v.Total)
}

func (v View) PageSummary() string {
	return fmt.Sprintf("Showing page %d of %d", v.Page, v.LastPage)
}

// Advisory is shown next to the summary while a load is slow.
func (v View) Advisory() string {
	if v.Meta.Slow {
		return MessageSlow
	}
	return ""
}

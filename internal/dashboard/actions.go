package dashboard

import (
	"context"
	"net/url"

	"bom-dashboard/internal/bom"
	"bom-dashboard/internal/urlstate"
)

// act applies mutate while ready and then loads page target. mutate reports
// whether anything changed, nothing is loaded otherwise.
func (c *Controller) act(ctx context.Context, target int, push bool, mutate func() bool) error {
	c.mu.Lock()
	if c.stage != StageReady {
		c.mu.Unlock()
		return ErrNotReady
	}
	changed := mutate()
	c.mu.Unlock()

	if !changed {
		return nil
	}
	return c.load(ctx, target, push)
}

func (c *Controller) SetPrimaryTab(ctx context.Context, tab bom.PrimaryTab) error {
	return c.act(ctx, 1, true, func() bool {
		if c.tabs.Primary == tab {
			return false
		}
		c.tabs.Primary = tab
		c.filters = c.filters.WithBillType(tab.BillType())
		c.pages.Reset()
		return true
	})
}

func (c *Controller) SetSecondaryTab(ctx context.Context, tab bom.SecondaryTab) error {
	return c.act(ctx, 1, true, func() bool {
		if c.tabs.Secondary == tab {
			return false
		}
		c.tabs.Secondary = tab
		c.pages.Reset()
		return true
	})
}

// ChangePage moves to page, invalid pages are rejected with an error from
// the pagination package and nothing is loaded.
func (c *Controller) ChangePage(ctx context.Context, page int) error {
	return c.act(ctx, page, true, func() bool { return true })
}

// ApplyFilters replaces the filters and reloads from page 1. The bill type
// decides the primary tab.
func (c *Controller) ApplyFilters(ctx context.Context, f bom.FilterState) error {
	f = f.Normalize()
	return c.act(ctx, 1, true, func() bool {
		c.filters = f
		c.tabs.Primary = bom.PrimaryTabForBillType(f.BillType)
		c.pages.Reset()
		return true
	})
}

// ResetFilters restores the default filters, keeping the active tabs.
func (c *Controller) ResetFilters(ctx context.Context) error {
	return c.act(ctx, 1, true, func() bool {
		c.filters = bom.DefaultFilters().WithBillType(c.tabs.Primary.BillType())
		c.pages.Reset()
		return true
	})
}

func (c *Controller) SetPageSize(ctx context.Context, size int) error {
	return c.act(ctx, 1, true, func() bool {
		c.pages.SetPageSize(size)
		return true
	})
}

// Reload fetches the current page again, e.g. after an error.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	page := c.pages.Page()
	c.mu.Unlock()
	return c.act(ctx, page, true, func() bool { return true })
}

// PopState restores the state of a history entry without pushing a new one.
func (c *Controller) PopState(ctx context.Context, query url.Values) error {
	state := urlstate.Parse(query)
	return c.act(ctx, state.Page, false, func() bool {
		c.filters = state.Filters
		c.tabs = state.Tabs
		c.pages.Reset()
		return true
	})
}

// Sort orders the loaded rows of the active tab by column, selecting the
// same column again flips the direction.
func (c *Controller) Sort(column string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage != StageReady {
		return ErrNotReady
	}

	c.sort = c.sort.Toggle(column)
	tab := c.tabs.Secondary
	if rows, ok := c.rows[tab]; ok {
		c.rows[tab] = bom.SortRows(rows, c.sort.Column, c.sort.Desc)
	}
	return nil
}

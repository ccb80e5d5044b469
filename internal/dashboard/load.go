package dashboard

import (
	"context"

	"bom-dashboard/internal/api"
	"bom-dashboard/internal/bom"
	"bom-dashboard/internal/pagination"
	"bom-dashboard/internal/urlstate"
)

func (c *Controller) fetch(ctx context.Context, tabs bom.TabSelection, f bom.FilterState, req pagination.Request) (api.Payload, error) {
	switch tabs.Secondary {
	case bom.SecondaryDeaths:
		return c.src.Deaths(ctx, f, req)
	case bom.SecondaryChristenings:
		return c.src.Christenings(ctx, f, req)
	case bom.SecondaryFoodstuffs, bom.SecondaryAges:
		return c.src.Statistics(ctx, string(tabs.Secondary), f, req)
	default:
		return c.src.Bills(ctx, f, req)
	}
}

// load fetches page target of the active tab. Rows of other tabs are
// dropped, anything in flight is cancelled and the tab's cached responses
// are cleared before the single new request is made. The outcome is only
// applied if no newer load started in the meantime.
func (c *Controller) load(ctx context.Context, target int, push bool) error {
	c.mu.Lock()
	req, err := c.pages.Plan(target)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	tab := c.tabs.Secondary
	for slot := range c.rows {
		if slot != tab {
			delete(c.rows, slot)
		}
	}
	c.src.CancelAllRequests()
	c.src.ClearCache(tab.Endpoint())

	c.generation++
	generation := c.generation
	c.meta = Meta{Loading: true}
	tabs, filters := c.tabs, c.filters

	slow := c.clock.AfterFunc(c.opts.SlowThreshold, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.generation == generation && c.meta.Loading {
			c.meta.Slow = true
		}
	})
	c.mu.Unlock()

	c.tel.ReportDebug("load", string(tab), req.String())
	payload, err := c.fetch(ctx, tabs, filters, req)
	slow.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		return nil
	}
	c.meta.Loading = false
	c.meta.Slow = false

	if err != nil {
		if api.IsAborted(err) {
			return nil
		}
		c.meta.Error = api.UserMessage(err)
		delete(c.rows, tab)
		c.tel.ReportWarning(report_controller_load, string(tab), err)
		return err
	}

	c.rows[tab] = payload.Rows
	c.pages.Complete(req, payload.PageResult())
	c.sort = bom.SortState{}
	if tab == bom.SecondaryParishes {
		c.startPrefetchLocked(ctx, payload.Rows)
	}
	if push && c.history != nil {
		c.history.Push(urlstate.Encode(c.urlStateLocked()))
	}
	return nil
}

func (c *Controller) urlStateLocked() urlstate.State {
	return urlstate.State{
		Filters:   c.filters,
		Page:      c.pages.Page(),
		UseCursor: c.pages.UseCursor(),
		Tabs:      c.tabs,
	}
}

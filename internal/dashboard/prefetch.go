package dashboard

import (
	"context"

	"bom-dashboard/internal/api"
	"bom-dashboard/internal/bom"

	"golang.org/x/sync/errgroup"
)

const report_controller_parish_yearly = "controller.parish-yearly"

// prefetchFanOut bounds concurrent parish-yearly requests of one prefetch.
const prefetchFanOut = 4

// RowParish is the parish a bills row belongs to, or "" when it names none.
func RowParish(row bom.Record) string {
	for _, field := range []string{"name", "parish"} {
		if name, ok := row.String(field); ok && name != "" {
			return name
		}
	}
	return ""
}

// ParishYearly returns the yearly series of parish once it has been loaded.
func (c *Controller) ParishYearly(parish string) ([]bom.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows, ok := c.yearly[parish]
	return rows, ok
}

// LoadParishYearly returns the yearly series of parish, fetching it when it
// is not held yet. Failures never touch Meta.
func (c *Controller) LoadParishYearly(ctx context.Context, parish string) ([]bom.Record, error) {
	if rows, ok := c.ParishYearly(parish); ok {
		return rows, nil
	}

	payload, err := c.src.ParishYearly(ctx, parish)
	if err != nil {
		if !api.IsAborted(err) {
			c.tel.ReportWarning(report_controller_parish_yearly, parish, err)
		}
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.yearly[parish] = payload.Rows
	return payload.Rows, nil
}

// startPrefetchLocked loads the yearly series of every parish on rows that
// is neither held nor already being fetched. Must be called with mu held.
func (c *Controller) startPrefetchLocked(ctx context.Context, rows []bom.Record) {
	var missing []string
	for _, row := range rows {
		parish := RowParish(row)
		if parish == "" {
			continue
		}
		if _, ok := c.yearly[parish]; ok {
			continue
		}
		if c.prefetching[parish] {
			continue
		}
		c.prefetching[parish] = true
		missing = append(missing, parish)
	}
	if len(missing) == 0 {
		return
	}

	c.tel.ReportDebug("prefetching parish yearly data", len(missing))
	c.prefetches.Add(1)
	go func() {
		defer c.prefetches.Done()

		group := new(errgroup.Group)
		group.SetLimit(prefetchFanOut)
		for _, parish := range missing {
			group.Go(func() error {
				defer func() {
					c.mu.Lock()
					delete(c.prefetching, parish)
					c.mu.Unlock()
				}()
				// failures are reported by LoadParishYearly and left for
				// the next page that shows the parish
				_, _ = c.LoadParishYearly(ctx, parish)
				return nil
			})
		}
		_ = group.Wait()
	}()
}

// WaitPrefetch blocks until every started prefetch has finished.
func (c *Controller) WaitPrefetch() {
	c.prefetches.Wait()
}

package api

import (
	"context"
	"fmt"

	"bom-dashboard/internal/bom"
	"bom-dashboard/internal/pagination"

	"golang.org/x/sync/errgroup"
)

const (
	EndpointParishes         = "parishes"
	EndpointBills            = "bills"
	EndpointCauses           = "causes"
	EndpointChristenings     = "christenings"
	EndpointListDeaths       = "list-deaths"
	EndpointListChristenings = "list-christenings"
	EndpointStatistics       = "statistics"
	EndpointGeometries       = "geometries"
)

// parishFanOut bounds concurrent requests made by ParishesYearly.
const parishFanOut = 4

func (c *Client) Parishes(ctx context.Context) (Payload, error) {
	return c.FetchData(ctx, EndpointParishes, nil)
}

// AllCauses lists every cause of death that can be filtered on.
func (c *Client) AllCauses(ctx context.Context) (Payload, error) {
	return c.FetchData(ctx, EndpointListDeaths, nil)
}

// AllChristenings lists every christening category that can be filtered on.
func (c *Client) AllChristenings(ctx context.Context) (Payload, error) {
	return c.FetchData(ctx, EndpointListChristenings, nil)
}

// BillsParams only sends week bounds and count types that narrow the
// result. The first page and cursor pages carry a limit, offset pages add
// an offset.
func BillsParams(f bom.FilterState, req pagination.Request) Params {
	params := Params{
		"bill-type":  string(f.BillType),
		"start-year": f.StartYear,
		"end-year":   f.EndYear,
		"limit":      req.PageSize,
	}
	if f.StartWeek > bom.MinWeek {
		params["start-week"] = f.StartWeek
	}
	if f.EndWeek < bom.MaxWeek {
		params["end-week"] = f.EndWeek
	}
	if f.CountType != "" && f.CountType != bom.CountTypeAll {
		params["count-type"] = f.CountType
	}
	if len(f.Parishes) > 0 {
		params["parish"] = f.Parishes
	}

	switch {
	case req.Cursor != "":
		params["cursor"] = req.Cursor
	case req.Page > 1:
		params["offset"] = req.Offset()
	}
	return params
}

func (c *Client) Bills(ctx context.Context, f bom.FilterState, req pagination.Request) (Payload, error) {
	return c.FetchData(ctx, EndpointBills, BillsParams(f, req))
}

func offsetParams(f bom.FilterState, req pagination.Request) Params {
	billType := f.BillType
	if billType == "" {
		billType = bom.BillWeekly
	}
	return Params{
		"start-year": f.StartYear,
		"end-year":   f.EndYear,
		"bill-type":  string(billType),
		"limit":      req.PageSize,
		"offset":     req.Offset(),
	}
}

func DeathsParams(f bom.FilterState, req pagination.Request) Params {
	params := offsetParams(f, req)
	params["id"] = f.CausesOfDeath
	return params
}

// Deaths pages through causes of death, optionally narrowed to the selected
// causes.
func (c *Client) Deaths(ctx context.Context, f bom.FilterState, req pagination.Request) (Payload, error) {
	return c.FetchData(ctx, EndpointCauses, DeathsParams(f, req))
}

func ChristeningsParams(f bom.FilterState, req pagination.Request) Params {
	params := offsetParams(f, req)
	params["id"] = f.Christenings
	return params
}

func (c *Client) Christenings(ctx context.Context, f bom.FilterState, req pagination.Request) (Payload, error) {
	return c.FetchData(ctx, EndpointChristenings, ChristeningsParams(f, req))
}

// Statistics fetches one of the aggregate series (e.g. "foodstuffs", "ages").
func (c *Client) Statistics(ctx context.Context, kind string, f bom.FilterState, req pagination.Request) (Payload, error) {
	params := offsetParams(f, req)
	params["type"] = kind
	return c.FetchData(ctx, EndpointStatistics, params)
}

func (c *Client) ParishYearly(ctx context.Context, parish string) (Payload, error) {
	return c.FetchData(ctx, EndpointStatistics, Params{
		"type":   "parish-yearly",
		"parish": parish,
	})
}

// ParishesYearly fetches the yearly series of every parish, results are in
// the order of parishes.
func (c *Client) ParishesYearly(ctx context.Context, parishes []string) ([]Payload, error) {
	out := make([]Payload, len(parishes))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(parishFanOut)
	for i, parish := range parishes {
		group.Go(func() error {
			payload, err := c.ParishYearly(ctx, parish)
			if err != nil {
				return fmt.Errorf("parish %s: %w", parish, err)
			}
			out[i] = payload
			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Geometries fetches parish boundary shapes.
func (c *Client) Geometries(ctx context.Context, params Params) (Payload, error) {
	return c.FetchData(ctx, EndpointGeometries, params)
}

package commands

import (
	"fmt"

	"bom-dashboard/internal/bom"
	"bom-dashboard/internal/pagination"

	"github.com/spf13/cobra"
)

// filterFlags are shared by every command that queries a data table.
type filterFlags struct {
	billType     string
	countType    string
	startYear    int
	endYear      int
	startWeek    int
	endWeek      int
	parishes     []string
	causes       []string
	christenings []string

	page     int
	pageSize int
	cursor   string
}

func addFilterFlags(cmd *cobra.Command) *filterFlags {
	f := &filterFlags{}
	flags := cmd.Flags()
	flags.StringVar(&f.billType, "bill-type", string(bom.BillWeekly), "weekly, general or total")
	flags.StringVar(&f.countType, "count-type", bom.CountTypeAll, "buried, plague or all")
	flags.IntVar(&f.startYear, "start-year", bom.MinYear, "first year")
	flags.IntVar(&f.endYear, "end-year", bom.MaxYear, "last year")
	flags.IntVar(&f.startWeek, "start-week", bom.MinWeek, "first week")
	flags.IntVar(&f.endWeek, "end-week", bom.MaxWeek, "last week")
	flags.StringSliceVar(&f.parishes, "parish", nil, "parish names")
	flags.StringSliceVar(&f.causes, "cause", nil, "cause of death ids")
	flags.StringSliceVar(&f.christenings, "christening", nil, "christening ids")
	flags.IntVar(&f.page, "page", 1, "page to fetch")
	flags.IntVar(&f.pageSize, "page-size", bom.DefaultPageSize, "rows per page")
	flags.StringVar(&f.cursor, "cursor", "", "next_cursor of the previous page")
	return f
}

func (f *filterFlags) state() (bom.FilterState, error) {
	billType, ok := bom.ParseBillType(f.billType)
	if !ok {
		return bom.FilterState{}, fmt.Errorf("unknown bill type %q", f.billType)
	}
	return bom.DefaultFilters().
		WithBillType(billType).
		WithCountType(f.countType).
		WithYearRange(f.startYear, f.endYear).
		WithStartWeek(f.startWeek).
		WithEndWeek(f.endWeek).
		WithParishes(f.parishes...).
		WithCauses(f.causes...).
		WithChristenings(f.christenings...), nil
}

// request plans the page the flags ask for. A single invocation has no
// cursors of its own, so later pages use offsets unless --cursor is given.
func (f *filterFlags) request(engine *pagination.Engine) (pagination.Request, error) {
	if f.cursor != "" {
		return pagination.Request{
			Page:      max(f.page, 2),
			PageSize:  engine.PageSize(),
			Cursor:    f.cursor,
			UseCursor: true,
		}, nil
	}
	return engine.Plan(f.page)
}

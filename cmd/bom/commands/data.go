package commands

import (
	"context"
	"fmt"
	"io"

	"bom-dashboard/cmd/bom/globals"
	"bom-dashboard/cmd/bom/utils"
	"bom-dashboard/internal/api"
	"bom-dashboard/internal/bom"
	"bom-dashboard/internal/dashboard"
	"bom-dashboard/internal/pagination"

	"github.com/spf13/cobra"
)

type fetchPage func(ctx context.Context, client *api.Client, f bom.FilterState, req pagination.Request) (api.Payload, error)

func newDataCmd(use, short string, fetch fetchPage) *cobra.Command {
	var flags *filterFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runData(cmd, flags, fetch)
		},
	}
	flags = addFilterFlags(cmd)
	return cmd
}

func runData(cmd *cobra.Command, flags *filterFlags, fetch fetchPage) error {
	value := globals.Get(cmd.Context())

	f, err := flags.state()
	if err != nil {
		return err
	}
	engine := pagination.NewEngine(flags.pageSize)
	req, err := flags.request(engine)
	if err != nil {
		return err
	}

	payload, err := fetch(cmd.Context(), value.Client, f, req)
	if err != nil {
		if msg := api.UserMessage(err); msg != "" {
			return fmt.Errorf("%s: %w", msg, err)
		}
		return err
	}
	engine.Complete(req, payload.PageResult())

	out := cmd.OutOrStdout()
	utils.RenderRecords(out, payload.Rows)
	printPageSummary(out, engine, payload)
	return nil
}

func printPageSummary(w io.Writer, engine *pagination.Engine, payload api.Payload) {
	view := dashboard.View{
		Rows:     payload.Rows,
		Page:     engine.Page(),
		PageSize: engine.PageSize(),
		Total:    engine.Total(),
		LastPage: engine.LastPage(),
		FirstRow: engine.FirstDisplayedRow(),
		LastRow:  engine.LastDisplayedRow(),
		HasMore:  engine.HasMore(),
	}
	fmt.Fprintln(w, view.Summary())
	fmt.Fprintln(w, view.PageSummary())
	if payload.NextCursor != nil && *payload.NextCursor != "" {
		fmt.Fprintf(w, "next page: --page %d --cursor %s\n", engine.Page()+1, *payload.NextCursor)
	}
}

func newBillsCmd() *cobra.Command {
	return newDataCmd(
		"bills",
		"Prints parish burials and plague deaths from the bills.",
		func(ctx context.Context, client *api.Client, f bom.FilterState, req pagination.Request) (api.Payload, error) {
			return client.Bills(ctx, f, req)
		},
	)
}

func newDeathsCmd() *cobra.Command {
	return newDataCmd(
		"deaths",
		"Prints deaths by cause.",
		func(ctx context.Context, client *api.Client, f bom.FilterState, req pagination.Request) (api.Payload, error) {
			return client.Deaths(ctx, f, req)
		},
	)
}

func newChristeningsCmd() *cobra.Command {
	return newDataCmd(
		"christenings",
		"Prints christenings.",
		func(ctx context.Context, client *api.Client, f bom.FilterState, req pagination.Request) (api.Payload, error) {
			return client.Christenings(ctx, f, req)
		},
	)
}

func newStatsCmd() *cobra.Command {
	var flags *filterFlags
	cmd := &cobra.Command{
		Use:       "stats <kind>",
		Short:     "Prints an aggregate series such as foodstuffs or ages.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(bom.SecondaryFoodstuffs), string(bom.SecondaryAges)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]
			return runData(cmd, flags, func(ctx context.Context, client *api.Client, f bom.FilterState, req pagination.Request) (api.Payload, error) {
				return client.Statistics(ctx, kind, f, req)
			})
		},
	}
	flags = addFilterFlags(cmd)
	return cmd
}

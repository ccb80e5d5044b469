package commands

import (
	"context"
	"fmt"

	"bom-dashboard/cmd/bom/globals"
	"bom-dashboard/cmd/bom/utils"
	"bom-dashboard/internal/api"
	"bom-dashboard/internal/parishes"

	"github.com/spf13/cobra"
)

func newReferenceCmd() *cobra.Command {
	var match string
	cmd := &cobra.Command{
		Use:       "reference <parishes|causes|christenings>",
		Short:     "Prints one of the lists filters are picked from.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"parishes", "causes", "christenings"},
		RunE: func(cmd *cobra.Command, args []string) error {
			client := globals.Get(cmd.Context()).Client

			var fetch func(context.Context) (api.Payload, error)
			switch args[0] {
			case "parishes":
				fetch = client.Parishes
			case "causes":
				fetch = client.AllCauses
			case "christenings":
				fetch = client.AllChristenings
			default:
				return fmt.Errorf("unknown reference list %q", args[0])
			}

			payload, err := fetch(cmd.Context())
			if err != nil {
				return err
			}

			if match != "" && args[0] == "parishes" {
				t := utils.NewTable(cmd.OutOrStdout())
				t.AppendHeader([]any{"parish", "similarity"})
				for _, m := range parishes.Resolve(match, parishes.Names(payload.Rows), 10) {
					t.AppendRow([]any{m.Name, fmt.Sprintf("%.3f", m.Similarity)})
				}
				t.Render()
				return nil
			}

			utils.RenderRecords(cmd.OutOrStdout(), payload.Rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&match, "match", "", "rank parishes by similarity to this name")
	return cmd
}

func newParishYearlyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parish-yearly <parish...>",
		Short: "Prints the yearly series of one or more parishes, names are matched loosely.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := globals.Get(cmd.Context())
			client := value.Client

			reference, err := client.Parishes(cmd.Context())
			if err != nil {
				return err
			}
			known := parishes.Names(reference.Rows)

			resolved := make([]string, len(args))
			for i, arg := range args {
				name, ok := parishes.Best(arg, known)
				if !ok {
					return fmt.Errorf("no parish matches %q", arg)
				}
				if name != arg {
					value.Telemetry.ReportDebug("resolved parish", arg, name)
				}
				resolved[i] = name
			}

			payloads, err := client.ParishesYearly(cmd.Context(), resolved)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, payload := range payloads {
				fmt.Fprintln(out, resolved[i])
				utils.RenderRecords(out, payload.Rows)
			}
			return nil
		},
	}
}

package commands

import (
	"fmt"
	"net/url"
	"strings"

	"bom-dashboard/cmd/bom/utils"
	"bom-dashboard/internal/bom"
	"bom-dashboard/internal/urlstate"

	"github.com/spf13/cobra"
)

func newURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Converts between dashboard links and filter state.",
	}
	cmd.AddCommand(newURLDecodeCmd(), newURLEncodeCmd())
	return cmd
}

// parseQuery accepts a full link or only its query string.
func parseQuery(raw string) (url.Values, error) {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	}
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	return url.ParseQuery(raw)
}

func newURLDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <link>",
		Short: "Prints the state a link restores.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := parseQuery(args[0])
			if err != nil {
				return err
			}
			s := urlstate.Parse(query)
			f := s.Filters

			utils.RenderPairs(cmd.OutOrStdout(), "state", [][2]any{
				{"primary tab", s.Tabs.Primary.Label()},
				{"secondary tab", s.Tabs.Secondary.Label()},
				{"bill type", f.BillType},
				{"years", fmt.Sprintf("%d-%d", f.StartYear, f.EndYear)},
				{"weeks", fmt.Sprintf("%d-%d", f.StartWeek, f.EndWeek)},
				{"count type", valueOr(f.CountType, bom.CountTypeAll)},
				{"parishes", strings.Join(f.Parishes, ", ")},
				{"causes", strings.Join(f.CausesOfDeath, ", ")},
				{"christenings", strings.Join(f.Christenings, ", ")},
				{"page", s.Page},
			})
			return nil
		},
	}
}

func newURLEncodeCmd() *cobra.Command {
	var flags *filterFlags
	var primary, secondary string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Prints the query string for the given filters.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := flags.state()
			if err != nil {
				return err
			}

			tabs := bom.TabSelection{
				Primary:   bom.PrimaryTabForBillType(f.BillType),
				Secondary: bom.SecondaryParishes,
			}
			if primary != "" {
				tab, ok := bom.ParsePrimaryTab(primary)
				if !ok {
					return fmt.Errorf("unknown primary tab %q", primary)
				}
				tabs.Primary = tab
				f = f.WithBillType(tab.BillType())
			}
			if secondary != "" {
				tab, ok := bom.ParseSecondaryTab(secondary)
				if !ok {
					return fmt.Errorf("unknown secondary tab %q", secondary)
				}
				tabs.Secondary = tab
			}

			query := urlstate.Encode(urlstate.State{
				Filters:   f,
				Page:      max(flags.page, 1),
				UseCursor: flags.page <= 1,
				Tabs:      tabs,
			})
			fmt.Fprintln(cmd.OutOrStdout(), "?"+query.Encode())
			return nil
		},
	}
	flags = addFilterFlags(cmd)
	cmd.Flags().StringVar(&primary, "primary-tab", "", "annual, yearly or bread-death")
	cmd.Flags().StringVar(&secondary, "secondary-tab", "", "parishes, deaths, christenings, foodstuffs or ages")
	return cmd
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

package commands

import (
	"context"
	"io"
	"net/url"
	"os"
	"time"

	"bom-dashboard/cmd/bom/globals"
	"bom-dashboard/internal/components/telemetry"
	"bom-dashboard/internal/dashboard"
	"bom-dashboard/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBrowseCmd() *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "browse [link]",
		Short: "Opens the interactive browser, optionally restoring a dashboard link.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			value := globals.Get(ctx)
			verbose, _ := cmd.Flags().GetBool("verbose")
			logJSON, _ := cmd.Flags().GetBool("log-json")

			// anything written to the terminal would corrupt the screen
			var logOut io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err != nil {
					return err
				}
				defer f.Close()
				logOut = f
			}
			telemetry.InitSlog(logOut, verbose, logJSON)

			otel, err := telemetry.Setup(ctx, "bom", value.Config.Telemetry)
			if err != nil {
				return err
			}
			defer otel.Shutdown(context.WithoutCancel(ctx))
			if value.Config.Telemetry.Enabled() {
				telemetry.InstrumentPerfStats(ctx, value.Telemetry, 10*time.Second)
			}

			query := url.Values{}
			if len(args) == 1 {
				query, err = parseQuery(args[0])
				if err != nil {
					return err
				}
			}

			history := dashboard.NewMemoryHistory()
			ctrl := dashboard.New(value.Client, dashboard.Options{
				PageSize:      value.Config.Dashboard.PageSize,
				SlowThreshold: value.Config.SlowThreshold(),
				StaticTimeout: value.Config.StaticTimeout(),
				History:       history,
				Clock:         value.Clock,
				Telemetry:     value.Telemetry,
			})

			program := tea.NewProgram(
				tui.NewModel(ctx, ctrl, history, query),
				tea.WithAltScreen(),
				tea.WithContext(ctx),
			)
			_, err = program.Run()
			value.Client.CancelAllRequests()
			return err
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while browsing")
	return cmd
}

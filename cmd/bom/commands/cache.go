package commands

import (
	"errors"
	"fmt"

	"bom-dashboard/cmd/bom/globals"
	"bom-dashboard/cmd/bom/utils"

	"github.com/spf13/cobra"
)

var errNoSnapshot = errors.New("no cache snapshot is configured, set cache.snapshot in bom.json5")

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspects the cache snapshot shared between invocations.",
	}
	cmd.AddCommand(newCacheStatsCmd(), newCacheClearCmd())
	return cmd
}

func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Prints cache entry counts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value := globals.Get(cmd.Context())
			if value.Snapshot == nil {
				return errNoSnapshot
			}

			memory := value.Cache.Stats()
			stored, err := value.Snapshot.Stats(cmd.Context(), value.Clock.Now())
			if err != nil {
				return err
			}
			utils.RenderPairs(cmd.OutOrStdout(), "cache", [][2]any{
				{"loaded entries", memory.Total},
				{"active", memory.Active},
				{"expired", memory.Expired},
				{"stored entries", stored.Entries},
				{"stored expired", stored.Expired},
				{"stored bytes", stored.Bytes},
			})
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [endpoint]",
		Short: "Removes cached responses of one endpoint, or all of them.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := globals.Get(cmd.Context())
			if value.Snapshot == nil {
				return errNoSnapshot
			}

			endpoint := ""
			if len(args) == 1 {
				endpoint = args[0]
			}
			// the snapshot is rewritten from the store when the command exits
			removed := value.Client.ClearCache(endpoint)
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached responses\n", removed)
			return nil
		},
	}
}

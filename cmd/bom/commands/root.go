package commands

import (
	"context"
	"fmt"
	"os"

	"bom-dashboard/cmd/bom/globals"
	"bom-dashboard/internal/api"
	"bom-dashboard/internal/cache"
	"bom-dashboard/internal/components/chrono"
	"bom-dashboard/internal/components/telemetry"
	"bom-dashboard/internal/config"
	"bom-dashboard/lib/restyutil"
	"bom-dashboard/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	baseURL    string
	verbose    bool
	logJSON    bool
	noCache    bool
	dumpHTTP   string
}

// NewRootCmd builds the bom command tree.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "bom",
		Short:         "bom browses the London Bills of Mortality.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			telemetry.InitSlog(cmd.ErrOrStderr(), flags.verbose, flags.logJSON)

			value, err := setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			cmd.SetContext(globals.Set(cmd.Context(), value))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return teardown(cmd.Context(), globals.Get(cmd.Context()))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file, by default bom.json5 is searched for upwards from the working directory")
	pf.StringVar(&flags.baseURL, "base-url", "", "base url of the data API")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log debug messages")
	pf.BoolVar(&flags.logJSON, "log-json", false, "log as JSON")
	pf.BoolVar(&flags.noCache, "no-cache", false, "do not read or write the cache snapshot")
	pf.StringVar(&flags.dumpHTTP, "dump-http", "", "write every raw HTTP exchange to this directory")

	root.AddCommand(
		newBillsCmd(),
		newDeathsCmd(),
		newChristeningsCmd(),
		newStatsCmd(),
		newReferenceCmd(),
		newParishYearlyCmd(),
		newURLCmd(),
		newCacheCmd(),
		newBrowseCmd(),
	)
	return root
}

func setup(ctx context.Context, flags *rootFlags) (*globals.Value, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cwd, flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.baseURL != "" {
		cfg.API.BaseURL = flags.baseURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	clock := chrono.NewStandardImpl()
	tel := telemetry.SlogAPI{}
	store := cache.New[api.Payload](clock)

	var dump restyutil.Output
	if flags.dumpHTTP != "" {
		output, err := restyutil.NewFilesystemOutput(flags.dumpHTTP)
		if err != nil {
			return nil, err
		}
		dump = output
	}

	value := &globals.Value{
		Config:    cfg,
		Clock:     clock,
		Telemetry: tel,
		Cache:     store,
		Client: api.New(api.Options{
			BaseURL:   cfg.API.BaseURL,
			Timeout:   cfg.Timeout(),
			TTL:       cfg.TTL(),
			Cache:     store,
			Telemetry: tel,
			Dump:      dump,
		}),
	}

	if flags.noCache || !cfg.Cache.Snapshot.Enabled() {
		return value, nil
	}

	db, err := cfg.Cache.Snapshot.OpenDB()
	if err != nil {
		return nil, fmt.Errorf("open cache snapshot: %w", err)
	}
	snapshot, err := cache.NewSnapshot[api.Payload](ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	restored, err := snapshot.Load(ctx, store)
	if err != nil {
		tel.ReportWarning("cache.snapshot-load", err)
	} else {
		tel.ReportDebug("restored cache snapshot", restored)
	}

	value.DB = db
	value.Snapshot = &snapshot
	return value, nil
}

func teardown(ctx context.Context, value *globals.Value) error {
	if value.Snapshot == nil {
		return nil
	}
	defer value.DB.Close()

	saved, err := value.Snapshot.Save(context.WithoutCancel(ctx), value.Cache)
	if err != nil {
		return fmt.Errorf("save cache snapshot: %w", err)
	}
	value.Telemetry.ReportDebug("saved cache snapshot", saved)
	return nil
}

func Execute(ctx context.Context) {
	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		serviceutil.Fatal("bom", err)
	}
}

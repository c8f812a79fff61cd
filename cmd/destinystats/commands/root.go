package commands

import (
	"context"
	"destinystats/internal/archive"
	"destinystats/internal/bungie"
	"destinystats/internal/config"
	"destinystats/lib/restyutil"
	"destinystats/lib/telemetry"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	verbose     bool
	printJson   bool
	archiveRuns bool
)

// env is what every command runs with, set up by the root command's
// PersistentPreRunE.
type env struct {
	config  config.Config
	tel     telemetry.API
	otel    telemetry.Telemetry
	fetcher bungie.Fetcher
}

var current env

var rootCmd = &cobra.Command{
	Use:   "destinystats",
	Short: "destinystats collects Destiny character stats and vendor snapshots from the Bungie API.",

	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		otel, err := telemetry.Setup(cmd.Context(), "destinystats", cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}

		timeout, err := cfg.RequestTimeout()
		if err != nil {
			return err
		}

		var output restyutil.InstrumentOutput
		if verbose && cfg.DebugOutput != "" {
			fsOutput, err := restyutil.NewFilesystemOutput(cfg.DebugOutput)
			if err != nil {
				return fmt.Errorf("create debug output: %w", err)
			}
			output = fsOutput
		}

		tel := telemetry.SlogAPI{}
		current = env{
			config: cfg,
			tel:    tel,
			otel:   otel,
			fetcher: bungie.NewClient(bungie.ClientOptions{
				BaseUrl:   cfg.BaseUrl,
				Timeout:   timeout,
				UserAgent: cfg.UserAgent,
				Output:    output,
			}, tel),
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		err := current.otel.Shutdown(ctx)
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", fmt.Sprintf("Path to the config file (default: closest %s).", config.FileName))
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log debug output.")
	flags.BoolVar(&printJson, "json", false, "Print the resulting state as json instead of tables.")
	flags.BoolVar(&archiveRuns, "archive", false, "Store the result in the configured archive.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}

// openArchive falls back to destinystats.db in the working directory when
// no archive is configured.
func openArchive(ctx context.Context) (archive.Store, error) {
	cfg := current.config.Archive
	if !cfg.Enabled() {
		cfg.File = "destinystats.db"
	}
	return archive.Open(ctx, cfg)
}

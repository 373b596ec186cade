package main

import (
	"fmt"

	"camstation/internal/config"
	"camstation/internal/logger"
	"camstation/internal/repository"
	"camstation/internal/repository/backend"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// options holds the store selection shared by every subcommand. Empty
// values fall back to the station configuration.
type options struct {
	backend string
	logFile string
	dbPath  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "logctl",
		Short:         "Inspect and maintain the capture log",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.PersistentFlags().StringVar(&opts.backend, "backend", "", "Session log backend: json or sqlite (default from LOG_BACKEND)")
	root.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "JSON session log path (default from LOG_FILE)")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (default from DB_PATH)")

	root.AddCommand(
		newListCmd(opts),
		newStatsCmd(opts),
		newMigrateCmd(opts),
		newTailCmd(opts),
	)
	return root
}

// config returns the station configuration with the command line overrides applied.
func (o *options) config() *config.Config {
	cfg := config.Load()
	if o.backend != "" {
		cfg.LogBackend = o.backend
	}
	if o.logFile != "" {
		cfg.LogFile = o.logFile
	}
	if o.dbPath != "" {
		cfg.DatabasePath = o.dbPath
	}
	return cfg
}

func (o *options) open() (repository.SessionLogStore, *config.Config, error) {
	cfg := o.config()
	store, err := backend.Open(cfg, logger.NewNop())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session log: %w", err)
	}
	return store, cfg, nil
}

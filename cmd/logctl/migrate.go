package main

import (
	"errors"
	"fmt"

	"camstation/internal/logger"
	"camstation/internal/repository"
	"camstation/internal/repository/jsonfile"
	"camstation/internal/repository/sqlite"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *options) *cobra.Command {
	var atomic bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy the JSON session log into the SQLite database",
		Long: "Copies every record of the JSON session log (--log-file) into the SQLite\n" +
			"database (--db) in capture order. Records already in the database are\n" +
			"skipped, so the command can be re-run after an interrupted migration.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.config()
			log := logger.NewNop()

			source, err := jsonfile.New(cfg.LogFile, log)
			if err != nil {
				return err
			}
			records, err := source.ReadAll(cmd.Context())
			if err != nil {
				return err
			}

			db, err := sqlite.New(cfg.DatabasePath)
			if err != nil {
				return err
			}
			target := sqlite.NewCaptureRepository(db, log)
			defer target.Close()

			out := cmd.OutOrStdout()
			if atomic {
				if err := target.AppendBatch(cmd.Context(), records); err != nil {
					return fmt.Errorf("migration rolled back: %w", err)
				}
				fmt.Fprintf(out, "Migrated %d record(s) from %s to %s\n", len(records), cfg.LogFile, cfg.DatabasePath)
				return nil
			}

			bar := progressbar.NewOptions(len(records),
				progressbar.OptionSetDescription("Migrating"),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionShowCount(),
			)

			migrated, skipped := 0, 0
			for _, rec := range records {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				switch err := target.Append(cmd.Context(), rec); {
				case err == nil:
					migrated++
				case errors.Is(err, repository.ErrDuplicate):
					skipped++
				default:
					return fmt.Errorf("record %s: %w", rec.ImageFilename, err)
				}
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			fmt.Fprintf(out, "Migrated %d record(s) from %s to %s, %d already present\n",
				migrated, cfg.LogFile, cfg.DatabasePath, skipped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&atomic, "atomic", false, "Insert everything in one transaction and fail on the first duplicate")
	return cmd
}

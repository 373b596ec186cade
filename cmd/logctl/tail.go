package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"camstation/internal/model"
	"camstation/internal/repository"
	"camstation/internal/repository/backend"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newTailCmd(opts *options) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print capture records as the station appends them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := opts.open()
			if err != nil {
				return err
			}
			defer store.Close()

			return follow(cmd.Context(), store, backend.Target(cfg), cmd.OutOrStdout(), cmd.ErrOrStderr(), all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Print the records already in the log first")
	return cmd
}

// follow watches the directory holding target and prints every record that
// shows up in the store until ctx is done. The directory is watched rather
// than the file because the JSON log is replaced by rename on each write.
func follow(ctx context.Context, store repository.SessionLogStore, target string, out, errOut io.Writer, all bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	seen := make(map[string]struct{})
	if !all {
		records, err := store.ReadAll(ctx)
		if err != nil {
			return err
		}
		for _, rec := range records {
			seen[rec.ImageFilename] = struct{}{}
		}
	}
	if err := printNew(ctx, store, seen, out); err != nil {
		return err
	}

	base := filepath.Base(target)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// sqlite writes land in the -wal and -journal siblings
			if !strings.HasPrefix(filepath.Base(event.Name), base) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := printNew(ctx, store, seen, out); err != nil {
				fmt.Fprintf(errOut, "reading log: %v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(errOut, "watch error: %v\n", err)
		}
	}
}

// printNew prints the records not in seen and adds them to it.
func printNew(ctx context.Context, store repository.SessionLogStore, seen map[string]struct{}, out io.Writer) error {
	records, err := store.ReadAll(ctx)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if _, ok := seen[rec.ImageFilename]; ok {
			continue
		}
		seen[rec.ImageFilename] = struct{}{}
		fmt.Fprintln(out, formatRecord(rec))
	}
	return nil
}

func formatRecord(rec model.CaptureRecord) string {
	return fmt.Sprintf("%s %s  %-6s  %-5s  %s", rec.Date, rec.Time, rec.Gender, rec.Age, rec.ImageFilename)
}

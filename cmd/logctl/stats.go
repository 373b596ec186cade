package main

import (
	"fmt"
	"io"
	"strings"

	"camstation/internal/model"
	"camstation/internal/service/stats"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newStatsCmd(opts *options) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the age and gender distributions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := model.ValidateSelectors("", "", date); err != nil {
				return err
			}

			store, _, err := opts.open()
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.ReadAll(cmd.Context())
			if err != nil {
				return err
			}

			summary := stats.Counts(records, date)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Date: %s, %d capture(s)\n", summary.Date, summary.Total)
			renderDistribution(out, summary.Age)
			renderDistribution(out, summary.Gender)
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Restrict to this date (YYYY-MM-DD)")
	return cmd
}

func renderDistribution(w io.Writer, d stats.Distribution) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(strings.ToUpper(string(d.Field)))
	t.AppendHeader(table.Row{"Category", "Count", "Percent"})

	percentages := d.Percentages()
	for i, b := range d.Buckets {
		t.AppendRow(table.Row{b.Category, b.Count, fmt.Sprintf("%.1f%%", percentages[i])})
	}
	t.AppendFooter(table.Row{"Total", d.Total, ""})
	t.Render()
}

package main

import (
	"fmt"
	"io"

	"camstation/internal/dto"
	"camstation/internal/model"
	"camstation/internal/service/query"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newListCmd(opts *options) *cobra.Command {
	var (
		filters dto.RecordFilters
		sortBy  string
		desc    bool
		page    int
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the capture log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := model.ValidateSelectors(filters.Age, filters.Gender, filters.Date); err != nil {
				return err
			}
			field, ok := query.ParseSortField(sortBy)
			if !ok {
				return fmt.Errorf("unknown sort field %q", sortBy)
			}

			store, cfg, err := opts.open()
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.ReadAll(cmd.Context())
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = cfg.PageSize
			}

			result := query.GetPage(records, filters, query.SortState{Field: field, Ascending: !desc}, page, limit)
			renderPage(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filters.Age, "age", "a", "", "Only show this age bracket, e.g. 21-25")
	cmd.Flags().StringVarP(&filters.Gender, "gender", "g", "", "Only show Male or Female")
	cmd.Flags().StringVarP(&filters.Date, "date", "d", "", "Only show this date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&sortBy, "sort", "s", "", "Sort by date, time, gender, age or filename")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort in descending order")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page to print (one-indexed)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Records per page (default from PAGE_SIZE)")
	return cmd
}

// renderPage prints p as a table numbered across pages.
func renderPage(w io.Writer, p query.Page) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Date", "Time", "Gender", "Age", "Image"})

	offset := (p.Page - 1) * p.PageSize
	for i, rec := range p.Records {
		t.AppendRow(table.Row{
			offset + i + 1,
			dto.FormatDisplayDate(rec.Date),
			dto.FormatDisplayTime(rec.Time),
			rec.Gender,
			rec.Age,
			rec.ImageFilename,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", fmt.Sprintf("page %d/%d", p.Page, p.TotalPages), fmt.Sprintf("%d record(s)", p.Total)})
	t.Render()
}

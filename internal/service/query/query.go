// Package query derives filtered, sorted and paginated views of the capture
// log. All functions work on copies and never modify their input.
package query

import (
	"cmp"
	"slices"
	"strings"

	"camstation/internal/dto"
	"camstation/internal/model"
)

// SortField names a column records can be ordered by.
type SortField string

const (
	FieldNone     SortField = ""
	FieldDate     SortField = "date"
	FieldTime     SortField = "time"
	FieldGender   SortField = "gender"
	FieldAge      SortField = "age"
	FieldFilename SortField = "filename"
)

// SortFields lists every sortable field.
var SortFields = []SortField{FieldDate, FieldTime, FieldGender, FieldAge, FieldFilename}

// ParseSortField maps a request value onto a field. The empty string selects
// capture order.
func ParseSortField(s string) (SortField, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return FieldNone, true
	case "age_bracket":
		return FieldAge, true
	case "image", "image_filename":
		return FieldFilename, true
	}
	for _, f := range SortFields {
		if SortField(s) == f {
			return f, true
		}
	}
	return FieldNone, false
}

// SortState is the column and direction currently selected in a table view.
type SortState struct {
	Field     SortField
	Ascending bool
}

// Toggle selects field. Choosing the current field again flips the
// direction; choosing another field starts ascending.
func (s *SortState) Toggle(field SortField) {
	if s.Field == field {
		s.Ascending = !s.Ascending
		return
	}
	s.Field = field
	s.Ascending = true
}

// Page is one page of a view.
type Page struct {
	Records    []model.CaptureRecord
	Page       int // one-indexed
	PageSize   int
	TotalPages int
	Total      int // records across all pages
}

// Filter keeps the records matching every selector of f. An unknown age or
// gender selector matches nothing.
func Filter(records []model.CaptureRecord, f dto.RecordFilters) []model.CaptureRecord {
	out := make([]model.CaptureRecord, 0, len(records))

	var age model.AgeBracket
	if !model.IsAll(f.Age) {
		parsed, err := model.ParseAgeBracket(f.Age)
		if err != nil {
			return out
		}
		age = parsed
	}
	var gender model.Gender
	if !model.IsAll(f.Gender) {
		parsed, err := model.ParseGender(f.Gender)
		if err != nil {
			return out
		}
		gender = parsed
	}
	date := strings.TrimSpace(f.Date)
	if model.IsAll(date) {
		date = ""
	}

	for _, r := range records {
		if age != "" && r.Age != age {
			continue
		}
		if gender != "" && r.Gender != gender {
			continue
		}
		if date != "" && r.Date != date {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Sort returns a stably sorted copy of records. Categorical fields follow
// their enumeration order rather than their spelling.
func Sort(records []model.CaptureRecord, s SortState) []model.CaptureRecord {
	out := slices.Clone(records)
	if out == nil {
		out = []model.CaptureRecord{}
	}
	if s.Field == FieldNone {
		return out
	}

	compare := comparator(s.Field)
	slices.SortStableFunc(out, func(a, b model.CaptureRecord) int {
		if s.Ascending {
			return compare(a, b)
		}
		return compare(b, a)
	})
	return out
}

func comparator(field SortField) func(a, b model.CaptureRecord) int {
	switch field {
	case FieldDate:
		return func(a, b model.CaptureRecord) int {
			// Equivalent to cmp.Or(dateCmp, timeCmp); cmp.Or needs Go 1.22.
			if c := cmp.Compare(a.Date, b.Date); c != 0 {
				return c
			}
			return cmp.Compare(a.Time, b.Time)
		}
	case FieldTime:
		return func(a, b model.CaptureRecord) int { return cmp.Compare(a.Time, b.Time) }
	case FieldGender:
		return func(a, b model.CaptureRecord) int { return cmp.Compare(a.Gender.Index(), b.Gender.Index()) }
	case FieldAge:
		return func(a, b model.CaptureRecord) int { return cmp.Compare(a.Age.Index(), b.Age.Index()) }
	case FieldFilename:
		return func(a, b model.CaptureRecord) int { return cmp.Compare(a.ImageFilename, b.ImageFilename) }
	}
	return func(a, b model.CaptureRecord) int { return 0 }
}

// TotalPages returns ceil(n/pageSize), at least one.
func TotalPages(n, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	if n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// Paginate returns page (one-indexed) of records. Out-of-range pages are
// clamped to the first or last page; a pageSize below one is treated as one.
func Paginate(records []model.CaptureRecord, pageSize, page int) Page {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := TotalPages(len(records), pageSize)
	page = min(max(page, 1), totalPages)

	start := min((page-1)*pageSize, len(records))
	end := min(start+pageSize, len(records))

	view := make([]model.CaptureRecord, end-start)
	copy(view, records[start:end])

	return Page{
		Records:    view,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Total:      len(records),
	}
}

// GetPage filters, sorts and paginates records in that order.
func GetPage(records []model.CaptureRecord, f dto.RecordFilters, s SortState, page, pageSize int) Page {
	return Paginate(Sort(Filter(records, f), s), pageSize, page)
}

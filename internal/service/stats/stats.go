// Package stats aggregates capture records into chart-ready distributions.
package stats

import (
	"slices"

	"camstation/internal/dto"
	"camstation/internal/model"
	"camstation/internal/service/query"
)

// Field selects the category a distribution is computed over.
type Field string

const (
	FieldAge    Field = "age"
	FieldGender Field = "gender"
)

// Bucket is the count of one category.
type Bucket struct {
	Category string
	Count    int
}

// Distribution holds one bucket per category of a closed enumeration, in
// enumeration order, including categories that never occur.
type Distribution struct {
	Field   Field
	Buckets []Bucket
	Total   int
}

// Summary is what the charts view shows for one date scope.
type Summary struct {
	Date   string
	Total  int
	Age    Distribution
	Gender Distribution
}

// categories returns the enumeration for field.
func categories(field Field) []string {
	switch field {
	case FieldAge:
		out := make([]string, len(model.AgeBrackets))
		for i, a := range model.AgeBrackets {
			out[i] = string(a)
		}
		return out
	case FieldGender:
		out := make([]string, len(model.Genders))
		for i, g := range model.Genders {
			out[i] = string(g)
		}
		return out
	}
	return nil
}

// CountBy counts records per category of field. Records outside the
// enumeration are not counted, so Total equals the sum of the buckets.
func CountBy(records []model.CaptureRecord, field Field) Distribution {
	cats := categories(field)
	d := Distribution{Field: field, Buckets: make([]Bucket, len(cats))}
	for i, c := range cats {
		d.Buckets[i] = Bucket{Category: c}
	}

	for _, r := range records {
		var idx int
		switch field {
		case FieldAge:
			idx = r.Age.Index()
		case FieldGender:
			idx = r.Gender.Index()
		default:
			idx = -1
		}
		if idx < 0 {
			continue
		}
		d.Buckets[idx].Count++
		d.Total++
	}
	return d
}

// Count returns the count of category, or zero.
func (d Distribution) Count(category string) int {
	for _, b := range d.Buckets {
		if b.Category == category {
			return b.Count
		}
	}
	return 0
}

// Percentages returns count/total*100 per bucket, all zero when Total is zero.
func (d Distribution) Percentages() []float64 {
	out := make([]float64, len(d.Buckets))
	if d.Total == 0 {
		return out
	}
	for i, b := range d.Buckets {
		out[i] = float64(b.Count) / float64(d.Total) * 100
	}
	return out
}

// CategoryCounts converts d into the API representation.
func (d Distribution) CategoryCounts() []dto.CategoryCount {
	percentages := d.Percentages()
	out := make([]dto.CategoryCount, len(d.Buckets))
	for i, b := range d.Buckets {
		out[i] = dto.CategoryCount{Category: b.Category, Count: b.Count, Percent: percentages[i]}
	}
	return out
}

// Counts computes both distributions, optionally restricted to one date.
// An empty date or "All" covers every record.
func Counts(records []model.CaptureRecord, date string) Summary {
	if model.IsAll(date) {
		date = model.All
	} else {
		records = query.Filter(records, dto.RecordFilters{Date: date})
	}

	return Summary{
		Date:   date,
		Total:  len(records),
		Age:    CountBy(records, FieldAge),
		Gender: CountBy(records, FieldGender),
	}
}

// CountsData converts s into the API representation.
func (s Summary) CountsData() dto.CountsData {
	return dto.CountsData{
		Date:   s.Date,
		Total:  s.Total,
		Age:    s.Age.CategoryCounts(),
		Gender: s.Gender.CategoryCounts(),
	}
}

// UniqueDates returns the distinct record dates in ascending order.
func UniqueDates(records []model.CaptureRecord) []string {
	seen := make(map[string]struct{}, len(records))
	dates := make([]string, 0)
	for _, r := range records {
		if _, ok := seen[r.Date]; ok {
			continue
		}
		seen[r.Date] = struct{}{}
		dates = append(dates, r.Date)
	}
	slices.Sort(dates)
	return dates
}

package stats

import (
	"fmt"
	"testing"

	"camstation/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(date string, gender model.Gender, age model.AgeBracket, i int) model.CaptureRecord {
	return model.CaptureRecord{
		Date:          date,
		Time:          fmt.Sprintf("10:00:%02d", i),
		Gender:        gender,
		Age:           age,
		ImageFilename: fmt.Sprintf("captured_0_%d.png", i),
	}
}

func scenarioRecords() []model.CaptureRecord {
	return []model.CaptureRecord{
		rec("2024-05-01", model.Male, "21-25", 0),
		rec("2024-05-01", model.Female, "21-25", 1),
		rec("2024-05-02", model.Female, "26-30", 2),
		rec("2024-05-02", model.Male, "21-25", 3),
	}
}

func TestCountBy_Scenario(t *testing.T) {
	records := scenarioRecords()

	gender := CountBy(records, FieldGender)
	assert.Equal(t, []Bucket{{"Male", 2}, {"Female", 2}}, gender.Buckets)
	assert.Equal(t, []float64{50, 50}, gender.Percentages())

	age := CountBy(records, FieldAge)
	require.Len(t, age.Buckets, len(model.AgeBrackets))
	assert.Equal(t, 3, age.Count("21-25"))
	assert.Equal(t, 1, age.Count("26-30"))
	assert.Equal(t, 0, age.Count("51-55"))
	assert.Equal(t, 4, age.Total)
	assert.InDelta(t, 75.0, age.Percentages()[2], 1e-9)
}

func TestCountBy_EnumerationOrder(t *testing.T) {
	d := CountBy(nil, FieldAge)

	var got []string
	for _, b := range d.Buckets {
		got = append(got, b.Category)
	}
	assert.Equal(t, []string{"11-15", "16-20", "21-25", "26-30", "31-35", "36-40", "41-45", "46-50", "51-55"}, got)
}

func TestCountBy_TotalsMatchRecordCount(t *testing.T) {
	var records []model.CaptureRecord
	for i := 0; i < 37; i++ {
		records = append(records, rec("2024-05-01", model.Genders[i%2], model.AgeBrackets[(i*7)%len(model.AgeBrackets)], i))
	}

	for _, field := range []Field{FieldAge, FieldGender} {
		d := CountBy(records, field)
		sum := 0
		for _, b := range d.Buckets {
			sum += b.Count
		}
		assert.Equal(t, len(records), sum, field)
		assert.Equal(t, len(records), d.Total, field)

		pct := 0.0
		for _, p := range d.Percentages() {
			pct += p
		}
		assert.InDelta(t, 100.0, pct, 1e-9, field)
	}
}

func TestCountBy_Empty(t *testing.T) {
	for _, field := range []Field{FieldAge, FieldGender} {
		d := CountBy(nil, field)

		assert.Zero(t, d.Total)
		for _, b := range d.Buckets {
			assert.Zero(t, b.Count)
		}
		for _, p := range d.Percentages() {
			assert.Zero(t, p)
		}
	}
}

func TestCounts_DateScope(t *testing.T) {
	records := scenarioRecords()

	all := Counts(records, "")
	assert.Equal(t, model.All, all.Date)
	assert.Equal(t, 4, all.Total)

	day := Counts(records, "2024-05-02")
	assert.Equal(t, "2024-05-02", day.Date)
	assert.Equal(t, 2, day.Total)
	assert.Equal(t, 1, day.Gender.Count("Male"))
	assert.Equal(t, 1, day.Age.Count("26-30"))

	none := Counts(records, "2023-01-01")
	assert.Zero(t, none.Total)
	assert.Len(t, none.Age.Buckets, len(model.AgeBrackets))
}

func TestSummary_CountsData(t *testing.T) {
	data := Counts(scenarioRecords(), "All").CountsData()

	assert.Equal(t, "All", data.Date)
	assert.Equal(t, 4, data.Total)
	require.Len(t, data.Gender, 2)
	assert.Equal(t, "Male", data.Gender[0].Category)
	assert.Equal(t, 2, data.Gender[0].Count)
	assert.Equal(t, 50.0, data.Gender[0].Percent)
	assert.Len(t, data.Age, 9)
}

func TestUniqueDates(t *testing.T) {
	records := []model.CaptureRecord{
		rec("2024-05-03", model.Male, "21-25", 0),
		rec("2024-05-01", model.Male, "21-25", 1),
		rec("2024-05-03", model.Male, "21-25", 2),
		rec("2024-05-02", model.Male, "21-25", 3),
	}

	assert.Equal(t, []string{"2024-05-01", "2024-05-02", "2024-05-03"}, UniqueDates(records))
	assert.Empty(t, UniqueDates(nil))
}

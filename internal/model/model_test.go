package model

import (
	"encoding/json"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAgeBracket(t *testing.T) {
	tests := []struct {
		input    string
		expected AgeBracket
		wantErr  bool
	}{
		{"21-25", "21-25", false},
		{" 11-15 ", "11-15", false},
		{"(41-45)", "41-45", false},
		{"(51-55)", "51-55", false},
		{"56-60", "", true},
		{"", "", true},
		{"adult", "", true},
	}

	for _, tt := range tests {
		got, err := ParseAgeBracket(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownAge, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.expected, got)
	}
}

func TestParseGender(t *testing.T) {
	g, err := ParseGender("female")
	require.NoError(t, err)
	assert.Equal(t, Female, g)

	g, err = ParseGender("Male")
	require.NoError(t, err)
	assert.Equal(t, Male, g)

	_, err = ParseGender("unknown")
	assert.ErrorIs(t, err, ErrUnknownGender)
}

func TestCategoryOrdering(t *testing.T) {
	assert.Equal(t, 0, AgeBracket("11-15").Index())
	assert.Equal(t, 8, AgeBracket("51-55").Index())
	assert.Equal(t, -1, AgeBracket("(41-45)").Index())
	assert.Equal(t, 0, Male.Index())
	assert.Equal(t, 1, Female.Index())
	assert.False(t, Gender("Other").Valid())
}

func TestIsAll(t *testing.T) {
	assert.True(t, IsAll(""))
	assert.True(t, IsAll("All"))
	assert.True(t, IsAll("all"))
	assert.False(t, IsAll("Male"))
}

func TestValidateSelectors(t *testing.T) {
	tests := []struct {
		name              string
		age, gender, date string
		wantErr           error
	}{
		{"all empty", "", "", "", nil},
		{"explicit All", "All", "all", "All", nil},
		{"valid values", "21-25", "female", "2024-05-01", nil},
		{"legacy age spelling", "(41-45)", "", "", nil},
		{"unknown age", "90-95", "", "", ErrUnknownAge},
		{"unknown gender", "", "robot", "", ErrUnknownGender},
		{"US date", "", "", "05/01/2024", ErrInvalidDate},
		{"impossible date", "", "", "2024-13-01", ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSelectors(tt.age, tt.gender, tt.date)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewCaptureRecord(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)

	rec := NewCaptureRecord(at, "26-30", Female, "captured_0_20240309140507_0.png")

	assert.Equal(t, "2024-03-09", rec.Date)
	assert.Equal(t, "14:05:07", rec.Time)
	require.NoError(t, rec.Validate())

	ts, err := rec.Timestamp()
	require.NoError(t, err)
	assert.True(t, ts.Equal(at))
}

func TestCaptureRecord_JSONFieldNames(t *testing.T) {
	rec := CaptureRecord{Date: "2024-03-09", Time: "14:05:07", Gender: Male, Age: "21-25", ImageFilename: "a.png"}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, map[string]string{
		"Date":                    "2024-03-09",
		"Time":                    "14:05:07",
		"Gender":                  "Male",
		"Age":                     "21-25",
		"Image Captured Filename": "a.png",
	}, fields)
}

func TestCaptureRecord_Validate(t *testing.T) {
	valid := CaptureRecord{Date: "2024-03-09", Time: "14:05:07", Gender: Male, Age: "21-25", ImageFilename: "a.png"}
	require.NoError(t, valid.Validate())

	broken := []CaptureRecord{
		{Date: "03/09/2024", Time: "14:05:07", Gender: Male, Age: "21-25", ImageFilename: "a.png"},
		{Date: "2024-03-09", Time: "02:05 PM", Gender: Male, Age: "21-25", ImageFilename: "a.png"},
		{Date: "2024-03-09", Time: "14:05:07", Gender: "X", Age: "21-25", ImageFilename: "a.png"},
		{Date: "2024-03-09", Time: "14:05:07", Gender: Male, Age: "99-100", ImageFilename: "a.png"},
		{Date: "2024-03-09", Time: "14:05:07", Gender: Male, Age: "21-25"},
	}
	for _, rec := range broken {
		assert.Error(t, rec.Validate(), "%+v", rec)
	}
}

func TestCaptureRecord_Normalize(t *testing.T) {
	rec := CaptureRecord{Date: "2024-03-09", Time: "14:05:07", Gender: "female", Age: "(46-50)", ImageFilename: "a.png"}

	got, err := rec.Normalize()
	require.NoError(t, err)
	assert.Equal(t, Female, got.Gender)
	assert.Equal(t, AgeBracket("46-50"), got.Age)
}

func TestPadBox(t *testing.T) {
	bounds := image.Rect(0, 0, 640, 480)

	tests := []struct {
		name     string
		box      image.Rectangle
		padding  int
		expected image.Rectangle
	}{
		{"interior", image.Rect(100, 100, 200, 200), 20, image.Rect(80, 80, 220, 220)},
		{"clamped top-left", image.Rect(5, 10, 50, 60), 20, image.Rect(0, 0, 70, 80)},
		{"clamped bottom-right", image.Rect(600, 450, 640, 480), 20, image.Rect(580, 430, 640, 480)},
		{"zero padding", image.Rect(10, 10, 20, 20), 0, image.Rect(10, 10, 20, 20)},
		{"outside frame", image.Rect(700, 500, 800, 600), 20, image.Rectangle{}},
		{"inverted corners", image.Rect(200, 200, 100, 100), 0, image.Rect(100, 100, 200, 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PadBox(tt.box, tt.padding, bounds)
			if tt.expected.Empty() {
				assert.True(t, got.Empty())
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

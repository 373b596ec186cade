package model

import (
	"errors"
	"fmt"
	"image"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// CaptureRecord is one logged capture event. Records are never changed after
// they are appended to the session log.
type CaptureRecord struct {
	Date          string     `json:"Date"`
	Time          string     `json:"Time"`
	Gender        Gender     `json:"Gender"`
	Age           AgeBracket `json:"Age"`
	ImageFilename string     `json:"Image Captured Filename"`
}

// NewCaptureRecord stamps a record with the local date and time of at.
func NewCaptureRecord(at time.Time, age AgeBracket, gender Gender, filename string) CaptureRecord {
	local := at.Local()
	return CaptureRecord{
		Date:          local.Format(DateLayout),
		Time:          local.Format(TimeLayout),
		Gender:        gender,
		Age:           age,
		ImageFilename: filename,
	}
}

// Validate checks that every field holds a value from its closed domain.
func (r CaptureRecord) Validate() error {
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("invalid date %q: %w", r.Date, err)
	}
	if _, err := time.Parse(TimeLayout, r.Time); err != nil {
		return fmt.Errorf("invalid time %q: %w", r.Time, err)
	}
	if !r.Gender.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownGender, r.Gender)
	}
	if !r.Age.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAge, r.Age)
	}
	if r.ImageFilename == "" {
		return errors.New("image filename is empty")
	}
	return nil
}

// Normalize maps legacy category spellings onto the canonical ones and
// validates the result.
func (r CaptureRecord) Normalize() (CaptureRecord, error) {
	age, err := ParseAgeBracket(string(r.Age))
	if err != nil {
		return r, err
	}
	gender, err := ParseGender(string(r.Gender))
	if err != nil {
		return r, err
	}
	r.Age = age
	r.Gender = gender
	return r, r.Validate()
}

// Timestamp returns the local instant the record was captured at.
func (r CaptureRecord) Timestamp() (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, r.Date+" "+r.Time, time.Local)
}

// Detection is one raw face box reported by the detector.
type Detection struct {
	Box        image.Rectangle
	Confidence float64
}

// DetectedFace is a detection that passed the confidence threshold together
// with its classification. Faces only outlive a tick when they are captured.
type DetectedFace struct {
	Box        image.Rectangle
	Confidence float64
	Age        AgeBracket
	Gender     Gender
}

// PadBox grows box by padding on every side and clamps it to bounds.
func PadBox(box image.Rectangle, padding int, bounds image.Rectangle) image.Rectangle {
	return box.Canon().Inset(-padding).Intersect(bounds)
}

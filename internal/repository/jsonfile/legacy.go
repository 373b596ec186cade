package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"time"

	"camstation/internal/model"
)

// Older station builds appended one JSON object per line with a US date,
// a minute-resolution 12-hour time and a differently named filename key.
const (
	legacyDateLayout = "01/02/2006"
	legacyTimeLayout = "03:04 PM"
)

type legacyEntry struct {
	Date          string `json:"Date"`
	Time          string `json:"Time"`
	Gender        string `json:"Gender"`
	Age           string `json:"Age"`
	ImageFilename string `json:"Image Filename"`
}

// decodeLegacy reads a JSON Lines log written by older builds. ok is false
// unless every object in data is a legacy entry.
func decodeLegacy(data []byte) (records []model.CaptureRecord, ok bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	for {
		var entry legacyEntry
		err := dec.Decode(&entry)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil || entry.ImageFilename == "" {
			return nil, false
		}
		records = append(records, entry.record())
	}
	return records, len(records) > 0
}

// record converts e to the current layout. Values that do not parse are
// kept as they are and rejected later by validation.
func (e legacyEntry) record() model.CaptureRecord {
	rec := model.CaptureRecord{
		Date:          e.Date,
		Time:          e.Time,
		Gender:        model.Gender(e.Gender),
		Age:           model.AgeBracket(e.Age),
		ImageFilename: e.ImageFilename,
	}
	if d, err := time.Parse(legacyDateLayout, e.Date); err == nil {
		rec.Date = d.Format(model.DateLayout)
	}
	if t, err := time.Parse(legacyTimeLayout, e.Time); err == nil {
		rec.Time = t.Format(model.TimeLayout)
	}
	if normalized, err := rec.Normalize(); err == nil {
		rec = normalized
	}
	return rec
}

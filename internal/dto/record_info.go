package dto

import (
	"encoding/json"
	"net/url"
	"time"

	"camstation/internal/model"
)

// RecordInfo is a capture record as shown in the log table and the gallery.
type RecordInfo struct {
	model.CaptureRecord
	ImageURL string `json:"imageUrl"`
}

// ImageViewPath is the endpoint serving captured images.
const ImageViewPath = "/api/images/view"

// RecordEventType tags record events on the live view socket.
const RecordEventType = "record"

// RecordEvent is pushed to live viewers whenever a record is appended.
type RecordEvent struct {
	Type   string     `json:"type"`
	Record RecordInfo `json:"record"`
}

// NewRecordInfo links rec to the URL of its image.
func NewRecordInfo(rec model.CaptureRecord) RecordInfo {
	return RecordInfo{
		CaptureRecord: rec,
		ImageURL:      ImageViewPath + "?image=" + url.QueryEscape(rec.ImageFilename),
	}
}

// MarshalJSON adds human readable date and time strings next to the raw fields.
func (p RecordInfo) MarshalJSON() ([]byte, error) {
	type Alias RecordInfo
	return json.Marshal(&struct {
		DisplayDate string `json:"displayDate"`
		DisplayTime string `json:"displayTime"`
		Alias
	}{
		DisplayDate: FormatDisplayDate(p.Date),
		DisplayTime: FormatDisplayTime(p.Time),
		Alias:       (Alias)(p),
	})
}

// FormatDisplayDate renders 2024-03-09 as "March 09, 2024"; unparsable input is returned unchanged.
func FormatDisplayDate(date string) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("January 02, 2006")
}

// FormatDisplayTime renders 14:05:07 as "02:05 PM"; unparsable input is returned unchanged.
func FormatDisplayTime(clock string) string {
	t, err := time.Parse(model.TimeLayout, clock)
	if err != nil {
		return clock
	}
	return t.Format("03:04 PM")
}

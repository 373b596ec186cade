package dto

import (
	"encoding/json"
	"testing"

	"camstation/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordInfo_MarshalJSON(t *testing.T) {
	info := RecordInfo{
		CaptureRecord: model.CaptureRecord{
			Date:          "2025-06-15",
			Time:          "14:30:05",
			Gender:        model.Female,
			Age:           "26-30",
			ImageFilename: "captured_0_20250615143005_1.png",
		},
		ImageURL: "/api/images/view?image=captured_0_20250615143005_1.png",
	}

	data, err := json.Marshal(info)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, "June 15, 2025", out["displayDate"])
	assert.Equal(t, "02:30 PM", out["displayTime"])
	assert.Equal(t, "2025-06-15", out["Date"])
	assert.Equal(t, "Female", out["Gender"])
	assert.Equal(t, "26-30", out["Age"])
	assert.Equal(t, "captured_0_20250615143005_1.png", out["Image Captured Filename"])
	assert.Equal(t, info.ImageURL, out["imageUrl"])
}

func TestFormatDisplay_Unparsable(t *testing.T) {
	assert.Equal(t, "yesterday", FormatDisplayDate("yesterday"))
	assert.Equal(t, "noon", FormatDisplayTime("noon"))
	assert.Equal(t, "12:00 AM", FormatDisplayTime("00:00:00"))
}

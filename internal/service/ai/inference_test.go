package ai

import (
	"image"
	"testing"

	"camstation/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestFilterByConfidence(t *testing.T) {
	detections := []model.Detection{
		{Box: image.Rect(0, 0, 10, 10), Confidence: 0.95},
		{Box: image.Rect(10, 0, 20, 10), Confidence: 0.69},
		{Box: image.Rect(20, 0, 30, 10), Confidence: 0.7},
		{Box: image.Rect(30, 0, 40, 10), Confidence: 0.1},
	}

	kept := FilterByConfidence(detections, DetectionThreshold)

	assert.Equal(t, []model.Detection{detections[0], detections[2]}, kept)
}

func TestFilterByConfidence_Empty(t *testing.T) {
	assert.Empty(t, FilterByConfidence(nil, DetectionThreshold))
}

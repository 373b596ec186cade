package ai

import (
	"errors"
	"fmt"
	"image"

	"camstation/internal/model"
)

// DetectionRowSize is the width of one SSD detector output row:
// [batch_id, class_id, confidence, x1, y1, x2, y2], coordinates relative to
// the frame size.
const DetectionRowSize = 7

var ErrEmptyScores = errors.New("classifier returned no scores")

// DecodeDetections converts raw detector output into boxes in the coordinates
// of bounds. Relative coordinates are clamped to [0, 1] and rows whose box is
// empty after clamping are dropped. A trailing partial row is ignored.
func DecodeDetections(values []float32, bounds image.Rectangle) []model.Detection {
	width := float32(bounds.Dx())
	height := float32(bounds.Dy())

	detections := make([]model.Detection, 0, len(values)/DetectionRowSize)
	for i := 0; i+DetectionRowSize <= len(values); i += DetectionRowSize {
		row := values[i : i+DetectionRowSize]
		box := image.Rect(
			int(clampUnit(row[3])*width),
			int(clampUnit(row[4])*height),
			int(clampUnit(row[5])*width),
			int(clampUnit(row[6])*height),
		).Add(bounds.Min)
		if box.Empty() {
			continue
		}
		detections = append(detections, model.Detection{
			Box:        box,
			Confidence: float64(row[2]),
		})
	}
	return detections
}

func clampUnit(v float32) float32 {
	return min(max(v, 0), 1)
}

// ArgMax returns the index of the highest score, the first one on ties, or
// -1 for no scores.
func ArgMax(scores []float32) int {
	best := -1
	for i, s := range scores {
		if best < 0 || s > scores[best] {
			best = i
		}
	}
	return best
}

// AgeFromScores maps an age classifier output onto the bracket enumeration.
// The output may be narrower than the enumeration: the bundled age net has
// eight outputs, so the last bracket is never predicted by it.
func AgeFromScores(scores []float32) (model.AgeBracket, error) {
	idx, err := labelIndex(scores, len(model.AgeBrackets))
	if err != nil {
		return "", err
	}
	return model.AgeBrackets[idx], nil
}

// GenderFromScores maps a gender classifier output onto the gender enumeration.
func GenderFromScores(scores []float32) (model.Gender, error) {
	idx, err := labelIndex(scores, len(model.Genders))
	if err != nil {
		return "", err
	}
	return model.Genders[idx], nil
}

func labelIndex(scores []float32, labels int) (int, error) {
	if len(scores) == 0 {
		return 0, ErrEmptyScores
	}
	if len(scores) > labels {
		return 0, fmt.Errorf("classifier returned %d scores for %d labels", len(scores), labels)
	}
	return ArgMax(scores), nil
}

// Package ai defines the boundary to the face detection and classification
// models. The OpenCV-backed implementation lives in the dnn subpackage.
package ai

import (
	"image"

	"camstation/internal/model"
)

// DetectionThreshold is the minimum confidence for a face detection to be used.
const DetectionThreshold = 0.7

// Inference is implemented by anything that can find and classify faces.
// Implementations are only called from the frame processing goroutine.
type Inference interface {
	// DetectFaces returns every candidate box with its confidence. Boxes are
	// in frame coordinates. No thresholding is applied.
	DetectFaces(frame image.Image) ([]model.Detection, error)
	// ClassifyAge returns the age bracket of a cropped face.
	ClassifyAge(face image.Image) (model.AgeBracket, error)
	// ClassifyGender returns the gender of a cropped face.
	ClassifyGender(face image.Image) (model.Gender, error)
}

// FilterByConfidence keeps detections whose confidence is at least threshold,
// in their original order.
func FilterByConfidence(detections []model.Detection, threshold float64) []model.Detection {
	out := make([]model.Detection, 0, len(detections))
	for _, d := range detections {
		if d.Confidence >= threshold {
			out = append(out, d)
		}
	}
	return out
}

// Package redact blurs face regions out of frames before they are persisted.
package redact

import (
	"image"
	"image/draw"

	"camstation/internal/model"

	"github.com/disintegration/imaging"
)

const (
	// DefaultSigma is strong enough that a 100px face is unrecognisable.
	DefaultSigma = 30.0
	// DefaultPadding matches the padding used for classifier crops.
	DefaultPadding = 20
)

// Redactor produces privacy-safe copies of frames.
type Redactor struct {
	sigma   float64
	padding int
}

// New returns a Redactor. Non-positive values fall back to the defaults.
func New(sigma float64, padding int) *Redactor {
	if sigma <= 0 {
		sigma = DefaultSigma
	}
	if padding < 0 {
		padding = DefaultPadding
	}
	return &Redactor{sigma: sigma, padding: padding}
}

// Redact returns a new image equal to frame except inside each padded face
// box, where the region is replaced by a blurred version of itself. frame is
// not modified.
func (r *Redactor) Redact(frame image.Image, boxes []image.Rectangle) *image.RGBA {
	bounds := frame.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, frame, bounds.Min, draw.Src)

	for _, box := range r.Regions(bounds, boxes) {
		// Crop from the source frame so overlapping boxes do not blur twice.
		blurred := imaging.Blur(imaging.Crop(frame, box), r.sigma)
		draw.Draw(out, box, blurred, image.Point{}, draw.Src)
	}
	return out
}

// Regions returns the padded boxes clamped to bounds, dropping empty ones.
func (r *Redactor) Regions(bounds image.Rectangle, boxes []image.Rectangle) []image.Rectangle {
	regions := make([]image.Rectangle, 0, len(boxes))
	for _, box := range boxes {
		region := model.PadBox(box, r.padding, bounds)
		if region.Empty() {
			continue
		}
		regions = append(regions, region)
	}
	return regions
}

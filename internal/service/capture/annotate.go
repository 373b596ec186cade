package capture

import (
	"fmt"
	"image"

	"camstation/internal/model"

	"github.com/fogleman/gg"
)

const (
	boxLineWidth = 2
	lineMargin   = 5
)

// Annotate draws each face box with its gender and age labels below it on a
// copy of frame. frame itself is left untouched. Frames are expected to
// have their origin at (0,0), as camera frames do.
func Annotate(frame image.Image, faces []model.DetectedFace) image.Image {
	dc := gg.NewContextForImage(frame)
	_, lineHeight := dc.MeasureString("Ag")

	for _, face := range faces {
		box := face.Box.Canon()

		dc.SetRGB(1, 0, 0)
		dc.SetLineWidth(boxLineWidth)
		dc.DrawRectangle(float64(box.Min.X), float64(box.Min.Y), float64(box.Dx()), float64(box.Dy()))
		dc.Stroke()

		x := float64(box.Min.X)
		y := float64(box.Max.Y) + lineHeight + lineMargin
		dc.SetRGB(1, 1, 1)
		dc.DrawString(fmt.Sprintf("Gender: %s", face.Gender), x, y)
		dc.DrawString(fmt.Sprintf("Age: %s", face.Age), x, y+lineHeight+lineMargin)
	}

	return dc.Image()
}

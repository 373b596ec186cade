package capture

import (
	"image"
	"image/color"
	"testing"

	"camstation/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotate_DrawsOnCopy(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 200, 150))
	original := append([]uint8(nil), frame.Pix...)
	faces := []model.DetectedFace{{
		Box:    image.Rect(40, 30, 100, 90),
		Age:    "26-30",
		Gender: model.Female,
	}}

	out := Annotate(frame, faces)

	require.Equal(t, frame.Bounds(), out.Bounds())
	assert.Equal(t, original, frame.Pix)

	// The box outline is red.
	r, g, b, _ := out.At(40, 60).RGBA()
	assert.Greater(t, r>>8, uint32(128))
	assert.Less(t, g>>8, uint32(64))
	assert.Less(t, b>>8, uint32(64))

	// Some label text is drawn below the box.
	lit := 0
	for y := 93; y < 150; y++ {
		for x := 40; x < 200; x++ {
			if out.At(x, y) != (color.RGBA{0, 0, 0, 0}) {
				lit++
			}
		}
	}
	assert.Positive(t, lit)
}

func TestAnnotate_NoFaces(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 10, 10))
	frame.SetRGBA(5, 5, color.RGBA{1, 2, 3, 255})

	out := Annotate(frame, nil)

	assert.Equal(t, color.RGBA{1, 2, 3, 255}, out.At(5, 5))
}

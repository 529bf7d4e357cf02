package features

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
)

// RenderPNG draws a normalized log-mel grid as a spectrogram image, low mel
// bands at the bottom, resized to width x height for display.
func RenderPNG(grid [][]float64, width, height int) ([]byte, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, ErrNoWaveform
	}
	mels := len(grid)
	frames := len(grid[0])

	lo, hi := grid[0][0], grid[0][0]
	for _, row := range grid {
		for _, v := range row {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, frames, mels))
	for m := 0; m < mels; m++ {
		for t := 0; t < frames; t++ {
			v := (grid[m][t] - lo) / span
			shade := uint8(255 * v)
			img.SetRGBA(t, mels-m-1, color.RGBA{
				R: shade,
				G: uint8(float64(shade) * 0.55),
				B: 255 - shade,
				A: 255,
			})
		}
	}

	resized := imaging.Resize(img, width, height, imaging.Linear)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

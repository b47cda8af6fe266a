package encoder

import (
	"bytes"
	"image"
	"image/jpeg"
	"math"
)

// JPEGEncoder encodes tiles to JPEG using Go's standard codec.
type JPEGEncoder struct{}

func (e *JPEGEncoder) Format() string    { return "jpg" }
func (e *JPEGEncoder) Extension() string { return "jpg" }

func (e *JPEGEncoder) Encode(img image.Image, quality float64) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(64 * 1024)

	err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality(quality)})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JPEGQuality maps the 0..1 quality knob to the codec's 0..100 scale.
func JPEGQuality(quality float64) int {
	return int(math.Round(quality * 100))
}

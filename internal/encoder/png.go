package encoder

import (
	"bytes"
	"image"
	"image/png"
	"math"
)

// PNGEncoder encodes tiles to PNG using Go's standard codec. PNG is
// lossless; the quality knob only selects compression effort.
type PNGEncoder struct{}

func (e *PNGEncoder) Format() string    { return "png" }
func (e *PNGEncoder) Extension() string { return "png" }

func (e *PNGEncoder) Encode(img image.Image, quality float64) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(128 * 1024) // typical overlap tile; avoids repeated grow

	enc := &png.Encoder{CompressionLevel: compressionLevel(quality)}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CompressKnob maps the 0..1 quality to the 0..10 compression-effort scale
// used by Deep Zoom tooling: higher quality means lower effort, so tiles
// encode faster at the cost of size.
func CompressKnob(quality float64) int {
	return int(math.Round((1 - quality) * 10))
}

// compressionLevel quantizes the 0..10 knob onto the four levels the Go
// png codec exposes.
func compressionLevel(quality float64) png.CompressionLevel {
	switch knob := CompressKnob(quality); {
	case knob <= 0:
		return png.NoCompression
	case knob <= 3:
		return png.BestSpeed
	case knob <= 7:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}

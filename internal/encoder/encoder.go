// Package encoder turns cropped tiles into bytes. Deep Zoom pyramids use
// exactly two tile formats, png and jpg; any other requested format falls
// back to png.
package encoder

import (
	"image"
)

// DefaultFormat is substituted for any unrecognized tile format.
const DefaultFormat = "png"

// Encoder encodes an image to a specific tile format.
type Encoder interface {
	// Format returns the tile format name ("png" or "jpg").
	Format() string

	// Extension returns the tile file extension without dot.
	Extension() string

	// Encode converts the image to bytes. quality is the shared 0..1 knob:
	// for jpg it is lossy quality, for png it only trades encode effort
	// against file size.
	Encode(img image.Image, quality float64) ([]byte, error)
}

// formats is the process-wide format table, fixed at startup. Lookups that
// miss resolve to DefaultFormat rather than erroring.
var formats = map[string]Encoder{
	"png": &PNGEncoder{},
	"jpg": &JPEGEncoder{},
}

// Normalize maps a requested tile format onto the supported set, falling
// back to DefaultFormat for anything unknown.
func Normalize(format string) string {
	if _, ok := formats[format]; ok {
		return format
	}
	return DefaultFormat
}

// For returns the encoder for a format, falling back to the png encoder for
// anything unknown.
func For(format string) Encoder {
	if enc, ok := formats[format]; ok {
		return enc
	}
	return formats[DefaultFormat]
}

package tiler

import (
	"runtime"

	"github.com/AnyUserName/dzgen-cli/internal/descriptor"
	"github.com/AnyUserName/dzgen-cli/internal/encoder"
)

// Bounds for the tile overlap knob. Viewers only need a pixel or two of
// overlap; anything past 10 is clamped.
const (
	MinOverlap = 0
	MaxOverlap = 10
)

// Config holds the tiling parameters for a Renderer. Out-of-range values
// are clamped and unknown names substituted at construction, never later;
// bad configuration is recovered silently rather than surfaced as an error.
type Config struct {
	// TileSize is the tile edge length in pixels, before overlap.
	// Non-positive values fall back to descriptor.DefaultTileSize.
	TileSize int

	// TileOverlap is the number of extra border pixels on interior tile
	// edges, clamped to [MinOverlap, MaxOverlap].
	TileOverlap int

	// Format is the tile format, "png" or "jpg". Anything else maps to png.
	Format string

	// Quality in [0, 1]: jpg quality, or png compression effort (inverted).
	Quality float64

	// Filter names the resampling kernel; unknown names fall back to the
	// antialias (Lanczos) kernel.
	Filter string

	// Workers bounds the level worker pool. Zero or negative means NumCPU.
	Workers int

	// CopyMetadata is accepted for interface compatibility and has no
	// geometric effect on the pyramid.
	CopyMetadata bool

	// Verbose enables per-level progress logging to stderr.
	Verbose bool
}

// normalized returns a copy with every knob clamped into its documented
// range and every enumerated name resolved against its table.
func (c Config) normalized() Config {
	if c.TileSize <= 0 {
		c.TileSize = descriptor.DefaultTileSize
	}
	c.TileOverlap = clampInt(c.TileOverlap, MinOverlap, MaxOverlap)
	c.Quality = clampFloat(c.Quality, 0, 1)
	c.Format = encoder.Normalize(c.Format)
	c.Filter = NormalizeFilter(c.Filter)
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return c
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

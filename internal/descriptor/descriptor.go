// Package descriptor implements Deep Zoom pyramid geometry: level counts,
// per-level dimensions, tile grids and tile bounding boxes, plus the DZI
// descriptor document that records them on disk.
package descriptor

import (
	"errors"
	"fmt"
	"image"
	"math"
	"math/bits"
)

// DefaultTileSize is the Deep Zoom convention: 254 px tiles plus a 1 px
// overlap pack into power-of-two texture sizes.
const DefaultTileSize = 254

var (
	ErrInvalidDimensions = errors.New("invalid pyramid dimensions")
	ErrInvalidLevel      = errors.New("invalid pyramid level")
	ErrInvalidTileIndex  = errors.New("invalid tile index")
)

// Descriptor is the geometry oracle for one pyramid. It is immutable after
// New; every query is side-effect free.
type Descriptor struct {
	Width       int
	Height      int
	TileSize    int
	TileOverlap int
	TileFormat  string

	numLevels int
}

// New builds a descriptor for a source bitmap of the given full-resolution
// dimensions. The level count is computed here, once. Callers are expected
// to pass an already-normalized tile configuration (see the tiler package),
// but a non-positive tile size is still defaulted defensively.
func New(width, height, tileSize, tileOverlap int, tileFormat string) (*Descriptor, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	return &Descriptor{
		Width:       width,
		Height:      height,
		TileSize:    tileSize,
		TileOverlap: tileOverlap,
		TileFormat:  tileFormat,
		numLevels:   levelCount(width, height),
	}, nil
}

// levelCount is ceil(log2(max(w,h))) + 1, computed in integer arithmetic so
// exact powers of two never fall victim to float rounding.
func levelCount(width, height int) int {
	max := width
	if height > max {
		max = height
	}
	return bits.Len(uint(max-1)) + 1
}

// NumLevels returns the number of pyramid levels, always >= 1. Level
// NumLevels-1 is full resolution, level 0 the coarsest.
func (d *Descriptor) NumLevels() int {
	return d.numLevels
}

// Scale returns the downscale factor of a level, in (0, 1].
func (d *Descriptor) Scale(level int) (float64, error) {
	if level < 0 || level >= d.numLevels {
		return 0, fmt.Errorf("%w: %d (have %d levels)", ErrInvalidLevel, level, d.numLevels)
	}
	return math.Pow(0.5, float64(d.numLevels-1-level)), nil
}

// Dimensions returns the pixel size of a level. Each level is derived from
// the full-resolution dimensions directly, never by halving the level above,
// so rounding can't drift across levels.
func (d *Descriptor) Dimensions(level int) (width, height int, err error) {
	scale, err := d.Scale(level)
	if err != nil {
		return 0, 0, err
	}
	width = int(math.Ceil(float64(d.Width) * scale))
	height = int(math.Ceil(float64(d.Height) * scale))
	return width, height, nil
}

// TileGrid returns the number of tile columns and rows at a level.
func (d *Descriptor) TileGrid(level int) (columns, rows int, err error) {
	w, h, err := d.Dimensions(level)
	if err != nil {
		return 0, 0, err
	}
	columns = (w + d.TileSize - 1) / d.TileSize
	rows = (h + d.TileSize - 1) / d.TileSize
	return columns, rows, nil
}

// TileBounds returns the pixel bounding box of one tile in its level's
// coordinate space. Interior edges carry TileOverlap extra pixels; the first
// column/row has no leading overlap and the last is clipped at the level
// boundary.
func (d *Descriptor) TileBounds(level, column, row int) (image.Rectangle, error) {
	columns, rows, err := d.TileGrid(level)
	if err != nil {
		return image.Rectangle{}, err
	}
	if column < 0 || column >= columns || row < 0 || row >= rows {
		return image.Rectangle{}, fmt.Errorf("%w: %d_%d (level %d grid %dx%d)",
			ErrInvalidTileIndex, column, row, level, columns, rows)
	}

	offsetX, offsetY := 0, 0
	if column > 0 {
		offsetX = d.TileOverlap
	}
	if row > 0 {
		offsetY = d.TileOverlap
	}
	x := column*d.TileSize - offsetX
	y := row*d.TileSize - offsetY

	w := d.TileSize + overlapSides(column)*d.TileOverlap
	h := d.TileSize + overlapSides(row)*d.TileOverlap

	levelW, levelH, _ := d.Dimensions(level)
	if x+w > levelW {
		w = levelW - x
	}
	if y+h > levelH {
		h = levelH - y
	}
	return image.Rect(x, y, x+w, y+h), nil
}

// overlapSides is 1 for the first column/row (overlap trails only) and 2 for
// interior ones (overlap on both sides).
func overlapSides(index int) int {
	if index == 0 {
		return 1
	}
	return 2
}

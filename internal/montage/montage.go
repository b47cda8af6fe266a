// Package montage composites a directory of equally sized images onto one
// large canvas, arranged on a fixed grid with padding between cells. The
// canvas feeds the tiler as the full-resolution pyramid source.
package montage

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Default grid geometry, matching the classic multi-well plate layout.
const (
	DefaultGridCols   = 3
	DefaultGridRows   = 3
	DefaultCellWidth  = 1024
	DefaultCellHeight = 1024
	DefaultPadding    = 10
	DefaultExt        = "png"
)

// DefaultBackground is the canvas fill for empty cells and padding, a
// near-black gray that reads as "no data" in a viewer.
var DefaultBackground = color.NRGBA{R: 10, G: 10, B: 10, A: 255}

// Options configures a montage build. Zero values fall back to the
// defaults above.
type Options struct {
	GridCols   int
	GridRows   int
	CellWidth  int
	CellHeight int
	Padding    int
	Background color.Color
	Ext        string
	Verbose    bool
}

func (o Options) normalized() Options {
	if o.GridCols <= 0 {
		o.GridCols = DefaultGridCols
	}
	if o.GridRows <= 0 {
		o.GridRows = DefaultGridRows
	}
	if o.CellWidth <= 0 {
		o.CellWidth = DefaultCellWidth
	}
	if o.CellHeight <= 0 {
		o.CellHeight = DefaultCellHeight
	}
	if o.Padding < 0 {
		o.Padding = DefaultPadding
	}
	if o.Background == nil {
		o.Background = DefaultBackground
	}
	if o.Ext == "" {
		o.Ext = DefaultExt
	}
	return o
}

// CanvasSize returns the montage dimensions for the given options:
// cells plus padding between them, no outer border.
func CanvasSize(opts Options) (width, height int) {
	opts = opts.normalized()
	width = opts.GridCols*opts.CellWidth + opts.Padding*(opts.GridCols-1)
	height = opts.GridRows*opts.CellHeight + opts.Padding*(opts.GridRows-1)
	return width, height
}

// Build scans dir for images and pastes them row-major onto the grid
// canvas. A cell whose image is missing or undecodable stays background;
// files beyond the grid capacity are ignored with a warning. The returned
// bitmap is owned by the caller.
func Build(ctx context.Context, dir string, opts Options) (*image.NRGBA, error) {
	opts = opts.normalized()

	sources, err := Scan(dir, opts.Ext)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no .%s images found in %s", opts.Ext, dir)
	}
	if len(sources) > opts.GridCols*opts.GridRows {
		fmt.Fprintf(os.Stderr, "[dzgen] warning: %d images for %d grid cells, extras ignored\n",
			len(sources), opts.GridCols*opts.GridRows)
	}

	width, height := CanvasSize(opts)
	canvas := imaging.New(width, height, opts.Background)

	cell := image.Rect(0, 0, opts.CellWidth, opts.CellHeight)
	idx := 0
	for row := 0; row < opts.GridRows; row++ {
		for col := 0; col < opts.GridCols; col++ {
			if idx >= len(sources) {
				return canvas, nil
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			src := sources[idx]
			idx++

			img, err := decode(src.Path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "[dzgen] warning: skipping %s: %v\n", src.Name, err)
				continue
			}

			// Oversized inputs are clipped to the cell so they can't bleed
			// into neighbors.
			if img.Bounds().Dx() > cell.Dx() || img.Bounds().Dy() > cell.Dy() {
				img = imaging.Crop(img, cell.Add(img.Bounds().Min))
			}

			pos := image.Pt(col*(opts.CellWidth+opts.Padding), row*(opts.CellHeight+opts.Padding))
			target := image.Rectangle{Min: pos, Max: pos.Add(img.Bounds().Size())}
			draw.Draw(canvas, target, img, img.Bounds().Min, draw.Src)

			if opts.Verbose {
				fmt.Fprintf(os.Stderr, "[dzgen] placed %s at %v\n", src.Name, pos)
			}
		}
	}
	return canvas, nil
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

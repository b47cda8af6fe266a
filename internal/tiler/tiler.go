// Package tiler renders Deep Zoom pyramids: for every level it resamples
// the source bitmap, crops the level into overlapping tiles, encodes them
// and writes the tile tree, then writes the DZI descriptor last.
package tiler

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/AnyUserName/dzgen-cli/internal/descriptor"
	"github.com/AnyUserName/dzgen-cli/internal/encoder"
)

// Renderer produces tile pyramids for a fixed tiling configuration.
// A Renderer is immutable and safe for concurrent use; per-build state
// lives in Create's locals.
type Renderer struct {
	cfg    Config
	filter imaging.ResampleFilter
	enc    encoder.Encoder
}

// New returns a Renderer for the given configuration. All clamping and
// name fallback happens here; the stored config never changes afterwards.
func New(cfg Config) *Renderer {
	cfg = cfg.normalized()
	return &Renderer{
		cfg:    cfg,
		filter: filterByName(cfg.Filter),
		enc:    encoder.For(cfg.Format),
	}
}

// Config returns the effective (normalized) configuration.
func (r *Renderer) Config() Config {
	return r.cfg
}

// Create renders the full pyramid for src and writes it under destination,
// a path ending in ".dzi". Tiles land in the sibling "_files" tree; the
// descriptor is written only after every tile of every level is on disk,
// so its absence marks an incomplete pyramid. On error or cancellation the
// partial tile tree is left for the caller to inspect or clean up with
// descriptor.Remove.
//
// Levels fan out over a worker pool bounded by Config.Workers. Each level
// is resampled from the original source, never from the level above, so
// resampling error does not compound across levels.
func (r *Renderer) Create(ctx context.Context, src image.Image, destination string) error {
	b := src.Bounds()
	desc, err := descriptor.New(b.Dx(), b.Dy(), r.cfg.TileSize, r.cfg.TileOverlap, r.cfg.Format)
	if err != nil {
		return err
	}

	tilesDir := descriptor.TilesDir(destination)
	if err := os.MkdirAll(tilesDir, 0o755); err != nil {
		return fmt.Errorf("create tiles dir: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for level := 0; level < desc.NumLevels(); level++ {
		level := level
		g.Go(func() error {
			return r.renderLevel(ctx, desc, src, tilesDir, level)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return desc.Save(destination)
}

// renderLevel materializes one level's bitmap and writes all of its tiles.
func (r *Renderer) renderLevel(ctx context.Context, desc *descriptor.Descriptor, src image.Image, tilesDir string, level int) error {
	levelW, levelH, err := desc.Dimensions(level)
	if err != nil {
		return fmt.Errorf("level %d: %w", level, err)
	}

	levelDir := filepath.Join(tilesDir, strconv.Itoa(level))
	if err := os.MkdirAll(levelDir, 0o755); err != nil {
		return fmt.Errorf("create level dir %d: %w", level, err)
	}

	// Full resolution reuses the source untouched; every other level
	// resamples from the original.
	img := src
	if levelW != desc.Width || levelH != desc.Height {
		img = imaging.Resize(src, levelW, levelH, r.filter)
	}

	columns, rows, err := desc.TileGrid(level)
	if err != nil {
		return fmt.Errorf("level %d: %w", level, err)
	}
	if r.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[dzgen] level %d: %dx%d px, %dx%d tiles\n",
			level, levelW, levelH, columns, rows)
	}

	for row := 0; row < rows; row++ {
		for column := 0; column < columns; column++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.writeTile(desc, img, levelDir, level, column, row); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) writeTile(desc *descriptor.Descriptor, img image.Image, levelDir string, level, column, row int) error {
	bounds, err := desc.TileBounds(level, column, row)
	if err != nil {
		// A bad tile index here is a geometry bug, not user input.
		return fmt.Errorf("level %d: %w", level, err)
	}

	tile := imaging.Crop(img, bounds.Add(img.Bounds().Min))
	data, err := r.enc.Encode(tile, r.cfg.Quality)
	if err != nil {
		return fmt.Errorf("encode tile %d/%d_%d: %w", level, column, row, err)
	}

	name := fmt.Sprintf("%d_%d.%s", column, row, r.enc.Extension())
	if err := os.WriteFile(filepath.Join(levelDir, name), data, 0o644); err != nil {
		return fmt.Errorf("write tile %d/%s: %w", level, name, err)
	}
	return nil
}

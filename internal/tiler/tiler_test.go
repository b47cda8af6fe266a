package tiler

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/AnyUserName/dzgen-cli/internal/descriptor"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i] = uint8(x)
			img.Pix[i+1] = uint8(y)
			img.Pix[i+2] = uint8(x * y)
			img.Pix[i+3] = 255
		}
	}
	return img
}

func TestConfigNormalize(t *testing.T) {
	cfg := New(Config{
		TileSize:    0,
		TileOverlap: 15,
		Format:      "bmp",
		Quality:     1.5,
		Filter:      "bogus",
	}).Config()

	if cfg.TileSize != descriptor.DefaultTileSize {
		t.Errorf("TileSize: got %d, want %d", cfg.TileSize, descriptor.DefaultTileSize)
	}
	if cfg.TileOverlap != MaxOverlap {
		t.Errorf("TileOverlap: got %d, want %d", cfg.TileOverlap, MaxOverlap)
	}
	if cfg.Format != "png" {
		t.Errorf("Format: got %q, want png", cfg.Format)
	}
	if cfg.Quality != 1.0 {
		t.Errorf("Quality: got %v, want 1.0", cfg.Quality)
	}
	if cfg.Filter != DefaultFilter {
		t.Errorf("Filter: got %q, want %q", cfg.Filter, DefaultFilter)
	}
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("Workers: got %d, want NumCPU", cfg.Workers)
	}
}

func TestConfigNormalizeLowerBounds(t *testing.T) {
	cfg := New(Config{TileOverlap: -4, Quality: -0.2}).Config()
	if cfg.TileOverlap != 0 {
		t.Errorf("TileOverlap: got %d, want 0", cfg.TileOverlap)
	}
	if cfg.Quality != 0 {
		t.Errorf("Quality: got %v, want 0", cfg.Quality)
	}
}

func TestNormalizeFilter(t *testing.T) {
	for _, name := range []string{"nearest", "bilinear", "bicubic", "cubic", "antialias"} {
		if got := NormalizeFilter(name); got != name {
			t.Errorf("NormalizeFilter(%q): got %q", name, got)
		}
	}
	if got := NormalizeFilter("lanczos9000"); got != DefaultFilter {
		t.Errorf("NormalizeFilter(unknown): got %q, want %q", got, DefaultFilter)
	}
	if s := filterByName("nearest").Support; s != imaging.NearestNeighbor.Support {
		t.Errorf("nearest kernel support: got %v", s)
	}
	if s := filterByName("unknown").Support; s != imaging.Lanczos.Support {
		t.Errorf("fallback kernel support: got %v, want Lanczos", s)
	}
}

func TestCreatePyramid(t *testing.T) {
	src := gradient(100, 80)
	dest := filepath.Join(t.TempDir(), "test.dzi")

	r := New(Config{TileSize: 64, TileOverlap: 1, Format: "png", Quality: 0.8, Workers: 2})
	if err := r.Create(context.Background(), src, dest); err != nil {
		t.Fatalf("create: %v", err)
	}

	desc, err := descriptor.Load(dest)
	if err != nil {
		t.Fatalf("load descriptor: %v", err)
	}
	if desc.Width != 100 || desc.Height != 80 {
		t.Errorf("descriptor dimensions: got %dx%d", desc.Width, desc.Height)
	}
	if desc.NumLevels() != 8 {
		t.Errorf("levels: got %d, want 8", desc.NumLevels())
	}

	tilesDir := descriptor.TilesDir(dest)
	for level := 0; level < desc.NumLevels(); level++ {
		cols, rows, err := desc.TileGrid(level)
		if err != nil {
			t.Fatalf("grid %d: %v", level, err)
		}
		entries, err := os.ReadDir(filepath.Join(tilesDir, strconv.Itoa(level)))
		if err != nil {
			t.Fatalf("level %d dir: %v", level, err)
		}
		if len(entries) != cols*rows {
			t.Errorf("level %d: %d tiles on disk, want %d", level, len(entries), cols*rows)
		}
	}
}

// The full-resolution level reuses the source bitmap, so every decoded png
// tile must match the source crop pixel for pixel.
func TestCreateTopLevelTilesMatchSource(t *testing.T) {
	src := gradient(150, 90)
	dest := filepath.Join(t.TempDir(), "exact.dzi")

	r := New(Config{TileSize: 64, TileOverlap: 2, Format: "png", Quality: 1.0, Workers: 1})
	if err := r.Create(context.Background(), src, dest); err != nil {
		t.Fatalf("create: %v", err)
	}

	desc, err := descriptor.Load(dest)
	if err != nil {
		t.Fatal(err)
	}
	top := desc.NumLevels() - 1
	cols, rows, _ := desc.TileGrid(top)
	levelDir := filepath.Join(descriptor.TilesDir(dest), strconv.Itoa(top))

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			bounds, err := desc.TileBounds(top, col, row)
			if err != nil {
				t.Fatal(err)
			}
			tile, err := imaging.Open(filepath.Join(levelDir, fmt.Sprintf("%d_%d.png", col, row)))
			if err != nil {
				t.Fatalf("open tile %d_%d: %v", col, row, err)
			}
			if tile.Bounds().Dx() != bounds.Dx() || tile.Bounds().Dy() != bounds.Dy() {
				t.Fatalf("tile %d_%d: size %v, want %v", col, row, tile.Bounds().Size(), bounds.Size())
			}
			for y := 0; y < bounds.Dy(); y++ {
				for x := 0; x < bounds.Dx(); x++ {
					wr, wg, wb, wa := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
					gr, gg, gb, ga := tile.At(tile.Bounds().Min.X+x, tile.Bounds().Min.Y+y).RGBA()
					if wr != gr || wg != gg || wb != gb || wa != ga {
						t.Fatalf("tile %d_%d pixel (%d,%d) differs from source", col, row, x, y)
					}
				}
			}
		}
	}
}

func TestCreateJPEGTiles(t *testing.T) {
	src := gradient(70, 50)
	dest := filepath.Join(t.TempDir(), "j.dzi")

	r := New(Config{TileSize: 64, TileOverlap: 1, Format: "jpg", Quality: 0.9, Workers: 1})
	if err := r.Create(context.Background(), src, dest); err != nil {
		t.Fatalf("create: %v", err)
	}

	desc, err := descriptor.Load(dest)
	if err != nil {
		t.Fatal(err)
	}
	if desc.TileFormat != "jpg" {
		t.Errorf("descriptor format: got %q", desc.TileFormat)
	}
	top := strconv.Itoa(desc.NumLevels() - 1)
	if _, err := os.Stat(filepath.Join(descriptor.TilesDir(dest), top, "0_0.jpg")); err != nil {
		t.Errorf("top-level jpg tile missing: %v", err)
	}
}

func TestCreateCancelled(t *testing.T) {
	src := gradient(200, 200)
	dest := filepath.Join(t.TempDir(), "cancelled.dzi")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(Config{TileSize: 64, TileOverlap: 1, Workers: 1})
	err := r.Create(ctx, src, dest)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("create: got %v, want context.Canceled", err)
	}

	// The descriptor must not exist: its absence is the incomplete signal.
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("descriptor written despite cancellation")
	}
}

func TestCreateInvalidSource(t *testing.T) {
	empty := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	r := New(Config{})
	err := r.Create(context.Background(), empty, filepath.Join(t.TempDir(), "e.dzi"))
	if !errors.Is(err, descriptor.ErrInvalidDimensions) {
		t.Fatalf("create: got %v, want ErrInvalidDimensions", err)
	}
}

// Two runs over identical input must agree on geometry: same descriptor
// bytes, same tile count per level.
func TestCreateDeterministicGeometry(t *testing.T) {
	src := gradient(120, 60)
	dir := t.TempDir()
	destA := filepath.Join(dir, "a.dzi")
	destB := filepath.Join(dir, "b.dzi")

	r := New(Config{TileSize: 50, TileOverlap: 1, Workers: 2})
	if err := r.Create(context.Background(), src, destA); err != nil {
		t.Fatal(err)
	}
	if err := r.Create(context.Background(), src, destB); err != nil {
		t.Fatal(err)
	}

	dataA, _ := os.ReadFile(destA)
	dataB, _ := os.ReadFile(destB)
	if string(dataA) != string(dataB) {
		t.Error("descriptor files differ between runs")
	}

	desc, _ := descriptor.Load(destA)
	for level := 0; level < desc.NumLevels(); level++ {
		a, _ := os.ReadDir(filepath.Join(descriptor.TilesDir(destA), strconv.Itoa(level)))
		b, _ := os.ReadDir(filepath.Join(descriptor.TilesDir(destB), strconv.Itoa(level)))
		if len(a) != len(b) {
			t.Errorf("level %d: tile counts differ (%d vs %d)", level, len(a), len(b))
		}
	}
}

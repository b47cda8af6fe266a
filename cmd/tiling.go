package cmd

import (
	"github.com/spf13/cobra"

	"github.com/AnyUserName/dzgen-cli/internal/descriptor"
	"github.com/AnyUserName/dzgen-cli/internal/tiler"
)

// tilingFlags is the flag surface shared by every command that renders a
// pyramid. Values go through tiler.Config's clamping, so out-of-range
// input degrades to the documented defaults instead of failing.
type tilingFlags struct {
	tileSize int
	overlap  int
	format   string
	quality  float64
	filter   string
	workers  int
}

func (f *tilingFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.tileSize, "tile-size", "t", descriptor.DefaultTileSize, "tile edge length in pixels")
	cmd.Flags().IntVar(&f.overlap, "overlap", 1, "overlap pixels on interior tile edges (0-10)")
	cmd.Flags().StringVar(&f.format, "format", "png", "tile format: png or jpg")
	cmd.Flags().Float64VarP(&f.quality, "quality", "q", 0.8, "jpg quality, or png size/speed trade-off (0-1)")
	cmd.Flags().StringVar(&f.filter, "filter", tiler.DefaultFilter, "resize filter: nearest, bilinear, bicubic, cubic, antialias")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "parallel level workers (0 = NumCPU)")
}

func (f *tilingFlags) config() tiler.Config {
	return tiler.Config{
		TileSize:    f.tileSize,
		TileOverlap: f.overlap,
		Format:      f.format,
		Quality:     f.quality,
		Filter:      f.filter,
		Workers:     f.workers,
		Verbose:     verbose,
	}
}

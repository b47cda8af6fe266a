package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/dzgen-cli/internal/descriptor"
	"github.com/AnyUserName/dzgen-cli/internal/montage"
	"github.com/AnyUserName/dzgen-cli/internal/tiler"
)

var (
	buildOutDir string
	buildName   string
	buildGrid   []int
	buildCell   []int
	buildExt    string
	buildTiling tilingFlags
)

var buildCmd = &cobra.Command{
	Use:   "build <input_dir>",
	Short: "Montage a folder of images and tile it into a DZI pyramid",
	Long: `Scans the input directory for images, pastes them row-major onto a
grid canvas with padding between cells, and renders the canvas as a Deep
Zoom pyramid: <out>/<name>.dzi plus the <name>_files/ tile tree.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutDir, "out", "o", "dzi", "output directory")
	buildCmd.Flags().StringVarP(&buildName, "name", "f", "dzi", "base name of the descriptor file")
	buildCmd.Flags().IntSliceVarP(&buildGrid, "grid", "g", []int{montage.DefaultGridCols, montage.DefaultGridRows}, "grid columns,rows")
	buildCmd.Flags().IntSliceVarP(&buildCell, "cell", "m", []int{montage.DefaultCellWidth, montage.DefaultCellHeight}, "cell width,height in pixels")
	buildCmd.Flags().StringVarP(&buildExt, "ext", "x", montage.DefaultExt, "extension of the input images")
	buildTiling.register(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

func runBuild(_ *cobra.Command, args []string) error {
	if len(buildGrid) != 2 {
		return fmt.Errorf("--grid wants two values, got %v", buildGrid)
	}
	if len(buildCell) != 2 {
		return fmt.Errorf("--cell wants two values, got %v", buildCell)
	}

	start := time.Now()

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(buildOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := montage.Options{
		GridCols:   buildGrid[0],
		GridRows:   buildGrid[1],
		CellWidth:  buildCell[0],
		CellHeight: buildCell[1],
		Ext:        buildExt,
		Verbose:    verbose,
	}
	logVerbose("input:  %s", absInput)
	logVerbose("output: %s", absOutput)
	w, h := montage.CanvasSize(opts)
	logVerbose("canvas: %dx%d px", w, h)

	canvas, err := montage.Build(ctx, absInput, opts)
	if err != nil {
		return fmt.Errorf("montage: %w", err)
	}

	destination := filepath.Join(absOutput, buildName+".dzi")
	r := tiler.New(buildTiling.config())
	if err := r.Create(ctx, canvas, destination); err != nil {
		return fmt.Errorf("tile pyramid: %w", err)
	}

	printBuildReport(destination, r.Config(), time.Since(start))
	return nil
}

func printBuildReport(destination string, cfg tiler.Config, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║              dzgen build complete                ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	desc, err := descriptor.Load(destination)
	if err != nil {
		fmt.Printf("  Descriptor:  %s (unreadable: %v)\n", destination, err)
		return
	}
	tiles, bytes := countTiles(descriptor.TilesDir(destination))

	fmt.Printf("  Pyramid:     %dx%d px, %d levels\n", desc.Width, desc.Height, desc.NumLevels())
	fmt.Printf("  Tiles:       %d (%s, %d px + %d px overlap)\n", tiles, desc.TileFormat, desc.TileSize, desc.TileOverlap)
	fmt.Printf("  Output size: %s\n", formatBytes(bytes))
	fmt.Printf("  Workers:     %d\n", cfg.Workers)
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("  Descriptor:  %s\n", destination)
	fmt.Println()
}

// countTiles walks a tile tree and totals files and bytes.
func countTiles(tilesDir string) (files int, bytes int64) {
	filepath.WalkDir(tilesDir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			files++
			bytes += info.Size()
		}
		return nil
	})
	return files, bytes
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/AnyUserName/dzgen-cli/internal/tiler"
)

var (
	tileOut    string
	tileTiling tilingFlags
)

var tileCmd = &cobra.Command{
	Use:   "tile <image_file>",
	Short: "Tile a single image into a DZI pyramid",
	Long: `Renders one already-assembled image as a Deep Zoom pyramid, skipping
the montage step. The descriptor lands next to the image unless --out
names another path.`,
	Args: cobra.ExactArgs(1),
	RunE: runTile,
}

func init() {
	tileCmd.Flags().StringVarP(&tileOut, "out", "o", "", "destination .dzi path (default: alongside the input)")
	tileTiling.register(tileCmd)
	rootCmd.AddCommand(tileCmd)
}

func runTile(_ *cobra.Command, args []string) error {
	start := time.Now()

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}

	destination := tileOut
	if destination == "" {
		destination = strings.TrimSuffix(absInput, filepath.Ext(absInput)) + ".dzi"
	}
	destination, err = filepath.Abs(destination)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	logVerbose("input:      %s", absInput)
	logVerbose("descriptor: %s", destination)

	img, err := imaging.Open(absInput)
	if err != nil {
		return fmt.Errorf("open %s: %w", absInput, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := tiler.New(tileTiling.config())
	if err := r.Create(ctx, img, destination); err != nil {
		return fmt.Errorf("tile pyramid: %w", err)
	}

	printBuildReport(destination, r.Config(), time.Since(start))
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/dzgen-cli/internal/descriptor"
	"github.com/AnyUserName/dzgen-cli/internal/hasher"
)

var statsCmd = &cobra.Command{
	Use:   "stats <dzi_path>",
	Short: "Display statistics for a built pyramid",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	dziPath := args[0]

	desc, err := descriptor.Load(dziPath)
	if err != nil {
		return err
	}

	printPyramidStats(desc, dziPath)
	return nil
}

func printPyramidStats(desc *descriptor.Descriptor, dziPath string) {
	fmt.Println()
	fmt.Printf("  Source size:   %dx%d px\n", desc.Width, desc.Height)
	fmt.Printf("  Tile size:     %d px + %d px overlap\n", desc.TileSize, desc.TileOverlap)
	fmt.Printf("  Tile format:   %s\n", desc.TileFormat)
	fmt.Printf("  Levels:        %d\n", desc.NumLevels())
	fmt.Println()

	tilesDir := descriptor.TilesDir(dziPath)
	seen := map[string]int{}
	var totalFiles, duplicates int
	var totalBytes int64

	fmt.Println("  Level breakdown:")
	for level := 0; level < desc.NumLevels(); level++ {
		w, h, _ := desc.Dimensions(level)
		cols, rows, _ := desc.TileGrid(level)

		var files int
		var bytes int64
		levelDir := filepath.Join(tilesDir, strconv.Itoa(level))
		entries, err := os.ReadDir(levelDir)
		if err != nil {
			fmt.Printf("    %2d  %6dx%-6d  (unreadable: %v)\n", level, w, h, err)
			continue
		}
		for _, entry := range entries {
			info, err := entry.Info()
			if err != nil || info.IsDir() {
				continue
			}
			files++
			bytes += info.Size()

			if hash, err := hashTile(filepath.Join(levelDir, entry.Name())); err == nil {
				seen[hash]++
				if seen[hash] > 1 {
					duplicates++
				}
			}
		}
		totalFiles += files
		totalBytes += bytes

		fmt.Printf("    %2d  %6dx%-6d  %3dx%-3d grid  %4d files  %s\n",
			level, w, h, cols, rows, files, formatBytes(bytes))
	}
	fmt.Println()

	fmt.Printf("  Total tiles:   %d\n", totalFiles)
	fmt.Printf("  Total size:    %s\n", formatBytes(totalBytes))
	if totalFiles > 0 {
		// Montages of sparse plates produce many identical background
		// tiles; the duplicate ratio shows how much of the pyramid is
		// repeated content.
		fmt.Printf("  Duplicates:    %d (%.1f%%)\n",
			duplicates, float64(duplicates)/float64(totalFiles)*100)
	}
	fmt.Println()
}

func hashTile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return hasher.SumReader(f)
}

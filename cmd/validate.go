package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/dzgen-cli/internal/descriptor"
)

var validateCmd = &cobra.Command{
	Use:   "validate <dzi_path>",
	Short: "Validate a DZI descriptor and check every expected tile exists",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	dziPath := args[0]

	desc, err := descriptor.Load(dziPath)
	if err != nil {
		return err
	}

	errors := validatePyramid(desc, dziPath)

	if len(errors) == 0 {
		total := 0
		for level := 0; level < desc.NumLevels(); level++ {
			cols, rows, _ := desc.TileGrid(level)
			total += cols * rows
		}
		fmt.Println("  ✓ Descriptor is valid")
		fmt.Printf("  ✓ %d levels, %d tiles — all files present\n", desc.NumLevels(), total)
		return nil
	}

	fmt.Printf("  ✗ Pyramid has %d error(s):\n", len(errors))
	for _, e := range errors {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errors))
}

// validatePyramid recomputes the pyramid geometry from the descriptor and
// compares it against the tile tree on disk.
func validatePyramid(desc *descriptor.Descriptor, dziPath string) []string {
	var errs []string

	tilesDir := descriptor.TilesDir(dziPath)
	if _, err := os.Stat(tilesDir); err != nil {
		return append(errs, fmt.Sprintf("tile directory missing: %s", tilesDir))
	}

	expectedLevels := map[string]bool{}
	for level := 0; level < desc.NumLevels(); level++ {
		expectedLevels[strconv.Itoa(level)] = true

		levelDir := filepath.Join(tilesDir, strconv.Itoa(level))
		if _, err := os.Stat(levelDir); err != nil {
			errs = append(errs, fmt.Sprintf("level %d: directory missing", level))
			continue
		}

		cols, rows, err := desc.TileGrid(level)
		if err != nil {
			errs = append(errs, fmt.Sprintf("level %d: %v", level, err))
			continue
		}

		expectedTiles := map[string]bool{}
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				name := fmt.Sprintf("%d_%d.%s", col, row, desc.TileFormat)
				expectedTiles[name] = true

				info, err := os.Stat(filepath.Join(levelDir, name))
				switch {
				case err != nil:
					errs = append(errs, fmt.Sprintf("level %d: tile missing: %s", level, name))
				case info.Size() == 0:
					errs = append(errs, fmt.Sprintf("level %d: tile empty: %s", level, name))
				}
			}
		}

		// Files that the geometry doesn't account for.
		entries, err := os.ReadDir(levelDir)
		if err != nil {
			errs = append(errs, fmt.Sprintf("level %d: %v", level, err))
			continue
		}
		for _, entry := range entries {
			if !expectedTiles[entry.Name()] {
				errs = append(errs, fmt.Sprintf("level %d: unexpected file: %s", level, entry.Name()))
			}
		}
	}

	entries, err := os.ReadDir(tilesDir)
	if err != nil {
		return append(errs, fmt.Sprintf("read %s: %v", tilesDir, err))
	}
	for _, entry := range entries {
		if !expectedLevels[entry.Name()] {
			errs = append(errs, fmt.Sprintf("unexpected entry in tile directory: %s", entry.Name()))
		}
	}

	return errs
}

package montage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source is one discovered input image.
type Source struct {
	// Path is the full path to the file.
	Path string
	// Name is the base file name, used for ordering and messages.
	Name string
	// Size is the file size in bytes.
	Size int64
}

// Scan lists the regular files in dir with the given extension (without
// dot, case-insensitive), sorted by name. Grid placement order is the sort
// order, so stable naming of the inputs determines the montage layout.
// Subdirectories are not descended into.
func Scan(dir, ext string) ([]Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	suffix := "." + strings.ToLower(strings.TrimPrefix(ext, "."))
	var sources []Source
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(strings.ToLower(name), suffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
		sources = append(sources, Source{
			Path: filepath.Join(dir, name),
			Name: name,
			Size: info.Size(),
		})
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].Name < sources[j].Name })
	return sources, nil
}

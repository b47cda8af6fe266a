package descriptor

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// NSDeepZoom is the schema namespace of DZI descriptor documents.
const NSDeepZoom = "http://schemas.microsoft.com/deepzoom/2008"

// dziImage mirrors the DZI on-disk schema: one Image element with the tiling
// attributes and a single Size child with the full-resolution dimensions.
type dziImage struct {
	XMLName  xml.Name `xml:"Image"`
	Xmlns    string   `xml:"xmlns,attr"`
	TileSize int      `xml:"TileSize,attr"`
	Overlap  int      `xml:"Overlap,attr"`
	Format   string   `xml:"Format,attr"`
	Size     dziSize  `xml:"Size"`
}

type dziSize struct {
	Width  int `xml:"Width,attr"`
	Height int `xml:"Height,attr"`
}

// TilesDir returns the tile-directory root for a descriptor path:
// the path with its extension replaced by "_files".
func TilesDir(destination string) string {
	return strings.TrimSuffix(destination, filepath.Ext(destination)) + "_files"
}

// Save writes the DZI document to destination. The write goes through a
// temp file in the same directory plus a rename, so an interrupted save
// never leaves a truncated descriptor behind ("descriptor absent" is the
// contract for an unusable pyramid).
func (d *Descriptor) Save(destination string) error {
	doc := dziImage{
		Xmlns:    NSDeepZoom,
		TileSize: d.TileSize,
		Overlap:  d.TileOverlap,
		Format:   d.TileFormat,
		Size:     dziSize{Width: d.Width, Height: d.Height},
	}
	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal descriptor: %w", err)
	}
	data = append([]byte(xml.Header), data...)
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(destination), ".dzgen-*.dzi")
	if err != nil {
		return fmt.Errorf("create descriptor temp: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write descriptor: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close descriptor: %w", err)
	}
	if err := os.Rename(tmpPath, destination); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename descriptor: %w", err)
	}
	return nil
}

// Load parses a saved DZI document back into a Descriptor.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	var doc dziImage
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse descriptor %s: %w", path, err)
	}
	d, err := New(doc.Size.Width, doc.Size.Height, doc.TileSize, doc.Overlap, doc.Format)
	if err != nil {
		return nil, fmt.Errorf("descriptor %s: %w", path, err)
	}
	return d, nil
}

// Remove deletes the descriptor file and its tile directory. Missing
// artifacts are not an error, so Remove doubles as cleanup after a
// failed or cancelled build.
func Remove(destination string) error {
	if err := os.Remove(destination); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove descriptor: %w", err)
	}
	if err := os.RemoveAll(TilesDir(destination)); err != nil {
		return fmt.Errorf("remove tiles: %w", err)
	}
	return nil
}

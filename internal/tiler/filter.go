package tiler

import (
	"github.com/disintegration/imaging"
)

// DefaultFilter is the kernel substituted for unknown filter names.
const DefaultFilter = "antialias"

// resizeFilters is the process-wide filter table, fixed at startup. The
// names follow the classic PIL set; "cubic" is the legacy alias of
// "bicubic", and "antialias" is Lanczos.
var resizeFilters = map[string]imaging.ResampleFilter{
	"nearest":   imaging.NearestNeighbor,
	"bilinear":  imaging.Linear,
	"bicubic":   imaging.CatmullRom,
	"cubic":     imaging.CatmullRom,
	"antialias": imaging.Lanczos,
}

// NormalizeFilter maps a filter name onto the supported set, falling back
// to DefaultFilter for anything unknown.
func NormalizeFilter(name string) string {
	if _, ok := resizeFilters[name]; ok {
		return name
	}
	return DefaultFilter
}

// filterByName resolves a filter name to its kernel. The name must already
// be normalized; unknown names still resolve to the default kernel rather
// than panicking.
func filterByName(name string) imaging.ResampleFilter {
	if f, ok := resizeFilters[name]; ok {
		return f
	}
	return resizeFilters[DefaultFilter]
}

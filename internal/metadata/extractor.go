// Package metadata extracts normalized capture metadata from photo files.
package metadata

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

type Extractor struct {
	exif *EXIFExtractor
}

func New() *Extractor {
	return &Extractor{exif: NewEXIFExtractor()}
}

// Extract never returns an error: on any parse failure it falls back to a
// degraded record built from filesystem stat data alone.
func (e *Extractor) Extract(path string) types.Metadata {
	meta, err := e.exif.Extract(path)
	if err != nil {
		return degraded(path)
	}
	return meta
}

// degraded builds the stat-only fallback record. Camera and lens carry the
// unknown sentinels and the capture time is the file modification time.
func degraded(path string) types.Metadata {
	meta := types.Metadata{
		Camera: types.UnknownCamera,
		Lens:   types.UnknownLens,
		Source: "file:mtime",
	}
	if info, err := os.Stat(path); err == nil {
		meta.CaptureTime = info.ModTime()
	}
	return meta
}

// CameraLabel combines a make and model tag into a single display label.
// If the model already contains the make (case-insensitive), the model alone
// is used; both empty yields the unknown sentinel.
func CameraLabel(make, model string) string {
	return combineLabel(make, model, types.UnknownCamera)
}

// LensLabel applies the same combining rule to lens make/model.
func LensLabel(lensMake, lensModel string) string {
	return combineLabel(lensMake, lensModel, types.UnknownLens)
}

func combineLabel(make, model, unknown string) string {
	make = strings.TrimSpace(make)
	model = strings.TrimSpace(model)

	switch {
	case make == "" && model == "":
		return unknown
	case make == "":
		return model
	case model == "":
		return make
	}

	if strings.Contains(strings.ToLower(model), strings.ToLower(make)) {
		return model
	}
	return make + " " + model
}

// Extension returns the lowercase extension of path without the dot.
func Extension(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

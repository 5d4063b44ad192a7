package gltfscene

import (
	"path/filepath"
	"strings"

	mst "github.com/flywave/go-mst"
)

const (
	GLTF = "gltf"
	GLB  = "glb"
)

type FormatConvert interface {
	Convert(path string) (*mst.Mesh, *[6]float64, error)
}

// FormatFactory returns the converter for a file extension, with or without
// the leading dot, or nil when the format is not supported.
func FormatFactory(format string, opts *Options) FormatConvert {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case GLTF, GLB:
		return &GltfToMst{Options: opts}
	}
	return nil
}

// FormatOf returns the lower-case extension of path without the dot.
func FormatOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

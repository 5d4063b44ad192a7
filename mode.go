package gltfscene

import "github.com/qmuntal/gltf"

// Mode is the topology used to interpret the vertices of a Model.
type Mode uint8

const (
	Points Mode = iota
	Lines
	LineLoop
	LineStrip
	Triangles
	TriangleStrip
	TriangleFan
)

var modeNames = [...]string{
	Points:        "Points",
	Lines:         "Lines",
	LineLoop:      "LineLoop",
	LineStrip:     "LineStrip",
	Triangles:     "Triangles",
	TriangleStrip: "TriangleStrip",
	TriangleFan:   "TriangleFan",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "Unknown"
}

// IsTriangles reports whether triangles() is defined for m.
func (m Mode) IsTriangles() bool {
	return m == Triangles || m == TriangleStrip || m == TriangleFan
}

// IsLines reports whether lines() is defined for m.
func (m Mode) IsLines() bool {
	return m == Lines || m == LineStrip || m == LineLoop
}

func modeFromGltf(m gltf.PrimitiveMode) Mode {
	switch m {
	case gltf.PrimitivePoints:
		return Points
	case gltf.PrimitiveLines:
		return Lines
	case gltf.PrimitiveLineLoop:
		return LineLoop
	case gltf.PrimitiveLineStrip:
		return LineStrip
	case gltf.PrimitiveTriangleStrip:
		return TriangleStrip
	case gltf.PrimitiveTriangleFan:
		return TriangleFan
	default:
		return Triangles
	}
}

package gltfscene

import (
	dmat "github.com/flywave/go3d/float64/mat4"
	"github.com/flywave/go3d/float64/quaternion"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	dvec4 "github.com/flywave/go3d/float64/vec4"
	"github.com/flywave/go3d/vec3"
	"github.com/qmuntal/gltf"
)

var (
	emptyMatrix = [16]float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
)

// Compose returns parent * local. Matrices are column-major: column 0..2
// hold the right, up and backward axes and column 3 the translation.
func Compose(parent, local *dmat.T) dmat.T {
	world := dmat.Ident
	world.AssignMul(parent, local)
	return world
}

// nodeMatrix returns the local transform of a node, either its raw matrix or
// the composition of its translation, rotation and scale. Decoded nodes
// carry gltf.DefaultMatrix when the document has no matrix, so an identity
// matrix defers to TRS.
func nodeMatrix(nd *gltf.Node) dmat.T {
	if nd.Matrix != emptyMatrix && nd.Matrix != gltf.DefaultMatrix {
		return fromColumnMajor(nd.MatrixOrDefault())
	}
	t := nd.TranslationOrDefault()
	r := nd.RotationOrDefault()
	s := nd.ScaleOrDefault()
	return trsMatrix(
		dvec3.T{t[0], t[1], t[2]},
		quaternion.T{r[0], r[1], r[2], r[3]},
		dvec3.T{s[0], s[1], s[2]},
	)
}

func trsMatrix(tra dvec3.T, rot quaternion.T, sc dvec3.T) dmat.T {
	return *dmat.Compose(&tra, &rot, &sc)
}

func fromColumnMajor(m [16]float64) dmat.T {
	return dmat.T{
		dvec4.T{m[0], m[1], m[2], m[3]},
		dvec4.T{m[4], m[5], m[6], m[7]},
		dvec4.T{m[8], m[9], m[10], m[11]},
		dvec4.T{m[12], m[13], m[14], m[15]},
	}
}

func translation(m *dmat.T) dvec3.T {
	return dvec3.T{m[3][0], m[3][1], m[3][2]}
}

func axis(m *dmat.T, col int) dvec3.T {
	v := dvec3.T{m[col][0], m[col][1], m[col][2]}
	v.Normalize()
	return v
}

// transformPoint applies m to p with w = 1 and divides by the resulting w.
func transformPoint(m *dmat.T, p [3]float32) vec3.T {
	v := dvec4.T{float64(p[0]), float64(p[1]), float64(p[2]), 1}
	r := m.MulVec4(&v)
	if r[3] != 0 && r[3] != 1 {
		r[0] /= r[3]
		r[1] /= r[3]
		r[2] /= r[3]
	}
	return vec3.T{float32(r[0]), float32(r[1]), float32(r[2])}
}

// transformDirection applies m to d with w = 0 and normalizes the result.
func transformDirection(m *dmat.T, d [3]float32) vec3.T {
	v := dvec4.T{float64(d[0]), float64(d[1]), float64(d[2]), 0}
	r := m.MulVec4(&v)
	out := dvec3.T{r[0], r[1], r[2]}
	out.Normalize()
	return vec3.T{float32(out[0]), float32(out[1]), float32(out[2])}
}

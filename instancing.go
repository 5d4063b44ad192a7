package gltfscene

import (
	dmat "github.com/flywave/go3d/float64/mat4"
	"github.com/flywave/go3d/float64/quaternion"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

const extMeshGpuInstancing = "EXT_mesh_gpu_instancing"

// instanceTransforms returns the per-instance TRS matrices of a node carrying
// EXT_mesh_gpu_instancing, or nil when the node is not instanced.
func (l *loader) instanceTransforms(nd *gltf.Node) ([]dmat.T, error) {
	v, ok := nd.Extensions[extMeshGpuInstancing]
	if !ok {
		return nil, nil
	}
	var ins struct {
		Attributes map[string]int `json:"attributes"`
	}
	if err := decodeExtension(v, &ins); err != nil {
		return nil, errors.Wrap(err, extMeshGpuInstancing)
	}

	count := -1
	var trans, scl [][3]float32
	var rots [][4]float32
	if idx, ok := ins.Attributes["TRANSLATION"]; ok {
		acc, err := l.accessor(idx)
		if err != nil {
			return nil, err
		}
		if trans, err = modeler.ReadPosition(l.doc, acc, nil); err != nil {
			return nil, errors.Wrap(err, "TRANSLATION")
		}
		count = len(trans)
	}
	if idx, ok := ins.Attributes["ROTATION"]; ok {
		acc, err := l.accessor(idx)
		if err != nil {
			return nil, err
		}
		if rots, err = readRotations(l.doc, acc); err != nil {
			return nil, errors.Wrap(err, "ROTATION")
		}
		count = len(rots)
	}
	if idx, ok := ins.Attributes["SCALE"]; ok {
		acc, err := l.accessor(idx)
		if err != nil {
			return nil, err
		}
		if scl, err = modeler.ReadPosition(l.doc, acc, nil); err != nil {
			return nil, errors.Wrap(err, "SCALE")
		}
		count = len(scl)
	}
	if count < 0 {
		return nil, nil
	}

	mats := make([]dmat.T, count)
	for i := range mats {
		tra := dvec3.T{0, 0, 0}
		rot := quaternion.T{0, 0, 0, 1}
		sc := dvec3.T{1, 1, 1}
		if i < len(trans) {
			tra = dvec3.T{float64(trans[i][0]), float64(trans[i][1]), float64(trans[i][2])}
		}
		if i < len(rots) {
			rot = quaternion.T{float64(rots[i][0]), float64(rots[i][1]), float64(rots[i][2]), float64(rots[i][3])}
		}
		if i < len(scl) {
			sc = dvec3.T{float64(scl[i][0]), float64(scl[i][1]), float64(scl[i][2])}
		}
		mats[i] = trsMatrix(tra, rot, sc)
	}
	return mats, nil
}

// readRotations reads a VEC4 quaternion accessor, float or normalized
// integer components.
func readRotations(doc *gltf.Document, acc *gltf.Accessor) ([][4]float32, error) {
	data, err := modeler.ReadAccessor(doc, acc, nil)
	if err != nil {
		return nil, err
	}
	switch v := data.(type) {
	case [][4]float32:
		return v, nil
	case [][4]int8:
		out := make([][4]float32, len(v))
		for i, q := range v {
			for j := range q {
				out[i][j] = max(float32(q[j])/127, -1)
			}
		}
		return out, nil
	case [][4]int16:
		out := make([][4]float32, len(v))
		for i, q := range v {
			for j := range q {
				out[i][j] = max(float32(q[j])/32767, -1)
			}
		}
		return out, nil
	}
	return nil, errors.Errorf("unsupported rotation accessor %T", data)
}

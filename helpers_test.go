package gltfscene

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/flywave/go3d/vec3"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quadPositions = [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}

// meshDocument returns a document whose only scene has one root node holding
// a single-primitive mesh.
func meshDocument(positions [][3]float32, indices []uint16, mode gltf.PrimitiveMode) *gltf.Document {
	doc := gltf.NewDocument()
	prim := &gltf.Primitive{
		Attributes: map[string]int{"POSITION": modeler.WritePosition(doc, positions)},
		Mode:       mode,
	}
	if indices != nil {
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, indices))
	}
	doc.Meshes = []*gltf.Mesh{{Name: "mesh", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: "root", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = []int{0}
	return doc
}

func loadOne(t *testing.T, doc *gltf.Document, opts *Options) *Scene {
	t.Helper()
	scenes, err := LoadDocument(&Source{Document: doc}, opts)
	require.NoError(t, err)
	require.Len(t, scenes, 1)
	return scenes[0]
}

// loadFromFile saves doc as a .glb and loads it back through Load, so node
// and extension defaults are applied by the document decoder.
func loadFromFile(t *testing.T, doc *gltf.Document, opts *Options) *Scene {
	t.Helper()
	if len(doc.Buffers) == 1 && len(doc.Buffers[0].Data) == 0 {
		doc.Buffers = nil
	}
	path := filepath.Join(t.TempDir(), "scene.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	scenes, err := Load(path, opts)
	require.NoError(t, err)
	require.Len(t, scenes, 1)
	return scenes[0]
}

func assertVec3(t *testing.T, want, got vec3.T) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5, "component %d of %v", i, got)
	}
}

// testPNG encodes an opaque w x h image whose pixel (x, y) is
// (x*40, y*40, 10+x+y, 255).
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 40), B: uint8(10 + x + y), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

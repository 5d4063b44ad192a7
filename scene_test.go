package gltfscene

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec3"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDVec3(t *testing.T, want, got dvec3.T) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "component %d of %v", i, got)
	}
}

func TestPerspectiveCameraAtOrigin(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Cameras = []*gltf.Camera{{
		Name:        "main",
		Perspective: &gltf.Perspective{Yfov: 0.4, Znear: 0.1},
	}}
	doc.Nodes = []*gltf.Node{{Camera: gltf.Index(0)}}
	doc.Scenes[0].Nodes = []int{0}

	scene := loadOne(t, doc, nil)
	require.Len(t, scene.Cameras, 1)
	cam := scene.Cameras[0]
	assert.Equal(t, "main", cam.Name)
	assert.Equal(t, 0, cam.Index)
	assertDVec3(t, dvec3.T{0, 0, 0}, cam.Position())
	assertDVec3(t, dvec3.T{0, 0, -1}, cam.Forward())
	assertDVec3(t, dvec3.T{0, 0, 1}, cam.Backward())
	assertDVec3(t, dvec3.T{1, 0, 0}, cam.Right())
	assertDVec3(t, dvec3.T{0, 1, 0}, cam.Up())
	assert.True(t, math.IsInf(cam.ZFar, 1))
	assert.InDelta(t, 0.1, cam.ZNear, 1e-12)

	p, ok := cam.Projection.(Perspective)
	require.True(t, ok)
	assert.InDelta(t, 0.4, p.YFov, 1e-12)
	assert.Nil(t, p.AspectRatio)
}

func orthographicDocument() *gltf.Document {
	doc := gltf.NewDocument()
	doc.Cameras = []*gltf.Camera{{
		Orthographic: &gltf.Orthographic{Xmag: 2, Ymag: 3, Znear: 0.5, Zfar: 50},
	}}
	s := math.Sqrt2 / 2
	doc.Nodes = []*gltf.Node{{
		Camera:      gltf.Index(0),
		Translation: [3]float64{1, 2, 3},
		// 90 degrees about Y: looks down -X
		Rotation: [4]float64{0, s, 0, s},
	}}
	doc.Scenes[0].Nodes = []int{0}
	return doc
}

func assertOrthographicCamera(t *testing.T, cam *Camera) {
	t.Helper()
	assert.Equal(t, Orthographic{XMag: 2, YMag: 3}, cam.Projection)
	assert.Equal(t, 50.0, cam.ZFar)
	assertDVec3(t, dvec3.T{1, 2, 3}, cam.Position())
	assertDVec3(t, dvec3.T{-1, 0, 0}, cam.Forward())
	assertDVec3(t, dvec3.T{0, 0, -1}, cam.ApplyTransformVector(dvec3.T{1, 0, 0}))
}

func TestOrthographicCameraTransform(t *testing.T) {
	assertOrthographicCamera(t, loadOne(t, orthographicDocument(), nil).Cameras[0])
}

func TestOrthographicCameraTransformFromFile(t *testing.T) {
	scene := loadFromFile(t, orthographicDocument(), nil)
	require.Len(t, scene.Cameras, 1)
	assertOrthographicCamera(t, scene.Cameras[0])
}

func TestCameraExtras(t *testing.T) {
	doc := orthographicDocument()
	doc.Cameras[0].Extras = map[string]interface{}{"rig": "main"}

	cam := loadOne(t, doc, nil).Cameras[0]
	assert.Equal(t, map[string]interface{}{"rig": "main"}, cam.Extras)

	cam = loadFromFile(t, doc, nil).Cameras[0]
	assert.NotNil(t, cam.Extras)

	assert.Nil(t, loadOne(t, orthographicDocument(), nil).Cameras[0].Extras)
}

func TestDefaultCamera(t *testing.T) {
	cam := DefaultCamera()
	assertDVec3(t, dvec3.T{0, 0, -1}, cam.Forward())
	assert.True(t, math.IsInf(cam.ZFar, 1))
}

func TestChildrenVisitedBeforeNode(t *testing.T) {
	doc := meshDocument(quadPositions, nil, gltf.PrimitivePoints)
	doc.Cameras = []*gltf.Camera{
		{Name: "parent", Perspective: &gltf.Perspective{Yfov: 1}},
		{Name: "child", Perspective: &gltf.Perspective{Yfov: 1}},
	}
	doc.Nodes = []*gltf.Node{
		{Camera: gltf.Index(0), Children: []int{1}},
		{Camera: gltf.Index(1)},
	}
	scene := loadOne(t, doc, nil)
	require.Len(t, scene.Cameras, 2)
	assert.Equal(t, "child", scene.Cameras[0].Name)
	assert.Equal(t, "parent", scene.Cameras[1].Name)
}

func TestSharedNodeVisitedPerPath(t *testing.T) {
	doc := meshDocument(quadPositions, nil, gltf.PrimitivePoints)
	doc.Nodes = []*gltf.Node{
		{Translation: [3]float64{0, 0, 0}, Children: []int{2}},
		{Translation: [3]float64{5, 0, 0}, Children: []int{2}},
		{Mesh: gltf.Index(0)},
	}
	doc.Scenes[0].Nodes = []int{0, 1}

	scene := loadOne(t, doc, nil)
	require.Len(t, scene.Models, 2)
	assertVec3(t, vec3.T{0, 0, 0}, scene.Models[0].Vertices[0].Position)
	assertVec3(t, vec3.T{5, 0, 0}, scene.Models[1].Vertices[0].Position)
	assert.Same(t, scene.Models[0].Material, scene.Models[1].Material)
}

func TestOnePerDocumentScene(t *testing.T) {
	doc := meshDocument(quadPositions, nil, gltf.PrimitivePoints)
	doc.Scenes = append(doc.Scenes, &gltf.Scene{Name: "empty"})

	scenes, err := LoadDocument(&Source{Document: doc}, nil)
	require.NoError(t, err)
	require.Len(t, scenes, 2)
	assert.Len(t, scenes[0].Models, 1)
	assert.Equal(t, "empty", scenes[1].Name)
	assert.Empty(t, scenes[1].Models)
}

func TestSceneBoundingBox(t *testing.T) {
	doc := meshDocument(quadPositions, nil, gltf.PrimitivePoints)
	doc.Nodes = []*gltf.Node{
		{Mesh: gltf.Index(0)},
		{Mesh: gltf.Index(0), Translation: [3]float64{0, 0, -2}},
	}
	doc.Scenes[0].Nodes = []int{0, 1}
	scene := loadOne(t, doc, nil)
	assert.Equal(t, &[6]float64{0, 0, -2, 1, 1, 0}, scene.BoundingBox())
}

func TestBadReferences(t *testing.T) {
	cases := map[string]func(doc *gltf.Document){
		"node":     func(doc *gltf.Document) { doc.Scenes[0].Nodes = []int{4} },
		"child":    func(doc *gltf.Document) { doc.Nodes[0].Children = []int{9} },
		"mesh":     func(doc *gltf.Document) { doc.Nodes[0].Mesh = gltf.Index(3) },
		"camera":   func(doc *gltf.Document) { doc.Nodes[0].Camera = gltf.Index(0) },
		"material": func(doc *gltf.Document) { doc.Meshes[0].Primitives[0].Material = gltf.Index(2) },
		"accessor": func(doc *gltf.Document) { doc.Meshes[0].Primitives[0].Attributes["POSITION"] = 42 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			doc := meshDocument(quadPositions, nil, gltf.PrimitivePoints)
			mutate(doc)
			scenes, err := LoadDocument(&Source{Document: doc}, nil)
			assert.ErrorIs(t, err, ErrDocumentParse)
			assert.Nil(t, scenes)
		})
	}
}

func TestLoadFile(t *testing.T) {
	doc := meshDocument(quadPositions, []uint16{0, 1, 2, 0, 2, 3}, gltf.PrimitiveTriangles)
	path := filepath.Join(t.TempDir(), "quad.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	scenes, err := Load(path, nil)
	require.NoError(t, err)
	require.Len(t, scenes, 1)
	require.Len(t, scenes[0].Models, 1)
	tris, err := scenes[0].Models[0].Triangles()
	require.NoError(t, err)
	assert.Len(t, tris, 2)
}

func TestLoadWithCache(t *testing.T) {
	doc := meshDocument(quadPositions, nil, gltf.PrimitivePoints)
	path := filepath.Join(t.TempDir(), "points.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	scenes, cache, err := LoadWithCache(path, nil)
	require.NoError(t, err)
	require.Len(t, scenes, 1)
	require.NotNil(t, cache)
	assert.Equal(t, 1, cache.Stats().Materials)

	scenes, cache, err = LoadWithCache(filepath.Join(t.TempDir(), "missing.glb"), nil)
	assert.ErrorIs(t, err, ErrIO)
	assert.Nil(t, scenes)
	assert.Nil(t, cache)
}

func TestLoadMissingFile(t *testing.T) {
	scenes, err := Load(filepath.Join(t.TempDir(), "missing.glb"), nil)
	assert.ErrorIs(t, err, ErrIO)
	assert.Nil(t, scenes)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.gltf")
	require.NoError(t, os.WriteFile(path, []byte("{ not json"), 0o644))

	scenes, err := Load(path, nil)
	assert.ErrorIs(t, err, ErrDocumentParse)
	assert.Nil(t, scenes)
}

func TestLoadNilDocument(t *testing.T) {
	_, err := LoadDocument(&Source{}, nil)
	assert.ErrorIs(t, err, ErrDocumentParse)
}

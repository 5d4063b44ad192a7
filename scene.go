package gltfscene

import (
	dmat "github.com/flywave/go3d/float64/mat4"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
)

// Scene holds the flattened cameras, lights and models of one document
// scene. Entities of a node are appended after those of its children.
type Scene struct {
	Name    string
	Models  []*Model
	Cameras []*Camera
	Lights  []*Light
}

// BoundingBox returns the union of the bounding boxes of all models.
func (s *Scene) BoundingBox() *[6]float64 {
	bbx := dvec3.MinBox
	for _, m := range s.Models {
		bbx.Join(m.box())
	}
	return bbx.Array()
}

func (l *loader) loadScene(gs *gltf.Scene) (*Scene, error) {
	scene := &Scene{Name: gs.Name}
	for _, n := range gs.Nodes {
		if err := l.readNode(scene, n, &dmat.Ident); err != nil {
			return nil, err
		}
	}
	l.log.Debug("scene loaded",
		zap.String("scene", gs.Name),
		zap.Int("models", len(scene.Models)),
		zap.Int("cameras", len(scene.Cameras)),
		zap.Int("lights", len(scene.Lights)))
	return scene, nil
}

// readNode visits a node and its subtree. A node reachable through several
// parents is visited once per path.
func (l *loader) readNode(scene *Scene, index int, parent *dmat.T) error {
	if index < 0 || index >= len(l.doc.Nodes) || l.doc.Nodes[index] == nil {
		return newLoadError(ErrDocumentParse, "node %d out of range", index)
	}
	nd := l.doc.Nodes[index]
	local := nodeMatrix(nd)
	world := Compose(parent, &local)

	for _, child := range nd.Children {
		if err := l.readNode(scene, child, &world); err != nil {
			return err
		}
	}

	if nd.Camera != nil {
		ci := *nd.Camera
		if ci < 0 || ci >= len(l.doc.Cameras) || l.doc.Cameras[ci] == nil {
			return newLoadError(ErrDocumentParse, "camera %d out of range", ci)
		}
		scene.Cameras = append(scene.Cameras, loadCamera(ci, l.doc.Cameras[ci], &world))
	}

	li, err := nodeLight(nd)
	if err != nil {
		return wrapLoadError(ErrDocumentParse, err, "node %d", index)
	}
	if li >= 0 {
		if li >= len(l.lights) || l.lights[li] == nil {
			return newLoadError(ErrDocumentParse, "light %d out of range", li)
		}
		scene.Lights = append(scene.Lights, loadLight(li, l.lights[li], &world))
	}

	if nd.Mesh != nil {
		return l.readMesh(scene, index, *nd.Mesh, &world)
	}
	return nil
}

func (l *loader) readMesh(scene *Scene, nodeIndex, meshIndex int, world *dmat.T) error {
	if meshIndex < 0 || meshIndex >= len(l.doc.Meshes) || l.doc.Meshes[meshIndex] == nil {
		return newLoadError(ErrDocumentParse, "mesh %d out of range", meshIndex)
	}
	mh := l.doc.Meshes[meshIndex]

	instances := []dmat.T{*world}
	instanced := false
	if l.opts.GPUInstancing {
		trs, err := l.instanceTransforms(l.doc.Nodes[nodeIndex])
		if err != nil {
			return wrapLoadError(ErrDocumentParse, err, "node %d", nodeIndex)
		}
		if trs != nil {
			instanced = true
			instances = instances[:0]
			for i := range trs {
				instances = append(instances, Compose(world, &trs[i]))
			}
		}
	}

	for inst := range instances {
		for pi, prim := range mh.Primitives {
			m, err := l.loadModel(prim, &instances[inst])
			if err != nil {
				return wrapLoadError(ErrDocumentParse, err, "mesh %d primitive %d", meshIndex, pi)
			}
			m.MeshName = mh.Name
			m.MeshIndex = meshIndex
			m.PrimitiveIndex = pi
			m.NodeIndex = nodeIndex
			if instanced {
				m.Instance = inst
			}
			scene.Models = append(scene.Models, m)
		}
	}
	return nil
}

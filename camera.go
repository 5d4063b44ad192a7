package gltfscene

import (
	"math"

	dmat "github.com/flywave/go3d/float64/mat4"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	dvec4 "github.com/flywave/go3d/float64/vec4"
	"github.com/qmuntal/gltf"
)

// Projection is either a Perspective or an Orthographic projection.
type Projection interface {
	isProjection()
}

type Perspective struct {
	// YFov is the vertical field of view in radians.
	YFov float64
	// AspectRatio is nil when the document leaves it to the viewport.
	AspectRatio *float64
}

type Orthographic struct {
	XMag float64
	YMag float64
}

func (Perspective) isProjection()  {}
func (Orthographic) isProjection() {}

// Camera is a world-space camera. It looks down the -Z axis of Transform.
type Camera struct {
	Name       string
	Index      int
	Transform  dmat.T
	Projection Projection
	// ZFar is +Inf for perspective cameras without a far plane.
	ZFar  float64
	ZNear float64
	// Extras is the application payload of the source camera.
	Extras interface{}
}

// DefaultCamera returns a camera at the origin looking down -Z.
func DefaultCamera() *Camera {
	return &Camera{
		Index:      -1,
		Transform:  dmat.Ident,
		Projection: Perspective{YFov: 0.399},
		ZFar:       math.Inf(1),
	}
}

func (c *Camera) Position() dvec3.T { return translation(&c.Transform) }

func (c *Camera) Right() dvec3.T { return axis(&c.Transform, 0) }

func (c *Camera) Up() dvec3.T { return axis(&c.Transform, 1) }

// Backward is the normalized +Z axis of the camera.
func (c *Camera) Backward() dvec3.T { return axis(&c.Transform, 2) }

func (c *Camera) Forward() dvec3.T {
	b := c.Backward()
	return b.Inverted()
}

// ApplyTransformVector rotates and scales v by the camera transform,
// ignoring translation.
func (c *Camera) ApplyTransformVector(v dvec3.T) dvec3.T {
	r := c.Transform.MulVec4(&dvec4.T{v[0], v[1], v[2], 0})
	return dvec3.T{r[0], r[1], r[2]}
}

func loadCamera(index int, gc *gltf.Camera, world *dmat.T) *Camera {
	cam := &Camera{
		Name:      gc.Name,
		Index:     index,
		Transform: *world,
		Extras:    gc.Extras,
	}
	switch {
	case gc.Orthographic != nil:
		o := gc.Orthographic
		cam.Projection = Orthographic{XMag: o.Xmag, YMag: o.Ymag}
		cam.ZFar = o.Zfar
		cam.ZNear = o.Znear
	case gc.Perspective != nil:
		p := gc.Perspective
		cam.Projection = Perspective{YFov: p.Yfov, AspectRatio: p.AspectRatio}
		cam.ZFar = math.Inf(1)
		if p.Zfar != nil {
			cam.ZFar = *p.Zfar
		}
		cam.ZNear = p.Znear
	default:
		cam.Projection = Perspective{YFov: 0.399}
		cam.ZFar = math.Inf(1)
	}
	return cam
}

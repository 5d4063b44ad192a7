package gltfscene

import (
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/flywave/go3d/vec4"
)

// Vertex is a world-space vertex. Fields whose source attribute is absent
// keep their zero value; see the Has* flags of the owning Model.
type Vertex struct {
	Position vec3.T
	Normal   vec3.T
	// Tangent holds the world-space tangent direction in xyz and the
	// untouched handedness sign in w.
	Tangent  vec4.T
	TexCoord vec2.T
	Color    vec4.T
}

type Triangle [3]Vertex

type Line [2]Vertex

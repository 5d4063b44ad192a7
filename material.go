package gltfscene

import (
	"image"

	"github.com/chewxy/math32"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/flywave/go3d/vec4"
	"github.com/qmuntal/gltf"
)

type AlphaMode uint8

const (
	AlphaOpaque AlphaMode = iota
	AlphaMask
	AlphaBlend
)

func (a AlphaMode) String() string {
	switch a {
	case AlphaMask:
		return "MASK"
	case AlphaBlend:
		return "BLEND"
	}
	return "OPAQUE"
}

func alphaModeFromGltf(m gltf.AlphaMode) AlphaMode {
	switch m {
	case gltf.AlphaMask:
		return AlphaMask
	case gltf.AlphaBlend:
		return AlphaBlend
	}
	return AlphaOpaque
}

// Material is a metallic-roughness PBR material. Texture fields are nil when
// the source material has no such texture or images were not loaded.
// Materials are shared between models and must be treated as read-only.
type Material struct {
	Name string
	// Index is the source material index, -1 for the default material.
	Index int

	BaseColorFactor  vec4.T
	BaseColorTexture *image.NRGBA

	MetallicFactor   float32
	MetallicTexture  *image.Gray
	RoughnessFactor  float32
	RoughnessTexture *image.Gray

	NormalTexture *RGBImage
	NormalScale   float32

	OcclusionTexture  *image.Gray
	OcclusionStrength float32

	EmissiveFactor  vec3.T
	EmissiveTexture *RGBImage

	AlphaMode   AlphaMode
	AlphaCutoff float32
	DoubleSided bool
}

// DefaultMaterial returns the material used by primitives without one.
func DefaultMaterial() *Material {
	return &Material{
		Index:             -1,
		BaseColorFactor:   vec4.T{1, 1, 1, 1},
		MetallicFactor:    1,
		RoughnessFactor:   1,
		NormalScale:       1,
		OcclusionStrength: 1,
		AlphaCutoff:       0.5,
	}
}

// BaseColorAlpha samples the base color at uv. The texture sample is
// decoded from sRGB (gamma 2.2) before being multiplied by the linear
// factor; alpha is used as is.
func (m *Material) BaseColorAlpha(uv vec2.T) vec4.T {
	res := m.BaseColorFactor
	if tex := m.BaseColorTexture; tex != nil {
		b := tex.Bounds()
		x, y := pixelAt(uv, b.Dx(), b.Dy())
		px := tex.NRGBAAt(b.Min.X+x, b.Min.Y+y)
		res[0] *= math32.Pow(float32(px.R)/255, 2.2)
		res[1] *= math32.Pow(float32(px.G)/255, 2.2)
		res[2] *= math32.Pow(float32(px.B)/255, 2.2)
		res[3] *= float32(px.A) / 255
	}
	return res
}

func (m *Material) BaseColor(uv vec2.T) vec3.T {
	c := m.BaseColorAlpha(uv)
	return vec3.T{c[0], c[1], c[2]}
}

func (m *Material) Metallic(uv vec2.T) float32 {
	return m.MetallicFactor * sampleGray(m.MetallicTexture, uv, 1)
}

func (m *Material) Roughness(uv vec2.T) float32 {
	return m.RoughnessFactor * sampleGray(m.RoughnessTexture, uv, 1)
}

// Normal returns the tangent-space normal at uv scaled by NormalScale, and
// false when the material has no normal texture.
func (m *Material) Normal(uv vec2.T) (vec3.T, bool) {
	tex := m.NormalTexture
	if tex == nil {
		return vec3.T{}, false
	}
	px := tex.At(pixelAt(uv, tex.Width, tex.Height))
	return vec3.T{
		m.NormalScale * (float32(px[0])/127.5 - 1),
		m.NormalScale * (float32(px[1])/127.5 - 1),
		m.NormalScale * (float32(px[2])/127.5 - 1),
	}, true
}

// Occlusion returns the occlusion at uv scaled by OcclusionStrength, and
// false when the material has no occlusion texture.
func (m *Material) Occlusion(uv vec2.T) (float32, bool) {
	if m.OcclusionTexture == nil {
		return 0, false
	}
	return m.OcclusionStrength * sampleGray(m.OcclusionTexture, uv, 0), true
}

func (m *Material) Emissive(uv vec2.T) vec3.T {
	res := m.EmissiveFactor
	if tex := m.EmissiveTexture; tex != nil {
		px := tex.At(pixelAt(uv, tex.Width, tex.Height))
		for i := range res {
			res[i] *= float32(px[i]) / 255
		}
	}
	return res
}

func sampleGray(tex *image.Gray, uv vec2.T, fallback float32) float32 {
	if tex == nil {
		return fallback
	}
	b := tex.Bounds()
	x, y := pixelAt(uv, b.Dx(), b.Dy())
	return float32(tex.GrayAt(b.Min.X+x, b.Min.Y+y).Y) / 255
}

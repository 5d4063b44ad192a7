package gltfscene

import (
	"image"
	"image/color"
	"testing"

	"github.com/chewxy/math32"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/flywave/go3d/vec4"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
)

func TestDefaultMaterial(t *testing.T) {
	mt := DefaultMaterial()
	assert.Equal(t, -1, mt.Index)
	assert.Equal(t, vec4.T{1, 1, 1, 1}, mt.BaseColorFactor)
	assert.Equal(t, float32(1), mt.Metallic(vec2.T{0.5, 0.5}))
	assert.Equal(t, float32(1), mt.Roughness(vec2.T{0.5, 0.5}))
	assert.Equal(t, float32(0.5), mt.AlphaCutoff)
	assert.Equal(t, AlphaOpaque, mt.AlphaMode)

	_, ok := mt.Normal(vec2.T{})
	assert.False(t, ok)
	_, ok = mt.Occlusion(vec2.T{})
	assert.False(t, ok)
	assert.Equal(t, vec3.T{}, mt.Emissive(vec2.T{}))
}

func TestBaseColorSampling(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	tex.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 0, B: 128, A: 255})
	tex.SetNRGBA(1, 0, color.NRGBA{R: 0, G: 255, B: 0, A: 51})

	mt := DefaultMaterial()
	mt.BaseColorFactor = vec4.T{0.5, 1, 1, 1}
	mt.BaseColorTexture = tex

	c := mt.BaseColorAlpha(vec2.T{0.1, 0.5})
	assert.InDelta(t, 0.5, c[0], 1e-6)
	assert.InDelta(t, 0, c[1], 1e-6)
	assert.InDelta(t, math32.Pow(128.0/255, 2.2), c[2], 1e-6)
	assert.InDelta(t, 1, c[3], 1e-6)

	c = mt.BaseColorAlpha(vec2.T{0.75, 0})
	assert.InDelta(t, 1, c[1], 1e-6)
	assert.InDelta(t, 0.2, c[3], 1e-6)

	rgb := mt.BaseColor(vec2.T{0.75, 0})
	assert.Equal(t, vec3.T{c[0], c[1], c[2]}, rgb)
}

func TestGrayAndNormalSampling(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 1, 1))
	gray.Pix[0] = 51

	normal := NewRGBImage(1, 1)
	normal.Set(0, 0, [3]uint8{255, 0, 255})

	emissive := NewRGBImage(1, 1)
	emissive.Set(0, 0, [3]uint8{255, 0, 51})

	mt := DefaultMaterial()
	mt.MetallicFactor = 0.5
	mt.MetallicTexture = gray
	mt.RoughnessTexture = gray
	mt.OcclusionTexture = gray
	mt.OcclusionStrength = 0.5
	mt.NormalTexture = normal
	mt.NormalScale = 0.5
	mt.EmissiveFactor = vec3.T{1, 1, 1}
	mt.EmissiveTexture = emissive

	uv := vec2.T{0.2, 0.7}
	assert.InDelta(t, 0.1, mt.Metallic(uv), 1e-6)
	assert.InDelta(t, 0.2, mt.Roughness(uv), 1e-6)

	occ, ok := mt.Occlusion(uv)
	assert.True(t, ok)
	assert.InDelta(t, 0.1, occ, 1e-6)

	n, ok := mt.Normal(uv)
	assert.True(t, ok)
	assert.Equal(t, vec3.T{0.5, -0.5, 0.5}, n)

	e := mt.Emissive(uv)
	assert.InDelta(t, 1, e[0], 1e-6)
	assert.InDelta(t, 0, e[1], 1e-6)
	assert.InDelta(t, 0.2, e[2], 1e-6)
}

func TestAlphaModeFromDocument(t *testing.T) {
	assert.Equal(t, AlphaOpaque, alphaModeFromGltf(gltf.AlphaOpaque))
	assert.Equal(t, AlphaMask, alphaModeFromGltf(gltf.AlphaMask))
	assert.Equal(t, AlphaBlend, alphaModeFromGltf(gltf.AlphaBlend))
	assert.Equal(t, "MASK", AlphaMask.String())
}

func TestPixelAtTruncates(t *testing.T) {
	x, y := pixelAt(vec2.T{0.99, 0.5}, 4, 4)
	assert.Equal(t, 3, x)
	assert.Equal(t, 2, y)
}

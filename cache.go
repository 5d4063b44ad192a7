package gltfscene

import (
	"image"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/flywave/go3d/vec3"
	"github.com/flywave/go3d/vec4"
	"github.com/qmuntal/gltf"
)

// TextureDecoder returns the decoded image of a document texture.
type TextureDecoder interface {
	DecodeTexture(index int) (image.Image, error)
}

type grayKey struct {
	texture int
	channel int
}

// CacheStats counts the entries of a ResourceCache.
type CacheStats struct {
	Materials int
	RGB       int
	RGBA      int
	Gray      int
	// Decodes is the number of DecodeTexture calls made so far.
	Decodes int
}

// ResourceCache deduplicates materials and decoded textures of one document.
// Every key is resolved at most once; lookups are serialized so concurrent
// misses on the same key share a single decode.
type ResourceCache struct {
	mu      sync.Mutex
	doc     *gltf.Document
	decoder TextureDecoder

	materials map[int]*Material
	rgb       map[int]*RGBImage
	rgba      map[int]*image.NRGBA
	gray      map[grayKey]*image.Gray
	decodes   int
}

// NewResourceCache creates an empty cache over doc. A nil decoder disables
// textures: materials are loaded without any texture.
func NewResourceCache(doc *gltf.Document, decoder TextureDecoder) *ResourceCache {
	return &ResourceCache{
		doc:       doc,
		decoder:   decoder,
		materials: make(map[int]*Material),
		rgb:       make(map[int]*RGBImage),
		rgba:      make(map[int]*image.NRGBA),
		gray:      make(map[grayKey]*image.Gray),
	}
}

func (c *ResourceCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Materials: len(c.materials),
		RGB:       len(c.rgb),
		RGBA:      len(c.rgba),
		Gray:      len(c.gray),
		Decodes:   c.decodes,
	}
}

// Material returns the shared material for a source material index; nil
// selects the default material.
func (c *ResourceCache) Material(index *int) (*Material, error) {
	key := -1
	if index != nil {
		key = *index
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if mt, ok := c.materials[key]; ok {
		return mt, nil
	}
	var mt *Material
	if key < 0 {
		mt = DefaultMaterial()
	} else {
		if key >= len(c.doc.Materials) || c.doc.Materials[key] == nil {
			return nil, newLoadError(ErrDocumentParse, "material %d out of range", key)
		}
		var err error
		if mt, err = c.loadMaterial(key, c.doc.Materials[key]); err != nil {
			return nil, err
		}
	}
	c.materials[key] = mt
	return mt, nil
}

func (c *ResourceCache) loadMaterial(index int, gm *gltf.Material) (*Material, error) {
	mt := DefaultMaterial()
	mt.Name = gm.Name
	mt.Index = index
	mt.AlphaMode = alphaModeFromGltf(gm.AlphaMode)
	mt.AlphaCutoff = float32(gm.AlphaCutoffOrDefault())
	mt.DoubleSided = gm.DoubleSided

	var err error
	pbr := gm.PBRMetallicRoughness
	if pbr == nil {
		pbr = &gltf.PBRMetallicRoughness{}
	}
	bc := pbr.BaseColorFactorOrDefault()
	mt.BaseColorFactor = vec4.T{float32(bc[0]), float32(bc[1]), float32(bc[2]), float32(bc[3])}
	mt.MetallicFactor = float32(pbr.MetallicFactorOrDefault())
	mt.RoughnessFactor = float32(pbr.RoughnessFactorOrDefault())
	if pbr.BaseColorTexture != nil {
		if mt.BaseColorTexture, err = c.rgbaLocked(pbr.BaseColorTexture.Index); err != nil {
			return nil, err
		}
	}
	if pbr.MetallicRoughnessTexture != nil {
		tex := pbr.MetallicRoughnessTexture.Index
		if mt.MetallicTexture, err = c.grayLocked(tex, ChannelB); err != nil {
			return nil, err
		}
		if mt.RoughnessTexture, err = c.grayLocked(tex, ChannelG); err != nil {
			return nil, err
		}
	}

	if nt := gm.NormalTexture; nt != nil && nt.Index != nil {
		mt.NormalScale = float32(nt.ScaleOrDefault())
		if mt.NormalTexture, err = c.rgbLocked(*nt.Index); err != nil {
			return nil, err
		}
	}
	if ot := gm.OcclusionTexture; ot != nil && ot.Index != nil {
		mt.OcclusionStrength = float32(ot.StrengthOrDefault())
		if mt.OcclusionTexture, err = c.grayLocked(*ot.Index, ChannelR); err != nil {
			return nil, err
		}
	}

	ef := gm.EmissiveFactor
	mt.EmissiveFactor = vec3.T{float32(ef[0]), float32(ef[1]), float32(ef[2])}
	if gm.EmissiveTexture != nil {
		if mt.EmissiveTexture, err = c.rgbLocked(gm.EmissiveTexture.Index); err != nil {
			return nil, err
		}
	}
	return mt, nil
}

// RGBATexture returns the shared RGBA decode of a texture.
func (c *ResourceCache) RGBATexture(index int) (*image.NRGBA, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rgbaLocked(index)
}

// RGBTexture returns the shared RGB decode of a texture.
func (c *ResourceCache) RGBTexture(index int) (*RGBImage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rgbLocked(index)
}

// GrayTexture returns one channel of a texture as a shared single-channel
// image.
func (c *ResourceCache) GrayTexture(index, channel int) (*image.Gray, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grayLocked(index, channel)
}

func (c *ResourceCache) rgbaLocked(index int) (*image.NRGBA, error) {
	if c.decoder == nil {
		return nil, nil
	}
	if img, ok := c.rgba[index]; ok {
		return img, nil
	}
	img, err := c.decode(index)
	if err != nil {
		return nil, err
	}
	c.rgba[index] = img
	return img, nil
}

func (c *ResourceCache) rgbLocked(index int) (*RGBImage, error) {
	if c.decoder == nil {
		return nil, nil
	}
	if img, ok := c.rgb[index]; ok {
		return img, nil
	}
	src, err := c.decode(index)
	if err != nil {
		return nil, err
	}
	img := rgbFromNRGBA(src)
	c.rgb[index] = img
	return img, nil
}

func (c *ResourceCache) grayLocked(index, channel int) (*image.Gray, error) {
	if c.decoder == nil {
		return nil, nil
	}
	if channel < ChannelR || channel > ChannelB {
		return nil, newLoadError(ErrTextureDecode, "channel %d out of range", channel)
	}
	key := grayKey{texture: index, channel: channel}
	if img, ok := c.gray[key]; ok {
		return img, nil
	}
	src, err := c.decode(index)
	if err != nil {
		return nil, err
	}
	img := extractChannel(src, channel)
	c.gray[key] = img
	return img, nil
}

func (c *ResourceCache) decode(index int) (*image.NRGBA, error) {
	if index < 0 || index >= len(c.doc.Textures) || c.doc.Textures[index] == nil {
		return nil, newLoadError(ErrDocumentParse, "texture %d out of range", index)
	}
	c.decodes++
	img, err := c.decoder.DecodeTexture(index)
	if err != nil {
		return nil, wrapLoadError(ErrTextureDecode, err, "texture %d", index)
	}
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return nrgba, nil
	}
	return imaging.Clone(img), nil
}

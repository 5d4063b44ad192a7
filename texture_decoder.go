package gltfscene

import (
	"encoding/json"
	"image"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

const extTextureWebp = "EXT_texture_webp"

// documentDecoder resolves the bytes of a texture image and decodes them.
// Image bytes come, in order of preference, from the caller supplied list
// parallel to Document.Images, a buffer view, a data URI, or a file next to
// the document.
type documentDecoder struct {
	doc     *gltf.Document
	baseDir string
	images  [][]byte
}

func (d *documentDecoder) DecodeTexture(index int) (image.Image, error) {
	if index < 0 || index >= len(d.doc.Textures) || d.doc.Textures[index] == nil {
		return nil, errors.Errorf("texture %d out of range", index)
	}
	src, err := d.imageSource(d.doc.Textures[index])
	if err != nil {
		return nil, err
	}
	if src < 0 || src >= len(d.doc.Images) {
		return nil, errors.Errorf("image %d out of range", src)
	}
	img := d.doc.Images[src]
	if img == nil {
		return nil, errors.Errorf("image %d is null", src)
	}
	data, err := d.imageBytes(src, img)
	if err != nil {
		return nil, errors.Wrapf(err, "image %d", src)
	}
	return decodeImage(img.MimeType, data)
}

func (d *documentDecoder) imageSource(tex *gltf.Texture) (int, error) {
	if tex.Source != nil {
		return *tex.Source, nil
	}
	if v, ok := tex.Extensions[extTextureWebp]; ok {
		var ext struct {
			Source *int `json:"source"`
		}
		if err := decodeExtension(v, &ext); err != nil {
			return 0, errors.Wrap(err, extTextureWebp)
		}
		if ext.Source != nil {
			return *ext.Source, nil
		}
	}
	return 0, errors.New("texture has no image source")
}

func (d *documentDecoder) imageBytes(index int, img *gltf.Image) ([]byte, error) {
	if index < len(d.images) && d.images[index] != nil {
		return d.images[index], nil
	}
	if img.BufferView != nil {
		if *img.BufferView < 0 || *img.BufferView >= len(d.doc.BufferViews) {
			return nil, errors.Errorf("buffer view %d out of range", *img.BufferView)
		}
		return modeler.ReadBufferView(d.doc, d.doc.BufferViews[*img.BufferView])
	}
	if img.IsEmbeddedResource() {
		return img.MarshalData()
	}
	if img.URI == "" {
		return nil, errors.New("image has neither uri nor buffer view")
	}
	uri := img.URI
	if u, err := url.PathUnescape(uri); err == nil {
		uri = u
	}
	return os.ReadFile(filepath.Join(d.baseDir, filepath.FromSlash(uri)))
}

// decodeExtension converts an extension payload, typed or raw, into v.
func decodeExtension(ext interface{}, v interface{}) error {
	var dt []byte
	switch raw := ext.(type) {
	case json.RawMessage:
		dt = raw
	case []byte:
		dt = raw
	default:
		var err error
		if dt, err = json.Marshal(ext); err != nil {
			return err
		}
	}
	return json.Unmarshal(dt, v)
}

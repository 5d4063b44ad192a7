package gltfscene

import (
	"image"

	"github.com/flywave/go3d/vec2"
)

// Channels of a decoded RGBA texture used for single-channel extraction.
const (
	ChannelR = 0
	ChannelG = 1
	ChannelB = 2
)

// RGBImage is an 8-bit RGB pixel buffer, rows top to bottom.
type RGBImage struct {
	Width  int
	Height int
	Pix    []uint8
}

func NewRGBImage(w, h int) *RGBImage {
	return &RGBImage{Width: w, Height: h, Pix: make([]uint8, w*h*3)}
}

// At returns the pixel at (x, y), or black outside the image.
func (m *RGBImage) At(x, y int) [3]uint8 {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return [3]uint8{}
	}
	i := (y*m.Width + x) * 3
	return [3]uint8{m.Pix[i], m.Pix[i+1], m.Pix[i+2]}
}

func (m *RGBImage) Set(x, y int, px [3]uint8) {
	i := (y*m.Width + x) * 3
	copy(m.Pix[i:i+3], px[:])
}

func rgbFromNRGBA(src *image.NRGBA) *RGBImage {
	b := src.Bounds()
	dst := NewRGBImage(b.Dx(), b.Dy())
	for y := 0; y < dst.Height; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < dst.Width; x++ {
			copy(dst.Pix[(y*dst.Width+x)*3:], row[x*4:x*4+3])
		}
	}
	return dst
}

// extractChannel copies one channel of src into a single-channel image.
func extractChannel(src *image.NRGBA, channel int) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < b.Dx(); x++ {
			dst.Pix[y*dst.Stride+x] = row[x*4+channel]
		}
	}
	return dst
}

// pixelAt scales a texture coordinate by the texture size and truncates it
// to a pixel index. No filtering, no wrapping.
func pixelAt(uv vec2.T, w, h int) (int, int) {
	return int(uv[0] * float32(w)), int(uv[1] * float32(h))
}

package gltfscene

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/chai2010/tiff"
	"github.com/h2non/filetype"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// decodeImage decodes encoded image bytes. The format comes from the mime
// type when present, otherwise it is sniffed from the content.
func decodeImage(mime string, data []byte) (image.Image, error) {
	ft := formatFromMime(mime)
	if ft == "" {
		kind, err := filetype.Match(data)
		if err != nil {
			return nil, errors.Wrap(err, "sniffing image format")
		}
		if kind == filetype.Unknown {
			return nil, errors.New("unknown image format")
		}
		ft = kind.Extension
	}
	return readImage(bytes.NewReader(data), ft)
}

func formatFromMime(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if !strings.HasPrefix(mime, "image/") {
		return ""
	}
	return strings.TrimPrefix(mime, "image/")
}

func readImage(rd io.Reader, ft string) (image.Image, error) {
	switch ft {
	case "jpeg", "jpg":
		return jpeg.Decode(rd)
	case "png":
		return png.Decode(rd)
	case "gif":
		return gif.Decode(rd)
	case "bmp":
		return bmp.Decode(rd)
	case "tif", "tiff":
		return tiff.Decode(rd)
	case "webp":
		return webp.Decode(rd)
	default:
		return nil, errors.Errorf("unsupported image format %q", ft)
	}
}

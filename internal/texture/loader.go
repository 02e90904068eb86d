// Package texture decodes, indexes and caches textures, and generates
// procedural fallbacks when no asset is available.
package texture

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// LoadTexture reads a PNG, JPEG, TGA or BMP file, chosen by extension,
// and returns an NRGBA image.
func LoadTexture(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: open %s: %w", path, err)
	}
	defer f.Close()

	img, err := Decode(f, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return img, nil
}

// Decode reads an image in the format named by ext (".png", ".jpg",
// ".jpeg", ".tga" or ".bmp").
//
// TGA has no magic number, so the decoder is picked from the extension
// rather than sniffed.
func Decode(r io.Reader, ext string) (*image.NRGBA, error) {
	var (
		img image.Image
		err error
	)
	switch strings.ToLower(ext) {
	case ".png":
		img, err = png.Decode(r)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(r)
	case ".tga":
		img, err = tga.Decode(r)
	case ".bmp":
		img, err = bmp.Decode(r)
	default:
		return nil, fmt.Errorf("texture: unknown extension %q", ext)
	}
	if err != nil {
		return nil, err
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any image to NRGBA with its origin at (0,0).
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

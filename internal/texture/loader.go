package texture

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

type codec struct {
	decode       func(io.Reader) (image.Image, error)
	decodeConfig func(io.Reader) (image.Config, error)
}

// TGA has no magic number, so formats are picked by extension rather than by
// sniffing the header.
var codecs = map[string]codec{
	".png":  {png.Decode, png.DecodeConfig},
	".jpg":  {jpeg.Decode, jpeg.DecodeConfig},
	".jpeg": {jpeg.Decode, jpeg.DecodeConfig},
	".gif":  {gif.Decode, gif.DecodeConfig},
	".bmp":  {bmp.Decode, bmp.DecodeConfig},
	".webp": {webp.Decode, webp.DecodeConfig},
	".tga":  {tga.Decode, tga.DecodeConfig},
}

// IsImage reports whether path has a sheet image extension.
func IsImage(path string) bool {
	_, ok := codecs[strings.ToLower(filepath.Ext(path))]
	return ok
}

func open(path string) (*os.File, codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	c, ok := codecs[ext]
	if !ok {
		return nil, codec{}, fmt.Errorf("texture: unknown extension: %s", ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, codec{}, fmt.Errorf("texture: open %s: %w", path, err)
	}
	return f, c, nil
}

// LoadSheet decodes a sprite-sheet image (PNG, JPEG, GIF, BMP, WebP or TGA)
// into an NRGBA image whose bounds start at the origin.
func LoadSheet(path string) (*image.NRGBA, error) {
	f, c, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := c.decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return toNRGBA(img), nil
}

// Size reads only the image header and returns the pixel dimensions.
func Size(path string) (width, height int, err error) {
	f, c, err := open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, err := c.decodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("texture: decode header %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// toNRGBA converts any image to NRGBA format.
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

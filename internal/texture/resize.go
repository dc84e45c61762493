package texture

import (
	"image"

	"golang.org/x/image/draw"
)

// LimitSize returns the dimensions Limit produces for a w x h sheet. When
// either side exceeds maxSize the longer side becomes maxSize and the other
// keeps the aspect ratio, never dropping below one pixel. maxSize <= 0 means
// no limit.
func LimitSize(w, h, maxSize int) (int, int) {
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return w, h
	}
	if w >= h {
		return maxSize, max(1, h*maxSize/w)
	}
	return max(1, w*maxSize/h), maxSize
}

// Limit clamps a sheet the way an importer's max-size setting does, see
// LimitSize. The input is returned as is when it already fits.
func Limit(img *image.NRGBA, maxSize int) *image.NRGBA {
	b := img.Bounds()
	dw, dh := LimitSize(b.Dx(), b.Dy(), maxSize)
	if dw == b.Dx() && dh == b.Dy() {
		return img
	}

	// The kernel scaler weights premultiplied samples when reading NRGBA,
	// so fully transparent texels contribute no colour.
	scaled := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, b, draw.Src, nil)

	out := image.NewNRGBA(scaled.Bounds())
	draw.Copy(out, image.Point{}, scaled, scaled.Bounds(), draw.Src, nil)
	return out
}

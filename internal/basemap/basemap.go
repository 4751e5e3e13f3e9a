// Package basemap provides loading and drawing of georeferenced raster
// base images composited below the heat overlay.
package basemap

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	_ "golang.org/x/image/tiff"

	"geoheat/pkg/geometry"
)

// Basemap is a raster image registered to geographic bounds.
type Basemap struct {
	Path    string
	Image   image.Image
	Bounds  geometry.Bounds // geographic extent of the image
	Visible bool
	Opacity float64
}

// New creates an empty visible basemap.
func New() *Basemap {
	return &Basemap{Visible: true, Opacity: 1}
}

// Load reads an image from disk and registers it. Georeferencing comes
// from an ESRI world file next to the image when one exists; otherwise the
// caller must set Bounds before drawing.
func Load(path string) (*Basemap, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open basemap: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode basemap: %w", err)
	}

	bm := New()
	bm.Path = path
	bm.Image = img

	if wf := worldFilePath(path); wf != "" {
		if b, err := readWorldFile(wf, img.Bounds().Dx(), img.Bounds().Dy()); err == nil {
			bm.Bounds = b
		}
	}
	return bm, nil
}

// Width returns the image width in pixels.
func (b *Basemap) Width() int {
	if b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (b *Basemap) Height() int {
	if b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dy()
}

// Registered reports whether the basemap has usable geographic bounds.
func (b *Basemap) Registered() bool {
	return b.Image != nil && !b.Bounds.Empty()
}

// Draw composites the basemap into dst, mapping its geographic bounds into
// the given viewport. An unregistered or hidden basemap draws nothing.
func (b *Basemap) Draw(dst *image.RGBA, view geometry.Bounds) {
	if !b.Visible || !b.Registered() || view.Empty() || b.Opacity == 0 {
		return
	}

	vw := float64(dst.Rect.Dx())
	vh := float64(dst.Rect.Dy())

	// image pixel to viewport pixel: scale by the ratio of geographic
	// resolutions, then place by the offset between the two extents
	sx := b.Bounds.Width() / float64(b.Width()) * vw / view.Width()
	sy := b.Bounds.Height() / float64(b.Height()) * vh / view.Height()
	tx := (b.Bounds.MinX - view.MinX) / view.Width() * vw
	ty := (view.MaxY - b.Bounds.MaxY) / view.Height() * vh

	aff := f64.Aff3{sx, 0, tx, 0, sy, ty}
	if b.Opacity >= 1 {
		xdraw.ApproxBiLinear.Transform(dst, aff, b.Image, b.Image.Bounds(), xdraw.Over, nil)
		return
	}

	tmp := image.NewRGBA(dst.Rect)
	xdraw.ApproxBiLinear.Transform(tmp, aff, b.Image, b.Image.Bounds(), xdraw.Src, nil)
	blendOver(dst, tmp, b.Opacity)
}

// blendOver composites src onto dst with source-over alpha scaled by opacity.
func blendOver(dst, src *image.RGBA, opacity float64) {
	for i := 0; i < len(src.Pix); i += 4 {
		sa := float64(src.Pix[i+3]) / 255 * opacity
		if sa == 0 {
			continue
		}
		for c := 0; c < 3; c++ {
			sv := float64(src.Pix[i+c])
			dv := float64(dst.Pix[i+c])
			dst.Pix[i+c] = uint8(sv*sa + dv*(1-sa) + 0.5)
		}
		da := float64(dst.Pix[i+3]) / 255
		dst.Pix[i+3] = uint8((sa+da*(1-sa))*255 + 0.5)
	}
}

// SupportedFormats returns the accepted basemap file extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tiff", ".tif"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

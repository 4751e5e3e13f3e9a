package viewport

import (
	"image"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"geoheat/pkg/geometry"
)

// Surface is the overlay presentation abstraction. The rasterizer owns the
// pixel buffer during a render pass and hands it over with Present; between
// recomputes the sync controller repositions the presented raster with a
// cheap affine transform instead of re-rendering.
type Surface interface {
	// Resize matches the surface to new viewport pixel dimensions. Any
	// previously presented buffer of a different size is dropped so a
	// stale-sized raster is never shown.
	Resize(width, height int)

	// ApplyTransform sets the display transform applied to the presented
	// raster. Identity clears any reposition.
	ApplyTransform(t geometry.AffineTransform)

	// SetVisible shows or hides the overlay.
	SetVisible(visible bool)

	// SetOpacity sets the overlay's compositing opacity in [0, 1].
	SetOpacity(opacity float64)

	// Present replaces the displayed raster. The buffer uses straight
	// (non-premultiplied) alpha.
	Present(buf *image.RGBA)
}

// SoftwareSurface is an in-memory Surface used by the offscreen host, the
// batch renderer, and tests. It keeps the last presented buffer and realizes
// the display transform in software.
type SoftwareSurface struct {
	width, height int
	buf           *image.RGBA
	transform     geometry.AffineTransform
	visible       bool
	opacity       float64
}

// NewSoftwareSurface creates a visible, fully opaque software surface.
func NewSoftwareSurface(width, height int) *SoftwareSurface {
	return &SoftwareSurface{
		width:     width,
		height:    height,
		transform: geometry.Identity(),
		visible:   true,
		opacity:   1,
	}
}

// Resize implements Surface.
func (s *SoftwareSurface) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.width = width
	s.height = height
	s.buf = nil
}

// ApplyTransform implements Surface.
func (s *SoftwareSurface) ApplyTransform(t geometry.AffineTransform) {
	s.transform = t
}

// SetVisible implements Surface.
func (s *SoftwareSurface) SetVisible(visible bool) {
	s.visible = visible
}

// SetOpacity implements Surface.
func (s *SoftwareSurface) SetOpacity(opacity float64) {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	s.opacity = opacity
}

// Present implements Surface.
func (s *SoftwareSurface) Present(buf *image.RGBA) {
	s.buf = buf
}

// Size returns the surface dimensions in pixels.
func (s *SoftwareSurface) Size() (int, int) {
	return s.width, s.height
}

// Buffer returns the last presented raster, or nil if none.
func (s *SoftwareSurface) Buffer() *image.RGBA {
	return s.buf
}

// Transform returns the current display transform.
func (s *SoftwareSurface) Transform() geometry.AffineTransform {
	return s.transform
}

// Visible reports whether the overlay is shown.
func (s *SoftwareSurface) Visible() bool {
	return s.visible
}

// Opacity returns the compositing opacity.
func (s *SoftwareSurface) Opacity() float64 {
	return s.opacity
}

// Snapshot returns the presented raster with the display transform applied,
// sized to the surface. A hidden or empty surface yields a fully transparent
// image. Opacity is not folded in here; CompositeOver applies it.
func (s *SoftwareSurface) Snapshot() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	if !s.visible || s.buf == nil {
		return out
	}
	if s.transform.IsIdentity() {
		copy(out.Pix, s.buf.Pix)
		return out
	}
	m := s.transform
	aff := f64.Aff3{m.A, m.B, m.TX, m.C, m.D, m.TY}
	xdraw.ApproxBiLinear.Transform(out, aff, s.buf, s.buf.Bounds(), xdraw.Src, nil)
	return out
}

// CompositeOver blends the surface onto dst with source-over alpha,
// honoring visibility, the display transform, and opacity. dst must have
// the surface's dimensions.
func (s *SoftwareSurface) CompositeOver(dst *image.RGBA) {
	if !s.visible || s.buf == nil || s.opacity == 0 {
		return
	}
	src := s.Snapshot()
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			i := src.PixOffset(x, y)
			sa := float64(src.Pix[i+3]) / 255 * s.opacity
			if sa == 0 {
				continue
			}
			j := dst.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				sv := float64(src.Pix[i+c])
				dv := float64(dst.Pix[j+c])
				dst.Pix[j+c] = uint8(sv*sa + dv*(1-sa) + 0.5)
			}
			da := float64(dst.Pix[j+3]) / 255
			dst.Pix[j+3] = uint8((sa+da*(1-sa))*255 + 0.5)
		}
	}
}

package viewport

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"geoheat/pkg/geometry"
)

func presentDot(s *SoftwareSurface, x, y int, c color.RGBA) *image.RGBA {
	w, h := s.Size()
	buf := image.NewRGBA(image.Rect(0, 0, w, h))
	buf.SetRGBA(x, y, c)
	s.Present(buf)
	return buf
}

func TestResizeDropsStaleBuffer(t *testing.T) {
	s := NewSoftwareSurface(10, 10)
	presentDot(s, 5, 5, color.RGBA{R: 255, A: 255})

	s.Resize(10, 10)
	if s.Buffer() == nil {
		t.Fatal("same-size resize dropped the buffer")
	}
	s.Resize(20, 20)
	if s.Buffer() != nil {
		t.Fatal("resize kept a stale-sized buffer")
	}
}

func TestSnapshotHiddenIsTransparent(t *testing.T) {
	s := NewSoftwareSurface(4, 4)
	presentDot(s, 1, 1, color.RGBA{R: 255, A: 255})
	s.SetVisible(false)

	snap := s.Snapshot()
	for _, p := range snap.Pix {
		if p != 0 {
			t.Fatal("hidden surface snapshot is not transparent")
		}
	}
}

func TestSnapshotIdentityCopies(t *testing.T) {
	s := NewSoftwareSurface(4, 4)
	buf := presentDot(s, 2, 1, color.RGBA{G: 255, A: 255})

	snap := s.Snapshot()
	if snap == buf {
		t.Fatal("snapshot aliases the presented buffer")
	}
	if got := snap.RGBAAt(2, 1); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("pixel (2,1) = %v, want green", got)
	}
}

func TestSnapshotAppliesTranslation(t *testing.T) {
	s := NewSoftwareSurface(16, 16)
	presentDot(s, 2, 2, color.RGBA{R: 255, A: 255})
	s.ApplyTransform(geometry.Translation(3, 1))

	snap := s.Snapshot()
	if a := snap.RGBAAt(5, 3).A; a == 0 {
		t.Error("translated pixel missing at (5,3)")
	}
	if a := snap.RGBAAt(2, 2).A; a != 0 {
		t.Error("source pixel still present at (2,2) after translation")
	}
}

func TestCompositeOverAppliesOpacity(t *testing.T) {
	s := NewSoftwareSurface(2, 2)
	presentDot(s, 0, 0, color.RGBA{R: 255, A: 255})
	s.SetOpacity(0.5)

	dst := image.NewRGBA(image.Rect(0, 0, 2, 2))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.RGBA{A: 255}}, image.Point{}, draw.Src)
	s.CompositeOver(dst)

	got := dst.RGBAAt(0, 0)
	if got.R < 125 || got.R > 130 {
		t.Errorf("composited R = %d, want near 128 at half opacity", got.R)
	}
	if got.A != 255 {
		t.Errorf("composited A = %d, want 255 over an opaque background", got.A)
	}
}

func TestCompositeOverSkipsHidden(t *testing.T) {
	s := NewSoftwareSurface(2, 2)
	presentDot(s, 0, 0, color.RGBA{R: 255, A: 255})
	s.SetVisible(false)

	dst := image.NewRGBA(image.Rect(0, 0, 2, 2))
	s.CompositeOver(dst)
	if dst.RGBAAt(0, 0).R != 0 {
		t.Error("hidden surface composited pixels")
	}
}

func TestSetOpacityClamps(t *testing.T) {
	s := NewSoftwareSurface(1, 1)
	s.SetOpacity(3)
	if s.Opacity() != 1 {
		t.Errorf("opacity = %g, want clamped to 1", s.Opacity())
	}
	s.SetOpacity(-1)
	if s.Opacity() != 0 {
		t.Errorf("opacity = %g, want clamped to 0", s.Opacity())
	}
}

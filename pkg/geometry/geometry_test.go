package geometry

import (
	"testing"
)

func TestBoundsSpans(t *testing.T) {
	b := NewBounds(-10, -5, 10, 15)
	if b.Width() != 20 {
		t.Errorf("Width = %g, want 20", b.Width())
	}
	if b.Height() != 20 {
		t.Errorf("Height = %g, want 20", b.Height())
	}
	if c := b.Center(); c.X != 0 || c.Y != 5 {
		t.Errorf("Center = %v, want (0,5)", c)
	}
}

func TestBoundsEmpty(t *testing.T) {
	if NewBounds(0, 0, 10, 10).Empty() {
		t.Error("non-degenerate bounds report empty")
	}
	if !NewBounds(5, 0, 5, 10).Empty() {
		t.Error("zero-width bounds report non-empty")
	}
	if !NewBounds(0, 10, 10, 0).Empty() {
		t.Error("inverted bounds report non-empty")
	}
}

func TestBoundsContains(t *testing.T) {
	b := NewBounds(0, 0, 10, 10)
	if !b.Contains(NewPoint2D(5, 5)) {
		t.Error("interior point not contained")
	}
	if !b.Contains(NewPoint2D(0, 10)) {
		t.Error("boundary point not contained")
	}
	if b.Contains(NewPoint2D(11, 5)) {
		t.Error("exterior point contained")
	}
}

func TestBoundsExtendAndUnion(t *testing.T) {
	b := NewBounds(0, 0, 1, 1).Extend(NewPoint2D(5, -3))
	if b.MaxX != 5 || b.MinY != -3 {
		t.Errorf("Extend = %+v", b)
	}

	u := NewBounds(0, 0, 1, 1).Union(NewBounds(-2, 0.5, 0.5, 4))
	want := NewBounds(-2, 0, 1, 4)
	if u != want {
		t.Errorf("Union = %+v, want %+v", u, want)
	}
}

func TestBoundsPad(t *testing.T) {
	p := NewBounds(0, 0, 10, 20).Pad(0.1)
	if p.MinX != -1 || p.MaxX != 11 || p.MinY != -2 || p.MaxY != 22 {
		t.Errorf("Pad = %+v", p)
	}
}

package viewport

import (
	"image/color"
	"math"
	"testing"

	"geoheat/pkg/geometry"
)

func TestOffscreenProjectCorners(t *testing.T) {
	o := NewOffscreen(geometry.NewBounds(-10, -5, 10, 5), 200, 100)

	tl := o.Project(-10, 5)
	if tl.X != 0 || tl.Y != 0 {
		t.Errorf("top-left projected to (%g,%g), want (0,0)", tl.X, tl.Y)
	}
	br := o.Project(10, -5)
	if br.X != 200 || br.Y != 100 {
		t.Errorf("bottom-right projected to (%g,%g), want (200,100)", br.X, br.Y)
	}
	c := o.Project(0, 0)
	if c.X != 100 || c.Y != 50 {
		t.Errorf("center projected to (%g,%g), want (100,50)", c.X, c.Y)
	}
}

func TestOffscreenPanByShiftsBounds(t *testing.T) {
	o := NewOffscreen(geometry.NewBounds(0, 0, 10, 10), 100, 100)

	var kinds []EventKind
	o.Subscribe(func(ev Event) { kinds = append(kinds, ev.Kind) })

	// dragging 10px right means the map content moves right, so the
	// visible bounds shift left by one geographic unit
	o.PanBy(10, 0)

	b := o.Bounds()
	if math.Abs(b.MinX+1) > 1e-9 || math.Abs(b.MaxX-9) > 1e-9 {
		t.Errorf("bounds x = [%g,%g], want [-1,9]", b.MinX, b.MaxX)
	}

	want := []EventKind{EventPanStart, EventPan, EventMove, EventPanEnd, EventMoveEnd}
	if len(kinds) != len(want) {
		t.Fatalf("event sequence %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestOffscreenZoomByScalesAboutCenter(t *testing.T) {
	o := NewOffscreen(geometry.NewBounds(0, 0, 10, 10), 100, 100)
	o.ZoomBy(2)

	b := o.Bounds()
	if math.Abs(b.Width()-5) > 1e-9 || math.Abs(b.Height()-5) > 1e-9 {
		t.Errorf("zoomed span = %gx%g, want 5x5", b.Width(), b.Height())
	}
	c := b.Center()
	if math.Abs(c.X-5) > 1e-9 || math.Abs(c.Y-5) > 1e-9 {
		t.Errorf("zoomed center = (%g,%g), want (5,5)", c.X, c.Y)
	}
}

func TestOffscreenOverlayStack(t *testing.T) {
	o := NewOffscreen(geometry.NewBounds(0, 0, 10, 10), 10, 10)
	o.CreateOverlay("a")
	o.CreateOverlay("b")
	o.CreateOverlay("c")

	if err := o.MoveOverlay("c", "a", true); err != nil {
		t.Fatal(err)
	}
	got := o.OverlayIDs()
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("overlay order = %v, want %v", got, want)
		}
	}

	if err := o.MoveOverlay("c", "b", false); err != nil {
		t.Fatal(err)
	}
	if got := o.OverlayIDs(); got[2] != "c" {
		t.Fatalf("overlay order = %v, want c on top", got)
	}

	if err := o.MoveOverlay("missing", "a", true); err == nil {
		t.Error("moving an unknown overlay succeeded")
	}
	if err := o.MoveOverlay("a", "missing", true); err == nil {
		t.Error("moving next to an unknown sibling succeeded")
	}
}

func TestOffscreenRemoveOverlayNotifies(t *testing.T) {
	o := NewOffscreen(geometry.NewBounds(0, 0, 10, 10), 10, 10)
	o.CreateOverlay("a")

	var removed string
	o.Subscribe(func(ev Event) {
		if ev.Kind == EventRemoved {
			removed = ev.OverlayID
		}
	})
	o.RemoveOverlay("a")

	if removed != "a" {
		t.Errorf("removal notification for %q, want \"a\"", removed)
	}
	if o.Surface("a") != nil {
		t.Error("overlay still present after removal")
	}
}

func TestOffscreenComposite(t *testing.T) {
	o := NewOffscreen(geometry.NewBounds(0, 0, 10, 10), 2, 2)
	o.Background = color.RGBA{R: 10, G: 20, B: 30, A: 255}

	s := o.CreateOverlay("heat").(*SoftwareSurface)
	presentDot(s, 0, 0, color.RGBA{R: 255, A: 255})

	out := o.Composite()
	if got := out.RGBAAt(0, 0); got.R != 255 {
		t.Errorf("covered pixel = %v, want overlay red", got)
	}
	if got := out.RGBAAt(1, 1); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("uncovered pixel = %v, want background", got)
	}
}

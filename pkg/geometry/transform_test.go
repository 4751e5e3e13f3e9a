package geometry

import (
	"math"
	"testing"
)

func approxEq(a, b Point2D) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestTranslationApply(t *testing.T) {
	got := Translation(3, -2).Apply(NewPoint2D(1, 1))
	if !approxEq(got, NewPoint2D(4, -1)) {
		t.Errorf("Apply = %v, want (4,-1)", got)
	}
}

func TestRotationApply(t *testing.T) {
	// quarter turn with screen-down y maps +x onto +y
	got := Rotation(math.Pi / 2).Apply(NewPoint2D(1, 0))
	if !approxEq(got, NewPoint2D(0, 1)) {
		t.Errorf("Apply = %v, want (0,1)", got)
	}
}

func TestRotationAboutFixesPivot(t *testing.T) {
	r := RotationAbout(math.Pi/3, 10, 20)
	if got := r.Apply(NewPoint2D(10, 20)); !approxEq(got, NewPoint2D(10, 20)) {
		t.Errorf("pivot moved to %v", got)
	}
	// any other point keeps its distance to the pivot
	p := NewPoint2D(15, 26)
	q := r.Apply(p)
	got := math.Hypot(q.X-10, q.Y-20)
	want := math.Hypot(p.X-10, p.Y-20)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("rotation changed the distance to the pivot: %g, want %g", got, want)
	}
}

func TestComposeOrder(t *testing.T) {
	// t1.Compose(t2) applies t2 first
	m := Translation(10, 0).Compose(Scale(2, 2))
	if got := m.Apply(NewPoint2D(1, 1)); !approxEq(got, NewPoint2D(12, 2)) {
		t.Errorf("Apply = %v, want (12,2)", got)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	m := Translation(5, -3).Compose(RotationAbout(0.7, 4, 4)).Compose(Scale(1.5, 0.5))
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("invertible transform reported singular")
	}
	p := NewPoint2D(7, 11)
	if got := inv.Apply(m.Apply(p)); !approxEq(got, p) {
		t.Errorf("round trip = %v, want %v", got, p)
	}
}

func TestInverseSingular(t *testing.T) {
	if _, ok := Scale(0, 1).Inverse(); ok {
		t.Error("singular transform reported invertible")
	}
}

func TestIsIdentity(t *testing.T) {
	if !Identity().IsIdentity() {
		t.Error("Identity() is not identity")
	}
	if Translation(1, 0).IsIdentity() {
		t.Error("translation reported as identity")
	}
	inv, _ := Rotation(0.3).Inverse()
	if !Rotation(0.3).Compose(inv).IsIdentity() {
		t.Error("rotation times its inverse is not identity")
	}
}

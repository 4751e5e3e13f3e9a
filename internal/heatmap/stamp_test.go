package heatmap

import (
	"errors"
	"testing"
)

func TestBuildStampRejectsNonPositiveRadius(t *testing.T) {
	for _, r := range []int{0, -5} {
		if _, err := BuildStamp(r); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("radius %d: expected ErrInvalidConfig, got %v", r, err)
		}
	}
}

func TestBuildStampDimensions(t *testing.T) {
	stamp, err := BuildStamp(20)
	if err != nil {
		t.Fatal(err)
	}
	if got := stamp.Rect.Dx(); got != 40 {
		t.Errorf("width = %d, want 40", got)
	}
	if got := stamp.Rect.Dy(); got != 40 {
		t.Errorf("height = %d, want 40", got)
	}
}

func TestBuildStampFalloff(t *testing.T) {
	const radius = 20
	stamp, err := BuildStamp(radius)
	if err != nil {
		t.Fatal(err)
	}

	center := stamp.Pix[stamp.PixOffset(radius, radius)]
	if center < 250 {
		t.Errorf("center alpha = %d, want near opaque", center)
	}

	// alpha decays outward along the positive x axis, small rasterization
	// jitter allowed
	prev := int(center)
	for x := radius; x < 2*radius; x++ {
		a := int(stamp.Pix[stamp.PixOffset(x, radius)])
		if a > prev+2 {
			t.Fatalf("alpha rose from %d to %d at x=%d", prev, a, x)
		}
		prev = a
	}

	if corner := stamp.Pix[stamp.PixOffset(0, 0)]; corner != 0 {
		t.Errorf("corner alpha = %d, want 0", corner)
	}
}

func TestBuildStampInnerCoreOpaque(t *testing.T) {
	const radius = 20
	stamp, err := BuildStamp(radius)
	if err != nil {
		t.Fatal(err)
	}
	// inside half the radius the gradient has not started falling off yet
	for _, dx := range []int{0, 3, 6, 9} {
		a := stamp.Pix[stamp.PixOffset(radius+dx, radius)]
		if a < 250 {
			t.Errorf("alpha at offset %d = %d, want near opaque", dx, a)
		}
	}
}

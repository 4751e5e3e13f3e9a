package heatmap

import (
	"errors"
	"testing"

	"geoheat/pkg/colorutil"
)

func TestValidateDefaults(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name string
		cfg  RenderConfig
	}{
		{"zero radius", DefaultConfig().WithRadius(0)},
		{"negative radius", DefaultConfig().WithRadius(-3)},
		{"empty ramp", DefaultConfig().WithColors(nil)},
		{"opacity above one", DefaultConfig().WithOpacity(1.5)},
		{"opacity negative", DefaultConfig().WithOpacity(-0.1)},
		{"inverted weight range", DefaultConfig().WithWeightRange(10, 2)},
	}
	for _, tc := range cases {
		if err := tc.cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tc.name, err)
		}
	}
}

func TestValidateHalfOpenWeightRange(t *testing.T) {
	min := 1.0
	cfg := DefaultConfig()
	cfg.MinWeight = &min
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for min without max, got %v", err)
	}
}

func TestWithCopiesDoNotAlias(t *testing.T) {
	base := DefaultConfig()
	derived := base.WithColors(base.Colors)
	derived.Colors[0] = colorutil.Magenta
	if base.Colors[0] == colorutil.Magenta {
		t.Fatal("WithColors aliased the caller's ramp slice")
	}

	widened := base.WithRadius(80)
	if base.Radius != 50 || widened.Radius != 80 {
		t.Fatalf("WithRadius mutated the receiver: base %g, derived %g", base.Radius, widened.Radius)
	}
}

func TestHasWeightRange(t *testing.T) {
	if DefaultConfig().HasWeightRange() {
		t.Error("default config reports an explicit weight range")
	}
	if !DefaultConfig().WithWeightRange(0, 10).HasWeightRange() {
		t.Error("WithWeightRange did not set the range")
	}
}

package heatmap

import (
	"fmt"
	"image/color"

	"geoheat/pkg/colorutil"
)

// RenderConfig is an immutable snapshot of a heat layer's rendering
// parameters. The With* methods return modified copies; the layer swaps in
// a whole new snapshot on every setter call and invalidates its dependent
// caches (gradient table, falloff stamp) by comparing the relevant fields.
type RenderConfig struct {
	// Radius is the falloff stamp radius. It is in pixels unless UseGeoUnit
	// is set, in which case it is in geographic units and converted to
	// pixels at render time from the viewport resolution.
	Radius float64

	// Colors is the low-to-high gradient ramp. At least one color.
	Colors []color.RGBA

	// Opacity is the overlay compositing opacity in [0, 1].
	Opacity float64

	// UseGeoUnit interprets Radius in geographic units.
	UseGeoUnit bool

	// FeatureWeight names the feature attribute used as point weight.
	// Empty means uniform weight 1 for every point.
	FeatureWeight string

	// MinWeight and MaxWeight override the derived weight normalization
	// range. Either both are set or both are nil; the range is never mixed
	// explicit/derived.
	MinWeight *float64
	MaxWeight *float64

	// LoadWhileAnimating keeps the overlay recomputing during viewport
	// motion instead of hiding it and repositioning the stale raster.
	LoadWhileAnimating bool
}

// DefaultConfig returns the default rendering parameters.
func DefaultConfig() RenderConfig {
	return RenderConfig{
		Radius:             50,
		Colors:             colorutil.DefaultRamp(),
		Opacity:            1,
		LoadWhileAnimating: true,
	}
}

// WithRadius returns a copy with the given stamp radius.
func (c RenderConfig) WithRadius(radius float64) RenderConfig {
	c.Radius = radius
	return c
}

// WithColors returns a copy with the given gradient ramp.
func (c RenderConfig) WithColors(colors []color.RGBA) RenderConfig {
	c.Colors = append([]color.RGBA(nil), colors...)
	return c
}

// WithOpacity returns a copy with the given overlay opacity.
func (c RenderConfig) WithOpacity(opacity float64) RenderConfig {
	c.Opacity = opacity
	return c
}

// WithUseGeoUnit returns a copy with Radius interpreted in geographic units.
func (c RenderConfig) WithUseGeoUnit(useGeoUnit bool) RenderConfig {
	c.UseGeoUnit = useGeoUnit
	return c
}

// WithFeatureWeight returns a copy weighting points by the named attribute.
func (c RenderConfig) WithFeatureWeight(field string) RenderConfig {
	c.FeatureWeight = field
	return c
}

// WithWeightRange returns a copy with an explicit weight normalization range.
func (c RenderConfig) WithWeightRange(min, max float64) RenderConfig {
	c.MinWeight = &min
	c.MaxWeight = &max
	return c
}

// WithLoadWhileAnimating returns a copy with the animation policy set.
func (c RenderConfig) WithLoadWhileAnimating(load bool) RenderConfig {
	c.LoadWhileAnimating = load
	return c
}

// HasWeightRange reports whether the explicit normalization range is set.
func (c RenderConfig) HasWeightRange() bool {
	return c.MinWeight != nil && c.MaxWeight != nil
}

// Validate checks the configuration invariants.
func (c RenderConfig) Validate() error {
	if c.Radius <= 0 {
		return fmt.Errorf("%w: radius %g must be positive", ErrInvalidConfig, c.Radius)
	}
	if len(c.Colors) == 0 {
		return fmt.Errorf("%w: color ramp is empty", ErrInvalidConfig)
	}
	if c.Opacity < 0 || c.Opacity > 1 {
		return fmt.Errorf("%w: opacity %g outside [0, 1]", ErrInvalidConfig, c.Opacity)
	}
	if (c.MinWeight == nil) != (c.MaxWeight == nil) {
		return fmt.Errorf("%w: weight range must set both min and max", ErrInvalidConfig)
	}
	if c.HasWeightRange() && *c.MaxWeight < *c.MinWeight {
		return fmt.Errorf("%w: max weight %g below min weight %g", ErrInvalidConfig, *c.MaxWeight, *c.MinWeight)
	}
	return nil
}

// sameColors reports whether two ramps are identical, for gradient-table
// cache invalidation.
func sameColors(a, b []color.RGBA) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

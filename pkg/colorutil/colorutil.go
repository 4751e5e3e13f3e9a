// Package colorutil provides shared color utilities for the heat-map renderer.
package colorutil

import (
	"fmt"
	"image/color"
	"strings"
)

// Common colors used by heat gradients.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Blue    = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Cyan    = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Lime    = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Red     = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
)

// DefaultRamp is the default low-to-high heat color progression.
func DefaultRamp() []color.RGBA {
	return []color.RGBA{Blue, Cyan, Lime, Yellow, Red}
}

// named maps CSS-style color names recognized in configuration files.
var named = map[string]color.RGBA{
	"black":   Black,
	"white":   White,
	"blue":    Blue,
	"cyan":    Cyan,
	"lime":    Lime,
	"green":   Lime,
	"yellow":  Yellow,
	"red":     Red,
	"magenta": Magenta,
}

// Parse converts a color name or "#RRGGBB" hex string to an RGBA color.
func Parse(s string) (color.RGBA, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := named[key]; ok {
		return c, nil
	}
	return ParseHex(s)
}

// ParseHex parses a "#RRGGBB" or "RRGGBB" hex color string.
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("colorutil: invalid hex color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("colorutil: invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// Lerp linearly interpolates between two colors. t is clamped to [0, 1].
func Lerp(a, b color.RGBA, t float64) color.RGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return color.RGBA{
		R: uint8(float64(a.R) + t*(float64(b.R)-float64(a.R)) + 0.5),
		G: uint8(float64(a.G) + t*(float64(b.G)-float64(a.G)) + 0.5),
		B: uint8(float64(a.B) + t*(float64(b.B)-float64(a.B)) + 0.5),
		A: uint8(float64(a.A) + t*(float64(b.A)-float64(a.A)) + 0.5),
	}
}

package heatmap

import (
	"image/color"
	"math"

	"geoheat/pkg/colorutil"
)

// Table is a 256-entry lookup from accumulated density alpha to gradient
// color. Index 0 maps to the first color stop, index 255 to the last.
type Table [256]color.RGBA

// BuildGradient samples a linear gradient through the ordered color stops
// at 256 positions. Stops are distributed evenly; adjacent stops are
// linearly interpolated. A single stop yields a flat table. An empty stop
// list is ErrInvalidConfig.
//
// The table is a pure function of its stops: callers rebuild it only when
// the color configuration changes, never per render.
func BuildGradient(stops []color.RGBA) (*Table, error) {
	if len(stops) == 0 {
		return nil, ErrInvalidConfig
	}

	var t Table
	if len(stops) == 1 {
		for i := range t {
			t[i] = stops[0]
		}
		return &t, nil
	}

	segments := float64(len(stops) - 1)
	for i := range t {
		pos := float64(i) / 255 * segments
		seg, frac := math.Modf(pos)
		k := int(seg)
		if k >= len(stops)-1 {
			k = len(stops) - 2
			frac = 1
		}
		t[i] = colorutil.Lerp(stops[k], stops[k+1], frac)
	}
	return &t, nil
}

package heatmap

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// BuildStamp renders the radial falloff alpha mask splatted at each point's
// pixel location. The stamp is a square of side 2*radius: fully opaque out
// to radius/2 from the center, falling off to transparent at the boundary —
// the soft-disc equivalent of a small solid dot drawn with a blur spread of
// radius/2. Alpha is maximal at the center and monotonically non-increasing
// outward.
//
// Stamps are pure functions of the radius; the layer caches one per
// effective pixel radius and rebuilds only when it changes (including when
// a geo-unit radius lands on a different pixel size after a zoom).
func BuildStamp(radius int) (*image.Alpha, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w: stamp radius %d must be positive", ErrInvalidConfig, radius)
	}

	side := 2 * radius
	r := float64(radius)

	dc := gg.NewContext(side, side)
	grad := gg.NewRadialGradient(r, r, r/2, r, r, r)
	grad.AddColorStop(0, color.White)
	grad.AddColorStop(1, color.RGBA{R: 255, G: 255, B: 255, A: 0})
	dc.SetFillStyle(grad)
	dc.DrawCircle(r, r, r)
	dc.Fill()

	rendered, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("heatmap: unexpected stamp image type %T", dc.Image())
	}

	stamp := image.NewAlpha(image.Rect(0, 0, side, side))
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			stamp.Pix[stamp.PixOffset(x, y)] = rendered.Pix[rendered.PixOffset(x, y)+3]
		}
	}
	return stamp, nil
}

package main

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

const (
	legendWidth  = 200
	legendHeight = 16
	legendMargin = 12
)

// drawLegend paints a horizontal gradient bar in the bottom-left corner.
func drawLegend(dst *image.RGBA, stops []color.RGBA) {
	if len(stops) == 0 {
		return
	}
	w := dst.Rect.Dx()
	h := dst.Rect.Dy()
	if w < legendWidth+2*legendMargin || h < legendHeight+2*legendMargin {
		return
	}

	x0 := float64(legendMargin)
	y0 := float64(h - legendMargin - legendHeight)

	dc := gg.NewContextForRGBA(dst)

	grad := gg.NewLinearGradient(x0, 0, x0+legendWidth, 0)
	if len(stops) == 1 {
		grad.AddColorStop(0, stops[0])
		grad.AddColorStop(1, stops[0])
	} else {
		for i, c := range stops {
			grad.AddColorStop(float64(i)/float64(len(stops)-1), c)
		}
	}

	dc.SetFillStyle(grad)
	dc.DrawRectangle(x0, y0, legendWidth, legendHeight)
	dc.Fill()

	dc.SetRGBA(1, 1, 1, 0.8)
	dc.SetLineWidth(1)
	dc.DrawRectangle(x0, y0, legendWidth, legendHeight)
	dc.Stroke()
}

package heatmap

import (
	"image"
	"math"

	"gonum.org/v1/gonum/floats"

	"geoheat/internal/feature"
	"geoheat/internal/viewport"
	"geoheat/pkg/geometry"
)

// minPointAlpha keeps minimal-weight points faintly visible instead of
// letting them vanish under a large normalization ceiling.
const minPointAlpha = 0.05

// View is the viewport snapshot a render pass consumes: geographic bounds,
// pixel dimensions, and the host's geographic-to-pixel projection.
type View struct {
	Bounds        geometry.Bounds
	Width, Height int
	Project       func(lon, lat float64) geometry.Point2D
}

// SnapshotView captures the host's current viewport state. Snapshots are
// ephemeral; one is taken per render pass and never reused.
func SnapshotView(host viewport.Host) View {
	w, h := host.PixelSize()
	return View{Bounds: host.Bounds(), Width: w, Height: h, Project: host.Project}
}

// Resolution returns the viewport's geographic units per pixel, using the
// larger of the two axis ratios so circular stamps stay isotropic under
// non-square viewports.
func Resolution(v View) float64 {
	return math.Max(v.Bounds.Width()/float64(v.Width), v.Bounds.Height()/float64(v.Height))
}

// EffectiveRadius converts the configured radius to the stamp radius in
// pixels for the given view. A geo-unit radius smaller than the current
// resolution floors to zero, which render-time validation rejects.
func EffectiveRadius(cfg RenderConfig, v View) int {
	if cfg.UseGeoUnit {
		return int(math.Floor(cfg.Radius / Resolution(v)))
	}
	return int(math.Floor(cfg.Radius))
}

// Render rasterizes the points into a colorized density field: each point's
// falloff stamp is composited into an alpha accumulation buffer weighted by
// the point's normalized weight, then the accumulated alpha is recolored
// through the gradient table. The returned buffer uses straight alpha: RGB
// encodes density via the gradient, alpha encodes coverage.
//
// Rendering is deterministic: identical points, view, and configuration
// produce byte-identical buffers. Zero points yield a cleared buffer.
// Degenerate pixel dimensions yield ErrViewportUnready, leaving any
// previously presented raster untouched.
func Render(v View, points []feature.Point, cfg RenderConfig, stamp *image.Alpha, table *Table) (*image.RGBA, error) {
	if v.Width <= 0 || v.Height <= 0 {
		return nil, ErrViewportUnready
	}

	buf := image.NewRGBA(image.Rect(0, 0, v.Width, v.Height))
	if len(points) == 0 {
		return buf, nil
	}

	weights := make([]float64, len(points))
	for i, p := range points {
		weights[i] = p.Weight(cfg.FeatureWeight)
	}
	ceiling := weightCeiling(cfg, weights)

	// Cull points whose stamp cannot touch the canvas. The projection may
	// rotate about the viewport center, so the reach covers the circle of
	// half the canvas diagonal plus the stamp radius. Resolution() is the
	// coarser of the two axes, so the reach is never too tight.
	halfDiag := math.Hypot(float64(v.Width), float64(v.Height)) / 2
	span := (halfDiag + float64(stamp.Rect.Dx()/2)) * Resolution(v)
	c := v.Bounds.Center()
	reach := geometry.NewBounds(c.X-span, c.Y-span, c.X+span, c.Y+span)

	acc := image.NewAlpha(image.Rect(0, 0, v.Width, v.Height))
	for i, p := range points {
		if !reach.Contains(geometry.NewPoint2D(p.Lon, p.Lat)) {
			continue
		}
		px := v.Project(p.Lon, p.Lat)
		x := int(math.Floor(px.X))
		y := int(math.Floor(px.Y))
		alpha := math.Max(weights[i]/ceiling, minPointAlpha)
		splat(acc, stamp, x, y, alpha)
	}

	colorize(buf, acc, table)
	return buf, nil
}

// weightCeiling picks the weight mapped to full compositing intensity.
// The explicit override wins when configured. With a weight field the
// ceiling is the midpoint of the observed range — not the maximum — which
// deliberately boosts lower-weight points toward the hot end of the
// gradient. Without a weight field every point weighs 1.
func weightCeiling(cfg RenderConfig, weights []float64) float64 {
	if cfg.HasWeightRange() {
		return *cfg.MaxWeight
	}
	if cfg.FeatureWeight == "" || len(weights) == 0 {
		return 1
	}
	ceiling := (floats.Max(weights) + floats.Min(weights)) / 2
	if ceiling <= 0 {
		return 1
	}
	return ceiling
}

// splat composites the stamp into the accumulation buffer centered at
// (cx, cy) with source-over alpha, scaled by the point's compositing alpha.
func splat(acc, stamp *image.Alpha, cx, cy int, alpha float64) {
	side := stamp.Rect.Dx()
	x0 := cx - side/2
	y0 := cy - side/2
	bounds := acc.Rect

	for sy := 0; sy < side; sy++ {
		y := y0 + sy
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for sx := 0; sx < side; sx++ {
			x := x0 + sx
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			src := float64(stamp.Pix[stamp.PixOffset(sx, sy)]) / 255 * alpha
			if src <= 0 {
				continue
			}
			if src > 1 {
				src = 1
			}
			i := acc.PixOffset(x, y)
			dst := float64(acc.Pix[i]) / 255
			acc.Pix[i] = uint8((src + dst*(1-src))*255 + 0.5)
		}
	}
}

// colorize rewrites every covered pixel's RGB from the gradient table,
// leaving the accumulated alpha unchanged.
func colorize(buf *image.RGBA, acc *image.Alpha, table *Table) {
	w := buf.Rect.Dx()
	h := buf.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := acc.Pix[acc.PixOffset(x, y)]
			if a == 0 {
				continue
			}
			c := table[a]
			i := buf.PixOffset(x, y)
			buf.Pix[i] = c.R
			buf.Pix[i+1] = c.G
			buf.Pix[i+2] = c.B
			buf.Pix[i+3] = a
		}
	}
}

// Package mapview provides an interactive map widget with pan, zoom, and
// rotation. It hosts the heat overlay stack above an optional basemap.
package mapview

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"geoheat/internal/basemap"
	"geoheat/internal/viewport"
	"geoheat/pkg/geometry"
)

const (
	zoomStep   = 1.25
	minSpan    = 1e-6
	rotateStep = 15.0
)

// MapView is an interactive map widget. Drag pans, the wheel zooms about
// the viewport center, and RotateBy turns the bearing. It implements
// viewport.Host so heat layers can attach directly.
type MapView struct {
	widget.BaseWidget

	bounds        geometry.Bounds
	width, height int
	bearing       float64 // degrees clockwise from north-up

	basemap *basemap.Basemap

	// overlay stack, bottom to top
	overlays []mapOverlay

	subs    map[int]func(viewport.Event)
	nextSub int

	raster *fynecanvas.Raster

	// drag gesture state
	dragging bool
	dragDX   float32
	dragDY   float32

	Background color.RGBA
}

type mapOverlay struct {
	id      string
	surface *viewport.SoftwareSurface
}

// New creates a map view showing the given geographic bounds.
func New(bounds geometry.Bounds) *MapView {
	m := &MapView{
		bounds:     bounds,
		width:      800,
		height:     600,
		subs:       make(map[int]func(viewport.Event)),
		Background: color.RGBA{R: 24, G: 26, B: 30, A: 255},
	}
	m.raster = fynecanvas.NewRaster(m.draw)
	m.raster.ScaleMode = fynecanvas.ImageScalePixels
	m.raster.SetMinSize(fyne.NewSize(400, 300))
	m.ExtendBaseWidget(m)
	return m
}

// CreateRenderer implements fyne.Widget.
func (m *MapView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(m.raster)
}

// SetBasemap registers the base image drawn below the overlays.
func (m *MapView) SetBasemap(bm *basemap.Basemap) {
	m.basemap = bm
	m.Refresh()
}

// Bearing returns the current rotation in degrees.
func (m *MapView) Bearing() float64 {
	return m.bearing
}

// Bounds implements viewport.Host.
func (m *MapView) Bounds() geometry.Bounds {
	return m.bounds
}

// PixelSize implements viewport.Host.
func (m *MapView) PixelSize() (int, int) {
	return m.width, m.height
}

// Project implements viewport.Host: a linear lon/lat mapping followed by
// the bearing rotation about the viewport center.
func (m *MapView) Project(lon, lat float64) geometry.Point2D {
	p := geometry.Point2D{
		X: (lon - m.bounds.MinX) / m.bounds.Width() * float64(m.width),
		Y: (m.bounds.MaxY - lat) / m.bounds.Height() * float64(m.height),
	}
	if m.bearing == 0 {
		return p
	}
	return m.bearingTransform().Apply(p)
}

// Unproject converts viewport pixel coordinates back to geographic
// coordinates, undoing the bearing rotation.
func (m *MapView) Unproject(x, y float64) (lon, lat float64) {
	p := geometry.NewPoint2D(x, y)
	if m.bearing != 0 {
		if inv, ok := m.bearingTransform().Inverse(); ok {
			p = inv.Apply(p)
		}
	}
	lon = m.bounds.MinX + p.X/float64(m.width)*m.bounds.Width()
	lat = m.bounds.MaxY - p.Y/float64(m.height)*m.bounds.Height()
	return lon, lat
}

func (m *MapView) bearingTransform() geometry.AffineTransform {
	return geometry.RotationAbout(-m.bearing*math.Pi/180, float64(m.width)/2, float64(m.height)/2)
}

// Subscribe implements viewport.Host.
func (m *MapView) Subscribe(fn func(viewport.Event)) int {
	m.nextSub++
	m.subs[m.nextSub] = fn
	return m.nextSub
}

// Unsubscribe implements viewport.Host.
func (m *MapView) Unsubscribe(token int) {
	delete(m.subs, token)
}

// CreateOverlay implements viewport.Host.
func (m *MapView) CreateOverlay(id string) viewport.Surface {
	s := viewport.NewSoftwareSurface(m.width, m.height)
	m.overlays = append(m.overlays, mapOverlay{id: id, surface: s})
	return s
}

// RemoveOverlay implements viewport.Host.
func (m *MapView) RemoveOverlay(id string) {
	for i, ov := range m.overlays {
		if ov.id == id {
			m.overlays = append(m.overlays[:i], m.overlays[i+1:]...)
			m.emit(viewport.Event{Kind: viewport.EventRemoved, OverlayID: id})
			m.Refresh()
			return
		}
	}
}

// MoveOverlay implements viewport.Host.
func (m *MapView) MoveOverlay(id, siblingID string, before bool) error {
	from := -1
	for i, ov := range m.overlays {
		if ov.id == id {
			from = i
			break
		}
	}
	if from < 0 {
		return errUnknownOverlay(id)
	}
	moving := m.overlays[from]
	rest := append(append([]mapOverlay{}, m.overlays[:from]...), m.overlays[from+1:]...)

	to := -1
	for i, ov := range rest {
		if ov.id == siblingID {
			to = i
			break
		}
	}
	if to < 0 {
		return errUnknownOverlay(siblingID)
	}
	if !before {
		to++
	}
	m.overlays = append(rest[:to:to], append([]mapOverlay{moving}, rest[to:]...)...)
	m.Refresh()
	return nil
}

func (m *MapView) emit(ev viewport.Event) {
	for _, fn := range m.subs {
		fn(ev)
	}
}

// SetBounds jumps the viewport to new bounds, as a settled move.
func (m *MapView) SetBounds(b geometry.Bounds) {
	if b.Empty() {
		return
	}
	m.bounds = b
	m.emit(viewport.Event{Kind: viewport.EventMove})
	m.emit(viewport.Event{Kind: viewport.EventMoveEnd})
	m.Refresh()
}

// ZoomIn zooms one step about the viewport center.
func (m *MapView) ZoomIn() {
	m.zoomBy(zoomStep)
}

// ZoomOut zooms one step out.
func (m *MapView) ZoomOut() {
	m.zoomBy(1 / zoomStep)
}

func (m *MapView) zoomBy(factor float64) {
	c := m.bounds.Center()
	hw := m.bounds.Width() / 2 / factor
	hh := m.bounds.Height() / 2 / factor
	if hw*2 < minSpan || hh*2 < minSpan {
		return
	}
	m.emit(viewport.Event{Kind: viewport.EventZoomStart})
	m.bounds = geometry.Bounds{MinX: c.X - hw, MinY: c.Y - hh, MaxX: c.X + hw, MaxY: c.Y + hh}
	m.emit(viewport.Event{Kind: viewport.EventMove})
	m.emit(viewport.Event{Kind: viewport.EventZoomEnd})
	m.emit(viewport.Event{Kind: viewport.EventMoveEnd})
	m.Refresh()
}

// RotateBy turns the bearing by the given degrees as one gesture.
func (m *MapView) RotateBy(degrees float64) {
	m.emit(viewport.Event{Kind: viewport.EventRotateStart})
	m.bearing = math.Mod(m.bearing+degrees, 360)
	m.emit(viewport.Event{Kind: viewport.EventRotate, BearingDelta: degrees})
	m.emit(viewport.Event{Kind: viewport.EventMove})
	m.emit(viewport.Event{Kind: viewport.EventRotateEnd})
	m.emit(viewport.Event{Kind: viewport.EventMoveEnd})
	m.Refresh()
}

// RotateLeft and RotateRight turn the bearing by one step.
func (m *MapView) RotateLeft()  { m.RotateBy(-rotateStep) }
func (m *MapView) RotateRight() { m.RotateBy(rotateStep) }

// ResetBearing restores a north-up view.
func (m *MapView) ResetBearing() {
	if m.bearing == 0 {
		return
	}
	m.RotateBy(-m.bearing)
}

// Dragged implements fyne.Draggable as a pan gesture.
func (m *MapView) Dragged(ev *fyne.DragEvent) {
	if !m.dragging {
		m.dragging = true
		m.dragDX = 0
		m.dragDY = 0
		m.emit(viewport.Event{Kind: viewport.EventPanStart})
	}
	m.dragDX += ev.Dragged.DX
	m.dragDY += ev.Dragged.DY

	m.shiftByScreenDelta(float64(ev.Dragged.DX), float64(ev.Dragged.DY))
	m.emit(viewport.Event{
		Kind:  viewport.EventPan,
		PanDX: float64(m.dragDX),
		PanDY: float64(m.dragDY),
	})
	m.emit(viewport.Event{Kind: viewport.EventMove})
	m.Refresh()
}

// DragEnd implements fyne.Draggable, settling the pan gesture.
func (m *MapView) DragEnd() {
	if !m.dragging {
		return
	}
	m.dragging = false
	m.emit(viewport.Event{Kind: viewport.EventPanEnd})
	m.emit(viewport.Event{Kind: viewport.EventMoveEnd})
	m.Refresh()
}

// Scrolled implements fyne.Scrollable: the wheel zooms.
func (m *MapView) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		m.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		m.ZoomOut()
	}
}

// shiftByScreenDelta moves the bounds opposite a screen-space drag so the
// point under the cursor stays put, under any bearing. The projection is
// affine, so the geographic shift is the unprojection delta measured at the
// viewport center.
func (m *MapView) shiftByScreenDelta(dx, dy float64) {
	cx, cy := float64(m.width)/2, float64(m.height)/2
	fromLon, fromLat := m.Unproject(cx+dx, cy+dy)
	toLon, toLat := m.Unproject(cx, cy)
	shiftX := toLon - fromLon
	shiftY := toLat - fromLat
	m.bounds = geometry.Bounds{
		MinX: m.bounds.MinX + shiftX,
		MaxX: m.bounds.MaxX + shiftX,
		MinY: m.bounds.MinY + shiftY,
		MaxY: m.bounds.MaxY + shiftY,
	}
}

// draw renders the composite the raster displays. Fyne calls it with the
// widget's current pixel dimensions; a size change is forwarded to the
// overlay controllers before compositing so no stale-sized raster shows.
func (m *MapView) draw(w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	if w != m.width || h != m.height {
		m.width = w
		m.height = h
		m.emit(viewport.Event{Kind: viewport.EventResize, Width: w, Height: h})
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), &image.Uniform{C: m.Background}, image.Point{}, draw.Src)

	m.drawBasemap(out)
	for _, ov := range m.overlays {
		ov.surface.CompositeOver(out)
	}
	return out
}

// drawBasemap composites the base image, rotated with the bearing.
func (m *MapView) drawBasemap(dst *image.RGBA) {
	bm := m.basemap
	if bm == nil || !bm.Registered() || !bm.Visible {
		return
	}
	if m.bearing == 0 {
		bm.Draw(dst, m.bounds)
		return
	}
	flat := image.NewRGBA(dst.Rect)
	bm.Draw(flat, m.bounds)
	t := m.bearingTransform()
	aff := f64.Aff3{t.A, t.B, t.TX, t.C, t.D, t.TY}
	xdraw.ApproxBiLinear.Transform(dst, aff, flat, flat.Bounds(), xdraw.Over, nil)
}

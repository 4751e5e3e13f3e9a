package viewport

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"geoheat/pkg/geometry"
)

// Offscreen is a headless Host with an equirectangular projection. It backs
// the batch renderer and the package tests, and exposes helpers that
// simulate the motion gestures an interactive host would deliver.
type Offscreen struct {
	bounds        geometry.Bounds
	width, height int

	subs    map[int]func(Event)
	nextSub int

	// overlay stack, bottom to top
	overlays []offscreenOverlay

	// Background fills the composite below all overlays.
	Background color.RGBA
}

type offscreenOverlay struct {
	id      string
	surface *SoftwareSurface
}

// NewOffscreen creates a headless host showing the given geographic bounds
// at the given pixel dimensions.
func NewOffscreen(bounds geometry.Bounds, width, height int) *Offscreen {
	return &Offscreen{
		bounds:     bounds,
		width:      width,
		height:     height,
		subs:       make(map[int]func(Event)),
		Background: color.RGBA{A: 255},
	}
}

// Bounds implements Host.
func (o *Offscreen) Bounds() geometry.Bounds {
	return o.bounds
}

// PixelSize implements Host.
func (o *Offscreen) PixelSize() (int, int) {
	return o.width, o.height
}

// Project implements Host with a linear lon/lat to pixel mapping. Latitude
// grows upward, pixel y grows downward.
func (o *Offscreen) Project(lon, lat float64) geometry.Point2D {
	return geometry.Point2D{
		X: (lon - o.bounds.MinX) / o.bounds.Width() * float64(o.width),
		Y: (o.bounds.MaxY - lat) / o.bounds.Height() * float64(o.height),
	}
}

// Subscribe implements Host.
func (o *Offscreen) Subscribe(fn func(Event)) int {
	o.nextSub++
	o.subs[o.nextSub] = fn
	return o.nextSub
}

// Unsubscribe implements Host.
func (o *Offscreen) Unsubscribe(token int) {
	delete(o.subs, token)
}

// CreateOverlay implements Host.
func (o *Offscreen) CreateOverlay(id string) Surface {
	s := NewSoftwareSurface(o.width, o.height)
	o.overlays = append(o.overlays, offscreenOverlay{id: id, surface: s})
	return s
}

// RemoveOverlay implements Host. Subscribers are notified so the owning
// layer can detach.
func (o *Offscreen) RemoveOverlay(id string) {
	for i, ov := range o.overlays {
		if ov.id == id {
			o.overlays = append(o.overlays[:i], o.overlays[i+1:]...)
			o.emit(Event{Kind: EventRemoved, OverlayID: id})
			return
		}
	}
}

// MoveOverlay implements Host, reordering an overlay next to a sibling.
func (o *Offscreen) MoveOverlay(id, siblingID string, before bool) error {
	from := o.indexOf(id)
	if from < 0 {
		return fmt.Errorf("viewport: unknown overlay %q", id)
	}
	moving := o.overlays[from]
	rest := append(append([]offscreenOverlay{}, o.overlays[:from]...), o.overlays[from+1:]...)

	to := -1
	for i, ov := range rest {
		if ov.id == siblingID {
			to = i
			break
		}
	}
	if to < 0 {
		return fmt.Errorf("viewport: unknown sibling overlay %q", siblingID)
	}
	if !before {
		to++
	}
	o.overlays = append(rest[:to:to], append([]offscreenOverlay{moving}, rest[to:]...)...)
	return nil
}

func (o *Offscreen) indexOf(id string) int {
	for i, ov := range o.overlays {
		if ov.id == id {
			return i
		}
	}
	return -1
}

// OverlayIDs returns the overlay stack order, bottom to top.
func (o *Offscreen) OverlayIDs() []string {
	ids := make([]string, len(o.overlays))
	for i, ov := range o.overlays {
		ids[i] = ov.id
	}
	return ids
}

// Surface returns a created overlay's software surface, or nil.
func (o *Offscreen) Surface(id string) *SoftwareSurface {
	if i := o.indexOf(id); i >= 0 {
		return o.overlays[i].surface
	}
	return nil
}

// Composite renders the background and every overlay, bottom to top.
func (o *Offscreen) Composite() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, o.width, o.height))
	draw.Draw(out, out.Bounds(), &image.Uniform{C: o.Background}, image.Point{}, draw.Src)
	for _, ov := range o.overlays {
		ov.surface.CompositeOver(out)
	}
	return out
}

func (o *Offscreen) emit(ev Event) {
	for _, fn := range o.subs {
		fn(ev)
	}
}

// Resize changes the pixel dimensions and notifies subscribers.
func (o *Offscreen) Resize(width, height int) {
	o.width = width
	o.height = height
	// Overlay surfaces resize through their sync controllers, which receive
	// the resize event below.
	o.emit(Event{Kind: EventResize, Width: width, Height: height})
}

// SetBounds jumps the viewport to new bounds, as a settled move.
func (o *Offscreen) SetBounds(b geometry.Bounds) {
	o.bounds = b
	o.emit(Event{Kind: EventMove})
	o.emit(Event{Kind: EventMoveEnd})
}

// PanBy simulates a drag gesture of (dx, dy) pixels, shifting the bounds
// and emitting the pan lifecycle events.
func (o *Offscreen) PanBy(dx, dy float64) {
	o.emit(Event{Kind: EventPanStart})
	resX := o.bounds.Width() / float64(o.width)
	resY := o.bounds.Height() / float64(o.height)
	o.bounds = geometry.Bounds{
		MinX: o.bounds.MinX - dx*resX,
		MaxX: o.bounds.MaxX - dx*resX,
		MinY: o.bounds.MinY + dy*resY,
		MaxY: o.bounds.MaxY + dy*resY,
	}
	o.emit(Event{Kind: EventPan, PanDX: dx, PanDY: dy})
	o.emit(Event{Kind: EventMove})
	o.emit(Event{Kind: EventPanEnd})
	o.emit(Event{Kind: EventMoveEnd})
}

// ZoomBy simulates a zoom gesture scaling the bounds about their center.
// factor > 1 zooms in.
func (o *Offscreen) ZoomBy(factor float64) {
	o.emit(Event{Kind: EventZoomStart})
	c := o.bounds.Center()
	hw := o.bounds.Width() / 2 / factor
	hh := o.bounds.Height() / 2 / factor
	o.bounds = geometry.Bounds{MinX: c.X - hw, MinY: c.Y - hh, MaxX: c.X + hw, MaxY: c.Y + hh}
	o.emit(Event{Kind: EventMove})
	o.emit(Event{Kind: EventZoomEnd})
	o.emit(Event{Kind: EventMoveEnd})
}

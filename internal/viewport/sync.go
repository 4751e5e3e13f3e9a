package viewport

import (
	"math"

	"geoheat/pkg/geometry"
)

// SyncController decides, per viewport transition, whether the overlay is
// recomputed, cheaply repositioned, hidden, or shown. Recomputing a full
// density raster on every motion tick is prohibitively expensive for large
// feature sets; with recompute-while-animating disabled the controller
// substitutes an approximate affine reposition of the existing raster and
// falls back to an exact recompute once motion settles.
type SyncController struct {
	host    Host
	surface Surface
	refresh func()

	// loadWhileAnimating keeps the overlay recomputing live on every move
	// event instead of hiding it for the duration of a gesture.
	loadWhileAnimating bool

	phase        Phase
	moved        bool // a move event occurred during the current gesture
	settled      bool // the gesture-end refresh already ran
	bearingDelta float64
	panDX, panDY float64
}

// NewSyncController creates a controller driving the given surface. refresh
// triggers a full recompute and re-present of the overlay raster.
func NewSyncController(host Host, surface Surface, loadWhileAnimating bool, refresh func()) *SyncController {
	return &SyncController{
		host:               host,
		surface:            surface,
		refresh:            refresh,
		loadWhileAnimating: loadWhileAnimating,
		phase:              PhaseIdle,
	}
}

// Phase returns the current motion phase.
func (c *SyncController) Phase() Phase {
	return c.phase
}

// State returns an ephemeral snapshot of the viewport and motion state.
func (c *SyncController) State() State {
	w, h := c.host.PixelSize()
	return State{
		Bounds:       c.host.Bounds(),
		Width:        w,
		Height:       h,
		Phase:        c.phase,
		BearingDelta: c.bearingDelta,
		PanDX:        c.panDX,
		PanDY:        c.panDY,
	}
}

// Handle advances the state machine with one viewport event.
func (c *SyncController) Handle(ev Event) {
	switch ev.Kind {
	case EventResize:
		c.surface.Resize(ev.Width, ev.Height)
		c.forceRefresh()

	case EventPanStart:
		c.beginGesture(PhasePanning)
	case EventZoomStart:
		c.beginGesture(PhaseZooming)
	case EventRotateStart:
		c.beginGesture(PhaseRotating)

	case EventRotate:
		if c.loadWhileAnimating {
			return
		}
		c.bearingDelta = ev.BearingDelta
		c.surface.ApplyTransform(c.animatingTransform())

	case EventPan:
		if c.loadWhileAnimating {
			return
		}
		c.panDX = ev.PanDX
		c.panDY = ev.PanDY
		c.surface.ApplyTransform(c.animatingTransform())

	case EventZoomEnd, EventRotateEnd:
		c.phase = PhaseIdle
		if c.loadWhileAnimating {
			return
		}
		c.surface.SetVisible(true)
		// A recompute follows from the trailing move-end when the gesture
		// produced move events; otherwise nothing else will trigger it.
		if !c.moved {
			c.forceRefresh()
			c.settled = true
		}

	case EventPanEnd:
		c.phase = PhaseIdle
		if c.loadWhileAnimating {
			return
		}
		c.surface.SetVisible(true)
		c.forceRefresh()
		c.settled = true

	case EventMove:
		c.moved = true
		c.settled = false
		if c.loadWhileAnimating {
			c.forceRefresh()
		} else if c.phase == PhaseIdle {
			c.forceRefresh()
		}

	case EventMoveEnd:
		// The gesture-end handler may have recomputed already; the trailing
		// move-end must not recompute a second time.
		if c.settled {
			c.settled = false
			return
		}
		if c.loadWhileAnimating || c.phase == PhaseIdle {
			c.forceRefresh()
		}
	}
}

// beginGesture enters an animating phase. With recompute-while-animating
// disabled the overlay is hidden until the gesture ends.
func (c *SyncController) beginGesture(p Phase) {
	c.phase = p
	c.moved = false
	c.settled = false
	if !c.loadWhileAnimating {
		c.surface.SetVisible(false)
	}
}

// animatingTransform composes the accumulated pan translation with the
// bearing rotation about the viewport center. The pitch component of the
// camera is deliberately not folded in; the reposition is approximate.
func (c *SyncController) animatingTransform() geometry.AffineTransform {
	w, h := c.host.PixelSize()
	rot := geometry.RotationAbout(-c.bearingDelta*math.Pi/180, float64(w)/2, float64(h)/2)
	return geometry.Translation(c.panDX, c.panDY).Compose(rot)
}

// forceRefresh clears any reposition transform and triggers a full
// recompute of the overlay raster.
func (c *SyncController) forceRefresh() {
	c.bearingDelta = 0
	c.panDX = 0
	c.panDY = 0
	c.surface.ApplyTransform(geometry.Identity())
	c.refresh()
}

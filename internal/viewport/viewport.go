// Package viewport defines the host-map collaborator interface, the overlay
// surface abstraction, and the synchronization state machine that keeps a
// rendered overlay aligned with a pannable, zoomable, rotatable viewport.
package viewport

import (
	"geoheat/pkg/geometry"
)

// Phase is the viewport's current motion phase.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePanning
	PhaseZooming
	PhaseRotating
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePanning:
		return "panning"
	case PhaseZooming:
		return "zooming"
	case PhaseRotating:
		return "rotating"
	default:
		return "unknown"
	}
}

// EventKind identifies a viewport lifecycle event.
type EventKind int

const (
	EventResize EventKind = iota
	EventMove
	EventMoveEnd
	EventPanStart
	EventPan
	EventPanEnd
	EventZoomStart
	EventZoomEnd
	EventRotateStart
	EventRotate
	EventRotateEnd
	// EventRemoved notifies a layer that its overlay was removed by the host.
	EventRemoved
)

func (k EventKind) String() string {
	switch k {
	case EventResize:
		return "resize"
	case EventMove:
		return "move"
	case EventMoveEnd:
		return "moveend"
	case EventPanStart:
		return "panstart"
	case EventPan:
		return "pan"
	case EventPanEnd:
		return "panend"
	case EventZoomStart:
		return "zoomstart"
	case EventZoomEnd:
		return "zoomend"
	case EventRotateStart:
		return "rotatestart"
	case EventRotate:
		return "rotate"
	case EventRotateEnd:
		return "rotateend"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is a viewport lifecycle notification delivered to subscribers.
type Event struct {
	Kind EventKind

	// New pixel dimensions, for EventResize.
	Width, Height int

	// Bearing change in degrees since rotate-start, for EventRotate.
	BearingDelta float64

	// Accumulated translation in pixels since pan-start, for EventPan.
	PanDX, PanDY float64

	// Identifier of the removed overlay, for EventRemoved.
	OverlayID string
}

// State is an ephemeral snapshot of the viewport, recomputed from the host
// on demand and never cached across layers.
type State struct {
	Bounds        geometry.Bounds
	Width, Height int
	Phase         Phase
	BearingDelta  float64
	PanDX, PanDY  float64
}

// Host is the map widget collaborator that owns the viewport transform.
// It projects geographic coordinates to pixels, reports its current bounds
// and pixel dimensions, publishes lifecycle events, and manages the stack
// of overlay surfaces composited above the base map.
type Host interface {
	// Bounds returns the current geographic bounds of the viewport.
	Bounds() geometry.Bounds

	// PixelSize returns the viewport dimensions in pixels.
	PixelSize() (width, height int)

	// Project converts a geographic coordinate to viewport pixel coordinates.
	Project(lon, lat float64) geometry.Point2D

	// Subscribe registers a lifecycle event listener and returns a token
	// for Unsubscribe.
	Subscribe(fn func(Event)) int

	// Unsubscribe removes a previously registered listener.
	Unsubscribe(token int)

	// CreateOverlay allocates an overlay surface at the top of the stack.
	CreateOverlay(id string) Surface

	// RemoveOverlay removes an overlay surface from the stack.
	RemoveOverlay(id string)

	// MoveOverlay reorders an overlay relative to a sibling overlay.
	MoveOverlay(id, siblingID string, before bool) error
}

package heatmap

import (
	"sync"

	"geoheat/internal/feature"
)

// EventType identifies a layer notification.
type EventType int

const (
	// EventFeaturesAdded fires after AddFeatures replaces the feature set.
	EventFeaturesAdded EventType = iota

	// EventFeaturesRemoved fires after RemoveFeatures or RemoveAllFeatures,
	// including partial failures.
	EventFeaturesRemoved

	// EventRenderCompleted fires after a raster has been presented.
	EventRenderCompleted

	// EventPropertyChanged fires after a layer property setter.
	EventPropertyChanged
)

// Listener is called when a layer event occurs.
type Listener func(data interface{})

// FeaturesPayload accompanies feature mutation events. Failed lists the
// removal targets that were not found in the feature set; Succeed is false
// when any target failed.
type FeaturesPayload struct {
	Features []feature.Point
	Succeed  bool
	Failed   []feature.Point
}

// PropertyPayload accompanies EventPropertyChanged.
type PropertyPayload struct {
	Property string
}

// events is the listener registry embedded in Layer. Registration is
// guarded; listeners themselves fire outside the lock on the caller's
// goroutine, matching the layer's single-threaded event model.
type events struct {
	mu        sync.RWMutex
	listeners map[EventType][]Listener
}

// On registers a listener for the event type.
func (e *events) On(event EventType, listener Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.listeners == nil {
		e.listeners = make(map[EventType][]Listener)
	}
	e.listeners[event] = append(e.listeners[event], listener)
}

// Emit triggers all listeners for the event type.
func (e *events) Emit(event EventType, data interface{}) {
	e.mu.RLock()
	listeners := e.listeners[event]
	e.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Package heatmap renders weighted point features as a density heat-map
// overlay kept in sync with a pannable, zoomable, rotatable map viewport.
package heatmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/google/uuid"

	"geoheat/internal/feature"
	"geoheat/internal/viewport"
)

// Layer owns a feature set, a render configuration snapshot, the derived
// gradient/stamp caches, and the overlay surface. It composes the
// rasterizer with the viewport sync controller and exposes the public
// feature-management and lifecycle API.
type Layer struct {
	events

	id   string
	name string
	cfg  RenderConfig

	features []feature.Point
	visible  bool

	host     viewport.Host
	surface  viewport.Surface
	ctrl     *viewport.SyncController
	subToken int

	// caches, invalidated by comparing against the config fields they
	// were derived from
	gradient       *Table
	gradientColors []color.RGBA
	stamp          *image.Alpha
	stampRadius    int
}

// NewLayer creates a detached heat layer with the given configuration.
func NewLayer(name string, cfg RenderConfig) (*Layer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Layer{
		id:      uuid.NewString(),
		name:    name,
		cfg:     cfg,
		visible: true,
	}, nil
}

// ID returns the layer's overlay identifier.
func (l *Layer) ID() string {
	return l.id
}

// Name returns the layer's display name.
func (l *Layer) Name() string {
	return l.name
}

// Config returns the current configuration snapshot.
func (l *Layer) Config() RenderConfig {
	return l.cfg
}

// Features returns a copy of the current feature set.
func (l *Layer) Features() []feature.Point {
	return append([]feature.Point(nil), l.features...)
}

// Attach binds the layer to a host viewport: it allocates an overlay
// surface, subscribes to the viewport lifecycle events, and renders the
// current feature set.
func (l *Layer) Attach(host viewport.Host) error {
	if l.host != nil {
		return fmt.Errorf("heatmap: layer %q already attached", l.name)
	}
	l.host = host
	l.surface = host.CreateOverlay(l.id)
	l.surface.SetOpacity(l.cfg.Opacity)
	l.surface.SetVisible(l.visible)
	l.ctrl = viewport.NewSyncController(host, l.surface, l.cfg.LoadWhileAnimating, l.refresh)
	l.subToken = host.Subscribe(l.handleEvent)
	l.refresh()
	return nil
}

// Detach unsubscribes from the host and removes the overlay surface.
// Detaching a detached layer is a no-op.
func (l *Layer) Detach() {
	if l.host == nil {
		return
	}
	host := l.host
	host.Unsubscribe(l.subToken)
	l.host = nil
	l.surface = nil
	l.ctrl = nil
	host.RemoveOverlay(l.id)
}

// handleEvent routes host notifications: overlay removal detaches the
// layer, everything else drives the sync controller.
func (l *Layer) handleEvent(ev viewport.Event) {
	if ev.Kind == viewport.EventRemoved {
		if ev.OverlayID == l.id {
			l.Detach()
		}
		return
	}
	l.ctrl.Handle(ev)
}

// AddFeatures replaces the layer's entire feature set with the given
// features and recomputes the raster. Despite the name, the operation is a
// destructive replace, not an append: callers pass the full desired set on
// every call.
func (l *Layer) AddFeatures(features []feature.Point) {
	l.features = append([]feature.Point(nil), features...)
	l.refresh()
	l.Emit(EventFeaturesAdded, FeaturesPayload{Features: l.Features(), Succeed: true})
}

// AddGeoJSON decodes a GeoJSON document of point features and replaces the
// feature set with the result. A document containing any non-point
// geometry fails fast: nothing is added and the error is returned to the
// caller.
func (l *Layer) AddGeoJSON(data []byte) error {
	pts, err := feature.DecodeGeoJSON(data)
	if err != nil {
		return err
	}
	l.AddFeatures(pts)
	return nil
}

// RemoveFeatures removes the given features from the set by value identity.
// Targets not present are collected and reported through the removal
// notification's Failed list rather than raised individually.
func (l *Layer) RemoveFeatures(features []feature.Point) {
	kept := append([]feature.Point(nil), l.features...)
	var removed, failed []feature.Point

	for _, target := range features {
		idx := -1
		for i, p := range kept {
			if p.Equal(target) {
				idx = i
				break
			}
		}
		if idx < 0 {
			failed = append(failed, target)
			continue
		}
		kept = append(kept[:idx], kept[idx+1:]...)
		removed = append(removed, target)
	}

	if len(removed) > 0 {
		l.features = kept
		l.refresh()
	}
	l.Emit(EventFeaturesRemoved, FeaturesPayload{
		Features: removed,
		Succeed:  len(failed) == 0,
		Failed:   failed,
	})
}

// RemoveAllFeatures empties the feature set and clears the raster.
func (l *Layer) RemoveAllFeatures() {
	removed := l.Features()
	l.features = nil
	l.refresh()
	l.Emit(EventFeaturesRemoved, FeaturesPayload{Features: removed, Succeed: true})
}

// SetOpacity changes the overlay opacity. Opacity applies at composite
// time, so the raster is re-presented as-is, never recomputed.
func (l *Layer) SetOpacity(opacity float64) error {
	cfg := l.cfg.WithOpacity(opacity)
	if err := cfg.Validate(); err != nil {
		return err
	}
	l.cfg = cfg
	if l.surface != nil {
		l.surface.SetOpacity(opacity)
	}
	l.Emit(EventPropertyChanged, PropertyPayload{Property: "opacity"})
	return nil
}

// SetVisibility shows or hides the overlay without touching the raster.
func (l *Layer) SetVisibility(visible bool) {
	l.visible = visible
	if l.surface != nil {
		l.surface.SetVisible(visible)
	}
	l.Emit(EventPropertyChanged, PropertyPayload{Property: "visibility"})
}

// SetRadius changes the stamp radius and recomputes. The stamp cache
// invalidates itself on the next render pass via the radius comparison.
func (l *Layer) SetRadius(radius float64) error {
	cfg := l.cfg.WithRadius(radius)
	if err := cfg.Validate(); err != nil {
		return err
	}
	l.cfg = cfg
	l.refresh()
	l.Emit(EventPropertyChanged, PropertyPayload{Property: "radius"})
	return nil
}

// SetColors changes the gradient ramp and recomputes. The gradient table
// rebuilds only because the ramp actually differs.
func (l *Layer) SetColors(colors []color.RGBA) error {
	cfg := l.cfg.WithColors(colors)
	if err := cfg.Validate(); err != nil {
		return err
	}
	l.cfg = cfg
	l.refresh()
	l.Emit(EventPropertyChanged, PropertyPayload{Property: "colors"})
	return nil
}

// MoveTo reorders the layer's overlay relative to a sibling overlay.
func (l *Layer) MoveTo(siblingID string, before bool) error {
	if l.host == nil {
		return ErrViewportUnready
	}
	if err := l.host.MoveOverlay(l.id, siblingID, before); err != nil {
		return err
	}
	l.Emit(EventPropertyChanged, PropertyPayload{Property: "position"})
	return nil
}

// Refresh recomputes the raster from the current viewport and feature set
// and presents it. An unattached layer or a degenerate viewport makes the
// call a no-op signalled by ErrViewportUnready; an invalid configuration
// skips the render and leaves the previously presented raster shown.
func (l *Layer) Refresh() error {
	if l.host == nil {
		return ErrViewportUnready
	}
	view := SnapshotView(l.host)
	if view.Width <= 0 || view.Height <= 0 {
		return ErrViewportUnready
	}
	if err := l.cfg.Validate(); err != nil {
		return err
	}
	radius := EffectiveRadius(l.cfg, view)
	if radius <= 0 {
		return fmt.Errorf("%w: effective pixel radius %d", ErrInvalidConfig, radius)
	}
	if err := l.ensureCaches(radius); err != nil {
		return err
	}

	buf, err := Render(view, l.features, l.cfg, l.stamp, l.gradient)
	if err != nil {
		return err
	}
	l.surface.Present(buf)
	l.Emit(EventRenderCompleted, nil)
	return nil
}

// refresh is the sync controller's recompute callback: failures are
// reported, never propagated into the host's event dispatch.
func (l *Layer) refresh() {
	if err := l.Refresh(); err != nil && !errors.Is(err, ErrViewportUnready) {
		log.Printf("heatmap: layer %q: render skipped: %v", l.name, err)
	}
}

// ensureCaches rebuilds the gradient table and falloff stamp when the
// fields they derive from have changed.
func (l *Layer) ensureCaches(radius int) error {
	if l.gradient == nil || !sameColors(l.gradientColors, l.cfg.Colors) {
		table, err := BuildGradient(l.cfg.Colors)
		if err != nil {
			return err
		}
		l.gradient = table
		l.gradientColors = append([]color.RGBA(nil), l.cfg.Colors...)
	}
	if l.stamp == nil || l.stampRadius != radius {
		stamp, err := BuildStamp(radius)
		if err != nil {
			return err
		}
		l.stamp = stamp
		l.stampRadius = radius
	}
	return nil
}

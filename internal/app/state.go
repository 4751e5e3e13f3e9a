// Package app provides application lifecycle management, configuration, and
// project state for the viewer.
package app

import (
	"fmt"
	"image/color"
	"os"
	"sync"

	"geoheat/internal/basemap"
	"geoheat/internal/feature"
	"geoheat/internal/heatmap"
	"geoheat/internal/project"
	"geoheat/pkg/colorutil"
	"geoheat/pkg/geometry"
)

// State holds the viewer's application state: the open project, the heat
// layer, and the basemap.
type State struct {
	mu sync.RWMutex

	// Project
	ProjectPath string
	Project     *project.File
	Modified    bool

	// Layers
	Layer   *heatmap.Layer
	Basemap *basemap.Basemap

	// Callbacks
	onChange func()
}

// NewState creates an empty application state with a default heat layer.
func NewState() (*State, error) {
	layer, err := heatmap.NewLayer("heat", heatmap.DefaultConfig())
	if err != nil {
		return nil, err
	}
	return &State{
		Project: project.New("untitled"),
		Layer:   layer,
	}, nil
}

// OnChange registers a callback invoked after any state mutation.
func (s *State) OnChange(fn func()) {
	s.onChange = fn
}

func (s *State) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

// LoadFeatures reads a GeoJSON file into the heat layer.
func (s *State) LoadFeatures(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read features: %w", err)
	}
	if err := s.Layer.AddGeoJSON(data); err != nil {
		return err
	}

	s.mu.Lock()
	s.Project.SetFeaturePath(s.ProjectPath, path)
	s.Modified = true
	s.mu.Unlock()
	s.notify()
	return nil
}

// LoadBasemap reads a georeferenced raster image for the background.
func (s *State) LoadBasemap(path string) error {
	bm, err := basemap.Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.Basemap = bm
	s.Project.SetBasemapPath(s.ProjectPath, path)
	s.Modified = true
	s.mu.Unlock()
	s.notify()
	return nil
}

// SetViewBounds records the current viewport bounds on the open project so
// they are restored the next time it is loaded.
func (s *State) SetViewBounds(b geometry.Bounds) {
	s.mu.Lock()
	s.Project.ViewBounds = &b
	s.Modified = true
	s.mu.Unlock()
}

// FitBounds returns the project's saved viewport bounds when present, else
// bounds covering the layer's features with padding unioned with the
// basemap's extent, or a world view when nothing is loaded.
func (s *State) FitBounds() geometry.Bounds {
	if vb := s.Project.ViewBounds; vb != nil && !vb.Empty() {
		return *vb
	}
	registered := s.Basemap != nil && s.Basemap.Registered()
	pts := s.Layer.Features()
	if len(pts) > 0 {
		b := geometry.NewBounds(pts[0].Lon, pts[0].Lat, pts[0].Lon, pts[0].Lat)
		for _, p := range pts[1:] {
			b = b.Extend(geometry.NewPoint2D(p.Lon, p.Lat))
		}
		if b.Empty() {
			// all points coincide, give them room
			b = geometry.NewBounds(b.MinX-1, b.MinY-1, b.MaxX+1, b.MaxY+1)
		}
		b = b.Pad(0.1)
		if registered {
			b = b.Union(s.Basemap.Bounds)
		}
		return b
	}
	if registered {
		return s.Basemap.Bounds
	}
	return geometry.NewBounds(-180, -85, 180, 85)
}

// LoadProject opens a .heatproj file and loads its referenced data.
func (s *State) LoadProject(path string) error {
	proj, err := project.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}

	cfg, err := ConfigFromSettings(proj.Settings)
	if err != nil {
		return err
	}
	layer, err := heatmap.NewLayer(proj.Name, cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Project = proj
	s.Layer = layer
	s.Basemap = nil
	s.Modified = false
	s.mu.Unlock()

	if fp := proj.GetFeaturePath(path); fp != "" {
		data, err := os.ReadFile(fp)
		if err != nil {
			return fmt.Errorf("failed to read features: %w", err)
		}
		if err := s.Layer.AddGeoJSON(data); err != nil {
			return err
		}
	}
	if bp := proj.GetBasemapPath(path); bp != "" {
		bm, err := basemap.Load(bp)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.Basemap = bm
		s.mu.Unlock()
	}
	s.notify()
	return nil
}

// SaveProject writes the project file, capturing the layer's current
// settings.
func (s *State) SaveProject(path string) error {
	s.mu.Lock()
	s.Project.Settings = SettingsFromConfig(s.Layer.Config())
	err := s.Project.Save(path)
	if err == nil {
		s.ProjectPath = path
		s.Modified = false
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// Features returns the heat layer's current feature set.
func (s *State) Features() []feature.Point {
	return s.Layer.Features()
}

// ConfigFromSettings builds a render configuration from persisted project
// settings, parsing color names and hex strings.
func ConfigFromSettings(st project.Settings) (heatmap.RenderConfig, error) {
	cfg := heatmap.DefaultConfig()
	if st.Radius > 0 {
		cfg = cfg.WithRadius(st.Radius)
	}
	cfg = cfg.WithUseGeoUnit(st.UseGeoUnit).WithLoadWhileAnimating(st.LoadWhileAnimating)
	if st.Opacity > 0 {
		cfg = cfg.WithOpacity(st.Opacity)
	}
	if st.FeatureWeight != "" {
		cfg = cfg.WithFeatureWeight(st.FeatureWeight)
	}
	if len(st.Colors) > 0 {
		ramp := make([]color.RGBA, 0, len(st.Colors))
		for _, spec := range st.Colors {
			c, err := colorutil.Parse(spec)
			if err != nil {
				return heatmap.RenderConfig{}, err
			}
			ramp = append(ramp, c)
		}
		cfg = cfg.WithColors(ramp)
	}
	if st.MinWeight != nil && st.MaxWeight != nil {
		cfg = cfg.WithWeightRange(*st.MinWeight, *st.MaxWeight)
	}
	return cfg, cfg.Validate()
}

// SettingsFromConfig captures a render configuration as project settings.
func SettingsFromConfig(cfg heatmap.RenderConfig) project.Settings {
	st := project.Settings{
		Radius:             cfg.Radius,
		UseGeoUnit:         cfg.UseGeoUnit,
		Opacity:            cfg.Opacity,
		FeatureWeight:      cfg.FeatureWeight,
		MinWeight:          cfg.MinWeight,
		MaxWeight:          cfg.MaxWeight,
		LoadWhileAnimating: cfg.LoadWhileAnimating,
	}
	for _, c := range cfg.Colors {
		st.Colors = append(st.Colors, fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	}
	return st
}

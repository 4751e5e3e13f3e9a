// Package project provides project file handling and persistence.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"geoheat/pkg/geometry"
)

// File represents a heat-map project file (.heatproj). Referenced data
// files are stored relative to the project file when possible.
type File struct {
	Version     int       `json:"version"`
	Name        string    `json:"name"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
	Description string    `json:"description,omitempty"`

	// Data file paths (relative to project file)
	FeaturePath string `json:"features,omitempty"`
	BasemapPath string `json:"basemap,omitempty"`

	// Initial viewport
	ViewBounds *geometry.Bounds `json:"view_bounds,omitempty"`

	// Render settings
	Settings Settings `json:"settings,omitempty"`
}

// Settings holds the persisted rendering preferences.
type Settings struct {
	Radius             float64  `json:"radius,omitempty"`
	UseGeoUnit         bool     `json:"use_geo_unit"`
	Opacity            float64  `json:"opacity,omitempty"`
	Colors             []string `json:"colors,omitempty"`
	FeatureWeight      string   `json:"feature_weight,omitempty"`
	MinWeight          *float64 `json:"min_weight,omitempty"`
	MaxWeight          *float64 `json:"max_weight,omitempty"`
	LoadWhileAnimating bool     `json:"load_while_animating"`
}

// New creates a new project file with default settings.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  1,
		Name:     name,
		Created:  now,
		Modified: now,
		Settings: Settings{
			Radius:             50,
			Opacity:            1,
			LoadWhileAnimating: true,
		},
	}
}

// Load loads a project from a .heatproj file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, err
	}
	return &proj, nil
}

// Save saves the project to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SetFeaturePath sets the GeoJSON path, relative to the project when possible.
func (p *File) SetFeaturePath(projectPath, featurePath string) {
	p.FeaturePath = relativize(projectPath, featurePath)
	p.Modified = time.Now()
}

// SetBasemapPath sets the basemap image path, relative to the project when
// possible.
func (p *File) SetBasemapPath(projectPath, basemapPath string) {
	p.BasemapPath = relativize(projectPath, basemapPath)
	p.Modified = time.Now()
}

// GetFeaturePath returns the absolute path to the GeoJSON file.
func (p *File) GetFeaturePath(projectPath string) string {
	return absolutize(projectPath, p.FeaturePath)
}

// GetBasemapPath returns the absolute path to the basemap image.
func (p *File) GetBasemapPath(projectPath string) string {
	return absolutize(projectPath, p.BasemapPath)
}

func relativize(projectPath, dataPath string) string {
	rel, err := filepath.Rel(filepath.Dir(projectPath), dataPath)
	if err != nil {
		return dataPath
	}
	return rel
}

func absolutize(projectPath, dataPath string) string {
	if dataPath == "" {
		return ""
	}
	if filepath.IsAbs(dataPath) {
		return dataPath
	}
	return filepath.Join(filepath.Dir(projectPath), dataPath)
}

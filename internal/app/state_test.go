package app

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"geoheat/internal/basemap"
	"geoheat/internal/feature"
	"geoheat/internal/heatmap"
	"geoheat/internal/project"
	"geoheat/pkg/colorutil"
	"geoheat/pkg/geometry"
)

func TestConfigSettingsRoundTrip(t *testing.T) {
	cfg := heatmap.DefaultConfig().
		WithRadius(30).
		WithUseGeoUnit(true).
		WithOpacity(0.8).
		WithFeatureWeight("mag").
		WithWeightRange(0, 10)

	st := SettingsFromConfig(cfg)
	back, err := ConfigFromSettings(st)
	if err != nil {
		t.Fatal(err)
	}

	if back.Radius != 30 || !back.UseGeoUnit || back.Opacity != 0.8 || back.FeatureWeight != "mag" {
		t.Errorf("round trip = %+v", back)
	}
	if !back.HasWeightRange() || *back.MaxWeight != 10 {
		t.Error("weight range lost in round trip")
	}
	if len(back.Colors) != len(cfg.Colors) || back.Colors[0] != colorutil.Blue {
		t.Errorf("colors = %v", back.Colors)
	}
}

func TestConfigFromSettingsRejectsBadColor(t *testing.T) {
	st := project.Settings{Colors: []string{"notacolor"}}
	if _, err := ConfigFromSettings(st); err == nil {
		t.Fatal("invalid color name accepted")
	}
}

func TestFitBounds(t *testing.T) {
	s, err := NewState()
	if err != nil {
		t.Fatal(err)
	}

	// nothing loaded: world view
	if b := s.FitBounds(); b.MinX != -180 || b.MaxX != 180 {
		t.Errorf("empty fit = %+v", b)
	}

	s.Layer.AddFeatures([]feature.Point{
		{Lon: 100, Lat: 30},
		{Lon: 110, Lat: 40},
	})
	b := s.FitBounds()
	if !(b.MinX < 100 && b.MaxX > 110 && b.MinY < 30 && b.MaxY > 40) {
		t.Errorf("fit = %+v, want padded cover of the features", b)
	}

	// a registered basemap widens the fit to cover both
	s.Basemap = &basemap.Basemap{
		Image:   image.NewRGBA(image.Rect(0, 0, 4, 4)),
		Bounds:  geometry.NewBounds(120, 20, 140, 50),
		Visible: true,
		Opacity: 1,
	}
	b = s.FitBounds()
	if !(b.MaxX >= 140 && b.MinY <= 20 && b.MaxY >= 50 && b.MinX < 100) {
		t.Errorf("fit = %+v, want union of features and basemap", b)
	}
	s.Basemap = nil

	// a single point still yields usable non-degenerate bounds
	s.Layer.AddFeatures([]feature.Point{{Lon: 5, Lat: 5}})
	if s.FitBounds().Empty() {
		t.Error("single-point fit is degenerate")
	}

	// a saved viewport wins over the feature fit
	s.SetViewBounds(geometry.NewBounds(0, 0, 20, 10))
	if b := s.FitBounds(); b.MinX != 0 || b.MaxX != 20 || b.MaxY != 10 {
		t.Errorf("fit = %+v, want the saved viewport", b)
	}
	if !s.Modified {
		t.Error("setting view bounds did not mark the project modified")
	}
}

func TestSaveAndLoadProject(t *testing.T) {
	dir := t.TempDir()

	features := filepath.Join(dir, "points.geojson")
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[5,5]},"properties":{"mag":3}}
	]}`
	if err := os.WriteFile(features, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewState()
	if err != nil {
		t.Fatal(err)
	}
	projPath := filepath.Join(dir, "test.heatproj")
	s.ProjectPath = projPath
	if err := s.LoadFeatures(features); err != nil {
		t.Fatal(err)
	}
	s.SetViewBounds(geometry.NewBounds(4, 4, 6, 6))
	if err := s.SaveProject(projPath); err != nil {
		t.Fatal(err)
	}
	if s.Modified {
		t.Error("state still modified after save")
	}

	loaded, err := NewState()
	if err != nil {
		t.Fatal(err)
	}
	if err := loaded.LoadProject(projPath); err != nil {
		t.Fatal(err)
	}
	pts := loaded.Features()
	if len(pts) != 1 || pts[0].Lon != 5 {
		t.Fatalf("loaded features = %v, want the saved point", pts)
	}
	if loaded.Project.Name != "untitled" {
		t.Errorf("project name = %q", loaded.Project.Name)
	}
	if b := loaded.FitBounds(); b.MinX != 4 || b.MaxX != 6 {
		t.Errorf("restored viewport = %+v, want the saved bounds", b)
	}
}

package main

import (
	"fmt"
	"image/color"
	"os"

	"github.com/BurntSushi/toml"

	"geoheat/internal/heatmap"
	"geoheat/pkg/colorutil"
	"geoheat/pkg/geometry"
)

// RunConfig is the TOML run configuration accepted by -config.
//
//	radius = 30.0
//	use_geo_unit = true
//	opacity = 0.8
//	colors = ["blue", "cyan", "lime", "yellow", "#ff0000"]
//	feature_weight = "magnitude"
//	min_weight = 0.0
//	max_weight = 10.0
//
//	[bounds]
//	min_lon = 100.0
//	min_lat = 30.0
//	max_lon = 110.0
//	max_lat = 40.0
type RunConfig struct {
	Radius        *float64     `toml:"radius"`
	UseGeoUnit    *bool        `toml:"use_geo_unit"`
	Opacity       *float64     `toml:"opacity"`
	Colors        []string     `toml:"colors"`
	FeatureWeight *string      `toml:"feature_weight"`
	MinWeight     *float64     `toml:"min_weight"`
	MaxWeight     *float64     `toml:"max_weight"`
	Bounds        *BoundsTable `toml:"bounds"`
}

// BoundsTable is the TOML view bounds table.
type BoundsTable struct {
	MinLon float64 `toml:"min_lon"`
	MinLat float64 `toml:"min_lat"`
	MaxLon float64 `toml:"max_lon"`
	MaxLat float64 `toml:"max_lat"`
}

func (b *BoundsTable) toBounds() geometry.Bounds {
	return geometry.NewBounds(b.MinLon, b.MinLat, b.MaxLon, b.MaxLat)
}

// LoadRunConfig reads and parses a TOML run configuration.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg RunConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid TOML in %s: %w", path, err)
	}
	return &cfg, nil
}

// Apply overlays the run configuration onto base render parameters.
func (rc *RunConfig) Apply(base heatmap.RenderConfig) (heatmap.RenderConfig, error) {
	cfg := base
	if rc.Radius != nil {
		cfg = cfg.WithRadius(*rc.Radius)
	}
	if rc.UseGeoUnit != nil {
		cfg = cfg.WithUseGeoUnit(*rc.UseGeoUnit)
	}
	if rc.Opacity != nil {
		cfg = cfg.WithOpacity(*rc.Opacity)
	}
	if rc.FeatureWeight != nil {
		cfg = cfg.WithFeatureWeight(*rc.FeatureWeight)
	}
	if len(rc.Colors) > 0 {
		ramp := make([]color.RGBA, 0, len(rc.Colors))
		for _, spec := range rc.Colors {
			c, err := colorutil.Parse(spec)
			if err != nil {
				return heatmap.RenderConfig{}, err
			}
			ramp = append(ramp, c)
		}
		cfg = cfg.WithColors(ramp)
	}
	if rc.MinWeight != nil && rc.MaxWeight != nil {
		cfg = cfg.WithWeightRange(*rc.MinWeight, *rc.MaxWeight)
	} else if rc.MinWeight != nil || rc.MaxWeight != nil {
		return heatmap.RenderConfig{}, fmt.Errorf("config must set both min_weight and max_weight or neither")
	}
	return cfg, cfg.Validate()
}

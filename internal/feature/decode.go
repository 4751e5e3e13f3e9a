package feature

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrInvalidFeatureType is returned when the input contains a geometry that
// is not a supported point type. Decoding fails fast: no points from an
// invalid collection are returned.
var ErrInvalidFeatureType = errors.New("feature: geometry is not a point type")

// DecodeGeoJSON decodes a GeoJSON document into heat points. The document
// may be a FeatureCollection, a single Feature, or a bare geometry. Only
// Point and MultiPoint geometries are accepted; any other geometry type
// fails the whole decode with ErrInvalidFeatureType. Numeric feature
// properties are preserved as point attributes for weight lookup, and every
// decoded point receives a generated ID.
func DecodeGeoJSON(data []byte) ([]Point, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("feature: invalid geojson: %w", err)
	}

	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("feature: invalid feature collection: %w", err)
		}
		var pts []Point
		for _, f := range fc.Features {
			decoded, err := decodeGeometry(f.Geometry, f.Properties)
			if err != nil {
				return nil, err
			}
			pts = append(pts, decoded...)
		}
		return pts, nil

	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("feature: invalid feature: %w", err)
		}
		return decodeGeometry(f.Geometry, f.Properties)

	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("feature: invalid geometry: %w", err)
		}
		return decodeGeometry(g.Geometry(), nil)
	}
}

// decodeGeometry converts one geometry into points, rejecting non-point types.
func decodeGeometry(g orb.Geometry, props geojson.Properties) ([]Point, error) {
	switch geom := g.(type) {
	case orb.Point:
		return []Point{newPoint(geom, props)}, nil
	case orb.MultiPoint:
		pts := make([]Point, 0, len(geom))
		for _, p := range geom {
			pts = append(pts, newPoint(p, props))
		}
		return pts, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidFeatureType, g.GeoJSONType())
	}
}

func newPoint(p orb.Point, props geojson.Properties) Point {
	pt := Point{
		ID:  uuid.NewString(),
		Lon: p.Lon(),
		Lat: p.Lat(),
	}
	for k, v := range props {
		switch n := v.(type) {
		case float64:
			pt.attr(k, n)
		case int:
			pt.attr(k, float64(n))
		case json.Number:
			if f, err := n.Float64(); err == nil {
				pt.attr(k, f)
			}
		}
	}
	return pt
}

func (p *Point) attr(key string, value float64) {
	if p.Attributes == nil {
		p.Attributes = make(map[string]float64)
	}
	p.Attributes[key] = value
}

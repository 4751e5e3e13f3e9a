// Package feature provides the weighted point model consumed by the heat-map
// rasterizer, together with GeoJSON decoding of point features.
package feature

// Point is a weighted point feature in geographic coordinates. A Point is
// immutable once added to a layer. Identity is value-based: two points are
// the same when their IDs match (both non-empty), or when their coordinates
// and attributes are equal.
type Point struct {
	ID  string  // assigned by the decoder, may be empty for hand-built points
	Lon float64 // longitude (x)
	Lat float64 // latitude (y)

	// Attributes holds the numeric per-feature properties preserved by the
	// decoder. The render configuration's FeatureWeight names the attribute
	// used as the point's weight.
	Attributes map[string]float64
}

// Weight returns the point's weight under the named attribute field.
// An empty field name, or a field absent from the attributes, yields the
// uniform weight 1.
func (p Point) Weight(field string) float64 {
	if field == "" {
		return 1
	}
	if w, ok := p.Attributes[field]; ok {
		return w
	}
	return 1
}

// Equal reports whether two points are the same feature by value identity.
func (p Point) Equal(other Point) bool {
	if p.ID != "" && other.ID != "" {
		return p.ID == other.ID
	}
	if p.Lon != other.Lon || p.Lat != other.Lat {
		return false
	}
	if len(p.Attributes) != len(other.Attributes) {
		return false
	}
	for k, v := range p.Attributes {
		if ov, ok := other.Attributes[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// FromLonLats builds uniform-weight points from a pre-decoded coordinate
// list, for callers that bypass GeoJSON decoding.
func FromLonLats(coords [][2]float64) []Point {
	pts := make([]Point, 0, len(coords))
	for _, c := range coords {
		pts = append(pts, Point{Lon: c[0], Lat: c[1]})
	}
	return pts
}

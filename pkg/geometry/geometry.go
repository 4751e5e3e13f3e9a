// Package geometry provides the basic geometric types shared by the
// rendering pipeline and the viewport layer.
package geometry

import (
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
// Depending on context it holds either geographic (lon, lat) or
// pixel (x, y) coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return Point2D{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale returns the point scaled by a factor.
func (p Point2D) Scale(factor float64) Point2D {
	return Point2D{X: p.X * factor, Y: p.Y * factor}
}

// Bounds is an axis-aligned geographic bounding box. MinX/MaxX are
// longitudes, MinY/MaxY are latitudes.
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// NewBounds creates a Bounds from two corner coordinates.
func NewBounds(minX, minY, maxX, maxY float64) Bounds {
	return Bounds{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// Width returns the longitude span.
func (b Bounds) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns the latitude span.
func (b Bounds) Height() float64 {
	return b.MaxY - b.MinY
}

// Center returns the center coordinate.
func (b Bounds) Center() Point2D {
	return Point2D{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Empty reports whether the bounds cover no area.
func (b Bounds) Empty() bool {
	return b.MaxX <= b.MinX || b.MaxY <= b.MinY
}

// Contains returns true if the coordinate is inside the bounds.
func (b Bounds) Contains(p Point2D) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Extend returns the bounds grown to include the coordinate.
func (b Bounds) Extend(p Point2D) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, p.X),
		MinY: math.Min(b.MinY, p.Y),
		MaxX: math.Max(b.MaxX, p.X),
		MaxY: math.Max(b.MaxY, p.Y),
	}
}

// Union returns the smallest bounds containing both.
func (b Bounds) Union(other Bounds) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, other.MinX),
		MinY: math.Min(b.MinY, other.MinY),
		MaxX: math.Max(b.MaxX, other.MaxX),
		MaxY: math.Max(b.MaxY, other.MaxY),
	}
}

// Pad returns the bounds grown by a fraction of its own span on every side.
func (b Bounds) Pad(fraction float64) Bounds {
	px := b.Width() * fraction
	py := b.Height() * fraction
	return Bounds{MinX: b.MinX - px, MinY: b.MinY - py, MaxX: b.MaxX + px, MaxY: b.MaxY + py}
}

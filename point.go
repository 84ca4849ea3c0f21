package mapstyle

import "math"

// Point is a 2D position. Depending on context it is expressed in tile
// units (feature geometry, translated queries) or in screen pixels
// (projected queries).
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Offset returns p moved by the displacement v.
func (p Point) Offset(v Vec2) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// DistSq returns the squared distance between two points.
// Intersection tests compare squared distances to avoid the square root.
func (p Point) DistSq(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// Dist returns the distance between two points.
func (p Point) Dist(q Point) float64 {
	return math.Sqrt(p.DistSq(q))
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Ring is an ordered sequence of points. For query geometry it has polygon
// semantics; for feature geometry it is one ring (or line, or point group)
// of a feature.
type Ring []Point

// Geometry is the tile-space geometry of one feature: an ordered sequence
// of rings.
type Geometry []Ring

// Bounds returns the axis-aligned bounding box of all points in the ring.
// The zero Rect is returned for an empty ring.
func (r Ring) Bounds() Rect {
	if len(r) == 0 {
		return Rect{}
	}
	b := Rect{Min: r[0], Max: r[0]}
	for _, p := range r[1:] {
		b = b.Extend(p)
	}
	return b
}

// Bounds returns the axis-aligned bounding box of every point of every ring.
// ok is false when the geometry has no points.
func (g Geometry) Bounds() (b Rect, ok bool) {
	for _, ring := range g {
		for _, p := range ring {
			if !ok {
				b = Rect{Min: p, Max: p}
				ok = true
				continue
			}
			b = b.Extend(p)
		}
	}
	return b, ok
}

// NumPoints returns the total number of points across all rings.
func (g Geometry) NumPoints() int {
	n := 0
	for _, ring := range g {
		n += len(ring)
	}
	return n
}

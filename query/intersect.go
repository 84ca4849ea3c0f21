package query

import "github.com/gogpu/mapstyle"

// PolygonIntersectsBufferedPoint reports whether point, buffered to a disc
// of radius, touches polygon. A polygon of one vertex is a point and of two
// vertices a segment.
func PolygonIntersectsBufferedPoint(polygon []mapstyle.Point, point mapstyle.Point, radius float64) bool {
	if polygonContainsPoint(polygon, point) {
		return true
	}
	return pointIntersectsBufferedLine(point, polygon, radius)
}

// PolygonIntersectsMultiPolygon reports whether polygon overlaps any part of
// a multipolygon given as rings under the even-odd rule.
func PolygonIntersectsMultiPolygon(polygon []mapstyle.Point, rings mapstyle.Geometry) bool {
	if len(polygon) == 1 {
		return multiPolygonContainsPoint(rings, polygon[0])
	}
	for _, ring := range rings {
		for _, p := range ring {
			if polygonContainsPoint(polygon, p) {
				return true
			}
		}
	}
	for _, p := range polygon {
		if multiPolygonContainsPoint(rings, p) {
			return true
		}
	}
	for _, ring := range rings {
		if lineIntersectsLine(polygon, ring) {
			return true
		}
	}
	return false
}

// PolygonIntersectsBufferedMultiLine reports whether polygon comes within
// radius of any of lines.
func PolygonIntersectsBufferedMultiLine(polygon []mapstyle.Point, lines mapstyle.Geometry, radius float64) bool {
	for _, line := range lines {
		if len(polygon) >= 3 {
			for _, p := range line {
				if polygonContainsPoint(polygon, p) {
					return true
				}
			}
		}
		if lineIntersectsBufferedLine(polygon, line, radius) {
			return true
		}
	}
	return false
}

// polygonContainsPoint is a ray-casting test. Points exactly on an edge may
// go either way; the buffered tests cover them.
func polygonContainsPoint(ring []mapstyle.Point, p mapstyle.Point) bool {
	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

func multiPolygonContainsPoint(rings mapstyle.Geometry, p mapstyle.Point) bool {
	inside := false
	for _, ring := range rings {
		if polygonContainsPoint(ring, p) {
			inside = !inside
		}
	}
	return inside
}

func pointIntersectsBufferedLine(p mapstyle.Point, line []mapstyle.Point, radius float64) bool {
	r2 := radius * radius
	switch len(line) {
	case 0:
		return false
	case 1:
		return p.DistSq(line[0]) < r2
	}
	for i := 1; i < len(line); i++ {
		if distToSegmentSquared(p, line[i-1], line[i]) < r2 {
			return true
		}
	}
	return false
}

func lineIntersectsBufferedLine(a, b []mapstyle.Point, radius float64) bool {
	if len(a) > 1 && len(b) > 1 && lineIntersectsLine(a, b) {
		return true
	}
	for _, p := range b {
		if pointIntersectsBufferedLine(p, a, radius) {
			return true
		}
	}
	for _, p := range a {
		if pointIntersectsBufferedLine(p, b, radius) {
			return true
		}
	}
	return false
}

func lineIntersectsLine(a, b []mapstyle.Point) bool {
	for i := 1; i < len(a); i++ {
		for j := 1; j < len(b); j++ {
			if segmentsIntersect(a[i-1], a[i], b[j-1], b[j]) {
				return true
			}
		}
	}
	return false
}

func segmentsIntersect(a0, a1, b0, b1 mapstyle.Point) bool {
	return isCounterClockwise(a0, b0, b1) != isCounterClockwise(a1, b0, b1) &&
		isCounterClockwise(a0, a1, b0) != isCounterClockwise(a0, a1, b1)
}

func isCounterClockwise(a, b, c mapstyle.Point) bool {
	return (c.Y-a.Y)*(b.X-a.X) > (b.Y-a.Y)*(c.X-a.X)
}

// distToSegmentSquared returns the squared distance from p to segment vw.
func distToSegmentSquared(p, v, w mapstyle.Point) float64 {
	l2 := v.DistSq(w)
	if l2 == 0 {
		return p.DistSq(v)
	}
	t := ((p.X-v.X)*(w.X-v.X) + (p.Y-v.Y)*(w.Y-v.Y)) / l2
	switch {
	case t < 0:
		return p.DistSq(v)
	case t > 1:
		return p.DistSq(w)
	}
	return p.DistSq(mapstyle.Pt(v.X+t*(w.X-v.X), v.Y+t*(w.Y-v.Y)))
}

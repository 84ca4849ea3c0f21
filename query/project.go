package query

import (
	"math"

	"github.com/gogpu/mapstyle"
)

// ProjectPoint transforms a tile-space point by m and divides by its w.
// ok is false when w <= 0; the returned point is then meaningless.
func ProjectPoint(p mapstyle.Point, m mapstyle.Mat4) (screen mapstyle.Point, w float64, ok bool) {
	pr := m.Project(p)
	return pr.Point, pr.W, pr.Valid()
}

// ProjectQueryGeometry projects every vertex of a query into screen space.
// ok is false if any vertex lies at or behind the camera plane, in which
// case the projected polygon is not usable.
func ProjectQueryGeometry(query []mapstyle.Point, m mapstyle.Mat4) ([]mapstyle.Point, bool) {
	out := make([]mapstyle.Point, len(query))
	for i, p := range query {
		pr := m.Project(p)
		if !pr.Valid() {
			return nil, false
		}
		out[i] = pr.Point
	}
	return out, true
}

// minLinearScale returns the smallest factor by which m stretches a
// tile-space distance after the perspective divide. ok is false when m is
// not affine in x and y (w varies across the tile) or collapses a direction.
func minLinearScale(m mapstyle.Mat4) (scale float64, ok bool) {
	w := m[15]
	if m[12] != 0 || m[13] != 0 || !(w > 0) || math.IsInf(w, 0) {
		return 0, false
	}
	a, b, c, d := m[0]/w, m[1]/w, m[4]/w, m[5]/w
	// The singular values s1 >= s2 of [[a b] [c d]] satisfy
	// s1+s2 = sqrt(p+2q) and s1-s2 = sqrt(p-2q).
	p := a*a + b*b + c*c + d*d
	q := math.Abs(a*d - b*c)
	scale = (math.Sqrt(p+2*q) - math.Sqrt(max(p-2*q, 0))) / 2
	if !(scale > 0) || math.IsInf(scale, 0) {
		return 0, false
	}
	return scale, true
}

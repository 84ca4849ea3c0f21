package mapstyle

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Mat4 is a 4x4 homogeneous transformation matrix in row-major order:
// m[4*r+c] is the element in row r and column c.
//
// It has the same memory layout as f64.Mat4. Transforming a tile-space point
// (x, y, 0, 1) by a pixel-position matrix yields clip-like coordinates whose
// fourth component w encodes camera-relative depth.
type Mat4 f64.Mat4

// Vec4 is a homogeneous 4-component vector (x, y, z, w).
type Vec4 f64.Vec4

// IdentityMat4 returns the identity matrix.
func IdentityMat4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4FromColumnMajor converts a column-major matrix, the layout used by
// WebGL-style renderers, into a Mat4.
func Mat4FromColumnMajor(m [16]float64) Mat4 {
	var out Mat4
	for r := range 4 {
		for c := range 4 {
			out[4*r+c] = m[4*c+r]
		}
	}
	return out
}

// TranslateMat4 creates a translation matrix.
func TranslateMat4(x, y, z float64) Mat4 {
	return Mat4{
		1, 0, 0, x,
		0, 1, 0, y,
		0, 0, 1, z,
		0, 0, 0, 1,
	}
}

// ScaleMat4 creates a scaling matrix.
func ScaleMat4(x, y, z float64) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// RotateXMat4 creates a rotation around the X axis (angle in radians).
// Tilting the map plane this way is how camera pitch enters a projection.
func RotateXMat4(angle float64) Mat4 {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, cos, -sin, 0,
		0, sin, cos, 0,
		0, 0, 0, 1,
	}
}

// Perspective creates an OpenGL-style perspective projection.
// fovy is the vertical field of view in radians. The resulting w component
// equals the distance in front of the eye.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovy/2)
	nf := 1 / (near - far)
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, 2 * far * near * nf,
		0, 0, -1, 0,
	}
}

// Mul multiplies two matrices (m * n). Applying the result to a vector is
// equivalent to applying n first, then m.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for r := range 4 {
		for c := range 4 {
			out[4*r+c] = m[4*r]*n[c] +
				m[4*r+1]*n[4+c] +
				m[4*r+2]*n[8+c] +
				m[4*r+3]*n[12+c]
		}
	}
	return out
}

// Transform applies the matrix to a homogeneous vector.
func (m Mat4) Transform(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3]*v[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7]*v[3],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11]*v[3],
		m[12]*v[0] + m[13]*v[1] + m[14]*v[2] + m[15]*v[3],
	}
}

// Depth returns the homogeneous divisor w of the tile-space point (x, y, 0, 1)
// transformed by m.
func (m Mat4) Depth(p Point) float64 {
	return m[12]*p.X + m[13]*p.Y + m[15]
}

// Projection is the result of transforming a tile-space point and dividing
// by its homogeneous w.
//
// A projection is valid only when W > 0. For points at or behind the camera
// plane (W <= 0) Point is left at the zero value and must not be used.
type Projection struct {
	Point Point
	W     float64
}

// Valid reports whether the perspective divide was performed, i.e. the point
// lies in front of the camera plane.
func (pr Projection) Valid() bool {
	return pr.W > 0 && !math.IsInf(pr.W, 0)
}

// Project transforms the tile-space point (x, y, 0, 1) by m and performs the
// perspective divide when w > 0.
func (m Mat4) Project(p Point) Projection {
	v := m.Transform(Vec4{p.X, p.Y, 0, 1})
	pr := Projection{W: v[3]}
	if !pr.Valid() {
		return pr
	}
	pr.Point = Point{X: v[0] / v[3], Y: v[1] / v[3]}
	return pr
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Mat4) IsIdentity() bool {
	return m == IdentityMat4()
}

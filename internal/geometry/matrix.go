package geometry

import "math"

// Matrix2D is a 2D affine transform in canvas order [a b c d e f]:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
//
// It marshals to JSON as a six element array, the argument order of
// CanvasRenderingContext2D.setTransform.
type Matrix2D [6]float64

// Identity leaves every point where it is.
func Identity() Matrix2D {
	return Matrix2D{1, 0, 0, 1, 0, 0}
}

// Translate moves points by (tx, ty).
func Translate(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, 0, 1, tx, ty}
}

// Scale stretches about the origin by sx horizontally and sy vertically.
func Scale(sx, sy float64) Matrix2D {
	return Matrix2D{sx, 0, 0, sy, 0, 0}
}

// Rotate turns clockwise on a y-down canvas.
func Rotate(radians float64) Matrix2D {
	sin, cos := math.Sincos(radians)
	return Matrix2D{cos, sin, -sin, cos, 0, 0}
}

// CenterTransform is T(center)·R(radians)·S(scale): content drawn around its
// own origin is scaled, rotated, then moved to center.
func CenterTransform(center Point, scale, radians float64) Matrix2D {
	sin, cos := math.Sincos(radians)
	return Matrix2D{cos * scale, sin * scale, -sin * scale, cos * scale, center.X, center.Y}
}

// Multiply returns m·n, so n applies first.
func (m Matrix2D) Multiply(n Matrix2D) Matrix2D {
	return Matrix2D{
		m[0]*n[0] + m[2]*n[1],
		m[1]*n[0] + m[3]*n[1],
		m[0]*n[2] + m[2]*n[3],
		m[1]*n[2] + m[3]*n[3],
		m[0]*n[4] + m[2]*n[5] + m[4],
		m[1]*n[4] + m[3]*n[5] + m[5],
	}
}

// TransformPoint maps p through m.
func (m Matrix2D) TransformPoint(p Point) Point {
	return Point{X: m[0]*p.X + m[2]*p.Y + m[4], Y: m[1]*p.X + m[3]*p.Y + m[5]}
}

// TransformRect returns the axis-aligned bounds of r after m.
func (m Matrix2D) TransformRect(r Rect) Rect {
	corners := [4]Point{
		m.TransformPoint(Point{X: r.X, Y: r.Y}),
		m.TransformPoint(Point{X: r.X + r.Width, Y: r.Y}),
		m.TransformPoint(Point{X: r.X + r.Width, Y: r.Y + r.Height}),
		m.TransformPoint(Point{X: r.X, Y: r.Y + r.Height}),
	}
	lo, hi := corners[0], corners[0]
	for _, c := range corners[1:] {
		lo = Point{X: min(lo.X, c.X), Y: min(lo.Y, c.Y)}
		hi = Point{X: max(hi.X, c.X), Y: max(hi.Y, c.Y)}
	}
	return Rect{X: lo.X, Y: lo.Y, Width: hi.X - lo.X, Height: hi.Y - lo.Y}
}

// Inverse returns the inverse of m. ok is false when m is singular, which
// happens for a zero scale.
func (m Matrix2D) Inverse() (inv Matrix2D, ok bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Identity(), false
	}
	k := 1 / det
	return Matrix2D{
		m[3] * k,
		-m[1] * k,
		-m[2] * k,
		m[0] * k,
		(m[2]*m[5] - m[3]*m[4]) * k,
		(m[1]*m[4] - m[0]*m[5]) * k,
	}, true
}

// ApproxEqual compares element-wise within eps.
func (m Matrix2D) ApproxEqual(n Matrix2D, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-n[i]) > eps {
			return false
		}
	}
	return true
}

// Slice returns the six elements in setTransform order as a fresh slice.
func (m Matrix2D) Slice() []float64 {
	return m[:]
}

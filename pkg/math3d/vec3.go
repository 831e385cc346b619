// Package math3d provides the vector and matrix primitives shared by the
// curve core, the loaders and the renderer.
package math3d

import (
	"fmt"
	"math"
)

// Vec3 represents a 3D vector or a Euclidean point.
type Vec3 struct {
	X, Y, Z float64
}

// V3 creates a new Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Zero3 returns the zero vector.
func Zero3() Vec3 {
	return Vec3{}
}

// Up returns the world up vector (0, 1, 0).
func Up() Vec3 {
	return Vec3{0, 1, 0}
}

// Add returns the vector sum a + b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns the vector difference a - b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Scale returns the scalar product a * s.
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

// Dot returns the dot product a · b.
func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Len returns the length (magnitude) of the vector.
func (a Vec3) Len() float64 {
	return math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
}

// Normalize returns the unit vector in the same direction.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{a.X / l, a.Y / l, a.Z / l}
}

// Negate returns the negated vector.
func (a Vec3) Negate() Vec3 {
	return Vec3{-a.X, -a.Y, -a.Z}
}

// Lerp returns the linear interpolation between a and b by t.
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// Distance returns the distance between two points.
func (a Vec3) Distance(b Vec3) float64 {
	return a.Sub(b).Len()
}

// ApproxEqual reports whether every component of a and b differs by at most eps.
func (a Vec3) ApproxEqual(b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps &&
		math.Abs(a.Y-b.Y) <= eps &&
		math.Abs(a.Z-b.Z) <= eps
}

// Transform treats a as a point and applies the affine part of m.
// It satisfies Transformable[Vec3].
func (a Vec3) Transform(m Mat4) Vec3 {
	return m.MulPoint(a)
}

// Min returns the component-wise minimum.
func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{
		math.Min(a.X, b.X),
		math.Min(a.Y, b.Y),
		math.Min(a.Z, b.Z),
	}
}

// Max returns the component-wise maximum.
func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{
		math.Max(a.X, b.X),
		math.Max(a.Y, b.Y),
		math.Max(a.Z, b.Z),
	}
}

// IsFinite reports whether no component is NaN or infinite.
func (a Vec3) IsFinite() bool {
	return !math.IsNaN(a.X) && !math.IsInf(a.X, 0) &&
		!math.IsNaN(a.Y) && !math.IsInf(a.Y, 0) &&
		!math.IsNaN(a.Z) && !math.IsInf(a.Z, 0)
}

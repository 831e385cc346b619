package nurbs

import (
	"fmt"
	"math"

	"github.com/taigrr/nurbs/pkg/math3d"
)

// Point4 is a weighted control point. X, Y and Z are the Euclidean
// coordinates, not premultiplied by the weight; W is the weight.
//
// A weight of 0 denotes a point at infinity. It is accepted but degenerate.
type Point4 struct {
	X, Y, Z, W float64
}

// NewPoint4 returns p with weight 1.
func NewPoint4(p math3d.Vec3) Point4 {
	return Point4{p.X, p.Y, p.Z, 1}
}

// NewWeightedPoint4 returns p with weight w.
func NewWeightedPoint4(p math3d.Vec3, w float64) Point4 {
	return Point4{p.X, p.Y, p.Z, w}
}

// FromHomogeneous converts homogeneous coordinates (x·w, y·w, z·w, w) back
// to a Point4. When w is 0 the direction (x, y, z) is kept as is.
func FromHomogeneous(h math3d.Vec4) Point4 {
	p := h.PerspectiveDivide()
	return Point4{p.X, p.Y, p.Z, h.W}
}

// Point returns the Euclidean component.
func (p Point4) Point() math3d.Vec3 {
	return math3d.V3(p.X, p.Y, p.Z)
}

// Weight returns the weight.
func (p Point4) Weight() float64 {
	return p.W
}

// Homogeneous returns (x·w, y·w, z·w, w), the form rational evaluation works in.
func (p Point4) Homogeneous() math3d.Vec4 {
	return math3d.Homogenize(p.Point(), p.W)
}

// Transform applies the affine part of m to the Euclidean component and
// keeps the weight. It satisfies math3d.Transformable[Point4].
func (p Point4) Transform(m math3d.Mat4) Point4 {
	return NewWeightedPoint4(m.MulPoint(p.Point()), p.W)
}

// ApproxEqual reports whether all four components differ by at most eps.
func (p Point4) ApproxEqual(o Point4, eps float64) bool {
	return p.Point().ApproxEqual(o.Point(), eps) && math.Abs(p.W-o.W) <= eps
}

func (p Point4) String() string {
	return fmt.Sprintf("(%g, %g, %g; w=%g)", p.X, p.Y, p.Z, p.W)
}

// checkPoint validates a single control point.
func checkPoint(i int, p Point4) error {
	switch {
	case math.IsNaN(p.W) || math.IsInf(p.W, 0):
		return fmt.Errorf("%w: weight %d is not finite (%g)", ErrInvalidControlPointData, i, p.W)
	case p.W < 0:
		return fmt.Errorf("%w: weight %d is negative (%g)", ErrInvalidControlPointData, i, p.W)
	case !p.Point().IsFinite():
		return fmt.Errorf("%w: point %d has a non-finite coordinate %v", ErrInvalidControlPointData, i, p.Point())
	}
	return nil
}

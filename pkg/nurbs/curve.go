package nurbs

import (
	"fmt"

	"github.com/taigrr/nurbs/pkg/math3d"
)

// Curve is an immutable NURBS curve.
//
// Use NewCurve, NewCurveFromPoints or NewCurveFromWeightedPoints to build
// one; the zero value is not a valid curve.
type Curve struct {
	degree int
	knots  KnotVector
	points []Point4
}

var _ math3d.Transformable[*Curve] = (*Curve)(nil)

// NewCurve builds a curve from its canonical definition. knots must have
// len(points)+degree+1 values and every weight must be non-negative.
// The inputs are copied.
func NewCurve(degree int, knots KnotVector, points []Point4) (*Curve, error) {
	if err := checkCardinality(degree, len(points)); err != nil {
		return nil, err
	}
	for i, p := range points {
		if err := checkPoint(i, p); err != nil {
			return nil, err
		}
	}
	if err := knots.Validate(degree, len(points)); err != nil {
		return nil, err
	}

	return &Curve{
		degree: degree,
		knots:  knots.Clone(),
		points: append([]Point4(nil), points...),
	}, nil
}

// NewCurveFromPoints builds a curve of the given degree through a clamped
// uniform knot vector, with every control point weighted 1.
func NewCurveFromPoints(points []math3d.Vec3, degree int) (*Curve, error) {
	knots, err := NewKnotVector(degree, len(points))
	if err != nil {
		return nil, err
	}

	cps := make([]Point4, len(points))
	for i, p := range points {
		cps[i] = NewPoint4(p)
	}
	return NewCurve(degree, knots, cps)
}

// NewCurveFromWeightedPoints is like NewCurveFromPoints but takes the weight
// of points[i] from weights[i]. Both slices must have the same length.
func NewCurveFromWeightedPoints(points []math3d.Vec3, weights []float64, degree int) (*Curve, error) {
	if len(weights) != len(points) {
		return nil, fmt.Errorf("%w: %d points but %d weights", ErrInvalidControlPointData, len(points), len(weights))
	}
	knots, err := NewKnotVector(degree, len(points))
	if err != nil {
		return nil, err
	}

	cps := make([]Point4, len(points))
	for i, p := range points {
		cps[i] = NewWeightedPoint4(p, weights[i])
	}
	return NewCurve(degree, knots, cps)
}

// Degree returns the polynomial degree.
func (c *Curve) Degree() int {
	return c.degree
}

// Knots returns a copy of the knot vector.
func (c *Curve) Knots() KnotVector {
	return c.knots.Clone()
}

// ControlPoints returns a copy of the weighted control points in order.
func (c *Curve) ControlPoints() []Point4 {
	return append([]Point4(nil), c.points...)
}

// Points returns the Euclidean control points in order.
func (c *Curve) Points() []math3d.Vec3 {
	pts := make([]math3d.Vec3, len(c.points))
	for i, p := range c.points {
		pts[i] = p.Point()
	}
	return pts
}

// Weights returns the control point weights in order.
func (c *Curve) Weights() []float64 {
	w := make([]float64, len(c.points))
	for i, p := range c.points {
		w[i] = p.W
	}
	return w
}

// Len returns the number of control points.
func (c *Curve) Len() int {
	return len(c.points)
}

// Domain returns the parameter interval the curve is defined on,
// knots[degree] to knots[len(points)].
func (c *Curve) Domain() (start, end float64) {
	return c.knots[c.degree], c.knots[len(c.points)]
}

// IsRational reports whether the weights differ, i.e. whether the curve is
// not an ordinary polynomial B-spline.
func (c *Curve) IsRational() bool {
	for _, p := range c.points[1:] {
		if p.W != c.points[0].W {
			return true
		}
	}
	return false
}

// Transform returns a new curve whose control points are the affine part of
// m applied to the control points of c, in the same order. Degree, knots and
// weights are unchanged, and c stays valid.
//
// Transform never fails and does not re-check coordinates: a matrix that
// overflows yields non-finite control points, which NewCurve would reject.
func (c *Curve) Transform(m math3d.Mat4) *Curve {
	pts := make([]Point4, len(c.points))
	for i, p := range c.points {
		pts[i] = p.Transform(m)
	}
	// Knots are never mutated, so the new curve can share them.
	return &Curve{degree: c.degree, knots: c.knots, points: pts}
}

// Reverse returns the same geometry traversed in the opposite direction.
func (c *Curve) Reverse() *Curve {
	pts := make([]Point4, len(c.points))
	for i, p := range c.points {
		pts[len(pts)-1-i] = p
	}
	return &Curve{degree: c.degree, knots: c.knots.Reverse(), points: pts}
}

// ApproxEqual reports whether c and o have the same degree and knots and
// their control points agree within eps.
func (c *Curve) ApproxEqual(o *Curve, eps float64) bool {
	if c.degree != o.degree || !c.knots.Equal(o.knots) || len(c.points) != len(o.points) {
		return false
	}
	for i := range c.points {
		if !c.points[i].ApproxEqual(o.points[i], eps) {
			return false
		}
	}
	return true
}

func (c *Curve) String() string {
	return fmt.Sprintf("NURBS(degree=%d, points=%d, knots=%v)", c.degree, len(c.points), []float64(c.knots))
}

package nurbs

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/nurbs/pkg/math3d"
)

// BasisFunctions returns the degree+1 non-vanishing B-spline basis functions
// at u in the given knot span (algorithm A2.2 of Piegl & Tiller).
func BasisFunctions(span int, u float64, degree int, knots KnotVector) []float64 {
	n := make([]float64, degree+1)
	left := make([]float64, degree+1)
	right := make([]float64, degree+1)

	n[0] = 1
	for j := 1; j <= degree; j++ {
		left[j] = u - knots[span+1-j]
		right[j] = knots[span+j] - u
		saved := 0.0
		for r := range j {
			var temp float64
			if d := right[r+1] + left[j-r]; d != 0 {
				temp = n[r] / d
			}
			n[r] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		n[j] = saved
	}
	return n
}

// PointAt evaluates the curve at parameter u. Values outside the domain are
// clamped to it.
func (c *Curve) PointAt(u float64) math3d.Vec3 {
	start, end := c.Domain()
	u = max(start, min(end, u))

	span := c.knots.Span(c.degree, u)
	basis := BasisFunctions(span, u, c.degree, c.knots)

	var h math3d.Vec4
	for j, b := range basis {
		h = h.Add(c.points[span-c.degree+j].Homogeneous().Scale(b))
	}
	return h.PerspectiveDivide()
}

// Tessellate samples the curve at evenly spaced parameters, both ends of the
// domain included. Fewer than two samples are treated as two.
func (c *Curve) Tessellate(samples int) []math3d.Vec3 {
	samples = max(samples, 2)
	start, end := c.Domain()

	pts := make([]math3d.Vec3, samples)
	for i := range pts {
		t := float64(i) / float64(samples-1)
		pts[i] = c.PointAt(start + (end-start)*t)
	}
	return pts
}

// ControlBounds returns the axis-aligned box around the control points.
// By the convex hull property it also bounds the curve when all weights are
// positive.
func (c *Curve) ControlBounds() (lo, hi math3d.Vec3) {
	lo = c.points[0].Point()
	hi = lo
	for _, p := range c.points[1:] {
		lo = lo.Min(p.Point())
		hi = hi.Max(p.Point())
	}
	return lo, hi
}

// TessellateAll tessellates several curves concurrently. The result is in
// the order of curves. It stops early and returns ctx.Err() if ctx is
// cancelled.
func TessellateAll(ctx context.Context, curves []*Curve, samples int) ([][]math3d.Vec3, error) {
	out := make([][]math3d.Vec3, len(curves))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, c := range curves {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = c.Tessellate(samples)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

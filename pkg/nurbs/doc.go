// Package nurbs implements non-uniform rational B-spline curves.
//
// A [Curve] is the triple (degree, [KnotVector], control points), where each
// control point is a [Point4]: a Euclidean point plus a weight. The triple is
// validated once, at construction, and never changes afterwards:
//
//	len(knots) == len(points) + degree + 1
//	degree >= 1
//	every weight >= 0
//
// Three constructors cover the usual inputs. [NewCurve] takes the canonical
// triple as-is. [NewCurveFromPoints] and [NewCurveFromWeightedPoints] build a
// clamped uniform knot vector over [0,1] for the given degree and point count.
//
// Operations that change geometry, such as [Curve.Transform], return a new
// curve. Values are safe to share between goroutines without locking.
//
// Transform applies only the affine part of a matrix to the Euclidean
// component of every control point and keeps the weights. Projective
// matrices are not supported.
package nurbs

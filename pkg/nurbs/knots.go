package nurbs

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used when comparing knot values.
const Epsilon = 1e-10

// KnotVector is a non-decreasing sequence of parameter values in [0,1].
//
// A curve's knot vector has len(points)+degree+1 entries. Curves hand out
// copies, so a KnotVector obtained from a Curve may be modified freely.
type KnotVector []float64

// KnotMultiplicity is a distinct knot value and the number of times it repeats.
type KnotMultiplicity struct {
	Knot float64
	Mult int
}

// NewKnotVector returns the clamped uniform knot vector for a curve of the
// given degree with count control points.
//
// The first and last degree+1 knots are 0 and 1. The count-degree-1 interior
// knots are i/(count-degree) for i = 1..count-degree-1. For 4 points of
// degree 3 that is [0 0 0 0 1 1 1 1]; for 5 points of degree 2 it is
// [0 0 0 1/3 2/3 1 1 1].
func NewKnotVector(degree, count int) (KnotVector, error) {
	if err := checkCardinality(degree, count); err != nil {
		return nil, err
	}

	knots := make(KnotVector, count+degree+1)
	spans := float64(count - degree)
	for i := 1; i < count-degree; i++ {
		knots[degree+i] = float64(i) / spans
	}
	for i := count; i < len(knots); i++ {
		knots[i] = 1
	}
	return knots, nil
}

// checkCardinality verifies that degree and count can form a curve at all.
func checkCardinality(degree, count int) error {
	if degree < 1 {
		return fmt.Errorf("%w: degree must be at least 1, got %d", ErrInvalidCurveDefinition, degree)
	}
	if count <= degree {
		return fmt.Errorf("%w: %w: degree %d needs at least %d control points, got %d",
			ErrInvalidCurveDefinition, ErrInsufficientControlPoints, degree, degree+1, count)
	}
	return nil
}

// Validate checks k against a curve of the given degree with count control
// points: the length must be count+degree+1 and the values non-decreasing,
// finite and within [0,1]. Clamping is not required.
func (k KnotVector) Validate(degree, count int) error {
	if err := checkCardinality(degree, count); err != nil {
		return err
	}
	if want := count + degree + 1; len(k) != want {
		return fmt.Errorf("%w: knot vector has %d values, want %d (points %d + degree %d + 1)",
			ErrInvalidCurveDefinition, len(k), want, count, degree)
	}

	for i, v := range k {
		switch {
		case math.IsNaN(v):
			return knotError("knot %d is NaN", i)
		case v < 0:
			return knotError("knot %d is negative (%g)", i, v)
		case v > 1:
			return knotError("knot %d is %g, outside the normalized domain [0,1]", i, v)
		case i > 0 && v < k[i-1]:
			return knotError("knot %d (%g) is less than knot %d (%g), knots must be non-decreasing", i, v, i-1, k[i-1])
		}
	}
	return nil
}

func knotError(format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s", ErrInvalidCurveDefinition, ErrInvalidKnotVector, fmt.Sprintf(format, args...))
}

// Clone returns a copy of k.
func (k KnotVector) Clone() KnotVector {
	return append(KnotVector(nil), k...)
}

// Equal reports whether k and o hold exactly the same values.
func (k KnotVector) Equal(o KnotVector) bool {
	if len(k) != len(o) {
		return false
	}
	for i := range k {
		if k[i] != o[i] {
			return false
		}
	}
	return true
}

// Domain returns the first and last knot.
func (k KnotVector) Domain() (start, end float64) {
	if len(k) == 0 {
		return 0, 0
	}
	return k[0], k[len(k)-1]
}

// IsClamped reports whether the first and last degree+1 knots are equal,
// which makes a curve interpolate its end control points.
func (k KnotVector) IsClamped(degree int) bool {
	if degree < 0 || len(k) < 2*(degree+1) {
		return false
	}
	first, last := k[0], k[len(k)-1]
	for i := 0; i <= degree; i++ {
		if math.Abs(k[i]-first) > Epsilon || math.Abs(k[len(k)-1-i]-last) > Epsilon {
			return false
		}
	}
	return true
}

// Multiplicities groups equal knots (within Epsilon) in order.
func (k KnotVector) Multiplicities() []KnotMultiplicity {
	if len(k) == 0 {
		return nil
	}

	mults := []KnotMultiplicity{{Knot: k[0]}}
	cur := 0
	for _, knot := range k {
		if math.Abs(knot-mults[cur].Knot) > Epsilon {
			mults = append(mults, KnotMultiplicity{Knot: knot})
			cur++
		}
		mults[cur].Mult++
	}
	return mults
}

// Span returns the index of the knot span containing u for a curve of the
// given degree (algorithm A2.1 of Piegl & Tiller, The NURBS Book).
// Parameters outside the curve domain are clamped to the first or last span.
func (k KnotVector) Span(degree int, u float64) int {
	n := len(k) - degree - 2

	if u >= k[n+1] {
		return n
	}
	if u <= k[degree] {
		return degree
	}

	low, high := degree, n+1
	mid := (low + high) / 2
	for u < k[mid] || u >= k[mid+1] {
		if u < k[mid] {
			high = mid
		} else {
			low = mid
		}
		mid = (low + high) / 2
	}
	return mid
}

// Normalize maps k linearly onto [0,1]. Use it to bring knots expressed in
// another parameter range into the domain curves accept. A vector whose
// first and last values are equal is returned unchanged.
func (k KnotVector) Normalize() KnotVector {
	out := k.Clone()
	start, end := k.Domain()
	span := end - start
	if span == 0 {
		return out
	}
	for i := range out {
		out[i] = (out[i] - start) / span
	}
	// Pin the ends so rounding never leaves them off the domain.
	out[0], out[len(out)-1] = 0, 1
	return out
}

// Reverse returns the knot vector of the reversed parameterization:
// each knot u becomes start+end-u, in reverse order.
func (k KnotVector) Reverse() KnotVector {
	out := make(KnotVector, len(k))
	start, end := k.Domain()
	for i, v := range k {
		out[len(k)-1-i] = start + end - v
	}
	return out
}

package nurbs

import "errors"

// Construction errors. Every constructor returns one of these, possibly
// wrapped with the rule that failed; test for them with errors.Is.
//
// ErrInsufficientControlPoints and ErrInvalidKnotVector are refinements of
// ErrInvalidCurveDefinition: an error carrying either also matches it.
var (
	// ErrInvalidCurveDefinition reports a degree or cardinality problem, such as
	// a knot vector whose length is not len(points)+degree+1.
	ErrInvalidCurveDefinition = errors.New("invalid curve definition")

	// ErrInvalidKnotVector reports knots that decrease, are negative, or fall
	// outside the normalized [0,1] domain.
	ErrInvalidKnotVector = errors.New("invalid knot vector")

	// ErrInvalidControlPointData reports a negative or non-finite weight,
	// a non-finite coordinate, or points and weights of different lengths.
	ErrInvalidControlPointData = errors.New("invalid control point data")

	// ErrInsufficientControlPoints reports fewer than degree+1 control points.
	ErrInsufficientControlPoints = errors.New("insufficient control points")
)

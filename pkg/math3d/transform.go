package math3d

// Transformable is implemented by geometry that can be moved by a matrix
// without being mutated. Transform returns a new value of the same type.
//
// Implementations apply only the affine part of the matrix; callers holding
// a projective matrix (see Mat4.IsAffine) must handle it themselves.
type Transformable[T any] interface {
	Transform(m Mat4) T
}

// TransformAll transforms every item by m and returns the results in order.
func TransformAll[T Transformable[T]](items []T, m Mat4) []T {
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.Transform(m)
	}
	return out
}

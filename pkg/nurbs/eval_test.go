package nurbs

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taigrr/nurbs/pkg/math3d"
)

// quarterCircle is the exact rational quadratic arc from (1,0) to (0,1).
func quarterCircle(t *testing.T) *Curve {
	t.Helper()
	c, err := NewCurveFromWeightedPoints(
		[]math3d.Vec3{math3d.V3(1, 0, 0), math3d.V3(1, 1, 0), math3d.V3(0, 1, 0)},
		[]float64{1, math.Sqrt2 / 2, 1},
		2,
	)
	require.NoError(t, err)
	return c
}

func TestBasisFunctionsPartitionOfUnity(t *testing.T) {
	k, err := NewKnotVector(3, 9)
	require.NoError(t, err)

	for _, u := range []float64{0, 0.01, 0.2, 1.0 / 6, 0.5, 0.77, 0.999, 1} {
		span := k.Span(3, u)
		sum := 0.0
		for _, b := range BasisFunctions(span, u, 3, k) {
			if b < -tol {
				t.Errorf("u=%v: negative basis value %v", u, b)
			}
			sum += b
		}
		if math.Abs(sum-1) > tol {
			t.Errorf("u=%v: basis sum = %v, want 1", u, sum)
		}
	}
}

func TestPointAtLinear(t *testing.T) {
	c := must(t)(NewCurveFromPoints([]math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(1, 0, 0),
		math3d.V3(1, 1, 0),
	}, 1))

	tests := []struct {
		u    float64
		want math3d.Vec3
	}{
		{0, math3d.V3(0, 0, 0)},
		{0.25, math3d.V3(0.5, 0, 0)},
		{0.5, math3d.V3(1, 0, 0)},
		{0.75, math3d.V3(1, 0.5, 0)},
		{1, math3d.V3(1, 1, 0)},
		{-3, math3d.V3(0, 0, 0)},
		{4, math3d.V3(1, 1, 0)},
	}
	for _, tc := range tests {
		if got := c.PointAt(tc.u); !got.ApproxEqual(tc.want, tol) {
			t.Errorf("PointAt(%v) = %v, want %v", tc.u, got, tc.want)
		}
	}
}

func TestPointAtQuarterCircle(t *testing.T) {
	c := quarterCircle(t)

	for i := 0; i <= 20; i++ {
		u := float64(i) / 20
		p := c.PointAt(u)
		if r := p.Len(); math.Abs(r-1) > 1e-12 {
			t.Errorf("PointAt(%v) = %v has radius %v, want 1", u, p, r)
		}
	}

	mid := c.PointAt(0.5)
	want := math3d.V3(math.Sqrt2/2, math.Sqrt2/2, 0)
	if !mid.ApproxEqual(want, 1e-12) {
		t.Errorf("PointAt(0.5) = %v, want %v", mid, want)
	}
}

func TestPointAtClampedEndsInterpolate(t *testing.T) {
	pts := samplePoints(7)
	c := must(t)(NewCurveFromWeightedPoints(pts, []float64{2, 1, 1, 3, 1, 1, 0.5}, 3))

	if got := c.PointAt(0); !got.ApproxEqual(pts[0], tol) {
		t.Errorf("start = %v, want %v", got, pts[0])
	}
	if got := c.PointAt(1); !got.ApproxEqual(pts[6], tol) {
		t.Errorf("end = %v, want %v", got, pts[6])
	}
}

func TestPointAtAffineInvariance(t *testing.T) {
	c := quarterCircle(t)
	m := math3d.Translate(math3d.V3(3, -1, 2)).Mul(math3d.RotateX(0.4)).Mul(math3d.Scale(math3d.V3(2, 1, 0.5)))
	moved := c.Transform(m)

	for _, u := range []float64{0, 0.2, 0.5, 0.9, 1} {
		want := m.MulPoint(c.PointAt(u))
		if got := moved.PointAt(u); !got.ApproxEqual(want, tol) {
			t.Errorf("u=%v: transformed PointAt = %v, want %v", u, got, want)
		}
	}
}

func TestTessellate(t *testing.T) {
	c := quarterCircle(t)

	pts := c.Tessellate(5)
	if len(pts) != 5 {
		t.Fatalf("len = %d, want 5", len(pts))
	}
	if !pts[0].ApproxEqual(math3d.V3(1, 0, 0), tol) || !pts[4].ApproxEqual(math3d.V3(0, 1, 0), tol) {
		t.Errorf("tessellation ends = %v, %v", pts[0], pts[4])
	}
	if got := len(c.Tessellate(0)); got != 2 {
		t.Errorf("Tessellate(0) returned %d points, want 2", got)
	}
}

func TestControlBounds(t *testing.T) {
	c := quarterCircle(t)
	lo, hi := c.ControlBounds()
	if lo != math3d.V3(0, 0, 0) || hi != math3d.V3(1, 1, 0) {
		t.Errorf("ControlBounds = %v, %v", lo, hi)
	}

	for _, p := range c.Tessellate(32) {
		if p.X < lo.X-tol || p.Y < lo.Y-tol || p.X > hi.X+tol || p.Y > hi.Y+tol {
			t.Errorf("curve point %v outside control bounds", p)
		}
	}
}

func TestTessellateAll(t *testing.T) {
	curves := []*Curve{
		quarterCircle(t),
		must(t)(NewCurveFromPoints(samplePoints(4), 3)),
		must(t)(NewCurveFromPoints(samplePoints(9), 2)),
	}

	got, err := TessellateAll(context.Background(), curves, 16)
	require.NoError(t, err)
	require.Len(t, got, len(curves))
	for i, c := range curves {
		want := c.Tessellate(16)
		for j := range want {
			if !got[i][j].ApproxEqual(want[j], 0) {
				t.Fatalf("curve %d sample %d = %v, want %v", i, j, got[i][j], want[j])
			}
		}
	}
}

func TestTessellateAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := TessellateAll(ctx, []*Curve{quarterCircle(t)}, 8)
	require.ErrorIs(t, err, context.Canceled)
}

func BenchmarkPointAt(b *testing.B) {
	pts := samplePoints(32)
	c, err := NewCurveFromPoints(pts, 3)
	if err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		_ = c.PointAt(0.37)
	}
}

func BenchmarkTransform(b *testing.B) {
	c, err := NewCurveFromPoints(samplePoints(64), 3)
	if err != nil {
		b.Fatal(err)
	}
	m := math3d.Translate(math3d.V3(1, 2, 3)).Mul(math3d.RotateY(0.5))

	for b.Loop() {
		_ = c.Transform(m)
	}
}

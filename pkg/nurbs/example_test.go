package nurbs_test

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/nurbs/pkg/math3d"
	"github.com/taigrr/nurbs/pkg/nurbs"
)

func ExampleNewCurveFromPoints() {
	c, err := nurbs.NewCurveFromPoints([]math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(1, 2, 0),
		math3d.V3(3, 2, 0),
		math3d.V3(4, 0, 0),
	}, 3)
	if err != nil {
		panic(err)
	}
	fmt.Println(c.Knots())
	// Output: [0 0 0 0 1 1 1 1]
}

func ExampleNewCurveFromWeightedPoints() {
	arc, err := nurbs.NewCurveFromWeightedPoints(
		[]math3d.Vec3{math3d.V3(1, 0, 0), math3d.V3(1, 1, 0), math3d.V3(0, 1, 0)},
		[]float64{1, math.Sqrt2 / 2, 1},
		2,
	)
	if err != nil {
		panic(err)
	}
	p := arc.PointAt(0.5)
	fmt.Printf("%.4f %.4f\n", p.X, p.Y)
	// Output: 0.7071 0.7071
}

func ExampleCurve_Transform() {
	c, err := nurbs.NewCurveFromPoints([]math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(1, 0, 0),
	}, 1)
	if err != nil {
		panic(err)
	}
	moved := c.Transform(math3d.Translate(math3d.V3(0, 5, 0)))
	fmt.Println(moved.ControlPoints())
	fmt.Println(c.ControlPoints())
	// Output:
	// [(0, 5, 0; w=1) (1, 5, 0; w=1)]
	// [(0, 0, 0; w=1) (1, 0, 0; w=1)]
}

func ExampleNewCurve_errors() {
	_, err := nurbs.NewCurveFromPoints([]math3d.Vec3{math3d.V3(0, 0, 0)}, 2)
	fmt.Println(errors.Is(err, nurbs.ErrInsufficientControlPoints))
	fmt.Println(errors.Is(err, nurbs.ErrInvalidCurveDefinition))
	// Output:
	// true
	// true
}

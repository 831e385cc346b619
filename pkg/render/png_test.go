package render

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taigrr/nurbs/pkg/math3d"
	"github.com/taigrr/nurbs/pkg/nurbs"
)

func testArc(t *testing.T) *nurbs.Curve {
	t.Helper()
	c, err := nurbs.NewCurveFromWeightedPoints(
		[]math3d.Vec3{math3d.V3(1, 0, 0), math3d.V3(1, 1, 0), math3d.V3(0, 1, 0)},
		[]float64{1, math.Sqrt2 / 2, 1},
		2,
	)
	require.NoError(t, err)
	return c
}

func plotOptions() PlotOptions {
	opts := DefaultPlotOptions()
	opts.Width, opts.Height = 200, 150
	return opts
}

func TestPlotEmpty(t *testing.T) {
	img := Plot(plotOptions())
	require.Equal(t, image.Rect(0, 0, 200, 150), img.Bounds())
	require.Equal(t, ColorBackground, img.RGBAAt(100, 75))
}

func TestPlotDrawsCurve(t *testing.T) {
	opts := plotOptions()
	opts.Control = nil
	img := Plot(opts, testArc(t))

	// Bounds [0,1]x[0,1] fit to 102px around the center (100, 75).
	// The arc midpoint (0.7071, 0.7071) lands near (121, 54).
	if got := img.RGBAAt(121, 54); got == ColorBackground {
		t.Errorf("arc midpoint pixel is background")
	}
	if got := img.RGBAAt(0, 0); got != ColorBackground {
		t.Errorf("corner = %v, want background", got)
	}
	// The control point (1, 1) is off the curve and hidden.
	if got := img.RGBAAt(151, 24); got != ColorBackground {
		t.Errorf("hidden control point pixel = %v, want background", got)
	}
}

func TestPlotControlPolygon(t *testing.T) {
	img := Plot(plotOptions(), testArc(t))
	if got := img.RGBAAt(151, 24); got == ColorBackground {
		t.Error("control point marker not drawn")
	}
}

func TestPlotView(t *testing.T) {
	// Viewing from +X folds the arc onto the Y axis.
	opts := plotOptions()
	opts.Control = nil
	opts.View = math3d.RotateY(-math.Pi / 2)
	img := Plot(opts, testArc(t))
	if got := img.RGBAAt(100, 75); got == ColorBackground {
		t.Error("edge-on arc should cross the image center")
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, Plot(plotOptions(), testArc(t))))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 200, 150), img.Bounds())
}

package main

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/nurbs/pkg/math3d"
	"github.com/taigrr/nurbs/pkg/models"
	"github.com/taigrr/nurbs/pkg/nurbs"
	"github.com/taigrr/nurbs/pkg/render"
)

const arcYAML = `name: arc
degree: 2
points: [[1, 0, 0], [1, 1, 0], [0, 1, 0]]
weights: [1, 0.7071067811865476, 1]
`

func writeArc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(arcYAML), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(io.Discard)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTransformFlagsMatrix(t *testing.T) {
	tests := []struct {
		name  string
		flags transformFlags
		in    math3d.Vec3
		want  math3d.Vec3
	}{
		{"identity", transformFlags{}, math3d.V3(1, 2, 3), math3d.V3(1, 2, 3)},
		{"uniform scale", transformFlags{scale: []float64{2}}, math3d.V3(1, 2, 3), math3d.V3(2, 4, 6)},
		{"axis scale", transformFlags{scale: []float64{1, 2, 3}}, math3d.V3(1, 1, 1), math3d.V3(1, 2, 3)},
		{"rotate z", transformFlags{rotate: []float64{0, 0, 90}}, math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)},
		{"scale then translate", transformFlags{scale: []float64{2}, translate: []float64{1, 0, 0}}, math3d.V3(1, 0, 0), math3d.V3(3, 0, 0)},
		{"rotate then translate", transformFlags{rotate: []float64{0, 0, 90}, translate: []float64{0, 0, 5}}, math3d.V3(1, 0, 0), math3d.V3(0, 1, 5)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := tc.flags.matrix()
			require.NoError(t, err)
			got := m.MulPoint(tc.in)
			if !got.ApproxEqual(tc.want, 1e-12) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTransformFlagsErrors(t *testing.T) {
	tests := []struct {
		name  string
		flags transformFlags
		msg   string
	}{
		{"scale", transformFlags{scale: []float64{1, 2}}, "--scale"},
		{"rotate", transformFlags{rotate: []float64{90}}, "--rotate"},
		{"translate", transformFlags{translate: []float64{1, 2, 3, 4}}, "--translate"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.flags.matrix()
			require.ErrorContains(t, err, tc.msg)
		})
	}
}

func TestExportCommand(t *testing.T) {
	in := writeArc(t)
	out := filepath.Join(t.TempDir(), "moved.cbor")

	stdout, err := execute(t, "export", in, "-o", out, "--translate", "1,0,0", "--name", "moved")
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote "+out)

	_, orig, err := models.LoadCurve(in, 3)
	require.NoError(t, err)
	name, got, err := models.LoadCurve(out, 3)
	require.NoError(t, err)
	assert.Equal(t, "moved", name)
	assert.Equal(t, orig.Weights(), got.Weights())

	want := orig.Transform(math3d.Translate(math3d.V3(1, 0, 0)))
	if !got.ApproxEqual(want, 1e-12) {
		t.Errorf("exported %v, want %v", got, want)
	}
}

func TestExportRequiresOutput(t *testing.T) {
	_, err := execute(t, "export", writeArc(t))
	require.Error(t, err)
}

func TestExportReverse(t *testing.T) {
	in := writeArc(t)
	out := filepath.Join(t.TempDir(), "rev.yaml")

	_, err := execute(t, "export", in, "-o", out, "--reverse")
	require.NoError(t, err)

	_, got, err := models.LoadCurve(out, 3)
	require.NoError(t, err)
	pts := got.Points()
	assert.True(t, pts[0].ApproxEqual(math3d.V3(0, 1, 0), 1e-12))
	assert.True(t, pts[2].ApproxEqual(math3d.V3(1, 0, 0), 1e-12))
}

func TestInfoCommand(t *testing.T) {
	stdout, err := execute(t, "info", writeArc(t))
	require.NoError(t, err)
	for _, want := range []string{"arc", "degree", "2", "rational", "true", "0×3", "1×3"} {
		assert.Contains(t, stdout, want)
	}
}

func TestInfoMissingFile(t *testing.T) {
	_, err := execute(t, "info", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestPNGCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "arc.png")
	_, err := execute(t, "png", writeArc(t), "-o", out, "--width", "120", "--height", "90", "--view", "top")
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
	assert.Equal(t, 90, img.Bounds().Dy())
}

func TestPNGUnknownView(t *testing.T) {
	_, err := execute(t, "png", writeArc(t), "--view", "iso")
	require.ErrorContains(t, err, "unknown view")
}

func TestParseRGB(t *testing.T) {
	c, err := parseRGB("10,20,30")
	require.NoError(t, err)
	assert.Equal(t, render.RGB(10, 20, 30), c)

	_, err = parseRGB("red")
	require.Error(t, err)
}

func arcCurve(t *testing.T) *nurbs.Curve {
	t.Helper()
	def, err := models.ParseDefinition([]byte(arcYAML))
	require.NoError(t, err)
	c, err := def.Curve()
	require.NoError(t, err)
	return c
}

func TestWeightEditorSelection(t *testing.T) {
	e := NewWeightEditor(arcCurve(t), 60)
	e.SelectNext(-1)
	assert.Equal(t, 2, e.Selected)
	e.SelectNext(1)
	assert.Equal(t, 0, e.Selected)
	e.SelectNext(4)
	assert.Equal(t, 1, e.Selected)
}

func TestWeightEditorClampsTargets(t *testing.T) {
	e := NewWeightEditor(arcCurve(t), 60)
	e.ScaleSelected(1000)
	assert.Equal(t, float64(maxWeight), e.Target())
	e.ScaleSelected(1e-9)
	assert.Equal(t, minWeight, e.Target())
	e.Reset()
	assert.Equal(t, 1.0, e.Target())
}

func TestWeightEditorConverges(t *testing.T) {
	c := arcCurve(t)
	e := NewWeightEditor(c, 60)
	assert.False(t, e.Update(), "no edit, nothing moves")

	e.SelectNext(1)
	e.ScaleSelected(2)
	frames := 0
	for e.Update() {
		frames++
		require.Less(t, frames, 600, "spring did not settle")
		got, err := e.Curve()
		require.NoError(t, err)
		for _, w := range got.Weights() {
			require.GreaterOrEqual(t, w, 0.0)
		}
	}

	got, err := e.Curve()
	require.NoError(t, err)
	assert.InDelta(t, 2*c.Weights()[1], got.Weights()[1], 1e-9)
	assert.Equal(t, c.Knots(), got.Knots())
	assert.Equal(t, c.Points(), got.Points())
}

func TestWeightEditorAdvance(t *testing.T) {
	c := arcCurve(t)
	var logs bytes.Buffer
	logger := newLogger(&logs, true)

	e := NewWeightEditor(c, 60)
	got, err := e.Advance(c, logger)
	require.NoError(t, err)
	assert.Same(t, c, got, "settled editor keeps the current curve")

	e.ScaleSelected(3)
	got, err = e.Advance(c, logger)
	require.NoError(t, err)
	assert.NotSame(t, c, got)

	e.weights[1] = math.NaN()
	kept, err := e.Advance(got, logger)
	require.ErrorIs(t, err, nurbs.ErrInvalidControlPointData)
	assert.Same(t, got, kept)
	assert.Contains(t, logs.String(), "rebuild curve")
}

func TestOrbitStateDecays(t *testing.T) {
	o := NewOrbitState(60)
	o.ApplyImpulse(0, 0.1)
	for range 600 {
		o.Update()
	}
	assert.Greater(t, o.Yaw.Position, 0.1)
	assert.InDelta(t, 0, o.Yaw.Velocity, 1e-6)
	assert.InDelta(t, 0.35, o.Pitch.Position, 1e-12)

	o.Reset()
	assert.Zero(t, o.Yaw.Position)
}

func TestSpread(t *testing.T) {
	tests := []struct {
		width int
		parts []string
		want  string
	}{
		{10, []string{"a", "b"}, "a        b"},
		{10, []string{"ab", "cd", "ef"}, "ab  cd  ef"},
		{11, []string{"ab", "cd", "ef"}, "ab   cd  ef"},
		{3, []string{"ab", "cd"}, "abcd"},
		{10, nil, ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, spread(tc.width, tc.parts...))
	}
}

func TestHUDLines(t *testing.T) {
	h := NewHUD("arc")
	top, bottom := h.Lines(80, hudView{
		Curve:    arcCurve(t),
		Selected: 1,
		Target:   2,
		ShowGrid: true,
	})
	assert.Contains(t, top, " arc ")
	assert.Contains(t, top, "p=2 n=3")
	assert.Contains(t, bottom, "#1")
	assert.Contains(t, bottom, "[✓] grid")
	assert.Contains(t, bottom, "[ ] control")

	_, bottom = h.Lines(80, hudView{Curve: arcCurve(t), Message: "saved arc.png"})
	assert.True(t, strings.Contains(bottom, "saved arc.png"))
}

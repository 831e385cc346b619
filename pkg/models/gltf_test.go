package models

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/nurbs/pkg/math3d"
	"github.com/taigrr/nurbs/pkg/nurbs"
)

// float32 round trip tolerance
const glbTol = 1e-6

func arc(t *testing.T) *nurbs.Curve {
	t.Helper()
	c, err := nurbs.NewCurveFromWeightedPoints(
		[]math3d.Vec3{math3d.V3(1, 0, 0), math3d.V3(1, 1, 0), math3d.V3(0, 1, 0)},
		[]float64{1, math.Sqrt2 / 2, 1},
		2,
	)
	require.NoError(t, err)
	return c
}

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb", 3)
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestSaveGLBRoundTrip(t *testing.T) {
	c := arc(t)
	path := filepath.Join(t.TempDir(), "arc.glb")
	require.NoError(t, SaveGLB(path, c, 16))

	pts, weights, err := LoadControlPolygon(path)
	require.NoError(t, err)
	require.Len(t, pts, 3)
	require.Len(t, weights, 3)

	want := c.ControlPoints()
	for i := range pts {
		if !pts[i].ApproxEqual(want[i].Point(), glbTol) {
			t.Errorf("point %d = %v, want %v", i, pts[i], want[i].Point())
		}
		if math.Abs(weights[i]-want[i].W) > glbTol {
			t.Errorf("weight %d = %v, want %v", i, weights[i], want[i].W)
		}
	}

	loaded, err := LoadGLB(path, 2)
	require.NoError(t, err)
	if !loaded.ApproxEqual(c, glbTol) {
		t.Errorf("loaded %v, want %v", loaded, c)
	}
}

func TestCurveDocument(t *testing.T) {
	doc := CurveDocument(arc(t), 10)

	require.Len(t, doc.Meshes, 2)
	curve := doc.Meshes[0].Primitives[0]
	if curve.Mode != gltf.PrimitiveLineStrip {
		t.Errorf("curve mode = %v, want line strip", curve.Mode)
	}
	if got := doc.Accessors[curve.Attributes[gltf.POSITION]].Count; got != 10 {
		t.Errorf("curve samples = %d, want 10", got)
	}

	ctrl := doc.Meshes[1].Primitives[0]
	if _, ok := ctrl.Attributes[WeightAttribute]; !ok {
		t.Errorf("control polygon has no %s attribute", WeightAttribute)
	}
	if got := doc.Accessors[ctrl.Attributes[gltf.POSITION]].Count; got != 3 {
		t.Errorf("control points = %d, want 3", got)
	}
}

func TestLoadControlPolygonWithoutWeights(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 2, 0}, {3, 2, 0}, {4, 0, 0}})
	doc.Meshes = []*gltf.Mesh{{
		Name: "polygon",
		Primitives: []*gltf.Primitive{{
			Mode:       gltf.PrimitivePoints,
			Attributes: map[string]int{gltf.POSITION: pos},
		}},
	}}
	path := filepath.Join(t.TempDir(), "points.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	pts, weights, err := LoadControlPolygon(path)
	require.NoError(t, err)
	require.Len(t, pts, 4)
	require.Nil(t, weights)

	c, err := LoadGLB(path, 3)
	require.NoError(t, err)
	if c.IsRational() {
		t.Error("curve without weights should not be rational")
	}
}

func TestLoadControlPolygonNoLines(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	doc.Meshes = []*gltf.Mesh{{
		Name: "triangle",
		Primitives: []*gltf.Primitive{{
			Mode:       gltf.PrimitiveTriangles,
			Attributes: map[string]int{gltf.POSITION: pos},
		}},
	}}
	path := filepath.Join(t.TempDir(), "tri.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	_, _, err := LoadControlPolygon(path)
	if !errors.Is(err, ErrNoControlPolygon) {
		t.Errorf("err = %v, want ErrNoControlPolygon", err)
	}
}

func TestLoadGLBTooFewPoints(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}})
	doc.Meshes = []*gltf.Mesh{{
		Primitives: []*gltf.Primitive{{
			Mode:       gltf.PrimitiveLineStrip,
			Attributes: map[string]int{gltf.POSITION: pos},
		}},
	}}
	path := filepath.Join(t.TempDir(), "short.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	_, err := LoadGLB(path, 3)
	require.ErrorIs(t, err, nurbs.ErrInsufficientControlPoints)
}

func saveLines(t *testing.T, prim *gltf.Primitive, doc *gltf.Document) string {
	t.Helper()
	doc.Meshes = []*gltf.Mesh{{Name: "polygon", Primitives: []*gltf.Primitive{prim}}}
	path := filepath.Join(t.TempDir(), "polygon.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func TestLoadControlPolygonIndexed(t *testing.T) {
	want := []math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(2, 0, 0), math3d.V3(3, 0, 0)}

	tests := []struct {
		name    string
		mode    gltf.PrimitiveMode
		pos     [][3]float32
		weights []float32
		indices []uint16
	}{
		{
			name:    "line strip",
			mode:    gltf.PrimitiveLineStrip,
			pos:     [][3]float32{{1, 0, 0}, {3, 0, 0}, {0, 0, 0}, {2, 0, 0}},
			weights: []float32{1.5, 3.5, 0.5, 2.5},
			indices: []uint16{2, 0, 3, 1},
		},
		{
			name:    "indexed lines",
			mode:    gltf.PrimitiveLines,
			pos:     [][3]float32{{3, 0, 0}, {0, 0, 0}, {2, 0, 0}, {1, 0, 0}},
			weights: []float32{3.5, 0.5, 2.5, 1.5},
			indices: []uint16{1, 3, 3, 2, 2, 0},
		},
		{
			name:    "segment list",
			mode:    gltf.PrimitiveLines,
			pos:     [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 0, 0}, {2, 0, 0}, {2, 0, 0}, {3, 0, 0}},
			weights: []float32{0.5, 1.5, 1.5, 2.5, 2.5, 3.5},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := gltf.NewDocument()
			prim := &gltf.Primitive{
				Mode: tc.mode,
				Attributes: map[string]int{
					gltf.POSITION:   modeler.WritePosition(doc, tc.pos),
					WeightAttribute: modeler.WriteAccessor(doc, gltf.TargetArrayBuffer, tc.weights),
				},
			}
			if tc.indices != nil {
				prim.Indices = gltf.Index(modeler.WriteIndices(doc, tc.indices))
			}

			pts, weights, err := LoadControlPolygon(saveLines(t, prim, doc))
			require.NoError(t, err)
			require.Equal(t, want, pts)
			require.Equal(t, []float64{0.5, 1.5, 2.5, 3.5}, weights)
		})
	}
}

func TestLoadControlPolygonIndexOutOfRange(t *testing.T) {
	doc := gltf.NewDocument()
	prim := &gltf.Primitive{
		Mode:       gltf.PrimitiveLineStrip,
		Attributes: map[string]int{gltf.POSITION: modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}})},
	}
	prim.Indices = gltf.Index(modeler.WriteIndices(doc, []uint16{0, 1, 9}))

	_, _, err := LoadControlPolygon(saveLines(t, prim, doc))
	require.ErrorContains(t, err, "only 2 vertices")
}

func TestReadAccessorMalformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc *gltf.Document, acc int)
		msg    string
	}{
		{"buffer view index", func(doc *gltf.Document, acc int) {
			doc.Accessors[acc].BufferView = gltf.Index(7)
		}, "buffer view 7 out of range"},
		{"buffer index", func(doc *gltf.Document, acc int) {
			doc.BufferViews[*doc.Accessors[acc].BufferView].Buffer = 3
		}, "buffer 3 out of range"},
		{"view past buffer", func(doc *gltf.Document, acc int) {
			doc.BufferViews[*doc.Accessors[acc].BufferView].ByteLength += 1 << 10
		}, "buffer view overruns buffer"},
		{"accessor past view", func(doc *gltf.Document, acc int) {
			doc.BufferViews[*doc.Accessors[acc].BufferView].ByteLength = 12
		}, "accessor overruns buffer view"},
		{"negative count", func(doc *gltf.Document, acc int) {
			doc.Accessors[acc].Count = -1
		}, "invalid accessor layout"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := gltf.NewDocument()
			acc := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}})
			tc.mutate(doc, acc)

			_, err := readVec3Accessor(doc, acc)
			require.ErrorContains(t, err, tc.msg)
		})
	}
}

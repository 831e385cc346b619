package models

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/nurbs/pkg/math3d"
	"github.com/taigrr/nurbs/pkg/nurbs"
)

// WeightAttribute is the custom glTF vertex attribute carrying control
// point weights.
const WeightAttribute = "_WEIGHT"

// ErrNoControlPolygon is returned when a glTF file has no line or point
// primitive to read control points from.
var ErrNoControlPolygon = errors.New("no line or point primitive")

// LoadControlPolygon reads the first line or point primitive of a glTF or
// GLB file, following its index list when it has one. Weights come from the
// _WEIGHT attribute when present and are nil otherwise.
func LoadControlPolygon(path string) ([]math3d.Vec3, []float64, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}

	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if !isPolylineMode(prim.Mode) {
				continue
			}
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}

			positions, err := readVec3Accessor(doc, posIdx)
			if err != nil {
				return nil, nil, fmt.Errorf("mesh %q: read positions: %w", m.Name, err)
			}

			var weights []float64
			if wIdx, ok := prim.Attributes[WeightAttribute]; ok {
				weights, err = readScalarAccessor(doc, wIdx)
				if err != nil {
					return nil, nil, fmt.Errorf("mesh %q: read weights: %w", m.Name, err)
				}
				if len(weights) != len(positions) {
					return nil, nil, fmt.Errorf("mesh %q: %d positions but %d weights", m.Name, len(positions), len(weights))
				}
			}

			var indices []int
			if prim.Indices != nil {
				indices, err = readIndices(doc, *prim.Indices, len(positions))
				if err != nil {
					return nil, nil, fmt.Errorf("mesh %q: read indices: %w", m.Name, err)
				}
			}

			same := func(a, b int) bool {
				if a == b {
					return true
				}
				return positions[a] == positions[b] && (weights == nil || weights[a] == weights[b])
			}
			order := vertexOrder(prim.Mode, indices, len(positions), same)

			pts := make([]math3d.Vec3, len(order))
			for i, v := range order {
				pts[i] = positions[v]
			}
			if weights == nil {
				return pts, nil, nil
			}
			ws := make([]float64, len(order))
			for i, v := range order {
				ws[i] = weights[v]
			}
			return pts, ws, nil
		}
	}

	return nil, nil, fmt.Errorf("%s: %w", path, ErrNoControlPolygon)
}

// LoadGLB builds a curve of the given degree from the control polygon of a
// glTF or GLB file, with a clamped uniform knot vector.
func LoadGLB(path string, degree int) (*nurbs.Curve, error) {
	pts, weights, err := LoadControlPolygon(path)
	if err != nil {
		return nil, err
	}
	if weights == nil {
		return nurbs.NewCurveFromPoints(pts, degree)
	}
	return nurbs.NewCurveFromWeightedPoints(pts, weights, degree)
}

// SaveGLB writes c as a binary glTF with two line-strip meshes: "curve",
// the curve sampled at the given number of parameters, and "control", the
// control polygon with its weights in the _WEIGHT attribute.
func SaveGLB(path string, c *nurbs.Curve, samples int) error {
	doc := CurveDocument(c, samples)
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}

// CurveDocument builds the glTF document written by SaveGLB.
func CurveDocument(c *nurbs.Curve, samples int) *gltf.Document {
	doc := gltf.NewDocument()

	curvePos := modeler.WritePosition(doc, toFloat32(c.Tessellate(samples)))
	ctrlPos := modeler.WritePosition(doc, toFloat32(c.Points()))

	weights := c.Weights()
	w32 := make([]float32, len(weights))
	for i, w := range weights {
		w32[i] = float32(w)
	}
	ctrlWeight := modeler.WriteAccessor(doc, gltf.TargetArrayBuffer, w32)

	doc.Meshes = []*gltf.Mesh{
		{
			Name: "curve",
			Primitives: []*gltf.Primitive{{
				Mode:       gltf.PrimitiveLineStrip,
				Attributes: map[string]int{gltf.POSITION: curvePos},
			}},
		},
		{
			Name: "control",
			Primitives: []*gltf.Primitive{{
				Mode: gltf.PrimitiveLineStrip,
				Attributes: map[string]int{
					gltf.POSITION:   ctrlPos,
					WeightAttribute: ctrlWeight,
				},
			}},
		},
	}
	doc.Nodes = []*gltf.Node{
		{Name: "curve", Mesh: gltf.Index(0)},
		{Name: "control", Mesh: gltf.Index(1)},
	}
	doc.Scenes = []*gltf.Scene{{Name: "nurbs", Nodes: []int{0, 1}}}
	doc.Scene = gltf.Index(0)
	return doc
}

func isPolylineMode(m gltf.PrimitiveMode) bool {
	switch m {
	case gltf.PrimitivePoints, gltf.PrimitiveLines, gltf.PrimitiveLineLoop, gltf.PrimitiveLineStrip:
		return true
	}
	return false
}

// vertexOrder returns the vertex indices of a primitive in polyline order.
// Without an index list the vertices are taken in buffer order. LINES
// segments are chained: a segment that starts where the previous one ended
// contributes only its end vertex.
func vertexOrder(mode gltf.PrimitiveMode, indices []int, count int, same func(a, b int) bool) []int {
	if indices == nil {
		indices = make([]int, count)
		for i := range indices {
			indices[i] = i
		}
	}
	if mode != gltf.PrimitiveLines {
		return indices
	}
	order := make([]int, 0, len(indices))
	for i := 0; i+1 < len(indices); i += 2 {
		a, b := indices[i], indices[i+1]
		if len(order) == 0 || !same(order[len(order)-1], a) {
			order = append(order, a)
		}
		order = append(order, b)
	}
	return order
}

func toFloat32(pts []math3d.Vec3) [][3]float32 {
	out := make([][3]float32, len(pts))
	for i, p := range pts {
		out[i] = [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
	}
	return out
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC3")
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}

	return result, nil
}

// readScalarAccessor reads float SCALAR data from a GLTF accessor.
func readScalarAccessor(doc *gltf.Document, accessorIdx int) ([]float64, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float SCALAR, got %v / %v", accessor.Type, accessor.ComponentType)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for SCALAR")
	}

	result := make([]float64, len(floats))
	for i, f := range floats {
		result[i] = float64(f)
	}
	return result, nil
}

// readIndices reads index data from a GLTF accessor. Every index must
// address one of count vertices.
func readIndices(doc *gltf.Document, accessorIdx, count int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	var result []int
	switch v := data.(type) {
	case []uint8:
		result = make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
	case []uint16:
		result = make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
	case []uint32:
		result = make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
	default:
		return nil, fmt.Errorf("unexpected index type: %T", data)
	}

	for i, x := range result {
		if x >= count {
			return nil, fmt.Errorf("index %d is %d, only %d vertices", i, x, count)
		}
	}
	return result, nil
}

// elementSize returns the byte size of one accessor element for the layouts
// readAccessorData supports.
func elementSize(accessor *gltf.Accessor) (int, bool) {
	switch {
	case accessor.Type == gltf.AccessorVec3 && accessor.ComponentType == gltf.ComponentFloat:
		return 12, true
	case accessor.Type != gltf.AccessorScalar:
		return 0, false
	}
	switch accessor.ComponentType {
	case gltf.ComponentFloat, gltf.ComponentUint:
		return 4, true
	case gltf.ComponentUshort:
		return 2, true
	case gltf.ComponentUbyte:
		return 1, true
	}
	return 0, false
}

// readAccessorData reads raw data from a GLTF accessor.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}
	if bv := *accessor.BufferView; bv < 0 || bv >= len(doc.BufferViews) {
		return nil, fmt.Errorf("buffer view %d out of range", bv)
	}
	bufferView := doc.BufferViews[*accessor.BufferView]
	if bufferView.Buffer < 0 || bufferView.Buffer >= len(doc.Buffers) {
		return nil, fmt.Errorf("buffer %d out of range", bufferView.Buffer)
	}
	buffer := doc.Buffers[bufferView.Buffer]

	// gltf.Open resolves external and data URIs into Data.
	bufData := buffer.Data
	if bufData == nil {
		return nil, fmt.Errorf("buffer has no data")
	}

	viewEnd := bufferView.ByteOffset + bufferView.ByteLength
	if bufferView.ByteOffset < 0 || bufferView.ByteLength < 0 || viewEnd > len(bufData) {
		return nil, fmt.Errorf("buffer view overruns buffer: %d > %d", viewEnd, len(bufData))
	}
	view := bufData[bufferView.ByteOffset:viewEnd]

	size, ok := elementSize(accessor)
	if !ok {
		return nil, fmt.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
	}
	start := accessor.ByteOffset
	stride := bufferView.ByteStride
	if stride == 0 {
		stride = size
	}
	count := accessor.Count
	if start < 0 || count < 0 || stride < size || count > len(view) {
		return nil, fmt.Errorf("invalid accessor layout: offset %d, stride %d, count %d", start, stride, count)
	}
	if end := start + (count-1)*stride + size; count > 0 && end > len(view) {
		return nil, fmt.Errorf("accessor overruns buffer view: %d > %d", end, len(view))
	}

	if accessor.Type == gltf.AccessorVec3 {
		result := make([][3]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 3 {
				result[i][j] = readFloat32(view[offset+j*4:])
			}
		}
		return result, nil
	}

	switch accessor.ComponentType {
	case gltf.ComponentFloat:
		result := make([]float32, count)
		for i := range count {
			result[i] = readFloat32(view[start+i*stride:])
		}
		return result, nil
	case gltf.ComponentUint:
		result := make([]uint32, count)
		for i := range count {
			result[i] = binary.LittleEndian.Uint32(view[start+i*stride:])
		}
		return result, nil
	case gltf.ComponentUshort:
		result := make([]uint16, count)
		for i := range count {
			result[i] = binary.LittleEndian.Uint16(view[start+i*stride:])
		}
		return result, nil
	default:
		result := make([]uint8, count)
		for i := range count {
			result[i] = view[start+i*stride]
		}
		return result, nil
	}
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

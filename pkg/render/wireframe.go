package render

import (
	"math"

	"github.com/taigrr/nurbs/pkg/math3d"
	"github.com/taigrr/nurbs/pkg/nurbs"
)

// Wireframe projects 3D lines through a camera onto a framebuffer, with an
// optional depth test.
type Wireframe struct {
	camera  *Camera
	fb      *Framebuffer
	zbuffer []float64 // Depth buffer (1D array, row-major)

	// DepthTest hides lines behind ones already drawn.
	DepthTest bool

	Stats CullingStats
}

// CullingStats tracks frustum culling of curves.
type CullingStats struct {
	CurvesTested int
	CurvesCulled int
	CurvesDrawn  int
}

// NewWireframe creates a new wireframe renderer.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	w := &Wireframe{
		camera:    camera,
		fb:        fb,
		DepthTest: true,
	}
	w.Resize()
	return w
}

// Resize resizes the depth buffer to match the framebuffer.
func (w *Wireframe) Resize() {
	w.zbuffer = make([]float64, w.fb.Width*w.fb.Height)
	w.ClearDepth()
}

// ClearDepth clears the depth buffer and culling stats (call before each frame).
func (w *Wireframe) ClearDepth() {
	w.Stats = CullingStats{}
	// Use copy-doubling for faster clearing
	n := len(w.zbuffer)
	if n == 0 {
		return
	}
	w.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(w.zbuffer[i:], w.zbuffer[:i])
	}
}

// depthBias lets a line redraw over its own pixels.
const depthBias = 1e-6

// coordLimit bounds projected coordinates before integer conversion.
const coordLimit = 1 << 20

// DrawLine3D draws a line in 3D space, clipped against the near plane.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	viewProj := w.camera.ViewProjectionMatrix()
	a := viewProj.MulVec4(math3d.V4FromV3(p1, 1))
	b := viewProj.MulVec4(math3d.V4FromV3(p2, 1))

	// Near plane: z + w >= 0
	da, db := a.Z+a.W, b.Z+b.W
	switch {
	case da < 0 && db < 0:
		return
	case da < 0:
		a = a.Lerp(b, da/(da-db))
	case db < 0:
		b = b.Lerp(a, db/(db-da))
	}

	ax, ay := w.toScreen(a)
	bx, by := w.toScreen(b)

	if !w.DepthTest {
		w.fb.DrawLine(int(ax), int(ay), int(bx), int(by), color)
		return
	}

	length := math.Hypot(bx-ax, by-ay)
	w.fb.drawLine(int(ax), int(ay), int(bx), int(by), func(x, y int) {
		t := 0.0
		if length > 0 {
			t = math.Min(1, math.Hypot(float64(x)-ax, float64(y)-ay)/length)
		}
		z := a.W + (b.W-a.W)*t
		i := y*w.fb.Width + x
		if z > w.zbuffer[i]+depthBias {
			return
		}
		w.zbuffer[i] = z
		w.fb.SetPixel(x, y, color)
	})
}

func (w *Wireframe) toScreen(clip math3d.Vec4) (x, y float64) {
	ndc := clip.PerspectiveDivide()
	x = (ndc.X + 1) * 0.5 * float64(w.fb.Width)
	y = (1 - ndc.Y) * 0.5 * float64(w.fb.Height)
	return clampCoord(x), clampCoord(y)
}

func clampCoord(v float64) float64 {
	if math.IsNaN(v) {
		return -coordLimit
	}
	return math.Max(-coordLimit, math.Min(coordLimit, v))
}

// DrawPolyline draws connected segments through pts.
func (w *Wireframe) DrawPolyline(pts []math3d.Vec3, color Color) {
	for i := 1; i < len(pts); i++ {
		w.DrawLine3D(pts[i-1], pts[i], color)
	}
}

// DrawCurve tessellates c and draws it. Curves whose control bounds lie
// outside the view frustum are skipped; the result reports whether c was
// drawn.
func (w *Wireframe) DrawCurve(c *nurbs.Curve, samples int, color Color) bool {
	w.Stats.CurvesTested++
	if !w.camera.Frustum().IntersectAABB(CurveBounds(c)) {
		w.Stats.CurvesCulled++
		return false
	}
	w.Stats.CurvesDrawn++
	w.DrawPolyline(c.Tessellate(samples), color)
	return true
}

// DrawControlPolygon draws the control polygon of c with a marker on each
// control point. Marker radius grows with the weight. The selected point,
// if in range, is drawn in highlight.
func (w *Wireframe) DrawControlPolygon(c *nurbs.Curve, color, highlight Color, selected int) {
	pts := c.Points()
	w.DrawPolyline(pts, color)
	for i, cp := range c.ControlPoints() {
		col := color
		if i == selected {
			col = highlight
		}
		w.DrawMarker(cp.Point(), MarkerRadius(cp.W), col)
	}
}

// MarkerRadius maps a control point weight to a marker radius in pixels.
func MarkerRadius(weight float64) int {
	r := 1 + int(math.Round(math.Log2(1+weight)))
	return max(1, min(r, 4))
}

// DrawMarker draws a screen-space disc at a world position. Markers are not
// depth tested.
func (w *Wireframe) DrawMarker(pos math3d.Vec3, radius int, color Color) {
	x, y, _, ok := w.camera.Project(pos, w.fb.Width, w.fb.Height)
	if !ok {
		return
	}
	w.fb.DrawDisc(int(clampCoord(x)), int(clampCoord(y)), radius, color)
}

// DrawBox draws the 12 edges of an AABB.
func (w *Wireframe) DrawBox(b AABB, color Color) {
	lo, hi := b.Min, b.Max
	v := [8]math3d.Vec3{
		{X: lo.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z},
	}
	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	for _, e := range edges {
		w.DrawLine3D(v[e[0]], v[e[1]], color)
	}
}

// DrawAxes draws the coordinate axes at the origin.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.Zero3()
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)   // X axis
	w.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen) // Y axis
	w.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)  // Z axis
}

// DrawGrid draws a grid on the XZ plane at y.
func (w *Wireframe) DrawGrid(size, step, y float64, color Color) {
	if step <= 0 {
		return
	}
	half := size / 2
	n := int(math.Floor(size/step + 1e-9))
	for i := 0; i <= n; i++ {
		x := -half + float64(i)*step
		w.DrawLine3D(math3d.V3(x, y, -half), math3d.V3(x, y, half), color)
		w.DrawLine3D(math3d.V3(-half, y, x), math3d.V3(half, y, x), color)
	}
}

// DrawPoint draws a point as a small 3D cross.
func (w *Wireframe) DrawPoint(pos math3d.Vec3, size float64, color Color) {
	h := size / 2
	w.DrawLine3D(pos.Sub(math3d.V3(h, 0, 0)), pos.Add(math3d.V3(h, 0, 0)), color)
	w.DrawLine3D(pos.Sub(math3d.V3(0, h, 0)), pos.Add(math3d.V3(0, h, 0)), color)
	w.DrawLine3D(pos.Sub(math3d.V3(0, 0, h)), pos.Add(math3d.V3(0, 0, h)), color)
}

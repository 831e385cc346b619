// Package models loads, saves and samples NURBS curves: YAML definitions,
// a CBOR wire codec, and glTF line geometry.
package models

import (
	"github.com/taigrr/nurbs/pkg/math3d"
	"github.com/taigrr/nurbs/pkg/nurbs"
)

// Polyline is an ordered run of points drawn as connected segments.
type Polyline struct {
	Name   string
	Points []math3d.Vec3

	// Bounding box (calculated on creation)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

var _ math3d.Transformable[*Polyline] = (*Polyline)(nil)

// NewPolyline creates a polyline over a copy of pts.
func NewPolyline(name string, pts []math3d.Vec3) *Polyline {
	p := &Polyline{
		Name:   name,
		Points: append([]math3d.Vec3(nil), pts...),
	}
	p.CalculateBounds()
	return p
}

// CurvePolyline samples c at the given number of parameters.
func CurvePolyline(name string, c *nurbs.Curve, samples int) *Polyline {
	return NewPolyline(name, c.Tessellate(samples))
}

// ControlPolygon returns the control polygon of c.
func ControlPolygon(name string, c *nurbs.Curve) *Polyline {
	return NewPolyline(name, c.Points())
}

// CalculateBounds computes the axis-aligned bounding box.
func (p *Polyline) CalculateBounds() {
	if len(p.Points) == 0 {
		return
	}

	p.BoundsMin = p.Points[0]
	p.BoundsMax = p.Points[0]

	for _, v := range p.Points[1:] {
		p.BoundsMin = p.BoundsMin.Min(v)
		p.BoundsMax = p.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (p *Polyline) Center() math3d.Vec3 {
	return p.BoundsMin.Add(p.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (p *Polyline) Size() math3d.Vec3 {
	return p.BoundsMax.Sub(p.BoundsMin)
}

// VertexCount returns the number of points.
func (p *Polyline) VertexCount() int {
	return len(p.Points)
}

// SegmentCount returns the number of line segments.
func (p *Polyline) SegmentCount() int {
	return max(len(p.Points)-1, 0)
}

// Length returns the sum of the segment lengths.
func (p *Polyline) Length() float64 {
	var l float64
	for i := 1; i < len(p.Points); i++ {
		l += p.Points[i].Distance(p.Points[i-1])
	}
	return l
}

// Transform returns a copy of p with the affine part of mat applied to
// every point.
func (p *Polyline) Transform(mat math3d.Mat4) *Polyline {
	return NewPolyline(p.Name, math3d.TransformAll(p.Points, mat))
}

// GetBounds returns the axis-aligned bounding box.
func (p *Polyline) GetBounds() (lo, hi math3d.Vec3) {
	return p.BoundsMin, p.BoundsMax
}

// FitTransform returns the matrix that centers the union of the given
// polylines on the origin and scales its largest dimension to size.
func FitTransform(size float64, lines ...*Polyline) math3d.Mat4 {
	if len(lines) == 0 {
		return math3d.Identity()
	}

	lo, hi := lines[0].GetBounds()
	for _, l := range lines[1:] {
		a, b := l.GetBounds()
		lo, hi = lo.Min(a), hi.Max(b)
	}
	dims := hi.Sub(lo)
	center := lo.Add(hi).Scale(0.5)
	maxDim := max(dims.X, dims.Y, dims.Z)
	if maxDim <= 0 {
		return math3d.Translate(center.Negate())
	}
	scale := size / maxDim
	return math3d.ScaleUniform(scale).Mul(math3d.Translate(center.Negate()))
}

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/taigrr/nurbs/pkg/math3d"
	"github.com/taigrr/nurbs/pkg/nurbs"
)

// PlotOptions controls Plot.
type PlotOptions struct {
	Width, Height int
	Margin        float64 // pixels
	Samples       int     // tessellation density
	Stroke        float64 // curve stroke width in pixels

	Background color.Color
	Curve      color.Color
	Control    color.Color // nil hides the control polygon

	// View is applied to every point before the XY plane is fitted to the
	// image. The zero value is the identity.
	View math3d.Mat4
}

// DefaultPlotOptions returns 800x600 options with the terminal palette.
func DefaultPlotOptions() PlotOptions {
	return PlotOptions{
		Width:      800,
		Height:     600,
		Margin:     24,
		Samples:    256,
		Stroke:     3,
		Background: ColorBackground,
		Curve:      ColorCurve,
		Control:    ColorControl,
		View:       math3d.Identity(),
	}
}

// Plot draws the curves with an orthographic view of the XY plane, scaled
// to fit the image. Control polygons are drawn under the curves with
// weight-sized markers.
func Plot(opts PlotOptions, curves ...*nurbs.Curve) *image.RGBA {
	if opts.View == (math3d.Mat4{}) {
		opts.View = math3d.Identity()
	}
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	if opts.Background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}
	if len(curves) == 0 {
		return img
	}

	paths := make([][]math3d.Vec3, len(curves))
	ctrl := make([][]math3d.Vec3, len(curves))
	var all []math3d.Vec3
	for i, c := range curves {
		paths[i] = math3d.TransformAll(c.Tessellate(opts.Samples), opts.View)
		ctrl[i] = math3d.TransformAll(c.Points(), opts.View)
		all = append(all, paths[i]...)
		if opts.Control != nil {
			all = append(all, ctrl[i]...)
		}
	}
	toPixel := fitXY(BoundsOf(all), opts)

	scanner := rasterx.NewScannerGV(opts.Width, opts.Height, img, img.Bounds())
	if opts.Control != nil {
		for i, c := range curves {
			stroke(scanner, opts, ctrl[i], math.Max(1, opts.Stroke/3), opts.Control, toPixel)
			filler := rasterx.NewFiller(opts.Width, opts.Height, scanner)
			for j, w := range c.Weights() {
				x, y := toPixel(ctrl[i][j])
				rasterx.AddCircle(x, y, float64(MarkerRadius(w))*opts.Stroke/2+1, filler)
			}
			filler.SetColor(opts.Control)
			filler.Draw()
			scanner.Clear()
		}
	}
	for _, p := range paths {
		stroke(scanner, opts, p, opts.Stroke, opts.Curve, toPixel)
	}
	return img
}

func stroke(scanner rasterx.Scanner, opts PlotOptions, pts []math3d.Vec3, width float64, col color.Color, toPixel func(math3d.Vec3) (float64, float64)) {
	if len(pts) < 2 {
		return
	}
	d := rasterx.NewDasher(opts.Width, opts.Height, scanner)
	d.SetStroke(fixed.Int26_6(width*64), 0, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.ArcClip, nil, 0)
	d.SetColor(col)
	d.Start(rasterx.ToFixedP(toPixel(pts[0])))
	for _, p := range pts[1:] {
		d.Line(rasterx.ToFixedP(toPixel(p)))
	}
	d.Stop(false)
	d.Draw()
	scanner.Clear()
}

// fitXY maps the XY extent of b into the image inside the margin, keeping
// the aspect ratio and flipping Y.
func fitXY(b AABB, opts PlotOptions) func(math3d.Vec3) (float64, float64) {
	w := float64(opts.Width) - 2*opts.Margin
	h := float64(opts.Height) - 2*opts.Margin
	size := b.Size()
	scale := 1.0
	switch {
	case size.X > 0 && size.Y > 0:
		scale = math.Min(w/size.X, h/size.Y)
	case size.X > 0:
		scale = w / size.X
	case size.Y > 0:
		scale = h / size.Y
	}
	center := b.Center()
	cx, cy := float64(opts.Width)/2, float64(opts.Height)/2
	return func(p math3d.Vec3) (float64, float64) {
		return cx + (p.X-center.X)*scale, cy - (p.Y-center.Y)*scale
	}
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

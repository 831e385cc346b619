package main

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/taigrr/nurbs/pkg/math3d"
	"github.com/taigrr/nurbs/pkg/render"
)

// viewMatrices maps --view names to the rotation applied before plotting
// the XY plane.
var viewMatrices = map[string]math3d.Mat4{
	"front": math3d.Identity(),
	"top":   math3d.RotateX(math.Pi / 2),
	"side":  math3d.RotateY(-math.Pi / 2),
}

func newPNGCmd(opts *options) *cobra.Command {
	var (
		out         string
		view        string
		width       int
		height      int
		stroke      float64
		hideControl bool
		tf          transformFlags
	)

	cmd := &cobra.Command{
		Use:   "png <curve>",
		Short: "Plot a curve to an antialiased PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viewMat, ok := viewMatrices[view]
			if !ok {
				return fmt.Errorf("unknown view %q (front, top or side)", view)
			}
			_, c, err := opts.load(args[0])
			if err != nil {
				return err
			}
			if c, err = tf.apply(c); err != nil {
				return err
			}

			po := render.DefaultPlotOptions()
			po.Width, po.Height = width, height
			po.Samples = opts.samples
			po.Stroke = stroke
			po.View = viewMat
			if hideControl {
				po.Control = nil
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create png: %w", err)
			}
			if err := render.WritePNG(f, render.Plot(po, c)); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			opts.logger.Info("plotted curve", "path", out, "view", view, "width", width, "height", height)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&out, "output", "o", "curve.png", "output PNG file")
	fl.StringVar(&view, "view", "front", "projection: front (XY), top (XZ) or side (ZY)")
	fl.IntVar(&width, "width", 800, "image width in pixels")
	fl.IntVar(&height, "height", 600, "image height in pixels")
	fl.Float64Var(&stroke, "stroke", 3, "curve stroke width in pixels")
	fl.BoolVar(&hideControl, "hide-control", false, "omit the control polygon")
	tf.register(cmd)
	return cmd
}

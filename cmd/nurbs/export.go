package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/taigrr/nurbs/pkg/math3d"
	"github.com/taigrr/nurbs/pkg/models"
	"github.com/taigrr/nurbs/pkg/nurbs"
)

// transformFlags describes an affine transform built from command-line flags.
type transformFlags struct {
	translate []float64
	rotate    []float64 // degrees about X, Y, Z
	scale     []float64
	reverse   bool
}

func (f *transformFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Float64SliceVar(&f.translate, "translate", nil, "translate by x,y,z")
	fl.Float64SliceVar(&f.rotate, "rotate", nil, "rotate by x,y,z degrees (applied X, then Y, then Z)")
	fl.Float64SliceVar(&f.scale, "scale", nil, "scale uniformly by s, or per axis by x,y,z")
	fl.BoolVar(&f.reverse, "reverse", false, "reverse the parameter direction")
}

// matrix returns T * Rz * Ry * Rx * S.
func (f *transformFlags) matrix() (math3d.Mat4, error) {
	m := math3d.Identity()

	switch len(f.scale) {
	case 0:
	case 1:
		m = math3d.ScaleUniform(f.scale[0])
	case 3:
		m = math3d.Scale(math3d.V3(f.scale[0], f.scale[1], f.scale[2]))
	default:
		return m, fmt.Errorf("--scale takes 1 or 3 values, got %d", len(f.scale))
	}

	if len(f.rotate) > 0 {
		if len(f.rotate) != 3 {
			return m, fmt.Errorf("--rotate takes 3 values, got %d", len(f.rotate))
		}
		rad := func(deg float64) float64 { return deg * math.Pi / 180 }
		m = math3d.RotateZ(rad(f.rotate[2])).
			Mul(math3d.RotateY(rad(f.rotate[1]))).
			Mul(math3d.RotateX(rad(f.rotate[0]))).
			Mul(m)
	}

	if len(f.translate) > 0 {
		if len(f.translate) != 3 {
			return m, fmt.Errorf("--translate takes 3 values, got %d", len(f.translate))
		}
		m = math3d.Translate(math3d.V3(f.translate[0], f.translate[1], f.translate[2])).Mul(m)
	}
	return m, nil
}

// apply transforms c, leaving it untouched when no flag was given.
func (f *transformFlags) apply(c *nurbs.Curve) (*nurbs.Curve, error) {
	m, err := f.matrix()
	if err != nil {
		return nil, err
	}
	if m != math3d.Identity() {
		c = c.Transform(m)
	}
	if f.reverse {
		c = c.Reverse()
	}
	return c, nil
}

func newExportCmd(opts *options) *cobra.Command {
	var (
		out  string
		name string
		tf   transformFlags
	)

	cmd := &cobra.Command{
		Use:   "export <curve>",
		Short: "Transform a curve and write it as .yaml, .cbor or .glb",
		Example: `  nurbs export arc.yaml -o arc.glb
  nurbs export arc.yaml -o moved.cbor --translate 1,0,0 --rotate 0,0,90`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, c, err := opts.load(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = loaded
			}
			c, err = tf.apply(c)
			if err != nil {
				return err
			}
			if err := models.SaveCurve(out, name, c, opts.samples); err != nil {
				return err
			}
			opts.logger.Info("exported curve", "path", out, "name", name)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (.yaml, .yml, .cbor or .glb)")
	cmd.Flags().StringVar(&name, "name", "", "curve name to store (defaults to the input name)")
	_ = cmd.MarkFlagRequired("output")
	tf.register(cmd)
	return cmd
}

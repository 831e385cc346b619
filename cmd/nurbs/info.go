package main

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/taigrr/nurbs/pkg/models"
	"github.com/taigrr/nurbs/pkg/nurbs"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF80"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8AA0"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
)

func newInfoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info <curve>",
		Short: "Print a curve's degree, knots and control points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, c, err := opts.load(args[0])
			if err != nil {
				return err
			}
			writeInfo(cmd.OutOrStdout(), name, c, opts.samples)
			return nil
		},
	}
}

func writeInfo(w io.Writer, name string, c *nurbs.Curve, samples int) {
	row := func(label, format string, args ...any) {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-12s", label)), valueStyle.Render(fmt.Sprintf(format, args...)))
	}

	fmt.Fprintln(w, titleStyle.Render(name))
	row("degree", "%d", c.Degree())
	row("points", "%d", c.Len())
	row("rational", "%t", c.IsRational())

	knots := c.Knots()
	row("knots", "%v", []float64(knots))
	var mults []string
	for _, m := range knots.Multiplicities() {
		mults = append(mults, fmt.Sprintf("%g×%d", m.Knot, m.Mult))
	}
	row("breaks", "%s", strings.Join(mults, " "))
	start, end := c.Domain()
	row("domain", "[%g, %g]", start, end)

	lo, hi := c.ControlBounds()
	row("bounds", "%v .. %v", lo, hi)
	row("length", "%.6g", models.CurvePolyline(name, c, samples).Length())

	fmt.Fprintln(w, titleStyle.Render("control points"))
	for i, p := range c.ControlPoints() {
		row(fmt.Sprintf("  %d", i), "%v", p)
	}
}

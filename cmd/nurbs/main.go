// nurbs - NURBS curve toolkit
// Inspect, transform, export and view NURBS curves from YAML, CBOR or glTF
// files.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/nurbs/pkg/models"
	"github.com/taigrr/nurbs/pkg/nurbs"
)

// options holds the flags shared by every command.
type options struct {
	verbose bool
	degree  int
	samples int

	logger *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(os.Stderr)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "nurbs",
		Short: "Inspect, transform and view NURBS curves",
		Long: `nurbs loads a curve from a .yaml definition, a .cbor encoding or the
first line primitive of a .glb/.gltf file and inspects, transforms, exports
or displays it.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.logger = newLogger(logOut, opts.verbose)
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output")
	flags.IntVarP(&opts.degree, "degree", "d", 3, "degree for glTF control polygons and definitions without one")
	flags.IntVarP(&opts.samples, "samples", "n", 256, "tessellation samples")

	root.AddCommand(
		newInfoCmd(opts),
		newExportCmd(opts),
		newPNGCmd(opts),
		newViewCmd(opts),
	)
	return root
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *options) load(path string) (string, *nurbs.Curve, error) {
	name, c, err := models.LoadCurve(path, o.degree)
	if err != nil {
		o.logger.Debug("load failed", "path", path, "error", err)
		return "", nil, err
	}
	o.logger.Debug("loaded curve",
		"path", path,
		"name", name,
		"degree", c.Degree(),
		"points", c.Len(),
		"rational", c.IsRational(),
	)
	return name, c, nil
}

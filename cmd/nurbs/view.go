package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/nurbs/pkg/models"
	"github.com/taigrr/nurbs/pkg/nurbs"
	"github.com/taigrr/nurbs/pkg/render"
)

const viewControls = `Controls:
  Mouse drag  - Orbit
  Scroll, +/- - Zoom in/out
  W/S/A/D     - Pitch and yaw
  Space       - Random spin
  Tab/Shift+Tab - Select control point
  ] / [       - Raise / lower the selected weight
  0           - Restore loaded weights
  G           - Toggle grid and axes
  C           - Toggle control polygon
  P           - Save a PNG screenshot
  R           - Reset view
  ?           - Toggle HUD overlay
  Esc, Q      - Quit`

func newViewCmd(opts *options) *cobra.Command {
	var (
		fps int
		bg  string
	)
	cmd := &cobra.Command{
		Use:   "view <curve>",
		Short: "Orbit a curve in the terminal and edit its weights",
		Long:  "Render a curve and its control polygon with half-block graphics.\n\n" + viewControls,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bgColor, err := parseRGB(bg)
			if err != nil {
				return err
			}
			if fps <= 0 {
				return fmt.Errorf("--fps must be positive, got %d", fps)
			}
			name, c, err := opts.load(args[0])
			if err != nil {
				return err
			}
			return runView(cmd.Context(), opts, name, c, fps, bgColor)
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 60, "target frames per second")
	cmd.Flags().StringVar(&bg, "bg", "30,30,40", "background color (R,G,B)")
	return cmd
}

func parseRGB(s string) (render.Color, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err != nil {
		return render.Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return render.RGB(r, g, b), nil
}

func runView(ctx context.Context, opts *options, name string, c *nurbs.Curve, fps int, bg render.Color) error {
	// Center and scale the curve into a 2 unit cube.
	c = c.Transform(models.FitTransform(2, models.ControlPolygon(name, c)))
	editor := NewWeightEditor(c, fps)
	curve := c
	opts.logger.Debug("starting viewer", "name", name, "fps", fps)

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	fb := render.NewFramebuffer(fbWidth, fbHeight)

	camera := render.NewCamera()
	camera.SetAspectRatio(float64(fbWidth) / float64(fbHeight))
	wf := render.NewWireframe(camera, fb)

	orbit := NewOrbitState(fps)
	hud := NewHUD(name)
	showHUD, showGrid, showCtrl := true, true, true
	var message string
	var messageUntil time.Time

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan uv.Event, 64)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	var mouseDown bool
	var lastMouseX, lastMouseY int
	const keyImpulse = 0.05

	handle := func(ev uv.Event) (quit bool) {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			width, height = ev.Width, ev.Height
			term.Erase()
			term.Resize(width, height)
			termRenderer = render.NewTerminalRenderer(term, width, height)
			fbWidth, fbHeight = termRenderer.FramebufferSize()
			fb = render.NewFramebuffer(fbWidth, fbHeight)
			wf = render.NewWireframe(camera, fb)
			camera.SetAspectRatio(float64(fbWidth) / float64(fbHeight))

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("escape", "ctrl+c", "q"):
				return true
			case ev.MatchString("w", "up"):
				orbit.ApplyImpulse(keyImpulse, 0)
			case ev.MatchString("s", "down"):
				orbit.ApplyImpulse(-keyImpulse, 0)
			case ev.MatchString("a", "left"):
				orbit.ApplyImpulse(0, -keyImpulse)
			case ev.MatchString("d", "right"):
				orbit.ApplyImpulse(0, keyImpulse)
			case ev.MatchString("space"):
				orbit.ApplyImpulse((rand.Float64()-0.5)*0.5, (rand.Float64()-0.5)*1.5)
			case ev.MatchString("tab"):
				editor.SelectNext(1)
			case ev.MatchString("shift+tab"):
				editor.SelectNext(-1)
			case ev.MatchString("]"):
				editor.ScaleSelected(1.25)
			case ev.MatchString("["):
				editor.ScaleSelected(1 / 1.25)
			case ev.MatchString("0"):
				editor.Reset()
			case ev.MatchString("+", "="):
				camera.Zoom(0.9)
			case ev.MatchString("-", "_"):
				camera.Zoom(1 / 0.9)
			case ev.MatchString("g"):
				showGrid = !showGrid
			case ev.MatchString("c"):
				showCtrl = !showCtrl
			case ev.MatchString("r"):
				orbit.Reset()
				camera.SetDistance(5)
			case ev.MatchString("p"):
				path := name + ".png"
				if err := fb.SavePNG(path); err != nil {
					message = err.Error()
				} else {
					message = "saved " + path
				}
				messageUntil = time.Now().Add(2 * time.Second)
			case ev.MatchString("?", "shift+/"):
				showHUD = !showHUD
			}

		case uv.MouseClickEvent:
			mouseDown = true
			lastMouseX, lastMouseY = ev.X, ev.Y

		case uv.MouseReleaseEvent:
			mouseDown = false

		case uv.MouseMotionEvent:
			if mouseDown {
				dx := ev.X - lastMouseX
				dy := ev.Y - lastMouseY
				orbit.ApplyImpulse(float64(dy)*0.03, float64(dx)*0.03)
				lastMouseX, lastMouseY = ev.X, ev.Y
			}

		case uv.MouseWheelEvent:
			switch ev.Button {
			case uv.MouseWheelUp:
				camera.Zoom(0.9)
			case uv.MouseWheelDown:
				camera.Zoom(1 / 0.9)
			}
		}
		return false
	}

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}
	const clearLine = "\x1b[2K"

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if handle(ev) {
				return nil
			}
			continue
		case <-ticker.C:
		}

		orbit.Update()
		camera.SetOrbit(orbit.Pitch.Position, orbit.Yaw.Position)
		if next, err := editor.Advance(curve, opts.logger); err != nil {
			message = err.Error()
			messageUntil = time.Now().Add(2 * time.Second)
		} else {
			curve = next
		}

		fb.Clear(bg)
		wf.ClearDepth()
		if showGrid {
			wf.DrawGrid(4, 0.5, -1.25, render.ColorGrid)
			wf.DrawAxes(0.5)
		}
		drawn := wf.DrawCurve(curve, opts.samples, render.ColorCurve)
		if showCtrl {
			wf.DrawControlPolygon(curve, render.ColorControl, render.ColorSelected, editor.Selected)
		}

		termRenderer.Render(fb)
		if err := termRenderer.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		hud.UpdateFPS()
		fmt.Print(moveTo(1, 1) + clearLine)
		fmt.Print(moveTo(height, 1) + clearLine)
		if showHUD {
			if time.Now().After(messageUntil) {
				message = ""
			}
			top, bottom := hud.Lines(width, hudView{
				Curve:    curve,
				Selected: editor.Selected,
				Target:   editor.Target(),
				ShowGrid: showGrid,
				ShowCtrl: showCtrl,
				Culled:   !drawn,
				Message:  message,
			})
			fmt.Print(moveTo(1, 1) + top)
			fmt.Print(moveTo(height, 1) + bottom)
		}
	}
}

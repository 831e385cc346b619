package main

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/nurbs/pkg/nurbs"
)

// RotationAxis tracks position and velocity for one rotation axis with spring decay
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity (for animating Velocity toward 0)
}

// NewRotationAxis creates an axis with harmonica spring for smooth velocity decay
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0 using spring
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// OrbitState drives the camera's pitch and yaw.
type OrbitState struct {
	Pitch, Yaw RotationAxis
	fps        int
}

func NewOrbitState(fps int) *OrbitState {
	o := &OrbitState{fps: fps}
	o.Reset()
	return o
}

func (o *OrbitState) Update() {
	o.Pitch.Update()
	o.Yaw.Update()
}

func (o *OrbitState) ApplyImpulse(pitch, yaw float64) {
	o.Pitch.Velocity += pitch
	o.Yaw.Velocity += yaw
}

// Reset returns to a slightly raised front view.
func (o *OrbitState) Reset() {
	o.Pitch = NewRotationAxis(o.fps)
	o.Yaw = NewRotationAxis(o.fps)
	o.Pitch.Position = 0.35
}

// WeightEditor animates control point weights toward edited targets and
// rebuilds the curve while they move.
type WeightEditor struct {
	base     *nurbs.Curve
	targets  []float64
	weights  []float64
	vels     []float64
	spring   harmonica.Spring
	Selected int
}

// Weight limits for editing.
const (
	minWeight = 0.05
	maxWeight = 20
)

func NewWeightEditor(c *nurbs.Curve, fps int) *WeightEditor {
	w := c.Weights()
	return &WeightEditor{
		base:    c,
		targets: append([]float64(nil), w...),
		weights: w,
		vels:    make([]float64, len(w)),
		spring:  harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.9),
	}
}

// SelectNext moves the selection by delta, wrapping around.
func (e *WeightEditor) SelectNext(delta int) {
	n := len(e.targets)
	e.Selected = ((e.Selected+delta)%n + n) % n
}

// ScaleSelected multiplies the selected target weight by f.
func (e *WeightEditor) ScaleSelected(f float64) {
	t := e.targets[e.Selected] * f
	e.targets[e.Selected] = math.Max(minWeight, math.Min(maxWeight, t))
}

// Reset restores the loaded weights.
func (e *WeightEditor) Reset() {
	e.targets = e.base.Weights()
}

// Target returns the target weight of the selected point.
func (e *WeightEditor) Target() float64 {
	return e.targets[e.Selected]
}

// Update advances the springs one frame and reports whether any weight moved.
func (e *WeightEditor) Update() bool {
	moved := false
	for i := range e.weights {
		if math.Abs(e.weights[i]-e.targets[i]) < 1e-6 && math.Abs(e.vels[i]) < 1e-6 {
			e.weights[i], e.vels[i] = e.targets[i], 0
			continue
		}
		w, v := e.spring.Update(e.weights[i], e.vels[i], e.targets[i])
		// Springs may overshoot; weights must stay non-negative.
		e.weights[i], e.vels[i] = math.Max(0, w), v
		moved = true
	}
	return moved
}

// Curve returns the base curve with the current animated weights.
func (e *WeightEditor) Curve() (*nurbs.Curve, error) {
	cps := e.base.ControlPoints()
	for i := range cps {
		cps[i].W = e.weights[i]
	}
	return nurbs.NewCurve(e.base.Degree(), e.base.Knots(), cps)
}

// Advance steps the springs and returns the curve to draw. A failed rebuild
// is logged and current is kept.
func (e *WeightEditor) Advance(current *nurbs.Curve, logger *slog.Logger) (*nurbs.Curve, error) {
	if !e.Update() {
		return current, nil
	}
	next, err := e.Curve()
	if err != nil {
		logger.Debug("rebuild curve", "error", err)
		return current, err
	}
	return next, nil
}

var (
	hudFPS    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FFF87")).Background(lipgloss.Color("#000000"))
	hudTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#000000"))
	hudStat   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FFFFF")).Background(lipgloss.Color("#000000"))
	hudStatus = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#000000"))
	hudHint   = lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#FFD75F")).Background(lipgloss.Color("#000000"))
)

// HUD renders an overlay with curve info and controls
type HUD struct {
	name      string
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

func NewHUD(name string) *HUD {
	return &HUD{name: name, fpsTime: time.Now()}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// hudView is what the HUD reports about the scene.
type hudView struct {
	Curve    *nurbs.Curve
	Selected int
	Target   float64
	ShowGrid bool
	ShowCtrl bool
	Culled   bool
	Message  string
}

// Lines returns the styled top and bottom HUD rows for a terminal width.
func (h *HUD) Lines(width int, v hudView) (top, bottom string) {
	fps := hudFPS.Render(fmt.Sprintf(" %.0f FPS ", h.fps))
	title := hudTitle.Render(" " + h.name + " ")
	stat := hudStat.Render(fmt.Sprintf(" p=%d n=%d ", v.Curve.Degree(), v.Curve.Len()))
	top = spread(width, fps, title, stat)

	check := func(b bool) string {
		if b {
			return "[✓]"
		}
		return "[ ]"
	}
	cp := v.Curve.ControlPoints()[v.Selected]
	status := hudStatus.Render(fmt.Sprintf(" #%d %v w=%.3g → %.3g  %s grid  %s control ",
		v.Selected, cp.Point(), cp.W, v.Target, check(v.ShowGrid), check(v.ShowCtrl)))
	hint := hudHint.Render(" tab: select  [ ]: weight ")
	if v.Message != "" {
		hint = hudHint.Render(" " + v.Message + " ")
	} else if v.Culled {
		hint = hudHint.Render(" curve out of view ")
	}
	bottom = spread(width, status, hint)
	return top, bottom
}

// spread lays styled cells out across width: first left, last right, the
// rest centered.
func spread(width int, parts ...string) string {
	if len(parts) == 0 {
		return ""
	}
	used := 0
	for _, p := range parts {
		used += lipgloss.Width(p)
	}
	gaps := len(parts) - 1
	if gaps == 0 || used >= width {
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}
	free := width - used
	out := parts[0]
	for i, p := range parts[1:] {
		pad := free / gaps
		if i < free%gaps {
			pad++
		}
		out += fmt.Sprintf("%*s", pad, "") + p
	}
	return out
}

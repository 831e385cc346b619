package render

import (
	"math"
	"testing"

	"github.com/taigrr/nurbs/pkg/math3d"
)

func TestCameraProjectTarget(t *testing.T) {
	cam := NewCamera()
	cam.SetTarget(math3d.V3(3, -2, 1))
	cam.SetOrbit(0.7, -1.2)

	x, y, depth, ok := cam.Project(cam.Target, 100, 60)
	if !ok {
		t.Fatal("target not projected")
	}
	if math.Abs(x-50) > 1e-9 || math.Abs(y-30) > 1e-9 {
		t.Errorf("target at (%v, %v), want screen center", x, y)
	}
	if math.Abs(depth-cam.Distance) > 1e-9 {
		t.Errorf("depth = %v, want %v", depth, cam.Distance)
	}
	if d := cam.Position().Distance(cam.Target); math.Abs(d-cam.Distance) > 1e-9 {
		t.Errorf("eye is %v from target, want %v", d, cam.Distance)
	}
}

func TestCameraOrbitClamp(t *testing.T) {
	cam := NewCamera()
	cam.SetOrbit(10, 0)
	if cam.Pitch >= math.Pi/2 {
		t.Errorf("pitch = %v, want below pi/2", cam.Pitch)
	}

	cam.Zoom(1000)
	if cam.Distance != MaxDistance {
		t.Errorf("distance = %v, want %v", cam.Distance, MaxDistance)
	}
	cam.Zoom(0)
	if cam.Distance != MinDistance {
		t.Errorf("distance = %v, want %v", cam.Distance, MinDistance)
	}
}

func TestWorldToScreenRejectsOutside(t *testing.T) {
	cam := NewCamera()
	if _, _, _, ok := cam.WorldToScreen(math3d.V3(0, 0, 10), 80, 48); ok {
		t.Error("point behind the eye reported visible")
	}
	if _, _, _, ok := cam.WorldToScreen(math3d.V3(100, 0, 0), 80, 48); ok {
		t.Error("point outside the view reported visible")
	}
	if _, _, _, ok := cam.WorldToScreen(math3d.V3(0, 0, 0), 80, 48); !ok {
		t.Error("target reported invisible")
	}
}

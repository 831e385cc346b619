package render

import (
	"math"

	"github.com/taigrr/nurbs/pkg/math3d"
)

// Camera orbits a target point at a fixed distance.
type Camera struct {
	Target   math3d.Vec3
	Distance float64

	// Orientation (radians)
	Pitch float64 // Elevation above the XZ plane
	Yaw   float64 // Rotation around the Y axis

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	// Cached matrices (computed on demand)
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
	viewProjDirty  bool
}

// Distance limits for Zoom.
const (
	MinDistance = 0.5
	MaxDistance = 50
)

// NewCamera creates a camera 5 units in front of the origin.
func NewCamera() *Camera {
	return &Camera{
		Distance:      5,
		FOV:           math.Pi / 3, // 60 degrees
		AspectRatio:   16.0 / 9.0,
		Near:          0.1,
		Far:           100,
		viewDirty:     true,
		projDirty:     true,
		viewProjDirty: true,
	}
}

// SetOrbit sets the pitch and yaw around the target. Pitch is clamped short
// of the poles.
func (c *Camera) SetOrbit(pitch, yaw float64) {
	const maxPitch = math.Pi/2 - 0.01
	c.Pitch = math.Max(-maxPitch, math.Min(maxPitch, pitch))
	c.Yaw = yaw
	c.viewDirty = true
	c.viewProjDirty = true
}

// SetTarget sets the point the camera orbits.
func (c *Camera) SetTarget(target math3d.Vec3) {
	c.Target = target
	c.viewDirty = true
	c.viewProjDirty = true
}

// Zoom multiplies the orbit distance by factor, within [MinDistance, MaxDistance].
func (c *Camera) Zoom(factor float64) {
	c.SetDistance(c.Distance * factor)
}

// SetDistance sets the orbit distance, within [MinDistance, MaxDistance].
func (c *Camera) SetDistance(d float64) {
	c.Distance = math.Max(MinDistance, math.Min(MaxDistance, d))
	c.viewDirty = true
	c.viewProjDirty = true
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
	c.viewProjDirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
	c.viewProjDirty = true
}

// Position returns the eye position in world space.
func (c *Camera) Position() math3d.Vec3 {
	return c.Target.Sub(c.Forward().Scale(c.Distance))
}

// Forward returns the viewing direction.
func (c *Camera) Forward() math3d.Vec3 {
	// Forward is -Z in camera space, rotated by yaw and pitch
	return math3d.V3(
		-math.Sin(c.Yaw)*math.Cos(c.Pitch),
		-math.Sin(c.Pitch),
		-math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.computeViewMatrix()
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewProjDirty {
		c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
		c.viewProjDirty = false
	}
	return c.viewProjMatrix
}

func (c *Camera) computeViewMatrix() {
	// View = Rotation * Translation(-eye)
	rot := math3d.RotateX(c.Pitch).Mul(math3d.RotateY(-c.Yaw))
	c.viewMatrix = rot.Mul(math3d.Translate(c.Position().Negate()))
}

// Project transforms a world point to screen coordinates. depth is the
// clip-space w, the distance along the view axis. ok is false for points
// at or behind the eye.
func (c *Camera) Project(world math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, ok bool) {
	clip := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(world, 1))
	if clip.W <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.PerspectiveDivide()
	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndc.Y) * 0.5 * float64(screenHeight) // Y is flipped
	return x, y, clip.W, true
}

// WorldToScreen is Project restricted to points inside the view volume.
func (c *Camera) WorldToScreen(world math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	clip := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(world, 1))
	if clip.W <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}
	return (ndc.X + 1) * 0.5 * float64(screenWidth), (1 - ndc.Y) * 0.5 * float64(screenHeight), clip.W, true
}

// Package camera provides the viewer used to place the near clip volume.
package camera

import (
	gomath "math"

	"github.com/Faultbox/stencil-shadows/pkg/math"
)

// Lens holds the perspective projection parameters.
type Lens struct {
	FovY   float32 // Vertical field of view, degrees
	Aspect float32
	Near   float32
	Far    float32
}

// DefaultLens matches the demo window: 60 degrees, 16:9.
func DefaultLens() Lens {
	return Lens{
		FovY:   60,
		Aspect: 16.0 / 9.0,
		Near:   1,
		Far:    1000,
	}
}

// Projection returns the perspective matrix for this lens.
func (l Lens) Projection() math.Mat4 {
	return math.Perspective(l.FovY*gomath.Pi/180, l.Aspect, l.Near, l.Far)
}

// Camera is a look-at viewer.
type Camera struct {
	Eye math.Vec3
	At  math.Vec3
	Up  math.Vec3
	Lens
}

// New creates a camera at eye looking at at, with +Y up and the default lens.
func New(eye, at math.Vec3) *Camera {
	return &Camera{
		Eye:  eye,
		At:   at,
		Up:   math.Vec3{Y: 1},
		Lens: DefaultLens(),
	}
}

// ViewMatrix returns the world-to-view matrix.
func (c *Camera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Eye, c.At, c.Up)
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() math.Mat4 {
	return c.Projection().Mul(c.ViewMatrix())
}

// Forward returns the unit viewing direction.
func (c *Camera) Forward() math.Vec3 {
	return c.At.Sub(c.Eye).Normalize()
}

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32

	Lens Lens
}

// NewOrbitCamera creates an orbit camera framing the demo scene.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Center:          math.Vec3{Y: 5},
		Distance:        60.0,
		RotationX:       0.35,
		RotationY:       0.0,
		MinDistance:     1.0,
		MaxDistance:     500.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		Lens:            DefaultLens(),
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// Camera returns a look-at snapshot of the current orbit position.
func (c *OrbitCamera) Camera() *Camera {
	return &Camera{
		Eye:  c.Position(),
		At:   c.Center,
		Up:   math.Vec3{Y: 1},
		Lens: c.Lens,
	}
}

// HandleDrag updates rotation based on a drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// HandleZoom updates distance based on a scroll delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// FitToBounds centers the camera on a bounding box and backs off far enough to see it.
func (c *OrbitCamera) FitToBounds(min, max math.Vec3) {
	c.Center = min.Add(max).Scale(0.5)

	c.Distance = max.Sub(min).Length()
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}

	c.RotationX = 0.6 // Look down at ~35 degrees
	c.RotationY = 0.0
}

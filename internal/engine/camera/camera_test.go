package camera

import (
	"testing"

	"github.com/Faultbox/stencil-shadows/pkg/math"
)

func near(a, b, eps float32) bool {
	d := a - b
	return d < eps && d > -eps
}

func TestCamera_ViewMatrix(t *testing.T) {
	c := New(math.Vec3{Z: 10}, math.Vec3{})
	view := c.ViewMatrix()

	// The look-at target lands on the -z axis in view space.
	p := view.TransformVec3(math.Vec3{})
	if !near(p.X, 0, 1e-5) || !near(p.Y, 0, 1e-5) || !near(p.Z, -10, 1e-5) {
		t.Errorf("target in view space = %v, want (0,0,-10)", p)
	}

	f := c.Forward()
	if !near(f.Z, -1, 1e-6) {
		t.Errorf("Forward() = %v, want -z", f)
	}
}

func TestLens_Projection(t *testing.T) {
	l := DefaultLens()
	proj := l.Projection()

	// A point on the near plane maps to NDC depth -1.
	clip := proj.MulVec4(math.Vec4{0, 0, -l.Near, 1})
	if z := clip[2] / clip[3]; !near(z, -1, 1e-4) {
		t.Errorf("near plane depth = %v, want -1", z)
	}
}

func TestOrbitCamera(t *testing.T) {
	c := NewOrbitCamera()
	c.RotationX = 0
	c.RotationY = 0
	c.Distance = 20

	pos := c.Position()
	want := c.Center.Add(math.Vec3{Z: 20})
	if pos.Distance(want) > 1e-4 {
		t.Errorf("Position() = %v, want %v", pos, want)
	}

	snap := c.Camera()
	if snap.Eye != pos || snap.At != c.Center || snap.Lens != c.Lens {
		t.Errorf("Camera() = %+v does not match orbit state", snap)
	}

	c.HandleDrag(0, 1e6)
	if c.RotationX != c.MaxPitch {
		t.Errorf("RotationX = %v, want clamp to %v", c.RotationX, c.MaxPitch)
	}

	c.HandleZoom(1e3)
	if c.Distance != c.MinDistance {
		t.Errorf("Distance = %v, want clamp to %v", c.Distance, c.MinDistance)
	}
}

func TestOrbitCamera_FitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	c.FitToBounds(math.Vec3{X: -10, Y: 0, Z: -10}, math.Vec3{X: 10, Y: 4, Z: 10})

	if c.Center != (math.Vec3{Y: 2}) {
		t.Errorf("Center = %v, want (0,2,0)", c.Center)
	}
	if c.Distance <= 20 {
		t.Errorf("Distance = %v, want past the box diagonal", c.Distance)
	}
}

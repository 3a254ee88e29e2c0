package shadow

import "github.com/Faultbox/stencil-shadows/pkg/math"

// Transform places an instance in the world: scale, then rotate X, Y, Z
// (radians), then translate.
type Transform struct {
	Scale       math.Vec3
	Rotation    math.Vec3
	Translation math.Vec3
}

// IdentityTransform returns a unit-scale transform at the origin.
func IdentityTransform() Transform {
	return Transform{Scale: math.Vec3{X: 1, Y: 1, Z: 1}}
}

// World returns the object-to-world matrix.
func (t Transform) World() math.Mat4 {
	return math.ScaleRotateTranslate(t.Scale, t.Rotation, t.Translation)
}

// ObjectLight brings a world-space light into object space by undoing the
// translation, the rotation and the scale in turn. The w component is kept,
// so directional lights (w=0) are only rotated and scaled.
func (t Transform) ObjectLight(light math.Vec4) math.Vec4 {
	inv := math.Scale(recip(t.Scale.X), recip(t.Scale.Y), recip(t.Scale.Z)).
		Mul(math.RotateZYX(-t.Rotation.X, -t.Rotation.Y, -t.Rotation.Z)).
		Mul(math.Translate(-t.Translation.X, -t.Translation.Y, -t.Translation.Z))
	return inv.MulVec4(light)
}

// MaxScale returns the largest scale axis.
func (t Transform) MaxScale() float32 {
	return t.Scale.MaxComponent()
}

func recip(x float32) float32 {
	if x == 0 {
		return 0
	}
	return 1 / x
}

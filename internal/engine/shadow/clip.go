package shadow

import (
	gomath "math"

	"github.com/Faultbox/stencil-shadows/internal/engine/model"
	"github.com/Faultbox/stencil-shadows/pkg/math"
)

// ClipSphereMargin is added to the instance scale when growing bounding
// spheres for the near clip test.
const ClipSphereMargin = 0.4

// NearPlaneDeadZone is the distance from the near plane within which the
// light is considered to lie on it.
const NearPlaneDeadZone = 0.1

// ClipVolume is the region between the camera near rectangle and a light.
// Any shadow volume touching it may be clipped by the near plane, so its
// caster needs depth-fail. Points inside have positive distance to every plane.
type ClipVolume struct {
	// Planes holds the four side planes, the near plane and the light plane.
	Planes [6]math.Plane
	// LightSide is 1 when the light is in front of the near plane, -1 when
	// behind and 0 inside the dead zone.
	LightSide int
	// Degenerate is set when the light lies on the near plane. Every caster
	// is then treated as intersecting.
	Degenerate bool
}

// NewNearClipVolume builds the clip volume for a world-space light
// (w=1 point, w=0 direction towards the light) and a right-handed camera
// looking down -z in view space.
func NewNearClipVolume(light math.Vec4, view math.Mat4, fovYDeg, aspect, near float32) *ClipVolume {
	cv := &ClipVolume{}

	lv := view.MulVec4(light)
	d := -lv[2] - near*lv[3]
	switch {
	case d > NearPlaneDeadZone:
		cv.LightSide = 1
	case d < -NearPlaneDeadZone:
		cv.LightSide = -1
	default:
		cv.Degenerate = true
		return cv
	}

	invView := view.Inverse()
	t := float32(gomath.Tan(float64(fovYDeg)*gomath.Pi/180/2)) * near
	r := t * aspect
	cornersV := [4]math.Vec3{
		{X: r, Y: t, Z: -near},
		{X: -r, Y: t, Z: -near},
		{X: -r, Y: -t, Z: -near},
		{X: r, Y: -t, Z: -near},
	}

	var corners [4]math.Vec3
	var center math.Vec3
	for i, c := range cornersV {
		corners[i] = invView.TransformVec3(c)
		center = center.Add(corners[i])
	}
	center = center.Scale(0.25)

	lightPos := light.XYZ()
	w := light.W()

	var interior math.Vec3
	if w != 0 {
		lightPos = lightPos.Scale(1 / w)
		interior = center.Add(lightPos).Scale(0.5)
	} else {
		interior = center.Add(lightPos.Normalize().Scale(near))
	}

	for i := 0; i < 4; i++ {
		prev := corners[(i+3)%4]
		edge := corners[i].Sub(prev)
		toLight := light.XYZ().Sub(corners[i].Scale(w))
		cv.Planes[i] = orientTowards(math.PlaneFromNormalPoint(edge.Cross(toLight), corners[i]), interior)
	}

	forward := invView.TransformDirection(math.Vec3{Z: -1})
	cv.Planes[4] = math.PlaneFromNormalPoint(forward.Scale(float32(cv.LightSide)), center)

	if w != 0 {
		toRect := center.Sub(lightPos)
		if toRect.Length() > 0 {
			cv.Planes[5] = math.PlaneFromNormalPoint(toRect, lightPos)
		}
	}

	return cv
}

// orientTowards flips p so that pt is on its positive side.
func orientTowards(p math.Plane, pt math.Vec3) math.Plane {
	if p.Distance(pt) < 0 {
		return p.Flip()
	}
	return p
}

// SphereInside reports whether a sphere is inside or intersects the volume.
func (cv *ClipVolume) SphereInside(center math.Vec3, radius float32) bool {
	if cv.Degenerate {
		return true
	}
	for _, p := range cv.Planes {
		if p.Distance(center)+radius < 0 {
			return false
		}
	}
	return true
}

// Test reports whether any group of mesh, placed with the given scale and
// translation, touches the volume. True means the instance needs depth-fail.
// Spheres are scaled by the largest axis plus ClipSphereMargin.
func (cv *ClipVolume) Test(mesh *model.Mesh, scale, translate math.Vec3) bool {
	if cv.Degenerate {
		return true
	}
	s := scale.MaxComponent()
	for _, g := range mesh.Groups {
		center := g.Sphere.Center.Scale(s).Add(translate)
		radius := g.Sphere.Radius * (s + ClipSphereMargin)
		if cv.SphereInside(center, radius) {
			return true
		}
	}
	return false
}

// Decide returns the technique decision for an instance.
func (cv *ClipVolume) Decide(mesh *model.Mesh, t Transform) TechniqueDecision {
	return TechniqueDecision{UseDepthFail: cv.Test(mesh, t.Scale, t.Translation)}
}

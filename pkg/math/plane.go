package math

// Plane is the plane equation N.p + D = 0.
// Points with a positive signed distance lie on the side the normal points to.
type Plane struct {
	Normal Vec3
	D      float32
}

// PlaneFromPoints returns the plane through a, b and c with normal
// normalize((b-a) x (c-b)).
// A degenerate triangle yields a zero normal.
func PlaneFromPoints(a, b, c Vec3) Plane {
	n := b.Sub(a).Cross(c.Sub(b)).Normalize()
	return Plane{Normal: n, D: -n.Dot(a)}
}

// PlaneFromNormalPoint returns the plane with normal n through p.
// n is normalized first.
func PlaneFromNormalPoint(n, p Vec3) Plane {
	n = n.Normalize()
	return Plane{Normal: n, D: -n.Dot(p)}
}

// Distance returns the signed distance from p to the plane.
func (p Plane) Distance(pt Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// DotVec4 evaluates the plane against a homogeneous point:
// N.xyz + D*w. For a direction (w=0) only the normal term remains.
func (p Plane) DotVec4(v Vec4) float32 {
	return p.Normal.X*v[0] + p.Normal.Y*v[1] + p.Normal.Z*v[2] + p.D*v[3]
}

// Flip returns the plane with the opposite orientation.
func (p Plane) Flip() Plane {
	return Plane{Normal: p.Normal.Scale(-1), D: -p.D}
}

// Vec4 returns the plane as (nx, ny, nz, d).
func (p Plane) Vec4() Vec4 {
	return Vec4{p.Normal.X, p.Normal.Y, p.Normal.Z, p.D}
}

package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Plane indices shared by Frustum and froxel plane sets.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
	PlaneCount
)

// Plane is a half-space boundary stored as (nx, ny, nz, d) with the normal
// pointing away from the volume it bounds. A point p is outside the volume
// when dot(n, p) + d > 0.
type Plane mgl32.Vec4

// NewPlane builds a plane from an outward normal and offset d.
func NewPlane(normal mgl32.Vec3, d float32) Plane {
	return Plane{normal[0], normal[1], normal[2], d}
}

// Normal returns the plane normal (nx, ny, nz).
func (p Plane) Normal() mgl32.Vec3 {
	return mgl32.Vec3{p[0], p[1], p[2]}
}

// D returns the plane offset.
func (p Plane) D() float32 {
	return p[3]
}

// SignedDistance returns dot(n, pt) + d. Positive means pt is on the outside.
func (p Plane) SignedDistance(pt mgl32.Vec3) float32 {
	return p[0]*pt[0] + p[1]*pt[1] + p[2]*pt[2] + p[3]
}

// Normalized returns the plane scaled so its normal has unit length.
func (p Plane) Normalized() Plane {
	l := math32.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])
	if l == 0 {
		return p
	}
	inv := 1 / l
	return Plane{p[0] * inv, p[1] * inv, p[2] * inv, p[3] * inv}
}

// Negated returns the plane facing the opposite way.
func (p Plane) Negated() Plane {
	return Plane{-p[0], -p[1], -p[2], -p[3]}
}

// IntersectsBox reports whether a box touches the convex volume bounded by
// planes. The test checks the box's support point against each plane only
// (no edge cross-products), so it is conservative: it never misses a true
// overlap but may report near-misses beyond the volume's corners as hits.
func IntersectsBox(planes []Plane, b Box) bool {
	for _, p := range planes {
		dist := p.SignedDistance(b.Center)
		support := math32.Abs(p[0])*b.HalfExtent[0] +
			math32.Abs(p[1])*b.HalfExtent[1] +
			math32.Abs(p[2])*b.HalfExtent[2]
		if dist > support {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether a sphere touches the convex volume bounded
// by planes. Same conservative 6-axis test as IntersectsBox.
func IntersectsSphere(planes []Plane, s Sphere) bool {
	for _, p := range planes {
		if p.SignedDistance(s.Center) > s.Radius {
			return false
		}
	}
	return true
}

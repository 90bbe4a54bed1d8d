package geometry

import "github.com/go-gl/mathgl/mgl32"

// Frustum holds the six planes of a view frustum extracted from a projection
// (or projection*view) matrix, ordered LEFT, RIGHT, BOTTOM, TOP, NEAR, FAR.
// Planes face outward: a point with a positive signed distance to any plane
// is outside the frustum. A Frustum is immutable once constructed; rebuild it
// whenever the camera changes instead of mutating shared state.
type Frustum struct {
	planes [PlaneCount]Plane
}

// NewFrustum extracts the six frustum planes from a column-vector projection
// matrix using the Gribb/Hartmann row combinations, negated so normals point
// outward, then normalized.
func NewFrustum(pv mgl32.Mat4) Frustum {
	row := func(i int) mgl32.Vec4 {
		return mgl32.Vec4{pv.At(i, 0), pv.At(i, 1), pv.At(i, 2), pv.At(i, 3)}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	var f Frustum
	f.planes[PlaneLeft] = Plane(r3.Add(r0)).Negated().Normalized()
	f.planes[PlaneRight] = Plane(r3.Sub(r0)).Negated().Normalized()
	f.planes[PlaneBottom] = Plane(r3.Add(r1)).Negated().Normalized()
	f.planes[PlaneTop] = Plane(r3.Sub(r1)).Negated().Normalized()
	f.planes[PlaneNear] = Plane(r3.Add(r2)).Negated().Normalized()
	f.planes[PlaneFar] = Plane(r3.Sub(r2)).Negated().Normalized()
	return f
}

// Plane returns the plane at index i (use the Plane* constants).
func (f *Frustum) Plane(i int) Plane {
	return f.planes[i]
}

// Planes returns all six planes in LEFT..FAR order.
func (f *Frustum) Planes() []Plane {
	return f.planes[:]
}

// Intersects reports whether the box touches the frustum. Conservative:
// a box that fully contains the frustum also reports true.
func (f *Frustum) Intersects(b Box) bool {
	return IntersectsBox(f.planes[:], b)
}

// IntersectsSphere reports whether the sphere touches the frustum.
func (f *Frustum) IntersectsSphere(s Sphere) bool {
	return IntersectsSphere(f.planes[:], s)
}

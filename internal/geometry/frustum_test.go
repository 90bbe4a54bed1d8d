package geometry

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFrustumIntersectsBox(t *testing.T) {
	f := NewFrustum(mgl32.Frustum(-1, 1, -1, 1, 1, 100))

	// A cube of size 1 moved around the frustum.
	box := NewCube(mgl32.Vec3{}, 0.5)

	tests := []struct {
		name   string
		center mgl32.Vec3
		want   bool
	}{
		{"fully inside", mgl32.Vec3{0, 0, -10}, true},
		{"clipped by near plane", mgl32.Vec3{0, 0, -1}, true},
		{"clipped by far plane", mgl32.Vec3{0, 0, -100}, true},

		// Clipped by one or several side planes for any z, but still visible.
		{"clipped left", mgl32.Vec3{-10, 0, -10}, true},
		{"clipped right", mgl32.Vec3{10, 0, -10}, true},
		{"clipped bottom", mgl32.Vec3{0, -10, -10}, true},
		{"clipped top", mgl32.Vec3{0, 10, -10}, true},
		{"clipped bottom-left", mgl32.Vec3{-10, -10, -10}, true},
		{"clipped top-right", mgl32.Vec3{10, 10, -10}, true},
		{"clipped bottom-right", mgl32.Vec3{10, -10, -10}, true},
		{"clipped top-left", mgl32.Vec3{-10, 10, -10}, true},

		{"behind near plane", mgl32.Vec3{0, 0, 0}, false},
		{"beyond far plane", mgl32.Vec3{0, 0, -101}, false},
		{"outside left plane", mgl32.Vec3{-1.51, 0, -0.5}, false},

		{"slightly inside left plane", mgl32.Vec3{-1.49, 0, -0.5}, true},
		{"on the left edge at depth", mgl32.Vec3{-100, 0, -100}, true},

		// The support-point test only uses the 6 face normals, so boxes just
		// past the lateral extent at large depth classify as visible. These
		// false positives are part of the contract.
		{"false positive near far corner", mgl32.Vec3{-100.51, 0, -100}, true},
		{"false positive deeper in corner zone", mgl32.Vec3{-100.99, 0, -100}, true},
		{"past the corner zone", mgl32.Vec3{-101.01, 0, -100}, false},
	}

	for _, tc := range tests {
		if got := f.Intersects(box.TranslateTo(tc.center)); got != tc.want {
			t.Errorf("%s: Intersects(box at %v) = %v, want %v", tc.name, tc.center, got, tc.want)
		}
	}

	// A box that entirely contains the frustum must intersect.
	if !f.Intersects(NewCube(mgl32.Vec3{}, 200)) {
		t.Errorf("box containing the whole frustum should intersect")
	}
}

func TestFrustumIntersectsSphere(t *testing.T) {
	f := NewFrustum(mgl32.Frustum(-1, 1, -1, 1, 1, 100))

	sphere := NewSphere(mgl32.Vec3{}, 0.5)

	tests := []struct {
		name   string
		center mgl32.Vec3
		want   bool
	}{
		{"fully inside", mgl32.Vec3{0, 0, -10}, true},
		{"clipped by near plane", mgl32.Vec3{0, 0, -1}, true},
		{"clipped by far plane", mgl32.Vec3{0, 0, -100}, true},

		{"clipped left", mgl32.Vec3{-10, 0, -10}, true},
		{"clipped right", mgl32.Vec3{10, 0, -10}, true},
		{"clipped bottom", mgl32.Vec3{0, -10, -10}, true},
		{"clipped top", mgl32.Vec3{0, 10, -10}, true},
		{"clipped bottom-left", mgl32.Vec3{-10, -10, -10}, true},
		{"clipped top-right", mgl32.Vec3{10, 10, -10}, true},

		{"behind near plane", mgl32.Vec3{0, 0, 0}, false},
		{"beyond far plane", mgl32.Vec3{0, 0, -101}, false},
		{"outside left plane", mgl32.Vec3{-1.51, 0, -0.5}, false},

		{"on the left edge at depth", mgl32.Vec3{-100, 0, -100}, true},
	}

	for _, tc := range tests {
		if got := f.IntersectsSphere(sphere.TranslateTo(tc.center)); got != tc.want {
			t.Errorf("%s: IntersectsSphere(sphere at %v) = %v, want %v", tc.name, tc.center, got, tc.want)
		}
	}

	// A sphere that entirely contains the frustum must intersect.
	if !f.IntersectsSphere(NewSphere(mgl32.Vec3{}, 200)) {
		t.Errorf("sphere containing the whole frustum should intersect")
	}
}

func TestFrustumPlaneExtraction(t *testing.T) {
	// Symmetric 90-degree frustum: side planes are 45-degree planes through
	// the origin with outward normals.
	f := NewFrustum(mgl32.Frustum(-1, 1, -1, 1, 1, 100))

	const s = 0.70710678 // sqrt(2)/2
	wantLeft := Plane{-s, 0, s, 0}
	left := f.Plane(PlaneLeft)
	for i := range wantLeft {
		if diff := left[i] - wantLeft[i]; diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("LEFT plane = %v, want %v", left, wantLeft)
		}
	}

	// Normals must be unit length.
	for i := 0; i < PlaneCount; i++ {
		n := f.Plane(i).Normal().Len()
		if n < 1-1e-5 || n > 1+1e-5 {
			t.Errorf("plane %d normal length = %v, want 1", i, n)
		}
	}

	// Points inside are inside of every plane.
	inside := mgl32.Vec3{0, 0, -10}
	for i := 0; i < PlaneCount; i++ {
		if d := f.Plane(i).SignedDistance(inside); d > 0 {
			t.Errorf("plane %d: inside point has positive distance %v", i, d)
		}
	}
}

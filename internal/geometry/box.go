package geometry

import "github.com/go-gl/mathgl/mgl32"

// Box is an axis-aligned box given by its center and half extent.
// Boxes are immutable value types; methods return new boxes.
type Box struct {
	Center     mgl32.Vec3
	HalfExtent mgl32.Vec3
}

// NewBox returns a box centered at center with the given half extent.
func NewBox(center, halfExtent mgl32.Vec3) Box {
	return Box{Center: center, HalfExtent: halfExtent}
}

// NewCube returns a box with the same half extent on all three axes.
func NewCube(center mgl32.Vec3, halfExtent float32) Box {
	return Box{Center: center, HalfExtent: mgl32.Vec3{halfExtent, halfExtent, halfExtent}}
}

// TranslateTo returns a copy of the box moved to a new center.
func (b Box) TranslateTo(center mgl32.Vec3) Box {
	return Box{Center: center, HalfExtent: b.HalfExtent}
}

// Sphere is a bounding sphere. Immutable value type.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// NewSphere returns a sphere at center with the given radius.
func NewSphere(center mgl32.Vec3, radius float32) Sphere {
	return Sphere{Center: center, Radius: radius}
}

// TranslateTo returns a copy of the sphere moved to a new center.
func (s Sphere) TranslateTo(center mgl32.Vec3) Sphere {
	return Sphere{Center: center, Radius: s.Radius}
}

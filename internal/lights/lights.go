// Package lights holds the per-frame light table consumed by the froxelizer.
package lights

import "github.com/go-gl/mathgl/mgl32"

// Type identifies the kind of light source.
type Type uint8

const (
	// TypePoint emits in all directions from a position, attenuating with
	// distance up to its influence radius.
	TypePoint Type = iota

	// TypeSpot emits in a cone from a position along a direction. For
	// froxelization it is bounded by the same influence sphere as a point
	// light; the cone only matters at shading time.
	TypeSpot

	// TypeDirectional has no position and affects the whole view. It never
	// enters the per-frame SoA: only positional lights are froxelized.
	TypeDirectional
)

// SoA is the structure-of-arrays table of the frame's positional lights.
//
// Index 0 is a reserved sentinel and never describes a real light; valid
// entries start at index 1. The producer (the light manager) maintains this
// invariant — consumers such as the froxelizer skip index 0 without
// re-checking it. The table is appended to while building a frame and is
// read-only input afterwards.
type SoA struct {
	// PositionRadius holds the world-space position in xyz and the radius of
	// influence in w.
	PositionRadius []mgl32.Vec4

	// Direction is the cone axis for spot lights, zero for point lights.
	Direction []mgl32.Vec3

	// Handle is the opaque identifier of the light in its owning manager.
	Handle []uint32

	// Kind discriminates point from spot entries.
	Kind []Type
}

// NewSoA returns a table seeded with the reserved sentinel at index 0.
func NewSoA() *SoA {
	s := &SoA{}
	s.appendRaw(mgl32.Vec4{}, mgl32.Vec3{}, 0, TypePoint)
	return s
}

// Append adds a light and returns its index (always >= 1).
func (s *SoA) Append(posRadius mgl32.Vec4, dir mgl32.Vec3, handle uint32, kind Type) int {
	s.appendRaw(posRadius, dir, handle, kind)
	return len(s.PositionRadius) - 1
}

// Reset drops every light but keeps the sentinel, ready for the next frame.
func (s *SoA) Reset() {
	s.PositionRadius = s.PositionRadius[:1]
	s.Direction = s.Direction[:1]
	s.Handle = s.Handle[:1]
	s.Kind = s.Kind[:1]
}

// Len returns the number of entries including the sentinel.
func (s *SoA) Len() int {
	return len(s.PositionRadius)
}

func (s *SoA) appendRaw(posRadius mgl32.Vec4, dir mgl32.Vec3, handle uint32, kind Type) {
	s.PositionRadius = append(s.PositionRadius, posRadius)
	s.Direction = append(s.Direction, dir)
	s.Handle = append(s.Handle, handle)
	s.Kind = append(s.Kind, kind)
}

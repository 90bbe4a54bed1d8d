// Package froxel subdivides the camera frustum into a 3D grid of sub-frusta
// ("froxels") and assigns the frame's lights to the froxels they influence,
// producing two compact buffers the GPU consumes directly: a per-froxel
// {offset, counts} table and a flat light-index record buffer.
package froxel

import (
	"render-engine/internal/geometry"
)

const (
	// TileSizePX is the edge length in pixels of one square screen tile.
	// Every screen pixel maps to exactly one tile column and row; the last
	// column/row is clipped to the viewport edge.
	TileSizePX = 32

	// MaxFroxelCount bounds countX*countY*countZ, driven by the size of the
	// GPU-side froxel table. When a configuration would exceed it, the depth
	// slice count is reduced to fit.
	MaxFroxelCount = 8192

	// DefaultCountZ is the depth slice count used until SetOptions says
	// otherwise.
	DefaultCountZ = 16

	// DefaultMaxPerFroxel caps how many lights of each type a single froxel
	// accepts per frame. Lights past the cap are dropped for that froxel,
	// never reported as an error: losing a light contribution beats stalling
	// the frame.
	DefaultMaxPerFroxel = 64

	// maxPerFroxelLimit is the hard ceiling of the per-froxel cap; counts are
	// stored as uint8 in the froxel table.
	maxPerFroxelLimit = 255

	// RecordBufferEntries is the capacity of the compacted record buffer.
	RecordBufferEntries = 16384
)

// Viewport is the window region the grid tiles, in pixels.
type Viewport struct {
	X, Y, Width, Height int
}

// Froxel is one cell of the grid: its coordinates and its six bounding
// planes, in the same view space and plane order as the camera Frustum.
// Froxels are generated from the cached boundary tables, never mutated.
type Froxel struct {
	X, Y, Z int
	Planes  [geometry.PlaneCount]geometry.Plane
}

// FroxelEntry is one row of the per-froxel GPU table: where the froxel's
// light records start in the record buffer and how many of each type follow.
// Point-light records always precede spot-light records.
type FroxelEntry struct {
	Offset     uint16
	PointCount uint8
	SpotCount  uint8
}

// Stats summarizes the last froxelization pass. Truncation is silent in the
// output buffers; the counters here exist for diagnostics overlays and logs.
type Stats struct {
	CountX, CountY, CountZ int
	LightCount             int // real lights examined (sentinel excluded)
	RecordCount            int // records written after compaction
	TruncatedFroxels       int // froxels that hit the per-froxel cap
	DroppedRecords         int // records lost to record-buffer capacity
}

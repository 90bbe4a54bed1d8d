package froxel

import (
	"fmt"
	"runtime"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"render-engine/internal/geometry"
)

// Froxelizer builds the froxel grid for the current camera and assigns
// lights to it. One instance serves one view; Prepare and FroxelizeLights
// are driven by that view's frame-preparation thread and must not be called
// concurrently on the same instance.
//
// The grid and its boundary plane tables are cached across frames and only
// rebuilt when the viewport, projection, light depth range, or options
// change. Between rebuilds they are read-only.
type Froxelizer struct {
	// options
	countZOpt    int
	zLightFarOpt float32
	maxPerFroxel int
	workers      int

	// camera inputs of the cached grid
	vp         Viewport
	proj       mgl32.Mat4
	zLightNear float32
	zLightFar  float32
	valid      bool

	// cached grid: per-axis boundary tables. Froxel planes are assembled
	// from these instead of being re-derived from matrices per froxel.
	countX, countY, countZ int
	planesX                []geometry.Plane // countX+1 boundaries, facing -x
	planesY                []geometry.Plane // countY+1 boundaries, facing -y
	distancesZ             []float32        // countZ+1 view distances
	p00, p11               float32

	// outputs of the last froxelization, reused across frames
	entries []FroxelEntry
	records []uint16
	stats   Stats

	// GPU staging
	froxelRing    *ringState
	recordRing    *ringState
	entryScratch  []byte
	recordScratch []byte
}

// New returns a froxelizer with default options.
func New() *Froxelizer {
	return &Froxelizer{
		countZOpt:    DefaultCountZ,
		maxPerFroxel: DefaultMaxPerFroxel,
	}
}

// SetOptions configures the depth slicing: countZ slices covering light
// influence out to zLightFar. Fails fast on caller mistakes; capacity
// pressure (too many froxels) is handled by Prepare, not here.
// Changing options invalidates the cached grid.
func (fz *Froxelizer) SetOptions(countZ int, zLightFar float32) error {
	if countZ < 1 {
		return fmt.Errorf("froxel: countZ must be >= 1, got %d", countZ)
	}
	if zLightFar <= 0 {
		return fmt.Errorf("froxel: zLightFar must be > 0, got %v", zLightFar)
	}
	fz.countZOpt = countZ
	fz.zLightFarOpt = zLightFar
	fz.valid = false
	return nil
}

// SetMaxPerFroxel caps how many lights of each type one froxel accepts
// (1..255). Invalidates nothing: the cap only matters during froxelization.
func (fz *Froxelizer) SetMaxPerFroxel(n int) error {
	if n < 1 || n > maxPerFroxelLimit {
		return fmt.Errorf("froxel: per-froxel cap must be in 1..%d, got %d", maxPerFroxelLimit, n)
	}
	fz.maxPerFroxel = n
	return nil
}

// SetWorkers fixes the narrow-phase worker count; 0 means one per CPU.
func (fz *Froxelizer) SetWorkers(n int) {
	if n < 0 {
		n = 0
	}
	fz.workers = n
}

// Prepare (re)builds the froxel grid for a camera. The light depth range
// runs from zLightNear to the configured zLightFar (falling back to the
// camera's zLightFar when SetOptions was never called with one). When the
// inputs match the cached grid, Prepare returns immediately.
func (fz *Froxelizer) Prepare(vp Viewport, proj mgl32.Mat4, zLightNear, zLightFar float32) error {
	if vp.Width <= 0 || vp.Height <= 0 {
		return fmt.Errorf("froxel: viewport must be non-empty, got %dx%d", vp.Width, vp.Height)
	}
	far := fz.zLightFarOpt
	if far <= 0 {
		far = zLightFar
	}
	if zLightNear <= 0 || zLightNear >= far {
		return fmt.Errorf("froxel: need 0 < zLightNear < zLightFar, got [%v, %v]", zLightNear, far)
	}

	if fz.valid && vp == fz.vp && proj == fz.proj &&
		zLightNear == fz.zLightNear && far == fz.zLightFar {
		return nil
	}

	countX := (vp.Width + TileSizePX - 1) / TileSizePX
	countY := (vp.Height + TileSizePX - 1) / TileSizePX
	countZ := fz.countZOpt
	if countX*countY*countZ > MaxFroxelCount {
		// Degrade by flattening the depth slicing rather than failing the
		// frame. The X/Y tiling is fixed by the viewport.
		countZ = MaxFroxelCount / (countX * countY)
		if countZ < 1 {
			return fmt.Errorf("froxel: viewport %dx%d exceeds the froxel budget (%d)",
				vp.Width, vp.Height, MaxFroxelCount)
		}
	}

	fz.vp = vp
	fz.proj = proj
	fz.zLightNear = zLightNear
	fz.zLightFar = far
	fz.countX, fz.countY, fz.countZ = countX, countY, countZ
	fz.p00 = proj.At(0, 0)
	fz.p11 = proj.At(1, 1)

	fz.buildBoundaryPlanes()
	fz.buildSliceDistances()
	fz.valid = true
	return nil
}

// buildBoundaryPlanes derives the side-plane tables in closed form from the
// projection's slope terms. Boundary i of the X table is the plane through
// the view origin containing the vertical tile edge at pixel column
// i*TileSizePX (clamped to the viewport), facing -x; Y likewise facing -y.
// The outermost boundaries land exactly on the camera frustum's side planes.
func (fz *Froxelizer) buildBoundaryPlanes() {
	fz.planesX = resize(fz.planesX, fz.countX+1)
	for i := 0; i <= fz.countX; i++ {
		px := min(i*TileSizePX, fz.vp.Width)
		ndc := 2*float32(px)/float32(fz.vp.Width) - 1
		s := ndc / fz.p00 // view-space slope: x = s * distance
		fz.planesX[i] = geometry.Plane{-1, 0, -s, 0}.Normalized()
	}

	fz.planesY = resize(fz.planesY, fz.countY+1)
	for j := 0; j <= fz.countY; j++ {
		py := min(j*TileSizePX, fz.vp.Height)
		ndc := 2*float32(py)/float32(fz.vp.Height) - 1
		t := ndc / fz.p11
		fz.planesY[j] = geometry.Plane{0, -1, -t, 0}.Normalized()
	}
}

// buildSliceDistances fills the Z slice boundaries. Slice 0 spans from the
// camera (distance 0) to zLightNear so nearby lights are never dropped; the
// remaining boundaries follow an exponential distribution, which spends
// resolution close to the viewer where light variety is highest. The first
// and last interior boundaries are pinned to zLightNear and zLightFar
// exactly.
func (fz *Froxelizer) buildSliceDistances() {
	fz.distancesZ = resizeF(fz.distancesZ, fz.countZ+1)
	fz.distancesZ[0] = 0
	fz.distancesZ[fz.countZ] = fz.zLightFar
	if fz.countZ == 1 {
		return
	}
	linearizer := math32.Log2(fz.zLightFar/fz.zLightNear) / float32(fz.countZ-1)
	for i := 1; i < fz.countZ; i++ {
		fz.distancesZ[i] = fz.zLightFar * math32.Exp2(float32(i-fz.countZ)*linearizer)
	}
	fz.distancesZ[1] = fz.zLightNear
}

// CountX returns the number of tile columns.
func (fz *Froxelizer) CountX() int { return fz.countX }

// CountY returns the number of tile rows.
func (fz *Froxelizer) CountY() int { return fz.countY }

// CountZ returns the number of depth slices.
func (fz *Froxelizer) CountZ() int { return fz.countZ }

// FroxelCount returns the total number of froxels in the grid.
func (fz *Froxelizer) FroxelCount() int { return fz.countX * fz.countY * fz.countZ }

// FroxelAt assembles froxel (x, y, z) from the cached boundary tables.
// Side planes pass through the view origin; near/far planes are axis-aligned
// in view-space Z at the slice boundaries.
func (fz *Froxelizer) FroxelAt(x, y, z int) Froxel {
	f := Froxel{X: x, Y: y, Z: z}
	f.Planes[geometry.PlaneLeft] = fz.planesX[x]
	f.Planes[geometry.PlaneRight] = fz.planesX[x+1].Negated()
	f.Planes[geometry.PlaneBottom] = fz.planesY[y]
	f.Planes[geometry.PlaneTop] = fz.planesY[y+1].Negated()
	f.Planes[geometry.PlaneNear] = geometry.Plane{0, 0, 1, fz.distancesZ[z]}
	f.Planes[geometry.PlaneFar] = geometry.Plane{0, 0, -1, -fz.distancesZ[z+1]}
	return f
}

// Entries returns the per-froxel table from the last FroxelizeLights call.
// Valid until the next call on this instance.
func (fz *Froxelizer) Entries() []FroxelEntry { return fz.entries }

// Records returns the compacted light-index buffer from the last
// FroxelizeLights call. Valid until the next call on this instance.
func (fz *Froxelizer) Records() []uint16 { return fz.records }

// Stats returns counters from the last FroxelizeLights call.
func (fz *Froxelizer) Stats() Stats { return fz.stats }

// sliceFor returns the slice index whose [near, far) span contains the view
// distance d, clamped to the grid.
func (fz *Froxelizer) sliceFor(d float32) int {
	if d <= 0 {
		return 0
	}
	for i := fz.countZ - 1; i > 0; i-- {
		if d >= fz.distancesZ[i] {
			return i
		}
	}
	return 0
}

// tileRange maps an NDC interval to tile coordinates on one axis.
func tileRange(lo, hi float32, sizePX, count int) (int, int) {
	lo = clamp(lo, -1, 1)
	hi = clamp(hi, -1, 1)
	a := int(math32.Floor((lo + 1) * 0.5 * float32(sizePX) / TileSizePX))
	b := int(math32.Floor((hi + 1) * 0.5 * float32(sizePX) / TileSizePX))
	if a < 0 {
		a = 0
	}
	if b > count-1 {
		b = count - 1
	}
	if a > b {
		a = b
	}
	return a, b
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func effectiveWorkers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}

func resize(s []geometry.Plane, n int) []geometry.Plane {
	if cap(s) < n {
		return make([]geometry.Plane, n)
	}
	return s[:n]
}

func resizeF(s []float32, n int) []float32 {
	if cap(s) < n {
		return make([]float32, n)
	}
	return s[:n]
}

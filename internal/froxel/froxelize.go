package froxel

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"render-engine/internal/arena"
	"render-engine/internal/geometry"
	"render-engine/internal/lights"
)

// lightBound is the broad-phase result for one light: its view-space volume
// of influence and the froxel coordinate box that encloses it.
type lightBound struct {
	center         mgl32.Vec3
	radius         float32
	x0, x1, y0, y1 int
	z0, z1         int
	spot           bool
	skip           bool
}

// FroxelizeLights assigns every light in the table (index 0, the sentinel,
// always skipped) to the froxels its influence sphere overlaps, then
// compacts the per-froxel lists into the froxel table and record buffer.
//
// Broad phase: the light's view-space bound maps to a rectangular froxel
// coordinate range straight from the tiling and slicing functions, O(1) per
// light. Narrow phase: the conservative plane test against each candidate
// froxel, sharded across workers by froxel row; every froxel is owned by
// exactly one worker, so the scratch lists need no locking and the output is
// deterministic for identical inputs.
//
// Froxels that hit the per-froxel cap silently stop accepting lights of that
// type for the frame. All scratch memory comes from the frame scope.
func (fz *Froxelizer) FroxelizeLights(scope *arena.Scope, view mgl32.Mat4, soa *lights.SoA) error {
	if !fz.valid {
		return fmt.Errorf("froxel: Prepare must succeed before FroxelizeLights")
	}

	n := soa.Len()
	if n > 1<<16 {
		// Record entries are uint16; lights past the addressable range are
		// dropped, consistent with the degrade-under-load policy.
		n = 1 << 16
	}
	froxelCount := fz.FroxelCount()
	cap8 := fz.maxPerFroxel

	bounds := arena.Alloc[lightBound](scope, n)
	for i := 1; i < n; i++ {
		bounds[i] = fz.boundLight(view, soa, i)
	}

	pointIdx := arena.Alloc[uint16](scope, froxelCount*cap8)
	spotIdx := arena.Alloc[uint16](scope, froxelCount*cap8)
	pointCnt := arena.Alloc[uint8](scope, froxelCount)
	spotCnt := arena.Alloc[uint8](scope, froxelCount)

	rows := fz.countY * fz.countZ
	workers := effectiveWorkers(fz.workers)
	if workers > rows {
		workers = rows
	}

	truncated := make([]int, workers)
	var wg sync.WaitGroup
	for wid := 0; wid < workers; wid++ {
		wg.Add(1)
		go func(wid int) {
			defer wg.Done()
			truncated[wid] = fz.narrowPhase(wid, workers, bounds, pointIdx, spotIdx, pointCnt, spotCnt)
		}(wid)
	}
	wg.Wait()

	fz.compact(pointIdx, spotIdx, pointCnt, spotCnt)

	fz.stats.CountX, fz.stats.CountY, fz.stats.CountZ = fz.countX, fz.countY, fz.countZ
	fz.stats.LightCount = n - 1
	fz.stats.TruncatedFroxels = 0
	for _, t := range truncated {
		fz.stats.TruncatedFroxels += t
	}
	return nil
}

// boundLight runs the broad phase for one light: transform to view space,
// clip against the lit depth range, and project the influence sphere to a
// conservative NDC rectangle using the projection slope terms. The range is
// never empty for a light inside the lit volume; the narrow phase trims the
// conservative slack.
func (fz *Froxelizer) boundLight(view mgl32.Mat4, soa *lights.SoA, i int) lightBound {
	pr := soa.PositionRadius[i]
	r := pr.W()
	if r <= 0 {
		return lightBound{skip: true}
	}
	p := view.Mul4x1(mgl32.Vec4{pr.X(), pr.Y(), pr.Z(), 1})
	center := mgl32.Vec3{p.X(), p.Y(), p.Z()}

	d := -center.Z() // view distance along the camera boresight
	zmin := d - r
	zmax := d + r
	if zmax <= 0 || zmin >= fz.zLightFar {
		return lightBound{skip: true}
	}

	b := lightBound{
		center: center,
		radius: r,
		spot:   soa.Kind[i] == lights.TypeSpot,
		z0:     fz.sliceFor(zmin),
		z1:     fz.sliceFor(zmax),
	}

	if zmin <= 0 {
		// The sphere reaches the view origin: it can project anywhere.
		b.x1 = fz.countX - 1
		b.y1 = fz.countY - 1
		return b
	}

	// ndc = slope * coordinate / distance; evaluating each extreme at both
	// depth bounds and keeping the wider result stays conservative.
	loX := ndcExtremeLo((center.X()-r)*fz.p00, zmin, zmax)
	hiX := ndcExtremeHi((center.X()+r)*fz.p00, zmin, zmax)
	loY := ndcExtremeLo((center.Y()-r)*fz.p11, zmin, zmax)
	hiY := ndcExtremeHi((center.Y()+r)*fz.p11, zmin, zmax)

	b.x0, b.x1 = tileRange(loX, hiX, fz.vp.Width, fz.countX)
	b.y0, b.y1 = tileRange(loY, hiY, fz.vp.Height, fz.countY)
	return b
}

func ndcExtremeLo(num, zmin, zmax float32) float32 {
	a, b := num/zmin, num/zmax
	if a < b {
		return a
	}
	return b
}

func ndcExtremeHi(num, zmin, zmax float32) float32 {
	a, b := num/zmin, num/zmax
	if a > b {
		return a
	}
	return b
}

// narrowPhase tests every candidate (light, froxel) pair owned by this
// worker. Ownership is by froxel row (z*countY + y, strided across workers),
// so two workers never touch the same froxel's lists. Lights are visited in
// index order, which keeps each froxel's list ordered and the pass
// deterministic.
func (fz *Froxelizer) narrowPhase(wid, workers int, bounds []lightBound,
	pointIdx, spotIdx []uint16, pointCnt, spotCnt []uint8) (truncated int) {

	cap8 := uint8(fz.maxPerFroxel)
	for li := 1; li < len(bounds); li++ {
		b := &bounds[li]
		if b.skip {
			continue
		}
		sphere := geometry.Sphere{Center: b.center, Radius: b.radius}
		for z := b.z0; z <= b.z1; z++ {
			for y := b.y0; y <= b.y1; y++ {
				row := z*fz.countY + y
				if row%workers != wid {
					continue
				}
				for x := b.x0; x <= b.x1; x++ {
					fr := fz.FroxelAt(x, y, z)
					if !geometry.IntersectsSphere(fr.Planes[:], sphere) {
						continue
					}
					fi := row*fz.countX + x
					if b.spot {
						if spotCnt[fi] >= cap8 {
							truncated++
							continue
						}
						spotIdx[fi*int(cap8)+int(spotCnt[fi])] = uint16(li)
						spotCnt[fi]++
					} else {
						if pointCnt[fi] >= cap8 {
							truncated++
							continue
						}
						pointIdx[fi*int(cap8)+int(pointCnt[fi])] = uint16(li)
						pointCnt[fi]++
					}
				}
			}
		}
	}
	return truncated
}

// compact flattens the per-froxel scratch lists into the record buffer in
// froxel-index order, point lights before spot lights within each froxel,
// and fills the froxel table. Empty froxels get counts of zero and an offset
// equal to the next write position, so the table has no gaps. Records past
// the buffer capacity are dropped silently.
func (fz *Froxelizer) compact(pointIdx, spotIdx []uint16, pointCnt, spotCnt []uint8) {
	froxelCount := fz.FroxelCount()
	if cap(fz.entries) < froxelCount {
		fz.entries = make([]FroxelEntry, froxelCount)
	}
	fz.entries = fz.entries[:froxelCount]
	fz.records = fz.records[:0]

	capPer := fz.maxPerFroxel
	dropped := 0
	offset := 0
	for fi := 0; fi < froxelCount; fi++ {
		pc := int(pointCnt[fi])
		sc := int(spotCnt[fi])
		if avail := RecordBufferEntries - offset; pc+sc > avail {
			dropped += pc + sc - avail
			if pc > avail {
				pc = avail
			}
			sc = avail - pc
		}
		fz.entries[fi] = FroxelEntry{
			Offset:     uint16(offset),
			PointCount: uint8(pc),
			SpotCount:  uint8(sc),
		}
		fz.records = append(fz.records, pointIdx[fi*capPer:fi*capPer+pc]...)
		fz.records = append(fz.records, spotIdx[fi*capPer:fi*capPer+sc]...)
		offset += pc + sc
	}

	fz.stats.RecordCount = offset
	fz.stats.DroppedRecords = dropped
}

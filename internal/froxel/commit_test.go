package froxel

import (
	"encoding/binary"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"render-engine/internal/driver"
	"render-engine/internal/lights"
)

// bufferBytes reads back an in-memory buffer's contents.
func bufferBytes(t *testing.T, b driver.Buffer) []byte {
	t.Helper()
	mb, ok := b.(interface{ Bytes() []byte })
	if !ok {
		t.Fatalf("buffer %T is not inspectable", b)
	}
	return mb.Bytes()
}

func TestCommitStagesPackedTables(t *testing.T) {
	fz := preparedFroxelizer(t)
	soa := lights.NewSoA()
	li := soa.Append(mgl32.Vec4{0, 0, -20, 2}, mgl32.Vec3{}, 1, lights.TypePoint)
	froxelize(t, fz, soa)

	dev := driver.Mem()
	if err := fz.Commit(dev, driver.PackedLayout{}); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	fb := fz.FroxelBuffer()
	rb := fz.RecordBuffer()
	if fb == nil || rb == nil {
		t.Fatalf("buffers nil after Commit")
	}
	if fb.Size() != MaxFroxelCount*4 {
		t.Errorf("froxel buffer size = %d, want %d", fb.Size(), MaxFroxelCount*4)
	}

	// Every staged entry must round-trip: {u16 offset, u8 point, u8 spot}.
	raw := bufferBytes(t, fb)
	for fi, e := range fz.Entries() {
		at := fi * 4
		if got := binary.LittleEndian.Uint16(raw[at:]); got != e.Offset {
			t.Fatalf("entry %d offset = %d, want %d", fi, got, e.Offset)
		}
		if raw[at+2] != e.PointCount || raw[at+3] != e.SpotCount {
			t.Fatalf("entry %d counts = %d/%d, want %d/%d",
				fi, raw[at+2], raw[at+3], e.PointCount, e.SpotCount)
		}
	}

	rraw := bufferBytes(t, rb)
	found := false
	for i, r := range fz.Records() {
		if got := binary.LittleEndian.Uint16(rraw[i*2:]); got != r {
			t.Fatalf("record %d = %d, want %d", i, got, r)
		}
		if r == uint16(li) {
			found = true
		}
	}
	if !found {
		t.Errorf("staged records never reference light %d", li)
	}
}

func TestCommitHonorsWiderStrides(t *testing.T) {
	fz := preparedFroxelizer(t)
	soa := lights.NewSoA()
	soa.Append(mgl32.Vec4{0, 0, -20, 2}, mgl32.Vec3{}, 1, lights.TypePoint)
	froxelize(t, fz, soa)

	if err := fz.Commit(driver.Mem(), strideLayout{entry: 16, record: 4}); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	raw := bufferBytes(t, fz.FroxelBuffer())
	e := fz.Entries()[0]
	if got := binary.LittleEndian.Uint16(raw[0:]); got != e.Offset {
		t.Errorf("entry 0 offset at stride 16 = %d, want %d", got, e.Offset)
	}
	e1 := fz.Entries()[1]
	if got := binary.LittleEndian.Uint16(raw[16:]); got != e1.Offset {
		t.Errorf("entry 1 offset at stride 16 = %d, want %d", got, e1.Offset)
	}
}

func TestCommitRejectsUndersizedStrides(t *testing.T) {
	fz := preparedFroxelizer(t)
	froxelize(t, fz, lights.NewSoA())

	if err := fz.Commit(driver.Mem(), strideLayout{entry: 2, record: 2}); err == nil {
		t.Errorf("entry stride 2 should be rejected")
	}
	if err := fz.Commit(driver.Mem(), strideLayout{entry: 4, record: 1}); err == nil {
		t.Errorf("record stride 1 should be rejected")
	}
}

func TestCommitDoubleBuffers(t *testing.T) {
	fz := preparedFroxelizer(t)
	defer fz.Terminate()

	soa := lights.NewSoA()
	soa.Append(mgl32.Vec4{0, 0, -20, 2}, mgl32.Vec3{}, 1, lights.TypePoint)
	froxelize(t, fz, soa)

	dev := driver.Mem()
	if err := fz.Commit(dev, driver.PackedLayout{}); err != nil {
		t.Fatalf("first Commit: %v", err)
	}
	first := fz.FroxelBuffer()

	if err := fz.Commit(dev, driver.PackedLayout{}); err != nil {
		t.Fatalf("second Commit: %v", err)
	}
	second := fz.FroxelBuffer()

	if first == second {
		t.Errorf("consecutive frames staged into the same buffer slot")
	}

	if err := fz.Commit(dev, driver.PackedLayout{}); err != nil {
		t.Fatalf("third Commit: %v", err)
	}
	if fz.FroxelBuffer() != first {
		t.Errorf("ring did not alternate back to the first slot")
	}
}

func TestFroxelBufferNilBeforeCommit(t *testing.T) {
	fz := New()
	if fz.FroxelBuffer() != nil || fz.RecordBuffer() != nil {
		t.Errorf("buffers must be nil before the first Commit")
	}
}

type strideLayout struct{ entry, record int }

func (l strideLayout) FroxelEntryStride() int { return l.entry }
func (l strideLayout) RecordStride() int      { return l.record }

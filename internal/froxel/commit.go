package froxel

import (
	"encoding/binary"
	"fmt"

	"render-engine/internal/driver"
)

// ringState pairs a double-buffered GPU buffer with the size it was created
// at, so a grown grid forces reallocation.
type ringState struct {
	ring *driver.Ring
	size uint64
}

// Commit marshals the froxel table and record buffer little-endian using the
// strides the layout packer chose, and uploads both through double-buffered
// rings: the slot written for frame N+1 is never the slot frame N's draws
// read. Call once per frame after FroxelizeLights.
func (fz *Froxelizer) Commit(dev driver.Device, layout driver.BlockLayout) error {
	entryStride := layout.FroxelEntryStride()
	recordStride := layout.RecordStride()
	if entryStride < 4 || recordStride < 2 {
		return fmt.Errorf("froxel: layout strides %d/%d too small for packed fields", entryStride, recordStride)
	}

	froxelBytes := uint64(MaxFroxelCount * entryStride)
	recordBytes := uint64(RecordBufferEntries * recordStride)

	var err error
	if fz.froxelRing, err = ensureRing(dev, fz.froxelRing, "froxel table", froxelBytes); err != nil {
		return err
	}
	if fz.recordRing, err = ensureRing(dev, fz.recordRing, "light records", recordBytes); err != nil {
		return err
	}

	fz.entryScratch = marshalEntries(fz.entryScratch[:0], fz.entries, entryStride)
	fz.recordScratch = marshalRecords(fz.recordScratch[:0], fz.records, recordStride)

	if err := dev.Write(fz.froxelRing.ring.Back(), 0, fz.entryScratch); err != nil {
		return fmt.Errorf("froxel: stage froxel table: %w", err)
	}
	if err := dev.Write(fz.recordRing.ring.Back(), 0, fz.recordScratch); err != nil {
		return fmt.Errorf("froxel: stage light records: %w", err)
	}
	fz.froxelRing.ring.Advance()
	fz.recordRing.ring.Advance()
	return nil
}

// FroxelBuffer returns the GPU buffer holding the froxel table for the
// current frame's draws, or nil before the first Commit.
func (fz *Froxelizer) FroxelBuffer() driver.Buffer {
	if fz.froxelRing == nil {
		return nil
	}
	return fz.froxelRing.ring.Front()
}

// RecordBuffer returns the GPU buffer holding the light records for the
// current frame's draws, or nil before the first Commit.
func (fz *Froxelizer) RecordBuffer() driver.Buffer {
	if fz.recordRing == nil {
		return nil
	}
	return fz.recordRing.ring.Front()
}

// Terminate releases the GPU rings. The froxelizer stays usable for CPU-side
// work; the next Commit recreates them.
func (fz *Froxelizer) Terminate() {
	if fz.froxelRing != nil {
		fz.froxelRing.ring.Release()
		fz.froxelRing = nil
	}
	if fz.recordRing != nil {
		fz.recordRing.ring.Release()
		fz.recordRing = nil
	}
}

func ensureRing(dev driver.Device, rs *ringState, label string, size uint64) (*ringState, error) {
	if rs != nil && rs.size >= size {
		return rs, nil
	}
	if rs != nil {
		rs.ring.Release()
	}
	ring, err := driver.NewRing(dev, label, size, driver.UsageStorage)
	if err != nil {
		return nil, fmt.Errorf("froxel: %w", err)
	}
	return &ringState{ring: ring, size: size}, nil
}

// marshalEntries packs froxel entries as {u16 offset, u8 point, u8 spot}
// at the layout's stride.
func marshalEntries(dst []byte, entries []FroxelEntry, stride int) []byte {
	need := len(entries) * stride
	dst = grow(dst, need)
	for i, e := range entries {
		at := i * stride
		binary.LittleEndian.PutUint16(dst[at:], e.Offset)
		dst[at+2] = e.PointCount
		dst[at+3] = e.SpotCount
	}
	return dst
}

// marshalRecords packs light indices as u16 at the layout's stride.
func marshalRecords(dst []byte, records []uint16, stride int) []byte {
	need := len(records) * stride
	dst = grow(dst, need)
	for i, r := range records {
		binary.LittleEndian.PutUint16(dst[i*stride:], r)
	}
	return dst
}

func grow(dst []byte, n int) []byte {
	if cap(dst) < n {
		return make([]byte, n)
	}
	dst = dst[:n]
	for i := range dst {
		dst[i] = 0
	}
	return dst
}

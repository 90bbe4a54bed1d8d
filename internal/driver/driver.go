// Package driver abstracts the GPU resource backend the visibility subsystem
// stages its buffers through. The froxelizer only sees the small Device
// interface; the real backend (WebGPU) and the in-memory test backend both
// satisfy it. Synchronization with the graphics device is the backend's
// responsibility, not the caller's.
package driver

import "fmt"

// BufferUsage describes how a buffer will be bound on the GPU.
type BufferUsage uint32

const (
	UsageUniform BufferUsage = 1 << iota
	UsageStorage
	UsageCopyDst
)

// Buffer is a GPU-visible allocation.
type Buffer interface {
	// Size returns the allocation size in bytes.
	Size() uint64
	// Release frees the allocation. The buffer must not be used afterwards.
	Release()
}

// Device allocates and fills GPU buffers.
type Device interface {
	CreateBuffer(label string, size uint64, usage BufferUsage) (Buffer, error)
	Write(dst Buffer, offset uint64, data []byte) error
}

// BlockLayout is the view the buffer-layout packer gives the compactor: the
// byte strides the GPU-side structs were laid out with. The core honors these
// strides when marshaling; it does not compute layouts itself.
type BlockLayout interface {
	// FroxelEntryStride is the byte stride of one froxel table entry.
	FroxelEntryStride() int
	// RecordStride is the byte stride of one light-index record.
	RecordStride() int
}

// PackedLayout is the tightly packed default layout: 4-byte froxel entries
// (u16 offset, u8 point count, u8 spot count) and 2-byte u16 records.
type PackedLayout struct{}

func (PackedLayout) FroxelEntryStride() int { return 4 }
func (PackedLayout) RecordStride() int      { return 2 }

// Ring double-buffers one logical GPU buffer so the CPU can fill frame N+1
// while the GPU still reads frame N. Write through Back, then Advance after
// submitting the frame.
type Ring struct {
	slots [2]Buffer
	front int
}

// NewRing allocates both slots of a double-buffered ring.
func NewRing(dev Device, label string, size uint64, usage BufferUsage) (*Ring, error) {
	var r Ring
	for i := range r.slots {
		buf, err := dev.CreateBuffer(fmt.Sprintf("%s[%d]", label, i), size, usage|UsageCopyDst)
		if err != nil {
			for _, b := range r.slots[:i] {
				b.Release()
			}
			return nil, fmt.Errorf("ring %s: %w", label, err)
		}
		r.slots[i] = buf
	}
	return &r, nil
}

// Front returns the slot the GPU reads this frame.
func (r *Ring) Front() Buffer {
	return r.slots[r.front]
}

// Back returns the slot the CPU may write this frame.
func (r *Ring) Back() Buffer {
	return r.slots[r.front^1]
}

// Advance flips the ring after the frame's writes are submitted.
func (r *Ring) Advance() {
	r.front ^= 1
}

// Release frees both slots.
func (r *Ring) Release() {
	for i, b := range r.slots {
		if b != nil {
			b.Release()
			r.slots[i] = nil
		}
	}
}

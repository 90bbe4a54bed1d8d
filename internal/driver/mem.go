package driver

import "fmt"

// memDevice is an in-memory Device used by tests and the headless viewer.
// Writes land in plain byte slices that can be inspected afterwards.
type memDevice struct {
	buffers []*memBuffer
}

// Mem returns an in-memory Device.
func Mem() Device {
	return &memDevice{}
}

func (d *memDevice) CreateBuffer(label string, size uint64, usage BufferUsage) (Buffer, error) {
	b := &memBuffer{label: label, data: make([]byte, size)}
	d.buffers = append(d.buffers, b)
	return b, nil
}

func (d *memDevice) Write(dst Buffer, offset uint64, data []byte) error {
	mb, ok := dst.(*memBuffer)
	if !ok {
		return fmt.Errorf("write: buffer does not belong to this device")
	}
	if mb.released {
		return fmt.Errorf("write: buffer %s already released", mb.label)
	}
	if offset+uint64(len(data)) > uint64(len(mb.data)) {
		return fmt.Errorf("write: %d bytes at offset %d overflow buffer %s (%d bytes)",
			len(data), offset, mb.label, len(mb.data))
	}
	copy(mb.data[offset:], data)
	mb.writes++
	return nil
}

type memBuffer struct {
	label    string
	data     []byte
	writes   int
	released bool
}

func (b *memBuffer) Size() uint64 {
	return uint64(len(b.data))
}

func (b *memBuffer) Release() {
	b.released = true
}

// Bytes exposes the buffer contents for test assertions.
func (b *memBuffer) Bytes() []byte {
	return b.data
}

package driver

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuDevice adapts a WebGPU device to the Device interface.
type wgpuDevice struct {
	dev *wgpu.Device
}

// WGPU wraps a WebGPU device as a Device.
func WGPU(dev *wgpu.Device) Device {
	return &wgpuDevice{dev: dev}
}

func (d *wgpuDevice) CreateBuffer(label string, size uint64, usage BufferUsage) (Buffer, error) {
	buf, err := d.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: toWGPUUsage(usage),
	})
	if err != nil {
		return nil, fmt.Errorf("create buffer %s: %w", label, err)
	}
	return &wgpuBuffer{buf: buf, size: size}, nil
}

func (d *wgpuDevice) Write(dst Buffer, offset uint64, data []byte) error {
	wb, ok := dst.(*wgpuBuffer)
	if !ok {
		return fmt.Errorf("write: buffer does not belong to this device")
	}
	if err := d.dev.GetQueue().WriteBuffer(wb.buf, offset, data); err != nil {
		return fmt.Errorf("write buffer: %w", err)
	}
	return nil
}

type wgpuBuffer struct {
	buf  *wgpu.Buffer
	size uint64
}

func (b *wgpuBuffer) Size() uint64 {
	return b.size
}

func (b *wgpuBuffer) Release() {
	b.buf.Release()
}

func toWGPUUsage(u BufferUsage) wgpu.BufferUsage {
	var out wgpu.BufferUsage
	if u&UsageUniform != 0 {
		out |= wgpu.BufferUsageUniform
	}
	if u&UsageStorage != 0 {
		out |= wgpu.BufferUsageStorage
	}
	if u&UsageCopyDst != 0 {
		out |= wgpu.BufferUsageCopyDst
	}
	return out
}

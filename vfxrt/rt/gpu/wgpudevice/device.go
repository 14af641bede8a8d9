// Package wgpudevice implements the gpu collaborator interfaces on top of
// WebGPU.
package wgpudevice

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/vfx/vfxrt/rt/gpu"
)

var ErrForeignBuffer = errors.New("wgpudevice: buffer was not created by this package")

// Device wraps a wgpu device. A Device obtained from Request also owns the
// instance and adapter and releases them with the device.
type Device struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *queue
}

// Wrap adapts a device owned by the caller, e.g. the renderer's.
func Wrap(device *wgpu.Device) *Device {
	return &Device{
		device: device,
		queue:  &queue{raw: device.GetQueue()},
	}
}

// Request creates a headless high-performance device.
func Request() (*Device, error) {
	instance := wgpu.CreateInstance(nil)

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("failed to request device: %w", err)
	}

	d := Wrap(device)
	d.instance = instance
	d.adapter = adapter
	return d, nil
}

func (d *Device) Raw() *wgpu.Device { return d.device }

func (d *Device) CreateBuffer(desc *gpu.BufferDescriptor) (gpu.Buffer, error) {
	raw, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            desc.Label,
		Size:             desc.Size,
		Usage:            ToUsage(desc.Usage),
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, err
	}
	return &Buffer{raw: raw, label: desc.Label, size: desc.Size, usage: desc.Usage}, nil
}

func (d *Device) Queue() gpu.Queue {
	return d.queue
}

// MinUniformAlignment is the alignment required for dynamic uniform offsets.
func (d *Device) MinUniformAlignment() uint64 {
	return uint64(d.device.GetLimits().Limits.MinUniformBufferOffsetAlignment)
}

// Release releases the device only when it was created by Request.
func (d *Device) Release() {
	if d.instance == nil {
		return
	}
	d.queue.raw.Release()
	d.device.Release()
	d.adapter.Release()
	d.instance.Release()
	d.instance = nil
}

type queue struct {
	raw *wgpu.Queue
}

func (q *queue) WriteBuffer(buffer gpu.Buffer, offset uint64, data []byte) error {
	b, ok := buffer.(*Buffer)
	if !ok {
		return fmt.Errorf("%w: %T", ErrForeignBuffer, buffer)
	}
	return q.raw.WriteBuffer(b.raw, offset, data)
}

// Buffer is a wgpu buffer created through Device.
type Buffer struct {
	raw   *wgpu.Buffer
	label string
	size  uint64
	usage gpu.BufferUsage
}

func (b *Buffer) Raw() *wgpu.Buffer      { return b.raw }
func (b *Buffer) Label() string          { return b.label }
func (b *Buffer) Size() uint64           { return b.size }
func (b *Buffer) Usage() gpu.BufferUsage { return b.usage }

func (b *Buffer) Release() {
	if b.raw != nil {
		b.raw.Release()
		b.raw = nil
	}
}

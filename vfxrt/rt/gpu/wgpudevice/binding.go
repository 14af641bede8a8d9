package wgpudevice

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/vfx/vfxrt/rt/gpu"
)

var usageFlags = []struct {
	from gpu.BufferUsage
	to   wgpu.BufferUsage
}{
	{gpu.BufferUsageCopySrc, wgpu.BufferUsageCopySrc},
	{gpu.BufferUsageCopyDst, wgpu.BufferUsageCopyDst},
	{gpu.BufferUsageIndex, wgpu.BufferUsageIndex},
	{gpu.BufferUsageVertex, wgpu.BufferUsageVertex},
	{gpu.BufferUsageUniform, wgpu.BufferUsageUniform},
	{gpu.BufferUsageStorage, wgpu.BufferUsageStorage},
	{gpu.BufferUsageIndirect, wgpu.BufferUsageIndirect},
}

func ToUsage(u gpu.BufferUsage) wgpu.BufferUsage {
	var out wgpu.BufferUsage
	for _, f := range usageFlags {
		if u.Has(f.from) {
			out |= f.to
		}
	}
	return out
}

// BindGroupEntry converts a binding of a buffer created by Device.
func BindGroupEntry(binding uint32, b gpu.BufferBinding) (wgpu.BindGroupEntry, error) {
	buf, ok := b.Buffer.(*Buffer)
	if !ok {
		return wgpu.BindGroupEntry{}, fmt.Errorf("%w: %T", ErrForeignBuffer, b.Buffer)
	}
	size := b.Size
	if size == gpu.WholeSize {
		size = wgpu.WholeSize
	}
	return wgpu.BindGroupEntry{
		Binding: binding,
		Buffer:  buf.raw,
		Offset:  b.Offset,
		Size:    size,
	}, nil
}

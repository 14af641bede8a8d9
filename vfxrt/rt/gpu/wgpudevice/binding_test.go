package wgpudevice

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/vfx/vfxrt/rt/gpu"
	"github.com/gekko3d/vfx/vfxrt/rt/gpu/gputest"
)

func TestToUsage(t *testing.T) {
	assert.Equal(t, wgpu.BufferUsage(0), ToUsage(0))
	assert.Equal(t, wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst,
		ToUsage(gpu.BufferUsageStorage|gpu.BufferUsageCopyDst))
	assert.Equal(t, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst,
		ToUsage(gpu.BufferUsageUniform|gpu.BufferUsageCopyDst))
	assert.Equal(t, wgpu.BufferUsageIndirect|wgpu.BufferUsageVertex|wgpu.BufferUsageIndex|wgpu.BufferUsageCopySrc,
		ToUsage(gpu.BufferUsageIndirect|gpu.BufferUsageVertex|gpu.BufferUsageIndex|gpu.BufferUsageCopySrc))
}

func TestBindGroupEntry(t *testing.T) {
	buf := &Buffer{label: "particles", size: 1024, usage: gpu.BufferUsageStorage}

	e, err := BindGroupEntry(3, gpu.BufferBinding{Buffer: buf, Offset: 256, Size: 512})
	require.NoError(t, err)
	assert.Equal(t, uint32(3), e.Binding)
	assert.Equal(t, uint64(256), e.Offset)
	assert.Equal(t, uint64(512), e.Size)

	e, err = BindGroupEntry(0, gpu.BufferBinding{Buffer: buf, Size: gpu.WholeSize})
	require.NoError(t, err)
	assert.Equal(t, uint64(wgpu.WholeSize), e.Size)

	foreign := gputest.NewRecordingDevice()
	other, err := foreign.CreateBuffer(&gpu.BufferDescriptor{Label: "other", Size: 4})
	require.NoError(t, err)
	_, err = BindGroupEntry(0, gpu.BufferBinding{Buffer: other})
	assert.ErrorIs(t, err, ErrForeignBuffer)
}

func TestQueue_RejectsForeignBuffer(t *testing.T) {
	q := &queue{}
	err := q.WriteBuffer(&gputest.Buffer{}, 0, []byte{1})
	assert.ErrorIs(t, err, ErrForeignBuffer)
}

func TestBuffer_ReleaseWithoutHandle(t *testing.T) {
	b := &Buffer{label: "x"}
	assert.NotPanics(t, b.Release)
	assert.Nil(t, b.Raw())
}

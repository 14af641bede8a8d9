// Package gpu holds the device-facing side of the effect renderer: the
// collaborator interfaces used to create buffers and submit writes, and the
// growable typed buffers that mirror per-frame uniform and storage data.
package gpu

import (
	"errors"
	"strings"
)

var (
	// ErrRangeOutOfBounds is returned when a partial write targets items that
	// are not in the CPU mirror.
	ErrRangeOutOfBounds = errors.New("gpu: range out of bounds")

	// ErrNilDevice is returned when a buffer is constructed without a device.
	ErrNilDevice = errors.New("gpu: device is nil")
)

// BufferUsage is a bit set describing how a buffer may be bound.
type BufferUsage uint32

const (
	BufferUsageCopySrc BufferUsage = 1 << iota
	BufferUsageCopyDst
	BufferUsageIndex
	BufferUsageVertex
	BufferUsageUniform
	BufferUsageStorage
	BufferUsageIndirect
)

func (u BufferUsage) Has(flag BufferUsage) bool {
	return u&flag == flag
}

func (u BufferUsage) String() string {
	if u == 0 {
		return "None"
	}
	names := []struct {
		flag BufferUsage
		name string
	}{
		{BufferUsageCopySrc, "CopySrc"},
		{BufferUsageCopyDst, "CopyDst"},
		{BufferUsageIndex, "Index"},
		{BufferUsageVertex, "Vertex"},
		{BufferUsageUniform, "Uniform"},
		{BufferUsageStorage, "Storage"},
		{BufferUsageIndirect, "Indirect"},
	}
	var parts []string
	for _, n := range names {
		if u.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage BufferUsage
}

// Buffer is a device-side buffer handle.
type Buffer interface {
	Label() string
	Size() uint64
	Usage() BufferUsage
	Release()
}

// Queue submits writes for asynchronous execution on the device. Writes are
// ordered relative to each other in submission order; completion is never
// observed by callers.
type Queue interface {
	WriteBuffer(buffer Buffer, offset uint64, data []byte) error
}

// Device creates device resources.
type Device interface {
	CreateBuffer(desc *BufferDescriptor) (Buffer, error)
	Queue() Queue
}

// WholeSize binds a buffer from the offset to its end.
const WholeSize = ^uint64(0)

// BufferBinding is a byte range of a buffer bound to a shader slot.
type BufferBinding struct {
	Buffer Buffer
	Offset uint64
	Size   uint64
}

// Package gputest provides an in-memory gpu.Device that records buffer
// creation and queue writes, for tests that run without a GPU.
package gputest

import (
	"errors"
	"fmt"

	"github.com/gekko3d/vfx/vfxrt/rt/gpu"
)

var ErrInjected = errors.New("gputest: injected failure")

// Buffer is a recorded device buffer backed by host memory.
type Buffer struct {
	label    string
	usage    gpu.BufferUsage
	Data     []byte
	Released bool
}

func (b *Buffer) Label() string          { return b.label }
func (b *Buffer) Size() uint64           { return uint64(len(b.Data)) }
func (b *Buffer) Usage() gpu.BufferUsage { return b.usage }
func (b *Buffer) Release()               { b.Released = true }

// Write is one recorded queue write.
type Write struct {
	Buffer *Buffer
	Offset uint64
	Data   []byte
}

// RecordingDevice implements gpu.Device and gpu.Queue.
type RecordingDevice struct {
	Buffers []*Buffer
	Writes  []Write

	// FailCreate and FailWrite make the next calls return ErrInjected.
	FailCreate bool
	FailWrite  bool
}

func NewRecordingDevice() *RecordingDevice {
	return &RecordingDevice{}
}

func (d *RecordingDevice) CreateBuffer(desc *gpu.BufferDescriptor) (gpu.Buffer, error) {
	if d.FailCreate {
		return nil, ErrInjected
	}
	b := &Buffer{
		label: desc.Label,
		usage: desc.Usage,
		Data:  make([]byte, desc.Size),
	}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

func (d *RecordingDevice) Queue() gpu.Queue {
	return d
}

// WriteBuffer copies data into the buffer immediately and records the write.
func (d *RecordingDevice) WriteBuffer(buffer gpu.Buffer, offset uint64, data []byte) error {
	if d.FailWrite {
		return ErrInjected
	}
	b, ok := buffer.(*Buffer)
	if !ok {
		return fmt.Errorf("gputest: foreign buffer %T", buffer)
	}
	if b.Released {
		return fmt.Errorf("gputest: write to released buffer %q", b.label)
	}
	if offset+uint64(len(data)) > uint64(len(b.Data)) {
		return fmt.Errorf("gputest: write of %d bytes at %d overflows %q (%d bytes)", len(data), offset, b.label, len(b.Data))
	}
	copy(b.Data[offset:], data)
	d.Writes = append(d.Writes, Write{
		Buffer: b,
		Offset: offset,
		Data:   append([]byte(nil), data...),
	})
	return nil
}

// Live returns the buffers that have not been released.
func (d *RecordingDevice) Live() []*Buffer {
	var live []*Buffer
	for _, b := range d.Buffers {
		if !b.Released {
			live = append(live, b)
		}
	}
	return live
}

// BufferByLabel returns the most recently created buffer with label.
func (d *RecordingDevice) BufferByLabel(label string) *Buffer {
	for i := len(d.Buffers) - 1; i >= 0; i-- {
		if d.Buffers[i].label == label {
			return d.Buffers[i]
		}
	}
	return nil
}

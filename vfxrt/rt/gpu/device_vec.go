package gpu

import (
	"fmt"

	"github.com/gekko3d/vfx/vfxrt/rt/layout"
)

type vecOptions struct {
	minAlign uint64
}

// VecOption configures a NamedUniformVec or StorageVec.
type VecOption func(*vecOptions)

// WithMinAlignment raises the item stride to a multiple of align, e.g. the
// device's min uniform/storage buffer offset alignment when items are bound
// with dynamic offsets.
func WithMinAlignment(align uint64) VecOption {
	return func(o *vecOptions) {
		o.minAlign = align
	}
}

// deviceVec is a CPU-side array of T mirrored into a device buffer.
// The device buffer only grows; growing recreates it and releases the old one.
type deviceVec[T any] struct {
	device Device
	label  string
	usage  BufferUsage
	writer *layout.Writer[T]

	values   []T
	scratch  []byte
	buffer   Buffer
	capacity int
}

func newDeviceVec[T any](device Device, label string, rules layout.Rules, usage BufferUsage, opts []VecOption) (deviceVec[T], error) {
	if device == nil {
		return deviceVec[T]{}, ErrNilDevice
	}
	var o vecOptions
	for _, opt := range opts {
		opt(&o)
	}
	w, err := layout.NewWriter[T](rules, o.minAlign)
	if err != nil {
		return deviceVec[T]{}, fmt.Errorf("failed to compute %s layout for %q: %w", rules, label, err)
	}
	return deviceVec[T]{
		device: device,
		label:  label,
		usage:  usage | BufferUsageCopyDst,
		writer: w,
	}, nil
}

func (v *deviceVec[T]) Label() string {
	return v.label
}

// ItemSize is the padded stride of one item in bytes.
func (v *deviceVec[T]) ItemSize() uint64 {
	return v.writer.Stride()
}

func (v *deviceVec[T]) Len() int {
	return len(v.values)
}

func (v *deviceVec[T]) IsEmpty() bool {
	return len(v.values) == 0
}

// Capacity is the number of items the device buffer can hold.
func (v *deviceVec[T]) Capacity() int {
	return v.capacity
}

// Buffer returns the device buffer, or nil before the first Reserve.
func (v *deviceVec[T]) Buffer() Buffer {
	return v.buffer
}

// Push appends value to the CPU mirror and returns its index. The device is
// not updated until the next write.
func (v *deviceVec[T]) Push(value T) int {
	index := len(v.values)
	v.values = append(v.values, value)
	return index
}

// GetMut returns a pointer to the mirrored item at index.
func (v *deviceVec[T]) GetMut(index int) *T {
	return &v.values[index]
}

func (v *deviceVec[T]) Values() []T {
	return v.values
}

// Clear empties the CPU mirror. Device capacity is kept.
func (v *deviceVec[T]) Clear() {
	v.values = v.values[:0]
}

// Reserve grows the device buffer to hold capacity items. It reports whether
// the buffer was recreated; a capacity not above the current one is a no-op.
func (v *deviceVec[T]) Reserve(capacity int) (bool, error) {
	if capacity <= v.capacity {
		return false, nil
	}
	size := v.writer.Stride() * uint64(capacity)
	buf, err := v.device.CreateBuffer(&BufferDescriptor{
		Label: v.label,
		Size:  size,
		Usage: v.usage,
	})
	if err != nil {
		return false, fmt.Errorf("failed to create buffer %q (%d bytes): %w", v.label, size, err)
	}
	if v.buffer != nil {
		v.buffer.Release()
	}
	v.buffer = buf
	v.capacity = capacity
	if uint64(cap(v.scratch)) >= size {
		v.scratch = v.scratch[:size]
	} else {
		v.scratch = make([]byte, size)
	}
	return true, nil
}

// WriteBuffer packs the whole mirror and submits it at offset 0.
func (v *deviceVec[T]) WriteBuffer() error {
	if len(v.values) == 0 {
		return nil
	}
	return v.write(0, len(v.values))
}

// WriteSlice packs and submits only the items in [start, end). When the
// mirror outgrew the device buffer, the buffer is recreated and the whole
// mirror is submitted instead.
func (v *deviceVec[T]) WriteSlice(start, end int) error {
	if start < 0 || start > end || end > len(v.values) {
		return fmt.Errorf("%w: [%d,%d) of %d items in %q", ErrRangeOutOfBounds, start, end, len(v.values), v.label)
	}
	if start == end {
		return nil
	}
	return v.write(start, end)
}

func (v *deviceVec[T]) write(start, end int) error {
	grown, err := v.Reserve(len(v.values))
	if err != nil {
		return err
	}
	if grown {
		// A recreated buffer holds none of the previous contents.
		start, end = 0, len(v.values)
	}
	stride := v.writer.Stride()
	from, to := uint64(start)*stride, uint64(end)*stride
	staged := v.scratch[from:to]
	if err := v.writer.Write(staged, v.values[start:end]); err != nil {
		return err
	}
	if err := v.device.Queue().WriteBuffer(v.buffer, from, staged); err != nil {
		return fmt.Errorf("failed to write %d bytes to %q at offset %d: %w", len(staged), v.label, from, err)
	}
	return nil
}

// Binding binds a single item at offset 0, to be moved with a dynamic offset
// of index*ItemSize. It reports false before the device buffer exists.
func (v *deviceVec[T]) Binding() (BufferBinding, bool) {
	if v.buffer == nil {
		return BufferBinding{}, false
	}
	return BufferBinding{Buffer: v.buffer, Offset: 0, Size: v.writer.Stride()}, true
}

// Release frees the device buffer. The CPU mirror is kept, so the next write
// recreates the buffer.
func (v *deviceVec[T]) Release() {
	if v.buffer != nil {
		v.buffer.Release()
		v.buffer = nil
	}
	v.capacity = 0
}

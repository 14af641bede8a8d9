package effect

import (
	"errors"
	"fmt"

	"github.com/gekko3d/vfx/vfxrt/rt/alloc"
	"github.com/gekko3d/vfx/vfxrt/rt/core"
	"github.com/gekko3d/vfx/vfxrt/rt/gpu"
)

// MinCapacity is the minimum buffer capacity to allocate, in particles.
const MinCapacity uint32 = 65536

// BufferOptions configures a new EffectBuffer. Zero values select defaults.
type BufferOptions struct {
	Label       string
	MinCapacity uint32
	Logger      Logger
}

// EffectBuffer holds the particles of every effect instance sharing one
// compatibility tag, so a single update dispatch can process all of them.
// Each instance owns a slice of the buffer handed out by a RangeAllocator.
type EffectBuffer[K comparable] struct {
	// particleBuffer holds all particles of the group.
	particleBuffer gpu.Buffer
	// indirectBuffer holds one u32 indirection index per particle slot.
	indirectBuffer gpu.Buffer

	itemSize  uint32
	capacity  uint32
	allocator *alloc.RangeAllocator
	// fresh until the first slice is allocated
	fresh bool

	tag    K
	label  string
	logger Logger
}

// NewEffectBuffer creates the particle and indirect buffers eagerly, sized
// for max(capacity, MinCapacity) particles.
func NewEffectBuffer[K comparable](device gpu.Device, tag K, capacity, itemSize uint32, opts BufferOptions) (*EffectBuffer[K], error) {
	if device == nil {
		return nil, gpu.ErrNilDevice
	}
	if itemSize == 0 {
		return nil, ErrInvalidItemSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	minCapacity := opts.MinCapacity
	if minCapacity == 0 {
		minCapacity = MinCapacity
	}
	logger.Debugf("EffectBuffer.new(capacity=%d, item_size=%dB)", capacity, itemSize)

	capacity = max(capacity, minCapacity)

	label := opts.Label
	indirectLabel := "vfx_indirect_buffer"
	if label != "" {
		indirectLabel = label + "_indirect"
	} else {
		label = "vfx_effect_buffer"
	}

	particleBuffer, err := device.CreateBuffer(&gpu.BufferDescriptor{
		Label: label,
		Size:  uint64(capacity) * uint64(itemSize),
		Usage: gpu.BufferUsageStorage | gpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create particle buffer %q: %w", label, err)
	}
	indirectBuffer, err := device.CreateBuffer(&gpu.BufferDescriptor{
		Label: indirectLabel,
		Size:  uint64(capacity) * core.IndirectIndexSize,
		Usage: gpu.BufferUsageStorage | gpu.BufferUsageCopyDst,
	})
	if err != nil {
		particleBuffer.Release()
		return nil, fmt.Errorf("failed to create indirect buffer %q: %w", indirectLabel, err)
	}

	return &EffectBuffer[K]{
		particleBuffer: particleBuffer,
		indirectBuffer: indirectBuffer,
		itemSize:       itemSize,
		capacity:       capacity,
		allocator:      alloc.NewRangeAllocator(capacity),
		fresh:          true,
		tag:            tag,
		label:          label,
		logger:         logger,
	}, nil
}

func (b *EffectBuffer[K]) ParticleBuffer() gpu.Buffer { return b.particleBuffer }
func (b *EffectBuffer[K]) IndirectBuffer() gpu.Buffer { return b.indirectBuffer }
func (b *EffectBuffer[K]) Label() string              { return b.label }
func (b *EffectBuffer[K]) Tag() K                     { return b.tag }

// Capacity is the number of particle slots.
func (b *EffectBuffer[K]) Capacity() uint32 { return b.capacity }

// ItemSize is the size of one particle, in bytes.
func (b *EffectBuffer[K]) ItemSize() uint32 { return b.itemSize }

// Used is the allocator high-water mark, in particles.
func (b *EffectBuffer[K]) Used() uint32 { return b.allocator.Used() }

// Live is the number of slices currently allocated.
func (b *EffectBuffer[K]) Live() int { return b.allocator.Live() }

// IsCompatible reports whether an effect with the given tag may share this
// buffer.
func (b *EffectBuffer[K]) IsCompatible(tag K) bool {
	return tag == b.tag
}

// AllocateParticleSlice allocates a slice of capacity particles.
func (b *EffectBuffer[K]) AllocateParticleSlice(capacity, itemSize uint32) (SliceRef, error) {
	b.logger.Debugf("EffectBuffer.AllocateParticleSlice: capacity=%d item_size=%d", capacity, itemSize)

	byteSize, err := sliceByteSize(capacity, itemSize)
	if err != nil {
		return SliceRef{}, err
	}
	if itemSize != b.itemSize {
		return SliceRef{}, fmt.Errorf("%w: slice item size %d, buffer %q item size %d", ErrItemSizeMismatch, itemSize, b.label, b.itemSize)
	}

	r, err := b.allocator.Allocate(capacity)
	if err != nil {
		if errors.Is(err, alloc.ErrCapacityExhausted) && b.fresh {
			b.logger.Warnf("Cannot allocate slice of size %d (%d B) in effect cache buffer of capacity %d.", capacity, byteSize, b.capacity)
		}
		return SliceRef{}, err
	}
	b.fresh = false
	return SliceRef{rng: r, itemSize: itemSize}, nil
}

// ReleaseSlice returns a slice to the buffer for reuse.
func (b *EffectBuffer[K]) ReleaseSlice(s SliceRef) error {
	if err := b.allocator.Release(s.rng); err != nil {
		return fmt.Errorf("failed to release slice %s of %q: %w", s.rng, b.label, err)
	}
	return nil
}

// MaxBinding binds the entire particle buffer.
func (b *EffectBuffer[K]) MaxBinding() gpu.BufferBinding {
	return gpu.BufferBinding{
		Buffer: b.particleBuffer,
		Offset: 0,
		Size:   uint64(b.capacity) * uint64(b.itemSize),
	}
}

// Binding binds the first size bytes of the particle buffer.
func (b *EffectBuffer[K]) Binding(size uint64) (gpu.BufferBinding, error) {
	maxSize := uint64(b.capacity) * uint64(b.itemSize)
	if size == 0 || size > maxSize {
		return gpu.BufferBinding{}, fmt.Errorf("%w: %d bytes of %q (%d bytes)", ErrInvalidBinding, size, b.label, maxSize)
	}
	return gpu.BufferBinding{
		Buffer: b.particleBuffer,
		Offset: 0,
		Size:   size,
	}, nil
}

// IndirectMaxBinding binds the entire indirect buffer.
func (b *EffectBuffer[K]) IndirectMaxBinding() gpu.BufferBinding {
	return gpu.BufferBinding{
		Buffer: b.indirectBuffer,
		Offset: 0,
		Size:   uint64(b.capacity) * core.IndirectIndexSize,
	}
}

// SliceBinding binds the particles of one slice. The slice must lie inside
// this buffer.
func (b *EffectBuffer[K]) SliceBinding(s SliceRef) (gpu.BufferBinding, error) {
	if s.itemSize != b.itemSize || !(alloc.Range{End: b.capacity}).Contains(s.rng) {
		return gpu.BufferBinding{}, fmt.Errorf("%w: slice %s x%dB outside %q", ErrInvalidBinding, s.rng, s.itemSize, b.label)
	}
	return gpu.BufferBinding{
		Buffer: b.particleBuffer,
		Offset: s.ByteOffset(),
		Size:   s.ByteSize(),
	}, nil
}

// Release frees both device buffers. The EffectBuffer must not be used
// afterwards.
func (b *EffectBuffer[K]) Release() {
	b.particleBuffer.Release()
	b.indirectBuffer.Release()
}

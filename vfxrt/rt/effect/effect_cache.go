package effect

import (
	"fmt"

	"github.com/gekko3d/vfx/vfxrt/rt/gpu"
)

type cacheOptions struct {
	logger      Logger
	minCapacity uint32
	labelPrefix string
}

type CacheOption func(*cacheOptions)

func WithLogger(l Logger) CacheOption {
	return func(o *cacheOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMinCapacity overrides MinCapacity for buffers created by the cache.
func WithMinCapacity(capacity uint32) CacheOption {
	return func(o *cacheOptions) {
		o.minCapacity = capacity
	}
}

// WithLabelPrefix sets the label of created buffers to prefix followed by
// the buffer index.
func WithLabelPrefix(prefix string) CacheOption {
	return func(o *cacheOptions) {
		o.labelPrefix = prefix
	}
}

type mapping struct {
	bufferIndex int
	slice       SliceRef
}

// EffectCache packs effect instances into shared EffectBuffers. Instances
// with equal tags share a buffer while it has room; a new buffer is created
// when no compatible buffer can hold the instance.
//
// Not thread-safe: insertions, lookups and removals run on the render thread.
type EffectCache[K comparable] struct {
	device   gpu.Device
	buffers  []*EffectBuffer[K]
	mappings map[EffectCacheId]mapping

	logger      Logger
	minCapacity uint32
	labelPrefix string
}

func NewEffectCache[K comparable](device gpu.Device, opts ...CacheOption) *EffectCache[K] {
	o := cacheOptions{
		logger:      nopLogger{},
		minCapacity: MinCapacity,
		labelPrefix: "effect_buffer",
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &EffectCache[K]{
		device:      device,
		mappings:    make(map[EffectCacheId]mapping),
		logger:      o.logger,
		minCapacity: o.minCapacity,
		labelPrefix: o.labelPrefix,
	}
}

// Buffers returns the effect buffers in creation order; the index of a
// buffer is the GroupIndex of its slices.
func (c *EffectCache[K]) Buffers() []*EffectBuffer[K] {
	return c.buffers
}

// Buffer returns the buffer at groupIndex, or nil.
func (c *EffectCache[K]) Buffer(groupIndex uint32) *EffectBuffer[K] {
	if int(groupIndex) >= len(c.buffers) {
		return nil
	}
	return c.buffers[groupIndex]
}

// Len returns the number of live effect ids.
func (c *EffectCache[K]) Len() int {
	return len(c.mappings)
}

// Insert allocates a slice of capacity particles of itemSize bytes for a new
// effect instance and returns the id to look it up later.
func (c *EffectCache[K]) Insert(tag K, capacity, itemSize uint32) (EffectCacheId, error) {
	byteSize, err := sliceByteSize(capacity, itemSize)
	if err != nil {
		return InvalidEffectCacheId, err
	}

	bufferIndex := -1
	var slice SliceRef
	for i, b := range c.buffers {
		// Only buffers with the same layout can be updated in a single dispatch.
		if !b.IsCompatible(tag) {
			continue
		}
		s, err := b.AllocateParticleSlice(capacity, itemSize)
		if err != nil {
			continue
		}
		bufferIndex, slice = i, s
		break
	}

	if bufferIndex < 0 {
		bufferIndex = len(c.buffers)
		c.logger.Debugf("Creating new effect buffer #%d for effect %v (capacity=%d, item_size=%d, byte_size=%d)",
			bufferIndex, tag, capacity, itemSize, byteSize)
		b, err := NewEffectBuffer(c.device, tag, capacity, itemSize, BufferOptions{
			Label:       fmt.Sprintf("%s%d", c.labelPrefix, bufferIndex),
			MinCapacity: c.minCapacity,
			Logger:      c.logger,
		})
		if err != nil {
			return InvalidEffectCacheId, err
		}
		slice, err = b.AllocateParticleSlice(capacity, itemSize)
		if err != nil {
			b.Release()
			return InvalidEffectCacheId, fmt.Errorf("new effect buffer #%d cannot hold its first slice: %w", bufferIndex, err)
		}
		c.buffers = append(c.buffers, b)
	}

	id := NewEffectCacheId()
	c.logger.Debugf("Insert effect id=%v buffer_index=%d slice=%sx%dB", id, bufferIndex, slice.rng, slice.itemSize)
	c.mappings[id] = mapping{bufferIndex: bufferIndex, slice: slice}
	return id, nil
}

// GetSlice returns where the particles of id live.
func (c *EffectCache[K]) GetSlice(id EffectCacheId) (EffectSlice, error) {
	m, ok := c.mappings[id]
	if !ok {
		return EffectSlice{}, fmt.Errorf("%w: %v", ErrUnknownId, id)
	}
	return EffectSlice{
		Slice:      m.slice.rng,
		GroupIndex: uint32(m.bufferIndex),
		ItemSize:   m.slice.itemSize,
	}, nil
}

// SliceRef returns the slice owned by id, for binding it with
// EffectBuffer.SliceBinding.
func (c *EffectCache[K]) SliceRef(id EffectCacheId) (SliceRef, *EffectBuffer[K], error) {
	m, ok := c.mappings[id]
	if !ok {
		return SliceRef{}, nil, fmt.Errorf("%w: %v", ErrUnknownId, id)
	}
	return m.slice, c.buffers[m.bufferIndex], nil
}

// Remove forgets id and returns its slice to the owning buffer.
func (c *EffectCache[K]) Remove(id EffectCacheId) error {
	m, ok := c.mappings[id]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownId, id)
	}
	if err := c.buffers[m.bufferIndex].ReleaseSlice(m.slice); err != nil {
		return err
	}
	delete(c.mappings, id)
	c.logger.Debugf("Remove effect id=%v buffer_index=%d slice=%s", id, m.bufferIndex, m.slice.rng)
	return nil
}

// Slices returns the slices of all live ids, sorted by buffer then start.
func (c *EffectCache[K]) Slices() []EffectSlice {
	out := make([]EffectSlice, 0, len(c.mappings))
	for _, m := range c.mappings {
		out = append(out, EffectSlice{
			Slice:      m.slice.rng,
			GroupIndex: uint32(m.bufferIndex),
			ItemSize:   m.slice.itemSize,
		})
	}
	SortSlices(out)
	return out
}

// Release frees every device buffer and forgets all ids.
func (c *EffectCache[K]) Release() {
	for _, b := range c.buffers {
		b.Release()
	}
	c.buffers = nil
	clear(c.mappings)
}

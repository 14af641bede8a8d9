package effect

import (
	"cmp"
	"fmt"
	"math"
	"math/bits"
	"slices"
	"sync/atomic"

	"github.com/gekko3d/vfx/vfxrt/rt/alloc"
)

// SliceRef is a range of particle slots owned by one effect instance, along
// with the item size used to allocate it.
type SliceRef struct {
	rng      alloc.Range
	itemSize uint32
}

func (s SliceRef) Range() alloc.Range { return s.rng }
func (s SliceRef) ItemSize() uint32   { return s.itemSize }
func (s SliceRef) Len() uint32        { return s.rng.Len() }

// ByteSize is the size of the slice in bytes.
func (s SliceRef) ByteSize() uint64 {
	return uint64(s.Len()) * uint64(s.itemSize)
}

// ByteOffset is the offset of the first slot in the particle buffer.
func (s SliceRef) ByteOffset() uint64 {
	return uint64(s.rng.Start) * uint64(s.itemSize)
}

// EffectSlice locates the particles of one effect instance: the buffer
// (group) holding them and the slot range inside it.
type EffectSlice struct {
	Slice      alloc.Range
	GroupIndex uint32
	ItemSize   uint32
}

// Compare orders slices by group index, then by slice start.
func (s EffectSlice) Compare(other EffectSlice) int {
	if c := cmp.Compare(s.GroupIndex, other.GroupIndex); c != 0 {
		return c
	}
	return cmp.Compare(s.Slice.Start, other.Slice.Start)
}

// SortSlices orders slices so that slices sharing a buffer are adjacent, in
// slot order, ready to be batched into one dispatch per buffer.
func SortSlices(s []EffectSlice) {
	slices.SortFunc(s, EffectSlice.Compare)
}

// EffectCacheId identifies one effect instance inserted into an EffectCache.
type EffectCacheId uint64

// InvalidEffectCacheId corresponds to nothing.
const InvalidEffectCacheId EffectCacheId = math.MaxUint64

var nextEffectCacheId atomic.Uint64

// NewEffectCacheId returns a process-wide unique id. Ids are never reused.
func NewEffectCacheId() EffectCacheId {
	return EffectCacheId(nextEffectCacheId.Add(1) - 1)
}

func (id EffectCacheId) IsValid() bool {
	return id != InvalidEffectCacheId
}

func (id EffectCacheId) String() string {
	if !id.IsValid() {
		return "EffectCacheId(invalid)"
	}
	return fmt.Sprintf("EffectCacheId(%d)", uint64(id))
}

// sliceByteSize validates a slice request and returns its byte size.
func sliceByteSize(capacity, itemSize uint32) (uint32, error) {
	if capacity == 0 {
		return 0, ErrInvalidCount
	}
	if itemSize == 0 {
		return 0, ErrInvalidItemSize
	}
	hi, lo := bits.Mul32(capacity, itemSize)
	if hi != 0 {
		return 0, fmt.Errorf("%w: capacity=%d item_size=%d", ErrSizeOverflow, capacity, itemSize)
	}
	return lo, nil
}

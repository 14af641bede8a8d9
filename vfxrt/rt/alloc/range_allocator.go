package alloc

import (
	"fmt"
	"slices"

	"github.com/google/btree"
)

// freeBlock is a free range tagged with its position in the free list.
// seq grows with every release, so ordering by seq reproduces the order in
// which a linear scan of the free list would encounter the blocks.
type freeBlock struct {
	Range
	seq uint64
}

func lessBySize(a, b freeBlock) bool {
	if a.Len() != b.Len() {
		return a.Len() < b.Len()
	}
	return a.seq < b.seq
}

// allocation remembers the whole block consumed by one request. A request
// served from the free list consumes the entire free block, even when the
// block is longer than the requested count.
type allocation struct {
	block Range
	count uint32
}

// RangeAllocator hands out item ranges of a fixed-capacity buffer.
//
// New ranges are carved from a high-water mark. Released ranges go to a free
// list and are reused best-fit: the smallest free block that holds the
// request wins, ties resolved by free-list order. Free blocks are never split
// or merged, except that releasing the last live allocation resets the
// allocator to empty.
//
// Not thread-safe.
type RangeAllocator struct {
	capacity uint32
	used     uint32

	free    *btree.BTreeG[freeBlock]
	freeSeq uint64

	live map[uint32]allocation
}

func NewRangeAllocator(capacity uint32) *RangeAllocator {
	return &RangeAllocator{
		capacity: capacity,
		free:     btree.NewG(16, lessBySize),
		live:     make(map[uint32]allocation),
	}
}

// Capacity returns the nominal number of items managed by the allocator.
func (a *RangeAllocator) Capacity() uint32 {
	return a.capacity
}

// Used returns the high-water mark: every item below it is either allocated
// or sitting in the free list.
func (a *RangeAllocator) Used() uint32 {
	return a.used
}

// Live returns the number of outstanding allocations.
func (a *RangeAllocator) Live() int {
	return len(a.live)
}

// FreeItems returns the number of items that can still be handed out,
// counting both the free list and the room above the high-water mark.
// Fragmentation may prevent a single request of that size from succeeding.
func (a *RangeAllocator) FreeItems() uint32 {
	total := a.capacity - a.used
	a.free.Ascend(func(b freeBlock) bool {
		total += b.Len()
		return true
	})
	return total
}

// FreeRanges returns a snapshot of the free list in free-list order.
func (a *RangeAllocator) FreeRanges() []Range {
	blocks := make([]freeBlock, 0, a.free.Len())
	a.free.Ascend(func(b freeBlock) bool {
		blocks = append(blocks, b)
		return true
	})
	slices.SortFunc(blocks, func(x, y freeBlock) int {
		switch {
		case x.seq < y.seq:
			return -1
		case x.seq > y.seq:
			return 1
		}
		return 0
	})
	ranges := make([]Range, len(blocks))
	for i, b := range blocks {
		ranges[i] = b.Range
	}
	return ranges
}

// Allocate returns a range of exactly count items.
func (a *RangeAllocator) Allocate(count uint32) (Range, error) {
	if count == 0 {
		return Range{}, ErrInvalidCount
	}

	if block, ok := a.popBestFit(count); ok {
		r := Range{Start: block.Start, End: block.Start + count}
		a.live[r.Start] = allocation{block: block, count: count}
		return r, nil
	}

	end := a.used + count
	if end < a.used || end > a.capacity {
		return Range{}, fmt.Errorf("%w: requested %d items, used %d of %d", ErrCapacityExhausted, count, a.used, a.capacity)
	}
	r := Range{Start: a.used, End: end}
	a.used = end
	a.live[r.Start] = allocation{block: r, count: count}
	return r, nil
}

// popBestFit removes and returns the smallest free block holding at least
// count items.
func (a *RangeAllocator) popBestFit(count uint32) (Range, bool) {
	var best freeBlock
	found := false
	pivot := freeBlock{Range: Range{Start: 0, End: count}}
	a.free.AscendGreaterOrEqual(pivot, func(b freeBlock) bool {
		best = b
		found = true
		return false
	})
	if !found {
		return Range{}, false
	}
	a.free.Delete(best)
	return best.Range, true
}

// Release returns a range obtained from Allocate to the free list.
func (a *RangeAllocator) Release(r Range) error {
	alloc, ok := a.live[r.Start]
	if !ok || alloc.count != r.Len() {
		return fmt.Errorf("%w: %s", ErrNotAllocated, r)
	}
	delete(a.live, r.Start)

	if len(a.live) == 0 {
		a.Reset()
		return nil
	}

	a.freeSeq++
	a.free.ReplaceOrInsert(freeBlock{Range: alloc.block, seq: a.freeSeq})
	return nil
}

// Reset forgets every allocation and free block.
func (a *RangeAllocator) Reset() {
	a.used = 0
	a.free.Clear(false)
	a.freeSeq = 0
	clear(a.live)
}

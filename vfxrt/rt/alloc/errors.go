package alloc

import "errors"

var (
	// ErrInvalidCount indicates a zero-length allocation request.
	ErrInvalidCount = errors.New("alloc: allocation count must be greater than zero")

	// ErrCapacityExhausted indicates that neither the free list nor the remaining
	// capacity can satisfy the request. Callers are expected to allocate from
	// another buffer instead of retrying.
	ErrCapacityExhausted = errors.New("alloc: capacity exhausted")

	// ErrNotAllocated indicates a release of a range that is not currently allocated.
	ErrNotAllocated = errors.New("alloc: range is not allocated")
)

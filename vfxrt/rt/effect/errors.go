package effect

import (
	"errors"

	"github.com/gekko3d/vfx/vfxrt/rt/alloc"
)

var (
	// ErrCapacityExhausted is returned by an EffectBuffer that cannot hold a
	// slice. EffectCache absorbs it by moving on to another buffer.
	ErrCapacityExhausted = alloc.ErrCapacityExhausted

	// ErrInvalidCount is returned for a zero particle capacity.
	ErrInvalidCount = alloc.ErrInvalidCount

	ErrInvalidItemSize  = errors.New("effect: item size must be greater than zero")
	ErrItemSizeMismatch = errors.New("effect: item size does not match the buffer")

	// ErrSizeOverflow is returned when capacity * item size does not fit in
	// 32 bits. The request is rejected rather than truncated.
	ErrSizeOverflow = errors.New("effect: slice byte size overflow")

	// ErrUnknownId is returned for an id that was never inserted or was removed.
	ErrUnknownId = errors.New("effect: unknown effect cache id")

	ErrInvalidBinding = errors.New("effect: invalid binding size")
)

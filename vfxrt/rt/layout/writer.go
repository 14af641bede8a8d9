package layout

import (
	"fmt"
	"reflect"
)

// Writer packs values of T into a byte slice, one item every Stride bytes.
type Writer[T any] struct {
	rules  Rules
	layout Layout
	stride uint64
	custom bool
	rt     reflect.Type
}

// NewWriter computes the layout of T under rules. The item stride is the
// layout size rounded up to the larger of the layout alignment and
// minAlign; pass 0 to use the layout alignment alone.
func NewWriter[T any](rules Rules, minAlign uint64) (*Writer[T], error) {
	var zero T
	w := &Writer[T]{rules: rules}
	if l, ok := asLayouter(&zero); ok {
		w.layout = l.GpuLayout(rules)
		w.custom = true
	} else {
		w.rt = reflect.TypeOf(zero)
		if w.rt == nil {
			return nil, fmt.Errorf("%w: interface type parameter", ErrUnsupportedType)
		}
		var err error
		if w.layout, err = rules.Of(w.rt); err != nil {
			return nil, err
		}
	}
	if w.layout.Size == 0 {
		return nil, fmt.Errorf("%w: %T has zero size", ErrUnsupportedType, zero)
	}
	w.stride = AlignUp(w.layout.Size, max(w.layout.Align, minAlign))
	return w, nil
}

// asLayouter finds a Layouter implemented on either T or *T.
func asLayouter[T any](v *T) (Layouter, bool) {
	if l, ok := any(*v).(Layouter); ok {
		return l, true
	}
	l, ok := any(v).(Layouter)
	return l, ok
}

func (w *Writer[T]) Rules() Rules   { return w.rules }
func (w *Writer[T]) Layout() Layout { return w.layout }
func (w *Writer[T]) Stride() uint64 { return w.stride }

// Write packs values into dst, which must hold at least len(values)*Stride
// bytes. Padding bytes are zeroed.
func (w *Writer[T]) Write(dst []byte, values []T) error {
	need := uint64(len(values)) * w.stride
	if uint64(len(dst)) < need {
		return fmt.Errorf("layout: destination holds %d bytes, need %d", len(dst), need)
	}
	clear(dst[:need])
	for i := range values {
		item := dst[uint64(i)*w.stride : uint64(i+1)*w.stride]
		if w.custom {
			l, _ := asLayouter(&values[i])
			l.PutGpu(w.rules, item)
			continue
		}
		w.rules.put(reflect.ValueOf(values[i]), item)
	}
	return nil
}

package alloc

import "fmt"

// Range is a half-open interval [Start, End) of item indices inside one buffer.
type Range struct {
	Start uint32
	End   uint32
}

func (r Range) Len() uint32 {
	return r.End - r.Start
}

// Contains reports whether o lies entirely inside r.
func (r Range) Contains(o Range) bool {
	return o.Start >= r.Start && o.End <= r.End
}

// Overlaps reports whether r and o share at least one index.
func (r Range) Overlaps(o Range) bool {
	return r.Start < o.End && o.Start < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

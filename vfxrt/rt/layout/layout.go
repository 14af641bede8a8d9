// Package layout computes WGSL host-shareable memory layouts for Go values
// and packs them into byte slices ready for a queue write.
//
// Two rule sets are supported: Std140 for uniform buffers and Std430 for
// storage buffers. They differ only in that uniform buffers round array and
// struct alignment (and array stride) up to 16 bytes.
//
// Supported Go types:
//
//	float32, int32, uint32                     -> f32, i32, u32
//	[2]T, [3]T, [4]T of a 32-bit scalar        -> vec2, vec3, vec4
//	mgl32.Vec2, mgl32.Vec3, mgl32.Vec4         -> vec2<f32>, vec3<f32>, vec4<f32>
//	mgl32.Mat2, mgl32.Mat3, mgl32.Mat4         -> mat2x2<f32>, mat3x3<f32>, mat4x4<f32>
//	[N]E                                       -> array<E, N>
//	struct                                     -> struct (fields tagged gpu:"-" are skipped)
package layout

import (
	"errors"
	"fmt"
)

var ErrUnsupportedType = errors.New("layout: unsupported type")

// Rules selects the address space layout rules.
type Rules int

const (
	// Std430 applies to storage buffers.
	Std430 Rules = iota
	// Std140 applies to uniform buffers.
	Std140
)

func (r Rules) String() string {
	switch r {
	case Std430:
		return "std430"
	case Std140:
		return "std140"
	default:
		return fmt.Sprintf("Rules(%d)", int(r))
	}
}

// Layout is the byte size and minimum alignment of a type.
type Layout struct {
	Size  uint64
	Align uint64
}

// Stride is the size rounded up to the alignment: the distance between two
// consecutive items of this layout in a buffer.
func (l Layout) Stride() uint64 {
	return AlignUp(l.Size, l.Align)
}

// AlignUp rounds n up to the next multiple of align.
func AlignUp(n, align uint64) uint64 {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}

// Layouter is implemented by record types that describe and encode
// themselves instead of relying on reflection, with value or pointer
// receivers. PutGpu must write exactly GpuLayout(rules).Size bytes into dst.
type Layouter interface {
	GpuLayout(rules Rules) Layout
	PutGpu(rules Rules, dst []byte)
}

package gpu

import "github.com/gekko3d/vfx/vfxrt/rt/layout"

// NamedUniformVec mirrors an array of uniform records (std140 layout) into a
// uniform buffer.
type NamedUniformVec[T any] struct {
	deviceVec[T]
}

func NewNamedUniformVec[T any](device Device, label string, opts ...VecOption) (*NamedUniformVec[T], error) {
	v, err := newDeviceVec[T](device, label, layout.Std140, BufferUsageUniform, opts)
	if err != nil {
		return nil, err
	}
	return &NamedUniformVec[T]{deviceVec: v}, nil
}

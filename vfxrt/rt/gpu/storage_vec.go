package gpu

import "github.com/gekko3d/vfx/vfxrt/rt/layout"

// StorageVec mirrors an array of storage records (std430 layout) into a
// storage buffer.
type StorageVec[T any] struct {
	deviceVec[T]
}

func NewStorageVec[T any](device Device, label string, opts ...VecOption) (*StorageVec[T], error) {
	v, err := newDeviceVec[T](device, label, layout.Std430, BufferUsageStorage, opts)
	if err != nil {
		return nil, err
	}
	return &StorageVec[T]{deviceVec: v}, nil
}

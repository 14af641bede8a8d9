package core

import "fmt"

// D3Shape is the extent of a 3-D grid of appear areas.
type D3Shape struct {
	X, Y, Z uint32
}

func NewD3Shape(x, y, z uint32) D3Shape {
	return D3Shape{X: x, Y: y, Z: z}
}

// Len is the number of cells in the grid.
func (s D3Shape) Len() uint32 {
	return s.X * s.Y * s.Z
}

func (s D3Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.X, s.Y, s.Z)
}

// AppearAreaIndex is the flattened index of a grid cell, x varying fastest.
type AppearAreaIndex uint32

func NewAppearAreaIndex(x, y, z uint32, shape D3Shape) AppearAreaIndex {
	return AppearAreaIndex(z*(shape.X*shape.Y) + y*shape.X + x)
}

// Position returns the x, y, z coordinates of the cell in shape.
func (i AppearAreaIndex) Position(shape D3Shape) (x, y, z uint32) {
	xy := shape.X * shape.Y
	z = uint32(i) / xy
	rest := uint32(i) - xy*z
	return rest % shape.X, rest / shape.X, z
}

func (i AppearAreaIndex) ArrayU32(shape D3Shape) [3]uint32 {
	x, y, z := i.Position(shape)
	return [3]uint32{x, y, z}
}

func (i AppearAreaIndex) ArrayF32(shape D3Shape) [3]float32 {
	x, y, z := i.Position(shape)
	return [3]float32{float32(x), float32(y), float32(z)}
}

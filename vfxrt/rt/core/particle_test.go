package core

import (
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/gekko3d/vfx/vfxrt/rt/layout"
)

func TestRecordLayouts(t *testing.T) {
	assert.Equal(t, uint32(32), ParticleItemSize())

	cases := []struct {
		v      any
		std430 uint64
		std140 uint64
	}{
		{Particle{}, 32, 32},
		{ParticleAppearArea{}, 32, 32},
		{SimParams{}, 32, 32},
		{SpawnerParams{}, 48, 48},
	}
	for _, tc := range cases {
		typ := reflect.TypeOf(tc.v)
		assert.Equal(t, tc.std430, layout.Std430.MustOf(typ).Stride(), "%v std430", typ)
		assert.Equal(t, tc.std140, layout.Std140.MustOf(typ).Stride(), "%v std140", typ)
	}
}

func TestParticleAppearArea(t *testing.T) {
	a := NewParticleAppearArea(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, 2, 0}, 5)
	assert.True(t, a.IsActive())
	assert.InDelta(t, 5.0, float64(a.FlowVelocity().Y()), 1e-6)

	off := DisabledAppearArea()
	assert.False(t, off.IsActive())
	assert.Equal(t, mgl32.Vec3{}, off.FlowVelocity())
}

package core

import (
	"reflect"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/vfx/vfxrt/rt/layout"
)

// Particle matches the WGSL record updated by the simulation pass.
// struct Particle { position: vec3<f32>, age: f32, velocity: vec3<f32>, lifetime: f32 }
type Particle struct {
	Position mgl32.Vec3
	Age      float32
	Velocity mgl32.Vec3
	Lifetime float32
}

// ParticleItemSize is the storage stride of one Particle, the item size used
// when inserting effects into the effect cache.
func ParticleItemSize() uint32 {
	return uint32(layout.Std430.MustOf(reflect.TypeOf(Particle{})).Stride())
}

// IndirectIndexSize is the size of one entry of an indirect index buffer.
const IndirectIndexSize = 4

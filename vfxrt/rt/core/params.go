package core

import "github.com/go-gl/mathgl/mgl32"

// SimParams is the per-frame uniform shared by every update dispatch.
type SimParams struct {
	Dt      float32
	Time    float32
	Gravity mgl32.Vec3
}

// SpawnerParams is the per-effect uniform of one update dispatch. Base and
// Capacity locate the effect's slice inside its particle buffer.
type SpawnerParams struct {
	Origin     mgl32.Vec3
	SpawnCount uint32
	Accel      mgl32.Vec3
	Seed       uint32
	Base       uint32
	Capacity   uint32
}

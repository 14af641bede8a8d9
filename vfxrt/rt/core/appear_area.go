package core

import "github.com/go-gl/mathgl/mgl32"

// ParticleAppearArea is the region particles of one effect are spawned in.
// Active is -1 for a disabled area.
type ParticleAppearArea struct {
	Position      mgl32.Vec3
	Active        int32
	FlowDirection mgl32.Vec3
	FlowSpeed     float32
}

func NewParticleAppearArea(position, flowDirection mgl32.Vec3, flowSpeed float32) ParticleAppearArea {
	return ParticleAppearArea{
		Position:      position,
		FlowDirection: flowDirection,
		FlowSpeed:     flowSpeed,
	}
}

// DisabledAppearArea returns an area that spawns nothing.
func DisabledAppearArea() ParticleAppearArea {
	return ParticleAppearArea{Active: -1}
}

func (a ParticleAppearArea) IsActive() bool {
	return a.Active != -1
}

// FlowVelocity is the flow direction scaled by the flow speed.
func (a ParticleAppearArea) FlowVelocity() mgl32.Vec3 {
	if a.FlowDirection.Len() == 0 {
		return mgl32.Vec3{}
	}
	return a.FlowDirection.Normalize().Mul(a.FlowSpeed)
}

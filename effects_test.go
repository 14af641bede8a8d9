package vfx

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/vfx/vfxrt/rt/alloc"
	"github.com/gekko3d/vfx/vfxrt/rt/core"
	"github.com/gekko3d/vfx/vfxrt/rt/effect"
	"github.com/gekko3d/vfx/vfxrt/rt/gpu/gputest"
)

func u32At(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off:])
}

func f32At(b []byte, off int) float32 {
	return math.Float32frombits(u32At(b, off))
}

func newTestEffects(t *testing.T) (*Effects, *gputest.RecordingDevice) {
	t.Helper()
	dev := gputest.NewRecordingDevice()
	e, err := NewEffects(dev, DefaultConfig(), nil)
	require.NoError(t, err)
	return e, dev
}

func TestEffects_PrepareFrame(t *testing.T) {
	e, dev := newTestEffects(t)
	smoke, sparks := NewAssetId(), NewAssetId()

	a1, err := e.Spawn(EffectInstance{Asset: smoke, SpawnRate: 10, Origin: mgl32.Vec3{1, 2, 3}}, 1000)
	require.NoError(t, err)
	b1, err := e.Spawn(EffectInstance{Asset: sparks, SpawnRate: 10, Area: core.DisabledAppearArea()}, 500)
	require.NoError(t, err)
	a2, err := e.Spawn(EffectInstance{Asset: smoke, SpawnRate: 10}, 200)
	require.NoError(t, err)
	assert.Equal(t, 3, e.Len())

	dispatches, err := e.PrepareFrame(0.25, 1)
	require.NoError(t, err)
	require.Len(t, dispatches, 3)

	// Sorted by buffer then slice start; spawner indices follow id order.
	assert.Equal(t, a1, dispatches[0].Id)
	assert.Equal(t, effect.EffectSlice{Slice: alloc.Range{Start: 0, End: 1000}, GroupIndex: 0, ItemSize: 32}, dispatches[0].Slice)
	assert.Equal(t, 0, dispatches[0].SpawnerIndex)
	assert.Equal(t, a2, dispatches[1].Id)
	assert.Equal(t, alloc.Range{Start: 1000, End: 1200}, dispatches[1].Slice.Slice)
	assert.Equal(t, 2, dispatches[1].SpawnerIndex)
	assert.Equal(t, uint64(1000*32), dispatches[1].Particles.Offset)
	assert.Equal(t, uint64(200*32), dispatches[1].Particles.Size)
	assert.Same(t, e.Cache().Buffer(0).ParticleBuffer(), dispatches[1].Particles.Buffer)
	assert.Equal(t, b1, dispatches[2].Id)
	assert.Equal(t, uint32(1), dispatches[2].Slice.GroupIndex)
	assert.Equal(t, 1, dispatches[2].SpawnerIndex)

	assert.Equal(t, uint32(2), dispatches[0].SpawnCount)
	assert.Equal(t, uint32(0), dispatches[2].SpawnCount, "disabled area spawns nothing")

	// Spawner params use std140 with a 256 byte dynamic offset stride.
	spawners := dev.BufferByLabel("vfx_spawner_params")
	require.NotNil(t, spawners)
	assert.Equal(t, uint64(3*256), spawners.Size())
	assert.Equal(t, uint64(256), e.Spawners().ItemSize())
	assert.Equal(t, float32(1), f32At(spawners.Data, 0))
	assert.Equal(t, float32(3), f32At(spawners.Data, 8))
	assert.Equal(t, uint32(2), u32At(spawners.Data, 12))
	assert.Equal(t, uint32(1000), u32At(spawners.Data, 2*256+32))
	assert.Equal(t, uint32(200), u32At(spawners.Data, 2*256+36))

	sim := dev.BufferByLabel("vfx_sim_params")
	require.NotNil(t, sim)
	assert.Equal(t, float32(0.25), f32At(sim.Data, 0))
	assert.Equal(t, float32(1), f32At(sim.Data, 4))
	assert.InDelta(t, -9.81, f32At(sim.Data, 20), 1e-6)

	areas := dev.BufferByLabel("vfx_appear_areas")
	require.NotNil(t, areas)
	assert.Equal(t, uint64(3*32), areas.Size())
	assert.Equal(t, uint32(math.MaxUint32), u32At(areas.Data, 32+12), "disabled area is -1")
}

func TestEffects_SpawnAccumulates(t *testing.T) {
	e, _ := newTestEffects(t)
	id, err := e.Spawn(EffectInstance{Asset: NewAssetId(), SpawnRate: 10}, 4)
	require.NoError(t, err)

	counts := []uint32{}
	for i := 0; i < 3; i++ {
		d, err := e.PrepareFrame(0.25, float32(i)*0.25)
		require.NoError(t, err)
		counts = append(counts, d[0].SpawnCount)
	}
	// 2.5 then 3 then 2.5 particles owed; capped by the slice capacity.
	assert.Equal(t, []uint32{2, 3, 2}, counts)

	inst, ok := e.Instance(id)
	require.True(t, ok)
	inst.SpawnRate = 1000
	d, err := e.PrepareFrame(1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), d[0].SpawnCount)
}

func TestEffects_Despawn(t *testing.T) {
	e, _ := newTestEffects(t)
	asset := NewAssetId()
	id1, err := e.Spawn(EffectInstance{Asset: asset}, 100)
	require.NoError(t, err)
	_, err = e.Spawn(EffectInstance{Asset: asset}, 100)
	require.NoError(t, err)

	require.NoError(t, e.Despawn(id1))
	assert.ErrorIs(t, e.Despawn(id1), effect.ErrUnknownId)
	assert.Equal(t, 1, e.Len())
	_, ok := e.Instance(id1)
	assert.False(t, ok)

	d, err := e.PrepareFrame(0.1, 0)
	require.NoError(t, err)
	assert.Len(t, d, 1)
}

func TestEffects_SpawnErrors(t *testing.T) {
	e, _ := newTestEffects(t)
	_, err := e.Spawn(EffectInstance{Asset: NewAssetId()}, 0)
	assert.ErrorIs(t, err, effect.ErrInvalidCount)
	assert.Equal(t, 0, e.Len())

	_, err = NewEffects(gputest.NewRecordingDevice(), Config{}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestEffectsModule(t *testing.T) {
	dev := gputest.NewRecordingDevice()
	app := NewAppBuilder().
		UseModule(LoggingModule{Prefix: "test"}).
		UseModule(EffectsModule{Device: dev, Config: DefaultConfig()}).
		Build()

	effects := app.Effects()
	require.NotNil(t, effects)
	_, err := effects.Spawn(EffectInstance{Asset: NewAssetId(), SpawnRate: 1}, 10)
	require.NoError(t, err)
	_, err = effects.PrepareFrame(1, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, dev.Live())

	app.Release()
	assert.Empty(t, dev.Live())

	assert.Panics(t, func() {
		NewAppBuilder().UseModule(EffectsModule{Device: dev}).Build()
	})
	assert.Nil(t, NewAppBuilder().Build().Effects())
}

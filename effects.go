package vfx

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/vfx/vfxrt/rt/core"
	"github.com/gekko3d/vfx/vfxrt/rt/effect"
	"github.com/gekko3d/vfx/vfxrt/rt/gpu"
)

// EffectInstance is the spawner state of one live effect.
type EffectInstance struct {
	Asset  AssetId
	Origin mgl32.Vec3
	Accel  mgl32.Vec3
	// SpawnRate is in particles per second.
	SpawnRate float32
	Area      core.ParticleAppearArea

	spawnAccum float32
}

// Dispatch is one effect update ready to be recorded: the slice to update
// and the index of its SpawnerParams for the dynamic uniform offset.
type Dispatch struct {
	Id           effect.EffectCacheId
	Slice        effect.EffectSlice
	SpawnerIndex int
	SpawnCount   uint32
	// Particles binds the slice inside its effect buffer.
	Particles gpu.BufferBinding
}

// Effects owns the effect cache and the per-frame uniforms of every live
// effect instance.
type Effects struct {
	cache    *effect.EffectCache[AssetId]
	sim      *gpu.NamedUniformVec[core.SimParams]
	spawners *gpu.NamedUniformVec[core.SpawnerParams]
	areas    *gpu.StorageVec[core.ParticleAppearArea]

	instances map[effect.EffectCacheId]*EffectInstance
	gravity   mgl32.Vec3
	frame     uint32
	logger    Logger
}

func NewEffects(device gpu.Device, config Config, logger Logger) (*Effects, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	var uniformOpts []gpu.VecOption
	if config.MinUniformAlignment > 0 {
		uniformOpts = append(uniformOpts, gpu.WithMinAlignment(uint64(config.MinUniformAlignment)))
	}

	sim, err := gpu.NewNamedUniformVec[core.SimParams](device, "vfx_sim_params")
	if err != nil {
		return nil, err
	}
	spawners, err := gpu.NewNamedUniformVec[core.SpawnerParams](device, "vfx_spawner_params", uniformOpts...)
	if err != nil {
		return nil, err
	}
	areas, err := gpu.NewStorageVec[core.ParticleAppearArea](device, "vfx_appear_areas")
	if err != nil {
		return nil, err
	}

	return &Effects{
		cache: effect.NewEffectCache[AssetId](device,
			effect.WithLogger(logger),
			effect.WithMinCapacity(uint32(config.MinCapacity)),
			effect.WithLabelPrefix(config.LabelPrefix),
		),
		sim:       sim,
		spawners:  spawners,
		areas:     areas,
		instances: make(map[effect.EffectCacheId]*EffectInstance),
		gravity:   mgl32.Vec3{0, -float32(config.Gravity), 0},
		logger:    logger,
	}, nil
}

func (e *Effects) Cache() *effect.EffectCache[AssetId] {
	return e.cache
}

func (e *Effects) SimParams() *gpu.NamedUniformVec[core.SimParams] {
	return e.sim
}

func (e *Effects) Spawners() *gpu.NamedUniformVec[core.SpawnerParams] {
	return e.spawners
}

func (e *Effects) AppearAreas() *gpu.StorageVec[core.ParticleAppearArea] {
	return e.areas
}

// Len returns the number of live effect instances.
func (e *Effects) Len() int { return len(e.instances) }

// Instance returns the spawner state of id, for the caller to move or retune.
func (e *Effects) Instance(id effect.EffectCacheId) (*EffectInstance, bool) {
	inst, ok := e.instances[id]
	return inst, ok
}

// Spawn reserves room for capacity particles of inst.Asset and starts
// tracking the instance.
func (e *Effects) Spawn(inst EffectInstance, capacity uint32) (effect.EffectCacheId, error) {
	id, err := e.cache.Insert(inst.Asset, capacity, core.ParticleItemSize())
	if err != nil {
		return effect.InvalidEffectCacheId, fmt.Errorf("failed to spawn effect %s: %w", inst.Asset, err)
	}
	e.instances[id] = &inst
	return id, nil
}

func (e *Effects) Despawn(id effect.EffectCacheId) error {
	if err := e.cache.Remove(id); err != nil {
		return err
	}
	delete(e.instances, id)
	return nil
}

// PrepareFrame packs the uniforms of every live instance, uploads them and
// returns the dispatches sorted by buffer then slice start, so effects
// sharing a buffer are recorded back to back.
func (e *Effects) PrepareFrame(dt, time float32) ([]Dispatch, error) {
	e.frame++
	e.sim.Clear()
	e.spawners.Clear()
	e.areas.Clear()

	e.sim.Push(core.SimParams{Dt: dt, Time: time, Gravity: e.gravity})

	ids := make([]effect.EffectCacheId, 0, len(e.instances))
	for id := range e.instances {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	dispatches := make([]Dispatch, 0, len(ids))
	for _, id := range ids {
		inst := e.instances[id]
		s, err := e.cache.GetSlice(id)
		if err != nil {
			return nil, err
		}
		ref, buf, err := e.cache.SliceRef(id)
		if err != nil {
			return nil, err
		}
		particles, err := buf.SliceBinding(ref)
		if err != nil {
			return nil, err
		}
		count := inst.spawnCount(dt, s.Slice.Len())
		index := e.spawners.Push(core.SpawnerParams{
			Origin:     inst.Origin,
			SpawnCount: count,
			Accel:      inst.Accel,
			Seed:       e.frame*2654435761 ^ uint32(id),
			Base:       s.Slice.Start,
			Capacity:   s.Slice.Len(),
		})
		e.areas.Push(inst.Area)
		dispatches = append(dispatches, Dispatch{
			Id:           id,
			Slice:        s,
			SpawnerIndex: index,
			SpawnCount:   count,
			Particles:    particles,
		})
	}
	slices.SortFunc(dispatches, func(a, b Dispatch) int {
		return a.Slice.Compare(b.Slice)
	})

	if err := e.sim.WriteBuffer(); err != nil {
		return nil, err
	}
	if err := e.spawners.WriteBuffer(); err != nil {
		return nil, err
	}
	if err := e.areas.WriteBuffer(); err != nil {
		return nil, err
	}
	e.logger.Debugf("Prepared frame %d: %d effects in %d buffers", e.frame, len(dispatches), len(e.cache.Buffers()))
	return dispatches, nil
}

// spawnCount accumulates fractional spawns across frames.
func (inst *EffectInstance) spawnCount(dt float32, capacity uint32) uint32 {
	if !inst.Area.IsActive() || inst.SpawnRate <= 0 {
		inst.spawnAccum = 0
		return 0
	}
	inst.spawnAccum += inst.SpawnRate * dt
	n := float32(math.Floor(float64(inst.spawnAccum)))
	inst.spawnAccum -= n
	if n > float32(capacity) {
		return capacity
	}
	return uint32(n)
}

func (e *Effects) Release() {
	e.cache.Release()
	e.sim.Release()
	e.spawners.Release()
	e.areas.Release()
	clear(e.instances)
}

// EffectsModule installs *Effects as a resource. It must be installed after
// LoggingModule to log through it.
type EffectsModule struct {
	Device gpu.Device
	Config Config
}

func (m EffectsModule) Install(app *App, cmd *Commands) {
	effects, err := NewEffects(m.Device, m.Config, app.Logger())
	if err != nil {
		panic(err)
	}
	cmd.AddResources(effects)
}

// Effects returns the installed Effects, or nil.
func (app *App) Effects() *Effects {
	e, _ := Resource[Effects](app)
	return e
}

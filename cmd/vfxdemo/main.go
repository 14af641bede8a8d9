package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fulldump/goconfig"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/vfx"
	"github.com/gekko3d/vfx/vfxrt/rt/core"
	"github.com/gekko3d/vfx/vfxrt/rt/gpu/wgpudevice"
)

type Config struct {
	Vfx        vfx.Config
	Assets     int     `usage:"number of distinct effect assets"`
	Effects    int     `usage:"number of effect instances to spawn"`
	Particles  int64   `usage:"particle capacity of each effect instance"`
	SpawnRate  float64 `usage:"particles spawned per second by each effect"`
	Frames     int     `usage:"number of frames to prepare"`
	Dt         float64 `usage:"frame time step in seconds"`
	ShowConfig bool    `usage:"print config"`
}

func main() {
	c := Config{
		Vfx:       vfx.DefaultConfig(),
		Assets:    3,
		Effects:   12,
		Particles: 20000,
		SpawnRate: 5000,
		Frames:    60,
		Dt:        1.0 / 60,
	}
	goconfig.Read(&c)

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	if err := run(c); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c Config) error {
	device, err := wgpudevice.Request()
	if err != nil {
		return err
	}
	defer device.Release()

	if align := int64(device.MinUniformAlignment()); c.Vfx.MinUniformAlignment > 0 && align > c.Vfx.MinUniformAlignment {
		c.Vfx.MinUniformAlignment = align
	}

	app := vfx.NewAppBuilder().
		UseModule(vfx.LoggingModule{Prefix: c.Vfx.LogPrefix, Debug: c.Vfx.Debug}).
		UseModule(vfx.EffectsModule{Device: device, Config: c.Vfx}).
		Build()
	defer app.Release()

	logger := app.Logger()
	effects := app.Effects()

	assets := make([]vfx.AssetId, max(c.Assets, 1))
	for i := range assets {
		assets[i] = vfx.NewAssetId()
	}

	// Effects are placed on a 4x4xN grid of appear areas.
	grid := core.NewD3Shape(4, 4, uint32(c.Effects/16+1))
	for i := 0; i < c.Effects; i++ {
		origin := mgl32.Vec3(core.AppearAreaIndex(i).ArrayF32(grid))
		_, err := effects.Spawn(vfx.EffectInstance{
			Asset:     assets[i%len(assets)],
			Origin:    origin,
			SpawnRate: float32(c.SpawnRate),
			Area:      core.NewParticleAppearArea(origin, mgl32.Vec3{0, 1, 0}, 2),
		}, uint32(c.Particles))
		if err != nil {
			return err
		}
	}
	for i, b := range effects.Cache().Buffers() {
		logger.Infof("buffer #%d %q: capacity=%d item_size=%d used=%d live=%d",
			i, b.Label(), b.Capacity(), b.ItemSize(), b.Used(), b.Live())
	}

	var spawned uint64
	var time float32
	for frame := 0; frame < c.Frames; frame++ {
		time += float32(c.Dt)
		if _, err := effects.PrepareFrame(float32(c.Dt), time); err != nil {
			return err
		}
		for _, p := range effects.Spawners().Values() {
			spawned += uint64(p.SpawnCount)
		}
	}
	logger.Infof("prepared %d frames for %d effects, %d particles spawned", c.Frames, effects.Len(), spawned)
	return nil
}

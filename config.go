package vfx

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/gekko3d/vfx/vfxrt/rt/effect"
)

var ErrInvalidConfig = errors.New("vfx: invalid config")

// Config is read from flags and environment by goconfig in cmd/vfxdemo.
type Config struct {
	Debug               bool    `usage:"enable debug logging"`
	LogPrefix           string  `usage:"prefix of every log line"`
	MinCapacity         int64   `usage:"minimum particle capacity of an effect buffer"`
	LabelPrefix         string  `usage:"label prefix of effect buffers, followed by the buffer index"`
	MinUniformAlignment int64   `usage:"minimum dynamic offset alignment of per-effect uniforms, 0 to pack tightly"`
	Gravity             float64 `usage:"gravity applied along -Y, in units per second squared"`
}

func DefaultConfig() Config {
	return Config{
		LogPrefix:           "vfx",
		MinCapacity:         int64(effect.MinCapacity),
		LabelPrefix:         "effect_buffer",
		MinUniformAlignment: 256,
		Gravity:             9.81,
	}
}

func (c Config) Validate() error {
	if c.MinCapacity <= 0 || c.MinCapacity > math.MaxUint32 {
		return fmt.Errorf("%w: min capacity %d out of range", ErrInvalidConfig, c.MinCapacity)
	}
	if c.LabelPrefix == "" {
		return fmt.Errorf("%w: empty label prefix", ErrInvalidConfig)
	}
	if c.MinUniformAlignment < 0 || bits.OnesCount64(uint64(c.MinUniformAlignment)) > 1 {
		return fmt.Errorf("%w: uniform alignment %d is not a power of two", ErrInvalidConfig, c.MinUniformAlignment)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/sandbox/internal/circuit"
	"github.com/san-kum/sandbox/internal/dynamo"
	"github.com/san-kum/sandbox/internal/fluid"
	"github.com/san-kum/sandbox/internal/material"
	"github.com/san-kum/sandbox/internal/mechanics"
	"github.com/san-kum/sandbox/internal/metrics"
	"github.com/san-kum/sandbox/internal/thermal"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFPS  = 60
	DefaultDt   = 1.0 / DefaultFPS
	DefaultMode = "mechanics"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Modes are the accepted values of Config.Mode.
var Modes = []string{"mechanics", "electricity", "fluid", "thermal"}

type Config struct {
	Mode          string  `yaml:"mode"`
	Material      string  `yaml:"material"`
	FluidMaterial string  `yaml:"fluid_material"`
	Dt            float64 `yaml:"dt"`
	FPS           int     `yaml:"fps"`
	Seed          int64   `yaml:"seed"`
	// History is how many frames of each metric are kept for plotting.
	History int `yaml:"history"`

	World     dynamo.World     `yaml:"world"`
	Mechanics mechanics.Params `yaml:"mechanics"`
	Circuit   circuit.Params   `yaml:"circuit"`
	Fluid     fluid.Params     `yaml:"fluid"`
	Thermal   thermal.Params   `yaml:"thermal"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode:          DefaultMode,
		Material:      material.Wood,
		FluidMaterial: material.Water,
		Dt:            DefaultDt,
		FPS:           DefaultFPS,
		Seed:          1,
		History:       metrics.DefaultCapacity,
		World:         dynamo.DefaultWorld(),
		Mechanics:     mechanics.DefaultParams(),
		Circuit:       circuit.DefaultParams(),
		Fluid:         fluid.DefaultParams(),
		Thermal:       thermal.DefaultParams(),
	}
}

// Load reads a YAML file over the defaults, so a file only needs the keys
// it changes.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over base, which is modified and returned.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Dt <= 0:
		return fmt.Errorf("%w: dt=%g", ErrInvalidConfig, c.Dt)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps=%d", ErrInvalidConfig, c.FPS)
	case c.World.Width <= 0 || c.World.Height <= 0:
		return fmt.Errorf("%w: world %gx%g", ErrInvalidConfig, c.World.Width, c.World.Height)
	case c.World.FloorOffset < 0 || c.World.FloorOffset >= c.World.Height:
		return fmt.Errorf("%w: floor_offset=%g", ErrInvalidConfig, c.World.FloorOffset)
	case c.Fluid.MaxParticles < 0:
		return fmt.Errorf("%w: max_particles=%d", ErrInvalidConfig, c.Fluid.MaxParticles)
	}
	for _, m := range Modes {
		if m == c.Mode {
			return nil
		}
	}
	return fmt.Errorf("%w: mode %q", ErrInvalidConfig, c.Mode)
}

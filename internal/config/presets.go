package config

import "sort"

// Preset is a named tweak applied on top of the defaults.
type Preset struct {
	Description string
	Apply       func(c *Config)
}

var Presets = map[string]Preset{
	"moon": {
		Description: "lunar gravity for bodies and fluids",
		Apply: func(c *Config) {
			c.Mechanics.Gravity = 162
			c.Fluid.Gravity = 162
		},
	},
	"zero_g": {
		Description: "no gravity anywhere",
		Apply: func(c *Config) {
			c.Mechanics.Gravity = 0
			c.Fluid.Gravity = 0
		},
	},
	"syrup": {
		Description: "slow, thick fluid",
		Apply: func(c *Config) {
			c.Mode = "fluid"
			c.Fluid.Viscosity = 8
			c.Fluid.FlowRate = 5
		},
	},
	"hot": {
		Description: "hotter heat sources and faster diffusion",
		Apply: func(c *Config) {
			c.Mode = "thermal"
			c.Thermal.SourceTemperature = 400
			c.Thermal.Temperature = 400
			c.Thermal.DiffusionRate = 40
		},
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	p.Apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

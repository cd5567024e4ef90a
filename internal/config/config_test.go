package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "mechanics" {
		t.Errorf("expected mode mechanics, got %s", cfg.Mode)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Mechanics.Gravity != 981 {
		t.Errorf("expected gravity 981, got %f", cfg.Mechanics.Gravity)
	}
	if cfg.Fluid.MaxParticles != 0 {
		t.Errorf("particle cap should default to unbounded, got %d", cfg.Fluid.MaxParticles)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("moon")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Mechanics.Gravity != 162 || cfg.Fluid.Gravity != 162 {
		t.Errorf("expected lunar gravity, got %f/%f", cfg.Mechanics.Gravity, cfg.Fluid.Gravity)
	}
	if DefaultConfig().Mechanics.Gravity != 981 {
		t.Error("preset leaked into defaults")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	want := []string{"hot", "moon", "syrup", "zero_g"}
	got := ListPresets()
	if len(got) != len(want) {
		t.Fatalf("presets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("presets = %v, want %v", got, want)
		}
	}
	for _, name := range got {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"flat world", func(c *Config) { c.World.Height = 0 }},
		{"floor off screen", func(c *Config) { c.World.FloorOffset = c.World.Height }},
		{"negative cap", func(c *Config) { c.Fluid.MaxParticles = -1 }},
		{"bad mode", func(c *Config) { c.Mode = "optics" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandbox.yaml")
	cfg := GetPreset("syrup")
	cfg.Seed = 42
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Mode != "fluid" || loaded.Fluid.Viscosity != 8 || loaded.Seed != 42 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("mode: thermal\nthermal:\n  temperature: 250\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Thermal.Temperature != 250 {
		t.Errorf("temperature = %f, want 250", cfg.Thermal.Temperature)
	}
	if cfg.Thermal.Ambient != 20 || cfg.Dt != DefaultDt {
		t.Errorf("defaults not kept: ambient %f dt %f", cfg.Thermal.Ambient, cfg.Dt)
	}
}

func TestLoadOverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "over.yaml")
	if err := os.WriteFile(path, []byte("seed: 7\nmechanics:\n  friction: 0.2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadOver(path, GetPreset("moon"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Mechanics.Gravity != 162 || cfg.Fluid.Gravity != 162 {
		t.Errorf("preset gravity lost: mechanics %f fluid %f", cfg.Mechanics.Gravity, cfg.Fluid.Gravity)
	}
	if cfg.Seed != 7 || cfg.Mechanics.Friction != 0.2 {
		t.Errorf("file values not applied: seed %d friction %f", cfg.Seed, cfg.Mechanics.Friction)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("dt: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

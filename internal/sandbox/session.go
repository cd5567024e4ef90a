// Package sandbox ties the four physics domains into one interactive
// session: it owns the solvers, turns host input events into domain
// operations, and publishes read-only frames for rendering.
package sandbox

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/san-kum/sandbox/internal/circuit"
	"github.com/san-kum/sandbox/internal/config"
	"github.com/san-kum/sandbox/internal/dynamo"
	"github.com/san-kum/sandbox/internal/fluid"
	"github.com/san-kum/sandbox/internal/material"
	"github.com/san-kum/sandbox/internal/mechanics"
	"github.com/san-kum/sandbox/internal/thermal"
)

// SessionState is everything a command may touch: the active mode, one
// solver per domain and the current material selections. Each solver has
// its own lifecycle; switching to a mode rebuilds only that mode's solver.
type SessionState struct {
	Mode          Mode
	Material      string
	FluidMaterial string

	Mechanics *mechanics.Solver
	Circuit   *circuit.Solver
	Fluid     *fluid.Solver
	Thermal   *thermal.Solver

	cfg       *config.Config
	materials *material.Table
	rng       *rand.Rand
}

func NewSession(cfg *config.Config, materials *material.Table) (*SessionState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, err := ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	s := &SessionState{
		Mode:      mode,
		cfg:       cfg,
		materials: materials,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
	}
	if err := s.SetMaterial(cfg.Material); err != nil {
		return nil, err
	}
	if err := s.SetFluid(cfg.FluidMaterial); err != nil {
		return nil, err
	}
	for _, m := range Modes {
		s.rebuild(m)
	}
	return s, nil
}

func (s *SessionState) Config() *config.Config {
	return s.cfg
}

func (s *SessionState) Materials() *material.Table {
	return s.materials
}

func (s *SessionState) rebuild(m Mode) {
	w := s.cfg.World
	switch m {
	case Mechanics:
		s.Mechanics = mechanics.New(w, s.cfg.Mechanics, s.materials)
	case Electricity:
		s.Circuit = circuit.New(w, s.cfg.Circuit)
	case Fluid:
		s.Fluid = fluid.New(w, s.cfg.Fluid, s.materials, s.rng)
	case Thermal:
		s.Thermal = thermal.New(w, s.cfg.Thermal, s.materials)
	}
}

// SwitchMode activates m with a fresh solver. Other modes keep their state.
func (s *SessionState) SwitchMode(m Mode) error {
	if m < Mechanics || m > Thermal {
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	s.Mode = m
	s.rebuild(m)
	log.Printf("sandbox: switched to %s", m)
	return nil
}

// Reset rebuilds the active mode's solver.
func (s *SessionState) Reset() {
	s.rebuild(s.Mode)
	log.Printf("sandbox: reset %s", s.Mode)
}

// SetMaterial selects the solid used by new bodies and floating objects.
func (s *SessionState) SetMaterial(name string) error {
	if _, err := s.materials.LookupKind(name, material.Solid); err != nil {
		return fmt.Errorf("sandbox: %w", err)
	}
	s.Material = name
	return nil
}

// SetFluid selects the fluid emitted by clicks in fluid mode.
func (s *SessionState) SetFluid(name string) error {
	if _, err := s.materials.LookupKind(name, material.Fluid); err != nil {
		return fmt.Errorf("sandbox: %w", err)
	}
	s.FluidMaterial = name
	return nil
}

// Solver returns the solver backing mode m.
func (s *SessionState) Solver(m Mode) dynamo.Solver {
	switch m {
	case Electricity:
		return s.Circuit
	case Fluid:
		return s.Fluid
	case Thermal:
		return s.Thermal
	default:
		return s.Mechanics
	}
}

// Params exposes the slider-adjustable parameters of mode m.
func (s *SessionState) Params(m Mode) dynamo.Configurable {
	return s.Solver(m).(dynamo.Configurable)
}

func (s *SessionState) sampler() dynamo.Sampler {
	return s.Solver(s.Mode).(dynamo.Sampler)
}

package sandbox

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/sandbox/internal/circuit"
	"github.com/san-kum/sandbox/internal/material"
)

// Command is an action bound to a button or named in a scenario.
type Command interface {
	Invoke(s *SessionState) error
}

// CommandFunc adapts a plain function to Command.
type CommandFunc func(s *SessionState) error

func (f CommandFunc) Invoke(s *SessionState) error {
	return f(s)
}

type SwitchMode struct {
	Mode Mode
}

func (c SwitchMode) Invoke(s *SessionState) error {
	return s.SwitchMode(c.Mode)
}

type SelectMaterial struct {
	Name string
}

func (c SelectMaterial) Invoke(s *SessionState) error {
	return s.SetMaterial(c.Name)
}

type SelectFluid struct {
	Name string
}

func (c SelectFluid) Invoke(s *SessionState) error {
	return s.SetFluid(c.Name)
}

type AddComponent struct {
	Type circuit.ComponentType
}

func (c AddComponent) Invoke(s *SessionState) error {
	s.Circuit.Add(c.Type)
	s.Circuit.Solve()
	return nil
}

var resetCommand = CommandFunc(func(s *SessionState) error {
	s.Reset()
	return nil
})

// Registry maps stable command names to commands.
type Registry struct {
	commands map[string]Command
}

// NewRegistry registers every built-in command. Material and fluid
// selectors are generated from the table.
func NewRegistry(materials *material.Table) *Registry {
	r := &Registry{commands: make(map[string]Command)}

	for _, m := range Modes {
		r.Register("mode_"+m.String(), SwitchMode{Mode: m})
	}
	for _, name := range materials.Names(material.Solid) {
		r.Register("material_"+strings.ToLower(name), SelectMaterial{Name: name})
	}
	for _, name := range materials.Names(material.Fluid) {
		r.Register("fluid_"+strings.ToLower(name), SelectFluid{Name: name})
	}

	r.Register("reset", resetCommand)

	r.Register("add_circle", CommandFunc(func(s *SessionState) error {
		_, err := s.Mechanics.AddCircle(s.Material)
		return err
	}))
	r.Register("add_box", CommandFunc(func(s *SessionState) error {
		_, err := s.Mechanics.AddBox(s.Material)
		return err
	}))
	r.Register("add_pendulum", CommandFunc(func(s *SessionState) error {
		_, err := s.Mechanics.AddPendulum(s.Material)
		return err
	}))
	r.Register("add_spring", CommandFunc(func(s *SessionState) error {
		_, err := s.Mechanics.AddSpring(s.Material)
		return err
	}))

	for _, t := range circuit.ComponentTypes {
		r.Register("add_"+t.String(), AddComponent{Type: t})
	}

	r.Register("add_obstacle", CommandFunc(func(s *SessionState) error {
		s.Fluid.AddObstacle(s.Fluid.DefaultObstacle())
		return nil
	}))
	r.Register("add_floating", CommandFunc(func(s *SessionState) error {
		_, err := s.Fluid.AddFloatingObject(s.Material)
		return err
	}))

	r.Register("add_heat_source", CommandFunc(func(s *SessionState) error {
		s.Thermal.AddHeatSource(s.Thermal.DefaultHeatSourcePoint())
		return nil
	}))
	r.Register("add_metal_rod", CommandFunc(func(s *SessionState) error {
		_, err := s.Thermal.AddConductor(s.Thermal.DefaultElementRect())
		return err
	}))
	r.Register("add_insulator", CommandFunc(func(s *SessionState) error {
		_, err := s.Thermal.AddInsulator(s.Thermal.DefaultElementRect())
		return err
	}))

	return r
}

// Register adds or replaces a named command.
func (r *Registry) Register(name string, c Command) {
	r.commands[name] = c
}

func (r *Registry) Get(name string) (Command, error) {
	c, ok := r.commands[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return c, nil
}

// Names lists the registered command names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

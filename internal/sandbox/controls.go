package sandbox

import (
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/sandbox/internal/dynamo"
	"github.com/san-kum/sandbox/internal/geom"
	"github.com/san-kum/sandbox/internal/material"
)

// Button runs Command when clicked. Name is its registry name.
type Button struct {
	Rect     geom.Rect
	Label    string
	Name     string
	Category Category
	Command  Command
}

// Slider maps pointer x over Rect linearly onto [Min, Max] and writes the
// result to the active solver's Param.
type Slider struct {
	Rect     geom.Rect
	Label    string
	Category Category
	Min, Max float64
	Value    float64
	Param    string
}

// ValueAt is the slider value for a pointer at x, clamped to [Min, Max].
func (s *Slider) ValueAt(x float64) float64 {
	if s.Rect.W <= 0 {
		return s.Min
	}
	ratio := (x - s.Rect.X) / s.Rect.W
	return dynamo.Clamp(s.Min+ratio*(s.Max-s.Min), s.Min, s.Max)
}

func (s *Slider) apply(state *SessionState, p cp.Vector) error {
	return s.set(state, s.ValueAt(p.X))
}

func (s *Slider) set(state *SessionState, v float64) error {
	s.Value = dynamo.Clamp(v, s.Min, s.Max)
	return state.Params(state.Mode).SetParam(s.Param, s.Value)
}

const (
	panelX      = 20.0
	panelW      = 150.0
	buttonH     = 40.0
	materialH   = 30.0
	sliderX     = 190.0
	sliderW     = 150.0
	sliderH     = 20.0
	actionsTop  = 450.0
	actionsStep = 50.0
)

type actionSpec struct {
	label, name string
}

var modeLabels = map[Mode]string{
	Mechanics:   "Mechanics Mode",
	Electricity: "Electricity Mode",
	Fluid:       "Fluid Mode",
	Thermal:     "Thermal Mode",
}

var modeActions = map[Mode][]actionSpec{
	Mechanics: {
		{"Add Circle", "add_circle"},
		{"Add Box", "add_box"},
		{"Add Pendulum", "add_pendulum"},
		{"Add Spring", "add_spring"},
	},
	Electricity: {
		{"Add Battery", "add_battery"},
		{"Add Resistor", "add_resistor"},
		{"Add Bulb", "add_bulb"},
		{"Add Switch", "add_switch"},
		{"Add Capacitor", "add_capacitor"},
	},
	Fluid: {
		{"Add Water", "fluid_water"},
		{"Add Oil", "fluid_oil"},
		{"Add Obstacle", "add_obstacle"},
		{"Add Floating Object", "add_floating"},
	},
	Thermal: {
		{"Add Heat Source", "add_heat_source"},
		{"Add Metal Rod", "add_metal_rod"},
		{"Add Insulator", "add_insulator"},
	},
}

type sliderSpec struct {
	label, param string
	min, max     float64
}

var modeSliders = map[Mode][2]sliderSpec{
	Mechanics:   {{"Gravity", "gravity", 0, 2000}, {"Friction", "friction", 0, 1}},
	Electricity: {{"Voltage", "voltage", 0, 24}, {"Resistance", "resistance", 10, 1000}},
	Fluid:       {{"Viscosity", "viscosity", 0.1, 10}, {"Flow Rate", "flow_rate", 1, 50}},
	Thermal:     {{"Temperature", "temperature", -20, 500}, {"Conductivity", "conductivity", 0.1, 1}},
}

// buildControls lays out the left-hand panel: mode buttons, one button per
// solid material, then each mode's actions and two sliders per mode. Action
// buttons of different modes share positions; only the active mode's set
// responds.
func buildControls(reg *Registry, materials *material.Table) ([]*Button, []*Slider, error) {
	var buttons []*Button
	add := func(r geom.Rect, label, name string, cat Category) error {
		cmd, err := reg.Get(name)
		if err != nil {
			return err
		}
		buttons = append(buttons, &Button{Rect: r, Label: label, Name: name, Category: cat, Command: cmd})
		return nil
	}

	for i, m := range Modes {
		r := geom.Rect{X: panelX, Y: 20 + 50*float64(i), W: panelW, H: buttonH}
		if err := add(r, modeLabels[m], "mode_"+m.String(), CategoryNone); err != nil {
			return nil, nil, err
		}
	}
	for i, name := range materials.Names(material.Solid) {
		r := geom.Rect{X: panelX, Y: 250 + 40*float64(i), W: panelW, H: materialH}
		if err := add(r, name, "material_"+strings.ToLower(name), CategoryMaterial); err != nil {
			return nil, nil, err
		}
	}

	var sliders []*Slider
	for _, m := range Modes {
		for i, a := range modeActions[m] {
			r := geom.Rect{X: panelX, Y: actionsTop + actionsStep*float64(i), W: panelW, H: buttonH}
			if err := add(r, a.label, a.name, CategoryOf(m)); err != nil {
				return nil, nil, err
			}
		}
		for i, sp := range modeSliders[m] {
			sliders = append(sliders, &Slider{
				Rect:     geom.Rect{X: sliderX, Y: 20 + 40*float64(i), W: sliderW, H: sliderH},
				Label:    sp.label,
				Category: CategoryOf(m),
				Min:      sp.min,
				Max:      sp.max,
				Param:    sp.param,
			})
		}
	}
	return buttons, sliders, nil
}

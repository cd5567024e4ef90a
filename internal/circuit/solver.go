// Package circuit resolves a toy series DC circuit: every battery adds EMF,
// every resistor and bulb adds resistance, and one open switch breaks the
// whole loop.
package circuit

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/sandbox/internal/dynamo"
)

var (
	ErrUnknownComponent = errors.New("circuit: unknown component")
	ErrSelfConnection   = errors.New("circuit: component cannot connect to itself")
)

type Params struct {
	Voltage    float64 `yaml:"voltage"`
	Resistance float64 `yaml:"resistance"`
	// SnapGap is how close two dropped components must be to wire together.
	SnapGap float64 `yaml:"snap_gap"`
}

func DefaultParams() Params {
	return Params{Voltage: 9, Resistance: 100, SnapGap: 5}
}

// Solution is the result of one circuit resolution.
type Solution struct {
	Current         float64
	TotalEMF        float64
	TotalResistance float64
	// Open is set when any switch is off.
	Open bool
	// Fault is set when the loop is closed but has no resistance; the current
	// is forced to zero rather than reported as infinite.
	Fault    bool
	Voltages map[int]float64
	Currents map[int]float64
}

type Solver struct {
	world      dynamo.World
	params     Params
	components []*Component
	byID       map[int]*Component
	nextID     int
	solution   Solution
}

func New(world dynamo.World, params Params) *Solver {
	s := &Solver{
		world:  world,
		params: params,
		byID:   make(map[int]*Component),
	}
	s.Solve()
	return s
}

// Add places a component of the given type at the centre of the world.
func (s *Solver) Add(typ ComponentType) *Component {
	return s.AddAt(typ, cp.Vector{X: math.Floor(s.world.Width / 2), Y: math.Floor(s.world.Height / 2)})
}

func (s *Solver) AddAt(typ ComponentType, pos cp.Vector) *Component {
	s.nextID++
	c := newComponent(s.nextID, typ, pos)
	s.components = append(s.components, c)
	s.byID[c.ID] = c
	log.Printf("circuit: added %s id=%d value=%g", typ, c.ID, c.Value)
	return c
}

func (s *Solver) Component(id int) (*Component, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// Components returns the placed components in insertion order.
func (s *Solver) Components() []*Component {
	return s.components
}

func (s *Solver) Solve() Solution {
	sol := Solution{
		Voltages: make(map[int]float64, len(s.components)),
		Currents: make(map[int]float64, len(s.components)),
	}
	for _, c := range s.components {
		switch {
		case c.Type == Battery:
			sol.TotalEMF += c.Value
		case c.Resistive():
			sol.TotalResistance += c.Value
		case c.Type == Switch && !c.On:
			sol.Open = true
		}
	}

	switch {
	case sol.Open:
		sol.Current = 0
	case sol.TotalResistance <= 0:
		sol.Fault = true
		sol.Current = 0
	default:
		sol.Current = sol.TotalEMF / sol.TotalResistance
	}

	for _, c := range s.components {
		c.Current = sol.Current
		c.Lit = false
		switch c.Type {
		case Battery:
			c.Voltage = c.Value
		case Resistor, Bulb:
			c.Voltage = sol.Current * c.Value
			c.Lit = c.Type == Bulb && sol.Current > 0
		case Capacitor:
			c.Voltage = 0
			if c.Value > 0 {
				c.Voltage = c.Charge / c.Value
			}
		default:
			c.Voltage = 0
		}
		sol.Voltages[c.ID] = c.Voltage
		sol.Currents[c.ID] = c.Current
	}

	s.solution = sol
	return sol
}

// Solution returns the most recent resolution.
func (s *Solver) Solution() Solution {
	return s.solution
}

// Toggle flips a switch and re-solves. Other component types are left alone.
func (s *Solver) Toggle(c *Component) bool {
	if c.Type != Switch {
		return false
	}
	c.On = !c.On
	s.Solve()
	return true
}

func (s *Solver) SetVoltage(v float64) {
	s.params.Voltage = v
	for _, c := range s.components {
		if c.Type == Battery {
			c.Value = v
		}
	}
}

// SetResistance updates resistors only; bulbs keep their own resistance.
func (s *Solver) SetResistance(v float64) {
	s.params.Resistance = v
	for _, c := range s.components {
		if c.Type == Resistor {
			c.Value = v
		}
	}
}

// Step re-solves and fills capacitors linearly: q += I*dt, clamped to the
// charge C*E they would hold at the full battery EMF. There is no discharge.
func (s *Solver) Step(dt float64) {
	sol := s.Solve()
	for _, c := range s.components {
		if c.Type != Capacitor {
			continue
		}
		maxCharge := math.Max(0, c.Value*sol.TotalEMF)
		c.Charge = dynamo.Clamp(c.Charge+sol.Current*dt, 0, maxCharge)
		if c.Value > 0 {
			c.Voltage = c.Charge / c.Value
			s.solution.Voltages[c.ID] = c.Voltage
		}
	}
}

// PickAt returns the first component whose footprint contains p.
func (s *Solver) PickAt(p cp.Vector) (*Component, bool) {
	for _, c := range s.components {
		if c.Rect().Contains(p) {
			return c, true
		}
	}
	return nil, false
}

func (s *Solver) Move(c *Component, p cp.Vector) {
	c.Position = p
}

// Connect wires a and b together in both directions.
func (s *Solver) Connect(a, b *Component) error {
	if a.ID == b.ID {
		return fmt.Errorf("%w: id=%d", ErrSelfConnection, a.ID)
	}
	if _, ok := s.byID[a.ID]; !ok {
		return fmt.Errorf("%w: id=%d", ErrUnknownComponent, a.ID)
	}
	if _, ok := s.byID[b.ID]; !ok {
		return fmt.Errorf("%w: id=%d", ErrUnknownComponent, b.ID)
	}
	a.link(b.ID)
	b.link(a.ID)
	return nil
}

func (s *Solver) Disconnect(a, b *Component) {
	a.unlink(b.ID)
	b.unlink(a.ID)
}

// ConnectAdjacent wires c to every component whose footprint touches its
// own, and returns how many new connections were made.
func (s *Solver) ConnectAdjacent(c *Component) int {
	made := 0
	for _, other := range s.components {
		if other.ID == c.ID || c.ConnectedTo(other.ID) {
			continue
		}
		if c.Rect().Touches(other.Rect(), s.params.SnapGap) {
			c.link(other.ID)
			other.link(c.ID)
			made++
		}
	}
	return made
}

func (s *Solver) Sample() map[string]float64 {
	return map[string]float64{
		"current": s.solution.Current,
		"voltage": s.solution.TotalEMF,
	}
}

func (s *Solver) GetParams() map[string]float64 {
	return map[string]float64{
		"voltage":    s.params.Voltage,
		"resistance": s.params.Resistance,
	}
}

func (s *Solver) SetParam(name string, value float64) error {
	switch name {
	case "voltage":
		s.SetVoltage(value)
	case "resistance":
		if value < 0 {
			return dynamo.OutOfBounds(name, value)
		}
		s.SetResistance(value)
	default:
		return dynamo.UnknownParam(name, value)
	}
	return nil
}

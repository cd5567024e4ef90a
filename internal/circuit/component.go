package circuit

import (
	"fmt"
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/sandbox/internal/geom"
)

type ComponentType int

const (
	Wire ComponentType = iota
	Battery
	Resistor
	Bulb
	Switch
	Capacitor
)

// ComponentTypes lists every type in declaration order.
var ComponentTypes = []ComponentType{Wire, Battery, Resistor, Bulb, Switch, Capacitor}

var typeNames = map[ComponentType]string{
	Wire:      "wire",
	Battery:   "battery",
	Resistor:  "resistor",
	Bulb:      "bulb",
	Switch:    "switch",
	Capacitor: "capacitor",
}

func (t ComponentType) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("component(%d)", int(t))
}

// ParseComponentType maps a lowercase name back to its type.
func ParseComponentType(name string) (ComponentType, error) {
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
}

// Component is one placed circuit element. Value is the battery EMF in
// volts, the resistance of resistors and bulbs in ohms, or the capacitance
// of capacitors in farads.
type Component struct {
	ID       int
	Type     ComponentType
	Position cp.Vector
	Rotation float64
	Width    float64
	Height   float64
	Value    float64
	On       bool
	Charge   float64

	// Solved state, refreshed by every Solve.
	Current float64
	Voltage float64
	Lit     bool

	connections []int
}

func newComponent(id int, typ ComponentType, pos cp.Vector) *Component {
	c := &Component{ID: id, Type: typ, Position: pos, Width: 50, Height: 20, On: true}
	switch typ {
	case Battery:
		c.Value = 9.0
		c.Width, c.Height = 40, 20
	case Resistor:
		c.Value = 100.0
		c.Width, c.Height = 50, 10
	case Bulb:
		c.Value = 50.0
		c.Width, c.Height = 20, 20
	case Capacitor:
		c.Value = 0.01
		c.Width, c.Height = 30, 20
	}
	return c
}

// Resistive reports whether the component contributes series resistance.
func (c *Component) Resistive() bool {
	return c.Type == Resistor || c.Type == Bulb
}

// Rect is the axis-aligned footprint used for picking and adjacency.
func (c *Component) Rect() geom.Rect {
	return geom.RectAround(c.Position, c.Width, c.Height)
}

// Connections returns the ids of directly wired neighbours.
func (c *Component) Connections() []int {
	return slices.Clone(c.connections)
}

func (c *Component) ConnectedTo(id int) bool {
	return slices.Contains(c.connections, id)
}

func (c *Component) link(id int) {
	if !c.ConnectedTo(id) {
		c.connections = append(c.connections, id)
	}
}

func (c *Component) unlink(id int) {
	c.connections = slices.DeleteFunc(c.connections, func(v int) bool { return v == id })
}

// Package material holds the static registry of solid and fluid materials
// shared by every sandbox domain. The table is read-only after construction
// and safe to share between solvers without locking.
package material

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
)

// ErrInvalidMaterial is returned for a material name that is not in the table.
var ErrInvalidMaterial = errors.New("material: invalid material")

// Kind separates placeable solids from particle fluids.
type Kind int

const (
	Solid Kind = iota
	Fluid
)

func (k Kind) String() string {
	if k == Fluid {
		return "fluid"
	}
	return "solid"
}

type Material struct {
	Name                string
	Kind                Kind
	Density             float64
	Friction            float64
	Elasticity          float64
	Color               color.RGBA
	ThermalConductivity float64
}

var (
	White     = color.RGBA{255, 255, 255, 255}
	Black     = color.RGBA{0, 0, 0, 255}
	Blue      = color.RGBA{0, 0, 255, 255}
	Yellow    = color.RGBA{255, 255, 0, 255}
	Gray      = color.RGBA{150, 150, 150, 255}
	LightBlue = color.RGBA{173, 216, 230, 255}
	Brown     = color.RGBA{139, 69, 19, 255}
)

// Names of the built-in materials.
const (
	Wood   = "Wood"
	Metal  = "Metal"
	Ice    = "Ice"
	Rubber = "Rubber"
	Water  = "Water"
	Oil    = "Oil"
	Air    = "Air"
)

// Table maps material names to their immutable properties.
type Table struct {
	byName map[string]Material
	order  []string
}

// NewTable builds a table from the given materials, in order. Duplicate
// names are rejected.
func NewTable(materials ...Material) (*Table, error) {
	t := &Table{byName: make(map[string]Material, len(materials))}
	for _, m := range materials {
		if m.Name == "" {
			return nil, fmt.Errorf("%w: empty name", ErrInvalidMaterial)
		}
		if _, dup := t.byName[m.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate %q", ErrInvalidMaterial, m.Name)
		}
		t.byName[m.Name] = m
		t.order = append(t.order, m.Name)
	}
	return t, nil
}

// Default returns the built-in sandbox materials.
func Default() *Table {
	t, err := NewTable(
		Material{Name: Wood, Kind: Solid, Density: 0.5, Friction: 0.7, Elasticity: 0.4, Color: Brown, ThermalConductivity: 0.2},
		Material{Name: Metal, Kind: Solid, Density: 1.0, Friction: 0.4, Elasticity: 0.5, Color: Gray, ThermalConductivity: 0.9},
		Material{Name: Ice, Kind: Solid, Density: 0.9, Friction: 0.1, Elasticity: 0.9, Color: LightBlue, ThermalConductivity: 0.5},
		Material{Name: Rubber, Kind: Solid, Density: 0.7, Friction: 0.9, Elasticity: 0.9, Color: Black, ThermalConductivity: 0.1},
		Material{Name: Water, Kind: Fluid, Density: 1.0, Color: Blue, ThermalConductivity: 1.0},
		Material{Name: Oil, Kind: Fluid, Density: 0.8, Color: Yellow, ThermalConductivity: 1.0},
		Material{Name: Air, Kind: Fluid, Density: 0.1, Color: White, ThermalConductivity: 1.0},
	)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the named material or ErrInvalidMaterial.
func (t *Table) Lookup(name string) (Material, error) {
	m, ok := t.byName[name]
	if !ok {
		return Material{}, fmt.Errorf("%w: %q", ErrInvalidMaterial, name)
	}
	return m, nil
}

// LookupKind is Lookup restricted to one kind: a fluid name passed where a
// solid is expected is just as invalid as an unknown one.
func (t *Table) LookupKind(name string, kind Kind) (Material, error) {
	m, err := t.Lookup(name)
	if err != nil {
		return Material{}, err
	}
	if m.Kind != kind {
		return Material{}, fmt.Errorf("%w: %q is not a %s", ErrInvalidMaterial, name, kind)
	}
	return m, nil
}

// MustLookup panics on unknown names. Use only where the name has already
// been validated at the boundary.
func (t *Table) MustLookup(name string) Material {
	m, err := t.Lookup(name)
	if err != nil {
		panic(err)
	}
	return m
}

// Names lists materials of the given kind in registration order.
func (t *Table) Names(kind Kind) []string {
	var names []string
	for _, n := range t.order {
		if t.byName[n].Kind == kind {
			names = append(names, n)
		}
	}
	return names
}

// All returns every material sorted by name.
func (t *Table) All() []Material {
	out := make([]Material, 0, len(t.byName))
	for _, m := range t.byName {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

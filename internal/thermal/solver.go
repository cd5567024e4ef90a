// Package thermal diffuses heat across a coarse temperature grid driven by
// point heat sources and linear conductor or insulator elements.
package thermal

import (
	"fmt"
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/sandbox/internal/dynamo"
	"github.com/san-kum/sandbox/internal/geom"
	"github.com/san-kum/sandbox/internal/material"
)

const (
	Ambient = 20.0

	HeatSourceTemperature = 200.0
	HeatSourceRadius      = 30.0
	HeatSourcePower       = 50.0

	// ClickHeat is added to every entity under a click.
	ClickHeat = 10.0

	pullPerPower = 0.1 // point source pull rate (1/s) per unit power
	elementPull  = 5.0 // element pull rate (1/s) per unit conductivity
	elementRelax = 1.0
)

type Params struct {
	Ambient float64 `yaml:"ambient"`
	// SourceTemperature is the starting temperature of new heat sources.
	SourceTemperature float64 `yaml:"source_temperature"`
	// Temperature and Conductivity mirror the last slider values.
	Temperature  float64 `yaml:"temperature"`
	Conductivity float64 `yaml:"conductivity"`
	// DiffusionRate scales conductivity into a per-second mixing fraction.
	DiffusionRate float64 `yaml:"diffusion_rate"`
	// Baseline is the conductivity of cells no element covers.
	Baseline float64 `yaml:"baseline"`
}

func DefaultParams() Params {
	return Params{
		Ambient:           Ambient,
		SourceTemperature: HeatSourceTemperature,
		Temperature:       100,
		Conductivity:      0.5,
		DiffusionRate:     20,
		Baseline:          0.3,
	}
}

type Solver struct {
	world     dynamo.World
	params    Params
	materials *material.Table
	grid      *Grid
	entities  []HeatEntity
	nextID    int
	k         []float64
}

// New builds a grid of one cell per CellSize pixels at ambient temperature.
func New(world dynamo.World, params Params, materials *material.Table) *Solver {
	cols := int(world.Width / CellSize)
	rows := int(world.Height / CellSize)
	g := NewGrid(cols, rows, params.Ambient)
	return &Solver{
		world:     world,
		params:    params,
		materials: materials,
		grid:      g,
		k:         make([]float64, len(g.cells)),
	}
}

func (s *Solver) Grid() *Grid {
	return s.grid
}

func (s *Solver) Entities() []HeatEntity {
	return s.entities
}

// AddHeatSource places a 200 C source of radius 30 and power 50 at p.
func (s *Solver) AddHeatSource(p cp.Vector) *PointSource {
	s.nextID++
	src := &PointSource{
		ID:          s.nextID,
		Center:      p,
		Radius:      HeatSourceRadius,
		Temperature: s.params.SourceTemperature,
		Power:       HeatSourcePower,
	}
	s.entities = append(s.entities, src)
	log.Printf("thermal: heat source id=%d at (%.0f,%.0f)", src.ID, p.X, p.Y)
	return src
}

// AddConductor lays a Metal rod over r.
func (s *Solver) AddConductor(r geom.Rect) (*LinearElement, error) {
	return s.addElement(Conductor, material.Metal, r)
}

// AddInsulator lays a Wood slab over r.
func (s *Solver) AddInsulator(r geom.Rect) (*LinearElement, error) {
	return s.addElement(Insulator, material.Wood, r)
}

func (s *Solver) addElement(kind ElementKind, name string, r geom.Rect) (*LinearElement, error) {
	m, err := s.materials.LookupKind(name, material.Solid)
	if err != nil {
		return nil, fmt.Errorf("thermal: %s: %w", kind, err)
	}
	s.nextID++
	e := &LinearElement{
		ID:           s.nextID,
		Kind:         kind,
		Material:     m.Name,
		Rect:         r,
		Temperature:  s.params.Ambient,
		Conductivity: m.ThermalConductivity,
	}
	s.entities = append(s.entities, e)
	log.Printf("thermal: %s id=%d (%s, k=%.2f)", kind, e.ID, m.Name, e.Conductivity)
	return e, nil
}

// DefaultHeatSourcePoint is the centre of the world.
func (s *Solver) DefaultHeatSourcePoint() cp.Vector {
	return cp.Vector{X: math.Floor(s.world.Width / 2), Y: math.Floor(s.world.Height / 2)}
}

// DefaultElementRect is the 200x20 bar placed by the rod and insulator buttons.
func (s *Solver) DefaultElementRect() geom.Rect {
	c := s.DefaultHeatSourcePoint()
	return geom.Rect{X: c.X - 100, Y: c.Y - 10, W: 200, H: 20}
}

// ClickHeat warms every entity under p and returns how many were hit.
func (s *Solver) ClickHeat(p cp.Vector) int {
	hit := 0
	for _, e := range s.entities {
		if e.Contains(p) {
			e.SetTemp(e.Temp() + ClickHeat)
			hit++
		}
	}
	return hit
}

func (s *Solver) Step(dt float64) {
	if dt <= 0 {
		return
	}
	for i := range s.k {
		s.k[i] = s.params.Baseline
	}
	for _, e := range s.entities {
		switch e := e.(type) {
		case *PointSource:
			s.applySource(e, dt)
		case *LinearElement:
			s.applyElement(e, dt)
		}
	}
	rate := s.params.DiffusionRate * dt
	s.grid.diffuse(func(i int) float64 { return rate * s.k[i] })
}

func (s *Solver) applySource(src *PointSource, dt float64) {
	a := dynamo.Clamp(src.Power*pullPerPower*dt, 0, 1)
	box := geom.RectAround(src.Center, 2*src.Radius, 2*src.Radius)
	s.eachCell(box, func(i int, center cp.Vector) {
		if center.Distance(src.Center) < src.Radius {
			s.grid.cells[i] += a * (src.Temperature - s.grid.cells[i])
		}
	})
}

func (s *Solver) applyElement(e *LinearElement, dt float64) {
	a := dynamo.Clamp(e.Conductivity*elementPull*dt, 0, 1)
	sum, n := 0.0, 0
	s.eachCell(e.Rect, func(i int, _ cp.Vector) {
		sum += s.grid.cells[i]
		n++
		s.grid.cells[i] += a * (e.Temperature - s.grid.cells[i])
		s.k[i] = e.Conductivity
	})
	if n == 0 {
		return
	}
	mean := sum / float64(n)
	e.Temperature += dynamo.Clamp(e.Conductivity*elementRelax*dt, 0, 1) * (mean - e.Temperature)
}

// eachCell visits the cells whose centres fall inside r.
func (s *Solver) eachCell(r geom.Rect, fn func(i int, center cp.Vector)) {
	g := s.grid
	c0 := max(0, int(math.Floor(r.X/CellSize)))
	r0 := max(0, int(math.Floor(r.Y/CellSize)))
	c1 := min(g.Cols-1, int(math.Ceil(r.Right()/CellSize)))
	r1 := min(g.Rows-1, int(math.Ceil(r.Bottom()/CellSize)))
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			center := g.CellCenter(col, row)
			if r.Contains(center) {
				fn(row*g.Cols+col, center)
			}
		}
	}
}

// Sample reports the mean grid temperature.
func (s *Solver) Sample() map[string]float64 {
	return map[string]float64{"temperature": s.grid.Mean()}
}

// Variance is the spread of the grid temperatures. Once the sources have
// warmed the grid it only shrinks.
func (s *Solver) Variance() float64 {
	return s.grid.Variance()
}

func (s *Solver) GetParams() map[string]float64 {
	return map[string]float64{
		"temperature":  s.params.Temperature,
		"conductivity": s.params.Conductivity,
	}
}

// SetParam: temperature applies to every entity, conductivity only to
// linear elements.
func (s *Solver) SetParam(name string, value float64) error {
	switch name {
	case "temperature":
		s.params.Temperature = value
		for _, e := range s.entities {
			e.SetTemp(value)
		}
	case "conductivity":
		s.params.Conductivity = value
		for _, e := range s.entities {
			if el, ok := e.(*LinearElement); ok {
				el.Conductivity = value
			}
		}
	default:
		return dynamo.UnknownParam(name, value)
	}
	return nil
}

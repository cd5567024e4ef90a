package thermal

import (
	"github.com/jakecoffman/cp"
	"github.com/san-kum/sandbox/internal/geom"
)

// HeatEntity is either a *PointSource or a *LinearElement. The set is
// closed; switch on the concrete type to reach variant fields.
type HeatEntity interface {
	Temp() float64
	SetTemp(t float64)
	// Contains reports whether a click at p lands on the entity.
	Contains(p cp.Vector) bool
	heatEntity()
}

// PointSource is a disc held near its own temperature. Power sets how
// hard it pulls the cells under it.
type PointSource struct {
	ID          int
	Center      cp.Vector
	Radius      float64
	Temperature float64
	Power       float64
}

func (s *PointSource) Temp() float64     { return s.Temperature }
func (s *PointSource) SetTemp(t float64) { s.Temperature = t }
func (s *PointSource) heatEntity()       {}

// Contains is strict: a click exactly on the rim misses.
func (s *PointSource) Contains(p cp.Vector) bool {
	return p.Distance(s.Center) < s.Radius
}

type ElementKind int

const (
	Conductor ElementKind = iota
	Insulator
)

func (k ElementKind) String() string {
	if k == Insulator {
		return "insulator"
	}
	return "conductor"
}

// LinearElement is a rod or slab that both heats its footprint and is
// heated by it. Its conductivity also governs diffusion through the cells
// it covers.
type LinearElement struct {
	ID           int
	Kind         ElementKind
	Material     string
	Rect         geom.Rect
	Temperature  float64
	Conductivity float64
}

func (e *LinearElement) Temp() float64     { return e.Temperature }
func (e *LinearElement) SetTemp(t float64) { e.Temperature = t }
func (e *LinearElement) heatEntity()       {}

func (e *LinearElement) Contains(p cp.Vector) bool {
	return e.Rect.Contains(p)
}

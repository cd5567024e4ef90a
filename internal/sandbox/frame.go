package sandbox

import (
	"image/color"
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/sandbox/internal/circuit"
	"github.com/san-kum/sandbox/internal/geom"
	"github.com/san-kum/sandbox/internal/mechanics"
	"github.com/san-kum/sandbox/internal/thermal"
)

// Frame is a read-only snapshot of the session for a renderer. Only the
// active mode's scene is filled in.
type Frame struct {
	Mode          Mode
	Time          float64
	Material      string
	FluidMaterial string

	Bodies     []BodyView
	Components []ComponentView
	Circuit    circuit.Solution
	Particles  []ParticleView
	Obstacles  []geom.Rect
	Floating   []FloatingView
	Surface    float64
	Heat       *HeatView

	Buttons []ControlView
	Sliders []SliderView
	Metrics map[string]float64
}

type BodyView struct {
	ID       int
	Kind     mechanics.ShapeKind
	Role     mechanics.Role
	Material string
	Color    color.RGBA
	Position cp.Vector
	Angle    float64
	Radius   float64
	Vertices []cp.Vector
	Anchored bool
	Anchor   cp.Vector
}

type ComponentView struct {
	ID          int
	Type        circuit.ComponentType
	Rect        geom.Rect
	Value       float64
	On          bool
	Lit         bool
	Current     float64
	Voltage     float64
	Charge      float64
	Connections []int
}

type ParticleView struct {
	Position cp.Vector
	Size     float64
	Color    color.RGBA
}

type FloatingView struct {
	Rect     geom.Rect
	Angle    float64
	Material string
	Color    color.RGBA
}

// HeatView carries a copy of the temperature grid and the entities on it.
type HeatView struct {
	Cols, Rows int
	Cells      []float64
	Min, Max   float64
	Sources    []thermal.PointSource
	Elements   []thermal.LinearElement
}

type ControlView struct {
	Label    string
	Rect     geom.Rect
	Selected bool
}

type SliderView struct {
	Label    string
	Rect     geom.Rect
	Min, Max float64
	Value    float64
}

func (c *Controller) Frame() Frame {
	st := c.state
	f := Frame{
		Mode:          st.Mode,
		Time:          c.time,
		Material:      st.Material,
		FluidMaterial: st.FluidMaterial,
		Metrics:       make(map[string]float64),
	}

	for _, b := range c.buttons {
		if b.Category.ActiveIn(st.Mode) {
			f.Buttons = append(f.Buttons, ControlView{Label: b.Label, Rect: b.Rect, Selected: b == c.selected})
		}
	}
	for _, s := range c.sliders {
		if s.Category == CategoryOf(st.Mode) {
			f.Sliders = append(f.Sliders, SliderView{Label: s.Label, Rect: s.Rect, Min: s.Min, Max: s.Max, Value: s.Value})
		}
	}
	for _, name := range c.tracker.Active() {
		if s, ok := c.tracker.Series(name); ok {
			f.Metrics[name] = s.Value()
		}
	}

	switch st.Mode {
	case Mechanics:
		f.Bodies = c.bodyViews()
	case Electricity:
		f.Circuit = st.Circuit.Solution()
		for _, comp := range st.Circuit.Components() {
			f.Components = append(f.Components, ComponentView{
				ID:          comp.ID,
				Type:        comp.Type,
				Rect:        comp.Rect(),
				Value:       comp.Value,
				On:          comp.On,
				Lit:         comp.Lit,
				Current:     comp.Current,
				Voltage:     comp.Voltage,
				Charge:      comp.Charge,
				Connections: comp.Connections(),
			})
		}
	case Fluid:
		for _, p := range st.Fluid.Particles() {
			f.Particles = append(f.Particles, ParticleView{Position: p.Position, Size: p.Size, Color: p.Material.Color})
		}
		for _, o := range st.Fluid.Obstacles() {
			f.Obstacles = append(f.Obstacles, o.Rect)
		}
		for _, o := range st.Fluid.FloatingObjects() {
			f.Floating = append(f.Floating, FloatingView{Rect: o.Rect, Angle: o.Angle, Material: o.Material.Name, Color: o.Material.Color})
		}
		f.Surface = st.Fluid.Surface()
	case Thermal:
		f.Heat = c.heatView()
	}
	return f
}

func (c *Controller) bodyViews() []BodyView {
	objects := c.state.Mechanics.Objects()
	views := make([]BodyView, 0, len(objects))
	for _, o := range objects {
		v := BodyView{
			ID:       o.ID,
			Kind:     o.Kind,
			Role:     o.Role,
			Material: o.Material,
			Position: o.Position(),
			Angle:    o.Angle(),
			Radius:   o.Radius,
			Anchored: o.Anchored(),
			Anchor:   o.Anchor,
		}
		if m, err := c.state.Materials().Lookup(o.Material); err == nil {
			v.Color = m.Color
		}
		if o.Kind == mechanics.Box {
			v.Vertices = o.Vertices()
		}
		views = append(views, v)
	}
	return views
}

func (c *Controller) heatView() *HeatView {
	g := c.state.Thermal.Grid()
	lo, hi := g.Range()
	hv := &HeatView{
		Cols:  g.Cols,
		Rows:  g.Rows,
		Cells: slices.Clone(g.Cells()),
		Min:   lo,
		Max:   hi,
	}
	for _, e := range c.state.Thermal.Entities() {
		switch e := e.(type) {
		case *thermal.PointSource:
			hv.Sources = append(hv.Sources, *e)
		case *thermal.LinearElement:
			hv.Elements = append(hv.Elements, *e)
		}
	}
	return hv
}

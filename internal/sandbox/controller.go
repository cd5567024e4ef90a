package sandbox

import (
	"fmt"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/sandbox/internal/circuit"
	"github.com/san-kum/sandbox/internal/fluid"
	"github.com/san-kum/sandbox/internal/mechanics"
	"github.com/san-kum/sandbox/internal/metrics"
)

// Controller routes host events to controls and the active domain, steps
// the active solver once per tick and records its metrics.
type Controller struct {
	state    *SessionState
	registry *Registry
	buttons  []*Button
	sliders  []*Slider
	tracker  *metrics.Tracker

	selected *Button
	pointer  cp.Vector
	time     float64

	// per-mode gesture state
	dragging   *mechanics.Object
	flingObj   *mechanics.Object
	flingStart cp.Vector
	component  *circuit.Component
	pouring    bool
}

func NewController(state *SessionState, registry *Registry) (*Controller, error) {
	buttons, sliders, err := buildControls(registry, state.Materials())
	if err != nil {
		return nil, fmt.Errorf("sandbox: layout: %w", err)
	}
	c := &Controller{
		state:    state,
		registry: registry,
		buttons:  buttons,
		sliders:  sliders,
		tracker:  metrics.NewTracker(state.Config().History),
	}
	for _, m := range Modes {
		c.syncSliders(m)
	}
	return c, nil
}

func (c *Controller) State() *SessionState { return c.state }

func (c *Controller) Metrics() *metrics.Tracker { return c.tracker }

func (c *Controller) Buttons() []*Button { return c.buttons }

func (c *Controller) Sliders() []*Slider { return c.sliders }

// syncSliders reloads the sliders of mode m from its solver, which is how
// a freshly rebuilt solver's defaults show up on screen.
func (c *Controller) syncSliders(m Mode) {
	params := c.state.Params(m).GetParams()
	for _, s := range c.sliders {
		if s.Category != CategoryOf(m) {
			continue
		}
		if v, ok := params[s.Param]; ok {
			s.Value = v
		}
	}
}

// Invoke runs a registered command by name, as a button click would.
func (c *Controller) Invoke(name string) error {
	cmd, err := c.registry.Get(name)
	if err != nil {
		return err
	}
	return c.run(cmd)
}

func (c *Controller) run(cmd Command) error {
	before := c.state.Solver(c.state.Mode)
	if err := cmd.Invoke(c.state); err != nil {
		return err
	}
	if c.state.Solver(c.state.Mode) != before {
		c.clearGestures()
		c.syncSliders(c.state.Mode)
		c.tracker.Reset()
	}
	return nil
}

// SetParam sets a slider of the active mode by parameter name. The value is
// clamped to the slider's range.
func (c *Controller) SetParam(param string, value float64) error {
	for _, s := range c.sliders {
		if s.Category == CategoryOf(c.state.Mode) && s.Param == param {
			return s.set(c.state, value)
		}
	}
	return fmt.Errorf("sandbox: no %s slider in %s mode", param, c.state.Mode)
}

// Handle applies one input event. It returns ErrQuit for the escape key.
func (c *Controller) Handle(ev Event) error {
	switch ev := ev.(type) {
	case PointerDown:
		c.pointer = ev.Pos
		return c.pointerDown(ev)
	case PointerUp:
		c.pointer = ev.Pos
		c.pointerUp(ev)
	case PointerMove:
		c.pointer = ev.Pos
		return c.pointerMove(ev)
	case KeyDown:
		return c.key(ev.Key)
	}
	return nil
}

func (c *Controller) key(k rune) error {
	switch k {
	case KeyEscape:
		return ErrQuit
	case 'r', 'R':
		return c.run(resetCommand)
	case '1', '2', '3', '4':
		return c.run(SwitchMode{Mode: Mode(k - '1')})
	}
	return nil
}

func (c *Controller) clearGestures() {
	c.dragging, c.flingObj, c.component = nil, nil, nil
	if c.pouring {
		c.state.Fluid.StopPour()
		c.pouring = false
	}
}

func (c *Controller) pointerDown(ev PointerDown) error {
	mode := c.state.Mode
	if ev.Button == MousePrimary {
		for _, b := range c.buttons {
			if b.Category.ActiveIn(mode) && b.Rect.Contains(ev.Pos) {
				c.selected = b
				return c.run(b.Command)
			}
		}
		for _, s := range c.sliders {
			if s.Category == CategoryOf(mode) && s.Rect.Contains(ev.Pos) {
				return s.apply(c.state, ev.Pos)
			}
		}
	}

	switch mode {
	case Mechanics:
		o, ok := c.state.Mechanics.PickAt(ev.Pos)
		switch {
		case ok && ev.Button == MousePrimary:
			c.dragging = o
		case ok && ev.Button == MouseSecondary:
			c.flingObj, c.flingStart = o, ev.Pos
		}
	case Electricity:
		if ev.Button != MousePrimary {
			return nil
		}
		if comp, ok := c.state.Circuit.PickAt(ev.Pos); ok {
			c.component = comp
			c.state.Circuit.Toggle(comp)
		}
	case Fluid:
		if ev.Button != MousePrimary {
			return nil
		}
		if _, err := c.state.Fluid.Emit(ev.Pos, c.state.FluidMaterial, fluid.EmitBatch); err != nil {
			return err
		}
		c.pouring = true
	case Thermal:
		if ev.Button == MousePrimary {
			c.state.Thermal.ClickHeat(ev.Pos)
		}
	}
	return nil
}

func (c *Controller) pointerUp(ev PointerUp) {
	switch c.state.Mode {
	case Mechanics:
		if c.flingObj != nil && ev.Button == MouseSecondary {
			c.state.Mechanics.Fling(c.flingObj, c.flingStart, ev.Pos)
		}
	case Electricity:
		if c.component != nil {
			if n := c.state.Circuit.ConnectAdjacent(c.component); n > 0 {
				log.Printf("sandbox: wired %s id=%d to %d neighbours", c.component.Type, c.component.ID, n)
			}
		}
	}
	c.clearGestures()
}

func (c *Controller) pointerMove(ev PointerMove) error {
	if !ev.Held {
		return nil
	}
	switch {
	case c.dragging != nil:
		c.state.Mechanics.Drag(c.dragging, ev.Pos)
	case c.component != nil:
		c.state.Circuit.Move(c.component, ev.Pos)
	}
	for _, s := range c.sliders {
		if s.Category == CategoryOf(c.state.Mode) && s.Rect.Contains(ev.Pos) {
			return s.apply(c.state, ev.Pos)
		}
	}
	return nil
}

// Tick advances the active solver by dt and records its readings.
func (c *Controller) Tick(dt float64) error {
	if dt <= 0 {
		return nil
	}
	if c.pouring && c.state.Mode == Fluid {
		if err := c.state.Fluid.Pour(c.pointer, c.state.FluidMaterial, dt); err != nil {
			return err
		}
	}
	c.state.Solver(c.state.Mode).Step(dt)
	if c.dragging != nil && c.state.Mode == Mechanics {
		// a held body stays pinned under the pointer between motion events
		c.state.Mechanics.Drag(c.dragging, c.pointer)
	}
	c.time += dt
	c.tracker.Record(c.state.sampler().Sample())
	return nil
}

// Time is the simulated time since the controller was built.
func (c *Controller) Time() float64 { return c.time }

package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is an explicit first-order system dX/dt = f(X, t). Second-order
// systems lay out positions in the first half of X and velocities in the second.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}

// Solver is one sandbox domain, advanced exactly once per frame.
type Solver interface {
	Step(dt float64)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Sampler reports the metric values a solver contributes each frame.
type Sampler interface {
	Sample() map[string]float64
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// World is the sandbox's pixel-space extent. Y grows downward; the floor
// sits FloorOffset pixels above the bottom edge.
type World struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	FloorOffset float64 `yaml:"floor_offset"`
}

func DefaultWorld() World {
	return World{Width: 1000, Height: 700, FloorOffset: 50}
}

// FloorY is the y coordinate of the floor surface.
func (w World) FloorY() float64 {
	return w.Height - w.FloorOffset
}

// Package fluid advects independent fluid particles under gravity and
// viscous drag, layers them by density, and floats solid boxes on the
// resulting surface.
package fluid

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/sandbox/internal/dynamo"
	"github.com/san-kum/sandbox/internal/geom"
	"github.com/san-kum/sandbox/internal/integrators"
	"github.com/san-kum/sandbox/internal/material"
)

const (
	DefaultViscosity = 1.0
	DefaultFlowRate  = 10.0
	EmitBatch        = 5
	EmitJitter       = 10

	// dampingPerViscosity turns the viscosity slider into a drag rate (1/s).
	dampingPerViscosity = 0.5
	floatDamping        = 2.0
	restoringStiffness  = 4.0
	restoringDrag       = 2.0

	// particleArea is the surface area one particle fills when settled.
	particleArea = (2 * ParticleRadius) * (2 * ParticleRadius)
	columnWidth  = 2 * ParticleRadius
)

type Params struct {
	Viscosity float64 `yaml:"viscosity"`
	FlowRate  float64 `yaml:"flow_rate"`
	Gravity   float64 `yaml:"gravity"`
	// MaxParticles caps the particle count; 0 means unbounded.
	MaxParticles int `yaml:"max_particles"`
}

func DefaultParams() Params {
	return Params{
		Viscosity: DefaultViscosity,
		FlowRate:  DefaultFlowRate,
		Gravity:   981,
	}
}

type Solver struct {
	world      dynamo.World
	params     Params
	materials  *material.Table
	rng        *rand.Rand
	integrator dynamo.Integrator
	medium     float64

	particles []Particle
	obstacles []*Obstacle
	floating  []*FloatingObject
	nextID    int
	pourAcc   float64
	time      float64
}

// New builds an empty fluid domain. The surrounding medium is Air when the
// table has it.
func New(world dynamo.World, params Params, materials *material.Table, rng *rand.Rand) *Solver {
	medium := 0.0
	if air, err := materials.LookupKind(material.Air, material.Fluid); err == nil {
		medium = air.Density
	}
	return &Solver{
		world:      world,
		params:     params,
		materials:  materials,
		rng:        rng,
		integrator: integrators.NewSemiImplicitEuler(),
		medium:     medium,
	}
}

// Emit adds count particles of the named fluid around p, each offset by a
// whole number of pixels in [-EmitJitter, EmitJitter] per axis. It returns
// how many particles were added, which is fewer than count at the cap.
func (s *Solver) Emit(p cp.Vector, name string, count int) (int, error) {
	m, err := s.materials.LookupKind(name, material.Fluid)
	if err != nil {
		return 0, fmt.Errorf("fluid: %w", err)
	}
	added := 0
	for range count {
		if s.params.MaxParticles > 0 && len(s.particles) >= s.params.MaxParticles {
			break
		}
		offset := cp.Vector{X: s.jitter(), Y: s.jitter()}
		s.particles = append(s.particles, newParticle(p.Add(offset), m))
		added++
	}
	return added, nil
}

func (s *Solver) jitter() float64 {
	return float64(s.rng.Intn(2*EmitJitter+1) - EmitJitter)
}

// Pour emits FlowRate batches per second while the pointer is held. The
// fractional remainder carries over to the next call.
func (s *Solver) Pour(p cp.Vector, name string, dt float64) error {
	s.pourAcc += s.params.FlowRate * dt
	for s.pourAcc >= 1 {
		s.pourAcc--
		if _, err := s.Emit(p, name, EmitBatch); err != nil {
			return err
		}
	}
	return nil
}

// StopPour drops any partial batch left over from the last pour.
func (s *Solver) StopPour() {
	s.pourAcc = 0
}

func (s *Solver) AddObstacle(r geom.Rect) *Obstacle {
	s.nextID++
	o := &Obstacle{ID: s.nextID, Rect: r}
	s.obstacles = append(s.obstacles, o)
	log.Printf("fluid: obstacle id=%d at (%.0f,%.0f) %.0fx%.0f", o.ID, r.X, r.Y, r.W, r.H)
	return o
}

// DefaultObstacle is the plank placed by the obstacle button.
func (s *Solver) DefaultObstacle() geom.Rect {
	return geom.Rect{X: math.Floor(s.world.Width/2) - 50, Y: math.Floor(s.world.Height / 2), W: 100, H: 20}
}

// AddFloatingObject drops a 40x40 box of the named solid material above the
// centre of the tank.
func (s *Solver) AddFloatingObject(name string) (*FloatingObject, error) {
	m, err := s.materials.LookupKind(name, material.Solid)
	if err != nil {
		return nil, fmt.Errorf("fluid: %w", err)
	}
	s.nextID++
	f := &FloatingObject{
		ID:       s.nextID,
		Rect:     geom.Rect{X: math.Floor(s.world.Width/2) - 20, Y: math.Floor(s.world.Height / 3), W: 40, H: 40},
		Material: m,
	}
	s.floating = append(s.floating, f)
	log.Printf("fluid: floating %s id=%d", m.Name, f.ID)
	return f, nil
}

func (s *Solver) Particles() []Particle { return s.particles }

func (s *Solver) Obstacles() []*Obstacle { return s.obstacles }

func (s *Solver) FloatingObjects() []*FloatingObject { return s.floating }

func (s *Solver) Step(dt float64) {
	if dt <= 0 {
		return
	}
	s.advect(dt)
	s.collide()
	s.layer()
	s.float(dt)
	s.time += dt
}

func (s *Solver) advect(dt float64) {
	if len(s.particles) == 0 {
		return
	}
	sys := particleSystem{
		particles: s.particles,
		gravity:   s.params.Gravity,
		damping:   s.params.Viscosity * dampingPerViscosity,
		medium:    s.medium,
	}
	x := s.integrator.Step(sys, sys.pack(), s.time, dt)
	if !x.IsValid() {
		log.Printf("fluid: %v, dropping step", dynamo.ErrInvalidState)
		return
	}
	sys.unpack(x)
}

// collide pushes particles out of obstacles and floating boxes along the
// axis of least penetration, then keeps them inside the tank.
func (s *Solver) collide() {
	floor := s.world.FloorY()
	for i := range s.particles {
		p := &s.particles[i]
		for _, o := range s.obstacles {
			pushOut(p, o.Rect)
		}
		for _, f := range s.floating {
			pushOut(p, f.Rect)
		}
		if p.Position.X < 0 {
			p.Position.X, p.Velocity.X = 0, math.Max(0, p.Velocity.X)
		} else if p.Position.X > s.world.Width {
			p.Position.X, p.Velocity.X = s.world.Width, math.Min(0, p.Velocity.X)
		}
		if p.Position.Y < 0 {
			p.Position.Y, p.Velocity.Y = 0, math.Max(0, p.Velocity.Y)
		} else if p.Position.Y > floor {
			p.Position.Y, p.Velocity.Y = floor, math.Min(0, p.Velocity.Y)
		}
	}
}

func pushOut(p *Particle, r geom.Rect) {
	if !r.Contains(p.Position) {
		return
	}
	left := p.Position.X - r.X
	right := r.Right() - p.Position.X
	top := p.Position.Y - r.Y
	bottom := r.Bottom() - p.Position.Y
	switch math.Min(math.Min(left, right), math.Min(top, bottom)) {
	case top:
		p.Position.Y, p.Velocity.Y = r.Y, math.Min(0, p.Velocity.Y)
	case bottom:
		p.Position.Y, p.Velocity.Y = r.Bottom(), math.Max(0, p.Velocity.Y)
	case left:
		p.Position.X, p.Velocity.X = r.X, math.Min(0, p.Velocity.X)
	default:
		p.Position.X, p.Velocity.X = r.Right(), math.Max(0, p.Velocity.X)
	}
}

// layer lets a denser particle sink through a lighter one directly below
// it. Particles are bucketed into narrow columns and each vertically
// adjacent pair within one column width is checked once per step.
func (s *Solver) layer() {
	columns := make(map[int][]int)
	for i, p := range s.particles {
		c := int(math.Floor(p.Position.X / columnWidth))
		columns[c] = append(columns[c], i)
	}
	for _, idx := range columns {
		if len(idx) < 2 {
			continue
		}
		sort.Slice(idx, func(a, b int) bool {
			return s.particles[idx[a]].Position.Y < s.particles[idx[b]].Position.Y
		})
		for k := 0; k+1 < len(idx); k++ {
			upper, lower := &s.particles[idx[k]], &s.particles[idx[k+1]]
			if lower.Position.Y-upper.Position.Y > columnWidth {
				continue
			}
			if upper.Density() > lower.Density() {
				upper.Position.Y, lower.Position.Y = lower.Position.Y, upper.Position.Y
				upper.Velocity.Y, lower.Velocity.Y = lower.Velocity.Y, upper.Velocity.Y
				idx[k], idx[k+1] = idx[k+1], idx[k]
			}
		}
	}
}

// Surface is the y coordinate of the liquid level: the settled volume of
// every particle denser than the medium, spread over the tank width.
func (s *Solver) Surface() float64 {
	floor := s.world.FloorY()
	if s.world.Width <= 0 {
		return floor
	}
	return floor - float64(s.liquidCount())*particleArea/s.world.Width
}

func (s *Solver) liquidCount() int {
	n := 0
	for i := range s.particles {
		if s.particles[i].Density() > s.medium {
			n++
		}
	}
	return n
}

// liquidDensity is the mean density of the liquid particles, or Water's
// density for an empty tank.
func (s *Solver) liquidDensity() float64 {
	sum, n := 0.0, 0
	for i := range s.particles {
		if d := s.particles[i].Density(); d > s.medium {
			sum += d
			n++
		}
	}
	if n == 0 {
		if w, err := s.materials.LookupKind(material.Water, material.Fluid); err == nil {
			return w.Density
		}
		return 1
	}
	return sum / float64(n)
}

func (s *Solver) float(dt float64) {
	if len(s.floating) == 0 {
		return
	}
	surface := s.Surface()
	density := s.liquidDensity()
	floor := s.world.FloorY()
	for _, f := range s.floating {
		sys := floatSystem{
			gravity:   s.params.Gravity,
			density:   f.Material.Density,
			fluid:     density,
			height:    f.Rect.H,
			surface:   surface,
			damping:   floatDamping * s.params.Viscosity,
			stiffness: restoringStiffness,
			drag:      restoringDrag,
		}
		x := s.integrator.Step(sys, dynamo.State{f.Rect.Y, f.Angle, f.Velocity.Y, f.AngularVelocity}, s.time, dt)
		f.Rect.Y, f.Angle, f.Velocity.Y, f.AngularVelocity = x[0], x[1], x[2], x[3]
		if f.Rect.Bottom() > floor {
			f.Rect.Y = floor - f.Rect.H
			f.Velocity.Y = math.Min(0, f.Velocity.Y)
		}
	}
}

// Submerged reports the fraction of f below the current surface.
func (s *Solver) Submerged(f *FloatingObject) float64 {
	return floatSystem{height: f.Rect.H, surface: s.Surface()}.submerged(f.Rect.Y)
}

// Sample reports the mean particle speed.
func (s *Solver) Sample() map[string]float64 {
	speed := 0.0
	for i := range s.particles {
		speed += s.particles[i].Velocity.Length()
	}
	if len(s.particles) > 0 {
		speed /= float64(len(s.particles))
	}
	return map[string]float64{"velocity": speed}
}

func (s *Solver) GetParams() map[string]float64 {
	return map[string]float64{
		"viscosity": s.params.Viscosity,
		"flow_rate": s.params.FlowRate,
	}
}

func (s *Solver) SetParam(name string, value float64) error {
	if value < 0 {
		return dynamo.OutOfBounds(name, value)
	}
	switch name {
	case "viscosity":
		s.params.Viscosity = value
	case "flow_rate":
		s.params.FlowRate = value
	default:
		return dynamo.UnknownParam(name, value)
	}
	return nil
}

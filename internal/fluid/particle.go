package fluid

import (
	"github.com/jakecoffman/cp"
	"github.com/san-kum/sandbox/internal/dynamo"
	"github.com/san-kum/sandbox/internal/geom"
	"github.com/san-kum/sandbox/internal/material"
)

const (
	// ParticleRadius is the drawn radius of a fluid particle in pixels.
	ParticleRadius = 3.0
	// ParticleTemperature is the temperature (C) new particles carry.
	ParticleTemperature = 20.0
)

type Particle struct {
	Position    cp.Vector
	Velocity    cp.Vector
	Material    material.Material
	Temperature float64
	Size        float64
}

func newParticle(p cp.Vector, m material.Material) Particle {
	return Particle{Position: p, Material: m, Temperature: ParticleTemperature, Size: ParticleRadius}
}

func (p *Particle) Density() float64 {
	return p.Material.Density
}

// Obstacle is a static rectangle that particles cannot enter.
type Obstacle struct {
	ID   int
	Rect geom.Rect
}

// FloatingObject is a box that bobs on the fluid surface. It only moves
// vertically and rotates independently of the fluid.
type FloatingObject struct {
	ID              int
	Rect            geom.Rect
	Velocity        cp.Vector
	Material        material.Material
	Angle           float64
	AngularVelocity float64
}

// particleSystem is the free-flight dynamics of every particle between
// collision passes. State is [x0 y0 x1 y1 ... vx0 vy0 vx1 vy1 ...].
type particleSystem struct {
	particles []Particle
	gravity   float64
	damping   float64
	medium    float64
}

func (ps particleSystem) StateDim() int {
	return 4 * len(ps.particles)
}

func (ps particleSystem) Derive(x dynamo.State, _ float64) dynamo.State {
	n := 2 * len(ps.particles)
	dx := make(dynamo.State, len(x))
	for i := range ps.particles {
		vx, vy := x[n+2*i], x[n+2*i+1]
		dx[2*i], dx[2*i+1] = vx, vy
		dx[n+2*i] = -ps.damping * vx
		dx[n+2*i+1] = effectiveGravity(ps.gravity, ps.medium, ps.particles[i].Density()) - ps.damping*vy
	}
	return dx
}

func (ps particleSystem) pack() dynamo.State {
	n := 2 * len(ps.particles)
	x := make(dynamo.State, 2*n)
	for i, p := range ps.particles {
		x[2*i], x[2*i+1] = p.Position.X, p.Position.Y
		x[n+2*i], x[n+2*i+1] = p.Velocity.X, p.Velocity.Y
	}
	return x
}

func (ps particleSystem) unpack(x dynamo.State) {
	n := 2 * len(ps.particles)
	for i := range ps.particles {
		ps.particles[i].Position = cp.Vector{X: x[2*i], Y: x[2*i+1]}
		ps.particles[i].Velocity = cp.Vector{X: x[n+2*i], Y: x[n+2*i+1]}
	}
}

// effectiveGravity is gravity reduced by the buoyancy of the surrounding
// medium. A particle as light as the medium hangs in place.
func effectiveGravity(g, medium, density float64) float64 {
	if density <= 0 {
		return 0
	}
	return g * (1 - medium/density)
}

// floatSystem is the vertical and rotational motion of one floating object.
// State is [y angle vy omega].
type floatSystem struct {
	gravity   float64
	density   float64
	fluid     float64
	height    float64
	surface   float64
	damping   float64
	stiffness float64
	drag      float64
}

func (fs floatSystem) StateDim() int { return 4 }

func (fs floatSystem) Derive(x dynamo.State, _ float64) dynamo.State {
	y, angle, vy, omega := x[0], x[1], x[2], x[3]
	f := fs.submerged(y)
	ay := fs.gravity
	if fs.density > 0 {
		ay -= fs.gravity * f * fs.fluid / fs.density
	}
	ay -= f * fs.damping * vy
	alpha := -fs.stiffness*angle - fs.drag*omega
	return dynamo.State{vy, omega, ay, alpha}
}

// submerged is the fraction of the box below the surface for a box whose
// top edge sits at y.
func (fs floatSystem) submerged(y float64) float64 {
	if fs.height <= 0 {
		return 0
	}
	return dynamo.Clamp((y+fs.height-fs.surface)/fs.height, 0, 1)
}

// Package mechanics configures and steps a Chipmunk space for the rigid-body
// domain: circles, boxes, pendulums and springs built from the material table.
package mechanics

import (
	"fmt"
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/sandbox/internal/dynamo"
	"github.com/san-kum/sandbox/internal/material"
)

const (
	DefaultGravity  = 981.0 // 9.81 m/s^2 at 100 px per metre
	DefaultFriction = 0.5

	CircleRadius = 20.0
	BoxSize      = 40.0

	SpringStiffness  = 1000.0
	SpringDamping    = 100.0
	SpringRestLength = 100.0

	anchorY          = 100.0
	hangingY         = 250.0
	wallRadius       = 5.0
	wallFrictionCoef = 0.5
	wallElasticity   = 0.5
)

// Params are the tunable engine settings.
type Params struct {
	Gravity    float64 `yaml:"gravity"`
	Friction   float64 `yaml:"friction"`
	Iterations int     `yaml:"iterations"`
	// FlingScale converts a drag vector in pixels to an impulse per unit mass.
	FlingScale float64 `yaml:"fling_scale"`
}

func DefaultParams() Params {
	return Params{
		Gravity:    DefaultGravity,
		Friction:   DefaultFriction,
		Iterations: 10,
		FlingScale: 5,
	}
}

type Solver struct {
	world     dynamo.World
	params    Params
	materials *material.Table
	space     *cp.Space
	objects   []*Object
	nextID    int

	meanSpeed float64
	accel     float64
}

func New(world dynamo.World, params Params, materials *material.Table) *Solver {
	space := cp.NewSpace()
	if params.Iterations > 0 {
		space.Iterations = uint(params.Iterations)
	}
	space.SetGravity(cp.Vector{X: 0, Y: params.Gravity})

	s := &Solver{
		world:     world,
		params:    params,
		materials: materials,
		space:     space,
	}
	s.buildBoundaries()
	return s
}

func (s *Solver) buildBoundaries() {
	w, h, floor := s.world.Width, s.world.Height, s.world.FloorY()
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: 0, Y: floor}, b: cp.Vector{X: w, Y: floor}},
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: h}},
		{a: cp.Vector{X: w, Y: 0}, b: cp.Vector{X: w, Y: h}},
	}
	for _, seg := range segments {
		shape := cp.NewSegment(s.space.StaticBody, seg.a, seg.b, wallRadius)
		shape.SetFriction(wallFrictionCoef)
		shape.SetElasticity(wallElasticity)
		s.space.AddShape(shape)
	}
}

func (s *Solver) spawnPoint() cp.Vector {
	return cp.Vector{X: math.Floor(s.world.Width / 2), Y: math.Floor(s.world.Height / 3)}
}

func (s *Solver) anchorPoint() cp.Vector {
	return cp.Vector{X: math.Floor(s.world.Width / 2), Y: anchorY}
}

func (s *Solver) solid(name string) (material.Material, error) {
	m, err := s.materials.LookupKind(name, material.Solid)
	if err != nil {
		return material.Material{}, fmt.Errorf("mechanics: %w", err)
	}
	return m, nil
}

func (s *Solver) newCircle(m material.Material, pos cp.Vector) *Object {
	mass := math.Pi * CircleRadius * CircleRadius * m.Density
	body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, CircleRadius, cp.Vector{}))
	body.SetPosition(pos)
	shape := cp.NewCircle(body, CircleRadius, cp.Vector{})
	return s.track(&Object{Kind: Circle, Material: m.Name, Radius: CircleRadius}, m, body, shape)
}

func (s *Solver) newBox(m material.Material, pos cp.Vector) *Object {
	mass := BoxSize * BoxSize * m.Density
	body := cp.NewBody(mass, cp.MomentForBox(mass, BoxSize, BoxSize))
	body.SetPosition(pos)
	shape := cp.NewBox(body, BoxSize, BoxSize, 0)
	return s.track(&Object{Kind: Box, Material: m.Name, Width: BoxSize, Height: BoxSize}, m, body, shape)
}

func (s *Solver) track(o *Object, m material.Material, body *cp.Body, shape *cp.Shape) *Object {
	shape.SetFriction(m.Friction)
	shape.SetElasticity(m.Elasticity)
	s.space.AddBody(body)
	s.space.AddShape(shape)

	s.nextID++
	o.ID = s.nextID
	o.body = body
	o.shape = shape
	s.objects = append(s.objects, o)
	return o
}

func (s *Solver) AddCircle(materialName string) (*Object, error) {
	m, err := s.solid(materialName)
	if err != nil {
		return nil, err
	}
	o := s.newCircle(m, s.spawnPoint())
	log.Printf("mechanics: added circle id=%d material=%s mass=%.1f", o.ID, m.Name, o.Mass())
	return o, nil
}

func (s *Solver) AddBox(materialName string) (*Object, error) {
	m, err := s.solid(materialName)
	if err != nil {
		return nil, err
	}
	o := s.newBox(m, s.spawnPoint())
	log.Printf("mechanics: added box id=%d material=%s mass=%.1f", o.ID, m.Name, o.Mass())
	return o, nil
}

// AddPendulum hangs a circular bob below a fixed pivot on a pin joint. The
// joint keeps the initial pivot-to-bob distance; the bob swings freely.
func (s *Solver) AddPendulum(materialName string) (*Object, error) {
	m, err := s.solid(materialName)
	if err != nil {
		return nil, err
	}
	pivot := s.anchorPoint()
	o := s.newCircle(m, cp.Vector{X: pivot.X, Y: hangingY})
	o.Role = PendulumBob
	o.Anchor = pivot
	o.constraint = s.space.AddConstraint(cp.NewPinJoint(s.space.StaticBody, o.body, pivot, cp.Vector{}))
	log.Printf("mechanics: added pendulum id=%d material=%s", o.ID, m.Name)
	return o, nil
}

// AddSpring hangs a box weight below a fixed anchor on a damped spring.
func (s *Solver) AddSpring(materialName string) (*Object, error) {
	m, err := s.solid(materialName)
	if err != nil {
		return nil, err
	}
	anchor := s.anchorPoint()
	o := s.newBox(m, cp.Vector{X: anchor.X, Y: hangingY})
	o.Role = SpringWeight
	o.Anchor = anchor
	spring := cp.NewDampedSpring(s.space.StaticBody, o.body, anchor, cp.Vector{}, SpringRestLength, SpringStiffness, SpringDamping)
	o.constraint = s.space.AddConstraint(spring)
	log.Printf("mechanics: added spring id=%d material=%s", o.ID, m.Name)
	return o, nil
}

func (s *Solver) SetGravity(v float64) {
	s.space.SetGravity(cp.Vector{X: 0, Y: v})
}

func (s *Solver) Gravity() float64 {
	return s.space.Gravity().Y
}

// SetFriction overrides the friction of every shape already tracked.
// Objects added later still take their material's friction.
func (s *Solver) SetFriction(v float64) {
	s.params.Friction = v
	for _, o := range s.objects {
		o.shape.SetFriction(v)
	}
}

// PickAt returns the first object, in insertion order, containing p.
func (s *Solver) PickAt(p cp.Vector) (*Object, bool) {
	for _, o := range s.objects {
		if o.Contains(p) {
			return o, true
		}
	}
	return nil, false
}

// Drag teleports o to p and zeroes its velocity. It undoes only what the
// engine has integrated so far; a caller holding o must drag it again after
// every Step.
func (s *Solver) Drag(o *Object, p cp.Vector) {
	o.body.SetPosition(p)
	o.body.SetVelocity(0, 0)
}

// Fling applies an impulse along the drag from -> to, at the grab point.
func (s *Solver) Fling(o *Object, from, to cp.Vector) {
	impulse := to.Sub(from).Mult(s.params.FlingScale * o.body.Mass())
	o.body.ApplyImpulseAtWorldPoint(impulse, from)
}

func (s *Solver) Step(dt float64) {
	if dt <= 0 {
		return
	}
	before := s.meanSpeed
	s.space.Step(dt)
	s.meanSpeed = s.averageSpeed()
	s.accel = (s.meanSpeed - before) / dt
}

func (s *Solver) averageSpeed() float64 {
	if len(s.objects) == 0 {
		return 0
	}
	sum := 0.0
	for _, o := range s.objects {
		sum += o.body.Velocity().Length()
	}
	return sum / float64(len(s.objects))
}

// Objects returns the tracked objects in insertion order.
func (s *Solver) Objects() []*Object {
	return s.objects
}

func (s *Solver) Sample() map[string]float64 {
	return map[string]float64{
		"velocity":     s.meanSpeed,
		"acceleration": s.accel,
	}
}

func (s *Solver) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity":  s.Gravity(),
		"friction": s.params.Friction,
	}
}

func (s *Solver) SetParam(name string, value float64) error {
	switch name {
	case "gravity":
		s.SetGravity(value)
	case "friction":
		s.SetFriction(value)
	default:
		return dynamo.UnknownParam(name, value)
	}
	return nil
}

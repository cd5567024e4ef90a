package mechanics

import (
	"github.com/jakecoffman/cp"
	"github.com/san-kum/sandbox/internal/geom"
)

type ShapeKind int

const (
	Circle ShapeKind = iota
	Box
)

func (k ShapeKind) String() string {
	if k == Box {
		return "box"
	}
	return "circle"
}

type Role int

const (
	Free Role = iota
	PendulumBob
	SpringWeight
)

func (r Role) String() string {
	switch r {
	case PendulumBob:
		return "pendulum_bob"
	case SpringWeight:
		return "spring_weight"
	default:
		return "free"
	}
}

// Object is one tracked body and its single collision shape. Pendulum bobs
// and spring weights also own the constraint tying them to a fixed anchor.
type Object struct {
	ID       int
	Kind     ShapeKind
	Role     Role
	Material string

	Radius        float64
	Width, Height float64

	// Anchor is the fixed pivot or spring anchor in world space.
	Anchor cp.Vector

	body       *cp.Body
	shape      *cp.Shape
	constraint *cp.Constraint
}

func (o *Object) Position() cp.Vector { return o.body.Position() }
func (o *Object) Velocity() cp.Vector { return o.body.Velocity() }
func (o *Object) Angle() float64      { return o.body.Angle() }
func (o *Object) Mass() float64       { return o.body.Mass() }
func (o *Object) Moment() float64     { return o.body.Moment() }
func (o *Object) Friction() float64   { return o.shape.Friction() }
func (o *Object) Elasticity() float64 { return o.shape.Elasticity() }

// Anchored reports whether the object hangs from a pivot or spring anchor.
func (o *Object) Anchored() bool { return o.constraint != nil }

// Vertices returns the box corners rotated into world space at the body's
// current position and angle. Circles have none.
func (o *Object) Vertices() []cp.Vector {
	if o.Kind != Box {
		return nil
	}
	hw, hh := o.Width/2, o.Height/2
	local := []cp.Vector{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
	pos, rot := o.body.Position(), cp.ForAngle(o.body.Angle())
	for i, v := range local {
		local[i] = pos.Add(v.Rotate(rot))
	}
	return local
}

// Contains is the picking hit test.
func (o *Object) Contains(p cp.Vector) bool {
	switch o.Kind {
	case Circle:
		return geom.PointInCircle(p, o.body.Position(), o.Radius)
	case Box:
		return geom.PointInPolygon(p, o.Vertices())
	}
	return false
}

package mechanics

import (
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/sandbox/internal/dynamo"
	"github.com/san-kum/sandbox/internal/material"
)

func newSolver() *Solver {
	return New(dynamo.DefaultWorld(), DefaultParams(), material.Default())
}

func TestAddCircleMassAndMoment(t *testing.T) {
	s := newSolver()
	o, err := s.AddCircle(material.Wood)
	if err != nil {
		t.Fatalf("AddCircle failed: %v", err)
	}

	wantMass := math.Pi * CircleRadius * CircleRadius * 0.5
	if math.Abs(o.Mass()-wantMass) > 1e-9 {
		t.Errorf("mass = %f, want %f", o.Mass(), wantMass)
	}
	wantMoment := cp.MomentForCircle(wantMass, 0, CircleRadius, cp.Vector{})
	if math.Abs(o.Moment()-wantMoment) > 1e-6 {
		t.Errorf("moment = %f, want %f", o.Moment(), wantMoment)
	}
	if o.Friction() != 0.7 || o.Elasticity() != 0.4 {
		t.Errorf("friction/elasticity = %f/%f, want 0.7/0.4", o.Friction(), o.Elasticity())
	}
	if p := o.Position(); p.X != 500 || p.Y != 233 {
		t.Errorf("spawn = %v, want (500, 233)", p)
	}
}

func TestAddBoxMass(t *testing.T) {
	s := newSolver()
	o, err := s.AddBox(material.Metal)
	if err != nil {
		t.Fatalf("AddBox failed: %v", err)
	}
	if o.Mass() != BoxSize*BoxSize*1.0 {
		t.Errorf("mass = %f, want %f", o.Mass(), BoxSize*BoxSize)
	}
	if len(o.Vertices()) != 4 {
		t.Errorf("expected 4 vertices, got %d", len(o.Vertices()))
	}
}

func TestAddRejectsInvalidMaterial(t *testing.T) {
	s := newSolver()
	adders := map[string]func(string) (*Object, error){
		"circle":   s.AddCircle,
		"box":      s.AddBox,
		"pendulum": s.AddPendulum,
		"spring":   s.AddSpring,
	}
	for name, add := range adders {
		t.Run(name, func(t *testing.T) {
			if _, err := add("Plasma"); !errors.Is(err, material.ErrInvalidMaterial) {
				t.Errorf("expected ErrInvalidMaterial, got %v", err)
			}
			if _, err := add(material.Water); !errors.Is(err, material.ErrInvalidMaterial) {
				t.Errorf("expected ErrInvalidMaterial for fluid, got %v", err)
			}
		})
	}
	if len(s.Objects()) != 0 {
		t.Errorf("failed adds left %d objects", len(s.Objects()))
	}
}

func TestZeroGravityKeepsVelocity(t *testing.T) {
	s := newSolver()
	s.SetGravity(0)
	o, _ := s.AddCircle(material.Rubber)
	o.body.SetVelocity(0, 30)

	for i := 0; i < 100; i++ {
		s.Step(1.0 / 60.0)
	}

	if v := o.Velocity(); v.Y != 30 {
		t.Errorf("velocity.y = %f, want 30", v.Y)
	}
}

func TestGravityAccelerates(t *testing.T) {
	s := newSolver()
	o, _ := s.AddCircle(material.Wood)
	s.Step(1.0 / 60.0)
	if o.Velocity().Y <= 0 {
		t.Errorf("expected downward velocity, got %f", o.Velocity().Y)
	}
	if s.Sample()["velocity"] <= 0 {
		t.Error("expected positive velocity sample")
	}
}

func TestPendulumKeepsLength(t *testing.T) {
	s := newSolver()
	o, err := s.AddPendulum(material.Metal)
	if err != nil {
		t.Fatalf("AddPendulum failed: %v", err)
	}
	if o.Role != PendulumBob || !o.Anchored() {
		t.Fatalf("unexpected role %v", o.Role)
	}
	o.body.SetVelocity(300, 0)

	length := hangingY - anchorY
	for i := 0; i < 300; i++ {
		s.Step(1.0 / 60.0)
		d := o.Position().Distance(o.Anchor)
		if math.Abs(d-length) > 5 {
			t.Fatalf("step %d: pivot distance %f, want ~%f", i, d, length)
		}
	}
}

func TestSpringPullsTowardAnchor(t *testing.T) {
	s := newSolver()
	s.SetGravity(0)
	o, err := s.AddSpring(material.Wood)
	if err != nil {
		t.Fatalf("AddSpring failed: %v", err)
	}
	start := o.Position().Distance(o.Anchor)
	for i := 0; i < 30; i++ {
		s.Step(1.0 / 60.0)
	}
	if d := o.Position().Distance(o.Anchor); d >= start {
		t.Errorf("spring did not contract: %f >= %f", d, start)
	}
}

func TestSetFrictionIsRetroactive(t *testing.T) {
	s := newSolver()
	a, _ := s.AddCircle(material.Ice)
	b, _ := s.AddBox(material.Rubber)
	s.SetFriction(0.25)

	if a.Friction() != 0.25 || b.Friction() != 0.25 {
		t.Errorf("friction = %f, %f; want 0.25", a.Friction(), b.Friction())
	}
	c, _ := s.AddCircle(material.Ice)
	if c.Friction() != 0.1 {
		t.Errorf("new object friction = %f, want material 0.1", c.Friction())
	}
}

func TestPickAtCircle(t *testing.T) {
	s := newSolver()
	if _, ok := s.PickAt(cp.Vector{X: 500, Y: 233}); ok {
		t.Fatal("empty solver returned a match")
	}
	o, _ := s.AddCircle(material.Wood)
	c := o.Position()

	tests := []struct {
		name string
		p    cp.Vector
		want bool
	}{
		{"center", c, true},
		{"on boundary", c.Add(cp.Vector{X: 12, Y: 16}), true},
		{"outside", c.Add(cp.Vector{X: 12, Y: 16.01}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.PickAt(tt.p)
			if ok != tt.want {
				t.Fatalf("PickAt(%v) ok = %v, want %v", tt.p, ok, tt.want)
			}
			if ok && got != o {
				t.Error("picked the wrong object")
			}
		})
	}
}

func TestPickAtFirstInInsertionOrder(t *testing.T) {
	s := newSolver()
	first, _ := s.AddCircle(material.Wood)
	s.AddBox(material.Metal)

	got, ok := s.PickAt(first.Position())
	if !ok || got != first {
		t.Errorf("expected the first object, got %+v", got)
	}
}

func TestPickAtRotatedBox(t *testing.T) {
	s := newSolver()
	o, _ := s.AddBox(material.Wood)
	p := o.Position().Add(cp.Vector{X: 25, Y: 0})

	if _, ok := s.PickAt(p); ok {
		t.Fatal("point beyond the half-width should miss an upright box")
	}
	o.body.SetAngle(math.Pi / 4)
	if _, ok := s.PickAt(p); !ok {
		t.Error("point inside the rotated diagonal should hit")
	}
}

func TestDragTeleportsAndStops(t *testing.T) {
	s := newSolver()
	o, _ := s.AddBox(material.Wood)
	o.body.SetVelocity(100, -50)

	target := cp.Vector{X: 200, Y: 300}
	s.Drag(o, target)

	if o.Position() != target {
		t.Errorf("position = %v, want %v", o.Position(), target)
	}
	if v := o.Velocity(); v.X != 0 || v.Y != 0 {
		t.Errorf("velocity = %v, want zero", v)
	}
}

func TestFlingAddsMomentum(t *testing.T) {
	s := newSolver()
	o, _ := s.AddCircle(material.Wood)
	from := o.Position()
	s.Fling(o, from, from.Add(cp.Vector{X: 10, Y: 0}))
	if o.Velocity().X <= 0 {
		t.Errorf("expected rightward velocity, got %v", o.Velocity())
	}
}

func TestParams(t *testing.T) {
	s := newSolver()
	if err := s.SetParam("gravity", 100); err != nil {
		t.Fatal(err)
	}
	if got := s.GetParams()["gravity"]; got != 100 {
		t.Errorf("gravity = %f, want 100", got)
	}
	if err := s.SetParam("spin", 1); !errors.Is(err, dynamo.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

package circuit

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
	. "github.com/onsi/gomega"
	"github.com/san-kum/sandbox/internal/dynamo"
)

func newSolver() *Solver {
	return New(dynamo.DefaultWorld(), DefaultParams())
}

func TestBatteryAndResistor(t *testing.T) {
	g := NewWithT(t)
	s := newSolver()
	bat := s.Add(Battery)
	res := s.Add(Resistor)

	sol := s.Solve()

	g.Expect(sol.Current).To(BeNumerically("~", 0.09, 1e-12))
	g.Expect(sol.Voltages[res.ID]).To(BeNumerically("~", 9.0, 1e-12))
	g.Expect(sol.Voltages[bat.ID]).To(Equal(9.0))
	g.Expect(sol.Fault).To(BeFalse())
	g.Expect(sol.Open).To(BeFalse())
}

func TestSeriesSums(t *testing.T) {
	tests := []struct {
		name      string
		batteries []float64
		resistors []float64
		want      float64
	}{
		{"single", []float64{9}, []float64{100}, 0.09},
		{"two batteries", []float64{9, 3}, []float64{100}, 0.12},
		{"two resistors", []float64{12}, []float64{100, 200}, 0.04},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			s := newSolver()
			for _, v := range tt.batteries {
				s.Add(Battery).Value = v
			}
			for _, v := range tt.resistors {
				s.Add(Resistor).Value = v
			}
			g.Expect(s.Solve().Current).To(BeNumerically("~", tt.want, 1e-12))
		})
	}
}

func TestOpenSwitchBreaksCircuit(t *testing.T) {
	g := NewWithT(t)
	s := newSolver()
	s.Add(Battery)
	s.Add(Resistor)
	sw := s.Add(Switch)
	bulb := s.Add(Bulb)

	g.Expect(s.Solve().Current).To(BeNumerically(">", 0))
	g.Expect(bulb.Lit).To(BeTrue())

	g.Expect(s.Toggle(sw)).To(BeTrue())
	sol := s.Solution()
	g.Expect(sol.Open).To(BeTrue())
	g.Expect(sol.Current).To(Equal(0.0))
	g.Expect(bulb.Lit).To(BeFalse())
	g.Expect(sol.Voltages[bulb.ID]).To(Equal(0.0))
}

func TestZeroResistanceIsFault(t *testing.T) {
	g := NewWithT(t)
	s := newSolver()
	s.Add(Battery)
	s.Add(Wire)

	sol := s.Solve()
	g.Expect(sol.Fault).To(BeTrue())
	g.Expect(sol.Current).To(Equal(0.0))
}

func TestToggleIgnoresNonSwitch(t *testing.T) {
	s := newSolver()
	r := s.Add(Resistor)
	if s.Toggle(r) {
		t.Error("Toggle on a resistor should be a no-op")
	}
	if !r.On {
		t.Error("resistor state changed")
	}
}

func TestBulkSetters(t *testing.T) {
	g := NewWithT(t)
	s := newSolver()
	b1, b2 := s.Add(Battery), s.Add(Battery)
	r := s.Add(Resistor)
	bulb := s.Add(Bulb)

	g.Expect(s.SetParam("voltage", 12)).To(Succeed())
	g.Expect(s.SetParam("resistance", 300)).To(Succeed())

	g.Expect(b1.Value).To(Equal(12.0))
	g.Expect(b2.Value).To(Equal(12.0))
	g.Expect(r.Value).To(Equal(300.0))
	g.Expect(bulb.Value).To(Equal(50.0))
	g.Expect(s.GetParams()).To(HaveKeyWithValue("voltage", 12.0))

	err := s.SetParam("frequency", 50)
	g.Expect(errors.Is(err, dynamo.ErrUnknownParam)).To(BeTrue())

	err = s.SetParam("resistance", -5)
	g.Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
	g.Expect(r.Value).To(Equal(300.0))
}

func TestCapacitorLinearCharge(t *testing.T) {
	g := NewWithT(t)
	s := newSolver()
	s.Add(Battery)
	s.Add(Resistor)
	c := s.Add(Capacitor)

	s.Step(0.5)
	g.Expect(c.Charge).To(BeNumerically("~", 0.045, 1e-12))
	g.Expect(c.Voltage).To(BeNumerically("~", 4.5, 1e-9))

	s.Step(0.5)
	s.Step(0.5)
	g.Expect(c.Charge).To(BeNumerically("~", 0.09, 1e-12))
	g.Expect(c.Voltage).To(BeNumerically("~", 9.0, 1e-9))
}

func TestCapacitorHoldsChargeWhenOpen(t *testing.T) {
	s := newSolver()
	s.Add(Battery)
	s.Add(Resistor)
	sw := s.Add(Switch)
	c := s.Add(Capacitor)

	s.Step(0.5)
	s.Toggle(sw)
	s.Step(0.5)

	if c.Charge < 0.045-1e-12 || c.Charge > 0.045+1e-12 {
		t.Errorf("charge = %f, want 0.045", c.Charge)
	}
}

func TestConnectIsBidirectional(t *testing.T) {
	g := NewWithT(t)
	s := newSolver()
	a, b := s.Add(Battery), s.Add(Resistor)

	g.Expect(s.Connect(a, b)).To(Succeed())
	g.Expect(s.Connect(a, b)).To(Succeed())
	g.Expect(a.Connections()).To(Equal([]int{b.ID}))
	g.Expect(b.Connections()).To(Equal([]int{a.ID}))

	s.Disconnect(b, a)
	g.Expect(a.Connections()).To(BeEmpty())
	g.Expect(b.Connections()).To(BeEmpty())

	g.Expect(errors.Is(s.Connect(a, a), ErrSelfConnection)).To(BeTrue())
}

func TestConnectAdjacent(t *testing.T) {
	g := NewWithT(t)
	s := newSolver()
	a := s.AddAt(Battery, cp.Vector{X: 100, Y: 100})
	b := s.AddAt(Resistor, cp.Vector{X: 145, Y: 100})
	far := s.AddAt(Bulb, cp.Vector{X: 400, Y: 400})

	g.Expect(s.ConnectAdjacent(b)).To(Equal(1))
	g.Expect(a.ConnectedTo(b.ID)).To(BeTrue())
	g.Expect(far.Connections()).To(BeEmpty())
}

func TestPickAtAndMove(t *testing.T) {
	g := NewWithT(t)
	s := newSolver()
	g.Expect(func() { s.PickAt(cp.Vector{}) }).NotTo(Panic())

	r := s.Add(Resistor)
	got, ok := s.PickAt(cp.Vector{X: 520, Y: 352})
	g.Expect(ok).To(BeTrue())
	g.Expect(got).To(BeIdenticalTo(r))

	s.Move(r, cp.Vector{X: 100, Y: 100})
	_, ok = s.PickAt(cp.Vector{X: 520, Y: 352})
	g.Expect(ok).To(BeFalse())
}

func TestParseComponentType(t *testing.T) {
	typ, err := ParseComponentType("bulb")
	if err != nil || typ != Bulb {
		t.Errorf("ParseComponentType(bulb) = %v, %v", typ, err)
	}
	if _, err := ParseComponentType("transistor"); !errors.Is(err, ErrUnknownComponent) {
		t.Errorf("expected ErrUnknownComponent, got %v", err)
	}
}

package metrics

import "math"

// Stability is the fraction of frames whose readings were all finite.
type Stability struct {
	name       string
	violations int
	samples    int
}

func NewStability() *Stability {
	return &Stability{name: "stability"}
}

func (s *Stability) Name() string {
	return s.name
}

// ObserveFrame counts one frame, flagging it if any reading is NaN or Inf.
func (s *Stability) ObserveFrame(sample map[string]float64) {
	s.samples++
	for _, v := range sample {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			s.violations++
			break
		}
	}
}

func (s *Stability) Observe(v float64) {
	s.ObserveFrame(map[string]float64{s.name: v})
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

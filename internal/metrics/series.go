// Package metrics records per-frame scalar readings from the active solver
// into fixed-size ring buffers for plotting.
package metrics

// DefaultCapacity is ten seconds of history at 60 frames per second.
const DefaultCapacity = 600

// Standard metric names.
const (
	Velocity     = "velocity"
	Acceleration = "acceleration"
	Temperature  = "temperature"
	Voltage      = "voltage"
	Current      = "current"
)

// Names lists the standard metrics in display order.
var Names = []string{Velocity, Acceleration, Temperature, Voltage, Current}

type Metric interface {
	Name() string
	Observe(v float64)
	Value() float64
	Reset()
}

// Series keeps the most recent values of one metric. Once full, each new
// value overwrites the oldest.
type Series struct {
	name  string
	buf   []float64
	start int
	n     int
}

func NewSeries(name string, capacity int) *Series {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Series{name: name, buf: make([]float64, capacity)}
}

func (s *Series) Name() string { return s.name }

func (s *Series) Observe(v float64) {
	if s.n < len(s.buf) {
		s.buf[(s.start+s.n)%len(s.buf)] = v
		s.n++
		return
	}
	s.buf[s.start] = v
	s.start = (s.start + 1) % len(s.buf)
}

// Value is the latest observation, or 0 before the first.
func (s *Series) Value() float64 {
	if s.n == 0 {
		return 0
	}
	return s.buf[(s.start+s.n-1)%len(s.buf)]
}

func (s *Series) Reset() {
	s.start, s.n = 0, 0
}

func (s *Series) Len() int { return s.n }

func (s *Series) Cap() int { return len(s.buf) }

// Values returns a copy of the history, oldest first.
func (s *Series) Values() []float64 {
	out := make([]float64, s.n)
	for i := range out {
		out[i] = s.buf[(s.start+i)%len(s.buf)]
	}
	return out
}

package metrics

import (
	"log"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Tracker owns one Series per standard metric.
type Tracker struct {
	series    map[string]*Series
	stability *Stability
}

func NewTracker(capacity int) *Tracker {
	t := &Tracker{
		series:    make(map[string]*Series, len(Names)),
		stability: NewStability(),
	}
	for _, name := range Names {
		t.series[name] = NewSeries(name, capacity)
	}
	return t
}

// Record appends the frame's readings. Names outside the standard set are
// ignored; non-finite readings are counted against stability and dropped.
func (t *Tracker) Record(sample map[string]float64) {
	t.stability.ObserveFrame(sample)
	for name, v := range sample {
		s, ok := t.series[name]
		if !ok {
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			log.Printf("metrics: dropping non-finite %s", name)
			continue
		}
		s.Observe(v)
	}
}

func (t *Tracker) Series(name string) (*Series, bool) {
	s, ok := t.series[name]
	return s, ok
}

// Active lists the standard metrics that have at least one reading.
func (t *Tracker) Active() []string {
	return slices.DeleteFunc(slices.Clone(Names), func(n string) bool {
		return t.series[n].Len() == 0
	})
}

func (t *Tracker) Stability() float64 {
	return t.stability.Value()
}

func (t *Tracker) Reset() {
	for _, s := range t.series {
		s.Reset()
	}
	t.stability.Reset()
}

// Summary is the aggregate view of one series.
type Summary struct {
	Name string
	Last float64
	Mean float64
	Min  float64
	Max  float64
}

func (t *Tracker) Summarize(name string) (Summary, bool) {
	s, ok := t.series[name]
	if !ok || s.Len() == 0 {
		return Summary{Name: name}, false
	}
	v := s.Values()
	return Summary{
		Name: name,
		Last: s.Value(),
		Mean: stat.Mean(v, nil),
		Min:  floats.Min(v),
		Max:  floats.Max(v),
	}, true
}

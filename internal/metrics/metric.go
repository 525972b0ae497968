package metrics

import "github.com/san-kum/pidball/internal/sim"

// Sample is one recorded frame of a run.
type Sample struct {
	Time   float64 // simulated seconds
	Target float32
	sim.Snapshot
}

// Error is the signed tracking error of the sample.
func (s Sample) Error() float64 {
	return float64(s.Target - s.Position)
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

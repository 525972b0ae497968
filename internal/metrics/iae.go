package metrics

import "math"

// IAE integrates the absolute tracking error over simulated time.
type IAE struct {
	name  string
	sum   float64
	prevT float64
	prevE float64
	seen  bool
}

func NewIAE() *IAE {
	return &IAE{name: "iae"}
}

func (m *IAE) Name() string { return m.name }

// Observe uses the trapezoidal rule between consecutive samples.
func (m *IAE) Observe(s Sample) {
	e := math.Abs(s.Error())
	if m.seen {
		m.sum += 0.5 * (e + m.prevE) * (s.Time - m.prevT)
	}
	m.prevT, m.prevE, m.seen = s.Time, e, true
}

func (m *IAE) Value() float64 { return m.sum }

func (m *IAE) Reset() {
	*m = IAE{name: m.name}
}

package metrics

import "math"

// Stability is the fraction of samples whose tracking error stays within
// band.
type Stability struct {
	name       string
	band       float64
	violations int
	samples    int
}

func NewStability(band float64) *Stability {
	return &Stability{
		name: "stability",
		band: band,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(x Sample) {
	s.samples++
	if math.Abs(x.Error()) > s.band {
		s.violations++
	}
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

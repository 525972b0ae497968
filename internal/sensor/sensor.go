// Package sensor models the position sensor of the levitation column.
package sensor

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sensor adds zero-mean Gaussian noise to the true ball position. A nil
// source draws from the process-wide generator; tests pass a seeded one.
type Sensor struct {
	noise distuv.Normal
}

func New(sigma float32, src rand.Source) *Sensor {
	s := &Sensor{noise: distuv.Normal{Src: src}}
	s.SetSigma(sigma)
	return s
}

// Measure returns one noisy reading. Every call is an independent draw.
func (s *Sensor) Measure(truePos float32) float32 {
	if s.noise.Sigma == 0 {
		return truePos
	}
	return truePos + float32(s.noise.Rand())
}

// SetSigma rebuilds the noise distribution. Zero gives a noiseless sensor.
func (s *Sensor) SetSigma(sigma float32) {
	s.noise = distuv.Normal{Mu: 0, Sigma: float64(sigma), Src: s.noise.Src}
}

func (s *Sensor) Sigma() float32 {
	return float32(s.noise.Sigma)
}

// Reset is a no-op; the sensor has no state beyond sigma.
func (s *Sensor) Reset() {}

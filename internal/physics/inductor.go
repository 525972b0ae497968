package physics

import (
	"time"

	"github.com/chewxy/math32"
)

// Inductor is the electromagnet at a fixed position above the ball. The
// commanded force is slewed by MaxForceRate and then clamped to MaxForce.
type Inductor struct {
	pos          float32
	force        float32
	maxForce     float32
	maxForceRate float32
}

func NewInductor(pos, maxForce, maxForceRate float32) *Inductor {
	return &Inductor{
		pos:          pos,
		maxForce:     maxForce,
		maxForceRate: maxForceRate,
	}
}

func (ind *Inductor) Position() float32     { return ind.pos }
func (ind *Inductor) Force() float32        { return ind.force }
func (ind *Inductor) MaxForce() float32     { return ind.maxForce }
func (ind *Inductor) MaxForceRate() float32 { return ind.maxForceRate }

func (ind *Inductor) SetMaxForce(f float32)     { ind.maxForce = f }
func (ind *Inductor) SetMaxForceRate(f float32) { ind.maxForceRate = f }

// SetForce moves the current force towards target. Rate limiting is applied
// before amplitude limiting.
func (ind *Inductor) SetForce(target float32, dt time.Duration) {
	step := float32(dt.Seconds())
	delta := target - ind.force
	if math32.Abs(delta/step) > ind.maxForceRate {
		delta = math32.Copysign(ind.maxForceRate*step, delta)
	}
	ind.force = clamp(ind.force+delta, -ind.maxForce, ind.maxForce)
}

// Pull is the current force attenuated by the distance to the ball.
// Not a physical field model: force / (1 + d²).
func (ind *Inductor) Pull(ballPos float32) float32 {
	d := math32.Abs(ballPos - ind.pos)
	return ind.force / (1 + d*d)
}

// Reset zeroes the force and keeps the limits.
func (ind *Inductor) Reset() {
	ind.force = 0
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

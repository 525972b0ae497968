package control

import "time"

// PID computes the inductor force from the target and measured ball
// position. The derivative acts on the measurement, so target changes do not
// kick the output. The integral accumulates ki*error once per update and is
// not clamped.
type PID struct {
	Kp     float32
	Ki     float32
	Kd     float32
	Target float32

	p, i, d float32

	prevPos float32
	hasPrev bool
}

func NewPID(kp, ki, kd, target float32) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
	}
}

// Update consumes one measurement. dt must be positive.
func (c *PID) Update(measured float32, dt time.Duration) {
	err := c.Target - measured
	c.p = c.Kp * err
	c.i += c.Ki * err
	if c.hasPrev {
		c.d = c.Kd * (c.prevPos - measured) / float32(dt.Seconds())
	}
	c.prevPos = measured
	c.hasPrev = true
}

// Total is the commanded force.
func (c *PID) Total() float32 {
	return c.p + c.i + c.d
}

func (c *PID) Terms() (p, i, d float32) {
	return c.p, c.i, c.d
}

// HasDerivative reports whether a previous measurement is available.
func (c *PID) HasDerivative() bool {
	return c.hasPrev
}

// Reset clears the internal terms and keeps gains and target.
func (c *PID) Reset() {
	c.p, c.i, c.d = 0, 0, 0
	c.prevPos = 0
	c.hasPrev = false
}

package metrics

import "math"

// Overshoot is the largest excursion past the target relative to the size of
// the step that led to it. A target change starts a new step from the current
// position.
type Overshoot struct {
	name   string
	start  float64
	target float64
	peak   float64
	seen   bool
}

func NewOvershoot() *Overshoot {
	return &Overshoot{name: "overshoot"}
}

func (o *Overshoot) Name() string { return o.name }

func (o *Overshoot) Observe(s Sample) {
	target := float64(s.Target)
	pos := float64(s.Position)
	if !o.seen || target != o.target {
		o.start, o.target, o.seen = pos, target, true
		return
	}

	step := o.target - o.start
	if step == 0 {
		return
	}
	past := (pos - o.target) / step
	o.peak = math.Max(o.peak, past)
}

func (o *Overshoot) Value() float64 { return o.peak }

func (o *Overshoot) Reset() {
	*o = Overshoot{name: o.name}
}

package viz

import (
	"fmt"

	"github.com/san-kum/pidball/internal/panel"
)

// tunable is one row of the parameter table. Relative tunables scale by
// relStep per key press, absolute ones add step.
type tunable struct {
	name     string
	get      func(p *panel.Panel) float32
	set      func(p *panel.Panel, v float32)
	step     float32
	relative bool
}

const relStep = 0.05

var tunables = []tunable{
	{"kp", func(p *panel.Panel) float32 { return p.Kp.Get() }, func(p *panel.Panel, v float32) { p.Kp.Set(v) }, 1, true},
	{"ki", func(p *panel.Panel) float32 { return p.Ki.Get() }, func(p *panel.Panel, v float32) { p.Ki.Set(v) }, 0.1, true},
	{"kd", func(p *panel.Panel) float32 { return p.Kd.Get() }, func(p *panel.Panel, v float32) { p.Kd.Set(v) }, 1, true},
	{"target", func(p *panel.Panel) float32 { return p.Target.Get() }, (*panel.Panel).SetTarget, 0.01, false},
	{"noise", func(p *panel.Panel) float32 { return p.Noise.Get() }, (*panel.Panel).SetNoise, 0.001, false},
	{"gravitation", func(p *panel.Panel) float32 { return p.Gravitation.Get() }, func(p *panel.Panel, v float32) { p.Gravitation.Set(v) }, 0.1, false},
	{"max_force", func(p *panel.Panel) float32 { return p.MaxForce.Get() }, (*panel.Panel).SetMaxForce, 1, true},
	{"max_force_rate", func(p *panel.Panel) float32 { return p.MaxForceRate.Get() }, (*panel.Panel).SetMaxForceRate, 10, true},
	{"sampling_rate", func(p *panel.Panel) float32 { return float32(p.SamplingRate.Get()) }, func(p *panel.Panel, v float32) { p.SetSamplingRate(uint32(max(v, 0))) }, 10, false},
}

// adjust moves the value one step in direction dir (+1 or -1).
func (t tunable) adjust(p *panel.Panel, dir float32) {
	v := t.get(p)
	switch {
	case t.relative && v != 0:
		v *= 1 + dir*relStep
	default:
		v += dir * t.step
	}
	t.set(p, v)
}

func (t tunable) format(p *panel.Panel) string {
	return fmt.Sprintf("%.4g", t.get(p))
}

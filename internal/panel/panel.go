// Package panel holds the driver-side copy of the tunable parameters and
// turns edits into configuration messages.
package panel

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/san-kum/pidball/internal/sim"
)

// Driver-side bounds. The simulation itself does not defend against values
// outside them.
const (
	MinTarget       = 0.25
	MaxTarget       = 0.75
	MinNoise        = 0.0
	MaxNoise        = 1.0
	MinSamplingRate = 1
	// MaxSamplingRate keeps the sampling duration at one nanosecond or more.
	MaxSamplingRate = uint32(time.Second / time.Nanosecond)
)

// DefaultSamplingRate in Hz.
const DefaultSamplingRate = 100

var ErrParameterBounds = errors.New("parameter out of valid bounds")

// Value caches an edited value together with the last value that was sent.
type Value[T comparable] struct {
	val  T
	prev T
}

func NewValue[T comparable](v T) Value[T] {
	return Value[T]{val: v, prev: v}
}

func (v *Value[T]) Get() T  { return v.val }
func (v *Value[T]) Set(x T) { v.val = x }

// Changed reports the value if it differs from the last reported one and
// latches it.
func (v *Value[T]) Changed() (T, bool) {
	if v.val == v.prev {
		return v.val, false
	}
	v.prev = v.val
	return v.val, true
}

type Configurer interface {
	Config(msg sim.Message)
}

type Panel struct {
	Kp           Value[float32]
	Ki           Value[float32]
	Kd           Value[float32]
	Target       Value[float32]
	SamplingRate Value[uint32]
	Noise        Value[float32]
	Gravitation  Value[float32]
	MaxForce     Value[float32]
	MaxForceRate Value[float32]
	HoldBall     Value[bool]
}

func New(p sim.Params, samplingRate uint32) *Panel {
	return &Panel{
		Kp:           NewValue(p.Kp),
		Ki:           NewValue(p.Ki),
		Kd:           NewValue(p.Kd),
		Target:       NewValue(p.Target),
		SamplingRate: NewValue(lo.Clamp(samplingRate, MinSamplingRate, MaxSamplingRate)),
		Noise:        NewValue(p.Noise),
		Gravitation:  NewValue(p.Gravitation),
		MaxForce:     NewValue(p.MaxForce),
		MaxForceRate: NewValue(p.MaxForceRate),
		HoldBall:     NewValue(p.HoldBall),
	}
}

// Clamping setters for values with a restricted domain.

func (p *Panel) SetTarget(v float32) { p.Target.Set(lo.Clamp(v, MinTarget, MaxTarget)) }
func (p *Panel) SetNoise(v float32)  { p.Noise.Set(lo.Clamp(v, MinNoise, MaxNoise)) }
func (p *Panel) SetMaxForce(v float32) {
	p.MaxForce.Set(max(v, 0))
}
func (p *Panel) SetMaxForceRate(v float32) {
	p.MaxForceRate.Set(max(v, 0))
}
func (p *Panel) SetSamplingRate(hz uint32) {
	p.SamplingRate.Set(lo.Clamp(hz, MinSamplingRate, MaxSamplingRate))
}

// SamplingDuration is the simulated time of one step, never below 1ns.
func (p *Panel) SamplingDuration() time.Duration {
	return SamplingDuration(p.SamplingRate.Get())
}

func SamplingDuration(hz uint32) time.Duration {
	return max(time.Second/time.Duration(max(hz, MinSamplingRate)), time.Nanosecond)
}

// ParamMessage is sim.ParamMessage behind the driver bounds: the target is
// clamped like SetTarget, negative noise and force limits are rejected.
// Scripted, swept and tuned values go through here.
func ParamMessage(name string, v float32) (sim.Message, error) {
	switch name {
	case "target":
		v = lo.Clamp(v, MinTarget, MaxTarget)
	case "noise", "max_force", "max_force_rate":
		if v < 0 {
			return nil, fmt.Errorf("%w: %s must be >= 0, got %g", ErrParameterBounds, name, v)
		}
	}
	return sim.ParamMessage(name, v)
}

// Flush sends one message per changed value and returns how many were sent.
// The sampling rate is driver state and never becomes a message.
func (p *Panel) Flush(c Configurer) int {
	sent := 0
	send := func(m sim.Message) {
		c.Config(m)
		sent++
	}

	if v, ok := p.Kp.Changed(); ok {
		send(sim.SetKp(v))
	}
	if v, ok := p.Ki.Changed(); ok {
		send(sim.SetKi(v))
	}
	if v, ok := p.Kd.Changed(); ok {
		send(sim.SetKd(v))
	}
	if v, ok := p.Target.Changed(); ok {
		send(sim.SetTarget(v))
	}
	if v, ok := p.Noise.Changed(); ok {
		send(sim.SetNoise(v))
	}
	if v, ok := p.Gravitation.Changed(); ok {
		send(sim.SetGravitation(v))
	}
	if v, ok := p.MaxForce.Changed(); ok {
		send(sim.SetMaxForce(v))
	}
	if v, ok := p.MaxForceRate.Changed(); ok {
		send(sim.SetMaxForceRate(v))
	}
	if v, ok := p.HoldBall.Changed(); ok {
		send(sim.SetHoldBall(v))
	}
	p.SamplingRate.Changed()
	return sent
}

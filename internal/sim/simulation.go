package sim

import (
	"math/rand/v2"
	"time"

	"github.com/san-kum/pidball/internal/control"
	"github.com/san-kum/pidball/internal/physics"
	"github.com/san-kum/pidball/internal/sensor"
)

// Snapshot is the observable output after a call to Step.
type Snapshot struct {
	Position float32
	Velocity float32
	Force    float32
}

type Option func(*Simulation)

// WithRandSource makes the sensor noise reproducible. The source survives
// Restart.
func WithRandSource(src rand.Source) Option {
	return func(s *Simulation) { s.src = src }
}

// Simulation owns the ball, the inductor, the controller and the sensor. It
// is not safe for concurrent use; all mutation goes through Config and Step.
type Simulation struct {
	pid    *control.PID
	ball   *physics.Ball
	ind    *physics.Inductor
	sensor *sensor.Sensor

	gravitation float32
	holdBall    bool

	defaults Params
	src      rand.Source
}

func New(p Params, opts ...Option) *Simulation {
	s := &Simulation{}
	for _, opt := range opts {
		opt(s)
	}
	s.build(p)
	return s
}

func (s *Simulation) build(p Params) {
	s.defaults = p
	s.pid = control.NewPID(p.Kp, p.Ki, p.Kd, p.Target)
	s.ball = physics.NewBall(p.BallPosition, p.BallVelocity)
	s.ind = physics.NewInductor(p.InductorPosition, p.MaxForce, p.MaxForceRate)
	s.sensor = sensor.New(p.Noise, s.src)
	s.gravitation = p.Gravitation
	s.holdBall = p.HoldBall
}

// Config applies a single message.
func (s *Simulation) Config(msg Message) {
	msg.apply(s)
}

// Step runs the coupling loop steps times with a fixed sampling duration and
// returns the resulting snapshot. Step(0, _) leaves the state untouched.
func (s *Simulation) Step(steps uint32, sampling time.Duration) Snapshot {
	for n := uint32(0); n < steps; n++ {
		if !s.holdBall {
			s.ball.Step(s.ind.Pull(s.ball.Position)+s.gravitation, sampling)
		}

		measured := s.sensor.Measure(s.ball.Position)

		s.pid.Update(measured, sampling)
		s.ind.SetForce(s.pid.Total(), sampling)
	}
	return s.Snapshot()
}

func (s *Simulation) Snapshot() Snapshot {
	return Snapshot{
		Position: s.ball.Position,
		Velocity: s.ball.Velocity,
		Force:    s.ind.Force(),
	}
}

// Reset restores ball, inductor, controller terms and sensor. Gains, target,
// noise, limits and gravitation are kept.
func (s *Simulation) Reset() {
	s.pid.Reset()
	s.ball.Reset()
	s.ind.Reset()
	s.sensor.Reset()
}

// Params reports the current tunables together with the fixed initial
// positions.
func (s *Simulation) Params() Params {
	return Params{
		Kp:               s.pid.Kp,
		Ki:               s.pid.Ki,
		Kd:               s.pid.Kd,
		Target:           s.pid.Target,
		Noise:            s.sensor.Sigma(),
		Gravitation:      s.gravitation,
		MaxForce:         s.ind.MaxForce(),
		MaxForceRate:     s.ind.MaxForceRate(),
		HoldBall:         s.holdBall,
		BallPosition:     s.defaults.BallPosition,
		BallVelocity:     s.defaults.BallVelocity,
		InductorPosition: s.defaults.InductorPosition,
	}
}

// Terms exposes the controller terms for display.
func (s *Simulation) Terms() (p, i, d float32) {
	return s.pid.Terms()
}

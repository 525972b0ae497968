package sim

import (
	"errors"
	"fmt"
)

// Message is one configuration change. The set is closed: every message
// changes exactly one value or triggers Reset/Restart.
type Message interface {
	apply(s *Simulation)
	fmt.Stringer
}

type (
	SetKp           float32
	SetKi           float32
	SetKd           float32
	SetTarget       float32
	SetNoise        float32 // sensor sigma, must be >= 0
	SetGravitation  float32
	SetMaxForce     float32 // must be >= 0
	SetMaxForceRate float32 // must be >= 0
	SetHoldBall     bool

	// Reset returns the state to its initial values and keeps all tuning.
	Reset struct{}
	// Restart rebuilds the Simulation from the Params it was created with.
	Restart struct{}
)

func (m SetKp) apply(s *Simulation)           { s.pid.Kp = float32(m) }
func (m SetKi) apply(s *Simulation)           { s.pid.Ki = float32(m) }
func (m SetKd) apply(s *Simulation)           { s.pid.Kd = float32(m) }
func (m SetTarget) apply(s *Simulation)       { s.pid.Target = float32(m) }
func (m SetNoise) apply(s *Simulation)        { s.sensor.SetSigma(float32(m)) }
func (m SetGravitation) apply(s *Simulation)  { s.gravitation = float32(m) }
func (m SetMaxForce) apply(s *Simulation)     { s.ind.SetMaxForce(float32(m)) }
func (m SetMaxForceRate) apply(s *Simulation) { s.ind.SetMaxForceRate(float32(m)) }
func (m SetHoldBall) apply(s *Simulation)     { s.holdBall = bool(m) }
func (Reset) apply(s *Simulation)             { s.Reset() }
func (Restart) apply(s *Simulation)           { s.build(s.defaults) }

func (m SetKp) String() string           { return fmt.Sprintf("kp=%g", float32(m)) }
func (m SetKi) String() string           { return fmt.Sprintf("ki=%g", float32(m)) }
func (m SetKd) String() string           { return fmt.Sprintf("kd=%g", float32(m)) }
func (m SetTarget) String() string       { return fmt.Sprintf("target=%g", float32(m)) }
func (m SetNoise) String() string        { return fmt.Sprintf("noise=%g", float32(m)) }
func (m SetGravitation) String() string  { return fmt.Sprintf("gravitation=%g", float32(m)) }
func (m SetMaxForce) String() string     { return fmt.Sprintf("max_force=%g", float32(m)) }
func (m SetMaxForceRate) String() string { return fmt.Sprintf("max_force_rate=%g", float32(m)) }
func (m SetHoldBall) String() string     { return fmt.Sprintf("hold_ball=%t", bool(m)) }
func (Reset) String() string             { return "reset" }
func (Restart) String() string           { return "restart" }

var ErrUnknownParam = errors.New("sim: unknown parameter")

// ParamNames lists the names accepted by ParamMessage.
var ParamNames = []string{"kp", "ki", "kd", "target", "noise", "gravitation", "max_force", "max_force_rate"}

// ParamMessage builds the message that sets a tunable by name. Names match
// the prefixes used by the messages' String methods.
func ParamMessage(name string, v float32) (Message, error) {
	switch name {
	case "kp":
		return SetKp(v), nil
	case "ki":
		return SetKi(v), nil
	case "kd":
		return SetKd(v), nil
	case "target":
		return SetTarget(v), nil
	case "noise":
		return SetNoise(v), nil
	case "gravitation":
		return SetGravitation(v), nil
	case "max_force":
		return SetMaxForce(v), nil
	case "max_force_rate":
		return SetMaxForceRate(v), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownParam, name)
}

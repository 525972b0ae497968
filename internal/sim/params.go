package sim

// Compiled-in defaults of the column.
const (
	DefaultKp               = 100.0
	DefaultKi               = 0.5
	DefaultKd               = 20.0
	DefaultTarget           = 0.5
	DefaultNoise            = 0.001
	DefaultGravitation      = -9.81
	DefaultMaxForce         = 50.0
	DefaultMaxForceRate     = 500.0
	DefaultHoldBall         = false
	DefaultBallPosition     = 0.25
	DefaultBallVelocity     = 0.0
	DefaultInductorPosition = 1.0
)

// Params is the full set of values a Simulation is built from. The first
// group is live-tunable through messages; the initial positions are fixed for
// the lifetime of the Simulation.
type Params struct {
	Kp           float32
	Ki           float32
	Kd           float32
	Target       float32
	Noise        float32
	Gravitation  float32
	MaxForce     float32
	MaxForceRate float32
	HoldBall     bool

	BallPosition     float32
	BallVelocity     float32
	InductorPosition float32
}

func DefaultParams() Params {
	return Params{
		Kp:               DefaultKp,
		Ki:               DefaultKi,
		Kd:               DefaultKd,
		Target:           DefaultTarget,
		Noise:            DefaultNoise,
		Gravitation:      DefaultGravitation,
		MaxForce:         DefaultMaxForce,
		MaxForceRate:     DefaultMaxForceRate,
		HoldBall:         DefaultHoldBall,
		BallPosition:     DefaultBallPosition,
		BallVelocity:     DefaultBallVelocity,
		InductorPosition: DefaultInductorPosition,
	}
}

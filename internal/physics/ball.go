package physics

import (
	"time"

	"github.com/san-kum/pidball/internal/integrators"
)

// Ball is a unit-mass point moving along the vertical axis of the column.
type Ball struct {
	Position float32
	Velocity float32

	initPos float32
	initVel float32
}

func NewBall(pos, vel float32) *Ball {
	return &Ball{
		Position: pos,
		Velocity: vel,
		initPos:  pos,
		initVel:  vel,
	}
}

// Step integrates the ball over dt under a constant force. dt must be positive.
func (b *Ball) Step(force float32, dt time.Duration) {
	b.Position, b.Velocity = integrators.KickDriftKick(b.Position, b.Velocity, force, float32(dt.Seconds()))
}

func (b *Ball) Reset() {
	b.Position = b.initPos
	b.Velocity = b.initVel
}

package control

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const dt = 10 * time.Millisecond

func TestPID_ProportionalSign(t *testing.T) {
	ctrl := NewPID(10, 0, 0, 0.5)

	ctrl.Update(0.2, dt)
	assert.Greater(t, ctrl.Total(), float32(0), "ball below target should be pulled up")

	ctrl.Update(0.8, dt)
	p, _, _ := ctrl.Terms()
	assert.Less(t, p, float32(0))
}

func TestPID_FirstUpdateHasNoDerivative(t *testing.T) {
	ctrl := NewPID(0, 0, 5, 0)
	assert.False(t, ctrl.HasDerivative())

	ctrl.Update(0.3, dt)
	_, _, d := ctrl.Terms()
	assert.Equal(t, float32(0), d)
	assert.True(t, ctrl.HasDerivative())

	ctrl.Update(0.4, dt)
	_, _, d = ctrl.Terms()
	// kd * (prev - measured) / dt = 5 * -0.1 / 0.01
	assert.InDelta(t, -50, d, 1e-3)
}

func TestPID_DerivativeOnMeasurement(t *testing.T) {
	ctrl := NewPID(0, 0, 5, 0.3)
	ctrl.Update(0.3, dt)
	ctrl.Update(0.3, dt)

	ctrl.Target = 0.7
	ctrl.Update(0.3, dt)
	_, _, d := ctrl.Terms()
	assert.Equal(t, float32(0), d, "target step must not kick the derivative")
}

func TestPID_AtTarget(t *testing.T) {
	tests := []struct {
		name  string
		ki    float32
		prime float32
	}{
		{"zero ki", 0, 0.1},
		{"nonzero ki", 3, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewPID(7, tt.ki, 4, 0.5)
			ctrl.Update(tt.prime, dt)
			_, before, _ := ctrl.Terms()

			// the first update at target still sees the step from the priming sample
			for i := 0; i < 50; i++ {
				ctrl.Update(0.5, dt)
			}

			p, i, d := ctrl.Terms()
			assert.Equal(t, float32(0), p)
			assert.Equal(t, float32(0), d)
			assert.Equal(t, before, i, "integral must not move when error is zero")
		})
	}
}

func TestPID_IntegralIsUnbounded(t *testing.T) {
	ctrl := NewPID(0, 1, 0, 1)
	for n := 0; n < 10000; n++ {
		ctrl.Update(0, dt)
	}
	_, i, _ := ctrl.Terms()
	assert.InDelta(t, 10000, i, 1e-2)
}

func TestPID_Reset(t *testing.T) {
	ctrl := NewPID(1, 2, 3, 0.4)
	ctrl.Update(0.1, dt)
	ctrl.Update(0.2, dt)
	ctrl.Reset()

	p, i, d := ctrl.Terms()
	assert.Zero(t, p)
	assert.Zero(t, i)
	assert.Zero(t, d)
	assert.False(t, ctrl.HasDerivative())
	assert.Equal(t, float32(1), ctrl.Kp)
	assert.Equal(t, float32(0.4), ctrl.Target)
}

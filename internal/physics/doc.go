// Package physics provides the entities of the levitation column.
//
//   - [Ball]: unit-mass point integrated with a kick-drift-kick step
//   - [Inductor]: fixed electromagnet with slew and amplitude limits
//
// All quantities are float32 in SI units along a single vertical axis,
// positive upwards. The inductor sits above the ball; a positive force
// pulls the ball towards it.
//
// # Example
//
//	ball := physics.NewBall(0.25, 0)
//	ind := physics.NewInductor(1.0, 50, 500)
//	ind.SetForce(20, 10*time.Millisecond)
//	ball.Step(ind.Pull(ball.Position)-9.81, 10*time.Millisecond)
package physics

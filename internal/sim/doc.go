// Package sim couples the levitation column into a fixed-step simulation.
//
// Each step of [Simulation.Step] runs:
//
//  1. unless the ball is held, integrate it under the attenuated inductor
//     pull plus gravitation
//  2. measure the ball position through the noisy sensor
//  3. update the PID controller with the measurement
//  4. command the inductor with the controller output
//
// Live configuration goes through [Message] values passed to
// [Simulation.Config], one value per message, applied in submission order.
//
// # Example
//
//	s := sim.New(sim.DefaultParams())
//	s.Config(sim.SetKp(120))
//	snap := s.Step(steps, 10*time.Millisecond)
//
// # Thread Safety
//
// A Simulation is NOT thread-safe. Drive it from one goroutine; the ensemble
// runner in package experiment builds one Simulation per goroutine.
package sim

// Package control provides the position controller of the levitation column.
//
// [PID] turns the measured ball position into a force command for the
// inductor:
//
//	p = Kp * (target - measured)
//	i += Ki * (target - measured)        // once per update, unbounded
//	d = Kd * (prev - measured) / dt      // only once a previous sample exists
//
// The integral term has no windup guard. [PID.Terms] exposes it so callers
// can observe accumulation under sustained error.
//
// # Usage
//
//	pid := control.NewPID(100, 0.5, 20, 0.5)  // Kp, Ki, Kd, target
//	pid.Update(measured, 10*time.Millisecond)
//	ind.SetForce(pid.Total(), 10*time.Millisecond)
//
// Gains and target are plain fields and take effect on the next [PID.Update].
package control

package integrators

// KickDriftKick advances a point mass under constant acceleration by one
// leapfrog step: half kick, full drift at the kicked velocity, half kick.
func KickDriftKick(pos, vel, accel, dt float32) (float32, float32) {
	kick := 0.5 * dt * accel
	vel += kick
	pos += vel * dt
	vel += kick
	return pos, vel
}

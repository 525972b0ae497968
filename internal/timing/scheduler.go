// Package timing converts elapsed wall-clock time into whole simulation steps.
package timing

import (
	"math"
	"time"

	"k8s.io/utils/clock"
)

// Scheduler is a fixed-timestep accumulator. Simulated time only advances in
// whole sampling durations and never runs ahead of the clock; the remainder
// carried to the next call is always shorter than one sampling duration.
type Scheduler struct {
	clk       clock.PassiveClock
	start     time.Time
	simulated time.Duration
}

func NewScheduler(clk clock.PassiveClock) *Scheduler {
	return &Scheduler{clk: clk, start: clk.Now()}
}

// StepCount returns the number of steps owed since the last call and books
// them as simulated. sampling may differ between calls and must be positive.
// At most math.MaxUint32 steps are returned per call; the rest stay owed.
func (s *Scheduler) StepCount(sampling time.Duration) uint32 {
	drift := s.clk.Since(s.start) - s.simulated
	if drift < sampling {
		return 0
	}
	n := min(drift/sampling, math.MaxUint32)
	s.simulated += n * sampling
	return uint32(n)
}

// Restart takes the current instant as the new origin and zeroes the
// simulated time.
func (s *Scheduler) Restart() {
	s.start = s.clk.Now()
	s.simulated = 0
}

func (s *Scheduler) Elapsed() time.Duration {
	return s.clk.Since(s.start)
}

func (s *Scheduler) Simulated() time.Duration {
	return s.simulated
}

// ManualClock is a clock.PassiveClock that only moves when told to. Offline
// runs drive the scheduler with it.
type ManualClock struct {
	now time.Time
}

var _ clock.PassiveClock = (*ManualClock)(nil)

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time                  { return c.now }
func (c *ManualClock) Since(t time.Time) time.Duration { return c.now.Sub(t) }
func (c *ManualClock) Advance(d time.Duration)         { c.now = c.now.Add(d) }

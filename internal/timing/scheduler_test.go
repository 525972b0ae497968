package timing

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	testingclock "k8s.io/utils/clock/testing"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestStepCount(t *testing.T) {
	clk := testingclock.NewFakePassiveClock(epoch)
	s := NewScheduler(clk)
	sampling := 10 * time.Millisecond

	assert.Equal(t, uint32(0), s.StepCount(sampling), "no time elapsed")

	clk.SetTime(epoch.Add(35 * time.Millisecond))
	assert.Equal(t, uint32(3), s.StepCount(sampling))
	assert.Equal(t, 30*time.Millisecond, s.Simulated())

	clk.SetTime(epoch.Add(39 * time.Millisecond))
	assert.Equal(t, uint32(0), s.StepCount(sampling), "remainder below one step")

	clk.SetTime(epoch.Add(41 * time.Millisecond))
	assert.Equal(t, uint32(1), s.StepCount(sampling), "remainder carried over")
}

func TestStepCount_BoundedDrift(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))
	clk := testingclock.NewFakeClock(epoch)
	s := NewScheduler(clk)

	samplings := []time.Duration{
		time.Second,
		10 * time.Millisecond,
		time.Second / 3,
		time.Millisecond,
		7 * time.Millisecond,
	}

	var total time.Duration
	for i := 0; i < 5000; i++ {
		// drivers tick both faster and slower than the sampling rate
		clk.Step(time.Duration(rng.Int64N(int64(50 * time.Millisecond))))
		sampling := samplings[(i/500)%len(samplings)]

		n := s.StepCount(sampling)
		total += time.Duration(n) * sampling

		elapsed := clk.Since(epoch)
		assert.LessOrEqual(t, total, elapsed, "simulated time ran ahead of the clock")
		assert.Less(t, elapsed-total, sampling, "undershoot must stay below one sampling duration")
	}
	assert.Equal(t, total, s.Simulated())
}

func TestStepCount_SamplingChange(t *testing.T) {
	clk := testingclock.NewFakePassiveClock(epoch)
	s := NewScheduler(clk)

	clk.SetTime(epoch.Add(25 * time.Millisecond))
	assert.Equal(t, uint32(2), s.StepCount(10*time.Millisecond))

	// 5ms owed at a coarser rate is not a whole step yet
	assert.Equal(t, uint32(0), s.StepCount(20*time.Millisecond))

	// and a finer rate picks it up
	assert.Equal(t, uint32(5), s.StepCount(time.Millisecond))
}

func TestStepCount_CapsOwedSteps(t *testing.T) {
	clk := NewManualClock(epoch)
	s := NewScheduler(clk)
	clk.Advance(5 * time.Second)

	first := s.StepCount(time.Nanosecond)
	assert.Equal(t, uint32(math.MaxUint32), first)
	assert.Equal(t, time.Duration(first), s.Simulated(), "only returned steps are booked")

	second := s.StepCount(time.Nanosecond)
	assert.Equal(t, uint32(5*time.Second-math.MaxUint32), second)
	assert.Equal(t, 5*time.Second, time.Duration(first)+time.Duration(second))
	assert.Equal(t, uint32(0), s.StepCount(time.Nanosecond))
}

func TestRestart(t *testing.T) {
	clk := testingclock.NewFakePassiveClock(epoch)
	s := NewScheduler(clk)

	clk.SetTime(epoch.Add(time.Second))
	s.StepCount(10 * time.Millisecond)
	s.Restart()

	assert.Zero(t, s.Simulated())
	assert.Zero(t, s.Elapsed())
	assert.Equal(t, uint32(0), s.StepCount(10*time.Millisecond))

	clk.SetTime(epoch.Add(time.Second + 20*time.Millisecond))
	assert.Equal(t, uint32(2), s.StepCount(10*time.Millisecond))
}

func TestManualClock(t *testing.T) {
	clk := NewManualClock(epoch)
	s := NewScheduler(clk)

	for i := 0; i < 60; i++ {
		clk.Advance(time.Second / 60)
		s.StepCount(10 * time.Millisecond)
	}

	assert.Equal(t, 60*(time.Second/60), clk.Since(epoch))
	assert.Equal(t, 99, int(s.Simulated()/(10*time.Millisecond)))
}

package analysis

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/pidball/internal/config"
	"github.com/san-kum/pidball/internal/metrics"
	"github.com/san-kum/pidball/internal/panel"
	"github.com/san-kum/pidball/internal/sim"
	"github.com/san-kum/pidball/internal/timing"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDt = 0.01

func synth(n int, pos func(t float64) float64) []metrics.Sample {
	out := make([]metrics.Sample, n)
	for i := range out {
		t := float64(i) * sampleDt
		out[i] = metrics.Sample{
			Time:     t,
			Target:   0.5,
			Snapshot: sim.Snapshot{Position: float32(pos(t))},
		}
	}
	return out
}

func TestStepResponse_FirstOrder(t *testing.T) {
	tau := 0.5
	samples := synth(1000, func(t float64) float64 {
		return 0.25 + 0.25*(1-math.Exp(-t/tau))
	})

	r, err := StepResponse(samples)
	require.NoError(t, err)

	assert.InDelta(t, tau*math.Log(9), r.RiseTime, 0.02)
	assert.Zero(t, r.Overshoot)
	assert.True(t, r.Settled)
	assert.InDelta(t, tau*math.Log(50), r.SettlingTime, 0.02)
	assert.InDelta(t, 0, r.SteadyStateError, 1e-4)
	assert.InDelta(t, 0, r.Noise, 1e-4)
}

func TestStepResponse_Underdamped(t *testing.T) {
	samples := synth(1000, func(t float64) float64 {
		return 0.5 - 0.25*math.Exp(-0.2*t)*math.Cos(2*math.Pi*2*t)
	})

	r, err := StepResponse(samples)
	require.NoError(t, err)

	assert.InDelta(t, 0.25*math.Exp(-0.05)/0.25, r.Overshoot, 0.01)
	assert.False(t, r.Settled, "still ringing outside the band")
	assert.True(t, math.IsNaN(r.SettlingTime))
	assert.InDelta(t, 2.0, r.DominantFreq, 0.1)
}

func TestStepResponse_NeverRises(t *testing.T) {
	samples := synth(100, func(float64) float64 { return 0.2 })

	r, err := StepResponse(samples)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(r.RiseTime))
	assert.False(t, r.Settled)
	assert.InDelta(t, 0.3, r.SteadyStateError, 1e-6)
}

func TestStepResponse_Errors(t *testing.T) {
	_, err := StepResponse(synth(5, func(float64) float64 { return 0 }))
	assert.ErrorIs(t, err, ErrTooFewSamples)

	_, err = StepResponse(synth(50, func(float64) float64 { return 0.5 }))
	assert.ErrorIs(t, err, ErrNoStep)
}

func TestPowerSpectrum(t *testing.T) {
	n := 64
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 4 * float64(i) / float64(n))
	}

	ps := PowerSpectrum(data)
	require.Len(t, ps, n/2+1)

	peak := 0
	for i := range ps {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	assert.Equal(t, 4, peak)
	assert.Nil(t, PowerSpectrum(nil))
}

func TestDominantFrequency_Flat(t *testing.T) {
	samples := synth(100, func(float64) float64 { return 0.5 })
	assert.Zero(t, DominantFrequency(samples))
	assert.Zero(t, DominantFrequency(samples[:2]))
}

func TestDominantFrequency_SchedulerTimes(t *testing.T) {
	// 60 fps over 100 Hz steps: frames are 10ms or 20ms apart
	clk := timing.NewManualClock(time.Unix(0, 0))
	sched := timing.NewScheduler(clk)
	sampling := time.Second / config.DefaultSamplingRate

	samples := make([]metrics.Sample, 600)
	for i := range samples {
		clk.Advance(time.Second / 60)
		sched.StepCount(sampling)
		now := sched.Simulated().Seconds()
		samples[i] = metrics.Sample{
			Time:     now,
			Target:   0.5,
			Snapshot: sim.Snapshot{Position: float32(0.5 + 0.1*math.Sin(2*math.Pi*2*now))},
		}
	}
	require.InDelta(t, 0.02, samples[1].Time-samples[0].Time, 1e-9)

	assert.InDelta(t, 2.0, DominantFrequency(samples), 0.05)
}

func TestPhasePortrait(t *testing.T) {
	samples := synth(200, func(t float64) float64 { return 0.5 + 0.1*math.Sin(t) })
	for i := range samples {
		samples[i].Velocity = float32(0.1 * math.Cos(samples[i].Time))
	}

	p := NewPhasePortrait(samples)
	require.Len(t, p.Points, 200)

	out := PhasePortraitToASCII(p, 0.5, 40, 12)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Len(t, lines, 12)
	assert.Contains(t, out, "•")
	assert.Contains(t, out, "│")

	assert.Empty(t, PhasePortraitToASCII(nil, 0.5, 40, 12))
}

func TestSweep(t *testing.T) {
	log, _ := test.NewNullLogger()
	base := config.DefaultConfig()
	base.FrameRate = 50
	base.Params.Noise = 0

	points, err := Sweep(context.Background(), *base, SweepConfig{
		Param:     "kd",
		Min:       0,
		Max:       20,
		Steps:     3,
		Transient: 10,
		Record:    2,
	}, log)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, []float64{0, 10, 20}, []float64{points[0].Param, points[1].Param, points[2].Param})
	assert.Less(t, len(points[2].Values), len(points[0].Values), "damping settles the loop")
	assert.NotEmpty(t, SweepToASCII(points, 30, 10))

	_, err = Sweep(context.Background(), *base, SweepConfig{Param: "mass", Steps: 2, Record: 1}, log)
	assert.ErrorIs(t, err, sim.ErrUnknownParam)

	_, err = Sweep(context.Background(), *base, SweepConfig{Param: "noise", Min: -1, Max: 0, Steps: 2, Record: 1}, log)
	assert.ErrorIs(t, err, panel.ErrParameterBounds)
}

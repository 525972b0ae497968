package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/pidball/internal/metrics"
	"gonum.org/v1/gonum/stat"
)

const (
	riseLow      = 0.1
	riseHigh     = 0.9
	settleBand   = 0.02
	tailFraction = 0.1
)

var (
	ErrTooFewSamples = errors.New("analysis: not enough samples")
	ErrNoStep        = errors.New("analysis: run starts at its target")
)

// Response summarises how a run approached its final target. Times are in
// simulated seconds; undefined times are NaN.
type Response struct {
	Start  float64
	Target float64

	RiseTime     float64
	Overshoot    float64 // fraction of the step size
	SettlingTime float64
	Settled      bool

	SteadyStateError float64 // mean of the final tenth
	Noise            float64 // position stddev of the final tenth
	DominantFreq     float64 // Hz
}

// StepResponse measures the response to the step from the first sample's
// position to the last sample's target.
func StepResponse(samples []metrics.Sample) (*Response, error) {
	if len(samples) < 10 {
		return nil, ErrTooFewSamples
	}

	start := float64(samples[0].Position)
	target := float64(samples[len(samples)-1].Target)
	step := target - start
	if step == 0 {
		return nil, ErrNoStep
	}

	r := &Response{
		Start:        start,
		Target:       target,
		RiseTime:     math.NaN(),
		SettlingTime: math.NaN(),
	}

	low, high := math.NaN(), math.NaN()
	peak := 0.0
	for _, s := range samples {
		progress := (float64(s.Position) - start) / step
		if math.IsNaN(low) && progress >= riseLow {
			low = s.Time
		}
		if math.IsNaN(high) && progress >= riseHigh {
			high = s.Time
		}
		peak = math.Max(peak, progress)
	}
	if !math.IsNaN(low) && !math.IsNaN(high) {
		r.RiseTime = high - low
	}
	r.Overshoot = math.Max(0, peak-1)

	band := settleBand * math.Abs(step)
	for i := len(samples) - 1; i >= 0; i-- {
		if math.Abs(target-float64(samples[i].Position)) > band {
			if i < len(samples)-1 {
				r.SettlingTime = samples[i+1].Time
				r.Settled = true
			}
			break
		}
		if i == 0 {
			r.SettlingTime = samples[0].Time
			r.Settled = true
		}
	}

	tail := samples[len(samples)-max(1, int(float64(len(samples))*tailFraction)):]
	errs := make([]float64, len(tail))
	pos := make([]float64, len(tail))
	for i, s := range tail {
		errs[i] = s.Error()
		pos[i] = float64(s.Position)
	}
	r.SteadyStateError = stat.Mean(errs, nil)
	if len(pos) > 1 {
		r.Noise = stat.StdDev(pos, nil)
	}

	r.DominantFreq = DominantFrequency(samples)
	return r, nil
}

package analysis

import (
	"math/cmplx"

	"github.com/san-kum/pidball/internal/metrics"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns the magnitude of the real FFT of data, one value per
// frequency bin from DC to Nyquist.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	fft := fourier.NewFFT(len(data))
	coeff := fft.Coefficients(nil, data)

	ps := make([]float64, len(coeff))
	for i, c := range coeff {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// component of the tracking error. Frame times land on whole sampling
// durations, so their spacing jitters; the mean spacing is used.
func DominantFrequency(samples []metrics.Sample) float64 {
	if len(samples) < 4 {
		return 0
	}
	n := len(samples)
	dt := (samples[n-1].Time - samples[0].Time) / float64(n-1)
	if dt <= 0 {
		return 0
	}

	data := make([]float64, n)
	for i, s := range samples {
		data[i] = s.Error()
	}
	mean := stat.Mean(data, nil)
	for i := range data {
		data[i] -= mean
	}

	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, data)

	best, bestMag := 0, 0.0
	for i := 1; i < len(coeff); i++ {
		if m := cmplx.Abs(coeff[i]); m > bestMag {
			best, bestMag = i, m
		}
	}
	if best == 0 {
		return 0
	}
	return fft.Freq(best) / dt
}

package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/wcsim/internal/dynamo"
)

// SamplesPerSecondScale converts 1/dt to Hz when dt is in milliseconds.
const SamplesPerSecondScale = 1000.0

// SpectrumResult is the DFT of a de-meaned series. Freqs and Transform are
// parallel and in FFT order: non-negative bins first, then negative ones.
type SpectrumResult struct {
	Freqs         []float64
	Transform     []complex128
	PeakIndex     int
	PeakFreq      float64
	PeakMagnitude float64
}

type spectrumOptions struct {
	skipDC bool
}

type SpectrumOption func(*spectrumOptions)

// WithoutDC leaves bin 0 out of the peak search.
func WithoutDC() SpectrumOption {
	return func(o *spectrumOptions) { o.skipDC = true }
}

// Spectrum de-means signal, transforms it and reports the bin of largest
// magnitude. The sampling frequency is 1000/dt, so dt in ms yields Hz.
// Bin 0 takes part in the peak search unless WithoutDC is given.
func Spectrum(signal []float64, dt float64, opts ...SpectrumOption) (*SpectrumResult, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("%w: spectrum of zero-length series", dynamo.ErrEmptySignal)
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, dynamo.InvalidParameter("dt", dt)
	}

	var o spectrumOptions
	for _, opt := range opts {
		opt(&o)
	}

	fs := SamplesPerSecondScale / dt
	res := &SpectrumResult{
		Freqs:     FFTFreq(len(signal), 1/fs),
		Transform: hermitian(fft.FFTReal(Demean(signal))),
	}

	start := 0
	if o.skipDC && len(signal) > 1 {
		start = 1
	}
	res.PeakIndex = argmaxAbs(res.Transform, start)
	res.PeakFreq = res.Freqs[res.PeakIndex]
	res.PeakMagnitude = cmplx.Abs(res.Transform[res.PeakIndex])

	return res, nil
}

// hermitian mirrors the non-negative half onto the negative one. The DFT of
// a real series is conjugate-symmetric; enforcing it exactly keeps rounding
// from deciding which bin of a ±f pair holds the peak.
func hermitian(x []complex128) []complex128 {
	n := len(x)
	for k := 1; k <= (n-1)/2; k++ {
		x[n-k] = cmplx.Conj(x[k])
	}
	return x
}

// argmaxAbs returns the first index of largest magnitude at or after start.
// A NaN magnitude wins immediately, so a non-finite series is not reported
// as a clean peak.
func argmaxAbs(xs []complex128, start int) int {
	best, bestMag := start, math.Inf(-1)
	for i := start; i < len(xs); i++ {
		mag := cmplx.Abs(xs[i])
		if math.IsNaN(mag) {
			return i
		}
		if mag > bestMag {
			best, bestMag = i, mag
		}
	}
	return best
}

// Demean subtracts the mean of the non-NaN samples. NaN samples are left in
// place and do not contribute to the mean.
func Demean(signal []float64) []float64 {
	sum, n := 0.0, 0
	for _, v := range signal {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	mean := math.NaN()
	if n > 0 {
		mean = sum / float64(n)
	}

	out := make([]float64, len(signal))
	for i, v := range signal {
		if math.IsNaN(v) {
			out[i] = v
			continue
		}
		out[i] = v - mean
	}
	return out
}

// FFTFreq returns the sample frequencies of an n-point DFT with sample
// spacing d: [0, 1, ..., (n-1)/2, -n/2, ..., -1] / (n*d).
func FFTFreq(n int, d float64) []float64 {
	freqs := make([]float64, n)
	if n == 0 {
		return freqs
	}
	val := 1.0 / (float64(n) * d)
	pos := (n-1)/2 + 1
	for i := 0; i < pos; i++ {
		freqs[i] = float64(i) * val
	}
	for i := pos; i < n; i++ {
		freqs[i] = float64(i-n) * val
	}
	return freqs
}

// Magnitudes returns |X[k]| for the non-negative frequency half of a transform.
func Magnitudes(transform []complex128) []float64 {
	half := (len(transform)-1)/2 + 1
	if len(transform) == 0 {
		half = 0
	}
	ms := make([]float64, half)
	for i := range ms {
		ms[i] = cmplx.Abs(transform[i])
	}
	return ms
}

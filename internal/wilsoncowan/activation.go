package wilsoncowan

import "math"

// Activation is the rectifier max(x, 0): x if x > 0, else 0.
//
// NaN is the one input that is neither positive nor mapped to zero. It is
// returned unchanged, as an elementwise maximum would, so a diverged state
// stays visible downstream instead of reading as a silent population.
func Activation(x float64) float64 {
	if x > 0 || math.IsNaN(x) {
		return x
	}
	return 0
}

// Activate applies Activation elementwise from src into dst. dst and src may
// be the same slice.
func Activate(dst, src []float64) {
	if len(dst) != len(src) {
		panic("wilsoncowan: slice length mismatch")
	}
	for i, v := range src {
		dst[i] = Activation(v)
	}
}

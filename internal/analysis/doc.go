// Package analysis provides frequency-domain and dynamics analysis tools for
// recorded population trajectories.
//
//   - [Spectrum]: DFT of a de-meaned series with its dominant frequency
//   - [FFTFreq]: DFT bin frequencies in FFT order
//   - [PhasePortrait]: E–I phase-plane curve of a trajectory
//   - [GeneratePoincareSection]: threshold crossings, and the oscillation period
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//   - [DistinctValues]: late-time values used for bifurcation diagrams
//
// # Oscillation Detection
//
// A limit cycle shows up as a sharp spectral peak away from bin 0:
//
//	res, _ := analysis.Spectrum(tr.Population(0), dt, analysis.WithoutDC())
//	fmt.Printf("%.1f Hz (|X|=%.3g)\n", res.PeakFreq, res.PeakMagnitude)
package analysis

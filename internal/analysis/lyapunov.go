package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/wcsim/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent using the
// trajectory separation method. Negative values mean a stable fixed point,
// values near zero a limit cycle, positive values sensitive dependence.
//
// Algorithm:
// 1. Run two nearby trajectories
// 2. Measure their divergence each step
// 3. λ ≈ mean over steps of ln(|δx(t)|/|δx(0)|) / dt, renormalizing δx each step
func LyapunovExponent(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) float64 {
	cfg := dynamo.Config{Dt: dt, Duration: duration}
	if len(x0) == 0 || !(perturbation > 0) || dynamo.ValidateConfig(cfg) != nil {
		return 0
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp[0] += perturbation

	steps := cfg.Steps()
	sumLog := 0.0
	count := 0

	for i := 0; i < steps; i++ {
		t := float64(i) * dt
		x = integ.Step(dyn, x, t, dt)
		xp = integ.Step(dyn, xp, t, dt)

		sep := floats.Distance(xp, x, 2)

		if !(sep > 0) || math.IsInf(sep, 0) {
			break
		}
		sumLog += math.Log(sep / perturbation)
		count++

		// Renormalize so the separation stays in the linear regime.
		scale := perturbation / sep
		for j := range xp {
			xp[j] = x[j] + (xp[j]-x[j])*scale
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}

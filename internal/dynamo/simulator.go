package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Simulator runs a System on a fixed time grid T[k] = k*Dt, k < ceil(Duration/Dt).
type Simulator struct {
	dyn        System
	integrator Integrator
	metrics    []Metric
}

func New(dyn System, integrator Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]Metric, 0),
	}
}

func (s *Simulator) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

// Run integrates from x0 and returns the full trajectory. The loop is
// synchronous and bounded by cfg; it does not yield or observe a context.
func (s *Simulator) Run(x0 State, cfg Config) (*Result, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	n := s.dyn.StateDim()
	if n == 0 || len(x0) != n {
		return nil, DimensionMismatch("initial state", n, len(x0))
	}

	steps := cfg.Steps()
	result := &Result{
		States:  mat.NewDense(n, steps, nil),
		Times:   make([]float64, steps),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}
	for k := range result.Times {
		result.Times[k] = float64(k) * cfg.Dt
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	result.States.SetCol(0, x)
	s.observe(x, 0)

	for i := 0; i+1 < steps; i++ {
		t := result.Times[i]
		next := s.integrator.Step(s.dyn, x, t, cfg.Dt)

		if cfg.ValidateState && !next.IsValid() {
			result.Errors = append(result.Errors, SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"})
			result.States = result.States.Slice(0, n, 0, i+1).(*mat.Dense)
			result.Times = result.Times[:i+1]
			break
		}

		x = next
		result.StepsTaken++
		result.States.SetCol(i+1, x)
		s.observe(x, result.Times[i+1])
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) observe(x State, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
}

// ValidateConfig rejects non-positive or non-finite steps and horizons, and
// grids longer than MaxSteps.
func ValidateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return InvalidParameter("dt", cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return InvalidParameter("duration", cfg.Duration)
	}
	if m := math.Ceil(cfg.Duration / cfg.Dt); m > MaxSteps {
		return fmt.Errorf("%w: duration/dt needs %g steps, limit is %d", ErrInvalidParameter, m, MaxSteps)
	}
	return nil
}

package dynamo

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// State holds one activity value per population.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// MaxAbs returns the largest absolute component, NaN if any component is NaN.
func (s State) MaxAbs() float64 {
	m := 0.0
	for _, v := range s {
		if math.IsNaN(v) {
			return v
		}
		m = math.Max(m, math.Abs(v))
	}
	return m
}

// System is an autonomous-or-not ODE dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Integrator advances a System by one step of size dt.
type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}

// Metric observes every recorded sample of a run.
type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Config struct {
	Dt       float64
	Duration float64

	// ValidateState stops the run at the first non-finite state. Divergence
	// is meaningful output for population models, so it is off by default.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:       0.1,
		Duration: 200.0,
	}
}

// MaxSteps bounds the grid length of a single run.
const MaxSteps = math.MaxInt32

// Steps returns the grid length M = ceil(Duration/Dt), never less than one
// and never more than MaxSteps. ValidateConfig rejects configs that would
// exceed the bound, so for a validated config Steps is exact.
func (c Config) Steps() int {
	m := math.Ceil(c.Duration / c.Dt)
	switch {
	case !(m >= 1):
		return 1
	case m > MaxSteps:
		return MaxSteps
	}
	return int(m)
}

// Result is the recorded trajectory of one run. States is N×M: row i is the
// time series of component i, column k the state at Times[k].
type Result struct {
	States     *mat.Dense
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Series returns a copy of the time series of component i.
func (r *Result) Series(i int) []float64 {
	return mat.Row(nil, i, r.States)
}

package integrators

import (
	"github.com/san-kum/wcsim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// Euler is the explicit fixed-step method x' = x + dt*f(x, t). The derivative
// is evaluated once, at the start of the step, so every component is updated
// from the same state.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, t float64, dt float64) dynamo.State {
	dx := dyn.Derive(x, t)
	result := make(dynamo.State, len(x))
	floats.AddScaledTo(result, x, dt, dx)
	return result
}

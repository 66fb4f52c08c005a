package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/wcsim/internal/dynamo"
)

type oscillator struct{}

func (o *oscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (o *oscillator) StateDim() int { return 2 }

func TestEulerStep(t *testing.T) {
	integ := NewEuler()
	x := dynamo.State{1.0, 0.5}

	next := integ.Step(&oscillator{}, x, 0, 0.1)
	if math.Abs(next[0]-1.05) > 1e-15 || math.Abs(next[1]-0.4) > 1e-15 {
		t.Errorf("unexpected step result %v", next)
	}
	if x[0] != 1.0 || x[1] != 0.5 {
		t.Error("Step modified its input state")
	}
}

func TestEulerFirstOrderConvergence(t *testing.T) {
	integ := NewEuler()
	errAt := func(dt float64) float64 {
		x := dynamo.State{1.0, 0.0}
		steps := int(math.Round(1.0 / dt))
		for i := 0; i < steps; i++ {
			x = integ.Step(&oscillator{}, x, float64(i)*dt, dt)
		}
		return math.Abs(x[0] - math.Cos(1.0))
	}

	coarse, fine := errAt(0.01), errAt(0.005)
	ratio := coarse / fine
	if ratio < 1.8 || ratio > 2.2 {
		t.Errorf("halving dt should halve the error, ratio %.3f", ratio)
	}
}

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	dyn := &oscillator{}
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, 0, 0.01)
	}
}

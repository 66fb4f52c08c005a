package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/wcsim/internal/dynamo"
	"github.com/san-kum/wcsim/internal/integrators"
	"github.com/san-kum/wcsim/internal/wilsoncowan"
	"gonum.org/v1/gonum/mat"
)

func TestLyapunovExponent_RelaxingPopulation(t *testing.T) {
	net, err := wilsoncowan.NewNetwork(mat.NewDense(1, 1, nil), []float64{1}, []float64{10})
	if err != nil {
		t.Fatal(err)
	}

	dt := 0.1
	got := LyapunovExponent(net, integrators.NewEuler(), dynamo.State{0.5}, dt, 50, 1e-6)
	want := math.Log(1-dt/10) / dt

	if math.Abs(got-want) > 1e-3 {
		t.Errorf("expected exponent %.5f, got %.5f", want, got)
	}
}

func TestLyapunovExponent_Degenerate(t *testing.T) {
	net, _ := wilsoncowan.NewNetwork(mat.NewDense(1, 1, nil), []float64{1}, []float64{10})
	if LyapunovExponent(net, integrators.NewEuler(), dynamo.State{}, 0.1, 10, 1e-6) != 0 {
		t.Error("expected 0 for empty state")
	}
	if LyapunovExponent(net, integrators.NewEuler(), dynamo.State{0}, 0.1, 10, 0) != 0 {
		t.Error("expected 0 for zero perturbation")
	}
}

func TestLyapunovExponent_MultiPopulation(t *testing.T) {
	// Two decoupled relaxing populations share the slower rate.
	net, err := wilsoncowan.NewNetwork(mat.NewDense(2, 2, nil), []float64{1, 1}, []float64{10, 10})
	if err != nil {
		t.Fatal(err)
	}

	dt := 0.1
	got := LyapunovExponent(net, integrators.NewEuler(), dynamo.State{0.5, 0.2}, dt, 50, 1e-6)
	want := math.Log(1-dt/10) / dt

	if math.Abs(got-want) > 1e-3 {
		t.Errorf("expected exponent %.5f, got %.5f", want, got)
	}
}

func TestLyapunovExponent_RejectsOversizedGrid(t *testing.T) {
	net, _ := wilsoncowan.NewNetwork(mat.NewDense(1, 1, nil), []float64{1}, []float64{10})
	if LyapunovExponent(net, integrators.NewEuler(), dynamo.State{0.5}, 1e-300, 1, 1e-6) != 0 {
		t.Error("expected 0 when duration/dt exceeds the step limit")
	}
}

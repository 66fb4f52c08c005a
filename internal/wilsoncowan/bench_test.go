package wilsoncowan

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func BenchmarkSolveTwoPopulation(b *testing.B) {
	p := TwoPopulationParams{
		IE: 1, II: 1,
		WEE: 0.5, WEI: -0.5, WIE: 0.5, WII: -0.5,
		TauE: 10, TauI: 10,
		Dt: 0.1, TEnd: 200,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, _, err := SolveTwoPopulation(p); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSolve_N64(b *testing.B) {
	const n = 64
	w := mat.NewDense(n, n, nil)
	drive := make([]float64, n)
	tau := make([]float64, n)
	for i := 0; i < n; i++ {
		drive[i] = 1
		tau[i] = 10
		for j := 0; j < n; j++ {
			w.Set(i, j, 0.5/float64(n))
		}
	}
	p := Params{Drive: drive, Weights: w, Tau: tau, Dt: 0.1, TEnd: 100}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Solve(p); err != nil {
			b.Fatal(err)
		}
	}
}

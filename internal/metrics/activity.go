package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/wcsim/internal/dynamo"
)

// Peak is the largest |r| over all populations and samples. NaN once any
// sample is NaN.
type Peak struct {
	max float64
}

func NewPeak() *Peak { return &Peak{} }

func (p *Peak) Name() string { return "peak" }

func (p *Peak) Observe(x dynamo.State, t float64) {
	if m := x.MaxAbs(); m > p.max || math.IsNaN(m) {
		p.max = m
	}
}

func (p *Peak) Value() float64 { return p.max }
func (p *Peak) Reset()         { p.max = 0 }

// Final holds the activity of one population at the last observed sample,
// i.e. its steady-state value when the run has converged.
type Final struct {
	name  string
	index int
	last  float64
}

func NewFinal(index int) *Final {
	return &Final{name: fmt.Sprintf("final_r%d", index), index: index}
}

func (f *Final) Name() string { return f.name }

func (f *Final) Observe(x dynamo.State, t float64) {
	if f.index < len(x) {
		f.last = x[f.index]
	}
}

func (f *Final) Value() float64 { return f.last }
func (f *Final) Reset()         { f.last = 0 }

// MeanActivity is the time-average of one population.
type MeanActivity struct {
	name    string
	index   int
	sum     float64
	samples int
}

func NewMeanActivity(index int) *MeanActivity {
	return &MeanActivity{name: fmt.Sprintf("mean_r%d", index), index: index}
}

func (m *MeanActivity) Name() string { return m.name }

func (m *MeanActivity) Observe(x dynamo.State, t float64) {
	if m.index < len(x) {
		m.sum += x[m.index]
	}
	m.samples++
}

func (m *MeanActivity) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanActivity) Reset() {
	m.sum = 0
	m.samples = 0
}

// Default returns the metrics recorded for every stored run of n populations.
func Default(n int, threshold float64) []dynamo.Metric {
	ms := []dynamo.Metric{NewStability(threshold), NewPeak()}
	for i := 0; i < n; i++ {
		ms = append(ms, NewFinal(i), NewMeanActivity(i))
	}
	return ms
}

package wilsoncowan

import (
	"fmt"
	"sort"

	"github.com/san-kum/wcsim/internal/dynamo"
	"github.com/san-kum/wcsim/internal/integrators"
	"gonum.org/v1/gonum/mat"
)

// Params describes an N-population run. Weights must be N×N; Drive and Tau
// have length N.
type Params struct {
	Drive   []float64
	Weights mat.Matrix
	Tau     []float64
	Dt      float64
	TEnd    float64
}

// Trajectory is the recorded output of a run. Rates is N×M: row i is the
// activity of population i at each time in T.
type Trajectory struct {
	T       []float64
	Rates   *mat.Dense
	Metrics map[string]float64
}

// Populations returns N.
func (tr *Trajectory) Populations() int {
	r, _ := tr.Rates.Dims()
	return r
}

// Population returns a copy of the activity series of population i.
func (tr *Trajectory) Population(i int) []float64 {
	return mat.Row(nil, i, tr.Rates)
}

// Final returns the activity of population i at the last time point.
func (tr *Trajectory) Final(i int) float64 {
	return tr.Rates.At(i, len(tr.T)-1)
}

// Solve integrates the network from r(0) = 0 over T = [0, dt, 2dt, ...) with
// len(T) = ceil(TEnd/dt). Metrics, if any, observe every recorded sample.
func Solve(p Params, metrics ...dynamo.Metric) (*Trajectory, error) {
	net, err := NewNetwork(p.Weights, p.Drive, p.Tau)
	if err != nil {
		return nil, err
	}

	cfg := dynamo.Config{Dt: p.Dt, Duration: p.TEnd}
	s := dynamo.New(net, integrators.NewEuler())
	for _, m := range metrics {
		s.AddMetric(m)
	}

	res, err := s.Run(make(dynamo.State, net.StateDim()), cfg)
	if err != nil {
		return nil, err
	}

	return &Trajectory{T: res.Times, Rates: res.States, Metrics: res.Metrics}, nil
}

// TwoPopulationParams are the scalar parameters of one excitatory (E) and
// one inhibitory (I) population.
type TwoPopulationParams struct {
	IE   float64 `yaml:"i_e"`
	II   float64 `yaml:"i_i"`
	WEE  float64 `yaml:"w_ee"`
	WEI  float64 `yaml:"w_ei"`
	WIE  float64 `yaml:"w_ie"`
	WII  float64 `yaml:"w_ii"`
	TauE float64 `yaml:"tau_e"`
	TauI float64 `yaml:"tau_i"`
	Dt   float64 `yaml:"dt"`
	TEnd float64 `yaml:"t_end"`
}

// Network returns the equivalent N=2 parameters: W = [[WEE, WEI], [WIE, WII]].
func (p TwoPopulationParams) Network() Params {
	return Params{
		Drive:   []float64{p.IE, p.II},
		Weights: mat.NewDense(2, 2, []float64{p.WEE, p.WEI, p.WIE, p.WII}),
		Tau:     []float64{p.TauE, p.TauI},
		Dt:      p.Dt,
		TEnd:    p.TEnd,
	}
}

// SolveTwoPopulation runs the E/I pair and returns r_E, r_I and T.
func SolveTwoPopulation(p TwoPopulationParams) (rE, rI, T []float64, err error) {
	tr, err := Solve(p.Network())
	if err != nil {
		return nil, nil, nil, err
	}
	return tr.Population(0), tr.Population(1), tr.T, nil
}

// GetParams returns the parameters keyed by their yaml names.
func (p TwoPopulationParams) GetParams() map[string]float64 {
	return map[string]float64{
		"i_e": p.IE, "i_i": p.II,
		"w_ee": p.WEE, "w_ei": p.WEI, "w_ie": p.WIE, "w_ii": p.WII,
		"tau_e": p.TauE, "tau_i": p.TauI,
		"dt": p.Dt, "t_end": p.TEnd,
	}
}

// SetParam sets a parameter by its yaml name.
func (p *TwoPopulationParams) SetParam(name string, value float64) error {
	switch name {
	case "i_e":
		p.IE = value
	case "i_i":
		p.II = value
	case "w_ee":
		p.WEE = value
	case "w_ei":
		p.WEI = value
	case "w_ie":
		p.WIE = value
	case "w_ii":
		p.WII = value
	case "tau_e":
		p.TauE = value
	case "tau_i":
		p.TauI = value
	case "dt":
		p.Dt = value
	case "t_end":
		p.TEnd = value
	default:
		return fmt.Errorf("unknown parameter %q (known: %v)", name, ParamNames())
	}
	return nil
}

// ParamNames lists the names accepted by SetParam, sorted.
func ParamNames() []string {
	names := make([]string, 0, 10)
	for k := range (TwoPopulationParams{}).GetParams() {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

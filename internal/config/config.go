package config

import (
	"fmt"
	"os"

	"github.com/san-kum/wcsim/internal/dynamo"
	"github.com/san-kum/wcsim/internal/wilsoncowan"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

const (
	ModelTwo     = "two"
	ModelNetwork = "network"
)

const (
	DefaultDt       = 0.1
	DefaultDuration = 200.0
	DefaultDrive    = 1.0
	DefaultTau      = 10.0
)

// Config is a simulation run as read from a YAML file. Model selects which
// of TwoPopulation or Network is used; Dt and Duration apply to both.
type Config struct {
	Model         string              `yaml:"model"`
	Dt            float64             `yaml:"dt"`
	Duration      float64             `yaml:"duration"`
	TwoPopulation TwoPopulationConfig `yaml:"two_population"`
	Network       NetworkConfig       `yaml:"network"`
}

type TwoPopulationConfig struct {
	IE   float64 `yaml:"i_e"`
	II   float64 `yaml:"i_i"`
	WEE  float64 `yaml:"w_ee"`
	WEI  float64 `yaml:"w_ei"`
	WIE  float64 `yaml:"w_ie"`
	WII  float64 `yaml:"w_ii"`
	TauE float64 `yaml:"tau_e"`
	TauI float64 `yaml:"tau_i"`
}

// NetworkConfig holds an N-population network. Weights is row-major:
// Weights[i][j] is the influence of population j on population i.
type NetworkConfig struct {
	Weights [][]float64 `yaml:"weights"`
	Drive   []float64   `yaml:"drive"`
	Tau     []float64   `yaml:"tau"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:    ModelTwo,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		TwoPopulation: TwoPopulationConfig{
			IE:   DefaultDrive,
			II:   DefaultDrive,
			WEE:  0.5,
			WEI:  -0.5,
			WIE:  0.5,
			WII:  -0.5,
			TauE: DefaultTau,
			TauI: DefaultTau,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Network.Drive = append([]float64(nil), c.Network.Drive...)
	out.Network.Tau = append([]float64(nil), c.Network.Tau...)
	if c.Network.Weights != nil {
		out.Network.Weights = make([][]float64, len(c.Network.Weights))
		for i, row := range c.Network.Weights {
			out.Network.Weights[i] = append([]float64(nil), row...)
		}
	}
	return &out
}

// TwoPopulationParams returns the scalar solver parameters.
func (c *Config) TwoPopulationParams() wilsoncowan.TwoPopulationParams {
	tp := c.TwoPopulation
	return wilsoncowan.TwoPopulationParams{
		IE: tp.IE, II: tp.II,
		WEE: tp.WEE, WEI: tp.WEI, WIE: tp.WIE, WII: tp.WII,
		TauE: tp.TauE, TauI: tp.TauI,
		Dt: c.Dt, TEnd: c.Duration,
	}
}

// Params returns the N-population parameters for either model. Ragged
// weight rows are reported as a dimension mismatch; everything else is left
// to the solver to validate.
func (c *Config) Params() (wilsoncowan.Params, error) {
	switch c.Model {
	case ModelTwo:
		return c.TwoPopulationParams().Network(), nil
	case ModelNetwork:
		n := len(c.Network.Weights)
		if n == 0 {
			return wilsoncowan.Params{}, dynamo.DimensionMismatch("weights rows", 1, 0)
		}
		data := make([]float64, 0, n*n)
		for _, row := range c.Network.Weights {
			if len(row) != n {
				return wilsoncowan.Params{}, dynamo.DimensionMismatch("weights columns", n, len(row))
			}
			data = append(data, row...)
		}
		return wilsoncowan.Params{
			Drive:   c.Network.Drive,
			Weights: mat.NewDense(n, n, data),
			Tau:     c.Network.Tau,
			Dt:      c.Dt,
			TEnd:    c.Duration,
		}, nil
	default:
		return wilsoncowan.Params{}, fmt.Errorf("unknown model %q (want %q or %q)", c.Model, ModelTwo, ModelNetwork)
	}
}

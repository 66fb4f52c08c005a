package config

import "sort"

var Presets = map[string]map[string]*Config{
	ModelTwo: {
		// Fixed point r_E = r_I = 1.
		"symmetric": {
			Model: ModelTwo, Dt: 0.1, Duration: 200.0,
			TwoPopulation: TwoPopulationConfig{
				IE: 1, II: 1, WEE: 0.5, WEI: -0.5, WIE: 0.5, WII: -0.5, TauE: 10, TauI: 10,
			},
		},
		"excitatory_stable": {
			Model: ModelTwo, Dt: 0.1, Duration: 300.0,
			TwoPopulation: TwoPopulationConfig{
				IE: 1, WEE: 0.9, TauE: 10, TauI: 10,
			},
		},
		"runaway": {
			Model: ModelTwo, Dt: 0.1, Duration: 100.0,
			TwoPopulation: TwoPopulationConfig{
				IE: 1, WEE: 1.5, TauE: 10, TauI: 10,
			},
		},
		// Stable spiral around r_E = 0.5, r_I = 1.
		"damped_oscillator": {
			Model: ModelTwo, Dt: 0.01, Duration: 60.0,
			TwoPopulation: TwoPopulationConfig{
				IE: 2, II: 0, WEE: 1, WEI: -2, WIE: 2, WII: 0, TauE: 1, TauI: 1,
			},
		},
	},
	ModelNetwork: {
		"independent": {
			Model: ModelNetwork, Dt: 0.1, Duration: 20.0,
			Network: NetworkConfig{
				Weights: [][]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}},
				Drive:   []float64{1, 2, 3},
				Tau:     []float64{1, 1, 1},
			},
		},
		"ring": {
			Model: ModelNetwork, Dt: 0.1, Duration: 100.0,
			Network: NetworkConfig{
				Weights: [][]float64{
					{0, 0, 0, 0.3},
					{0.3, 0, 0, 0},
					{0, 0.3, 0, 0},
					{0, 0, 0.3, 0},
				},
				Drive: []float64{1, 0.5, 0.5, 0.5},
				Tau:   []float64{5, 5, 5, 5},
			},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListModels returns the models that have presets.
func ListModels() []string {
	models := make([]string, 0, len(Presets))
	for m := range Presets {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}

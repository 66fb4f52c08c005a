package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/wcsim/internal/config"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseRunFlags(t *testing.T, argv ...string) func() (*config.Config, error) {
	t.Helper()
	f := &runFlags{}
	fl := pflag.NewFlagSet("run", pflag.ContinueOnError)
	bindRunFlags(fl, f)
	require.NoError(t, fl.Parse(argv))

	return func() (*config.Config, error) {
		return resolveConfig(fl, fl.Args(), f)
	}
}

func TestResolveConfig_Defaults(t *testing.T) {
	resolve := parseRunFlags(t)
	cfg, err := resolve()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestResolveConfig_PresetThenFlags(t *testing.T) {
	resolve := parseRunFlags(t, "--preset", "runaway", "--wee", "0.7", "--time", "50")
	cfg, err := resolve()
	require.NoError(t, err)

	assert.Equal(t, config.ModelTwo, cfg.Model)
	assert.Equal(t, 0.7, cfg.TwoPopulation.WEE)
	assert.Equal(t, 50.0, cfg.Duration)
	// Untouched preset values survive.
	assert.Equal(t, 10.0, cfg.TwoPopulation.TauE)
	assert.Equal(t, 0.1, cfg.Dt)
}

func TestResolveConfig_NetworkPreset(t *testing.T) {
	resolve := parseRunFlags(t, "network", "--preset", "independent", "--drive", "4,5,6")
	cfg, err := resolve()
	require.NoError(t, err)

	assert.Equal(t, config.ModelNetwork, cfg.Model)
	assert.Equal(t, []float64{4, 5, 6}, cfg.Network.Drive)

	p, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6}, p.Drive)
}

func TestResolveConfig_Errors(t *testing.T) {
	resolve := parseRunFlags(t, "--preset", "nope")
	_, err := resolve()
	assert.ErrorContains(t, err, "unknown preset")

	resolve = parseRunFlags(t, "network")
	_, err = resolve()
	assert.ErrorContains(t, err, "needs weights")

	path := filepath.Join(t.TempDir(), "two.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: two\n"), 0644))
	resolve = parseRunFlags(t, "network", "--config", path)
	_, err = resolve()
	assert.ErrorContains(t, err, "describes model")
}

func TestConfigFromMeta(t *testing.T) {
	cfg := config.GetPreset(config.ModelTwo, "symmetric")
	meta := metadataFor(cfg, "symmetric")

	rebuilt, err := configFromMeta(&meta)
	require.NoError(t, err)
	assert.Equal(t, cfg.TwoPopulationParams(), rebuilt.TwoPopulationParams())

	cfg = config.GetPreset(config.ModelNetwork, "ring")
	meta = metadataFor(cfg, "ring")
	rebuilt, err = configFromMeta(&meta)
	require.NoError(t, err)
	assert.Equal(t, cfg.Network, rebuilt.Network)
}

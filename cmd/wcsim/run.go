package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/san-kum/wcsim/internal/config"
	"github.com/san-kum/wcsim/internal/metrics"
	"github.com/san-kum/wcsim/internal/storage"
	"github.com/san-kum/wcsim/internal/viz"
	"github.com/san-kum/wcsim/internal/wilsoncowan"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const stabilityThreshold = 1e6

type runFlags struct {
	configFile string
	preset     string
	dt         float64
	duration   float64
	two        config.TwoPopulationConfig
	drive      []float64
	tau        []float64
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run [two|network]",
		Short: "run a simulation and store it",
		Long: "Run the two-population E/I model or an N-population network.\n" +
			"Values are taken from the preset, then the config file, then any flags given explicitly.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{config.ModelTwo, config.ModelNetwork},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, args, &f)
		},
	}

	bindRunFlags(cmd.Flags(), &f)
	return cmd
}

func bindRunFlags(fl *pflag.FlagSet, f *runFlags) {
	fl.StringVar(&f.configFile, "config", "", "config file path (yaml)")
	fl.StringVar(&f.preset, "preset", "", "use preset configuration")
	fl.Float64Var(&f.dt, "dt", config.DefaultDt, "timestep")
	fl.Float64Var(&f.duration, "time", config.DefaultDuration, "duration (t_end)")
	fl.Float64Var(&f.two.IE, "ie", config.DefaultDrive, "drive to E")
	fl.Float64Var(&f.two.II, "ii", config.DefaultDrive, "drive to I")
	fl.Float64Var(&f.two.WEE, "wee", 0.5, "weight E->E")
	fl.Float64Var(&f.two.WEI, "wei", -0.5, "weight I->E")
	fl.Float64Var(&f.two.WIE, "wie", 0.5, "weight E->I")
	fl.Float64Var(&f.two.WII, "wii", -0.5, "weight I->I")
	fl.Float64Var(&f.two.TauE, "tau-e", config.DefaultTau, "time constant of E")
	fl.Float64Var(&f.two.TauI, "tau-i", config.DefaultTau, "time constant of I")
	fl.Float64SliceVar(&f.drive, "drive", nil, "network drive vector")
	fl.Float64SliceVar(&f.tau, "tau", nil, "network time constants")
}

// resolveConfig layers preset, config file and explicitly set flags.
func resolveConfig(fl *pflag.FlagSet, args []string, f *runFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	model := ""
	if len(args) > 0 {
		model = args[0]
	}

	if f.preset != "" {
		m := model
		if m == "" {
			m = config.ModelTwo
		}
		p := config.GetPreset(m, f.preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q for %s (available: %v)", f.preset, m, config.ListPresets(m))
		}
		cfg = p
	}

	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if model != "" {
		if f.configFile != "" && cfg.Model != model {
			return nil, fmt.Errorf("config %s describes model %q, not %q", f.configFile, cfg.Model, model)
		}
		cfg.Model = model
	}

	if fl.Changed("dt") {
		cfg.Dt = f.dt
	}
	if fl.Changed("time") {
		cfg.Duration = f.duration
	}

	two := &cfg.TwoPopulation
	for name, dst := range map[string]*float64{
		"ie": &two.IE, "ii": &two.II,
		"wee": &two.WEE, "wei": &two.WEI, "wie": &two.WIE, "wii": &two.WII,
		"tau-e": &two.TauE, "tau-i": &two.TauI,
	} {
		if fl.Changed(name) {
			v, err := fl.GetFloat64(name)
			if err != nil {
				return nil, err
			}
			*dst = v
		}
	}
	if fl.Changed("drive") {
		cfg.Network.Drive = f.drive
	}
	if fl.Changed("tau") {
		cfg.Network.Tau = f.tau
	}

	if cfg.Model == config.ModelNetwork && len(cfg.Network.Weights) == 0 {
		return nil, fmt.Errorf("network model needs weights from --config or --preset")
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string, f *runFlags) error {
	cfg, err := resolveConfig(cmd.Flags(), args, f)
	if err != nil {
		return err
	}

	p, err := cfg.Params()
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	n := len(p.Tau)
	log.Debug().Str("model", cfg.Model).Int("populations", n).Float64("dt", cfg.Dt).Float64("t_end", cfg.Duration).Msg("solving")

	start := time.Now()
	tr, err := wilsoncowan.Solve(p, metrics.Default(n, stabilityThreshold)...)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(metadataFor(cfg, f.preset), tr)
	if err != nil {
		return err
	}

	fmt.Println(viz.Header(fmt.Sprintf("%s run %s", cfg.Model, runID)))
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("samples: %d\n", len(tr.T))
	for i := 0; i < tr.Populations(); i++ {
		fmt.Printf("  %-3s %s\n", populationLabel(cfg.Model, i), viz.Sparkline(tr.Population(i), 60))
	}
	fmt.Println("\nmetrics:")
	fmt.Print(viz.Metrics(tr.Metrics))

	if stab := tr.Metrics["stability"]; stab < 1 {
		fmt.Println(viz.StatusDiverged.Render("\nactivity left the bounded region"))
	}

	return nil
}

func metadataFor(cfg *config.Config, preset string) storage.RunMetadata {
	meta := storage.RunMetadata{
		Model:    cfg.Model,
		Preset:   preset,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
	}
	if cfg.Model == config.ModelTwo {
		meta.Params = cfg.TwoPopulationParams().GetParams()
	} else {
		meta.Drive = cfg.Network.Drive
		meta.Tau = cfg.Network.Tau
		meta.Weights = cfg.Network.Weights
	}
	return meta
}

func populationLabel(model string, i int) string {
	if model == config.ModelTwo {
		return []string{"E", "I"}[i]
	}
	return fmt.Sprintf("r%d", i)
}

func newBenchCmd() *cobra.Command {
	var preset string

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "time the solver over a range of step sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			base := config.GetPreset(config.ModelTwo, preset)
			if base == nil {
				return fmt.Errorf("unknown preset %q (available: %v)", preset, config.ListPresets(config.ModelTwo))
			}

			durations := []float64{100, 1000}
			dts := []float64{0.01, 0.1, 1}

			fmt.Println(viz.Header("benchmarking " + preset))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "T_END\tDT\tSTEPS\tTIME\tSTEPS/SEC")

			for _, dur := range durations {
				for _, dt := range dts {
					p := base.TwoPopulationParams()
					p.Dt, p.TEnd = dt, dur

					start := time.Now()
					_, _, T, err := wilsoncowan.SolveTwoPopulation(p)
					if err != nil {
						return err
					}
					elapsed := time.Since(start)

					fmt.Fprintf(w, "%.0f\t%.2f\t%d\t%v\t%.0f\n",
						dur, dt, len(T), elapsed, float64(len(T))/elapsed.Seconds())
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&preset, "preset", "symmetric", "two-population preset to time")
	return cmd
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/san-kum/wcsim/internal/analysis"
	"github.com/san-kum/wcsim/internal/config"
	"github.com/san-kum/wcsim/internal/sweep"
	"github.com/san-kum/wcsim/internal/viz"
	"github.com/san-kum/wcsim/internal/wilsoncowan"
	"github.com/spf13/cobra"
)

type axisFlags struct {
	name   string
	lo, hi float64
	steps  int
}

func (a *axisFlags) register(cmd *cobra.Command, prefix, name string, lo, hi float64, steps int) {
	cmd.Flags().StringVar(&a.name, prefix, name, "parameter swept along "+prefix)
	cmd.Flags().Float64Var(&a.lo, prefix+"-min", lo, "lower bound of "+prefix)
	cmd.Flags().Float64Var(&a.hi, prefix+"-max", hi, "upper bound of "+prefix)
	cmd.Flags().IntVar(&a.steps, prefix+"-steps", steps, "number of "+prefix+" values")
}

func (a *axisFlags) axis() sweep.Axis {
	return sweep.Axis{Name: a.name, Values: sweep.Linspace(a.lo, a.hi, a.steps)}
}

// baseParams is the two-population starting point of a sweep.
func baseParams(configFile, preset string) (wilsoncowan.TwoPopulationParams, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(config.ModelTwo, preset)
		if cfg == nil {
			return wilsoncowan.TwoPopulationParams{}, fmt.Errorf("unknown preset %q (available: %v)", preset, config.ListPresets(config.ModelTwo))
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return wilsoncowan.TwoPopulationParams{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	return cfg.TwoPopulationParams(), nil
}

func newRunner(base wilsoncowan.TwoPopulationParams) *sweep.Runner {
	return sweep.NewRunner(base, sweep.WithWorkers(settings.Workers), sweep.WithLogger(log.Logger))
}

func newSweepCmd() *cobra.Command {
	var (
		x, y       axisFlags
		configFile string
		preset     string
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "steady state over a 2-D parameter grid",
		Long:  "Solve the two-population model at every grid point.\nParameters: " + fmt.Sprint(wilsoncowan.ParamNames()),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := baseParams(configFile, preset)
			if err != nil {
				return err
			}
			runner := newRunner(base)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			grid, err := runner.Grid2D(ctx, x.axis(), y.axis())
			if err != nil {
				return err
			}

			fmt.Println(viz.Header(fmt.Sprintf("sweep %s x %s", grid.X.Name, grid.Y.Name)))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\tR_E\tR_I\n", grid.X.Name, grid.Y.Name)
			for _, row := range grid.Cells {
				for _, c := range row {
					fmt.Fprintf(w, "%.4g\t%.4g\t%.6g\t%.6g\n", c.X, c.Y, c.FinalE, c.FinalI)
				}
			}
			return w.Flush()
		},
	}

	x.register(cmd, "x", "i_e", 0, 2, 5)
	y.register(cmd, "y", "i_i", 0, 2, 5)
	cmd.Flags().StringVar(&configFile, "config", "", "base config file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "base two-population preset")
	cmd.Flags().Int("workers", 0, "concurrent solver runs (env WCSIM_WORKERS, default GOMAXPROCS)")
	return cmd
}

func newBifurcateCmd() *cobra.Command {
	var (
		p          axisFlags
		configFile string
		preset     string
		population int
		transient  float64
		resolution float64
	)

	cmd := &cobra.Command{
		Use:   "bifurcate",
		Short: "distinct late-time values over a 1-D parameter sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := baseParams(configFile, preset)
			if err != nil {
				return err
			}
			runner := newRunner(base)
			if transient < 0 || transient >= 1 {
				return fmt.Errorf("transient must be in [0, 1), got %g", transient)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			points, err := runner.Bifurcation(ctx, p.axis(), population, transient, resolution)
			if err != nil {
				return err
			}

			fmt.Println(viz.Header(fmt.Sprintf("bifurcation of %s over %s", populationLabel(config.ModelTwo, population), p.name)))
			fmt.Print(analysis.BifurcationToASCII(points, 60, 20))
			fmt.Println()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\tVALUES\tKIND\n", p.name)
			for _, pt := range points {
				kind := "fixed point"
				switch {
				case len(pt.Values) == 0:
					kind = "-"
				case len(pt.Values) > 1:
					kind = "oscillating"
				}
				fmt.Fprintf(w, "%.4g\t%d\t%s\n", pt.Param, len(pt.Values), kind)
			}
			return w.Flush()
		},
	}

	p.register(cmd, "param", "w_ee", 0, 2, 21)
	cmd.Flags().StringVar(&configFile, "config", "", "base config file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "base two-population preset")
	cmd.Flags().IntVar(&population, "population", 0, "0 for E, 1 for I")
	cmd.Flags().Float64Var(&transient, "transient", 0.5, "fraction of the run discarded as transient")
	cmd.Flags().Float64Var(&resolution, "resolution", 1e-3, "values closer than this count as one")
	cmd.Flags().Int("workers", 0, "concurrent solver runs (env WCSIM_WORKERS, default GOMAXPROCS)")
	return cmd
}

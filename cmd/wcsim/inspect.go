package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/san-kum/wcsim/internal/analysis"
	"github.com/san-kum/wcsim/internal/config"
	"github.com/san-kum/wcsim/internal/export"
	"github.com/san-kum/wcsim/internal/integrators"
	"github.com/san-kum/wcsim/internal/storage"
	"github.com/san-kum/wcsim/internal/viz"
	"github.com/san-kum/wcsim/internal/wilsoncowan"
	"github.com/spf13/cobra"
)

const maxPlots = 6

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			runs, err := st.List()
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMODEL\tPRESET\tTIME\tN\tT_END\tDT\tSTABILITY")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.2f\t%.4f\t%.3f\n",
					run.ID,
					run.Model,
					orDash(run.Preset),
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Populations,
					run.Duration,
					run.Dt,
					run.Metrics["stability"],
				)
			}
			return w.Flush()
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// loadRun reads both halves of a stored run.
func loadRun(runID string) (*storage.RunMetadata, *wilsoncowan.Trajectory, error) {
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, tr, nil
}

// configFromMeta rebuilds the simulation config a run was made from.
func configFromMeta(meta *storage.RunMetadata) (*config.Config, error) {
	cfg := &config.Config{Model: meta.Model, Dt: meta.Dt, Duration: meta.Duration}
	switch meta.Model {
	case config.ModelTwo:
		p := wilsoncowan.TwoPopulationParams{}
		for name, v := range meta.Params {
			if err := p.SetParam(name, v); err != nil {
				return nil, err
			}
		}
		cfg.TwoPopulation = config.TwoPopulationConfig{
			IE: p.IE, II: p.II, WEE: p.WEE, WEI: p.WEI, WIE: p.WIE, WII: p.WII, TauE: p.TauE, TauI: p.TauI,
		}
	default:
		cfg.Network = config.NetworkConfig{Weights: meta.Weights, Drive: meta.Drive, Tau: meta.Tau}
	}
	return cfg, nil
}

func newPlotCmd() *cobra.Command {
	var height, width int

	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot population activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, tr, err := loadRun(args[0])
			if err != nil {
				return err
			}

			fmt.Println(viz.Header("run " + meta.ID))
			fmt.Printf("model: %s\n", meta.Model)
			fmt.Printf("samples: %d\n\n", len(tr.T))

			n := min(tr.Populations(), maxPlots)
			series := make([][]float64, n)
			caption := "activity:"
			for i := range series {
				series[i] = tr.Population(i)
				caption += " " + populationLabel(meta.Model, i)
			}

			graph := viz.Plot(series, caption, width, height)
			if graph == "" {
				return fmt.Errorf("run %s has no finite samples to plot", meta.ID)
			}
			fmt.Println(graph)
			return nil
		},
	}
	cmd.Flags().IntVar(&height, "height", 15, "plot height")
	cmd.Flags().IntVar(&width, "width", 80, "plot width")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var (
		population int
		skipDC     bool
		plot       bool
		lyapunov   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of one population",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, tr, err := loadRun(args[0])
			if err != nil {
				return err
			}
			if population < 0 || population >= tr.Populations() {
				return fmt.Errorf("population %d out of range [0, %d)", population, tr.Populations())
			}

			var opts []analysis.SpectrumOption
			if skipDC {
				opts = append(opts, analysis.WithoutDC())
			}
			spec, err := analysis.Spectrum(tr.Population(population), meta.Dt, opts...)
			if err != nil {
				return err
			}

			fmt.Println(viz.Header("frequency analysis: " + meta.ID))
			fmt.Printf("model: %s  population: %s\n\n", meta.Model, populationLabel(meta.Model, population))

			if plot {
				mags := analysis.Magnitudes(spec.Transform)
				if graph := viz.Plot([][]float64{mags}, "|X(f)|, non-negative bins", 80, 15); graph != "" {
					fmt.Println(graph)
					fmt.Println()
				}
			}

			fmt.Printf("peak bin: %d\n", spec.PeakIndex)
			fmt.Printf("dominant frequency: %.4f hz\n", spec.PeakFreq)
			fmt.Printf("magnitude: %.4g\n", spec.PeakMagnitude)
			if f := math.Abs(spec.PeakFreq); f > 0 {
				fmt.Printf("period: %.4f ms\n", 1000/f)
			}
			fmt.Printf("resolution: %.4f hz\n", analysis.SamplesPerSecondScale/(float64(len(tr.T))*meta.Dt))

			if lyapunov {
				cfg, err := configFromMeta(meta)
				if err != nil {
					return err
				}
				p, err := cfg.Params()
				if err != nil {
					return err
				}
				net, err := wilsoncowan.NewNetwork(p.Weights, p.Drive, p.Tau)
				if err != nil {
					return err
				}
				x0 := make([]float64, net.StateDim())
				lambda := analysis.LyapunovExponent(net, integrators.NewEuler(), x0, meta.Dt, meta.Duration, 1e-8)
				fmt.Printf("lyapunov exponent: %.4g\n", lambda)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&population, "population", 0, "population index to analyze")
	cmd.Flags().BoolVar(&skipDC, "skip-dc", false, "exclude bin 0 from the peak search")
	cmd.Flags().BoolVar(&plot, "plot", false, "plot the magnitude spectrum")
	cmd.Flags().BoolVar(&lyapunov, "lyapunov", false, "estimate the largest lyapunov exponent")
	return cmd
}

func newPhaseCmd() *cobra.Command {
	var (
		xAxis, yAxis int
		poincare     bool
		threshold    float64
	)

	cmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase plane plot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, tr, err := loadRun(args[0])
			if err != nil {
				return err
			}

			portrait := analysis.PhasePortrait(tr.Rates, xAxis, yAxis)
			if portrait == nil {
				return fmt.Errorf("axes %d, %d out of range for %d populations", xAxis, yAxis, tr.Populations())
			}

			fmt.Println(viz.Header(fmt.Sprintf("phase plane %s vs %s: %s",
				populationLabel(meta.Model, yAxis), populationLabel(meta.Model, xAxis), meta.ID)))
			fmt.Print(analysis.PhasePortraitToASCII(portrait, 60, 20))

			if !poincare {
				return nil
			}

			if !cmd.Flags().Changed("threshold") {
				threshold = finiteMean(tr.Population(xAxis))
			}
			section := analysis.GeneratePoincareSection(tr.Rates, tr.T, xAxis, threshold, xAxis, yAxis)
			fmt.Println()
			fmt.Println(viz.Header(fmt.Sprintf("poincare section at %s = %.4g", populationLabel(meta.Model, xAxis), threshold)))
			fmt.Println(analysis.PoincareSectionToASCII(section, 60, 12))
			if period := section.Period(); period > 0 {
				fmt.Printf("crossings: %d  mean period: %.4f\n", len(section.Times), period)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&xAxis, "x-axis", 0, "population index for x-axis")
	cmd.Flags().IntVar(&yAxis, "y-axis", 1, "population index for y-axis")
	cmd.Flags().BoolVar(&poincare, "poincare", false, "also draw the poincare section")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "crossing level for the section (default: mean of x)")
	return cmd
}

func finiteMean(xs []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range xs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			models := config.ListModels()
			if len(args) == 1 {
				models = args
			}
			for _, model := range models {
				presets := config.ListPresets(model)
				if len(presets) == 0 {
					fmt.Printf("no presets for model: %s\n", model)
					continue
				}
				fmt.Printf("presets for %s:\n", viz.Title.Render(model))
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}
}

func newExportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, tr, err := loadRun(args[0])
			if err != nil {
				return err
			}

			w := csv.NewWriter(os.Stdout)

			header := []string{"time"}
			for i := 0; i < tr.Populations(); i++ {
				header = append(header, populationLabel(meta.Model, i))
			}
			if err := w.Write(header); err != nil {
				return err
			}

			for k, t := range tr.T {
				row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
				for i := 0; i < tr.Populations(); i++ {
					row = append(row, strconv.FormatFloat(tr.Rates.At(i, k), 'g', 10, 64))
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}

			w.Flush()
			return w.Error()
		},
	}
}

func newExportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, tr, err := loadRun(args[0])
			if err != nil {
				return err
			}
			return storage.ExportJSON(os.Stdout, *meta, tr)
		},
	}
}

func newExportSVGCmd() *cobra.Command {
	var (
		out          string
		phase        bool
		xAxis, yAxis int
		width        int
		height       int
	)

	cmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render population activity or the phase plane as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, tr, err := loadRun(args[0])
			if err != nil {
				return err
			}

			var svg string
			if phase {
				portrait := analysis.PhasePortrait(tr.Rates, xAxis, yAxis)
				if portrait == nil {
					return fmt.Errorf("axes %d, %d out of range for %d populations", xAxis, yAxis, tr.Populations())
				}
				svg = export.PhasePortraitSVG(portrait, width, height)
			} else {
				series := make([][]float64, tr.Populations())
				for i := range series {
					series[i] = tr.Population(i)
				}
				svg = export.TimeSeriesSVG(tr.T, series, width, height)
			}
			if svg == "" {
				return fmt.Errorf("run %s has no finite samples to draw", args[0])
			}

			if out == "" {
				_, err := fmt.Print(svg)
				return err
			}
			if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
				return err
			}
			log.Info().Str("path", out).Msg("svg written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&phase, "phase", false, "draw the phase plane instead of activity over time")
	cmd.Flags().IntVar(&xAxis, "x-axis", 0, "population index for x-axis (--phase)")
	cmd.Flags().IntVar(&yAxis, "y-axis", 1, "population index for y-axis (--phase)")
	cmd.Flags().IntVar(&width, "width", 800, "image width")
	cmd.Flags().IntVar(&height, "height", 400, "image height")
	return cmd
}

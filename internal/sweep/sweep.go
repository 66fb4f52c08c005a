// Package sweep drives the two-population solver over parameter grids.
// It is a caller of the kernel: each grid point is an independent solver
// invocation, run concurrently, and only final-index values are kept.
package sweep

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/san-kum/wcsim/internal/analysis"
	"github.com/san-kum/wcsim/internal/wilsoncowan"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// Axis is one swept parameter, addressed by its wilsoncowan parameter name.
type Axis struct {
	Name   string
	Values []float64
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Cell is the steady state reached at one grid point.
type Cell struct {
	X, Y   float64
	FinalE float64
	FinalI float64
}

// Grid holds Cells[j][i] for X.Values[i], Y.Values[j].
type Grid struct {
	X, Y  Axis
	Cells [][]Cell
}

type Runner struct {
	base    wilsoncowan.TwoPopulationParams
	workers int
	log     zerolog.Logger
}

type Option func(*Runner)

// WithWorkers bounds the number of concurrent solver runs.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

func NewRunner(base wilsoncowan.TwoPopulationParams, opts ...Option) *Runner {
	r := &Runner{
		base:    base,
		workers: runtime.GOMAXPROCS(0),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Grid2D solves every (x, y) combination and records final r_E and r_I.
// The first failing point cancels the rest and its error is returned.
func (r *Runner) Grid2D(ctx context.Context, x, y Axis) (*Grid, error) {
	if len(x.Values) == 0 || len(y.Values) == 0 {
		return nil, fmt.Errorf("sweep: empty axis")
	}
	if x.Name == y.Name {
		return nil, fmt.Errorf("sweep: both axes vary %q", x.Name)
	}

	g := &Grid{X: x, Y: y, Cells: make([][]Cell, len(y.Values))}
	for j := range g.Cells {
		g.Cells[j] = make([]Cell, len(x.Values))
	}

	nx := len(x.Values)
	err := r.forEach(ctx, nx*len(y.Values), func(k int) error {
		i, j := k%nx, k/nx
		p, err := r.params(map[string]float64{x.Name: x.Values[i], y.Name: y.Values[j]})
		if err != nil {
			return err
		}

		rE, rI, _, err := wilsoncowan.SolveTwoPopulation(p)
		if err != nil {
			return fmt.Errorf("sweep %s=%g %s=%g: %w", x.Name, x.Values[i], y.Name, y.Values[j], err)
		}

		g.Cells[j][i] = Cell{X: x.Values[i], Y: y.Values[j], FinalE: rE[len(rE)-1], FinalI: rI[len(rI)-1]}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Debug().Str("x", x.Name).Str("y", y.Name).Int("points", nx*len(y.Values)).Msg("grid sweep done")
	return g, nil
}

// Bifurcation sweeps one parameter and records the distinct values a
// population visits after the first transient fraction of the run.
func (r *Runner) Bifurcation(ctx context.Context, axis Axis, population int, transient, resolution float64) ([]analysis.BifurcationPoint, error) {
	if population < 0 || population > 1 {
		return nil, fmt.Errorf("sweep: population %d out of range [0, 1]", population)
	}

	points := make([]analysis.BifurcationPoint, len(axis.Values))
	err := r.forEach(ctx, len(axis.Values), func(k int) error {
		p, err := r.params(map[string]float64{axis.Name: axis.Values[k]})
		if err != nil {
			return err
		}

		rE, rI, _, err := wilsoncowan.SolveTwoPopulation(p)
		if err != nil {
			return fmt.Errorf("sweep %s=%g: %w", axis.Name, axis.Values[k], err)
		}

		series := rE
		if population == 1 {
			series = rI
		}
		from := int(transient * float64(len(series)))
		points[k] = analysis.BifurcationPoint{
			Param:  axis.Values[k],
			Values: analysis.DistinctValues(series, from, resolution),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Debug().Str("param", axis.Name).Int("points", len(points)).Msg("bifurcation sweep done")
	return points, nil
}

func (r *Runner) params(set map[string]float64) (wilsoncowan.TwoPopulationParams, error) {
	p := r.base
	for name, v := range set {
		if err := p.SetParam(name, v); err != nil {
			return p, err
		}
	}
	return p, nil
}

func (r *Runner) forEach(ctx context.Context, n int, fn func(k int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for k := 0; k < n; k++ {
		if gctx.Err() != nil {
			break
		}
		k := k
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(k)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Package grid builds non-uniform tabulation grids: points are inserted one
// at a time at the midpoint of the interval where interpolation of the
// reference function is worst, until every interval meets the relative error
// tolerance.
package grid

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/wildstyl3r/eecs/internal/utils"
)

const (
	DefaultInitialPoints = 20
	DefaultMaxIterations = 500
)

type Config struct {
	Scale Scale

	// Min and Max bound the generated initial grid. They are ignored when
	// InitialGrid is set.
	Min, Max      float64
	InitialPoints int
	InitialGrid   []float64

	Reference    func(float64) float64
	Interpolator Interpolator // Linear when nil
	Integrator   Integrator   // DefaultAdaptive when nil

	// Resolution quantizes inserted points to multiples of itself; a point
	// that lands on a quantized end of its interval is not inserted. Zero
	// disables quantization.
	Resolution float64

	MaxIterations int
	Workers       int

	Counter *Counter
	Logger  *slog.Logger
}

type Termination int

const (
	Converged Termination = iota
	Exhausted
	Stalled
)

func (t Termination) String() string {
	switch t {
	case Converged:
		return "converged"
	case Exhausted:
		return "exhausted"
	case Stalled:
		return "stalled"
	}
	return fmt.Sprintf("Termination(%d)", int(t))
}

type Result struct {
	Grid   []float64
	Values []float64
	// Errors holds the relative error of each of the len(Grid)-1 intervals.
	Errors      []float64
	MaxError    float64
	Iterations  int
	Evaluations int64
	Termination Termination
	Converged   bool
}

// Midpoints returns the centre of each interval, the abscissa of Errors.
func (r *Result) Midpoints() []float64 {
	return utils.Midpoints(r.Grid)
}

type Generator struct {
	cfg       Config
	reference func(float64) float64
	counter   *Counter
	logger    *slog.Logger
}

func New(cfg Config) (*Generator, error) {
	if !cfg.Scale.valid() {
		return nil, fmt.Errorf("%w: unknown scale %v", ErrInvalidConfiguration, cfg.Scale)
	}
	if cfg.Reference == nil {
		return nil, fmt.Errorf("%w: reference function is required", ErrInvalidConfiguration)
	}
	if cfg.Resolution < 0 || math.IsNaN(cfg.Resolution) || math.IsInf(cfg.Resolution, 0) {
		return nil, fmt.Errorf("%w: resolution must be a finite non-negative number, got %g", ErrInvalidConfiguration, cfg.Resolution)
	}
	if cfg.InitialPoints == 0 {
		cfg.InitialPoints = DefaultInitialPoints
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.MaxIterations < 0 {
		return nil, fmt.Errorf("%w: negative iteration budget %d", ErrInvalidConfiguration, cfg.MaxIterations)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Interpolator == nil {
		cfg.Interpolator = Linear
	}
	if cfg.Integrator == nil {
		cfg.Integrator = DefaultAdaptive
	}

	if cfg.InitialGrid != nil {
		seed := slices.Clone(cfg.InitialGrid)
		slices.Sort(seed)
		seed = slices.Compact(seed)
		if len(seed) < 2 {
			return nil, fmt.Errorf("%w: initial grid needs at least 2 distinct points, got %d", ErrInvalidConfiguration, len(seed))
		}
		for _, x := range seed {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, fmt.Errorf("%w: initial grid contains %g", ErrInvalidConfiguration, x)
			}
		}
		if cfg.Scale == ScaleLog10 && !(seed[0] > 0) {
			return nil, fmt.Errorf("%w: log10 scale needs positive points, got %g", ErrInvalidConfiguration, seed[0])
		}
		cfg.InitialGrid = seed
	} else {
		if math.IsNaN(cfg.Min) || math.IsNaN(cfg.Max) || !(cfg.Min < cfg.Max) {
			return nil, fmt.Errorf("%w: domain [%g, %g] is empty and no initial grid is given", ErrInvalidConfiguration, cfg.Min, cfg.Max)
		}
		if math.IsInf(cfg.Min, 0) || math.IsInf(cfg.Max, 0) {
			return nil, fmt.Errorf("%w: domain [%g, %g] is not finite", ErrInvalidConfiguration, cfg.Min, cfg.Max)
		}
		if cfg.Scale == ScaleLog10 && !(cfg.Min > 0) {
			return nil, fmt.Errorf("%w: log10 scale needs a positive minimum, got %g", ErrInvalidConfiguration, cfg.Min)
		}
		if cfg.InitialPoints < 2 {
			return nil, fmt.Errorf("%w: at least 2 initial points are required, got %d", ErrInvalidConfiguration, cfg.InitialPoints)
		}
	}

	g := &Generator{
		cfg:     cfg,
		counter: cfg.Counter,
		logger:  cfg.Logger,
	}
	if g.counter == nil {
		g.counter = &Counter{}
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	g.reference = g.counter.Wrap(cfg.Reference)
	return g, nil
}

func (g *Generator) InitialGrid() []float64 {
	if g.cfg.InitialGrid != nil {
		return slices.Clone(g.cfg.InitialGrid)
	}
	return g.cfg.Scale.Span(g.cfg.Min, g.cfg.Max, g.cfg.InitialPoints)
}

// Generate refines the grid until the largest interval error is at most
// tolerance, the iteration budget is spent, or no point can be inserted.
// The last two cases return a Result with Converged unset and no error.
func (g *Generator) Generate(ctx context.Context, tolerance float64) (*Result, error) {
	if !(tolerance > 0) || math.IsInf(tolerance, 0) {
		return nil, fmt.Errorf("%w: tolerance must be a positive number, got %g", ErrInvalidConfiguration, tolerance)
	}
	evaluationsBefore := g.counter.Count()
	xs := g.InitialGrid()

	for iteration := 0; ; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ys := g.sample(xs)
		interpolant, err := g.cfg.Interpolator.Fit(xs, ys)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iteration, err)
		}
		errs, err := g.intervalErrors(ctx, xs, interpolant)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iteration, err)
		}
		worst := floats.MaxIdx(errs)
		maxError := errs[worst]
		g.logger.Debug("grid iteration", "iteration", iteration, "max_error", maxError, "points", len(xs))

		finish := func(t Termination) *Result {
			r := &Result{
				Grid:        xs,
				Values:      ys,
				Errors:      errs,
				MaxError:    maxError,
				Iterations:  iteration,
				Evaluations: g.counter.Count() - evaluationsBefore,
				Termination: t,
				Converged:   t == Converged,
			}
			g.logger.Info("grid generated", "termination", t, "points", len(xs), "iterations", iteration,
				"max_error", maxError, "tolerance", tolerance, "evaluations", r.Evaluations)
			return r
		}

		if maxError <= tolerance {
			return finish(Converged), nil
		}
		if iteration >= g.cfg.MaxIterations {
			return finish(Exhausted), nil
		}
		next, inserted := g.refine(xs, worst)
		if !inserted {
			return finish(Stalled), nil
		}
		xs = next
	}
}

func (g *Generator) sample(xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i := range xs {
		ys[i] = g.reference(xs[i])
	}
	return ys
}

func (g *Generator) intervalErrors(ctx context.Context, xs []float64, p Interpolant) ([]float64, error) {
	errs := make([]float64, len(xs)-1)
	if g.cfg.Workers == 1 {
		for i := range errs {
			e, err := g.intervalError(xs[i], xs[i+1], p)
			if err != nil {
				return nil, err
			}
			errs[i] = e
		}
		return errs, nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Workers)
	for i := range errs {
		eg.Go(func() error {
			// a failed interval fails the iteration, skip the rest
			if err := egCtx.Err(); err != nil {
				return err
			}
			e, err := g.intervalError(xs[i], xs[i+1], p)
			errs[i] = e
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return errs, nil
}

// intervalError is ∫|f-p| / |∫f| over [a, b]. A zero integral gives zero
// when the interpolant is exact there and +Inf otherwise.
func (g *Generator) intervalError(a, b float64, p Interpolant) (float64, error) {
	deviation := func(x float64) float64 {
		return math.Abs(g.reference(x) - p.Predict(x))
	}
	absolute, absoluteEstimate := g.cfg.Integrator.Integrate(deviation, a, b)
	value, valueEstimate := g.cfg.Integrator.Integrate(g.reference, a, b)
	g.logger.Debug("interval integrated", "lower", a, "upper", b,
		"deviation", absolute, "deviation_estimate", absoluteEstimate,
		"integral", value, "integral_estimate", valueEstimate)
	if math.IsNaN(absolute) || math.IsInf(absolute, 0) {
		return 0, fmt.Errorf("%w: interpolation error on [%g, %g] is %g", ErrNumericIntegration, a, b, absolute)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: integral on [%g, %g] is %g", ErrNumericIntegration, a, b, value)
	}
	if value == 0 {
		if absolute == 0 {
			return 0, nil
		}
		return math.Inf(1), nil
	}
	return absolute / math.Abs(value), nil
}

// refine inserts a point inside [xs[i], xs[i+1]]. The returned slice never
// aliases xs.
func (g *Generator) refine(xs []float64, i int) ([]float64, bool) {
	lo, hi := xs[i], xs[i+1]
	candidate := g.cfg.Scale.Midpoint(lo, hi)
	point, ok := insertionPoint(candidate, lo, hi, g.cfg.Resolution)
	if !ok {
		g.logger.Debug("point rejected", "candidate", candidate, "lower", lo, "upper", hi, "resolution", g.cfg.Resolution)
		return xs, false
	}
	g.logger.Debug("add point", "x", point)

	next := make([]float64, 0, len(xs)+1)
	next = append(next, xs[:i+1]...)
	next = append(next, point)
	next = append(next, xs[i+1:]...)
	return next, true
}

func quantize(x, step float64) float64 {
	return math.Round(x/step) * step
}

// insertionPoint quantizes candidate and rejects it when it falls on a
// quantized bound, or outside (lo, hi).
func insertionPoint(candidate, lo, hi, resolution float64) (float64, bool) {
	if resolution == 0 {
		return candidate, lo < candidate && candidate < hi
	}
	point := quantize(candidate, resolution)
	if point == quantize(lo, resolution) || point == quantize(hi, resolution) {
		return point, false
	}
	return point, lo < point && point < hi
}

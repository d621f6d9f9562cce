package grid

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/interp"
)

// Interpolant reconstructs the sampled function between grid points.
type Interpolant interface {
	Predict(x float64) float64
}

// Interpolator builds an interpolant from strictly increasing xs and the
// values sampled there.
type Interpolator interface {
	Fit(xs, ys []float64) (Interpolant, error)
}

type InterpolatorFunc func(xs, ys []float64) (Interpolant, error)

func (f InterpolatorFunc) Fit(xs, ys []float64) (Interpolant, error) {
	return f(xs, ys)
}

func gonumInterpolator(name string, newFitter func() interp.FittablePredictor) InterpolatorFunc {
	return func(xs, ys []float64) (Interpolant, error) {
		fp := newFitter()
		if err := fp.Fit(xs, ys); err != nil {
			return nil, fmt.Errorf("%s fit on %d points: %w", name, len(xs), err)
		}
		return fp, nil
	}
}

var (
	Linear = gonumInterpolator("linear", func() interp.FittablePredictor {
		return &interp.PiecewiseLinear{}
	})
	Akima = gonumInterpolator("akima", func() interp.FittablePredictor {
		return &interp.AkimaSpline{}
	})
	FritschButland = gonumInterpolator("fritsch-butland", func() interp.FittablePredictor {
		return &interp.FritschButland{}
	})
	NaturalCubic = gonumInterpolator("natural-cubic", func() interp.FittablePredictor {
		return &interp.NaturalCubic{}
	})
	// LogLog interpolates linearly between (ln x, ln y) pairs, the usual
	// choice for cross sections spanning decades. Needs positive data.
	LogLog InterpolatorFunc = fitLogLog
)

type logLog struct {
	pl interp.PiecewiseLinear
}

func (ll *logLog) Predict(x float64) float64 {
	return math.Exp(ll.pl.Predict(math.Log(x)))
}

func fitLogLog(xs, ys []float64) (Interpolant, error) {
	lx := make([]float64, len(xs))
	ly := make([]float64, len(ys))
	for i := range xs {
		if !(xs[i] > 0) || i < len(ys) && !(ys[i] > 0) {
			return nil, fmt.Errorf("loglog fit: non-positive sample at index %d", i)
		}
		lx[i] = math.Log(xs[i])
	}
	for i := range ys {
		ly[i] = math.Log(ys[i])
	}
	ll := &logLog{}
	if err := ll.pl.Fit(lx, ly); err != nil {
		return nil, fmt.Errorf("loglog fit on %d points: %w", len(xs), err)
	}
	return ll, nil
}

var interpolators = map[string]Interpolator{
	"linear":          Linear,
	"loglog":          LogLog,
	"akima":           Akima,
	"fritsch-butland": FritschButland,
	"natural-cubic":   NaturalCubic,
}

func InterpolatorByName(name string) (Interpolator, error) {
	if i, ok := interpolators[strings.ToLower(name)]; ok {
		return i, nil
	}
	return nil, fmt.Errorf("%w: unknown interpolation %q (known: %s)", ErrInvalidConfiguration, name, strings.Join(InterpolatorNames(), ", "))
}

func InterpolatorNames() []string {
	names := make([]string, 0, len(interpolators))
	for name := range interpolators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

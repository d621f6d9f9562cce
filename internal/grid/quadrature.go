package grid

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// Integrator estimates ∫_a^b f(x)dx and the absolute error of that estimate.
type Integrator interface {
	Integrate(f func(float64) float64, a, b float64) (value, estimate float64)
}

// GaussLegendre is a fixed-order rule with N nodes. The error estimate is
// the difference with the N+1 node rule.
type GaussLegendre struct {
	N int
}

func (g GaussLegendre) Integrate(f func(float64) float64, a, b float64) (float64, float64) {
	n := max(g.N, 1)
	value := quad.Fixed(f, a, b, n, quad.Legendre{}, 0)
	higher := quad.Fixed(f, a, b, n+1, quad.Legendre{}, 0)
	return value, math.Abs(higher - value)
}

const (
	adaptiveCoarseNodes = 10
	adaptiveFineNodes   = 21
)

// Adaptive bisects the subinterval with the largest error until the summed
// error drops below max(AbsTol, RelTol*|value|) or Limit subintervals are in
// use. Each subinterval is estimated with 21 Gauss–Legendre nodes and checked
// against 10 nodes. Zero fields fall back to DefaultAdaptive.
type Adaptive struct {
	AbsTol float64
	RelTol float64
	Limit  int
}

var DefaultAdaptive = Adaptive{
	AbsTol: 1.49e-8,
	RelTol: 1.49e-8,
	Limit:  50,
}

type segment struct {
	a, b            float64
	value, estimate float64
}

func newSegment(f func(float64) float64, a, b float64) segment {
	coarse := quad.Fixed(f, a, b, adaptiveCoarseNodes, quad.Legendre{}, 0)
	fine := quad.Fixed(f, a, b, adaptiveFineNodes, quad.Legendre{}, 0)
	return segment{a: a, b: b, value: fine, estimate: math.Abs(fine - coarse)}
}

func (ad Adaptive) withDefaults() Adaptive {
	if ad.AbsTol <= 0 {
		ad.AbsTol = DefaultAdaptive.AbsTol
	}
	if ad.RelTol <= 0 {
		ad.RelTol = DefaultAdaptive.RelTol
	}
	if ad.Limit <= 0 {
		ad.Limit = DefaultAdaptive.Limit
	}
	return ad
}

func (ad Adaptive) Integrate(f func(float64) float64, a, b float64) (float64, float64) {
	ad = ad.withDefaults()
	segments := []segment{newSegment(f, a, b)}
	value, estimate := segments[0].value, segments[0].estimate
	for len(segments) < ad.Limit && estimate > max(ad.AbsTol, ad.RelTol*math.Abs(value)) {
		worst := 0
		for i := range segments {
			if segments[i].estimate > segments[worst].estimate {
				worst = i
			}
		}
		s := segments[worst]
		m := s.a + (s.b-s.a)*0.5
		segments[worst] = newSegment(f, s.a, m)
		segments = append(segments, newSegment(f, m, s.b))

		value, estimate = 0, 0
		for i := range segments {
			value += segments[i].value
			estimate += segments[i].estimate
		}
	}
	return value, estimate
}

// IntegratorFor returns a fixed-order rule for a positive order and the
// adaptive rule otherwise.
func IntegratorFor(order int) Integrator {
	if order > 0 {
		return GaussLegendre{N: order}
	}
	return DefaultAdaptive
}

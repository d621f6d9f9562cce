package grid

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

type Scale int

const (
	ScaleLinear Scale = iota
	ScaleLog10
)

func (s Scale) String() string {
	switch s {
	case ScaleLinear:
		return "linear"
	case ScaleLog10:
		return "log10"
	}
	return fmt.Sprintf("Scale(%d)", int(s))
}

func (s Scale) valid() bool {
	return s == ScaleLinear || s == ScaleLog10
}

func ParseScale(name string) (Scale, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linear", "lin":
		return ScaleLinear, nil
	case "log10", "log":
		return ScaleLog10, nil
	}
	return 0, fmt.Errorf("%w: unknown scale %q", ErrInvalidConfiguration, name)
}

// Midpoint is the arithmetic mean on the linear scale and the geometric mean,
// taken as the mean of logarithms, on the log scale.
func (s Scale) Midpoint(a, b float64) float64 {
	if s == ScaleLog10 {
		return math.Exp(math.Log(a) + (math.Log(b)-math.Log(a))*0.5)
	}
	return a + (b-a)*0.5
}

// Span returns n points evenly spaced in s between lo and hi, both included.
func (s Scale) Span(lo, hi float64, n int) []float64 {
	xs := make([]float64, n)
	if s == ScaleLog10 {
		floats.LogSpan(xs, lo, hi)
	} else {
		floats.Span(xs, lo, hi)
	}
	// LogSpan goes through exp(log(x)), pin the bounds
	xs[0], xs[n-1] = lo, hi
	return xs
}

// SeedRange is the arithmetic progression Start, Start+Step, ... up to and
// including Stop.
type SeedRange struct {
	Start, Stop, Step float64
}

// RangeSeed concatenates the ranges, dropping points that do not exceed the
// previous one.
func RangeSeed(ranges ...SeedRange) []float64 {
	var xs []float64
	for _, r := range ranges {
		if !(r.Step > 0) {
			continue
		}
		for i := 0; ; i++ {
			x := r.Start + float64(i)*r.Step
			if x > r.Stop {
				break
			}
			if len(xs) == 0 || x > xs[len(xs)-1] {
				xs = append(xs, x)
			}
		}
	}
	return xs
}

// DecadeSeed steps every decade 10^k..10^(k+1) meeting [lo, hi] by 10^k,
// except the decade holding hi, which is stepped by 10^k/5. lo and hi are
// always included. DecadeSeed(10, 5e5) is the 57 point seed of the
// Rutherford tabulation. lo must be positive.
func DecadeSeed(lo, hi float64) []float64 {
	if !(lo > 0) || !(hi > lo) {
		return nil
	}
	var ranges []SeedRange
	for k := math.Floor(math.Log10(lo)); math.Pow(10, k) <= hi; k++ {
		decade := math.Pow(10, k)
		step := decade
		if hi < 10*decade {
			step = decade / 5
		}
		ranges = append(ranges, SeedRange{Start: decade, Stop: math.Min(hi, 10*decade), Step: step})
	}
	xs := []float64{lo}
	for _, x := range RangeSeed(ranges...) {
		if x > lo && x < hi {
			xs = append(xs, x)
		}
	}
	return append(xs, hi)
}

package survfit

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const ln2 = math.Ln2

// expSafe and logSafe clamp their arguments to avoid Inf/NaN excursions
// during line search and finite differencing, where a Newton step can
// briefly overshoot into numerically extreme eta values before
// backtracking corrects it.
func expSafe(x float64) float64 {
	if x > 700 {
		x = 700
	}
	if x < -700 {
		x = -700
	}
	return math.Exp(x)
}

func logSafe(x float64) float64 {
	if x <= 0 {
		return math.Inf(-1)
	}
	return math.Log(x)
}

// sumFloats totals a slice via gonum/floats, the same reduction helper the
// rest of the gonum stack uses instead of a hand-rolled accumulator loop.
func sumFloats(xs []float64) float64 {
	return floats.Sum(xs)
}

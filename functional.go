package survfit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/mathext"
)

// rmstKey names the map entry for RMST truncated at tau, e.g. "rmst@0.5".
func rmstKey(tau float64) string {
	return fmt.Sprintf("rmst@%g", tau)
}

// zCritical is the two-sided Wald z-critical value for significance level
// sig, via gonum's mathext.NormalQuantile (the standard normal inverse
// CDF), the same special-function package the gamma estimator uses for
// Digamma.
func zCritical(sig float64) float64 {
	return mathext.NormalQuantile(1 - sig/2)
}

// seFromGradient applies the delta method: SE(g(theta)) = sqrt(grad' Cov
// grad).
func seFromGradient(cov *mat.SymDense, grad []float64) float64 {
	n := len(grad)
	g := mat.NewVecDense(n, grad)
	var tmp mat.VecDense
	tmp.MulVec(cov, g)
	v := mat.Dot(g, &tmp)
	if v < 0 {
		v = 0
	}
	return math.Sqrt(v)
}

// waldCI builds the two-sided Wald interval. Strictly positive functionals
// (means, variances, RMST, medians) get their interval computed on the log
// scale and exponentiated back, so the lower bound never
// goes negative.
func waldCI(estimate, se float64, positive bool, z float64) (lo, hi float64) {
	if !positive {
		return estimate - z*se, estimate + z*se
	}
	if estimate <= 0 || math.IsNaN(se) {
		return estimate, estimate
	}
	logEst := math.Log(estimate)
	logSE := se / estimate
	return math.Exp(logEst - z*logSE), math.Exp(logEst + z*logSE)
}

// assembleFunctionals turns each family's raw point estimate/gradient into
// a public Functional by attaching its delta-method SE and Wald CI.
func assembleFunctionals(raws map[string]functionalRaw, cov *mat.SymDense, sig float64) map[string]Functional {
	z := zCritical(sig)
	out := make(map[string]Functional, len(raws))
	for name, raw := range raws {
		se := seFromGradient(cov, raw.gradient)
		lo, hi := waldCI(raw.estimate, se, raw.positive, z)
		out[name] = Functional{
			Name:             name,
			Estimate:         raw.estimate,
			SE:               se,
			CILower:          lo,
			CIUpper:          hi,
			Gradient:         raw.gradient,
			QuadratureFailed: raw.quadratureFailed,
		}
	}
	return out
}

package survfit

import "gonum.org/v1/gonum/integrate"

// adaptiveRMST integrates survival on [0, tau] via composite Simpson's rule
// (gonum.org/v1/gonum/integrate.Simpsons), doubling the sample grid until
// successive estimates agree to eps or a hard iteration cap is hit. This is
// the RMST/variance fallback used when a family has no
// closed form; it also backs the generalized-gamma variance, computed as
// E[T^2] = integral of 2t S(t) (the generalized-gamma mean uses its closed
// form).
func adaptiveRMST(survival func(t float64) float64, tau, eps float64) (value float64, ok bool) {
	const maxDoublings = 12
	n := 64
	prev := simpsonsRMST(survival, tau, n)
	for i := 0; i < maxDoublings; i++ {
		n *= 2
		cur := simpsonsRMST(survival, tau, n)
		if abs(cur-prev) < eps*(abs(cur)+1) {
			return cur, true
		}
		prev = cur
	}
	return prev, false
}

func simpsonsRMST(survival func(t float64) float64, tau float64, n int) float64 {
	if n%2 == 1 {
		n++
	}
	x := make([]float64, n+1)
	f := make([]float64, n+1)
	h := tau / float64(n)
	for i := 0; i <= n; i++ {
		t := float64(i) * h
		x[i] = t
		f[i] = survival(t)
	}
	return integrate.Simpsons(x, f)
}

// numGradientCentral computes the central finite-difference gradient of a
// scalar function g at x, the fallback used for
// functionals without an analytic gradient, with a step proportional to the
// scale of each coordinate.
func numGradientCentral(g func([]float64) float64, x []float64) []float64 {
	n := len(x)
	grad := make([]float64, n)
	xp := make([]float64, n)
	xm := make([]float64, n)
	for j := 0; j < n; j++ {
		copy(xp, x)
		copy(xm, x)
		h := fdStep(x[j])
		xp[j] += h
		xm[j] -= h
		grad[j] = (g(xp) - g(xm)) / (2 * h)
	}
	return grad
}

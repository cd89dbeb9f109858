package survfit

import "math"

// goldenSectionMax maximizes a unimodal (or well-behaved) scalar function f
// over [lo, hi] by golden-section search, refining the bracket until its
// width is below tol or maxit iterations have elapsed. This is the outer
// search the generalized-gamma estimator (gengamma.go) runs over beta,
// bracketing the way gonum's optimize.Brent brackets its interval before
// sectioning it (optimize/brent.go's bracket phase), simplified here to a
// fixed, dependency-free golden-section loop since the outer objective is
// only ever 1-dimensional.
func goldenSectionMax(f func(float64) float64, lo, hi float64, tol float64, maxit int) (xBest, fBest float64) {
	const invphi = 0.6180339887498949 // (sqrt(5)-1)/2

	a, b := lo, hi
	c := b - invphi*(b-a)
	d := a + invphi*(b-a)
	fc := f(c)
	fd := f(d)

	for i := 0; i < maxit && (b-a) > tol; i++ {
		if fc > fd {
			b, d, fd = d, c, fc
			c = b - invphi*(b-a)
			fc = f(c)
		} else {
			a, c, fc = c, d, fd
			d = a + invphi*(b-a)
			fd = f(d)
		}
	}

	if fc > fd {
		return c, fc
	}
	return d, fd
}

// bisect finds t in [lo, hi] with f(t) ~ 0 for an f whose values at lo and
// hi differ in sign (increasing or decreasing), refining until the bracket width is below tol or maxit iterations have
// elapsed. Used as the median fallback (solving S(t)-0.5=0) when a family
// has no closed-form quantile.
func bisect(f func(float64) float64, lo, hi, tol float64, maxit int) (root float64, ok bool) {
	flo, fhi := f(lo), f(hi)
	if math.IsNaN(flo) || math.IsNaN(fhi) {
		return 0, false
	}
	if flo*fhi > 0 {
		return 0, false
	}
	for i := 0; i < maxit; i++ {
		mid := (lo + hi) / 2
		fmid := f(mid)
		if abs(fmid) < tol || (hi-lo)/2 < tol {
			return mid, true
		}
		if (flo < 0) == (fmid < 0) {
			lo, flo = mid, fmid
		} else {
			hi, fhi = mid, fmid
		}
	}
	return (lo + hi) / 2, true
}

package survfit

import "gonum.org/v1/gonum/mat"

// newtonProblem describes an unconstrained smooth maximization target. Every
// iterative estimator (weibull.go, gamma.go, gengamma.go, lognormal.go)
// works in a reparameterized coordinate eta (log-space for positive native
// parameters) so that runNewton never has to know about parameter domains;
// the caller's loglik/score closures fold the eta->theta transform and its
// Jacobian in themselves.
type newtonProblem struct {
	dim    int
	loglik func(eta []float64) float64
	score  func(eta []float64) []float64
}

// runNewton performs damped Newton-Raphson ascent on p.loglik starting from
// eta0. The step Hessian is obtained by central-differencing p.score (the
// same finite-difference technique the package already uses for functional
// gradients without closed forms), then solved with VecDense.SolveVec; if
// that system is singular the step falls back to a pseudoinverse via SVD.
//
// Convergence uses a shared stopping rule: max coordinate |step|
// < eps AND relative log-likelihood change < eps, or maxit reached.
// Non-convergence is not an error; the caller gets the last iterate back
// with converged=false.
func runNewton(p newtonProblem, eta0 []float64, eps float64, maxit int, report func(int, float64)) (eta []float64, ll float64, converged bool, iters int) {
	eta = append([]float64(nil), eta0...)
	ll = p.loglik(eta)

	for iter := 1; iter <= maxit; iter++ {
		g := p.score(eta)
		h := centralHessianFromGradient(p.score, eta)

		step, ok := solveNewtonStep(h, g)
		if !ok {
			return eta, ll, false, iter
		}

		// Backtracking: halve the step until the log-likelihood does
		// not get worse, up to a handful of tries.
		next := make([]float64, p.dim)
		var nextLL float64
		accepted := false
		for halving := 0; halving < 8; halving++ {
			for j := range next {
				next[j] = eta[j] - step[j]
			}
			nextLL = p.loglik(next)
			if !isBad(nextLL) && nextLL >= ll-1e-10 {
				accepted = true
				break
			}
			for j := range step {
				step[j] /= 2
			}
		}
		if !accepted {
			return eta, ll, false, iter
		}

		maxStep := 0.0
		for j := range step {
			if a := abs(step[j]); a > maxStep {
				maxStep = a
			}
		}
		relLL := abs(nextLL-ll) / (abs(ll) + 1)

		eta, ll = next, nextLL
		if report != nil {
			report(iter, ll)
		}

		if maxStep < eps && relLL < eps {
			return eta, ll, true, iter
		}
	}
	return eta, ll, false, maxit
}

// centralHessianFromGradient builds the Hessian of a scalar function from
// its analytic gradient via symmetric central differences, one coordinate
// at a time.
func centralHessianFromGradient(score func([]float64) []float64, x []float64) *mat.SymDense {
	n := len(x)
	h := mat.NewDense(n, n, nil)
	step := make([]float64, n)
	for j := range x {
		step[j] = fdStep(x[j])
	}

	xp := make([]float64, n)
	xm := make([]float64, n)
	for j := 0; j < n; j++ {
		copy(xp, x)
		copy(xm, x)
		xp[j] += step[j]
		xm[j] -= step[j]
		gp := score(xp)
		gm := score(xm)
		for i := 0; i < n; i++ {
			// -d(score_i)/d(x_j) is entry (i,j) of the Hessian of
			// -loglik, i.e. the information; we want the Hessian of
			// loglik itself here (sign flipped again by the caller
			// when it forms the Newton step).
			v := (gp[i] - gm[i]) / (2 * step[j])
			h.Set(i, j, v)
		}
	}
	// Symmetrize by averaging off-diagonal finite-difference noise.
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, (h.At(i, j)+h.At(j, i))/2)
		}
	}
	return sym
}

// solveNewtonStep solves h * step = g for the Newton update. h is the
// Hessian of the log-likelihood (negative information); the update is
// h^{-1} g. Falls back to an SVD pseudoinverse when h is singular.
func solveNewtonStep(h *mat.SymDense, g []float64) (step []float64, ok bool) {
	n := len(g)
	var dense mat.Dense
	dense.CloneFrom(h)

	var stepVec mat.VecDense
	rhs := mat.NewVecDense(n, g)
	err := stepVec.SolveVec(&dense, rhs)
	if err == nil {
		return stepVec.RawVector().Data, true
	}

	var svd mat.SVD
	if !svd.Factorize(&dense, mat.SVDFullU|mat.SVDFullV) {
		return nil, false
	}
	rank := svd.Rank(1e-12)
	if rank == 0 {
		return make([]float64, n), true
	}
	rhsDense := mat.NewDense(n, 1, g)
	var sol mat.Dense
	svd.SolveTo(&sol, rhsDense, rank)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = sol.At(i, 0)
	}
	return out, true
}

func fdStep(x float64) float64 {
	ax := abs(x)
	if ax < 1 {
		ax = 1
	}
	return 1e-5 * ax
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func isBad(x float64) bool {
	return x != x || x > 1e300 || x < -1e300
}

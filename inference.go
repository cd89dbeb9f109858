package survfit

import "gonum.org/v1/gonum/mat"

// observedInformation computes J(theta) = -d2(loglik)/d(theta)^2 in the
// native parameterization, by central-differencing the family's analytic
// per-observation score (summed into the total score), exactly the
// technique already used for functional gradients
// without closed forms, extended here to the Hessian.
func observedInformation(fam family, theta []float64, obs ObservationSet) *mat.SymDense {
	scoreAt := func(th []float64) []float64 {
		return totalScore(fam, th, obs)
	}
	hessLL := centralHessianFromGradient(scoreAt, theta)
	n := len(theta)
	info := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			info.SetSym(i, j, -hessLL.At(i, j))
		}
	}
	return info
}

// scoreOuterProduct builds B = sum_i s_i s_i^T, the empirical score
// covariance used by the sandwich estimator.
func scoreOuterProduct(fam family, theta []float64, obs ObservationSet) *mat.SymDense {
	n := len(theta)
	b := mat.NewSymDense(n, nil)
	for _, o := range obs {
		s := fam.score(theta, o)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				b.SetSym(i, j, b.At(i, j)+s[i]*s[j])
			}
		}
	}
	return b
}

// covariance attempts a Cholesky-based positive-definiteness test on J; if
// it passes, Cov=J^-1. Otherwise it falls back to the sandwich Cov = Jpinv
// B Jpinv with Jpinv an SVD pseudoinverse, and flags the result as robust.
func covariance(fam family, theta []float64, obs ObservationSet) (cov *mat.SymDense, robust bool) {
	n := len(theta)
	j := observedInformation(fam, theta, obs)

	var chol mat.Cholesky
	if chol.Factorize(j) {
		var inv mat.SymDense
		if err := chol.InverseTo(&inv); err == nil {
			return symmetrize(&inv, n), false
		}
	}

	// J is not PD (or its Cholesky inverse failed numerically): fall
	// back to the sandwich covariance with a pseudoinverse for J.
	jPinv := pseudoInverse(j, n)
	b := scoreOuterProduct(fam, theta, obs)

	var tmp mat.Dense
	tmp.Mul(jPinv, b)
	var sandwich mat.Dense
	sandwich.Mul(&tmp, jPinv)

	return symmetrize(&sandwich, n), true
}

func pseudoInverse(j *mat.SymDense, n int) *mat.Dense {
	var dense mat.Dense
	dense.CloneFrom(j)

	var svd mat.SVD
	if !svd.Factorize(&dense, mat.SVDFullU|mat.SVDFullV) {
		// Degenerate fallback: zero matrix, which yields a zero (but
		// still symmetric, still usable) covariance rather than a
		// panic.
		return mat.NewDense(n, n, nil)
	}
	rank := svd.Rank(1e-12)
	if rank == 0 {
		return mat.NewDense(n, n, nil)
	}
	identity := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		identity.Set(i, i, 1)
	}
	var pinv mat.Dense
	svd.SolveTo(&pinv, identity, rank)
	return &pinv
}

func symmetrize(m mat.Matrix, n int) *mat.SymDense {
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, (m.At(i, j)+m.At(j, i))/2)
		}
	}
	return sym
}

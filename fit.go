package survfit

// Fit fits the named family to obs by maximum likelihood and returns the
// resulting Fit object: the MLE, its observed-information (or robust
// sandwich) covariance, and the requested functionals with delta-method
// inference.
func Fit(obs ObservationSet, familyName string, opts FitOptions) (*Fit, error) {
	if err := validateSig(opts.sig()); err != nil {
		return nil, err
	}
	fam, err := lookupFamily(familyName)
	if err != nil {
		return nil, err
	}
	if err := obs.validate(); err != nil {
		return nil, err
	}

	desc := fam.descriptor()
	if opts.Init != nil && len(opts.Init) != desc.Arity() {
		return nil, newErr(ErrBadParameterArity, "family %q expects %d parameters, got %d", familyName, desc.Arity(), len(opts.Init))
	}

	maxT := obs.maxTime()
	for _, tauV := range opts.Tau {
		if tauV <= 0 || tauV > maxT {
			return nil, newErr(ErrInvalidTau, "tau %.6g must be in (0, %.6g]", tauV, maxT)
		}
	}

	res, err := fam.fitMLE(obs, opts)
	if err != nil {
		return nil, err
	}

	cov, robust := covariance(fam, res.theta, obs)
	raws := fam.functionals(res.theta, opts.Tau)
	functionals := assembleFunctionals(raws, cov, opts.sig())

	return &Fit{
		Family:      familyName,
		Theta:       res.theta,
		Cov:         cov,
		Robust:      robust,
		Converged:   res.converged,
		Iterations:  res.iterations,
		LogLik:      res.loglik,
		Functionals: functionals,
	}, nil
}

func validateSig(sig float64) error {
	if sig <= 0 || sig >= 1 {
		return newErr(ErrInvalidSig, "significance level %.6g must be in (0,1)", sig)
	}
	return nil
}

package survfit

// functionalRaw is a functional's point estimate, its analytic or
// finite-difference gradient in the native parameterization, and whether it
// is strictly positive (and therefore gets a log-scale CI).
// assembleFunctionals (functional.go) turns this into a public Functional
// once Cov is known.
type functionalRaw struct {
	estimate         float64
	gradient         []float64
	positive         bool
	quadratureFailed bool
}

// family is the per-distribution implementation every registry entry must
// provide: the likelihood kernel, its MLE routine, and its functionals.
// Score is analytic; the Hessian used for observed information is derived
// from Score by the shared central-difference routine
// centralHessianFromGradient (newton.go), called from inference.go, the
// same finite-difference technique used elsewhere for functional
// gradients without closed forms.
type family interface {
	descriptor() FamilyDescriptor

	// logLikTerm returns (log f(t), log S(t)) at theta for one
	// observation time, using tail-safe library routines.
	logLikTerm(theta []float64, t float64) (logf, logS float64)

	// score returns d(loglik contribution)/d(theta) for one observation
	// in the native parameterization.
	score(theta []float64, obs Observation) []float64

	// fitMLE runs the family's estimator and returns the converged (or
	// best-effort) native parameter vector.
	fitMLE(obs ObservationSet, opts FitOptions) (estimatorResult, error)

	// functionals computes mean, median, variance, and RMST(tau) for
	// each requested tau, with gradients, at theta.
	functionals(theta []float64, tau []float64) map[string]functionalRaw
}

var registry = map[string]family{}

func register(name string, f family) {
	registry[name] = f
}

// Families lists the supported distribution family names.
func Families() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// lookupFamily resolves a family name or returns UnknownDistribution.
func lookupFamily(name string) (family, error) {
	f, ok := registry[name]
	if !ok {
		return nil, newErr(ErrUnknownDistribution, "unsupported family %q", name)
	}
	return f, nil
}

// totalLogLik sums the right-censored log-likelihood:
// sum_i [delta_i log f(t_i) + (1-delta_i) log S(t_i)].
func totalLogLik(fam family, theta []float64, obs ObservationSet) float64 {
	terms := make([]float64, len(obs))
	for i, o := range obs {
		logf, logS := fam.logLikTerm(theta, o.Time)
		if o.Event {
			terms[i] = logf
		} else {
			terms[i] = logS
		}
	}
	return sumFloats(terms)
}

// totalScore sums the per-observation score into the total score vector.
func totalScore(fam family, theta []float64, obs ObservationSet) []float64 {
	n := len(theta)
	total := make([]float64, n)
	for _, o := range obs {
		s := fam.score(theta, o)
		for j := 0; j < n; j++ {
			total[j] += s[j]
		}
	}
	return total
}

func etaToTheta(desc FamilyDescriptor, eta []float64) []float64 {
	theta := make([]float64, len(eta))
	for i, p := range desc.Params {
		if p.Domain == PositiveReal {
			theta[i] = expSafe(eta[i])
		} else {
			theta[i] = eta[i]
		}
	}
	return theta
}

func thetaToEta(desc FamilyDescriptor, theta []float64) []float64 {
	eta := make([]float64, len(theta))
	for i, p := range desc.Params {
		if p.Domain == PositiveReal {
			eta[i] = logSafe(theta[i])
		} else {
			eta[i] = theta[i]
		}
	}
	return eta
}

// Package survfit fits parametric survival distributions to right-censored
// time-to-event data by maximum likelihood, derives asymptotic inference for
// the fitted parameters and a handful of summary functionals (mean, median,
// variance, restricted mean survival time), and contrasts two independent
// arms via Wald differences and ratios of those functionals.
package survfit

import "gonum.org/v1/gonum/mat"

// Observation is a single right-censored time-to-event pair.
type Observation struct {
	// Time is the observed time, min(event time, censoring time). Must
	// be strictly positive.
	Time float64
	// Event is true when Time is an observed event, false when Time is
	// a right-censoring time.
	Event bool
}

// ObservationSet is a read-only sequence of observations. Estimators never
// mutate the slice they are given.
type ObservationSet []Observation

// events returns the number of observed events in the set.
func (o ObservationSet) events() int {
	n := 0
	for _, obs := range o {
		if obs.Event {
			n++
		}
	}
	return n
}

// maxTime returns the largest observed time in the set, or 0 for an empty
// set.
func (o ObservationSet) maxTime() float64 {
	m := 0.0
	for _, obs := range o {
		if obs.Time > m {
			m = obs.Time
		}
	}
	return m
}

// validate checks the invariants every family shares: n >= 1, all times
// strictly positive, at least one event.
func (o ObservationSet) validate() error {
	if len(o) == 0 {
		return newErr(ErrNoEvents, "observation set is empty")
	}
	for i, obs := range o {
		if obs.Time <= 0 {
			return newErr(ErrNonPositiveTime, "observation %d: time %.6g is not strictly positive", i, obs.Time)
		}
	}
	if o.events() == 0 {
		return newErr(ErrNoEvents, "no events observed among %d observations", len(o))
	}
	return nil
}

// Domain is the constraint on a native parameter's support.
type Domain int

const (
	// PositiveReal constrains a parameter to (0, +inf); such parameters
	// are optimized in log space.
	PositiveReal Domain = iota
	// RealLine leaves a parameter unconstrained.
	RealLine
)

// ParamSpec names one coordinate of a family's native parameter vector and
// its domain.
type ParamSpec struct {
	Symbol string
	Domain Domain
}

// FamilyDescriptor is the immutable record the registry returns for a
// supported family: its native parameter layout and default initial values.
type FamilyDescriptor struct {
	Name        string
	Params      []ParamSpec
	DefaultInit func(obs ObservationSet) []float64
}

// Arity is the number of native parameters in the family.
func (f FamilyDescriptor) Arity() int { return len(f.Params) }

// FitOptions carries the optional knobs accepted by Fit. The zero value
// selects every default: Sig 0.05, Eps 1e-6, MaxIt 100.
type FitOptions struct {
	// Sig is the two-sided significance level for confidence intervals,
	// default 0.05.
	Sig float64
	// Tau lists RMST truncation times to additionally report. Each must
	// be in (0, max observed time].
	Tau []float64
	// Init overrides the default initial values in the native
	// parameterization. For generalized gamma, supplying Init bypasses
	// the outer bracketed search over beta and launches full
	// three-parameter Newton-Raphson directly from Init.
	Init []float64
	// Eps is the convergence tolerance, default 1e-6.
	Eps float64
	// MaxIt bounds the inner Newton-Raphson iteration count, default
	// 100. The generalized-gamma outer bracket search is capped
	// separately (see gengamma.go), and the inner fits it runs at each
	// trial beta use a fixed cap of 50.
	MaxIt int
	// Report, if non-nil, is called once per Newton-Raphson step with
	// the 1-based iteration count and the current log-likelihood. For
	// generalized gamma only the steps of the final three-parameter pass
	// are reported, not those of the inner fits of the beta search.
	Report func(iter int, loglik float64)
}

func (o FitOptions) sig() float64 {
	if o.Sig == 0 {
		return 0.05
	}
	return o.Sig
}

func (o FitOptions) eps() float64 {
	if o.Eps == 0 {
		return 1e-6
	}
	return o.Eps
}

func (o FitOptions) maxit() int {
	if o.MaxIt == 0 {
		return 100
	}
	return o.MaxIt
}

func (o FitOptions) report(iter int, loglik float64) {
	if o.Report != nil {
		o.Report(iter, loglik)
	}
}

// Functional is a scalar summary of a fitted distribution (mean, median,
// variance, or RMST at a given tau) together with its delta-method standard
// error, Wald confidence interval, and the gradient used to derive the SE.
type Functional struct {
	Name     string
	Estimate float64
	SE       float64
	CILower  float64
	CIUpper  float64
	// Gradient is d(functional)/d(theta) in the native parameterization,
	// evaluated at the MLE.
	Gradient []float64
	// QuadratureFailed is set when this functional had to fall back to
	// numeric quadrature and quadrature could not reach tolerance. The
	// rest of the Fit remains usable.
	QuadratureFailed bool
}

// estimatorResult is the internal, pre-inference output of a per-family
// MLE routine: the converged (or best-effort) native parameter vector, the
// achieved log-likelihood, and convergence bookkeeping. Fit (fit.go) turns
// this into a Fit by attaching covariance and functionals.
type estimatorResult struct {
	theta      []float64
	loglik     float64
	converged  bool
	iterations int
}

// Fit is the immutable result of fitting one family to one observation set.
type Fit struct {
	Family      string
	Theta       []float64
	Cov         *mat.SymDense
	Robust      bool
	Converged   bool
	Iterations  int
	LogLik      float64
	Functionals map[string]Functional
}

// Contrast is the immutable result of comparing two independent fits
// functional-by-functional. Arm1 is the target arm, Arm0 the reference arm.
type Contrast struct {
	Arm1, Arm0  *Fit
	Functionals map[string]ContrastFunctional
}

// ContrastFunctional holds the difference and ratio records for one
// functional shared by both arms of a Contrast.
type ContrastFunctional struct {
	Diff, DiffSE, DiffLo, DiffHi, DiffP      float64
	Ratio, RatioSE, RatioLo, RatioHi, RatioP float64
}

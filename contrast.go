package survfit

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ContrastOptions carries the knobs accepted by FitContrast and
// FitTwoSample. The zero value selects Sig 0.05, matching FitOptions'
// convention. Tau is only consulted by FitTwoSample, which forwards it to
// both per-arm fits so the arms share the same RMST truncation times.
type ContrastOptions struct {
	Sig float64
	Tau []float64
}

func (o ContrastOptions) sig() float64 {
	if o.Sig == 0 {
		return 0.05
	}
	return o.Sig
}

// FitContrast combines two independent fits (arm1 the target, arm0 the
// reference) into differences and ratios of every functional they share,
// with Wald confidence intervals and two-sided p-values.
// Cross-arm covariance is zero by construction: each arm's SE comes solely
// from its own fit.
func FitContrast(arm1, arm0 *Fit, opts ContrastOptions) (*Contrast, error) {
	if arm1 == nil || arm0 == nil {
		return nil, newErr(ErrInvalidContrast, "both arms must be non-nil fits")
	}
	if err := validateSig(opts.sig()); err != nil {
		return nil, err
	}

	z := zCritical(opts.sig())
	functionals := make(map[string]ContrastFunctional)

	for name, g1 := range arm1.Functionals {
		g0, ok := arm0.Functionals[name]
		if !ok {
			continue
		}
		functionals[name] = contrastOne(g1, g0, z)
	}
	if len(functionals) == 0 {
		return nil, newErr(ErrInvalidContrast, "arms share no common functional")
	}

	return &Contrast{Arm1: arm1, Arm0: arm0, Functionals: functionals}, nil
}

// FitTwoSample fits dist1 to the target arm and dist0 to the reference arm
// (the two families need not match), then contrasts the resulting fits.
// Both fits share the significance level and RMST truncation times from
// opts.
func FitTwoSample(obs1, obs0 ObservationSet, dist1, dist0 string, opts ContrastOptions) (*Contrast, error) {
	fitOpts := FitOptions{Sig: opts.Sig, Tau: opts.Tau}
	fit1, err := Fit(obs1, dist1, fitOpts)
	if err != nil {
		return nil, err
	}
	fit0, err := Fit(obs0, dist0, fitOpts)
	if err != nil {
		return nil, err
	}
	return FitContrast(fit1, fit0, opts)
}

var unitNormal = distuv.UnitNormal

// twoSidedP computes the two-sided p-value for a standardized Wald
// statistic z against the standard normal, via distuv.UnitNormal's CDF.
func twoSidedP(z float64) float64 {
	az := math.Abs(z)
	p := 2 * unitNormal.CDF(-az)
	if p > 1 {
		p = 1
	}
	if p < 0 {
		p = 0
	}
	return p
}

func contrastOne(g1, g0 Functional, z float64) ContrastFunctional {
	diff := g1.Estimate - g0.Estimate
	diffSE := math.Sqrt(g1.SE*g1.SE + g0.SE*g0.SE)
	diffLo, diffHi := diff-z*diffSE, diff+z*diffSE
	diffZ := 0.0
	if diffSE > 0 {
		diffZ = diff / diffSE
	}
	diffP := twoSidedP(diffZ)

	logRatio := math.Log(g1.Estimate) - math.Log(g0.Estimate)
	relSE1, relSE0 := 0.0, 0.0
	if g1.Estimate != 0 {
		relSE1 = g1.SE / g1.Estimate
	}
	if g0.Estimate != 0 {
		relSE0 = g0.SE / g0.Estimate
	}
	logRatioSE := math.Sqrt(relSE1*relSE1 + relSE0*relSE0)
	ratio := math.Exp(logRatio)
	ratioLo := math.Exp(logRatio - z*logRatioSE)
	ratioHi := math.Exp(logRatio + z*logRatioSE)
	ratioZ := 0.0
	if logRatioSE > 0 {
		ratioZ = logRatio / logRatioSE
	}
	ratioP := twoSidedP(ratioZ)

	return ContrastFunctional{
		Diff: diff, DiffSE: diffSE, DiffLo: diffLo, DiffHi: diffHi, DiffP: diffP,
		Ratio: ratio, RatioSE: logRatioSE, RatioLo: ratioLo, RatioHi: ratioHi, RatioP: ratioP,
	}
}

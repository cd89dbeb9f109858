package survfit

import "math"

// weibullFamily implements f=alpha*lambda^alpha*t^{alpha-1}*e^{-(lambda t)^alpha},
// S=e^{-(lambda t)^alpha}, theta=(alpha, lambda).
type weibullFamily struct{}

func init() { register("weibull", weibullFamily{}) }

func (weibullFamily) descriptor() FamilyDescriptor {
	return FamilyDescriptor{
		Name: "weibull",
		Params: []ParamSpec{
			{Symbol: "alpha", Domain: PositiveReal},
			{Symbol: "lambda", Domain: PositiveReal},
		},
		DefaultInit: func(obs ObservationSet) []float64 {
			return []float64{1, expFamily{}.descriptor().DefaultInit(obs)[0]}
		},
	}
}

func (weibullFamily) logLikTerm(theta []float64, t float64) (logf, logS float64) {
	alpha, lambda := theta[0], theta[1]
	lt := lambda * t
	pow := math.Pow(lt, alpha)
	logS = -pow
	logf = math.Log(alpha) + alpha*math.Log(lambda) + (alpha-1)*math.Log(t) - pow
	return logf, logS
}

func (weibullFamily) score(theta []float64, obs Observation) []float64 {
	alpha, lambda := theta[0], theta[1]
	t := obs.Time
	lt := lambda * t
	logLt := math.Log(lt)
	pow := math.Pow(lt, alpha)

	// d(logS)/dalpha, d(logS)/dlambda shared by both event and censored
	// terms through the -pow part.
	dPowDAlpha := pow * logLt
	dPowDLambda := alpha * pow / lambda

	dAlpha := -dPowDAlpha
	dLambda := -dPowDLambda
	if obs.Event {
		dAlpha += 1/alpha + math.Log(lambda) + math.Log(t)
		dLambda += alpha / lambda
	}
	return []float64{dAlpha, dLambda}
}

func (f weibullFamily) fitMLE(obs ObservationSet, opts FitOptions) (estimatorResult, error) {
	desc := f.descriptor()
	init := opts.Init
	if init == nil {
		init = desc.DefaultInit(obs)
	}
	eta0 := thetaToEta(desc, init)

	loglik := func(eta []float64) float64 {
		return totalLogLik(f, etaToTheta(desc, eta), obs)
	}
	score := func(eta []float64) []float64 {
		theta := etaToTheta(desc, eta)
		ns := totalScore(f, theta, obs)
		return []float64{ns[0] * theta[0], ns[1] * theta[1]}
	}

	eta, ll, converged, iters := runNewton(newtonProblem{dim: 2, loglik: loglik, score: score}, eta0, opts.eps(), opts.maxit(), opts.report)
	theta := etaToTheta(desc, eta)
	return estimatorResult{theta: theta, loglik: ll, converged: converged, iterations: iters}, nil
}

func (weibullFamily) functionals(theta []float64, tau []float64) map[string]functionalRaw {
	alpha, lambda := theta[0], theta[1]
	g1 := math.Gamma(1 + 1/alpha)
	g2 := math.Gamma(1 + 2/alpha)

	mean := g1 / lambda
	variance := (g2 - g1*g1) / (lambda * lambda)
	median := math.Pow(ln2, 1/alpha) / lambda

	// Every gradient here, in both alpha and lambda, comes from central
	// differences (Gamma' has no elementary closed form).
	meanFn := func(th []float64) float64 { return math.Gamma(1+1/th[0]) / th[1] }
	varFn := func(th []float64) float64 {
		a, l := th[0], th[1]
		return (math.Gamma(1+2/a) - math.Pow(math.Gamma(1+1/a), 2)) / (l * l)
	}
	medianFn := func(th []float64) float64 { return math.Pow(ln2, 1/th[0]) / th[1] }

	out := map[string]functionalRaw{
		"mean":     {estimate: mean, gradient: numGradientCentral(meanFn, theta), positive: true},
		"variance": {estimate: variance, gradient: numGradientCentral(varFn, theta), positive: true},
		"median":   {estimate: median, gradient: numGradientCentral(medianFn, theta), positive: true},
	}

	for _, tauV := range tau {
		rmstFn := func(th []float64) float64 {
			a, l := th[0], th[1]
			surv := func(t float64) float64 { return math.Exp(-math.Pow(l*t, a)) }
			v, _ := adaptiveRMST(surv, tauV, 1e-8)
			return v
		}
		value, ok := adaptiveRMST(func(t float64) float64 { return math.Exp(-math.Pow(lambda*t, alpha)) }, tauV, 1e-8)
		out[rmstKey(tauV)] = functionalRaw{
			estimate:         value,
			gradient:         numGradientCentral(rmstFn, theta),
			positive:         true,
			quadratureFailed: !ok,
		}
	}
	return out
}

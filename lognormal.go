package survfit

import "math"

// lognormalFamily implements f=(1/(t sigma sqrt(2pi))) exp(-(ln t-mu)^2/(2
// sigma^2)), S=1-Phi((ln t-mu)/sigma), theta=(mu, sigma).
type lognormalFamily struct{}

func init() { register("log-normal", lognormalFamily{}) }

const invSqrt2Pi = 0.3989422804014327
const logSqrt2Pi = 0.9189385332046727 // log(sqrt(2*pi))

func (lognormalFamily) descriptor() FamilyDescriptor {
	return FamilyDescriptor{
		Name: "log-normal",
		Params: []ParamSpec{
			{Symbol: "mu", Domain: RealLine},
			{Symbol: "sigma", Domain: PositiveReal},
		},
		DefaultInit: func(obs ObservationSet) []float64 {
			mu, sigma := lognormalMoments(obs)
			return []float64{mu, sigma}
		},
	}
}

func lognormalMoments(obs ObservationSet) (mu, sigma float64) {
	var sum, n float64
	for _, o := range obs {
		if o.Event {
			sum += math.Log(o.Time)
			n++
		}
	}
	if n == 0 {
		return 0, 1
	}
	mu = sum / n
	var ss float64
	for _, o := range obs {
		if o.Event {
			d := math.Log(o.Time) - mu
			ss += d * d
		}
	}
	sigma = math.Sqrt(ss / n)
	if sigma <= 0 {
		sigma = 1
	}
	return mu, sigma
}

// normalUpperTail returns 1-Phi(z) computed as 0.5*erfc(z/sqrt2), the
// stable tail-safe form used in place of 1-CDF.
func normalUpperTail(z float64) float64 {
	return 0.5 * math.Erfc(z/math.Sqrt2)
}

func normalDensity(z float64) float64 {
	return invSqrt2Pi * math.Exp(-z*z/2)
}

func (lognormalFamily) logLikTerm(theta []float64, t float64) (logf, logS float64) {
	mu, sigma := theta[0], theta[1]
	z := (math.Log(t) - mu) / sigma
	logf = -math.Log(t) - math.Log(sigma) - logSqrt2Pi - z*z/2
	logS = logSafe(normalUpperTail(z))
	return logf, logS
}

func (lognormalFamily) score(theta []float64, obs Observation) []float64 {
	mu, sigma := theta[0], theta[1]
	t := obs.Time
	z := (math.Log(t) - mu) / sigma

	if obs.Event {
		return []float64{z / sigma, (z*z - 1) / sigma}
	}

	q := normalUpperTail(z)
	if q <= 0 {
		q = 1e-300
	}
	mills := normalDensity(z) / q
	return []float64{mills / sigma, z * mills / sigma}
}

func (f lognormalFamily) fitMLE(obs ObservationSet, opts FitOptions) (estimatorResult, error) {
	desc := f.descriptor()

	// Uncensored data admits a closed form on log t.
	if obs.events() == len(obs) && opts.Init == nil {
		mu, sigma := lognormalMoments(obs)
		theta := []float64{mu, sigma}
		return estimatorResult{
			theta:      theta,
			loglik:     totalLogLik(f, theta, obs),
			converged:  true,
			iterations: 1,
		}, nil
	}

	init := opts.Init
	if init == nil {
		init = desc.DefaultInit(obs)
	}
	eta0 := []float64{init[0], logSafe(init[1])} // (mu, log sigma)

	etaToThetaLN := func(eta []float64) []float64 { return []float64{eta[0], expSafe(eta[1])} }

	loglik := func(eta []float64) float64 {
		return totalLogLik(f, etaToThetaLN(eta), obs)
	}
	score := func(eta []float64) []float64 {
		theta := etaToThetaLN(eta)
		ns := totalScore(f, theta, obs)
		return []float64{ns[0], ns[1] * theta[1]}
	}

	eta, ll, converged, iters := runNewton(newtonProblem{dim: 2, loglik: loglik, score: score}, eta0, opts.eps(), opts.maxit(), opts.report)
	theta := etaToThetaLN(eta)
	return estimatorResult{theta: theta, loglik: ll, converged: converged, iterations: iters}, nil
}

func (lognormalFamily) functionals(theta []float64, tau []float64) map[string]functionalRaw {
	mu, sigma := theta[0], theta[1]
	mean := math.Exp(mu + sigma*sigma/2)
	median := math.Exp(mu)
	variance := (math.Exp(sigma*sigma) - 1) * math.Exp(2*mu+sigma*sigma)

	varFn := func(th []float64) float64 {
		m, s := th[0], th[1]
		return (math.Exp(s*s) - 1) * math.Exp(2*m+s*s)
	}

	out := map[string]functionalRaw{
		"mean":     {estimate: mean, gradient: []float64{mean, mean * sigma}, positive: true},
		"median":   {estimate: median, gradient: []float64{median, 0}, positive: true},
		"variance": {estimate: variance, gradient: numGradientCentral(varFn, theta), positive: true},
	}

	for _, tauV := range tau {
		rmstFn := func(th []float64) float64 {
			m, s := th[0], th[1]
			surv := func(t float64) float64 { return normalUpperTail((math.Log(t) - m) / s) }
			v, _ := adaptiveRMST(surv, tauV, 1e-8)
			return v
		}
		value, ok := adaptiveRMST(func(t float64) float64 { return normalUpperTail((math.Log(t) - mu) / sigma) }, tauV, 1e-8)
		out[rmstKey(tauV)] = functionalRaw{
			estimate:         value,
			gradient:         numGradientCentral(rmstFn, theta),
			positive:         true,
			quadratureFailed: !ok,
		}
	}
	return out
}

package survfit

import (
	"math"

	"gonum.org/v1/gonum/mathext"
)

// gengammaFamily implements f=(beta*lambda/Gamma(alpha))(lambda
// t)^{alpha*beta-1} e^{-(lambda t)^beta}, S=1-P(alpha,(lambda
// t)^beta)=Q(alpha,(lambda t)^beta), theta=(alpha, beta, lambda). Beta is
// weakly identified, so fitMLE runs a bracketed outer search
// over beta with an inner joint Newton-Raphson in (log alpha, log lambda)
// at each trial beta, then refines with a full 3-parameter Newton-Raphson
// pass around the winner.
type gengammaFamily struct{}

func init() { register("gen-gamma", gengammaFamily{}) }

const (
	gengammaBetaLower = 0.1
	gengammaBetaUpper = 10
)

func (gengammaFamily) descriptor() FamilyDescriptor {
	return FamilyDescriptor{
		Name: "gen-gamma",
		Params: []ParamSpec{
			{Symbol: "alpha", Domain: PositiveReal},
			{Symbol: "beta", Domain: PositiveReal},
			{Symbol: "lambda", Domain: PositiveReal},
		},
		DefaultInit: func(obs ObservationSet) []float64 {
			alphaLambda := gammaMethodOfMomentsInit(obs)
			return []float64{alphaLambda[0], 1, alphaLambda[1]}
		},
	}
}

func (gengammaFamily) logLikTerm(theta []float64, t float64) (logf, logS float64) {
	alpha, beta, lambda := theta[0], theta[1], theta[2]
	x := lambda * t
	lnx := math.Log(x)
	y := math.Exp(beta * lnx) // (lambda t)^beta
	lgam, _ := math.Lgamma(alpha)

	logf = math.Log(beta) + math.Log(lambda) - lgam + (alpha*beta-1)*lnx - y
	q := mathext.GammaIncRegComp(alpha, y)
	logS = logSafe(q)
	return logf, logS
}

func (gengammaFamily) score(theta []float64, obs Observation) []float64 {
	alpha, beta, lambda := theta[0], theta[1], theta[2]
	t := obs.Time
	x := lambda * t
	lnx := math.Log(x)
	y := math.Exp(beta * lnx)

	if obs.Event {
		dAlpha := -mathext.Digamma(alpha) + beta*lnx
		dBeta := 1/beta + alpha*lnx - y*lnx
		dLambda := beta * (alpha - y) / lambda
		return []float64{dAlpha, dBeta, dLambda}
	}

	q := mathext.GammaIncRegComp(alpha, y)
	if q <= 0 {
		q = 1e-300
	}
	lgam, _ := math.Lgamma(alpha)
	dQdy := -math.Exp((alpha-1)*math.Log(y) - y - lgam)

	dAlpha := centralDiff1D(func(a float64) float64 {
		return logSafe(mathext.GammaIncRegComp(a, y))
	}, alpha)
	dBeta := (dQdy * y * lnx) / q
	dLambda := (dQdy * beta * y / lambda) / q
	return []float64{dAlpha, dBeta, dLambda}
}

// innerFit runs a 2-parameter Newton-Raphson in (log alpha, log lambda)
// with beta held fixed, the inner loop of the two-level
// generalized-gamma estimator.
func (f gengammaFamily) innerFit(beta float64, obs ObservationSet, alphaInit, lambdaInit, eps float64, maxit int) (alpha, lambda, ll float64, converged bool, iters int) {
	eta0 := []float64{logSafe(alphaInit), logSafe(lambdaInit)}

	theta := func(eta []float64) []float64 {
		return []float64{expSafe(eta[0]), beta, expSafe(eta[1])}
	}
	loglik := func(eta []float64) float64 {
		return totalLogLik(f, theta(eta), obs)
	}
	score := func(eta []float64) []float64 {
		th := theta(eta)
		ns := totalScore(f, th, obs)
		return []float64{ns[0] * th[0], ns[2] * th[2]}
	}

	eta, ll, converged, iters := runNewton(newtonProblem{dim: 2, loglik: loglik, score: score}, eta0, eps, maxit, nil)
	return expSafe(eta[0]), expSafe(eta[1]), ll, converged, iters
}

// gengammaOuterMaxIt bounds the golden-section bracket refinements over
// beta, the "outer" loop of the two-level estimator.
const gengammaOuterMaxIt = 60

func (f gengammaFamily) fitMLE(obs ObservationSet, opts FitOptions) (estimatorResult, error) {
	eps, maxit := opts.eps(), opts.maxit()

	if opts.Init != nil {
		// A user-supplied init bypasses the outer search and launches
		// the full three-parameter Newton-Raphson directly.
		return f.fullNewton(obs, opts.Init, eps, maxit, opts.report)
	}

	moments := gammaMethodOfMomentsInit(obs)
	alphaInit, lambdaInit := moments[0], moments[1]

	profileLL := func(beta float64) float64 {
		_, _, ll, _, _ := f.innerFit(beta, obs, alphaInit, lambdaInit, eps, 50)
		return ll
	}

	betaBest, _ := goldenSectionMax(profileLL, gengammaBetaLower, gengammaBetaUpper, 1e-3, gengammaOuterMaxIt)
	alphaBest, lambdaBest, _, _, innerIters := f.innerFit(betaBest, obs, alphaInit, lambdaInit, eps, maxit)

	result, err := f.fullNewton(obs, []float64{alphaBest, betaBest, lambdaBest}, eps, maxit, opts.report)
	result.iterations += innerIters
	return result, err
}

// fullNewton runs the unrestricted 3-parameter Newton-Raphson used both for
// the user-supplied-init fast path and for refining around the winning
// outer-search beta.
func (f gengammaFamily) fullNewton(obs ObservationSet, init []float64, eps float64, maxit int, report func(int, float64)) (estimatorResult, error) {
	desc := f.descriptor()
	eta0 := thetaToEta(desc, init)

	loglik := func(eta []float64) float64 {
		return totalLogLik(f, etaToTheta(desc, eta), obs)
	}
	score := func(eta []float64) []float64 {
		th := etaToTheta(desc, eta)
		ns := totalScore(f, th, obs)
		return []float64{ns[0] * th[0], ns[1] * th[1], ns[2] * th[2]}
	}

	eta, ll, converged, iters := runNewton(newtonProblem{dim: 3, loglik: loglik, score: score}, eta0, eps, maxit, report)
	theta := etaToTheta(desc, eta)
	return estimatorResult{theta: theta, loglik: ll, converged: converged, iterations: iters}, nil
}

func (gengammaFamily) functionals(theta []float64, tau []float64) map[string]functionalRaw {
	alpha, beta, lambda := theta[0], theta[1], theta[2]

	meanFn := func(th []float64) float64 {
		a, b, l := th[0], th[1], th[2]
		lgA, _ := math.Lgamma(a)
		lgAB, _ := math.Lgamma(a + 1/b)
		return math.Exp(lgAB-lgA) / l
	}
	mean := meanFn(theta)

	survFor := func(a, b, l float64) func(float64) float64 {
		return func(t float64) float64 {
			return mathext.GammaIncRegComp(a, math.Pow(l*t, b))
		}
	}

	medianFn := func(th []float64) float64 {
		a, b, l := th[0], th[1], th[2]
		s := func(t float64) float64 { return survFor(a, b, l)(t) - 0.5 }
		hi := meanFor(a, b, l) * 6
		if hi <= 0 || math.IsNaN(hi) {
			hi = 10
		}
		root, ok := bisect(s, 1e-12, hi+1e-9, 1e-10, 200)
		if !ok {
			return math.NaN()
		}
		return root
	}
	median := medianFn(theta)

	varFn := func(th []float64) float64 {
		a, b, l := th[0], th[1], th[2]
		surv := survFor(a, b, l)
		m := meanFor(a, b, l)
		tau2 := m * 20
		ex2, ok := adaptiveRMST(func(t float64) float64 { return 2 * t * surv(t) }, tau2, 1e-6)
		if !ok {
			return math.NaN()
		}
		return ex2 - m*m
	}
	variance := varFn(theta)

	out := map[string]functionalRaw{
		"mean":     {estimate: mean, gradient: numGradientCentral(meanFn, theta), positive: true},
		"median":   {estimate: median, gradient: numGradientCentral(medianFn, theta), positive: true},
		"variance": {estimate: variance, gradient: numGradientCentral(varFn, theta), positive: true},
	}

	for _, tauV := range tau {
		rmstFn := func(th []float64) float64 {
			a, b, l := th[0], th[1], th[2]
			v, _ := adaptiveRMST(survFor(a, b, l), tauV, 1e-8)
			return v
		}
		value, ok := adaptiveRMST(survFor(alpha, beta, lambda), tauV, 1e-8)
		out[rmstKey(tauV)] = functionalRaw{
			estimate:         value,
			gradient:         numGradientCentral(rmstFn, theta),
			positive:         true,
			quadratureFailed: !ok,
		}
	}
	return out
}

func meanFor(a, b, l float64) float64 {
	lgA, _ := math.Lgamma(a)
	lgAB, _ := math.Lgamma(a + 1/b)
	return math.Exp(lgAB-lgA) / l
}

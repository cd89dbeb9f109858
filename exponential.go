package survfit

import "math"

// expFamily implements the exponential distribution: f=lambda*e^{-lambda t},
// S=e^{-lambda t}. The only family with a fully closed-form MLE and closed-
// form functionals throughout.
type expFamily struct{}

func init() { register("exp", expFamily{}) }

func (expFamily) descriptor() FamilyDescriptor {
	return FamilyDescriptor{
		Name:   "exp",
		Params: []ParamSpec{{Symbol: "lambda", Domain: PositiveReal}},
		DefaultInit: func(obs ObservationSet) []float64 {
			d, tsum := float64(obs.events()), 0.0
			for _, o := range obs {
				tsum += o.Time
			}
			if d == 0 || tsum == 0 {
				return []float64{1}
			}
			return []float64{d / tsum}
		},
	}
}

func (expFamily) logLikTerm(theta []float64, t float64) (logf, logS float64) {
	lambda := theta[0]
	logS = -lambda * t
	logf = math.Log(lambda) + logS
	return logf, logS
}

func (expFamily) score(theta []float64, obs Observation) []float64 {
	lambda := theta[0]
	if obs.Event {
		return []float64{1/lambda - obs.Time}
	}
	return []float64{-obs.Time}
}

// fitMLE uses the closed form D/T directly; no iteration is needed so the
// result is reported converged in one step.
func (expFamily) fitMLE(obs ObservationSet, opts FitOptions) (estimatorResult, error) {
	d, tsum := 0.0, 0.0
	for _, o := range obs {
		tsum += o.Time
		if o.Event {
			d++
		}
	}
	lambda := d / tsum
	theta := []float64{lambda}
	return estimatorResult{
		theta:      theta,
		loglik:     totalLogLik(expFamily{}, theta, obs),
		converged:  true,
		iterations: 1,
	}, nil
}

func (expFamily) functionals(theta []float64, tau []float64) map[string]functionalRaw {
	lambda := theta[0]
	out := map[string]functionalRaw{
		"mean": {
			estimate: 1 / lambda,
			gradient: []float64{-1 / (lambda * lambda)},
			positive: true,
		},
		"median": {
			estimate: ln2 / lambda,
			gradient: []float64{-ln2 / (lambda * lambda)},
			positive: true,
		},
		"variance": {
			estimate: 1 / (lambda * lambda),
			gradient: []float64{-2 / (lambda * lambda * lambda)},
			positive: true,
		},
	}
	for _, tauV := range tau {
		e := math.Exp(-lambda * tauV)
		rmst := (1 - e) / lambda
		grad := (tauV*e*lambda - (1 - e)) / (lambda * lambda)
		out[rmstKey(tauV)] = functionalRaw{
			estimate: rmst,
			gradient: []float64{grad},
			positive: true,
		}
	}
	return out
}

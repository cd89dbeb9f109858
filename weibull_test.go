package survfit

import (
	"math"
	"testing"
)

// At alpha=1, weibullFamily reduces to the exponential: on exponential data
// it should recover alpha near 1 and the same closed-form rate as expFamily.
func TestWeibull_FitMLE_ReducesToExponential(t *testing.T) {
	times := make([]float64, 200)
	for i := range times {
		// Deterministic quantiles of Exponential(lambda=1.3):
		// t = -ln(1-u) / lambda.
		u := (float64(i) + 0.5) / float64(len(times))
		times[i] = -math.Log(1-u) / 1.3
	}
	obs := uniformObs(times)

	expFit, err := Fit(obs, "exp", FitOptions{})
	if err != nil {
		t.Fatalf("exp Fit error: %v", err)
	}
	weibullFit, err := Fit(obs, "weibull", FitOptions{})
	if err != nil {
		t.Fatalf("weibull Fit error: %v", err)
	}

	if !weibullFit.Converged {
		t.Fatalf("expected convergence")
	}
	if !almostEqual(weibullFit.Theta[0], 1, 0.05) {
		t.Errorf("alpha hat = %v, want close to 1", weibullFit.Theta[0])
	}
	if !almostEqual(weibullFit.Theta[1], expFit.Theta[0], 0.05) {
		t.Errorf("lambda hat = %v, want close to exp lambda hat %v", weibullFit.Theta[1], expFit.Theta[0])
	}
}

// Score at the true generating parameters should average close to zero on
// a large uncensored sample (law of large numbers sanity check for the
// analytic score, via a deterministic synthetic sample rather than a
// random draw).
func TestWeibull_Score_VanishesNearMLE(t *testing.T) {
	times := make([]float64, 200)
	for i := range times {
		// Deterministic quantiles of Weibull(alpha=1.5, lambda=0.8):
		// t = F^{-1}(u) = (-ln(1-u))^{1/alpha} / lambda.
		u := (float64(i) + 0.5) / float64(len(times))
		times[i] = math.Pow(-math.Log(1-u), 1/1.5) / 0.8
	}
	obs := uniformObs(times)
	fit, err := Fit(obs, "weibull", FitOptions{})
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}

	score := totalScore(weibullFamily{}, fit.Theta, obs)
	for i, s := range score {
		if math.Abs(s) > 1e-4 {
			t.Errorf("score[%d] = %v, want near zero at the MLE", i, s)
		}
	}
	if !almostEqual(fit.Theta[0], 1.5, 0.1) {
		t.Errorf("alpha hat = %v, want close to 1.5", fit.Theta[0])
	}
	if !almostEqual(fit.Theta[1], 0.8, 0.1) {
		t.Errorf("lambda hat = %v, want close to 0.8", fit.Theta[1])
	}
}

// median = (ln2)^(1/alpha)/lambda, the Weibull closed form.
func TestWeibull_Median_ClosedForm(t *testing.T) {
	theta := []float64{2.0, 0.5}
	raws := weibullFamily{}.functionals(theta, nil)
	want := math.Pow(math.Ln2, 1/theta[0]) / theta[1]
	if !almostEqual(raws["median"].estimate, want, 1e-9) {
		t.Errorf("median = %v, want %v", raws["median"].estimate, want)
	}
}

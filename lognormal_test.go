package survfit

import (
	"math"
	"testing"
)

// Uncensored data takes the closed-form path (sample mean/sd of log t).
func TestLognormal_FitMLE_ClosedForm(t *testing.T) {
	times := []float64{1, 2, 3, 4, 5, 6, 7}
	obs := uniformObs(times)

	logs := make([]float64, len(times))
	for i, tv := range times {
		logs[i] = math.Log(tv)
	}
	var sum float64
	for _, l := range logs {
		sum += l
	}
	mu := sum / float64(len(logs))
	var ss float64
	for _, l := range logs {
		ss += (l - mu) * (l - mu)
	}
	sigma := math.Sqrt(ss / float64(len(logs)))

	fit, err := Fit(obs, "log-normal", FitOptions{})
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	if !fit.Converged {
		t.Fatalf("expected convergence")
	}
	if !almostEqual(fit.Theta[0], mu, 1e-9) {
		t.Errorf("mu hat = %v, want %v", fit.Theta[0], mu)
	}
	if !almostEqual(fit.Theta[1], sigma, 1e-9) {
		t.Errorf("sigma hat = %v, want %v", fit.Theta[1], sigma)
	}
}

// Censoring forces the Newton path; the resulting score should still
// vanish at convergence.
func TestLognormal_FitMLE_Censored_ScoreVanishes(t *testing.T) {
	obs := ObservationSet{
		{Time: 1, Event: true},
		{Time: 2, Event: true},
		{Time: 3, Event: true},
		{Time: 10, Event: false},
		{Time: 15, Event: false},
	}
	fit, err := Fit(obs, "log-normal", FitOptions{})
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	score := totalScore(lognormalFamily{}, fit.Theta, obs)
	for i, s := range score {
		if math.Abs(s) > 1e-4 {
			t.Errorf("score[%d] = %v, want near zero at the MLE", i, s)
		}
	}
}

// mean=exp(mu+sigma^2/2), median=exp(mu), the log-normal closed forms.
func TestLognormal_Functionals_ClosedForm(t *testing.T) {
	mu, sigma := 0.5, 0.3
	raws := lognormalFamily{}.functionals([]float64{mu, sigma}, nil)
	wantMean := math.Exp(mu + sigma*sigma/2)
	if !almostEqual(raws["mean"].estimate, wantMean, 1e-9) {
		t.Errorf("mean = %v, want %v", raws["mean"].estimate, wantMean)
	}
	wantMedian := math.Exp(mu)
	if !almostEqual(raws["median"].estimate, wantMedian, 1e-9) {
		t.Errorf("median = %v, want %v", raws["median"].estimate, wantMedian)
	}
}

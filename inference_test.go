package survfit

import "testing"

// The exponential's exact information is n/lambda^2 (the negative second
// derivative of the log-likelihood in lambda), so observedInformation
// should match it closely even via central differencing.
func TestObservedInformation_ExponentialClosedForm(t *testing.T) {
	lambda := 1.3
	obs := uniformObs([]float64{1, 2, 3, 4, 5})
	info := observedInformation(expFamily{}, []float64{lambda}, obs)

	want := float64(len(obs)) / (lambda * lambda)
	if !almostEqual(info.At(0, 0), want, 1e-4) {
		t.Errorf("information = %v, want %v", info.At(0, 0), want)
	}
}

// A fully-observed exponential sample has a positive-definite information
// matrix, so covariance should take the Cholesky path, not the robust
// sandwich fallback.
func TestCovariance_UsesCholeskyWhenPositiveDefinite(t *testing.T) {
	obs := uniformObs([]float64{1, 2, 3, 4, 5, 6})
	fit, err := Fit(obs, "exp", FitOptions{})
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	if fit.Robust {
		t.Errorf("expected the Cholesky covariance path, got robust sandwich fallback")
	}
	if fit.Cov.At(0, 0) <= 0 {
		t.Errorf("variance = %v, want positive", fit.Cov.At(0, 0))
	}
}

func TestScoreOuterProduct_SingleObservationIsRankOne(t *testing.T) {
	obs := ObservationSet{{Time: 2, Event: true}}
	b := scoreOuterProduct(expFamily{}, []float64{1.5}, obs)
	s := expFamily{}.score([]float64{1.5}, obs[0])
	if !almostEqual(b.At(0, 0), s[0]*s[0], 1e-9) {
		t.Errorf("B[0][0] = %v, want %v", b.At(0, 0), s[0]*s[0])
	}
}

package survfit

import "testing"

func TestFit_RejectsUnknownFamily(t *testing.T) {
	obs := uniformObs([]float64{1, 2, 3})
	_, err := Fit(obs, "not-a-family", FitOptions{})
	fe, ok := err.(*FitError)
	if !ok || fe.Kind != ErrUnknownDistribution {
		t.Errorf("expected ErrUnknownDistribution, got %v", err)
	}
}

func TestFit_RejectsBadSig(t *testing.T) {
	obs := uniformObs([]float64{1, 2, 3})
	_, err := Fit(obs, "exp", FitOptions{Sig: 1.5})
	fe, ok := err.(*FitError)
	if !ok || fe.Kind != ErrInvalidSig {
		t.Errorf("expected ErrInvalidSig, got %v", err)
	}
}

func TestFit_RejectsTauBeyondMaxTime(t *testing.T) {
	obs := uniformObs([]float64{1, 2, 3})
	_, err := Fit(obs, "exp", FitOptions{Tau: []float64{100}})
	fe, ok := err.(*FitError)
	if !ok || fe.Kind != ErrInvalidTau {
		t.Errorf("expected ErrInvalidTau, got %v", err)
	}
}

func TestFit_RejectsBadInitArity(t *testing.T) {
	obs := uniformObs([]float64{1, 2, 3})
	_, err := Fit(obs, "weibull", FitOptions{Init: []float64{1}})
	fe, ok := err.(*FitError)
	if !ok || fe.Kind != ErrBadParameterArity {
		t.Errorf("expected ErrBadParameterArity, got %v", err)
	}
}

func TestFit_RejectsNonPositiveTime(t *testing.T) {
	obs := ObservationSet{{Time: 0, Event: true}, {Time: 1, Event: true}}
	_, err := Fit(obs, "exp", FitOptions{})
	fe, ok := err.(*FitError)
	if !ok || fe.Kind != ErrNonPositiveTime {
		t.Errorf("expected ErrNonPositiveTime, got %v", err)
	}
}

func TestFit_AcceptsValidTauAtMaxTime(t *testing.T) {
	obs := uniformObs([]float64{1, 2, 3})
	fit, err := Fit(obs, "exp", FitOptions{Tau: []float64{3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := fit.Functionals[rmstKey(3)]; !ok {
		t.Errorf("expected rmst@3 functional to be present")
	}
}

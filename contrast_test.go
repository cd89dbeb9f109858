package survfit

import "testing"

// Two identical arms should contrast to a diff of zero and a ratio of one
// for every shared functional.
func TestFitContrast_IdenticalArmsGiveNullContrast(t *testing.T) {
	obs := uniformObs([]float64{1, 2, 3, 4, 5, 6, 7, 8})
	fit1, err := Fit(obs, "exp", FitOptions{})
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	fit0, err := Fit(obs, "exp", FitOptions{})
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}

	contrast, err := FitContrast(fit1, fit0, ContrastOptions{})
	if err != nil {
		t.Fatalf("FitContrast error: %v", err)
	}
	for name, cf := range contrast.Functionals {
		if !almostEqual(cf.Diff, 0, 1e-9) {
			t.Errorf("%s: diff = %v, want 0", name, cf.Diff)
		}
		if !almostEqual(cf.Ratio, 1, 1e-9) {
			t.Errorf("%s: ratio = %v, want 1", name, cf.Ratio)
		}
		if !almostEqual(cf.DiffP, 1, 1e-6) {
			t.Errorf("%s: diff p-value = %v, want close to 1", name, cf.DiffP)
		}
	}
}

// A clearly shifted arm (systematically longer survival times) should
// register a significant mean difference.
func TestFitContrast_DifferentArmsGiveSignificantContrast(t *testing.T) {
	fast := uniformObs([]float64{1, 1.2, 0.8, 1.1, 0.9, 1.3, 1.0, 0.7, 1.4, 0.6})
	slow := uniformObs([]float64{10, 12, 8, 11, 9, 13, 10, 7, 14, 6})

	fit1, err := Fit(slow, "exp", FitOptions{})
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	fit0, err := Fit(fast, "exp", FitOptions{})
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}

	contrast, err := FitContrast(fit1, fit0, ContrastOptions{})
	if err != nil {
		t.Fatalf("FitContrast error: %v", err)
	}
	mean := contrast.Functionals["mean"]
	if mean.DiffP > 0.01 {
		t.Errorf("mean diff p-value = %v, want a small p-value for a 10x mean shift", mean.DiffP)
	}
	if mean.Ratio <= 1 {
		t.Errorf("mean ratio = %v, want greater than 1 (slow arm over fast arm)", mean.Ratio)
	}
}

// Swapping the arms negates the difference and inverts the ratio, with the
// same p-values either way.
func TestFitContrast_SymmetryUnderArmSwap(t *testing.T) {
	a := uniformObs([]float64{1, 1.2, 0.8, 1.1, 0.9, 1.3, 1.0, 0.7})
	b := uniformObs([]float64{2, 2.4, 1.6, 2.2, 1.8, 2.6, 2.0, 1.4})

	fitA, err := Fit(a, "exp", FitOptions{})
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	fitB, err := Fit(b, "exp", FitOptions{})
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}

	ab, err := FitContrast(fitA, fitB, ContrastOptions{})
	if err != nil {
		t.Fatalf("FitContrast error: %v", err)
	}
	ba, err := FitContrast(fitB, fitA, ContrastOptions{})
	if err != nil {
		t.Fatalf("FitContrast error: %v", err)
	}

	for name, fwd := range ab.Functionals {
		rev := ba.Functionals[name]
		if !almostEqual(fwd.Diff, -rev.Diff, 1e-9) {
			t.Errorf("%s: diff(a,b) = %v, want %v", name, fwd.Diff, -rev.Diff)
		}
		if !almostEqual(fwd.Ratio, 1/rev.Ratio, 1e-9) {
			t.Errorf("%s: ratio(a,b) = %v, want %v", name, fwd.Ratio, 1/rev.Ratio)
		}
		if !almostEqual(fwd.RatioP, rev.RatioP, 1e-9) {
			t.Errorf("%s: ratio p-values differ across swap: %v vs %v", name, fwd.RatioP, rev.RatioP)
		}
	}
}

// FitTwoSample may fit different families to the two arms and must thread
// the shared tau through both, so the arms expose a common RMST functional.
func TestFitTwoSample_CrossFamilyWithSharedTau(t *testing.T) {
	arm1 := uniformObs([]float64{1, 2, 3, 4, 5, 6, 7, 8})
	arm0 := uniformObs([]float64{1.5, 2.5, 3.5, 4.5, 5.5, 6.5, 7.5, 8.5})

	contrast, err := FitTwoSample(arm1, arm0, "log-normal", "exp", ContrastOptions{Tau: []float64{2}})
	if err != nil {
		t.Fatalf("FitTwoSample error: %v", err)
	}
	if contrast.Arm1.Family != "log-normal" || contrast.Arm0.Family != "exp" {
		t.Errorf("arm families = %s, %s; want log-normal, exp", contrast.Arm1.Family, contrast.Arm0.Family)
	}
	if _, ok := contrast.Functionals[rmstKey(2)]; !ok {
		t.Errorf("expected shared rmst@2 contrast functional")
	}
}

func TestFitContrast_RejectsNilArm(t *testing.T) {
	obs := uniformObs([]float64{1, 2, 3})
	fit, err := Fit(obs, "exp", FitOptions{})
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	_, err = FitContrast(fit, nil, ContrastOptions{})
	fe, ok := err.(*FitError)
	if !ok || fe.Kind != ErrInvalidContrast {
		t.Errorf("expected ErrInvalidContrast, got %v", err)
	}
}

func TestTwoSidedP_SymmetricAroundZero(t *testing.T) {
	if !almostEqual(twoSidedP(1.5), twoSidedP(-1.5), 1e-12) {
		t.Errorf("twoSidedP should be symmetric in z")
	}
	if twoSidedP(0) < 0.99 {
		t.Errorf("twoSidedP(0) = %v, want close to 1", twoSidedP(0))
	}
}

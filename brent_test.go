package survfit

import "testing"

// f(x) = -(x-2)^2 + 10 is unimodal with a known maximum of 10 at x=2.
func TestGoldenSectionMax_FindsKnownMaximum(t *testing.T) {
	f := func(x float64) float64 { return -(x-2)*(x-2) + 10 }
	x, fx := goldenSectionMax(f, -5, 10, 1e-6, 100)
	if !almostEqual(x, 2, 1e-3) {
		t.Errorf("x = %v, want close to 2", x)
	}
	if !almostEqual(fx, 10, 1e-3) {
		t.Errorf("f(x) = %v, want close to 10", fx)
	}
}

// f(x) = x-3 crosses zero at x=3.
func TestBisect_FindsKnownRoot(t *testing.T) {
	f := func(x float64) float64 { return x - 3 }
	root, ok := bisect(f, 0, 10, 1e-10, 100)
	if !ok {
		t.Fatalf("expected a bracketed root")
	}
	if !almostEqual(root, 3, 1e-6) {
		t.Errorf("root = %v, want 3", root)
	}
}

func TestBisect_RejectsUnbracketedInterval(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 } // always positive
	_, ok := bisect(f, -1, 1, 1e-6, 50)
	if ok {
		t.Errorf("expected bisect to report no bracketed root")
	}
}

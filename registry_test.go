package survfit

import (
	"sort"
	"testing"
)

func TestFamilies_ListsAllSupportedDistributions(t *testing.T) {
	got := Families()
	sort.Strings(got)
	want := []string{"exp", "gamma", "gen-gamma", "log-normal", "weibull"}
	if len(got) != len(want) {
		t.Fatalf("Families() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Families()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDescriptors_ArityMatchesParameterization(t *testing.T) {
	arities := map[string]int{
		"exp":        1,
		"gamma":      2,
		"gen-gamma":  3,
		"log-normal": 2,
		"weibull":    2,
	}
	for name, want := range arities {
		fam, err := lookupFamily(name)
		if err != nil {
			t.Fatalf("lookupFamily(%q) error: %v", name, err)
		}
		if got := fam.descriptor().Arity(); got != want {
			t.Errorf("%s arity = %d, want %d", name, got, want)
		}
	}
}

// eta<->theta round-trips through the log reparameterization for positive
// parameters and leaves real-line parameters untouched.
func TestEtaThetaTransforms_RoundTrip(t *testing.T) {
	desc := lognormalFamily{}.descriptor()
	theta := []float64{-0.4, 1.7}
	back := etaToTheta(desc, thetaToEta(desc, theta))
	for i := range theta {
		if !almostEqual(back[i], theta[i], 1e-12) {
			t.Errorf("theta[%d] round-trip = %v, want %v", i, back[i], theta[i])
		}
	}
}

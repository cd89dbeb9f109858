package survfit

import "math"

// almostEqual compares floats with an absolute tolerance.
func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// uniformObs wraps a slice of times as a fully-observed (no censoring) set.
func uniformObs(times []float64) ObservationSet {
	obs := make(ObservationSet, len(times))
	for i, t := range times {
		obs[i] = Observation{Time: t, Event: true}
	}
	return obs
}

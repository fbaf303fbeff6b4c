package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual stops the test at the first index where got and
// want differ by more than eps, or if their lengths differ.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, len(want) = %d", len(got), len(want))
	}

	for i := range got {
		if d := math.Abs(got[i] - want[i]); !(d <= eps) {
			t.Fatalf("[%d] got %v, want %v (|diff| %g > %g)", i, got[i], want[i], d, eps)
		}
	}
}

// RequireNearlyEqual stops the test unless got is within eps of want. A
// NaN never matches.
func RequireNearlyEqual(t testing.TB, name string, got, want, eps float64) {
	t.Helper()

	if !(math.Abs(got-want) <= eps) {
		t.Fatalf("%s = %.6f, want %.6f +/- %g", name, got, want, eps)
	}
}

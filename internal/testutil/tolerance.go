package testutil

import (
	"math"
	"testing"
)

// RequireNearlyEqual fails t if got and want differ by more than eps.
func RequireNearlyEqual(t *testing.T, got, want, eps float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Fatalf("got %v, want %v (diff %v > eps %v)", got, want, math.Abs(got-want), eps)
	}
}

// RequireSliceNearlyEqual fails t unless got and want have the same length
// and agree element-wise within eps. The report names the first bad bin and
// how many bins are off.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d values, want %d", len(got), len(want))
	}
	first, bad := -1, 0
	for i, g := range got {
		if !(math.Abs(g-want[i]) <= eps) {
			if first < 0 {
				first = i
			}
			bad++
		}
	}
	if bad > 0 {
		t.Fatalf("%d of %d values off by more than %v; first at %d: got %v, want %v",
			bad, len(got), eps, first, got[first], want[first])
	}
}

// RequireProbabilities fails t unless vals are finite, non-negative and sum
// to 1, as the values of a sum-normalized distribution must.
func RequireProbabilities(t *testing.T, vals []float64) {
	t.Helper()
	var sum float64
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			t.Fatalf("value %d is %v", i, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("values sum to %v, want 1", sum)
	}
}

// CircularCentDiff returns the smallest distance between two cent values on
// the octave circle, in [0, 600].
func CircularCentDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 1200)
	if d > 600 {
		d = 1200 - d
	}
	return d
}

package testutil

import "testing"

func TestCircularCentDiff(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{0, 0, 0},
		{0, 1200, 0},
		{10, 1190, 20},
		{-50, 50, 100},
		{0, 600, 600},
		{2400, 2450, 50},
	}
	for _, tt := range tests {
		if got := CircularCentDiff(tt.a, tt.b); got != tt.want {
			t.Fatalf("CircularCentDiff(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRequireProbabilitiesAccepts(t *testing.T) {
	RequireProbabilities(t, []float64{0, 0.25, 0.75})
	RequireSliceNearlyEqual(t, []float64{1, 2}, []float64{1.05, 2}, 0.1)
}

package distance

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-makam/internal/testutil"
)

func TestCompute(t *testing.T) {
	a := []float64{0.5, 0.5, 0}
	b := []float64{0, 0.5, 0.5}

	tests := []struct {
		m    Method
		want float64
	}{
		{L1, 1},
		{L2, math.Sqrt(0.5)},
		{L3, math.Cbrt(0.25)},
		{Bhattacharyya, -math.Log(0.5)},
		{Intersection, 0.5},
		{Correlation, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.m.String(), func(t *testing.T) {
			got, err := Compute(a, b, tt.m)
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			testutil.RequireNearlyEqual(t, got, tt.want, 1e-12)
		})
	}
}

func TestComputeIdentical(t *testing.T) {
	a := []float64{0.1, 0.2, 0.3, 0.4}
	for m := L1; m <= Correlation; m++ {
		got, err := Compute(a, a, m)
		if err != nil {
			t.Fatalf("%s: %v", m, err)
		}
		if math.Abs(got) > 1e-12 && m != Bhattacharyya {
			t.Fatalf("%s: distance to self = %v, want 0", m, got)
		}
	}
	// Bhattacharyya of a sum-normalized distribution with itself is -ln(1) = 0.
	got, _ := Compute(a, a, Bhattacharyya)
	testutil.RequireNearlyEqual(t, got, 0, 1e-12)
}

func TestBhattacharyyaDisjoint(t *testing.T) {
	got, err := Compute([]float64{1, 0}, []float64{0, 1}, Bhattacharyya)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !math.IsInf(got, 1) {
		t.Fatalf("got %v, want +Inf", got)
	}
}

func TestCorrelationConstant(t *testing.T) {
	got, err := Compute([]float64{1, 1, 1}, []float64{0, 1, 2}, Correlation)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got != 2 {
		t.Fatalf("got %v, want 2", got)
	}
}

func TestComputeErrors(t *testing.T) {
	if _, err := Compute([]float64{1}, []float64{1, 2}, L1); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
	if _, err := Compute(nil, nil, L1); !errors.Is(err, ErrEmpty) {
		t.Fatalf("err = %v, want ErrEmpty", err)
	}
	if _, err := Compute([]float64{1}, []float64{1}, Method(99)); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("err = %v, want ErrUnknownMethod", err)
	}
}

func TestParseMethod(t *testing.T) {
	tests := map[string]Method{
		"l1":            L1,
		"Manhattan":     L1,
		"euclidean":     L2,
		"l3":            L3,
		"bhat":          Bhattacharyya,
		"bhattacharyya": Bhattacharyya,
		" intersection": Intersection,
		"corr":          Correlation,
	}
	for in, want := range tests {
		got, err := ParseMethod(in)
		if err != nil {
			t.Fatalf("ParseMethod(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseMethod(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseMethod("cosine"); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("err = %v, want ErrUnknownMethod", err)
	}
}

package testutil

import (
	"math"
	"testing"
)

func TestTone(t *testing.T) {
	s := Tone(1000, 48000, 0.5, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if s[0] != 0 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	// A quarter period in: 12 samples of a 48-sample cycle.
	if math.Abs(s[12]-0.5) > 1e-12 {
		t.Fatalf("s[12] = %v, want 0.5", s[12])
	}
}

func TestConstantPitch(t *testing.T) {
	p := ConstantPitch(220, 5)
	if len(p) != 5 {
		t.Fatalf("len = %d, want 5", len(p))
	}
	for i, v := range p {
		if v != 220 {
			t.Fatalf("p[%d] = %v, want 220", i, v)
		}
	}
}

func TestMelodyReproducible(t *testing.T) {
	a := Melody(220, []float64{0, 200, 500}, 10, 5, 7)
	b := Melody(220, []float64{0, 200, 500}, 10, 5, 7)
	if len(a) != 30 {
		t.Fatalf("len = %d, want 30", len(a))
	}
	RequireSliceNearlyEqual(t, a, b, 0)
}

func TestMelodyWithoutJitterHitsDegrees(t *testing.T) {
	m := Melody(440, []float64{0, 1200}, 2, 0, 1)
	RequireSliceNearlyEqual(t, m, []float64{440, 440, 880, 880}, 1e-9)
}

func TestUnvoice(t *testing.T) {
	p := Unvoice(ConstantPitch(100, 7), 3)
	want := []float64{0, 100, 100, 0, 100, 100, 0}
	RequireSliceNearlyEqual(t, p, want, 0)
}

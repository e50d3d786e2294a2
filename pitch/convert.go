package pitch

import "math"

const (
	// MinFreq is the lowest frequency treated as voiced, in Hz.
	MinFreq = 20.0

	// CentsPerOctave is the size of an octave in cents.
	CentsPerOctave = 1200.0
)

// HzToCent converts hz to cents relative to ref. Frequencies below MinFreq
// (including 0 and negative "unvoiced" markers) and NaN return NaN.
func HzToCent(hz, ref float64) float64 {
	if math.IsNaN(hz) || hz < MinFreq || !ValidFreq(ref) {
		return math.NaN()
	}
	return CentsPerOctave * log2(hz/ref)
}

// ValidFreq reports whether hz can serve as a reference or tonic frequency:
// finite and positive.
func ValidFreq(hz float64) bool {
	return hz > 0 && !math.IsInf(hz, 1)
}

// HzToCentSlice converts every element of hz, see [HzToCent].
func HzToCentSlice(hz []float64, ref float64) []float64 {
	if hz == nil {
		return nil
	}
	out := make([]float64, len(hz))
	for i, v := range hz {
		out[i] = HzToCent(v, ref)
	}
	return out
}

// CentToHz converts cents relative to ref back to Hz. NaN stays NaN.
func CentToHz(cent, ref float64) float64 {
	if math.IsNaN(cent) {
		return math.NaN()
	}
	return ref * math.Exp2(cent/CentsPerOctave)
}

// CentToHzSlice converts every element of cent, see [CentToHz].
func CentToHzSlice(cent []float64, ref float64) []float64 {
	if cent == nil {
		return nil
	}
	out := make([]float64, len(cent))
	for i, v := range cent {
		out[i] = CentToHz(v, ref)
	}
	return out
}

// WrapCent folds a cent value onto [0, 1200).
func WrapCent(cent float64) float64 {
	w := math.Mod(cent, CentsPerOctave)
	if w < 0 {
		w += CentsPerOctave
	}
	// -0 and values that round up to a full octave.
	if w >= CentsPerOctave || w == 0 {
		return 0
	}
	return w
}

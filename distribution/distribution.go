package distribution

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/cwbudde/algo-makam/internal/smooth"
	"github.com/cwbudde/algo-makam/pitch"
)

// Distribution is a (possibly smoothed) pitch histogram.
type Distribution struct {
	Bins        []float64 `json:"bins"`
	Vals        []float64 `json:"vals"`
	RefFreq     float64   `json:"ref_freq,omitempty"` // 0 means Bins are in Hz
	KernelWidth float64   `json:"kernel_width"`
	StepSize    float64   `json:"step_size"`
	Norm        NormType  `json:"norm_type"`
}

// FromCentPitch builds a distribution from a pitch stream in cents relative to
// the configured reference frequency. NaN and infinite values are dropped.
func FromCentPitch(cents []float64, opts ...Option) (*Distribution, error) {
	cfg := applyOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	minIdx, maxIdx, err := binRange(cents, cfg.stepSize)
	if err != nil {
		return nil, err
	}

	counts := make([]float64, maxIdx-minIdx+1)
	for _, c := range cents {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			continue
		}
		counts[binIndex(c, cfg.stepSize)-minIdx]++
	}

	vals := counts
	first := minIdx
	if cfg.kernelWidth > 0 {
		kernel, err := smooth.Gaussian(cfg.kernelWidth, cfg.stepSize)
		if err != nil {
			return nil, fmt.Errorf("distribution: %w", err)
		}
		// Full convolution keeps the tails the kernel spreads past the
		// outermost occupied bins.
		vals, err = smooth.Full(counts, kernel)
		if err != nil {
			return nil, fmt.Errorf("distribution: %w", err)
		}
		first -= (len(kernel) - 1) / 2
	}

	bins := make([]float64, len(vals))
	for i := range bins {
		bins[i] = float64(first+i) * cfg.stepSize
	}

	d := &Distribution{
		Bins:        bins,
		Vals:        vals,
		RefFreq:     cfg.refFreq,
		KernelWidth: cfg.kernelWidth,
		StepSize:    cfg.stepSize,
	}
	if err := d.Normalize(cfg.norm); err != nil {
		return nil, err
	}
	return d, nil
}

// FromHzPitch converts hz to cents against the configured reference frequency
// and delegates to [FromCentPitch]. Frequencies below [pitch.MinFreq] are
// treated as unvoiced.
func FromHzPitch(hz []float64, opts ...Option) (*Distribution, error) {
	cfg := applyOptions(opts)
	if !pitch.ValidFreq(cfg.refFreq) {
		return nil, ErrRefFreq
	}
	return FromCentPitch(pitch.HzToCentSlice(hz, cfg.refFreq), opts...)
}

// binRange returns the lowest and highest grid index occupied by the finite
// values of cents. Values beyond MaxCent and ranges wider than maxBins are
// rejected before anything is allocated.
func binRange(cents []float64, step float64) (lo, hi int, err error) {
	minC, maxC := math.Inf(1), math.Inf(-1)
	for _, c := range cents {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			continue
		}
		if math.Abs(c) > MaxCent {
			return 0, 0, fmt.Errorf("%w: %v cents exceeds %v", ErrPitchRange, c, MaxCent)
		}
		minC = min(minC, c)
		maxC = max(maxC, c)
	}
	if math.IsInf(minC, 1) {
		return 0, 0, ErrNoPitch
	}

	flo := math.Floor(minC/step + 0.5)
	fhi := math.Floor(maxC/step + 0.5)
	if fhi-flo+1 > maxBins || math.Max(math.Abs(flo), math.Abs(fhi)) > math.MaxInt32 {
		return 0, 0, fmt.Errorf("%w: [%v, %v] cents at step %v", ErrPitchRange, minC, maxC, step)
	}
	return int(flo), int(fhi), nil
}

// binIndex returns the grid index of the bin whose center is nearest to c.
func binIndex(c, step float64) int {
	return int(math.Floor(c/step + 0.5))
}

// Len returns the number of bins.
func (d *Distribution) Len() int {
	return len(d.Bins)
}

// HasHzBins reports whether the bins are frequencies in Hz.
func (d *Distribution) HasHzBins() bool {
	return d.RefFreq == 0
}

// HasCentBins reports whether the bins are cents relative to RefFreq.
func (d *Distribution) HasCentBins() bool {
	return d.RefFreq > 0
}

// IsPCD reports whether d is a pitch-class distribution: cent bins covering
// exactly one octave within [0, 1200).
func (d *Distribution) IsPCD() bool {
	if !d.HasCentBins() || d.StepSize <= 0 || len(d.Bins) == 0 {
		return false
	}
	if math.Abs(float64(len(d.Bins))*d.StepSize-pitch.CentsPerOctave) > 1e-6 {
		return false
	}
	for _, b := range d.Bins {
		if b < 0 || b >= pitch.CentsPerOctave {
			return false
		}
	}
	return true
}

// Type returns FeaturePCD for a pitch-class distribution and FeaturePD
// otherwise.
func (d *Distribution) Type() FeatureType {
	if d.IsPCD() {
		return FeaturePCD
	}
	return FeaturePD
}

// Validate checks the structural invariants of d.
func (d *Distribution) Validate() error {
	if len(d.Bins) != len(d.Vals) {
		return fmt.Errorf("%w: %d bins, %d vals", ErrLengthMismatch, len(d.Bins), len(d.Vals))
	}
	if !(d.StepSize > 0) || math.IsInf(d.StepSize, 1) {
		return ErrStepSize
	}
	if !(d.KernelWidth >= 0) || math.IsInf(d.KernelWidth, 1) {
		return ErrKernelWidth
	}
	if d.RefFreq != 0 && !pitch.ValidFreq(d.RefFreq) {
		return ErrRefFreq
	}
	if _, err := ParseNormType(string(d.Norm)); err != nil {
		return err
	}
	return nil
}

// Clone returns a deep copy of d.
func (d *Distribution) Clone() *Distribution {
	c := *d
	c.Bins = append([]float64(nil), d.Bins...)
	c.Vals = append([]float64(nil), d.Vals...)
	return &c
}

// Equal reports whether d and o have the same settings and bins and values
// within tol of each other.
func (d *Distribution) Equal(o *Distribution, tol float64) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.Norm != o.Norm || len(d.Bins) != len(o.Bins) || len(d.Vals) != len(o.Vals) {
		return false
	}
	if !scalar.EqualWithinAbs(d.RefFreq, o.RefFreq, tol) ||
		!scalar.EqualWithinAbs(d.StepSize, o.StepSize, tol) ||
		!scalar.EqualWithinAbs(d.KernelWidth, o.KernelWidth, tol) {
		return false
	}
	return floats.EqualApprox(d.Bins, o.Bins, tol) && floats.EqualApprox(d.Vals, o.Vals, tol)
}

// HzToCent re-expresses Hz bins as cents relative to ref.
func (d *Distribution) HzToCent(ref float64) error {
	if !pitch.ValidFreq(ref) {
		return ErrRefFreq
	}
	if !d.HasHzBins() {
		return ErrCentBins
	}
	for _, b := range d.Bins {
		if b <= 0 {
			return fmt.Errorf("distribution: non-positive Hz bin %v", b)
		}
	}
	for i, b := range d.Bins {
		d.Bins[i] = pitch.CentsPerOctave * math.Log2(b/ref)
	}
	d.RefFreq = ref
	return nil
}

// CentToHz re-expresses cent bins as frequencies in Hz and drops the
// reference frequency.
func (d *Distribution) CentToHz() error {
	if d.HasHzBins() {
		return ErrHzBins
	}
	if d.IsPCD() {
		return ErrPCDToHz
	}
	for i, b := range d.Bins {
		d.Bins[i] = pitch.CentToHz(b, d.RefFreq)
	}
	d.RefFreq = 0
	return nil
}

// ToPCD folds d onto a single octave. A distribution that already is a PCD is
// left unchanged.
func (d *Distribution) ToPCD() error {
	if d.HasHzBins() {
		return ErrHzBins
	}
	if d.IsPCD() {
		return nil
	}
	n, err := pcdLen(d.StepSize)
	if err != nil {
		return err
	}

	vals := make([]float64, n)
	for i, b := range d.Bins {
		k := binIndex(pitch.WrapCent(b), d.StepSize) % n
		vals[k] += d.Vals[i]
	}
	bins := make([]float64, n)
	for k := range bins {
		bins[k] = float64(k) * d.StepSize
	}

	d.Bins = bins
	d.Vals = vals
	return d.Normalize(d.Norm)
}

// pcdLen returns the number of PCD bins for step, which must divide 1200.
func pcdLen(step float64) (int, error) {
	if step <= 0 {
		return 0, ErrStepSize
	}
	n := pitch.CentsPerOctave / step
	r := math.Round(n)
	if r < 1 || math.Abs(n-r) > 1e-9 {
		return 0, fmt.Errorf("%w: %v does not divide an octave", ErrStepSize, step)
	}
	return int(r), nil
}

// Normalize scales the values: NormSum makes them sum to 1, NormMax makes the
// peak 1, NormNone keeps them. All-zero values are left as they are.
func (d *Distribution) Normalize(n NormType) error {
	n, err := ParseNormType(string(n))
	if err != nil {
		return err
	}

	var div float64
	switch n {
	case NormSum:
		div = floats.Sum(d.Vals)
	case NormMax:
		if len(d.Vals) > 0 {
			div = floats.Max(d.Vals)
		}
	}
	if div > 0 {
		vecmath.ScaleBlockInPlace(d.Vals, 1/div)
	}
	d.Norm = n
	return nil
}

// Shift returns a copy of d re-referenced so that bin idx becomes 0 cents. The
// new RefFreq is the frequency of that bin. A PCD is rotated circularly; a PD
// keeps its values and relabels the bins.
func (d *Distribution) Shift(idx int) (*Distribution, error) {
	if d.HasHzBins() {
		return nil, ErrHzBins
	}
	if idx < 0 || idx >= len(d.Bins) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrShiftIndex, idx, len(d.Bins))
	}

	out := d.Clone()
	out.RefFreq = pitch.CentToHz(d.Bins[idx], d.RefFreq)

	if d.IsPCD() {
		n := len(d.Vals)
		for i := range out.Vals {
			out.Vals[i] = d.Vals[(i+idx)%n]
		}
		return out, nil
	}

	offset := d.Bins[idx]
	for i := range out.Bins {
		out.Bins[i] -= offset
	}
	return out, nil
}

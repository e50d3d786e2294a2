package distribution

import (
	"fmt"
	"math"
)

// grid returns the grid index of the first bin of d. Cent bins that are off
// the step grid are snapped to the nearest grid point.
func (d *Distribution) grid() int {
	if len(d.Bins) == 0 {
		return 0
	}
	return binIndex(d.Bins[0], d.StepSize)
}

func checkComparable(a, b *Distribution) error {
	if a.HasHzBins() || b.HasHzBins() {
		return fmt.Errorf("%w: %w", ErrIncompatible, ErrHzBins)
	}
	if math.Abs(a.StepSize-b.StepSize) > 1e-9 {
		return fmt.Errorf("%w: step size %v vs %v", ErrIncompatible, a.StepSize, b.StepSize)
	}
	if a.Type() != b.Type() {
		return fmt.Errorf("%w: %s vs %s", ErrIncompatible, a.Type(), b.Type())
	}
	return nil
}

// Align returns the values of a and b on a common cent grid. PCDs must have
// the same number of bins; PDs are zero-padded to the union of their ranges.
// Both distributions must share the step size and feature type.
func Align(a, b *Distribution) (av, bv []float64, err error) {
	if err := checkComparable(a, b); err != nil {
		return nil, nil, err
	}

	if a.IsPCD() {
		if len(a.Vals) != len(b.Vals) {
			return nil, nil, fmt.Errorf("%w: %d vs %d bins", ErrIncompatible, len(a.Vals), len(b.Vals))
		}
		return a.Vals, b.Vals, nil
	}

	ga, gb := a.grid(), b.grid()
	lo := min(ga, gb)
	hi := max(ga+len(a.Vals), gb+len(b.Vals))

	av = make([]float64, hi-lo)
	bv = make([]float64, hi-lo)
	copy(av[ga-lo:], a.Vals)
	copy(bv[gb-lo:], b.Vals)
	return av, bv, nil
}

// Sum adds distributions bin by bin on their common grid and normalizes the
// result with the norm type of the first distribution. The result takes the
// reference frequency and kernel width of the first distribution; each
// input's bins are read relative to its own reference.
func Sum(ds ...*Distribution) (*Distribution, error) {
	if len(ds) == 0 {
		return nil, ErrNoPitch
	}
	first := ds[0]
	for _, d := range ds[1:] {
		if err := checkComparable(first, d); err != nil {
			return nil, err
		}
	}

	if first.IsPCD() {
		out := first.Clone()
		for _, d := range ds[1:] {
			if len(d.Vals) != len(out.Vals) {
				return nil, fmt.Errorf("%w: %d vs %d bins", ErrIncompatible, len(d.Vals), len(out.Vals))
			}
			for i, v := range d.Vals {
				out.Vals[i] += v
			}
		}
		return out, out.Normalize(first.Norm)
	}

	lo, hi := math.MaxInt, math.MinInt
	for _, d := range ds {
		g := d.grid()
		lo = min(lo, g)
		hi = max(hi, g+len(d.Vals))
	}
	vals := make([]float64, hi-lo)
	for _, d := range ds {
		off := d.grid() - lo
		for i, v := range d.Vals {
			vals[off+i] += v
		}
	}
	bins := make([]float64, len(vals))
	for i := range bins {
		bins[i] = float64(lo+i) * first.StepSize
	}

	out := &Distribution{
		Bins:        bins,
		Vals:        vals,
		RefFreq:     first.RefFreq,
		KernelWidth: first.KernelWidth,
		StepSize:    first.StepSize,
	}
	return out, out.Normalize(first.Norm)
}

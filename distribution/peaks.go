package distribution

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-makam/pitch"
)

// Peak is a local maximum of a distribution.
type Peak struct {
	Index int     // bin index of the maximum
	Bin   float64 // parabolically refined position in the unit of Bins
	Value float64 // height at Index
}

// DetectPeaks returns the local maxima whose height is at least
// minPeakRatio times the global maximum, highest first. The neighbours of a
// PCD wrap around the octave; the outermost bins of a PD compare against an
// implicit zero. Plateaus report their first bin.
func (d *Distribution) DetectPeaks(minPeakRatio float64) []Peak {
	n := len(d.Vals)
	if n == 0 {
		return nil
	}
	top := floats.Max(d.Vals)
	if top <= 0 {
		return nil
	}
	thresh := minPeakRatio * top
	circular := d.IsPCD()

	at := func(i int) (float64, bool) {
		if circular {
			return d.Vals[(i%n+n)%n], true
		}
		if i < 0 || i >= n {
			return 0, false
		}
		return d.Vals[i], true
	}

	var peaks []Peak
	for i, v := range d.Vals {
		if v <= 0 || v < thresh {
			continue
		}
		left, _ := at(i - 1)
		right, _ := at(i + 1)
		if n > 1 && (v <= left || v < right) {
			continue
		}
		peaks = append(peaks, Peak{Index: i, Bin: d.refine(i, at), Value: v})
	}

	sort.SliceStable(peaks, func(a, b int) bool {
		return peaks[a].Value > peaks[b].Value
	})
	return peaks
}

// refine fits a parabola through the peak and its neighbours and returns the
// vertex position in the bin unit of d.
func (d *Distribution) refine(i int, at func(int) (float64, bool)) float64 {
	a, okA := at(i - 1)
	b, _ := at(i)
	c, okC := at(i + 1)
	if !okA || !okC {
		return d.Bins[i]
	}
	den := a - 2*b + c
	if den == 0 {
		return d.Bins[i]
	}
	p := 0.5 * (a - c) / den

	if d.HasHzBins() {
		// Hz bins are not evenly spaced.
		return d.Bins[i]
	}

	pos := d.Bins[i] + p*d.StepSize
	if d.IsPCD() {
		pos = pitch.WrapCent(pos)
	}
	return pos
}

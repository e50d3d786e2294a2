// Package distribution builds and manipulates pitch distributions (PD) and
// pitch-class distributions (PCD).
//
// A distribution is a smoothed histogram of a pitch stream. Bins are either
// frequencies in Hz (RefFreq == 0) or cents relative to RefFreq. Cent bins are
// centered on multiples of the step size, so 0 cents (the reference) is
// always a bin center and two distributions with the same step share a grid:
//
//	d, err := distribution.FromHzPitch(track.Pitch,
//		distribution.WithRefFreq(tonic),
//		distribution.WithStepSize(7.5),
//		distribution.WithKernelWidth(7.5))
//	err = d.ToPCD()
//
// A PCD folds the cent axis onto one octave, [0, 1200), with 1200/step bins.
// The step size must divide 1200 for the fold to be defined.
package distribution

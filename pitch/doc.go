// Package pitch holds pitch tracks and the Hz/cent conversions used by the
// distribution and estimation packages.
//
// A pitch track is read from a whitespace-delimited matrix. A single column is
// taken as the pitch stream. With two or more columns the first is the
// timestamp, the second the pitch in Hz, and the remaining columns are kept
// untouched:
//
//	0.000  0       0.00
//	0.003  221.34  0.82
//	0.006  221.90  0.85
//
// Cent values are relative to a reference frequency:
//
//	cent = 1200 * log2(hz / ref)
//
// Frequencies below [MinFreq] are unvoiced and convert to NaN.
package pitch

// Package extract estimates a monophonic pitch track from audio.
//
// Each analysis frame is processed with the YIN estimator: the squared
// difference function (computed through an FFT cross-correlation), its
// cumulative-mean normalization, the absolute threshold search and parabolic
// refinement of the period. Frames that are too quiet or have no period
// under the threshold are reported as unvoiced (pitch 0).
//
// The resulting [pitch.Track] has a time column and one extra column holding
// the per-frame confidence (one minus the YIN aperiodicity), which is the
// same layout [pitch.Read] accepts for a three-column pitch file.
package extract

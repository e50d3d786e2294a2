// Package feature normalizes heterogeneous pitch inputs into the pitch
// distribution features used for tonic identification and mode recognition.
//
// The same [Parser] settings (step size, kernel width, feature type) must be
// used for training and estimation; a Parser refuses models whose features do
// not match its own.
//
// Accepted inputs are:
//
//   - *distribution.Distribution: a pre-built distribution
//   - []float64: a pitch stream
//   - [][]float64: a time/pitch/... matrix; column 1 is the pitch
//   - *pitch.Track or pitch.Track
//   - pitch.File or string: path of a whitespace-delimited pitch-track file
//
// Pitch values are in Hz unless stated otherwise. Without a tonic, tonic and
// joint estimation use a fixed dummy reference of 220 Hz.
package feature

// Package classifier identifies the tonic and the makam (mode) of a recording
// by k-nearest-neighbour search over pitch distribution models.
//
// Training turns annotated recordings into tonic-referenced features. For
// tonic identification every peak of the test distribution is tried as a
// tonic candidate: the distribution is shifted so the peak becomes 0 cents and
// compared against the models. The k closest (candidate, model) pairs vote;
// ties are broken by the smaller summed distance.
//
// With pitch-class features the estimated tonic is a pitch class: it is
// reported in the octave above the 220 Hz dummy reference.
package classifier

// Command makam analyses the pitch content of makam music recordings.
//
// Usage:
//
//	makam <command> [flags] <args>
//
// Commands:
//
//	extract       estimate a pitch track from a WAV file
//	distribution  build a pitch or pitch-class distribution from a pitch track
//	train         train tonic/makam models from an annotation list
//	tonic         estimate the tonic of a recording with a known makam
//	mode          estimate the makam of a recording with a known tonic
//	joint         estimate both tonic and makam
//
// Examples:
//
//	makam extract song.wav song.pitch
//	makam distribution --feature pd --format tsv song.pitch
//	makam train --model-type single -o models.json annotations.tsv
//	makam joint -m models.json --rank 3 song.pitch
//	makam mode -m models.json --tonic 293.66 song.wav
//
// Pitch inputs are whitespace-delimited pitch-track files (one pitch column,
// or time and pitch columns) or WAV files, which are run through the pitch
// extractor first.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

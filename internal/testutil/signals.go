package testutil

import (
	"math"
	"math/rand"
)

// Tone returns n samples of a sine at hz, starting at phase 0. It stands in
// for a sustained sung or played note.
func Tone(hz, sampleRate, amplitude float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*hz*float64(i)/sampleRate)
	}
	return out
}

// ConstantPitch returns a pitch track of n frames holding hz.
func ConstantPitch(hz float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = hz
	}
	return out
}

// Melody returns a pitch track in Hz that dwells framesPerDegree frames on
// each scale degree (in cents above tonicHz), cycling through degrees in
// order. Each frame gets Gaussian jitter with standard deviation jitterCents.
// The same seed always yields the same track.
func Melody(tonicHz float64, degrees []float64, framesPerDegree int, jitterCents float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, 0, len(degrees)*framesPerDegree)
	for _, d := range degrees {
		for i := 0; i < framesPerDegree; i++ {
			c := d + rng.NormFloat64()*jitterCents
			out = append(out, tonicHz*math.Exp2(c/1200))
		}
	}
	return out
}

// Unvoice zeroes every nth frame of track in place and returns it.
func Unvoice(track []float64, every int) []float64 {
	if every <= 0 {
		return track
	}
	for i := 0; i < len(track); i += every {
		track[i] = 0
	}
	return track
}

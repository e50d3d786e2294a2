package extract

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/algo-makam/pitch"
)

// ErrNoSamples is returned for empty audio.
var ErrNoSamples = errors.New("extract: no samples")

// Extractor estimates pitch tracks with fixed analysis settings. It is safe
// for concurrent use; every call allocates its own buffers.
type Extractor struct {
	cfg config
}

// New returns an Extractor.
func New(opts ...Option) (*Extractor, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Extractor{cfg: cfg}, nil
}

// FrameTimes returns the centre time in seconds of each analysis frame for
// n samples at sampleRate.
func (e *Extractor) FrameTimes(n int, sampleRate float64) []float64 {
	frames := e.frameCount(n)
	out := make([]float64, frames)
	for i := range out {
		out[i] = (float64(i*e.cfg.hopSize) + float64(e.cfg.frameSize)/2) / sampleRate
	}
	return out
}

func (e *Extractor) frameCount(n int) int {
	if n <= e.cfg.frameSize {
		return 1
	}
	return 1 + (n-e.cfg.frameSize+e.cfg.hopSize-1)/e.cfg.hopSize
}

// Extract estimates the pitch of mono samples. The returned track has one
// frame per hop; unvoiced frames have pitch 0. Extra[0] holds the frame
// confidence in [0, 1]. ctx is checked between frames.
func (e *Extractor) Extract(ctx context.Context, samples []float64, sampleRate float64) (*pitch.Track, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) {
		return nil, fmt.Errorf("%w: %v", ErrSampleRate, sampleRate)
	}

	cfg := e.cfg
	lo := int(math.Floor(sampleRate / cfg.maxFreq))
	hi := int(math.Ceil(sampleRate / cfg.minFreq))
	if hi >= cfg.frameSize/2-1 {
		return nil, fmt.Errorf("%w: %v Hz needs a frame of more than %d samples at %v Hz",
			ErrFrameTooShort, cfg.minFreq, 2*(hi+1), sampleRate)
	}

	est, err := newYIN(cfg.frameSize)
	if err != nil {
		return nil, err
	}

	frames := e.frameCount(len(samples))
	track := &pitch.Track{
		Time:  e.FrameTimes(len(samples), sampleRate),
		Pitch: make([]float64, frames),
		Extra: [][]float64{make([]float64, frames)},
	}
	frame := make([]float64, cfg.frameSize)

	voiced := 0
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := i * cfg.hopSize
		clear(frame)
		if start < len(samples) {
			copy(frame, samples[start:min(start+cfg.frameSize, len(samples))])
		}

		if err := est.analyse(frame); err != nil {
			return nil, err
		}
		if est.rms() < cfg.silenceThreshold {
			continue
		}

		period, aperiodicity, ok := est.period(lo, hi, cfg.threshold)
		track.Extra[0][i] = math.Max(0, 1-aperiodicity)
		if !ok {
			continue
		}
		f0 := sampleRate / period
		if f0 < cfg.minFreq || f0 > cfg.maxFreq {
			continue
		}
		track.Pitch[i] = f0
		voiced++
	}

	log.Debug().
		Int("frames", frames).
		Int("voiced", voiced).
		Float64("sample_rate", sampleRate).
		Msg("extracted pitch")

	return track, nil
}

// ExtractFile decodes the WAV file at path and extracts its pitch track.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*pitch.Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	defer f.Close()

	samples, rate, err := DecodeWAV(f)
	if err != nil {
		return nil, fmt.Errorf("extract: %s: %w", path, err)
	}
	return e.Extract(ctx, samples, rate)
}

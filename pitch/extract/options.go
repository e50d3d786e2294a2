package extract

import (
	"errors"
	"fmt"
)

// Default analysis parameters.
const (
	DefaultFrameSize        = 2048
	DefaultHopSize          = 128
	DefaultThreshold        = 0.15
	DefaultMinFreq          = 55.0
	DefaultMaxFreq          = 1760.0
	DefaultSilenceThreshold = 1e-3
)

// Errors returned for invalid settings.
var (
	ErrFrameSize      = errors.New("extract: frame size must be >= 64")
	ErrHopSize        = errors.New("extract: hop size must be >= 1")
	ErrThreshold      = errors.New("extract: threshold must be in (0, 1)")
	ErrFrequencyRange = errors.New("extract: invalid frequency range")
	ErrSampleRate     = errors.New("extract: sample rate must be > 0")
	ErrFrameTooShort  = errors.New("extract: frame too short for the minimum frequency")
)

// Option configures an Extractor.
type Option func(*config)

type config struct {
	frameSize        int
	hopSize          int
	threshold        float64
	minFreq          float64
	maxFreq          float64
	silenceThreshold float64
}

func defaultConfig() config {
	return config{
		frameSize:        DefaultFrameSize,
		hopSize:          DefaultHopSize,
		threshold:        DefaultThreshold,
		minFreq:          DefaultMinFreq,
		maxFreq:          DefaultMaxFreq,
		silenceThreshold: DefaultSilenceThreshold,
	}
}

func (c config) validate() error {
	if c.frameSize < 64 {
		return fmt.Errorf("%w: %d", ErrFrameSize, c.frameSize)
	}
	if c.hopSize < 1 {
		return fmt.Errorf("%w: %d", ErrHopSize, c.hopSize)
	}
	if c.threshold <= 0 || c.threshold >= 1 {
		return fmt.Errorf("%w: %v", ErrThreshold, c.threshold)
	}
	if c.minFreq <= 0 || c.maxFreq <= c.minFreq {
		return fmt.Errorf("%w: [%v, %v]", ErrFrequencyRange, c.minFreq, c.maxFreq)
	}
	if c.silenceThreshold < 0 {
		return fmt.Errorf("extract: silence threshold must be >= 0: %v", c.silenceThreshold)
	}
	return nil
}

// WithFrameSize sets the analysis frame length in samples. Half of it is the
// YIN integration window, so it must hold two periods of the minimum
// frequency.
func WithFrameSize(n int) Option {
	return func(c *config) {
		c.frameSize = n
	}
}

// WithHopSize sets the distance between frame starts in samples.
func WithHopSize(n int) Option {
	return func(c *config) {
		c.hopSize = n
	}
}

// WithThreshold sets the YIN absolute threshold on the normalized difference.
func WithThreshold(t float64) Option {
	return func(c *config) {
		c.threshold = t
	}
}

// WithFrequencyRange limits the detected fundamental to [minHz, maxHz].
func WithFrequencyRange(minHz, maxHz float64) Option {
	return func(c *config) {
		c.minFreq = minHz
		c.maxFreq = maxHz
	}
}

// WithSilenceThreshold sets the frame RMS (linear, full scale 1) below which a
// frame is unvoiced. Zero disables the gate.
func WithSilenceThreshold(rms float64) Option {
	return func(c *config) {
		c.silenceThreshold = rms
	}
}

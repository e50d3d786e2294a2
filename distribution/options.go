package distribution

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-makam/internal/smooth"
	"github.com/cwbudde/algo-makam/pitch"
)

// Option configures distribution construction.
type Option func(*config)

type config struct {
	refFreq     float64
	kernelWidth float64
	stepSize    float64
	norm        NormType
}

func defaultConfig() config {
	return config{
		refFreq:     DefaultRefFreq,
		kernelWidth: DefaultKernelWidth,
		stepSize:    DefaultStepSize,
		norm:        NormSum,
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithRefFreq sets the reference frequency in Hz that 0 cents maps to.
func WithRefFreq(hz float64) Option {
	return func(c *config) {
		c.refFreq = hz
	}
}

// WithKernelWidth sets the standard deviation of the smoothing kernel in
// cents. Zero disables smoothing.
func WithKernelWidth(cents float64) Option {
	return func(c *config) {
		c.kernelWidth = cents
	}
}

// WithStepSize sets the bin width in cents.
func WithStepSize(cents float64) Option {
	return func(c *config) {
		c.stepSize = cents
	}
}

// WithNorm sets the normalization applied after construction.
func WithNorm(n NormType) Option {
	return func(c *config) {
		c.norm = n
	}
}

func (c config) validate() error {
	if !pitch.ValidFreq(c.refFreq) {
		return ErrRefFreq
	}
	if !(c.stepSize > 0) || math.IsInf(c.stepSize, 1) {
		return ErrStepSize
	}
	if !(c.kernelWidth >= 0) || math.IsInf(c.kernelWidth, 1) {
		return ErrKernelWidth
	}
	if smooth.Extent*c.kernelWidth/c.stepSize > maxBins {
		return fmt.Errorf("%w: kernel width %v at step %v", ErrKernelWidth, c.kernelWidth, c.stepSize)
	}
	if _, err := ParseNormType(string(c.norm)); err != nil {
		return err
	}
	return nil
}

package classifier

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cwbudde/algo-makam/distance"
	"github.com/cwbudde/algo-makam/distribution"
	"github.com/cwbudde/algo-makam/feature"
)

// ModelType selects how training recordings are turned into models.
type ModelType string

const (
	// ModelSingle sums all recordings of a mode into one model.
	ModelSingle ModelType = "single"
	// ModelMulti keeps one model per recording.
	ModelMulti ModelType = "multi"
)

// Default estimation parameters.
const (
	DefaultK            = 1
	DefaultRank         = 1
	DefaultMinPeakRatio = 0.15
	DefaultKernelWidth  = 7.5
	DefaultStepSize     = 7.5
)

// Option configures a Classifier.
type Option func(*config)

type config struct {
	stepSize     float64
	kernelWidth  float64
	featureType  distribution.FeatureType
	modelType    ModelType
	method       distance.Method
	k            int
	rank         int
	minPeakRatio float64
	logger       zerolog.Logger
	progress     func(done, total int)
}

func defaultConfig() config {
	return config{
		stepSize:     DefaultStepSize,
		kernelWidth:  DefaultKernelWidth,
		featureType:  distribution.FeaturePCD,
		modelType:    ModelMulti,
		method:       distance.Bhattacharyya,
		k:            DefaultK,
		rank:         DefaultRank,
		minPeakRatio: DefaultMinPeakRatio,
		logger:       zerolog.Nop(),
	}
}

func (c config) validate() error {
	if c.modelType != ModelSingle && c.modelType != ModelMulti {
		return fmt.Errorf("%w: %q", ErrModelType, c.modelType)
	}
	if c.k < 1 {
		return fmt.Errorf("classifier: k must be >= 1: %d", c.k)
	}
	if c.rank < 1 {
		return fmt.Errorf("classifier: rank must be >= 1: %d", c.rank)
	}
	if c.minPeakRatio < 0 || c.minPeakRatio > 1 {
		return fmt.Errorf("classifier: min peak ratio must be in [0,1]: %v", c.minPeakRatio)
	}
	return nil
}

func (c config) parserOptions() []feature.Option {
	return []feature.Option{
		feature.WithStepSize(c.stepSize),
		feature.WithKernelWidth(c.kernelWidth),
		feature.WithFeatureType(c.featureType),
	}
}

// WithStepSize sets the distribution bin width in cents.
func WithStepSize(cents float64) Option {
	return func(c *config) {
		c.stepSize = cents
	}
}

// WithKernelWidth sets the smoothing kernel standard deviation in cents.
func WithKernelWidth(cents float64) Option {
	return func(c *config) {
		c.kernelWidth = cents
	}
}

// WithFeatureType selects pd or pcd features.
func WithFeatureType(f distribution.FeatureType) Option {
	return func(c *config) {
		c.featureType = f
	}
}

// WithModelType selects single or multi models.
func WithModelType(t ModelType) Option {
	return func(c *config) {
		c.modelType = t
	}
}

// WithDistance selects the distance measure.
func WithDistance(m distance.Method) Option {
	return func(c *config) {
		c.method = m
	}
}

// WithK sets the number of nearest neighbours that vote.
func WithK(k int) Option {
	return func(c *config) {
		c.k = k
	}
}

// WithRank sets how many ranked estimates are returned.
func WithRank(rank int) Option {
	return func(c *config) {
		c.rank = rank
	}
}

// WithMinPeakRatio sets the minimum height, relative to the highest peak, of
// a peak to be tried as a tonic candidate.
func WithMinPeakRatio(r float64) Option {
	return func(c *config) {
		c.minPeakRatio = r
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithProgress registers a callback invoked after each training recording.
func WithProgress(fn func(done, total int)) Option {
	return func(c *config) {
		c.progress = fn
	}
}

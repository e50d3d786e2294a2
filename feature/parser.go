package feature

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-makam/distribution"
	"github.com/cwbudde/algo-makam/pitch"
)

// DummyRefFreq is the reference frequency in Hz for inputs whose tonic is
// unknown.
const DummyRefFreq = 220.0

// NoTonic marks an unknown tonic in ParseModeInput and ParsePitch.
const NoTonic = 0.0

// Errors returned by the parser.
var (
	ErrInvalidFeatureType = errors.New("feature: feature type must be \"pd\" (pitch distribution) or \"pcd\" (pitch class distribution)")
	ErrFeatureMismatch    = errors.New("feature: feature type of the input does not match the parser")
	ErrStepMismatch       = errors.New("feature: step size of the input does not match the parser")
	ErrUnsupportedInput   = errors.New("feature: unsupported input type")
	ErrReferencedInput    = errors.New("feature: the input distribution has a reference frequency already")
	ErrUnreferencedInput  = errors.New("feature: the input distribution has Hz bins and no tonic was given")
	ErrNilModelFeature    = errors.New("feature: model has no feature")
)

// Model is a trained reference distribution.
type Model struct {
	Mode    string                     `json:"mode"`
	Source  string                     `json:"source,omitempty"`
	Tonic   float64                    `json:"tonic,omitempty"`
	Feature *distribution.Distribution `json:"feature"`
}

// Parser turns pitch inputs into distribution features with fixed settings.
type Parser struct {
	StepSize    float64
	KernelWidth float64
	FeatureType distribution.FeatureType
	Models      []Model
}

// Option configures a Parser.
type Option func(*Parser)

// WithStepSize sets the distribution bin width in cents.
func WithStepSize(cents float64) Option {
	return func(p *Parser) {
		p.StepSize = cents
	}
}

// WithKernelWidth sets the smoothing kernel standard deviation in cents.
func WithKernelWidth(cents float64) Option {
	return func(p *Parser) {
		p.KernelWidth = cents
	}
}

// WithFeatureType selects pitch (pd) or pitch-class (pcd) distributions.
func WithFeatureType(f distribution.FeatureType) Option {
	return func(p *Parser) {
		p.FeatureType = f
	}
}

// WithModels attaches trained models.
func WithModels(models []Model) Option {
	return func(p *Parser) {
		p.Models = models
	}
}

// NewParser returns a Parser with 7.5-cent steps, a 7.5-cent kernel and pcd
// features unless overridden.
func NewParser(opts ...Option) (*Parser, error) {
	p := &Parser{
		StepSize:    distribution.DefaultStepSize,
		KernelWidth: distribution.DefaultKernelWidth,
		FeatureType: distribution.FeaturePCD,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the parser settings and that every model feature matches
// them.
func (p *Parser) Validate() error {
	if !p.FeatureType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFeatureType, p.FeatureType)
	}
	if p.StepSize <= 0 {
		return fmt.Errorf("feature: step size must be > 0: %v", p.StepSize)
	}
	if p.KernelWidth < 0 {
		return fmt.Errorf("feature: kernel width must be >= 0: %v", p.KernelWidth)
	}
	return p.checkModels(p.Models)
}

// SetModels replaces the models after checking they match the parser.
func (p *Parser) SetModels(models []Model) error {
	if err := p.checkModels(models); err != nil {
		return err
	}
	p.Models = models
	return nil
}

func (p *Parser) checkModels(models []Model) error {
	for i, m := range models {
		if m.Feature == nil {
			return fmt.Errorf("%w: model %d (%s)", ErrNilModelFeature, i, m.Mode)
		}
		if got := m.Feature.Type(); got != p.FeatureType {
			return fmt.Errorf("%w: model %d (%s) is %s, parser is %s", ErrFeatureMismatch, i, m.Mode, got, p.FeatureType)
		}
		if !sameStep(m.Feature.StepSize, p.StepSize) {
			return fmt.Errorf("%w: model %d (%s) has %v, parser has %v", ErrStepMismatch, i, m.Mode, m.Feature.StepSize, p.StepSize)
		}
	}
	return nil
}

// ParseTonicInput prepares the input of tonic identification and joint
// tonic/mode estimation. A distribution must still have Hz bins; it is copied
// and re-referenced to DummyRefFreq. Pitch inputs are converted to cents
// against DummyRefFreq.
func (p *Parser) ParseTonicInput(in Input) (*distribution.Distribution, error) {
	if d, ok := asDistribution(in); ok {
		if !d.HasHzBins() {
			return nil, ErrReferencedInput
		}
		out := d.Clone()
		if err := out.HzToCent(DummyRefFreq); err != nil {
			return nil, fmt.Errorf("feature: %w", err)
		}
		if err := p.conform(out); err != nil {
			return nil, err
		}
		return out, nil
	}

	cents, err := p.ParsePitch(in, DummyRefFreq)
	if err != nil {
		return nil, err
	}
	return p.CentPitchToFeature(cents, DummyRefFreq)
}

// ParseModeInput prepares the input of mode recognition.
//
// A distribution is copied; with a tonic its Hz bins are re-referenced to the
// tonic, without one it must already have cent bins. A pitch input is
// converted to cents against the tonic; without a tonic (NoTonic) its values
// are taken to be cents relative to DummyRefFreq already.
func (p *Parser) ParseModeInput(in Input, tonic float64) (*distribution.Distribution, error) {
	if d, ok := asDistribution(in); ok {
		out := d.Clone()
		switch {
		case hasTonic(tonic):
			if !out.HasHzBins() {
				return nil, ErrReferencedInput
			}
			if err := out.HzToCent(tonic); err != nil {
				return nil, fmt.Errorf("feature: %w", err)
			}
		case out.HasHzBins():
			return nil, ErrUnreferencedInput
		}
		if err := p.conform(out); err != nil {
			return nil, err
		}
		return out, nil
	}

	if !hasTonic(tonic) {
		cents, err := pitchValues(in)
		if err != nil {
			return nil, err
		}
		log.Debug().Int("frames", len(cents)).Msg("pitch input taken as cents")
		return p.CentPitchToFeature(cents, DummyRefFreq)
	}

	cents, err := p.ParsePitch(in, tonic)
	if err != nil {
		return nil, err
	}
	return p.CentPitchToFeature(cents, tonic)
}

// ParsePitch extracts the pitch stream of in and converts it from Hz to cents
// relative to tonic. If tonic is NoTonic the values are returned as read.
func (p *Parser) ParsePitch(in Input, tonic float64) ([]float64, error) {
	hz, err := pitchValues(in)
	if err != nil {
		return nil, err
	}
	if !hasTonic(tonic) {
		return hz, nil
	}
	return pitch.HzToCentSlice(hz, tonic), nil
}

// CentPitchToFeature builds the parser's feature from a pitch stream in cents
// relative to ref.
func (p *Parser) CentPitchToFeature(cents []float64, ref float64) (*distribution.Distribution, error) {
	d, err := distribution.FromCentPitch(cents,
		distribution.WithRefFreq(ref),
		distribution.WithKernelWidth(p.KernelWidth),
		distribution.WithStepSize(p.StepSize))
	if err != nil {
		return nil, fmt.Errorf("feature: %w", err)
	}
	if p.FeatureType == distribution.FeaturePCD {
		if err := d.ToPCD(); err != nil {
			return nil, fmt.Errorf("feature: %w", err)
		}
	}
	return d, nil
}

// conform brings a caller-supplied distribution to the parser's feature type.
// A PD is folded when the parser wants PCDs; a PCD cannot be unfolded.
func (p *Parser) conform(d *distribution.Distribution) error {
	if !sameStep(d.StepSize, p.StepSize) {
		return fmt.Errorf("%w: input has %v, parser has %v", ErrStepMismatch, d.StepSize, p.StepSize)
	}
	if d.Type() == p.FeatureType {
		return nil
	}
	if p.FeatureType == distribution.FeaturePD {
		return fmt.Errorf("%w: input is %s, parser is %s", ErrFeatureMismatch, d.Type(), p.FeatureType)
	}
	if err := d.ToPCD(); err != nil {
		return fmt.Errorf("feature: %w", err)
	}
	return nil
}

func hasTonic(tonic float64) bool {
	return pitch.ValidFreq(tonic)
}

func sameStep(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

package classifier

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cwbudde/algo-makam/distance"
	"github.com/cwbudde/algo-makam/distribution"
	"github.com/cwbudde/algo-makam/feature"
	"github.com/cwbudde/algo-makam/pitch"
)

// Errors returned by the classifier.
var (
	ErrModelType    = errors.New("classifier: model type must be \"single\" or \"multi\"")
	ErrNoModels     = errors.New("classifier: no trained models")
	ErrUnknownMode  = errors.New("classifier: no model for mode")
	ErrNoTonic      = errors.New("classifier: training recording has no tonic")
	ErrNoMode       = errors.New("classifier: training recording has no mode")
	ErrNoCandidates = errors.New("classifier: no tonic candidates in the input")
	ErrNoRecordings = errors.New("classifier: no training recordings")
)

// Recording is an annotated training example.
type Recording struct {
	Pitch  feature.Input // pitch stream in Hz, track, matrix or file
	Tonic  float64       // tonic frequency in Hz
	Mode   string
	Source string
}

// Estimate is one ranked result.
type Estimate struct {
	Tonic    float64 `json:"tonic,omitempty"` // Hz
	Mode     string  `json:"mode,omitempty"`
	Distance float64 `json:"distance"` // distance of the closest voting neighbour
	Votes    int     `json:"votes"`
}

// Classifier is a k-nearest-neighbour tonic and mode estimator.
type Classifier struct {
	cfg    config
	parser *feature.Parser
}

// New returns an untrained classifier.
func New(opts ...Option) (*Classifier, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	p, err := feature.NewParser(cfg.parserOptions()...)
	if err != nil {
		return nil, err
	}
	return &Classifier{cfg: cfg, parser: p}, nil
}

// Parser returns the input parser shared by training and estimation.
func (c *Classifier) Parser() *feature.Parser {
	return c.parser
}

// Models returns the trained models.
func (c *Classifier) Models() []feature.Model {
	return c.parser.Models
}

// ModelType returns the configured model type.
func (c *Classifier) ModelType() ModelType {
	return c.cfg.modelType
}

// Modes returns the distinct modes of the trained models in training order.
func (c *Classifier) Modes() []string {
	seen := make(map[string]bool)
	var modes []string
	for _, m := range c.parser.Models {
		if !seen[m.Mode] {
			seen[m.Mode] = true
			modes = append(modes, m.Mode)
		}
	}
	return modes
}

// Train builds the models from annotated recordings, replacing any previous
// models. ctx is checked between recordings.
func (c *Classifier) Train(ctx context.Context, recs []Recording) error {
	if len(recs) == 0 {
		return ErrNoRecordings
	}

	models := make([]feature.Model, 0, len(recs))
	for i, r := range recs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !pitch.ValidFreq(r.Tonic) {
			return fmt.Errorf("%w: recording %d (%s)", ErrNoTonic, i, r.Source)
		}
		if r.Mode == "" {
			return fmt.Errorf("%w: recording %d (%s)", ErrNoMode, i, r.Source)
		}

		cents, err := c.parser.ParsePitch(r.Pitch, r.Tonic)
		if err != nil {
			return fmt.Errorf("classifier: recording %d (%s): %w", i, r.Source, err)
		}
		f, err := c.parser.CentPitchToFeature(cents, r.Tonic)
		if err != nil {
			return fmt.Errorf("classifier: recording %d (%s): %w", i, r.Source, err)
		}
		models = append(models, feature.Model{Mode: r.Mode, Source: r.Source, Tonic: r.Tonic, Feature: f})

		c.cfg.logger.Debug().Str("source", r.Source).Str("mode", r.Mode).Float64("tonic", r.Tonic).Msg("trained recording")
		if c.cfg.progress != nil {
			c.cfg.progress(i+1, len(recs))
		}
	}

	if c.cfg.modelType == ModelSingle {
		var err error
		if models, err = mergeByMode(models); err != nil {
			return err
		}
	}

	c.cfg.logger.Info().Int("recordings", len(recs)).Int("models", len(models)).Str("type", string(c.cfg.modelType)).Msg("training done")
	return c.parser.SetModels(models)
}

// mergeByMode sums the features of each mode into a single model.
func mergeByMode(models []feature.Model) ([]feature.Model, error) {
	var order []string
	byMode := make(map[string][]*distribution.Distribution)
	for _, m := range models {
		if _, ok := byMode[m.Mode]; !ok {
			order = append(order, m.Mode)
		}
		byMode[m.Mode] = append(byMode[m.Mode], m.Feature)
	}

	out := make([]feature.Model, 0, len(order))
	for _, mode := range order {
		f, err := distribution.Sum(byMode[mode]...)
		if err != nil {
			return nil, fmt.Errorf("classifier: merge %s: %w", mode, err)
		}
		out = append(out, feature.Model{Mode: mode, Feature: f})
	}
	return out, nil
}

// EstimateTonic estimates the tonic of in given its mode.
func (c *Classifier) EstimateTonic(in feature.Input, mode string) ([]Estimate, error) {
	test, err := c.parser.ParseTonicInput(in)
	if err != nil {
		return nil, err
	}
	return c.estimate(test, true, mode)
}

// EstimateMode estimates the mode of in given its tonic in Hz. With
// feature.NoTonic the pitch values of in are taken as cents.
func (c *Classifier) EstimateMode(in feature.Input, tonic float64) ([]Estimate, error) {
	test, err := c.parser.ParseModeInput(in, tonic)
	if err != nil {
		return nil, err
	}
	ests, err := c.estimate(test, false, "")
	if err != nil {
		return nil, err
	}
	for i := range ests {
		ests[i].Tonic = tonic
	}
	return ests, nil
}

// EstimateJoint estimates the tonic and the mode of in.
func (c *Classifier) EstimateJoint(in feature.Input) ([]Estimate, error) {
	test, err := c.parser.ParseTonicInput(in)
	if err != nil {
		return nil, err
	}
	return c.estimate(test, true, "")
}

type candidate struct {
	tonic   float64
	feature *distribution.Distribution
}

type neighbour struct {
	cand  int
	model int
	dist  float64
}

type voteKey struct {
	cand int
	mode string
}

type vote struct {
	voteKey
	votes   int
	sum     float64
	nearest float64
}

// estimate runs the k-NN search. With estTonic every peak of test is a tonic
// candidate; a non-empty mode restricts the models to that mode.
func (c *Classifier) estimate(test *distribution.Distribution, estTonic bool, mode string) ([]Estimate, error) {
	models := c.parser.Models
	if len(models) == 0 {
		return nil, ErrNoModels
	}
	if mode != "" {
		var filtered []feature.Model
		for _, m := range models {
			if m.Mode == mode {
				filtered = append(filtered, m)
			}
		}
		if len(filtered) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
		}
		models = filtered
	}

	cands, err := c.candidates(test, estTonic)
	if err != nil {
		return nil, err
	}

	neighbours := make([]neighbour, 0, len(cands)*len(models))
	for ci, cand := range cands {
		for mi, m := range models {
			a, b, err := distribution.Align(cand.feature, m.Feature)
			if err != nil {
				return nil, fmt.Errorf("classifier: %w", err)
			}
			d, err := distance.Compute(a, b, c.cfg.method)
			if err != nil {
				return nil, fmt.Errorf("classifier: %w", err)
			}
			neighbours = append(neighbours, neighbour{cand: ci, model: mi, dist: d})
		}
	}
	sort.SliceStable(neighbours, func(i, j int) bool {
		return neighbours[i].dist < neighbours[j].dist
	})

	k := min(c.cfg.k, len(neighbours))
	var votes []*vote
	index := make(map[voteKey]*vote)
	for _, n := range neighbours[:k] {
		key := voteKey{mode: mode}
		if estTonic {
			key.cand = n.cand
		}
		if mode == "" {
			key.mode = models[n.model].Mode
		}
		v, ok := index[key]
		if !ok {
			v = &vote{voteKey: key, nearest: n.dist}
			index[key] = v
			votes = append(votes, v)
		}
		v.votes++
		v.sum += n.dist
	}

	sort.SliceStable(votes, func(i, j int) bool {
		if votes[i].votes != votes[j].votes {
			return votes[i].votes > votes[j].votes
		}
		return votes[i].sum < votes[j].sum
	})

	n := min(c.cfg.rank, len(votes))
	out := make([]Estimate, n)
	for i, v := range votes[:n] {
		out[i] = Estimate{Mode: v.mode, Distance: v.nearest, Votes: v.votes}
		if estTonic {
			out[i].Tonic = cands[v.cand].tonic
		}
	}

	c.cfg.logger.Debug().Int("candidates", len(cands)).Int("models", len(models)).Int("k", k).Msg("estimated")
	return out, nil
}

// candidates returns the shifted copies of test to compare against the
// models. Without tonic estimation test is already tonic-referenced.
func (c *Classifier) candidates(test *distribution.Distribution, estTonic bool) ([]candidate, error) {
	if !estTonic {
		return []candidate{{tonic: test.RefFreq, feature: test}}, nil
	}

	peaks := test.DetectPeaks(c.cfg.minPeakRatio)
	if len(peaks) == 0 {
		return nil, ErrNoCandidates
	}
	cands := make([]candidate, 0, len(peaks))
	for _, p := range peaks {
		shifted, err := test.Shift(p.Index)
		if err != nil {
			return nil, fmt.Errorf("classifier: %w", err)
		}
		cands = append(cands, candidate{
			tonic:   pitch.CentToHz(p.Bin, test.RefFreq),
			feature: shifted,
		})
	}
	return cands, nil
}

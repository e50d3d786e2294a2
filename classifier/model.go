package classifier

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-makam/distribution"
	"github.com/cwbudde/algo-makam/feature"
)

// modelFile is the JSON layout written by SaveModel.
type modelFile struct {
	StepSize    float64                  `json:"step_size"`
	KernelWidth float64                  `json:"kernel_width"`
	FeatureType distribution.FeatureType `json:"feature_type"`
	ModelType   ModelType                `json:"model_type"`
	Models      []feature.Model          `json:"models"`
}

// SaveModel writes the trained models and the settings they were built with
// as JSON.
func (c *Classifier) SaveModel(w io.Writer) error {
	if len(c.parser.Models) == 0 {
		return ErrNoModels
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(modelFile{
		StepSize:    c.parser.StepSize,
		KernelWidth: c.parser.KernelWidth,
		FeatureType: c.parser.FeatureType,
		ModelType:   c.cfg.modelType,
		Models:      c.parser.Models,
	})
}

// SaveModelFile writes the models to path.
func (c *Classifier) SaveModelFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := c.SaveModel(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadModel reads models written by SaveModel and returns a classifier using
// them. The stored step size, kernel width, feature type and model type
// override opts; the remaining options (distance, k, rank, ...) apply as given.
// Every model feature is checked against the stored feature type.
func LoadModel(r io.Reader, opts ...Option) (*Classifier, error) {
	var mf modelFile
	if err := json.NewDecoder(r).Decode(&mf); err != nil {
		return nil, fmt.Errorf("classifier: decode model: %w", err)
	}
	if len(mf.Models) == 0 {
		return nil, ErrNoModels
	}
	for i, m := range mf.Models {
		if m.Feature == nil {
			continue
		}
		if err := m.Feature.Validate(); err != nil {
			return nil, fmt.Errorf("classifier: model %d (%s): %w", i, m.Mode, err)
		}
	}

	opts = append(opts,
		WithStepSize(mf.StepSize),
		WithKernelWidth(mf.KernelWidth),
		WithFeatureType(mf.FeatureType),
		WithModelType(mf.ModelType),
	)
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := c.parser.SetModels(mf.Models); err != nil {
		return nil, err
	}
	c.cfg.logger.Debug().Int("models", len(mf.Models)).Msg("loaded models")
	return c, nil
}

// LoadModelFile reads models from path.
func LoadModelFile(path string, opts ...Option) (*Classifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	defer f.Close()
	return LoadModel(f, opts...)
}

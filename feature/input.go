package feature

import (
	"fmt"

	"github.com/cwbudde/algo-makam/distribution"
	"github.com/cwbudde/algo-makam/pitch"
)

// Input is any of the accepted input types listed in the package
// documentation.
type Input any

func asDistribution(in Input) (*distribution.Distribution, bool) {
	d, ok := in.(*distribution.Distribution)
	return d, ok && d != nil
}

// pitchValues returns a copy of the pitch stream held by in.
func pitchValues(in Input) ([]float64, error) {
	switch v := in.(type) {
	case []float64:
		log.Debug().Int("frames", len(v)).Msg("input is a pitch stream")
		if len(v) == 0 {
			return nil, pitch.ErrEmptyTrack
		}
		return append([]float64(nil), v...), nil
	case [][]float64:
		log.Debug().Int("rows", len(v)).Msg("input is a pitch matrix")
		t, err := pitch.FromMatrix(v)
		if err != nil {
			return nil, fmt.Errorf("feature: %w", err)
		}
		return t.Pitch, nil
	case *pitch.Track:
		return trackValues(v)
	case pitch.Track:
		return trackValues(&v)
	case pitch.File:
		return fileValues(string(v))
	case string:
		return fileValues(v)
	case *distribution.Distribution:
		return nil, fmt.Errorf("%w: a distribution carries no pitch stream", ErrUnsupportedInput)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedInput, in)
}

func trackValues(t *pitch.Track) ([]float64, error) {
	log.Debug().Msg("input is a pitch track")
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("feature: %w", err)
	}
	return append([]float64(nil), t.Pitch...), nil
}

func fileValues(path string) ([]float64, error) {
	log.Debug().Str("path", path).Msg("input is a file path")
	t, err := pitch.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("feature: %w", err)
	}
	return t.Pitch, nil
}

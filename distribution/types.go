package distribution

import (
	"errors"
	"fmt"
	"strings"
)

// Default construction parameters.
const (
	DefaultStepSize    = 7.5
	DefaultKernelWidth = 7.5
	DefaultRefFreq     = 440.0

	// MaxCent bounds the magnitude of the cent values a distribution is built
	// from: twenty octaves either side of the reference.
	MaxCent = 24000.0
)

// maxBins bounds the length of a histogram or smoothing kernel.
const maxBins = 1 << 20

// FeatureType tells a pitch distribution from a pitch-class distribution.
type FeatureType string

const (
	FeaturePD  FeatureType = "pd"
	FeaturePCD FeatureType = "pcd"
)

// ParseFeatureType parses "pd" or "pcd" (case-insensitive).
func ParseFeatureType(s string) (FeatureType, error) {
	switch FeatureType(strings.ToLower(strings.TrimSpace(s))) {
	case FeaturePD:
		return FeaturePD, nil
	case FeaturePCD:
		return FeaturePCD, nil
	}
	return "", fmt.Errorf("%w: %q", ErrFeatureType, s)
}

// Valid reports whether f is FeaturePD or FeaturePCD.
func (f FeatureType) Valid() bool {
	return f == FeaturePD || f == FeaturePCD
}

// NormType selects how distribution values are scaled.
type NormType string

const (
	NormSum  NormType = "sum"
	NormMax  NormType = "max"
	NormNone NormType = "none"
)

// ParseNormType parses "sum", "max" or "none" (case-insensitive).
func ParseNormType(s string) (NormType, error) {
	n := NormType(strings.ToLower(strings.TrimSpace(s)))
	switch n {
	case NormSum, NormMax, NormNone:
		return n, nil
	}
	return "", fmt.Errorf("%w: %q", ErrNormType, s)
}

// Errors returned by distribution operations.
var (
	ErrNoPitch        = errors.New("distribution: no voiced pitch values")
	ErrFeatureType    = errors.New("distribution: feature type must be \"pd\" or \"pcd\"")
	ErrNormType       = errors.New("distribution: norm type must be \"sum\", \"max\" or \"none\"")
	ErrHzBins         = errors.New("distribution: bins are in Hz")
	ErrCentBins       = errors.New("distribution: bins are already in cents")
	ErrPCDToHz        = errors.New("distribution: a pitch-class distribution has no Hz form")
	ErrStepSize       = errors.New("distribution: invalid step size")
	ErrKernelWidth    = errors.New("distribution: kernel width must be >= 0")
	ErrRefFreq        = errors.New("distribution: reference frequency must be finite and > 0")
	ErrPitchRange     = errors.New("distribution: pitch values span too many bins")
	ErrShiftIndex     = errors.New("distribution: shift index out of range")
	ErrLengthMismatch = errors.New("distribution: bins and vals length mismatch")
	ErrIncompatible   = errors.New("distribution: distributions are not comparable")
)

package distribution

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-makam/internal/testutil"
	"github.com/cwbudde/algo-makam/pitch"
)

// pcd returns a 7.5-cent PCD referenced to 220 Hz with the given non-zero
// values and no normalization.
func pcd(vals map[int]float64) *Distribution {
	const n = 160
	d := &Distribution{
		Bins:        make([]float64, n),
		Vals:        make([]float64, n),
		RefFreq:     220,
		KernelWidth: 7.5,
		StepSize:    7.5,
		Norm:        NormNone,
	}
	for k := range d.Bins {
		d.Bins[k] = float64(k) * 7.5
	}
	for k, v := range vals {
		d.Vals[k] = v
	}
	return d
}

func TestFromCentPitchHistogram(t *testing.T) {
	d, err := FromCentPitch([]float64{0, 0, 7.5, -7.5, 3},
		WithKernelWidth(0), WithNorm(NormNone), WithRefFreq(220))
	require.NoError(t, err)

	assert.Equal(t, []float64{-7.5, 0, 7.5}, d.Bins)
	assert.Equal(t, []float64{1, 3, 1}, d.Vals)
	assert.Equal(t, 220.0, d.RefFreq)
	assert.Equal(t, FeaturePD, d.Type())
}

func TestFromCentPitchSumNorm(t *testing.T) {
	d, err := FromCentPitch([]float64{0, 0, 7.5, -7.5, 3}, WithKernelWidth(0))
	require.NoError(t, err)
	testutil.RequireSliceNearlyEqual(t, d.Vals, []float64{0.2, 0.6, 0.2}, 1e-12)
	assert.Equal(t, NormSum, d.Norm)
}

func TestFromCentPitchSmoothing(t *testing.T) {
	d, err := FromCentPitch([]float64{0})
	require.NoError(t, err)

	require.Equal(t, 11, d.Len())
	testutil.RequireNearlyEqual(t, d.Bins[0], -37.5, 1e-12)
	testutil.RequireNearlyEqual(t, d.Bins[10], 37.5, 1e-12)
	testutil.RequireNearlyEqual(t, sum(d.Vals), 1, 1e-12)

	peaks := d.DetectPeaks(0.5)
	require.Len(t, peaks, 1)
	assert.Equal(t, 5, peaks[0].Index)
	testutil.RequireNearlyEqual(t, peaks[0].Bin, 0, 1e-9)
	for i := 0; i < 5; i++ {
		testutil.RequireNearlyEqual(t, d.Vals[i], d.Vals[10-i], 1e-15)
	}
}

func TestFromCentPitchDropsNaN(t *testing.T) {
	d, err := FromCentPitch([]float64{math.NaN(), 0, math.Inf(1)}, WithKernelWidth(0))
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, d.Bins)

	_, err = FromCentPitch([]float64{math.NaN(), math.NaN()})
	assert.ErrorIs(t, err, ErrNoPitch)
	_, err = FromCentPitch(nil)
	assert.ErrorIs(t, err, ErrNoPitch)
}

func TestFromCentPitchInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		want error
	}{
		{"step", WithStepSize(0), ErrStepSize},
		{"kernel", WithKernelWidth(-1), ErrKernelWidth},
		{"ref", WithRefFreq(0), ErrRefFreq},
		{"ref nan", WithRefFreq(math.NaN()), ErrRefFreq},
		{"ref inf", WithRefFreq(math.Inf(1)), ErrRefFreq},
		{"step nan", WithStepSize(math.NaN()), ErrStepSize},
		{"kernel nan", WithKernelWidth(math.NaN()), ErrKernelWidth},
		{"kernel too wide", WithStepSize(1e-6), ErrKernelWidth},
		{"norm", WithNorm("l2"), ErrNormType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromCentPitch([]float64{0}, tt.opt)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFromCentPitchRange(t *testing.T) {
	tests := []struct {
		name  string
		cents []float64
		opts  []Option
	}{
		{"huge value", []float64{0, 1e300}, nil},
		{"past max cent", []float64{-MaxCent - 1}, nil},
		{"too many bins", []float64{0, 1000}, []Option{WithStepSize(1e-6), WithKernelWidth(0)}},
		{"index overflow", []float64{1000}, []Option{WithStepSize(1e-300), WithKernelWidth(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromCentPitch(tt.cents, tt.opts...)
			assert.ErrorIs(t, err, ErrPitchRange)
		})
	}

	d, err := FromCentPitch([]float64{-MaxCent, MaxCent}, WithKernelWidth(0))
	require.NoError(t, err)
	assert.Equal(t, -MaxCent, d.Bins[0])
	assert.Equal(t, MaxCent, d.Bins[d.Len()-1])
	testutil.RequireProbabilities(t, d.Vals)
}

func TestFromHzPitchInvalidRef(t *testing.T) {
	for _, ref := range []float64{0, math.NaN(), math.Inf(1)} {
		_, err := FromHzPitch([]float64{220}, WithRefFreq(ref))
		assert.ErrorIs(t, err, ErrRefFreq, "ref %v", ref)
	}
}

func TestValidateNonFinite(t *testing.T) {
	d := pcd(map[int]float64{0: 1})
	require.NoError(t, d.Validate())

	for _, ref := range []float64{math.NaN(), math.Inf(1), -220} {
		bad := d.Clone()
		bad.RefFreq = ref
		assert.ErrorIs(t, bad.Validate(), ErrRefFreq, "ref %v", ref)
	}

	bad := d.Clone()
	bad.StepSize = math.NaN()
	assert.ErrorIs(t, bad.Validate(), ErrStepSize)

	hz := &Distribution{Bins: []float64{220}, Vals: []float64{1}, StepSize: 7.5, Norm: NormSum}
	require.NoError(t, hz.Validate())
	assert.ErrorIs(t, hz.HzToCent(math.NaN()), ErrRefFreq)
}

func TestFromHzPitchOctave(t *testing.T) {
	d, err := FromHzPitch([]float64{220, 0, 440}, WithRefFreq(220), WithKernelWidth(0), WithNorm(NormNone))
	require.NoError(t, err)

	require.Equal(t, 161, d.Len())
	assert.Equal(t, 1.0, d.Vals[0])
	assert.Equal(t, 1.0, d.Vals[160])
	testutil.RequireNearlyEqual(t, d.Bins[160], 1200, 1e-12)
	assert.False(t, d.IsPCD())
}

func TestToPCDFoldsOctaves(t *testing.T) {
	d, err := FromHzPitch([]float64{220, 440, 330}, WithRefFreq(220), WithKernelWidth(0), WithNorm(NormNone))
	require.NoError(t, err)
	require.NoError(t, d.ToPCD())

	assert.True(t, d.IsPCD())
	assert.Equal(t, FeaturePCD, d.Type())
	require.Equal(t, 160, d.Len())
	assert.Equal(t, 2.0, d.Vals[0])
	fifth := binIndex(pitch.HzToCent(330, 220), 7.5)
	assert.Equal(t, 1.0, d.Vals[fifth])

	// Idempotent.
	before := d.Clone()
	require.NoError(t, d.ToPCD())
	assert.Equal(t, before, d)
}

func TestToPCDErrors(t *testing.T) {
	d, err := FromCentPitch([]float64{0, 100}, WithStepSize(7), WithKernelWidth(0))
	require.NoError(t, err)
	assert.ErrorIs(t, d.ToPCD(), ErrStepSize)

	hz := &Distribution{Bins: []float64{100, 200}, Vals: []float64{1, 1}, StepSize: 7.5, Norm: NormNone}
	assert.ErrorIs(t, hz.ToPCD(), ErrHzBins)
}

func TestHzCentRoundTrip(t *testing.T) {
	d, err := FromHzPitch([]float64{200, 250, 300}, WithRefFreq(220))
	require.NoError(t, err)
	orig := d.Clone()

	require.NoError(t, d.CentToHz())
	assert.True(t, d.HasHzBins())
	testutil.RequireNearlyEqual(t, d.Bins[0], pitch.CentToHz(orig.Bins[0], 220), 1e-9)

	require.NoError(t, d.HzToCent(220))
	testutil.RequireSliceNearlyEqual(t, d.Bins, orig.Bins, 1e-9)
	assert.ErrorIs(t, d.HzToCent(220), ErrCentBins)

	p := pcd(map[int]float64{0: 1})
	assert.ErrorIs(t, p.CentToHz(), ErrPCDToHz)
	p.RefFreq = 0
	assert.ErrorIs(t, p.CentToHz(), ErrHzBins)
}

func TestHzToCentRebase(t *testing.T) {
	d := &Distribution{Bins: []float64{220, 440}, Vals: []float64{1, 1}, StepSize: 7.5, Norm: NormNone}
	require.NoError(t, d.HzToCent(440))
	testutil.RequireSliceNearlyEqual(t, d.Bins, []float64{-1200, 0}, 1e-9)
	assert.Equal(t, 440.0, d.RefFreq)

	bad := &Distribution{Bins: []float64{0}, Vals: []float64{1}, StepSize: 7.5}
	assert.Error(t, bad.HzToCent(440))
}

func TestNormalize(t *testing.T) {
	d := &Distribution{Vals: []float64{1, 4, 5}}
	require.NoError(t, d.Normalize(NormMax))
	testutil.RequireSliceNearlyEqual(t, d.Vals, []float64{0.2, 0.8, 1}, 1e-12)

	require.NoError(t, d.Normalize(NormSum))
	testutil.RequireNearlyEqual(t, sum(d.Vals), 1, 1e-12)

	zero := &Distribution{Vals: []float64{0, 0}}
	require.NoError(t, zero.Normalize(NormSum))
	assert.Equal(t, []float64{0, 0}, zero.Vals)

	assert.ErrorIs(t, d.Normalize("bogus"), ErrNormType)
}

func TestShiftPCD(t *testing.T) {
	d := pcd(map[int]float64{4: 1, 10: 0.5})
	s, err := d.Shift(4)
	require.NoError(t, err)

	assert.Equal(t, 1.0, s.Vals[0])
	assert.Equal(t, 0.5, s.Vals[6])
	assert.Equal(t, d.Bins, s.Bins)
	testutil.RequireNearlyEqual(t, s.RefFreq, 220*math.Exp2(30.0/1200), 1e-9)
	// d is untouched.
	assert.Equal(t, 1.0, d.Vals[4])
}

func TestShiftPD(t *testing.T) {
	d := &Distribution{Bins: []float64{-15, -7.5, 0, 7.5}, Vals: []float64{1, 2, 3, 4}, RefFreq: 440, StepSize: 7.5, Norm: NormNone}
	s, err := d.Shift(3)
	require.NoError(t, err)
	assert.Equal(t, []float64{-22.5, -15, -7.5, 0}, s.Bins)
	assert.Equal(t, d.Vals, s.Vals)

	_, err = d.Shift(4)
	assert.ErrorIs(t, err, ErrShiftIndex)
}

func TestDetectPeaksPCDWraps(t *testing.T) {
	d := pcd(map[int]float64{0: 5, 1: 2, 159: 2, 80: 3, 79: 1, 81: 2, 40: 0.2})
	peaks := d.DetectPeaks(0.1)

	require.Len(t, peaks, 2)
	assert.Equal(t, 0, peaks[0].Index)
	testutil.RequireNearlyEqual(t, peaks[0].Bin, 0, 1e-12)
	assert.Equal(t, 80, peaks[1].Index)
	testutil.RequireNearlyEqual(t, peaks[1].Bin, 600+7.5/6, 1e-9)
}

func TestDetectPeaksEmpty(t *testing.T) {
	assert.Nil(t, (&Distribution{}).DetectPeaks(0.1))
	assert.Nil(t, pcd(nil).DetectPeaks(0.1))
}

func TestAlignPD(t *testing.T) {
	a := &Distribution{Bins: []float64{0, 7.5}, Vals: []float64{1, 1}, RefFreq: 220, StepSize: 7.5}
	b := &Distribution{Bins: []float64{-7.5}, Vals: []float64{2}, RefFreq: 330, StepSize: 7.5}

	av, bv, err := Align(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 1}, av)
	assert.Equal(t, []float64{2, 0, 0}, bv)
}

func TestAlignIncompatible(t *testing.T) {
	a := pcd(map[int]float64{0: 1})
	b := &Distribution{Bins: []float64{0}, Vals: []float64{1}, RefFreq: 220, StepSize: 7.5}
	_, _, err := Align(a, b)
	assert.ErrorIs(t, err, ErrIncompatible)

	c := &Distribution{Bins: []float64{0}, Vals: []float64{1}, RefFreq: 220, StepSize: 5}
	_, _, err = Align(b, c)
	assert.ErrorIs(t, err, ErrIncompatible)
}

func TestSumPD(t *testing.T) {
	a := &Distribution{Bins: []float64{0, 7.5}, Vals: []float64{1, 1}, RefFreq: 220, StepSize: 7.5, Norm: NormSum}
	b := &Distribution{Bins: []float64{-7.5}, Vals: []float64{2}, RefFreq: 330, StepSize: 7.5, Norm: NormSum}

	s, err := Sum(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{-7.5, 0, 7.5}, s.Bins)
	testutil.RequireSliceNearlyEqual(t, s.Vals, []float64{0.5, 0.25, 0.25}, 1e-12)
	assert.Equal(t, 220.0, s.RefFreq)
}

func TestSumPCD(t *testing.T) {
	a := pcd(map[int]float64{0: 1})
	b := pcd(map[int]float64{0: 1, 3: 2})
	s, err := Sum(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2.0, s.Vals[0])
	assert.Equal(t, 2.0, s.Vals[3])
	assert.Equal(t, 1.0, a.Vals[0], "inputs must not be modified")

	_, err = Sum()
	assert.Error(t, err)
}

func TestJSONRoundTrip(t *testing.T) {
	d, err := FromHzPitch([]float64{220, 230, 440}, WithRefFreq(220))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, d.WriteJSON(&buf))
	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestEqual(t *testing.T) {
	a := pcd(map[int]float64{0: 1, 40: 0.5})
	b := a.Clone()
	assert.True(t, a.Equal(b, 1e-12))

	b.Vals[40] += 1e-6
	assert.False(t, a.Equal(b, 1e-9))
	assert.True(t, a.Equal(b, 1e-3))

	c := a.Clone()
	c.RefFreq = 440
	assert.False(t, a.Equal(c, 1e-9))

	assert.False(t, a.Equal(nil, 1))
	var nilDist *Distribution
	assert.True(t, nilDist.Equal(nil, 0))
}

func TestReadRejectsInvalid(t *testing.T) {
	_, err := Read(bytes.NewBufferString(`{"bins":[0,1],"vals":[1],"step_size":7.5,"norm_type":"sum"}`))
	assert.True(t, errors.Is(err, ErrLengthMismatch), "got %v", err)

	_, err = Read(bytes.NewBufferString(`not json`))
	assert.Error(t, err)
}

func TestWriteTSV(t *testing.T) {
	d := &Distribution{Bins: []float64{0, 7.5}, Vals: []float64{0.25, 0.75}}
	var buf bytes.Buffer
	require.NoError(t, d.WriteTSV(&buf))
	assert.Equal(t, "0\t0.25\n7.5\t0.75\n", buf.String())
}

func TestParseFeatureType(t *testing.T) {
	f, err := ParseFeatureType(" PCD ")
	require.NoError(t, err)
	assert.Equal(t, FeaturePCD, f)

	_, err = ParseFeatureType("hpcp")
	assert.ErrorIs(t, err, ErrFeatureType)
}

func sum(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x
	}
	return s
}

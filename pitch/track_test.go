package pitch

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSingleColumn(t *testing.T) {
	tr, err := Read(strings.NewReader("220\n221.5\n\n0\n"))
	require.NoError(t, err)
	assert.Nil(t, tr.Time)
	assert.Equal(t, []float64{220, 221.5, 0}, tr.Pitch)
}

func TestReadMatrix(t *testing.T) {
	in := "# time pitch salience\n0.0 0 0.1\n0.0029 220 0.8\n0.0058\t221\t0.9\n"
	tr, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.0029, 0.0058}, tr.Time)
	assert.Equal(t, []float64{0, 220, 221}, tr.Pitch)
	require.Len(t, tr.Extra, 1)
	assert.Equal(t, []float64{0.1, 0.8, 0.9}, tr.Extra[0])
	assert.NoError(t, tr.Validate())
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"empty", "", ErrEmptyTrack},
		{"comments only", "# nothing\n\n", ErrEmptyTrack},
		{"ragged", "0 220\n1 221 0.3\n", ErrRaggedMatrix},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in))
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestReadBadNumberReportsLine(t *testing.T) {
	_, err := Read(strings.NewReader("0 220\n1 abc\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestWriteReadRoundTrip(t *testing.T) {
	tr := &Track{
		Time:  []float64{0, 0.01, 0.02},
		Pitch: []float64{0, 246.94, 261.63},
		Extra: [][]float64{{0, 0.7, 0.8}},
	}
	var buf bytes.Buffer
	require.NoError(t, tr.Write(&buf))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, tr, got)
}

func TestFileLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.pitch")
	require.NoError(t, os.WriteFile(path, []byte("0 100\n1 200\n"), 0o600))

	tr, err := File(path).Load()
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 200}, tr.Pitch)

	_, err = File(filepath.Join(t.TempDir(), "missing")).Load()
	assert.Error(t, err)
}

func TestFromMatrixRagged(t *testing.T) {
	_, err := FromMatrix([][]float64{{0, 1}, {0}})
	assert.ErrorIs(t, err, ErrRaggedMatrix)
}

func TestVoiced(t *testing.T) {
	tr := &Track{Pitch: []float64{0, 10, 220, math.NaN(), math.Inf(1), 330}}
	assert.Equal(t, []float64{220, 330}, tr.Voiced())
}

func TestValidateTimeMismatch(t *testing.T) {
	tr := &Track{Time: []float64{0}, Pitch: []float64{1, 2}}
	assert.ErrorIs(t, tr.Validate(), ErrTimeLength)
}

package pitch

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Errors returned by track parsing.
var (
	ErrEmptyTrack   = errors.New("pitch: empty pitch track")
	ErrRaggedMatrix = errors.New("pitch: rows have different column counts")
	ErrTimeLength   = errors.New("pitch: time and pitch length mismatch")
)

// Track is a pitch track: a pitch stream in Hz with optional timestamps and
// any further per-frame columns (salience, confidence, ...).
type Track struct {
	Time  []float64
	Pitch []float64
	Extra [][]float64 // Extra[c][i] is extra column c at frame i.
}

// File is the path of a whitespace-delimited pitch-track file.
type File string

// Load reads the file, see [ReadFile].
func (f File) Load() (*Track, error) {
	return ReadFile(string(f))
}

// Len returns the number of frames.
func (t *Track) Len() int {
	return len(t.Pitch)
}

// Validate checks the structural invariants of the track.
func (t *Track) Validate() error {
	if t == nil || len(t.Pitch) == 0 {
		return ErrEmptyTrack
	}
	if t.Time != nil && len(t.Time) != len(t.Pitch) {
		return fmt.Errorf("%w: %d vs %d", ErrTimeLength, len(t.Time), len(t.Pitch))
	}
	for c, col := range t.Extra {
		if len(col) != len(t.Pitch) {
			return fmt.Errorf("%w: extra column %d has %d rows, want %d", ErrRaggedMatrix, c, len(col), len(t.Pitch))
		}
	}
	return nil
}

// Voiced returns the pitch values that are finite and at least MinFreq.
func (t *Track) Voiced() []float64 {
	out := make([]float64, 0, len(t.Pitch))
	for _, p := range t.Pitch {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < MinFreq {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Cents converts the pitch stream to cents relative to ref.
func (t *Track) Cents(ref float64) []float64 {
	return HzToCentSlice(t.Pitch, ref)
}

// FromMatrix builds a track from rows of a matrix. A single column is the
// pitch stream; otherwise column 0 is time and column 1 is pitch.
func FromMatrix(rows [][]float64) (*Track, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyTrack
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, ErrEmptyTrack
	}
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrRaggedMatrix, i, len(r), cols)
		}
	}

	t := &Track{Pitch: make([]float64, len(rows))}
	if cols == 1 {
		for i, r := range rows {
			t.Pitch[i] = r[0]
		}
		return t, nil
	}

	t.Time = make([]float64, len(rows))
	if cols > 2 {
		t.Extra = make([][]float64, cols-2)
		for c := range t.Extra {
			t.Extra[c] = make([]float64, len(rows))
		}
	}
	for i, r := range rows {
		t.Time[i] = r[0]
		t.Pitch[i] = r[1]
		for c := 2; c < cols; c++ {
			t.Extra[c-2][i] = r[c]
		}
	}
	return t, nil
}

// Read parses a whitespace-delimited pitch-track matrix. Blank lines and lines
// starting with '#' are skipped.
func Read(r io.Reader) (*Track, error) {
	var rows [][]float64
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("pitch: line %d column %d: %w", line, i+1, err)
			}
			row[i] = v
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("%w: line %d has %d columns, want %d", ErrRaggedMatrix, line, len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("pitch: read track: %w", err)
	}

	return FromMatrix(rows)
}

// ReadFile opens path and parses it with [Read].
func ReadFile(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pitch: open track: %w", err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("frames", t.Len()).Msg("loaded pitch track")
	return t, nil
}

// Write emits the track as a tab-separated matrix readable by [Read].
func (t *Track) Write(w io.Writer) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.Time == nil && len(t.Extra) > 0 {
		return fmt.Errorf("%w: extra columns need a time column", ErrTimeLength)
	}
	bw := bufio.NewWriter(w)
	for i := range t.Pitch {
		var b strings.Builder
		if t.Time != nil {
			b.WriteString(strconv.FormatFloat(t.Time[i], 'g', -1, 64))
			b.WriteByte('\t')
		}
		b.WriteString(strconv.FormatFloat(t.Pitch[i], 'g', -1, 64))
		for _, col := range t.Extra {
			b.WriteByte('\t')
			b.WriteString(strconv.FormatFloat(col[i], 'g', -1, 64))
		}
		b.WriteByte('\n')
		if _, err := bw.WriteString(b.String()); err != nil {
			return fmt.Errorf("pitch: write track: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("pitch: write track: %w", err)
	}
	return nil
}

// WriteFile writes the track to path, see [Track.Write].
func (t *Track) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pitch: create track: %w", err)
	}
	if err := t.Write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

package extract

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrInvalidWAV is returned for input that is not a PCM WAV file.
var ErrInvalidWAV = errors.New("extract: invalid wav file")

// DecodeWAV reads a PCM WAV stream and returns its mono mixdown normalized to
// [-1, 1] together with the sample rate.
func DecodeWAV(r io.ReadSeeker) ([]float64, float64, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, ErrInvalidWAV
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("extract: decode wav: %w", err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 || buf.Format.SampleRate <= 0 {
		return nil, 0, ErrInvalidWAV
	}

	log.Debug().
		Int("channels", buf.Format.NumChannels).
		Int("sample_rate", buf.Format.SampleRate).
		Int("bit_depth", buf.SourceBitDepth).
		Int("samples", len(buf.Data)).
		Msg("decoded wav")

	return toMono(buf), float64(buf.Format.SampleRate), nil
}

// toMono averages the channels of buf and scales by the bit depth.
func toMono(buf *audio.IntBuffer) []float64 {
	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels

	var full, offset float64
	switch buf.SourceBitDepth {
	case 8:
		// 8-bit PCM is unsigned.
		full, offset = 128, 128
	case 24:
		full = 8388608
	case 32:
		full = 2147483648
	default:
		full = 32768
	}

	out := make([]float64, frames)
	idx := 0
	for i := range out {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += float64(buf.Data[idx]) - offset
			idx++
		}
		out[i] = sum / float64(channels) / full
	}
	return out
}

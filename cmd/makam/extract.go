package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-makam/pitch"
	"github.com/cwbudde/algo-makam/pitch/extract"
)

type extractFlags struct {
	frameSize int
	hopSize   int
	threshold float64
	minFreq   float64
	maxFreq   float64
	silence   float64
}

func (f *extractFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.frameSize, "frame-size", extract.DefaultFrameSize, "analysis frame length in samples")
	fs.IntVar(&f.hopSize, "hop-size", extract.DefaultHopSize, "hop between frames in samples")
	fs.Float64Var(&f.threshold, "yin-threshold", extract.DefaultThreshold, "YIN absolute threshold")
	fs.Float64Var(&f.minFreq, "min-freq", extract.DefaultMinFreq, "lowest detected pitch in Hz")
	fs.Float64Var(&f.maxFreq, "max-freq", extract.DefaultMaxFreq, "highest detected pitch in Hz")
	fs.Float64Var(&f.silence, "silence", extract.DefaultSilenceThreshold, "frame RMS below which a frame is unvoiced")
}

func (f *extractFlags) extractor() (*extract.Extractor, error) {
	return extract.New(
		extract.WithFrameSize(f.frameSize),
		extract.WithHopSize(f.hopSize),
		extract.WithThreshold(f.threshold),
		extract.WithFrequencyRange(f.minFreq, f.maxFreq),
		extract.WithSilenceThreshold(f.silence),
	)
}

func isWAV(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".wav" || ext == ".wave"
}

// loadTrack reads a pitch-track file, or extracts the track of a WAV file.
func (f *extractFlags) loadTrack(cmd *cobra.Command, path string) (*pitch.Track, error) {
	if !isWAV(path) {
		return pitch.ReadFile(path)
	}
	ex, err := f.extractor()
	if err != nil {
		return nil, err
	}
	logger.Info().Str("file", path).Msg("extracting pitch")
	return ex.ExtractFile(cmd.Context(), path)
}

func newExtractCmd() *cobra.Command {
	var flags extractFlags
	cmd := &cobra.Command{
		Use:   "extract <in.wav> [out.pitch]",
		Short: "Estimate the pitch track of a WAV file",
		Long: `Estimate the predominant pitch of a mono or multi-channel WAV file.

The output has one row per frame: time in seconds, pitch in Hz (0 when
unvoiced) and confidence. Without an output path the track is written to
stdout.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := flags.extractor()
			if err != nil {
				return err
			}
			track, err := ex.ExtractFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var out string
			if len(args) == 2 {
				out = args[1]
			}
			w, done, err := output(cmd, out)
			if err != nil {
				return err
			}
			if err := track.Write(w); err != nil {
				done()
				return err
			}
			logger.Info().
				Str("file", args[0]).
				Int("frames", track.Len()).
				Int("voiced", len(track.Voiced())).
				Msg("pitch extracted")
			return done()
		},
	}
	flags.register(cmd)
	return cmd
}

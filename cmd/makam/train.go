package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/cwbudde/algo-makam/classifier"
	"github.com/cwbudde/algo-makam/distribution"
	"github.com/cwbudde/algo-makam/pitch"
)

// annotation is one line of a training list: a pitch file, its tonic in Hz
// and its makam.
type annotation struct {
	path  string
	tonic float64
	mode  string
}

var errAnnotation = errors.New("invalid annotation")

// readAnnotations parses whitespace-separated "path tonic mode" lines. Blank
// lines and '#' comments are skipped. Relative paths are resolved against dir.
func readAnnotations(r io.Reader, dir string) ([]annotation, error) {
	var out []annotation
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: line %d: want 3 fields (path tonic mode), got %d", errAnnotation, line, len(fields))
		}
		tonic, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || !pitch.ValidFreq(tonic) {
			return nil, fmt.Errorf("%w: line %d: tonic %q", errAnnotation, line, fields[1])
		}
		path := fields[0]
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		out = append(out, annotation{path: path, tonic: tonic, mode: fields[2]})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no entries", errAnnotation)
	}
	return out, nil
}

func newTrainCmd() *cobra.Command {
	var (
		ext         extractFlags
		step        float64
		kernel      float64
		featureName string
		modelType   string
		out         string
		quiet       bool
	)
	cmd := &cobra.Command{
		Use:   "train <annotations>",
		Short: "Train tonic and makam models",
		Long: `Train models from an annotation list with one recording per line:

	<pitch-file or wav> <tonic Hz> <makam>

Relative paths are resolved against the directory of the annotation list.
With --model-type single the recordings of a makam are merged into one model;
with multi every recording is its own model.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ft, err := distribution.ParseFeatureType(featureName)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			anns, err := readAnnotations(f, filepath.Dir(args[0]))
			f.Close()
			if err != nil {
				return err
			}

			recs := make([]classifier.Recording, len(anns))
			for i, a := range anns {
				recs[i] = classifier.Recording{Pitch: pitch.File(a.path), Tonic: a.tonic, Mode: a.mode, Source: a.path}
				if isWAV(a.path) {
					track, err := ext.loadTrack(cmd, a.path)
					if err != nil {
						return err
					}
					recs[i].Pitch = track
				}
			}

			opts := []classifier.Option{
				classifier.WithStepSize(step),
				classifier.WithKernelWidth(kernel),
				classifier.WithFeatureType(ft),
				classifier.WithModelType(classifier.ModelType(modelType)),
				classifier.WithLogger(logger),
			}
			var p *mpb.Progress
			if !quiet {
				p = mpb.New(mpb.WithWidth(64), mpb.WithOutput(cmd.ErrOrStderr()))
				bar := p.AddBar(int64(len(recs)),
					mpb.PrependDecorators(
						decor.Name("Training: "),
						decor.CountersNoUnit("%d / %d"),
					),
					mpb.AppendDecorators(
						decor.Percentage(),
						decor.EwmaETA(decor.ET_STYLE_GO, 60),
					),
				)
				opts = append(opts, classifier.WithProgress(func(done, total int) {
					bar.SetCurrent(int64(done))
				}))
				defer func() {
					bar.Abort(false)
					p.Wait()
				}()
			}

			c, err := classifier.New(opts...)
			if err != nil {
				return err
			}
			if err := c.Train(cmd.Context(), recs); err != nil {
				return err
			}

			w, done, err := output(cmd, out)
			if err != nil {
				return err
			}
			if err := c.SaveModel(w); err != nil {
				done()
				return err
			}
			logger.Info().Int("recordings", len(recs)).Int("models", len(c.Models())).Strs("modes", c.Modes()).Msg("models trained")
			return done()
		},
	}
	fs := cmd.Flags()
	fs.Float64Var(&step, "step", classifier.DefaultStepSize, "bin width in cents")
	fs.Float64Var(&kernel, "kernel", classifier.DefaultKernelWidth, "Gaussian kernel standard deviation in cents")
	fs.StringVar(&featureName, "feature", string(distribution.FeaturePCD), "feature type (pd or pcd)")
	fs.StringVar(&modelType, "model-type", string(classifier.ModelMulti), "model type (single or multi)")
	fs.StringVarP(&out, "output", "o", "", "model file (default stdout)")
	fs.BoolVarP(&quiet, "quiet", "q", false, "no progress bar")
	ext.register(cmd)
	return cmd
}

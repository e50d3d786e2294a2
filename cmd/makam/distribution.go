package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-makam/distribution"
)

func newDistributionCmd() *cobra.Command {
	var (
		ext         extractFlags
		ref         float64
		step        float64
		kernel      float64
		featureName string
		normName    string
		format      string
		out         string
	)
	cmd := &cobra.Command{
		Use:   "distribution <pitch-file>",
		Short: "Build a pitch (pd) or pitch-class (pcd) distribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ft, err := distribution.ParseFeatureType(featureName)
			if err != nil {
				return err
			}
			norm, err := distribution.ParseNormType(normName)
			if err != nil {
				return err
			}
			if format != "json" && format != "tsv" {
				return fmt.Errorf("invalid --format %q: want json or tsv", format)
			}

			track, err := ext.loadTrack(cmd, args[0])
			if err != nil {
				return err
			}
			d, err := distribution.FromHzPitch(track.Pitch,
				distribution.WithRefFreq(ref),
				distribution.WithStepSize(step),
				distribution.WithKernelWidth(kernel),
				distribution.WithNorm(norm))
			if err != nil {
				return err
			}
			if ft == distribution.FeaturePCD {
				if err := d.ToPCD(); err != nil {
					return err
				}
			}

			w, done, err := output(cmd, out)
			if err != nil {
				return err
			}
			if format == "tsv" {
				err = d.WriteTSV(w)
			} else {
				err = d.WriteJSON(w)
			}
			if err != nil {
				done()
				return err
			}
			logger.Info().Str("file", args[0]).Str("feature", string(ft)).Int("bins", d.Len()).Msg("distribution built")
			return done()
		},
	}
	fs := cmd.Flags()
	fs.Float64Var(&ref, "ref", distribution.DefaultRefFreq, "reference frequency in Hz (0 cents)")
	fs.Float64Var(&step, "step", distribution.DefaultStepSize, "bin width in cents")
	fs.Float64Var(&kernel, "kernel", distribution.DefaultKernelWidth, "Gaussian kernel standard deviation in cents (0 disables smoothing)")
	fs.StringVar(&featureName, "feature", string(distribution.FeaturePD), "feature type (pd or pcd)")
	fs.StringVar(&normName, "norm", string(distribution.NormSum), "normalization (sum, max or none)")
	fs.StringVar(&format, "format", "json", "output format (json or tsv)")
	fs.StringVarP(&out, "output", "o", "", "output file (default stdout)")
	ext.register(cmd)
	return cmd
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-makam/classifier"
	"github.com/cwbudde/algo-makam/distance"
	"github.com/cwbudde/algo-makam/pitch"
)

type estimateFlags struct {
	ext          extractFlags
	model        string
	method       string
	k            int
	rank         int
	minPeakRatio float64
	asJSON       bool
}

func (f *estimateFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.model, "model", "m", "", "model file written by train (required)")
	fs.StringVar(&f.method, "distance", "bhat", "distance (l1, l2, l3, bhat, intersection, corr)")
	fs.IntVar(&f.k, "k", classifier.DefaultK, "number of voting neighbours")
	fs.IntVar(&f.rank, "rank", classifier.DefaultRank, "number of ranked estimates to print")
	fs.Float64Var(&f.minPeakRatio, "min-peak-ratio", classifier.DefaultMinPeakRatio, "minimum relative height of a tonic candidate peak")
	fs.BoolVar(&f.asJSON, "json", false, "print estimates as JSON")
	_ = cmd.MarkFlagRequired("model")
	f.ext.register(cmd)
}

func (f *estimateFlags) classifier() (*classifier.Classifier, error) {
	m, err := distance.ParseMethod(f.method)
	if err != nil {
		return nil, err
	}
	return classifier.LoadModelFile(f.model,
		classifier.WithDistance(m),
		classifier.WithK(f.k),
		classifier.WithRank(f.rank),
		classifier.WithMinPeakRatio(f.minPeakRatio),
		classifier.WithLogger(logger),
	)
}

// prepare loads the models and the pitch track of path.
func (f *estimateFlags) prepare(cmd *cobra.Command, path string) (*classifier.Classifier, *pitch.Track, error) {
	c, err := f.classifier()
	if err != nil {
		return nil, nil, err
	}
	track, err := f.ext.loadTrack(cmd, path)
	if err != nil {
		return nil, nil, err
	}
	return c, track, nil
}

func (f *estimateFlags) print(w io.Writer, ests []classifier.Estimate) error {
	if f.asJSON {
		// JSON has no infinity; a neighbour without any overlap gets null.
		type jsonEstimate struct {
			Tonic    float64  `json:"tonic,omitempty"`
			Mode     string   `json:"mode,omitempty"`
			Distance *float64 `json:"distance"`
			Votes    int      `json:"votes"`
		}
		out := make([]jsonEstimate, len(ests))
		for i, e := range ests {
			out[i] = jsonEstimate{Tonic: e.Tonic, Mode: e.Mode, Votes: e.Votes}
			if !math.IsInf(e.Distance, 0) && !math.IsNaN(e.Distance) {
				out[i].Distance = &ests[i].Distance
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tTONIC (Hz)\tMAKAM\tVOTES\tDISTANCE")
	for i, e := range ests {
		tonic := "-"
		if e.Tonic > 0 {
			tonic = fmt.Sprintf("%.2f", e.Tonic)
		}
		mode := e.Mode
		if mode == "" {
			mode = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.4f\n", i+1, tonic, mode, e.Votes, e.Distance)
	}
	return tw.Flush()
}

func newTonicCmd() *cobra.Command {
	var (
		flags estimateFlags
		mode  string
	)
	cmd := &cobra.Command{
		Use:   "tonic <pitch-file>",
		Short: "Estimate the tonic of a recording with a known makam",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, track, err := flags.prepare(cmd, args[0])
			if err != nil {
				return err
			}
			ests, err := c.EstimateTonic(track, mode)
			if err != nil {
				return err
			}
			return flags.print(cmd.OutOrStdout(), ests)
		},
	}
	cmd.Flags().StringVar(&mode, "makam", "", "makam of the recording (required)")
	_ = cmd.MarkFlagRequired("makam")
	flags.register(cmd)
	return cmd
}

func newModeCmd() *cobra.Command {
	var (
		flags estimateFlags
		tonic float64
	)
	cmd := &cobra.Command{
		Use:   "mode <pitch-file>",
		Short: "Estimate the makam of a recording with a known tonic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !pitch.ValidFreq(tonic) {
				return fmt.Errorf("--tonic must be a finite frequency > 0: %v", tonic)
			}
			c, track, err := flags.prepare(cmd, args[0])
			if err != nil {
				return err
			}
			ests, err := c.EstimateMode(track, tonic)
			if err != nil {
				return err
			}
			return flags.print(cmd.OutOrStdout(), ests)
		},
	}
	cmd.Flags().Float64Var(&tonic, "tonic", 0, "tonic frequency in Hz (required)")
	_ = cmd.MarkFlagRequired("tonic")
	flags.register(cmd)
	return cmd
}

func newJointCmd() *cobra.Command {
	var flags estimateFlags
	cmd := &cobra.Command{
		Use:   "joint <pitch-file>",
		Short: "Estimate the tonic and the makam of a recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, track, err := flags.prepare(cmd, args[0])
			if err != nil {
				return err
			}
			ests, err := c.EstimateJoint(track)
			if err != nil {
				return err
			}
			return flags.print(cmd.OutOrStdout(), ests)
		},
	}
	flags.register(cmd)
	return cmd
}

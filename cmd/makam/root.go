package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-makam/feature"
	"github.com/cwbudde/algo-makam/pitch"
	"github.com/cwbudde/algo-makam/pitch/extract"
)

// logger is configured by the root command before any subcommand runs.
var logger = zerolog.Nop()

func newRootCmd() *cobra.Command {
	var level, format string

	root := &cobra.Command{
		Use:           "makam",
		Short:         "Tonic and makam analysis of pitch tracks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(cmd.ErrOrStderr(), level, format)
			if err != nil {
				return err
			}
			logger = l
			pitch.SetLogger(l)
			extract.SetLogger(l)
			feature.SetLogger(l)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&level, "log-level", "info", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().StringVar(&format, "log-format", "console", "log format (console or json)")

	root.AddCommand(
		newExtractCmd(),
		newDistributionCmd(),
		newTrainCmd(),
		newTonicCmd(),
		newModeCmd(),
		newJointCmd(),
	)
	return root
}

func newLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid --log-level %q: %w", level, err)
	}

	switch format {
	case "json":
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	default:
		return zerolog.Nop(), fmt.Errorf("invalid --log-format %q: want console or json", format)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// output returns the file named by path, or stdout when path is empty or "-".
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

//go:build !ios && !android && (amd64 || arm64)

// playercheck drives a media-decoding subject through the full validation
// battery: a still-image test, an unavailable-file test, a sequential
// frame walk and the exhaustive action-combination sweeps.
//
// Usage: playercheck [flags] <media.mkv> <image.jpg>
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/obinnaokechukwu/playercheck"
	"github.com/obinnaokechukwu/playercheck/internal/log"
	"github.com/obinnaokechukwu/playercheck/simplayer"
	"github.com/obinnaokechukwu/playercheck/sxplayer"
)

type rootOptions struct {
	Subject  string // "native" or "sim"
	LogLevel string
	Audio    bool
}

func (o *rootOptions) openFunc() (playercheck.OpenFunc, error) {
	switch o.Subject {
	case "native":
		return sxplayer.Open, nil
	case "sim":
		return simplayer.Open, nil
	}
	return nil, fmt.Errorf("unknown subject %q (want native or sim)", o.Subject)
}

func (o *rootOptions) runner() (*playercheck.Runner, error) {
	log.Configure(log.Config{Level: o.LogLevel})
	open, err := o.openFunc()
	if err != nil {
		return nil, err
	}
	r := playercheck.NewRunner(open)
	r.IncludeAudio = o.Audio
	return r, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "playercheck <media> <image>",
		Short: "Validate a media-decoding subject against analytic expectations",
		Long: `playercheck drives a stateful media player through every duplicate-free
ordering of its atomic operations and verifies returned frames against
analytically predictable timestamps and pixel-coded frame identities.

The full battery runs, in order: the still-image test, the
unavailable-file test, a sequential frame walk, then the four
combination sweep variants (plain, skip, trim, skip+trim).`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.runner()
			if err != nil {
				return err
			}
			if err := r.Run(args[0], args[1]); err != nil {
				return err
			}
			logger := log.Base()
			logger.Info().Msg("all tests OK")
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Subject, "subject", "native", "subject implementation (native or sim)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&opts.Audio, "audio", false, "also sweep the audio track variants")

	cmd.AddCommand(newSweepCmd(opts))
	cmd.AddCommand(newImageCmd(opts))
	cmd.AddCommand(newWalkCmd(opts))

	return cmd
}

func newSweepCmd(opts *rootOptions) *cobra.Command {
	var (
		skip bool
		trim bool
	)

	cmd := &cobra.Command{
		Use:   "sweep <media>",
		Short: "Run the combination sweep only",
		Long: `Run the exhaustive action-combination sweep against the media asset.
Without flags all four configuration variants run; --skip and --trim
select a single variant.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.runner()
			if err != nil {
				return err
			}

			variants := []playercheck.Flags{0, playercheck.FlagSkip, playercheck.FlagTrimDuration,
				playercheck.FlagSkip | playercheck.FlagTrimDuration}
			if skip || trim {
				var fl playercheck.Flags
				if skip {
					fl |= playercheck.FlagSkip
				}
				if trim {
					fl |= playercheck.FlagTrimDuration
				}
				variants = []playercheck.Flags{fl}
			}
			for i := range variants {
				if opts.Audio {
					variants[i] |= playercheck.FlagAudio
				}
				if err := r.RunAllCombs(args[0], variants[i]); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skip, "skip", false, "enable the time-skip offset")
	cmd.Flags().BoolVar(&trim, "trim", false, "enable the duration trim")

	return cmd
}

func newImageCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "image <image>",
		Short:        "Run the still-image test only",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.runner()
			if err != nil {
				return err
			}
			return r.RunImage(args[0])
		},
	}
}

func newWalkCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "walk <media>",
		Short:        "Decode the media sequentially to the end, twice",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.runner()
			if err != nil {
				return err
			}
			return r.RunWalk(args[0])
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger := log.Base()
		logger.Error().Err(err).Msg("test failed")
		os.Exit(1)
	}
}

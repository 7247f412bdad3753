package playercheck

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/obinnaokechukwu/playercheck/internal/log"
)

// Expected dimensions of the still-image test asset.
const (
	ExpectImageWidth  = 480
	ExpectImageHeight = 640
)

// missingSource is the path used by the unavailable-file scenario.
const missingSource = "/i/do/not/exist"

// Runner drives a subject implementation through the test scenarios.
// The sweep is strictly sequential: one subject at a time, created fresh
// for each combination and closed before the next.
type Runner struct {
	open OpenFunc
	log  zerolog.Logger

	// IncludeAudio also runs the four sweep variants against the audio
	// track. Audio verification is timestamp-only.
	IncludeAudio bool
}

// NewRunner returns a runner that creates subjects through open.
func NewRunner(open OpenFunc) *Runner {
	return &Runner{
		open: open,
		log:  log.WithComponent("runner"),
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l zerolog.Logger) { r.log = l }

type actionHandler func(s Subject, flags Flags) error

// Handler table indexed by action ordinal. Names match Action.String.
var actionHandlers = [actionCount]actionHandler{
	ActionPrefetch:  actionPrefetch,
	ActionFetchInfo: actionFetchInfo,
	ActionStart:     actionStart,
	ActionMiddle:    actionMiddle,
	ActionEnd:       actionEnd,
}

func actionPrefetch(s Subject, _ Flags) error {
	if err := s.Prefetch(); err != nil {
		return fmt.Errorf("prefetch: %w", err)
	}
	return nil
}

func actionFetchInfo(s Subject, _ Flags) error {
	info, err := s.Info()
	if err != nil {
		return fmt.Errorf("fetchinfo: %w", err)
	}
	if info.Width != ExpectWidth || info.Height != ExpectHeight {
		return fmt.Errorf("fetchinfo: %w: got %dx%d, want %dx%d",
			ErrBadDimensions, info.Width, info.Height, ExpectWidth, ExpectHeight)
	}
	return nil
}

// checkAt verifies a frame that must exist against the oracle.
func checkAt(f *Frame, t float64, flags Flags) error {
	if f == nil {
		return fmt.Errorf("%w at t=%f", ErrNoFrame, t)
	}
	return CheckFrame(f, t, flags)
}

func actionStart(s Subject, flags Flags) error {
	f, err := s.FrameAt(0)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if err := checkAt(f, 0, flags); err != nil {
		return err
	}
	f.Free()
	return nil
}

// actionMiddle seeks around the middle of the stream and interleaves
// sequential next-frame stepping with direct seeks. The release order is
// deliberately not LIFO so subjects cannot get away with assuming
// stack-like frame lifetimes.
func actionMiddle(s Subject, flags Flags) error {
	times := []float64{30.0, 30.1, 30.2, 15.0}
	frames := make([]*Frame, 0, 6)
	for _, t := range times {
		f, err := s.FrameAt(t)
		if err != nil {
			return fmt.Errorf("middle: seek %f: %w", t, err)
		}
		frames = append(frames, f)
	}
	for i := 0; i < 2; i++ {
		f, err := s.NextFrame()
		if err != nil {
			return fmt.Errorf("middle: next frame: %w", err)
		}
		frames = append(frames, f)
	}

	// Sequential steps after the seek to 15.0 land one source frame apart.
	expected := append(times, 15.0+1.0/SourceFPS, 15.0+2.0/SourceFPS)
	for i, f := range frames {
		if err := checkAt(f, expected[i], flags); err != nil {
			return err
		}
	}
	for _, i := range []int{0, 5, 1, 4, 2, 3} {
		frames[i].Free()
	}

	f0, err := s.NextFrame()
	if err != nil {
		return fmt.Errorf("middle: next frame: %w", err)
	}
	f1, err := s.FrameAt(16.0)
	if err != nil {
		return fmt.Errorf("middle: seek 16.0: %w", err)
	}
	f2, err := s.FrameAt(16.001)
	if err != nil {
		return fmt.Errorf("middle: seek 16.001: %w", err)
	}

	if err := checkAt(f0, 15.0+3.0/SourceFPS, flags); err != nil {
		return err
	}
	if err := checkAt(f1, 16.0, flags); err != nil {
		return err
	}
	// 16.001 maps to the frame already returned for 16.0; the subject must
	// report "no new frame" rather than hand the same frame out again.
	if f2 != nil {
		f2.Free()
		return fmt.Errorf("middle: seek 16.001: %w", ErrUnexpectedFrame)
	}

	f1.Free()
	f0.Free()
	return nil
}

// actionEnd checks boundary clamping near end of stream: a request far past
// the end returns the last frame, and a nearer (but still out-of-range)
// request afterwards must not resurrect it. Presence only; there is no
// analytic expectation this far out, so the oracle is not consulted.
func actionEnd(s Subject, _ Flags) error {
	f, err := s.FrameAt(999999.0)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	if f == nil {
		return fmt.Errorf("end: %w at t=999999", ErrNoFrame)
	}
	f.Free()

	f, err = s.FrameAt(99999.0)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	if f != nil {
		f.Free()
		return fmt.Errorf("end: %w at t=99999", ErrUnexpectedFrame)
	}
	return nil
}

// configure applies the variant's options to a fresh subject.
func configure(s Subject, flags Flags) error {
	if err := s.SetOption(OptAutoHWAccel, 0); err != nil {
		return fmt.Errorf("set %s: %w", OptAutoHWAccel, err)
	}
	if flags&FlagSkip != 0 {
		if err := s.SetOption(OptSkip, TestSkip); err != nil {
			return fmt.Errorf("set %s: %w", OptSkip, err)
		}
	}
	if flags&FlagTrimDuration != 0 {
		if err := s.SetOption(OptTrimDuration, TestTrimDuration); err != nil {
			return fmt.Errorf("set %s: %w", OptTrimDuration, err)
		}
	}
	if flags&FlagAudio != 0 {
		if err := s.SetOption(OptAVSelect, SelectAudio); err != nil {
			return fmt.Errorf("set %s: %w", OptAVSelect, err)
		}
	}
	return nil
}

// execComb runs one combination's actions in order, stopping at the first
// failure.
func (r *Runner) execComb(s Subject, comb Comb, flags Flags) error {
	r.log.Info().
		Str("variant", flags.String()).
		Str("comb", comb.String()).
		Msg("test combination")
	for i := 0; i < int(actionCount); i++ {
		a := comb.At(i)
		if a == ActionNone {
			break
		}
		if err := actionHandlers[a](s, flags); err != nil {
			return fmt.Errorf("comb %s (%s): %w", comb, flags, err)
		}
	}
	return nil
}

// RunAllCombs executes every duplicate-free action combination against
// fresh subjects opened on source, under one configuration variant.
// It aborts on the first failure.
func (r *Runner) RunAllCombs(source string, flags Flags) error {
	var comb Comb
	for {
		comb = comb.Next()
		if comb == 0 {
			return nil
		}

		s, err := r.open(source)
		if err != nil {
			return fmt.Errorf("open %s: %w", source, err)
		}
		if err := configure(s, flags); err != nil {
			s.Close()
			return err
		}
		err = r.execComb(s, comb, flags)
		if cerr := s.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close: %w", cerr)
		}
		if err != nil {
			return err
		}
	}
}

// RunImage verifies still-image handling: any requested time yields the
// image as a frame, and the reported info matches the asset.
func (r *Runner) RunImage(source string) error {
	s, err := r.open(source)
	if err != nil {
		return fmt.Errorf("open %s: %w", source, err)
	}
	defer s.Close()

	f, err := s.FrameAt(53.0)
	if err != nil {
		return fmt.Errorf("image: %w", err)
	}
	if f == nil {
		return fmt.Errorf("image: %w", ErrNoFrame)
	}
	defer f.Free()

	info, err := s.Info()
	if err != nil {
		return fmt.Errorf("image: info: %w", err)
	}
	if info.Width != ExpectImageWidth || info.Height != ExpectImageHeight {
		return fmt.Errorf("image: %w: got %dx%d, want %dx%d",
			ErrBadDimensions, info.Width, info.Height, ExpectImageWidth, ExpectImageHeight)
	}
	return nil
}

// RunMissingFile verifies that a subject over a nonexistent source
// constructs, forwards its log output, and reports "no frame" instead of
// crashing for any requested time.
func (r *Runner) RunMissingFile() error {
	s, err := r.open(missingSource)
	if err != nil {
		return fmt.Errorf("open %s: %w", missingSource, err)
	}
	defer s.Close()

	s.SetLogFunc(func(level int, msg string) {
		r.log.Debug().Int("level", level).Str("subject", missingSource).Msg(msg)
	})

	for _, t := range []float64{-1, 1.0, 3.0} {
		f, err := s.FrameAt(t)
		if err != nil {
			return fmt.Errorf("missing file: seek %f: %w", t, err)
		}
		if f != nil {
			f.Free()
			return fmt.Errorf("missing file: %w at t=%f", ErrUnexpectedFrame, t)
		}
	}
	return nil
}

// RunWalk decodes source sequentially to the end, twice. The second pass
// observes that exhaustion is sticky: the cursor is not rewound.
func (r *Runner) RunWalk(source string) error {
	s, err := r.open(source)
	if err != nil {
		return fmt.Errorf("open %s: %w", source, err)
	}
	defer s.Close()

	if err := s.SetOption(OptAutoHWAccel, 0); err != nil {
		return fmt.Errorf("set %s: %w", OptAutoHWAccel, err)
	}

	n := 0
	for pass := 1; pass <= 2; pass++ {
		r.log.Info().Int("pass", pass).Msg("sequential frame walk")
		for {
			f, err := s.NextFrame()
			if err != nil {
				return fmt.Errorf("walk: %w", err)
			}
			if f == nil {
				r.log.Info().Int("pass", pass).Msg("end of stream")
				break
			}
			r.log.Debug().
				Int("frame", n).
				Float64("ts", f.TS).
				Int("width", f.Width).
				Int("height", f.Height).
				Int("linesize", f.Linesize).
				Int32("pix_fmt", f.PixFmt).
				Msg("frame")
			n++
			f.Free()
		}
	}
	return nil
}

// Run executes the full battery: image test, unavailable-file test,
// sequential walk, then the four combination sweep variants (plus the
// audio variants when IncludeAudio is set). It stops at the first failure.
func (r *Runner) Run(media, image string) error {
	if err := r.RunImage(image); err != nil {
		return err
	}
	if err := r.RunMissingFile(); err != nil {
		return err
	}
	if err := r.RunWalk(media); err != nil {
		return err
	}

	variants := []Flags{0, FlagSkip, FlagTrimDuration, FlagSkip | FlagTrimDuration}
	if r.IncludeAudio {
		for _, fl := range variants[:4] {
			variants = append(variants, fl|FlagAudio)
		}
	}
	for _, fl := range variants {
		if err := r.RunAllCombs(media, fl); err != nil {
			return err
		}
	}
	return nil
}

package playercheck_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaokechukwu/playercheck"
	"github.com/obinnaokechukwu/playercheck/simplayer"
)

// simOpen opens a fresh synthetic video subject, ignoring the source.
func simOpen(string) (playercheck.Subject, error) {
	return simplayer.New(), nil
}

func quietRunner(open playercheck.OpenFunc) *playercheck.Runner {
	r := playercheck.NewRunner(open)
	r.SetLogger(zerolog.Nop())
	return r
}

func TestSweepAllVariants(t *testing.T) {
	variants := []playercheck.Flags{
		0,
		playercheck.FlagSkip,
		playercheck.FlagTrimDuration,
		playercheck.FlagSkip | playercheck.FlagTrimDuration,
	}
	for _, fl := range variants {
		fl := fl
		t.Run(fl.String(), func(t *testing.T) {
			r := quietRunner(simOpen)
			require.NoError(t, r.RunAllCombs("synthetic", fl))
		})
	}
}

func TestSweepAudioVariant(t *testing.T) {
	r := quietRunner(simOpen)
	require.NoError(t, r.RunAllCombs("synthetic", playercheck.FlagAudio|playercheck.FlagSkip))
}

// wrongInfoSubject reports dimensions that do not match the test asset.
type wrongInfoSubject struct {
	playercheck.Subject
}

func (s *wrongInfoSubject) Info() (playercheck.Info, error) {
	return playercheck.Info{Width: 32, Height: 32}, nil
}

func TestSweepAbortsOnBadDimensions(t *testing.T) {
	r := quietRunner(func(string) (playercheck.Subject, error) {
		return &wrongInfoSubject{Subject: simplayer.New()}, nil
	})
	err := r.RunAllCombs("synthetic", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, playercheck.ErrBadDimensions)
}

// shiftedSubject returns frames whose timestamps are off by more than the
// verification tolerance.
type shiftedSubject struct {
	playercheck.Subject
}

func (s *shiftedSubject) FrameAt(t float64) (*playercheck.Frame, error) {
	f, err := s.Subject.FrameAt(t)
	if f != nil {
		f.TS += 0.5
	}
	return f, err
}

func TestSweepAbortsOnTimestampMismatch(t *testing.T) {
	r := quietRunner(func(string) (playercheck.Subject, error) {
		return &shiftedSubject{Subject: simplayer.New()}, nil
	})
	err := r.RunAllCombs("synthetic", 0)
	require.Error(t, err)

	var cerr *playercheck.CheckError
	assert.ErrorAs(t, err, &cerr)
}

// stickySubject never reports "no frame": it re-resolves every request,
// violating the unchanged-frame rule.
type stickySubject struct {
	playercheck.Subject
	sim *simplayer.Player
}

func (s *stickySubject) FrameAt(t float64) (*playercheck.Frame, error) {
	f, err := s.sim.FrameAt(t)
	if f == nil && err == nil {
		// Re-request through a fresh cursor by nudging the time a frame
		// period away and back; the sim will hand the frame out again.
		if f2, err2 := s.sim.FrameAt(t + 1); err2 == nil && f2 != nil {
			f2.Free()
		}
		return s.sim.FrameAt(t)
	}
	return f, err
}

func TestSweepAbortsOnResurrectedFrame(t *testing.T) {
	r := quietRunner(func(string) (playercheck.Subject, error) {
		sim := simplayer.New()
		return &stickySubject{Subject: sim, sim: sim}, nil
	})
	err := r.RunAllCombs("synthetic", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, playercheck.ErrUnexpectedFrame)
}

func TestRunImage(t *testing.T) {
	r := quietRunner(func(string) (playercheck.Subject, error) {
		return simplayer.NewImage(playercheck.ExpectImageWidth, playercheck.ExpectImageHeight), nil
	})
	require.NoError(t, r.RunImage("image.jpg"))
}

func TestRunImageWrongSize(t *testing.T) {
	r := quietRunner(func(string) (playercheck.Subject, error) {
		return simplayer.NewImage(100, 100), nil
	})
	err := r.RunImage("image.jpg")
	require.Error(t, err)
	assert.ErrorIs(t, err, playercheck.ErrBadDimensions)
}

func TestRunMissingFile(t *testing.T) {
	r := quietRunner(simplayer.Open)
	require.NoError(t, r.RunMissingFile())
}

func TestRunWalk(t *testing.T) {
	r := quietRunner(func(string) (playercheck.Subject, error) {
		return simplayer.New(simplayer.WithDuration(1)), nil
	})
	require.NoError(t, r.RunWalk("synthetic"))
}

func TestRunFullBattery(t *testing.T) {
	if testing.Short() {
		t.Skip("full battery is slow in short mode")
	}

	dir := t.TempDir()
	media := filepath.Join(dir, "media.mkv")
	image := filepath.Join(dir, "image.jpg")
	require.NoError(t, os.WriteFile(media, []byte("synthetic"), 0o644))
	require.NoError(t, os.WriteFile(image, []byte("synthetic"), 0o644))

	r := quietRunner(simplayer.Open)
	require.NoError(t, r.Run(media, image))
}

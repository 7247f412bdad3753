package playercheck

import (
	"encoding/binary"
	"fmt"
	"math"
)

// SourceFPS is the nominal frame rate of the test asset. The verification
// tolerance is exactly one source frame period; it is a correctness bound,
// not a knob.
const SourceFPS = 25

// Option values applied by the sweep when the corresponding flag is set.
const (
	TestSkip         = 7.12
	TestTrimDuration = 53.43
)

// Expected dimensions of the combination-sweep test asset.
const (
	ExpectWidth  = 16
	ExpectHeight = 16
)

// Flags selects the configuration variant for one sweep.
type Flags uint

const (
	FlagSkip Flags = 1 << iota
	FlagTrimDuration
	FlagAudio
)

// String returns the variant tag used in combination announcements,
// e.g. "video-skip-trimdur".
func (fl Flags) String() string {
	s := "video"
	if fl&FlagAudio != 0 {
		s = "audio"
	}
	if fl&FlagSkip != 0 {
		s += "-skip"
	}
	if fl&FlagTrimDuration != 0 {
		s += "-trimdur"
	}
	return s
}

// CheckError reports a verification mismatch with enough context to
// reconstruct the expectation by hand.
type CheckError struct {
	Requested float64 // playback time handed to the subject
	Clipped   float64 // requested time clamped to [0, trim duration]
	Skip      float64
	TrimDur   float64 // +Inf when trimming is disabled
	Estimated float64 // playback time estimated from the frame
	Diff      float64
	ByColor   bool // estimate came from the pixel-coded frame id
	FrameID   int  // decoded frame id, only when ByColor
}

func (e *CheckError) Error() string {
	src := "timestamp"
	if e.ByColor {
		src = fmt.Sprintf("color (frame id #%d)", e.FrameID)
	}
	return fmt.Sprintf(
		"playercheck: frame mismatch by %s: requested t=%f (clipped to %f with trim_duration=%f), estimated t=%f (with skip=%f), diff=%f",
		src, e.Requested, e.Clipped, e.TrimDur, e.Estimated, e.Skip, e.Diff)
}

// frameID decodes the identity a test asset color-codes into the first
// pixel: three 4-bit channels packed into a little-endian 32-bit color,
// red at bits 20-23, green at 12-15, blue at 4-7, recombined as
// (r<<8)|(g<<4)|b. This is a fixture convention, not a media property.
func frameID(data []byte) int {
	const n = 4
	c := binary.LittleEndian.Uint32(data[:4])
	r := int(c >> (n + 16) & 0xf)
	g := int(c >> (n + 8) & 0xf)
	b := int(c >> (n + 0) & 0xf)
	return r<<(n*2) | g<<n | b
}

// CheckFrame verifies that f answers a request for playback time t under
// the given variant. Two independent estimates of the playback time are
// derived, one from the reported timestamp and, for video, one from the
// pixel-coded frame id; each must land within one source frame period of
// the clamped request.
func CheckFrame(f *Frame, t float64, flags Flags) error {
	var skip float64
	if flags&FlagSkip != 0 {
		skip = TestSkip
	}
	trimDuration := math.Inf(1)
	if flags&FlagTrimDuration != 0 {
		trimDuration = TestTrimDuration
	}
	playbackTime := math.Min(math.Max(t, 0), trimDuration)

	if flags&FlagAudio == 0 {
		if len(f.Data) < 4 {
			return fmt.Errorf("%w (%d bytes)", ErrBadFrameData, len(f.Data))
		}
		id := frameID(f.Data)
		videoTS := float64(id) / SourceFPS
		estimated := videoTS - skip
		if diff := math.Abs(playbackTime - estimated); diff > 1.0/SourceFPS {
			return &CheckError{
				Requested: t,
				Clipped:   playbackTime,
				Skip:      skip,
				TrimDur:   trimDuration,
				Estimated: estimated,
				Diff:      diff,
				ByColor:   true,
				FrameID:   id,
			}
		}
	}

	estimated := f.TS - skip
	if diff := math.Abs(playbackTime - estimated); diff > 1.0/SourceFPS {
		return &CheckError{
			Requested: t,
			Clipped:   playbackTime,
			Skip:      skip,
			TrimDur:   trimDuration,
			Estimated: estimated,
			Diff:      diff,
		}
	}
	return nil
}

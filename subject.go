package playercheck

// Option names understood by subjects. They mirror the option surface of a
// player-style decoder: hardware acceleration toggle, start offset, segment
// duration and stream selection.
const (
	OptAutoHWAccel  = "auto_hwaccel"
	OptSkip         = "skip"
	OptTrimDuration = "trim_duration"
	OptAVSelect     = "avselect"
)

// Stream selection values for OptAVSelect.
const (
	SelectVideo = 0
	SelectAudio = 1
)

// Info describes the media behind a subject.
type Info struct {
	Width    int
	Height   int
	Duration float64 // seconds, 0 if unknown
}

// LogFunc receives log lines emitted by a subject. level follows the
// subject's own convention; the harness only forwards it.
type LogFunc func(level int, msg string)

// Frame is a decoded frame handed back by a subject.
//
// TS is the presentation time in seconds of source media time: when a skip
// offset is configured it is NOT re-based, so TS-skip estimates the
// playback time the frame answers. Data is the first plane; for video the
// first pixel may color-code a frame identity (see CheckFrame).
type Frame struct {
	Data     []byte
	TS       float64
	Width    int
	Height   int
	Linesize int
	PixFmt   int32

	release func()
}

// NewFrame builds a frame with an optional release hook invoked by Free.
// Subject implementations use it; the harness only consumes frames.
func NewFrame(data []byte, ts float64, width, height, linesize int, pixFmt int32, release func()) *Frame {
	return &Frame{
		Data:     data,
		TS:       ts,
		Width:    width,
		Height:   height,
		Linesize: linesize,
		PixFmt:   pixFmt,
		release:  release,
	}
}

// Free releases the frame's backing resources. Safe on nil frames, so
// callers may release "no frame" results unconditionally.
func (f *Frame) Free() {
	if f == nil || f.release == nil {
		return
	}
	f.release()
	f.release = nil
}

// Subject is the stateful media-decoding component under test. One subject
// handles one source; the runner creates a fresh one per combination and
// closes it afterwards.
//
// FrameAt and NextFrame return (nil, nil) when no frame is available: for
// FrameAt that means the requested time maps to the frame already returned
// last, or the time is out of range; for NextFrame it means end of stream.
type Subject interface {
	// SetOption configures the subject before the first frame request.
	SetOption(name string, value any) error

	// Prefetch asks the subject to begin background preparation.
	Prefetch() error

	// Info reports media metadata.
	Info() (Info, error)

	// FrameAt returns the frame for playback time t in seconds.
	FrameAt(t float64) (*Frame, error)

	// NextFrame steps to the frame following the last returned one.
	NextFrame() (*Frame, error)

	// SetLogFunc registers a sink for the subject's log output.
	SetLogFunc(fn LogFunc)

	// Close releases the subject. The subject must not be used afterwards.
	Close() error
}

// OpenFunc creates a subject for a source. It is the factory the runner
// invokes once per combination.
type OpenFunc func(source string) (Subject, error)

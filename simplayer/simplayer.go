// Package simplayer provides a synthetic, in-memory implementation of the
// playercheck.Subject contract. Frames are derived analytically instead of
// decoded: the frame for playback time t has index
// round((clamp(t, 0, trim)+skip) * fps), its timestamp is index/fps in
// source media time, and the index is color-coded into the first pixel the
// way the playercheck test assets do.
//
// It serves both as the harness's own test double and as a runnable demo
// subject for the CLI.
package simplayer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/obinnaokechukwu/playercheck"
)

// PixFmtRGBA is the pixel format tag reported for synthetic video frames.
const PixFmtRGBA int32 = 1

// Log levels passed to the registered log func.
const (
	LogError = 16
	LogInfo  = 32
)

// ErrClosed is returned when a closed player is used.
var ErrClosed = errors.New("simplayer: player is closed")

// ErrNoMedia is returned for operations that need media the player does
// not have (nonexistent source).
var ErrNoMedia = errors.New("simplayer: no media")

// Player is a synthetic media player. It is not safe for concurrent use;
// the harness drives subjects strictly sequentially.
type Player struct {
	fps      float64
	width    int
	height   int
	duration float64
	image    bool // single-frame still image
	missing  bool // source does not exist

	skip  float64
	trim  float64 // negative = disabled
	audio bool

	cursor int // last returned frame index, -1 before the first frame
	closed bool
	logf   playercheck.LogFunc
}

// Option configures a Player.
type Option func(*Player)

// WithFPS sets the synthetic frame rate.
func WithFPS(fps float64) Option {
	return func(p *Player) { p.fps = fps }
}

// WithDuration sets the media duration in seconds.
func WithDuration(d float64) Option {
	return func(p *Player) { p.duration = d }
}

// WithSize sets the frame dimensions.
func WithSize(width, height int) Option {
	return func(p *Player) {
		p.width = width
		p.height = height
	}
}

// New returns a player over a synthetic video asset. Defaults match the
// playercheck sweep asset: 16x16 at 25 fps, 60 seconds.
func New(opts ...Option) *Player {
	p := &Player{
		fps:      playercheck.SourceFPS,
		width:    playercheck.ExpectWidth,
		height:   playercheck.ExpectHeight,
		duration: 60,
		trim:     -1,
		cursor:   -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewImage returns a player over a synthetic still image. Any requested
// time resolves to the single image frame.
func NewImage(width, height int) *Player {
	p := New(WithSize(width, height), WithDuration(0))
	p.image = true
	return p
}

// Open creates a player for source. A nonexistent source still constructs
// (the failure surfaces as "no frame" plus log output, the way lazy-opening
// players behave). Image extensions get a still-image player sized like the
// playercheck image asset; anything else gets the sweep video asset.
func Open(source string) (playercheck.Subject, error) {
	if _, err := os.Stat(source); err != nil {
		p := New()
		p.missing = true
		return p, nil
	}
	switch strings.ToLower(filepath.Ext(source)) {
	case ".jpg", ".jpeg", ".png", ".bmp":
		return NewImage(playercheck.ExpectImageWidth, playercheck.ExpectImageHeight), nil
	}
	return New(), nil
}

func (p *Player) log(level int, msg string) {
	if p.logf != nil {
		p.logf(level, msg)
	}
}

// SetOption implements playercheck.Subject.
func (p *Player) SetOption(name string, value any) error {
	if p.closed {
		return ErrClosed
	}
	switch name {
	case playercheck.OptAutoHWAccel:
		// Nothing to accelerate. Accepted for contract compatibility.
		return nil
	case playercheck.OptSkip:
		f, err := floatValue(value)
		if err != nil {
			return fmt.Errorf("simplayer: option %s: %w", name, err)
		}
		p.skip = f
		return nil
	case playercheck.OptTrimDuration:
		f, err := floatValue(value)
		if err != nil {
			return fmt.Errorf("simplayer: option %s: %w", name, err)
		}
		p.trim = f
		return nil
	case playercheck.OptAVSelect:
		i, err := intValue(value)
		if err != nil {
			return fmt.Errorf("simplayer: option %s: %w", name, err)
		}
		p.audio = i == playercheck.SelectAudio
		return nil
	}
	return fmt.Errorf("simplayer: unknown option %q", name)
}

func floatValue(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	}
	return 0, fmt.Errorf("want a number, got %T", v)
}

func intValue(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	}
	return 0, fmt.Errorf("want an integer, got %T", v)
}

// Prefetch implements playercheck.Subject. The synthetic player has
// nothing to prepare; it only validates that media exists.
func (p *Player) Prefetch() error {
	if p.closed {
		return ErrClosed
	}
	if p.missing {
		p.log(LogError, "prefetch: cannot open source")
		return ErrNoMedia
	}
	return nil
}

// Info implements playercheck.Subject.
func (p *Player) Info() (playercheck.Info, error) {
	if p.closed {
		return playercheck.Info{}, ErrClosed
	}
	if p.missing {
		p.log(LogError, "info: cannot open source")
		return playercheck.Info{}, ErrNoMedia
	}
	return playercheck.Info{
		Width:    p.width,
		Height:   p.height,
		Duration: p.duration,
	}, nil
}

// lastIndex is the index of the final frame of the (possibly trimmed)
// stream.
func (p *Player) lastIndex() int {
	last := int(math.Round(p.duration*p.fps)) - 1
	if p.trim >= 0 {
		if trimmed := int(math.Round((p.trim + p.skip) * p.fps)); trimmed < last {
			last = trimmed
		}
	}
	return last
}

// FrameAt implements playercheck.Subject. It returns nil when the request
// resolves to the frame already returned last, so repeated requests for
// the same instant (or anything past the end after the final frame was
// delivered) yield no frame.
func (p *Player) FrameAt(t float64) (*playercheck.Frame, error) {
	if p.closed {
		return nil, ErrClosed
	}
	if p.missing {
		p.log(LogError, fmt.Sprintf("cannot open source for t=%f", t))
		return nil, nil
	}
	if p.image {
		if p.cursor == 0 {
			return nil, nil
		}
		p.cursor = 0
		return p.render(0), nil
	}

	playback := math.Max(t, 0)
	if p.trim >= 0 {
		playback = math.Min(playback, p.trim)
	}
	idx := int(math.Round((playback + p.skip) * p.fps))
	if last := p.lastIndex(); idx > last {
		idx = last
	}
	if idx == p.cursor {
		return nil, nil
	}
	p.cursor = idx
	return p.render(idx), nil
}

// NextFrame implements playercheck.Subject. Exhaustion is sticky: once the
// final frame has been returned, further calls keep returning nil.
func (p *Player) NextFrame() (*playercheck.Frame, error) {
	if p.closed {
		return nil, ErrClosed
	}
	if p.missing {
		p.log(LogError, "cannot open source")
		return nil, nil
	}
	if p.image {
		if p.cursor == 0 {
			return nil, nil
		}
		p.cursor = 0
		return p.render(0), nil
	}

	idx := p.cursor + 1
	if p.cursor < 0 {
		idx = int(math.Round(p.skip * p.fps))
	}
	if idx > p.lastIndex() {
		return nil, nil
	}
	p.cursor = idx
	return p.render(idx), nil
}

// SetLogFunc implements playercheck.Subject.
func (p *Player) SetLogFunc(fn playercheck.LogFunc) {
	p.logf = fn
}

// Close implements playercheck.Subject.
func (p *Player) Close() error {
	p.closed = true
	return nil
}

// render materializes the frame with the given index. Video frames carry
// an RGBA buffer whose first pixel color-codes the index: red nibble at
// bits 20-23, green at 12-15, blue at 4-7 of a little-endian 32-bit value.
// Audio frames carry the timestamp only.
func (p *Player) render(idx int) *playercheck.Frame {
	ts := float64(idx) / p.fps
	if p.audio {
		return playercheck.NewFrame(nil, ts, 0, 0, 0, -1, nil)
	}

	linesize := p.width * 4
	data := make([]byte, linesize*p.height)
	for i := range data {
		data[i] = 0x80
	}
	r := uint32(idx >> 8 & 0xf)
	g := uint32(idx >> 4 & 0xf)
	b := uint32(idx & 0xf)
	binary.LittleEndian.PutUint32(data[:4], r<<20|g<<12|b<<4)

	return playercheck.NewFrame(data, ts, p.width, p.height, linesize, PixFmtRGBA, nil)
}

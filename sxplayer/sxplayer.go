//go:build !ios && !android && (amd64 || arm64)

// Package sxplayer implements the playercheck.Subject contract on top of a
// native sxplayer-style shared library, loaded without CGO using purego.
//
// The native player exposes create / set_option / prefetch / get_info /
// get_frame / get_next_frame / release_frame / free / set_log_callback;
// this package adapts that surface to playercheck.Subject so the sweep can
// drive the real decoder.
package sxplayer

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/obinnaokechukwu/playercheck"
)

// ErrClosed is returned when a closed player is used.
var ErrClosed = errors.New("sxplayer: player is closed")

// cInfo mirrors the native info struct.
type cInfo struct {
	width    int32
	height   int32
	duration float64
}

// cFrame mirrors the native frame struct. Field order and padding follow
// the C layout on the supported 64-bit targets.
type cFrame struct {
	data     uintptr
	ts       float64
	linesize int32
	width    int32
	height   int32
	pixFmt   int32
	mvs      uintptr
	nbMVs    int32
	_        int32
	ms       int64
	internal uintptr
}

// Player drives a native player instance. Not safe for concurrent use.
type Player struct {
	ctx    uintptr
	closed bool
}

// Open creates a native player for source. The library is loaded on first
// use. Construction succeeds even for nonexistent sources; the native
// player opens lazily and reports failures through frame requests and its
// log callback.
func Open(source string) (playercheck.Subject, error) {
	if err := Load(); err != nil {
		return nil, err
	}
	ctx := playerCreate(source)
	if ctx == 0 {
		return nil, fmt.Errorf("sxplayer: create %q failed", source)
	}
	return &Player{ctx: ctx}, nil
}

// SetOption implements playercheck.Subject. Integer-valued and
// float-valued options dispatch to the matching native registration.
func (p *Player) SetOption(name string, value any) error {
	if p.closed {
		return ErrClosed
	}
	var ret int32
	switch v := value.(type) {
	case int:
		ret = playerSetOptInt(p.ctx, name, int64(v))
	case int64:
		ret = playerSetOptInt(p.ctx, name, v)
	case float64:
		ret = playerSetOptDbl(p.ctx, name, v)
	default:
		return fmt.Errorf("sxplayer: option %s: unsupported value type %T", name, value)
	}
	if ret < 0 {
		return fmt.Errorf("sxplayer: set option %s failed (%d)", name, ret)
	}
	return nil
}

// Prefetch implements playercheck.Subject.
func (p *Player) Prefetch() error {
	if p.closed {
		return ErrClosed
	}
	if ret := playerPrefetch(p.ctx); ret < 0 {
		return fmt.Errorf("sxplayer: prefetch failed (%d)", ret)
	}
	return nil
}

// Info implements playercheck.Subject.
func (p *Player) Info() (playercheck.Info, error) {
	if p.closed {
		return playercheck.Info{}, ErrClosed
	}
	var info cInfo
	if ret := playerGetInfo(p.ctx, unsafe.Pointer(&info)); ret < 0 {
		return playercheck.Info{}, fmt.Errorf("sxplayer: get info failed (%d)", ret)
	}
	return playercheck.Info{
		Width:    int(info.width),
		Height:   int(info.height),
		Duration: info.duration,
	}, nil
}

// FrameAt implements playercheck.Subject.
func (p *Player) FrameAt(t float64) (*playercheck.Frame, error) {
	if p.closed {
		return nil, ErrClosed
	}
	return wrapFrame(playerGetFrame(p.ctx, t)), nil
}

// NextFrame implements playercheck.Subject.
func (p *Player) NextFrame() (*playercheck.Frame, error) {
	if p.closed {
		return nil, ErrClosed
	}
	return wrapFrame(playerNextFrame(p.ctx)), nil
}

// SetLogFunc implements playercheck.Subject.
func (p *Player) SetLogFunc(fn playercheck.LogFunc) {
	if p.closed {
		return
	}
	setLogFunc(p.ctx, fn)
}

// Close implements playercheck.Subject.
func (p *Player) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	clearLogFunc(p.ctx)
	playerFree(&p.ctx)
	return nil
}

// wrapFrame adapts a native frame to playercheck.Frame. The pixel buffer
// is viewed in place; the release hook hands the frame back to the native
// library.
func wrapFrame(ptr uintptr) *playercheck.Frame {
	if ptr == 0 {
		return nil
	}
	cf := (*cFrame)(unsafe.Pointer(ptr))

	var data []byte
	if cf.data != 0 && cf.linesize > 0 && cf.height > 0 {
		data = unsafe.Slice((*byte)(unsafe.Pointer(cf.data)), int(cf.linesize)*int(cf.height))
	}
	return playercheck.NewFrame(
		data,
		cf.ts,
		int(cf.width),
		int(cf.height),
		int(cf.linesize),
		cf.pixFmt,
		func() { playerRelease(ptr) },
	)
}

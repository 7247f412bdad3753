//go:build !ios && !android && (amd64 || arm64)

package sxplayer

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/obinnaokechukwu/playercheck"
)

var (
	logMu    sync.Mutex
	logFuncs = map[uintptr]playercheck.LogFunc{}
	logCB    uintptr
)

// setLogFunc registers fn for the given native context. A single purego
// callback serves every context; the native arg pointer carries the
// context handle used to look up the Go function.
func setLogFunc(ctx uintptr, fn playercheck.LogFunc) {
	logMu.Lock()
	defer logMu.Unlock()

	if fn == nil {
		delete(logFuncs, ctx)
		playerSetLogCB(ctx, 0, 0)
		return
	}
	logFuncs[ctx] = fn

	if logCB == 0 {
		logCB = purego.NewCallback(logTrampoline)
	}
	playerSetLogCB(ctx, ctx, logCB)
}

func clearLogFunc(ctx uintptr) {
	logMu.Lock()
	delete(logFuncs, ctx)
	logMu.Unlock()
}

// logTrampoline is invoked by the native library.
// C signature: void (*)(void *arg, int level, const char *fmt, va_list vl).
// The va_list cannot be expanded from Go, so the raw format string is
// forwarded as the message.
func logTrampoline(_ purego.CDecl, arg unsafe.Pointer, level int32, msg *byte, _ unsafe.Pointer) {
	logMu.Lock()
	fn := logFuncs[uintptr(arg)]
	logMu.Unlock()

	if fn == nil {
		return
	}
	fn(int(level), goString(msg))
}

// goString converts a NUL-terminated C string to a Go string.
func goString(msg *byte) string {
	if msg == nil {
		return ""
	}
	ptr := unsafe.Pointer(msg)
	for i := 0; ; i++ {
		b := *(*byte)(unsafe.Pointer(uintptr(ptr) + uintptr(i)))
		if b == 0 || i > 4096 {
			return string(unsafe.Slice(msg, i))
		}
	}
}

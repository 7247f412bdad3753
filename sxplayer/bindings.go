//go:build !ios && !android && (amd64 || arm64)

package sxplayer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/obinnaokechukwu/playercheck/internal/platform"
)

// ErrNotLoaded is returned when player functions are called before the
// native library could be loaded.
var ErrNotLoaded = errors.New("sxplayer: native library not loaded")

// ErrLibraryNotFound is returned when libsxplayer cannot be found.
var ErrLibraryNotFound = errors.New("sxplayer: native library not found")

var (
	libPlayer uintptr

	loaded   bool
	loadOnce sync.Once
	loadErr  error
)

// Function bindings.
//
// sxplayer_set_option is variadic in C but always consumes exactly one
// value argument; it is registered once per value type with a fixed
// signature matching how the supported 64-bit ABIs pass that single
// trailing argument.
var (
	playerCreate    func(filename string) uintptr
	playerSetOptInt func(ctx uintptr, key string, value int64) int32
	playerSetOptDbl func(ctx uintptr, key string, value float64) int32
	playerSetLogCB  func(ctx uintptr, arg uintptr, callback uintptr)
	playerFree      func(ctx *uintptr)
	playerPrefetch  func(ctx uintptr) int32
	playerGetInfo   func(ctx uintptr, info unsafe.Pointer) int32
	playerGetFrame  func(ctx uintptr, t float64) uintptr
	playerNextFrame func(ctx uintptr) uintptr
	playerRelease   func(frame uintptr)
)

// IsLoaded returns true if the native library has been successfully loaded.
func IsLoaded() bool {
	return loaded
}

// Load loads libsxplayer and registers all function bindings.
// It is safe to call multiple times; subsequent calls are no-ops.
func Load() error {
	loadOnce.Do(func() {
		loadErr = doLoad()
		if loadErr == nil {
			loaded = true
		}
	})
	return loadErr
}

func doLoad() error {
	if !platform.Is64Bit {
		return fmt.Errorf("%w: 32-bit platforms are not supported", ErrLibraryNotFound)
	}

	var err error
	libPlayer, err = loadLibrary("sxplayer", []int{9, 8})
	if err != nil {
		return fmt.Errorf("loading libsxplayer: %w", err)
	}

	purego.RegisterLibFunc(&playerCreate, libPlayer, "sxplayer_create")
	purego.RegisterLibFunc(&playerSetOptInt, libPlayer, "sxplayer_set_option")
	purego.RegisterLibFunc(&playerSetOptDbl, libPlayer, "sxplayer_set_option")
	purego.RegisterLibFunc(&playerSetLogCB, libPlayer, "sxplayer_set_log_callback")
	purego.RegisterLibFunc(&playerFree, libPlayer, "sxplayer_free")
	purego.RegisterLibFunc(&playerPrefetch, libPlayer, "sxplayer_prefetch")
	purego.RegisterLibFunc(&playerGetInfo, libPlayer, "sxplayer_get_info")
	purego.RegisterLibFunc(&playerGetFrame, libPlayer, "sxplayer_get_frame")
	purego.RegisterLibFunc(&playerNextFrame, libPlayer, "sxplayer_get_next_frame")
	purego.RegisterLibFunc(&playerRelease, libPlayer, "sxplayer_release_frame")

	return nil
}

// loadLibrary attempts to load a library by trying versioned names.
func loadLibrary(name string, versions []int) (uintptr, error) {
	for _, searchPath := range librarySearchPaths() {
		for _, ver := range versions {
			libName := platform.FormatLibraryName(name, ver)
			lib, err := tryOpen(filepath.Join(searchPath, libName))
			if err == nil {
				return lib, nil
			}
		}
		libName := platform.FormatLibraryName(name, 0)
		lib, err := tryOpen(filepath.Join(searchPath, libName))
		if err == nil {
			return lib, nil
		}
	}

	// Let the system resolver have a go.
	for _, ver := range versions {
		lib, err := tryOpen(platform.FormatLibraryName(name, ver))
		if err == nil {
			return lib, nil
		}
	}
	lib, err := tryOpen(platform.FormatLibraryName(name, 0))
	if err == nil {
		return lib, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

func tryOpen(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

// librarySearchPaths returns platform-specific library search paths.
func librarySearchPaths() []string {
	var paths []string

	switch runtime.GOOS {
	case "linux", "freebsd":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/local/lib",
			"/usr/lib",
			"/lib/x86_64-linux-gnu",
			"/lib",
		)

	case "darwin":
		if dyldPath := os.Getenv("DYLD_LIBRARY_PATH"); dyldPath != "" {
			paths = append(paths, filepath.SplitList(dyldPath)...)
		}
		paths = append(paths,
			"/opt/homebrew/lib",
			"/usr/local/lib",
		)

	case "windows":
		if winPath := os.Getenv("PATH"); winPath != "" {
			paths = append(paths, filepath.SplitList(winPath)...)
		}
		if exe, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Dir(exe))
		}
	}

	return paths
}

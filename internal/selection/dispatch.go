package selection

import (
	"os"
	"runtime"

	"github.com/labi-le/richclip/internal/rcerrors"
)

// env abstracts os.LookupEnv so probing logic can be unit tested without
// mutating the real process environment (t.Setenv still works against it,
// but a custom lookup lets tests isolate GOOS independently too).
type env func(key string) (string, bool)

// Kind identifies which backend the dispatcher chose.
type Kind int

const (
	KindMacOS Kind = iota
	KindWayland
	KindX11
)

func (k Kind) String() string {
	switch k {
	case KindMacOS:
		return "macos"
	case KindWayland:
		return "wayland"
	case KindX11:
		return "x11"
	default:
		return "unknown"
	}
}

// Probe decides which backend to use: macOS first (by GOOS, no environment
// signal needed), then Wayland (by WAYLAND_DISPLAY or WAYLAND_SOCKET), then
// X11 (by DISPLAY), else ErrNoDisplay.
func Probe(goos string) (Kind, error) {
	return probe(goos, os.LookupEnv)
}

func probe(goos string, lookup env) (Kind, error) {
	if goos == "darwin" {
		return KindMacOS, nil
	}

	if _, ok := lookup("WAYLAND_DISPLAY"); ok {
		return KindWayland, nil
	}
	if _, ok := lookup("WAYLAND_SOCKET"); ok {
		return KindWayland, nil
	}

	if _, ok := lookup("DISPLAY"); ok {
		return KindX11, nil
	}

	return 0, rcerrors.ErrNoDisplay
}

// CurrentGOOS is a thin wrapper so callers don't need to import runtime
// just to call Probe.
func CurrentGOOS() string {
	return runtime.GOOS
}

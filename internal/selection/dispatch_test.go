package selection

import (
	"errors"
	"testing"

	"github.com/labi-le/richclip/internal/rcerrors"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestProbe_MacOSWinsRegardlessOfEnv(t *testing.T) {
	got, err := probe("darwin", lookupFrom(map[string]string{"WAYLAND_DISPLAY": "wayland-0", "DISPLAY": ":0"}))
	if err != nil {
		t.Fatalf("probe() error = %v", err)
	}
	if got != KindMacOS {
		t.Errorf("probe() = %v, want KindMacOS", got)
	}
}

func TestProbe_WaylandBeforeX11(t *testing.T) {
	got, err := probe("linux", lookupFrom(map[string]string{"WAYLAND_DISPLAY": "wayland-0", "DISPLAY": ":0"}))
	if err != nil {
		t.Fatalf("probe() error = %v", err)
	}
	if got != KindWayland {
		t.Errorf("probe() = %v, want KindWayland", got)
	}
}

func TestProbe_WaylandSocketAlsoCounts(t *testing.T) {
	got, err := probe("linux", lookupFrom(map[string]string{"WAYLAND_SOCKET": "3"}))
	if err != nil {
		t.Fatalf("probe() error = %v", err)
	}
	if got != KindWayland {
		t.Errorf("probe() = %v, want KindWayland", got)
	}
}

func TestProbe_X11Fallback(t *testing.T) {
	got, err := probe("linux", lookupFrom(map[string]string{"DISPLAY": ":0"}))
	if err != nil {
		t.Fatalf("probe() error = %v", err)
	}
	if got != KindX11 {
		t.Errorf("probe() = %v, want KindX11", got)
	}
}

func TestProbe_NoDisplay(t *testing.T) {
	_, err := probe("linux", lookupFrom(nil))
	if !errors.Is(err, rcerrors.ErrNoDisplay) {
		t.Errorf("probe() error = %v, want ErrNoDisplay", err)
	}
}

//go:build !darwin

// This file stands in for native.go/sink.go/paste.go on every platform
// other than macOS, the same "_other" fallback shape the retrieved pack
// uses for its own OS-gated backends, so cmd/richclip can import
// macselection unconditionally without a build tag of its own.
package macselection

import (
	"context"
	"errors"

	"github.com/labi-le/richclip/internal/clipsource"
	"github.com/labi-le/richclip/internal/selection"
)

var errUnsupported = errors.New("macselection: not available on this platform")

type Sink struct{}

func (Sink) Publish(context.Context, *clipsource.Source, selection.Role) error {
	return errUnsupported
}

type Paste struct{}

func (Paste) List(context.Context, selection.Role) ([]string, error) {
	return nil, errUnsupported
}

func (Paste) Fetch(context.Context, selection.Role, string) ([]byte, error) {
	return nil, errUnsupported
}

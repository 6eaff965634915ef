package selection

import (
	"context"

	"github.com/labi-le/richclip/internal/clipsource"
)

// Sink publishes a ClipboardSource as the owner of a selection. Publish
// blocks until ownership is acquired (or fails) and, on X11/Wayland, keeps
// running until the context is cancelled or the selection is claimed by
// another client.
type Sink interface {
	Publish(ctx context.Context, src *clipsource.Source, role Role) error
}

// Source reads the current owner's advertised targets and fetches one by
// MIME type. Unlike Sink, a Source call is one-shot: it does not hold any
// connection open after it returns.
type Source interface {
	List(ctx context.Context, role Role) ([]string, error)
	Fetch(ctx context.Context, role Role, mime string) ([]byte, error)
}

// Backend bundles the copy and paste halves a platform probe resolves to.
type Backend struct {
	Name  string
	Sink  Sink
	Paste Source
}

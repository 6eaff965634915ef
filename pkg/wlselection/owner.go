package wlselection

import (
	"context"
	"errors"
	"fmt"
	"os"

	wl "deedles.dev/wl/client"
	"github.com/rs/zerolog"

	"github.com/labi-le/richclip/internal/clipsource"
	"github.com/labi-le/richclip/internal/rcerrors"
	"github.com/labi-le/richclip/internal/selection"
	"github.com/labi-le/richclip/pkg/ctxlog"
)

// serial is the value passed to set_selection. richclip has no real input
// focus — it is a one-shot CLI, not a GUI client reacting to a key press —
// so there is no genuine input-event serial to present. 0 is what every
// non-interactive clipboard client in this position ends up sending;
// compositors accept it for clipboard requests (unlike drag-and-drop, which
// does enforce serial recency).
const serial = 0

// Sink implements selection.Sink by installing a wl_data_source (or, for
// the primary selection, a zwp_primary_selection_source_v1) as the current
// selection and blocking until the compositor cancels it or ctx ends.
type Sink struct {
	Logger zerolog.Logger
}

func (s Sink) Publish(ctx context.Context, src *clipsource.Source, role selection.Role) error {
	client, err := wl.Dial()
	if err != nil {
		return fmt.Errorf("wayland dial: %w", err)
	}
	defer client.Close()

	p := newPreset(client, s.Logger)
	if err := p.Setup(); err != nil {
		return err
	}

	if role == selection.Primary {
		if p.primaryManager == nil {
			return errors.New("wlselection: compositor has no primary selection support")
		}
		return runPrimaryOwner(ctx, p, src, s.Logger)
	}
	return runDataOwner(ctx, p, src, s.Logger)
}

// pumpEvents drives the Wayland client's dispatch loop until ctx ends, the
// source is cancelled, or the connection closes.
func pumpEvents(ctx context.Context, client *wl.Client, cancelled <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-cancelled:
			return rcerrors.ErrSelectionLost
		case ev, ok := <-client.Events():
			if !ok {
				return nil
			}
			if err := ev(); err != nil {
				return err
			}
		}
	}
}

type dataSourceListener struct {
	src       *clipsource.Source
	cancelled chan struct{}
	logger    zerolog.Logger
}

// Send streams the payload for mimeType to fd on its own goroutine, so a
// slow reader backpressures that goroutine and never blocks the event loop.
func (l *dataSourceListener) Send(mimeType string, fd int) {
	go func() {
		f := os.NewFile(uintptr(fd), "wl-data-source-send")
		defer f.Close()

		payload, ok := l.src.Lookup(mimeType)
		if !ok {
			return
		}
		if _, err := f.Write(payload); err != nil {
			l.logger.Trace().Err(err).Str("mime", mimeType).Msg("send write failed")
		}
	}()
}

func (l *dataSourceListener) Cancelled() {
	select {
	case l.cancelled <- struct{}{}:
	default:
	}
}

func runDataOwner(ctx context.Context, p *preset, src *clipsource.Source, logger zerolog.Logger) error {
	logger = ctxlog.Op(logger, "wlselection.runDataOwner")
	device := p.dataManager.GetDataDevice(p.seat)
	source := p.dataManager.CreateDataSource()

	for _, mime := range src.AllMimes() {
		source.Offer(mime)
	}

	cancelled := make(chan struct{}, 1)
	source.Listener = &dataSourceListener{src: src, cancelled: cancelled, logger: logger}

	device.SetSelection(source, serial)
	if err := p.client.RoundTrip(); err != nil {
		return fmt.Errorf("round trip: %w", err)
	}

	return pumpEvents(ctx, p.client, cancelled)
}

type primarySourceListener struct {
	src       *clipsource.Source
	cancelled chan struct{}
	logger    zerolog.Logger
}

func (l *primarySourceListener) Send(mimeType string, fd int) {
	go func() {
		f := os.NewFile(uintptr(fd), "wl-primary-source-send")
		defer f.Close()

		payload, ok := l.src.Lookup(mimeType)
		if !ok {
			return
		}
		if _, err := f.Write(payload); err != nil {
			l.logger.Trace().Err(err).Str("mime", mimeType).Msg("send write failed")
		}
	}()
}

func (l *primarySourceListener) Cancelled() {
	select {
	case l.cancelled <- struct{}{}:
	default:
	}
}

func runPrimaryOwner(ctx context.Context, p *preset, src *clipsource.Source, logger zerolog.Logger) error {
	logger = ctxlog.Op(logger, "wlselection.runPrimaryOwner")
	device := p.primaryManager.GetDevice(p.seat)
	source := p.primaryManager.CreateSource()

	for _, mime := range src.AllMimes() {
		source.Offer(mime)
	}

	cancelled := make(chan struct{}, 1)
	source.Listener = &primarySourceListener{src: src, cancelled: cancelled, logger: logger}

	device.SetSelection(source, serial)
	if err := p.client.RoundTrip(); err != nil {
		return fmt.Errorf("round trip: %w", err)
	}

	return pumpEvents(ctx, p.client, cancelled)
}

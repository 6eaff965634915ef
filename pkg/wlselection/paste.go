package wlselection

import (
	"context"
	"errors"
	"fmt"
	"time"

	wl "deedles.dev/wl/client"
	"github.com/rs/zerolog"

	"github.com/labi-le/richclip/internal/rcerrors"
	"github.com/labi-le/richclip/internal/selection"
	"github.com/labi-le/richclip/pkg/pipeio"
)

// selectionWait bounds how long the paste client waits for the compositor
// to report the current selection. The compositor already knows the
// answer at bind time, so this only needs to cover one round trip.
const selectionWait = 3 * time.Second

// pipeGrowSize is requested on the receive pipe before Receive/read() so a
// multi-megabyte paste doesn't force many small read round trips against
// the kernel's default pipe buffer.
const pipeGrowSize = 1 << 20

// Paste implements selection.Source over wl_data_device (regular) and
// zwp_primary_selection_device_v1 (primary), reusing the same preset
// bootstrap as the owner half.
type Paste struct {
	Logger zerolog.Logger
}

func (p Paste) List(ctx context.Context, role selection.Role) ([]string, error) {
	client, pr, err := p.connect()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	if role == selection.Primary {
		return p.listPrimary(ctx, pr)
	}
	return p.listData(ctx, pr)
}

func (p Paste) Fetch(ctx context.Context, role selection.Role, mime string) ([]byte, error) {
	client, pr, err := p.connect()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	if role == selection.Primary {
		return p.fetchPrimary(ctx, pr, mime)
	}
	return p.fetchData(ctx, pr, mime)
}

func (p Paste) connect() (*wl.Client, *preset, error) {
	client, err := wl.Dial()
	if err != nil {
		return nil, nil, fmt.Errorf("wayland dial: %w", err)
	}

	pr := newPreset(client, p.Logger)
	if err := pr.Setup(); err != nil {
		client.Close()
		return nil, nil, err
	}
	return client, pr, nil
}

func pickMime(mimes []string, want string) (string, error) {
	if want != "" {
		for _, m := range mimes {
			if m == want {
				return m, nil
			}
		}
		return "", rcerrors.ErrNoSuchMime
	}
	if len(mimes) == 0 {
		return "", rcerrors.ErrNoSuchMime
	}
	return mimes[0], nil
}

// --- regular clipboard ---

type dataOfferCollector struct {
	mimes []string
}

func (c *dataOfferCollector) Offer(mimeType string) {
	c.mimes = append(c.mimes, mimeType)
}

type dataDeviceCollector struct {
	collector *dataOfferCollector
	selected  chan *WlDataOffer
}

func (d *dataDeviceCollector) DataOffer(id *WlDataOffer) {
	if id == nil {
		return
	}
	d.collector = &dataOfferCollector{}
	id.Listener = d.collector
}

func (d *dataDeviceCollector) Selection(id *WlDataOffer) {
	select {
	case d.selected <- id:
	default:
	}
}

func waitDataSelection(ctx context.Context, client *wl.Client, dc *dataDeviceCollector) (*WlDataOffer, error) {
	ctx, cancel := context.WithTimeout(ctx, selectionWait)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil, nil
		case offer := <-dc.selected:
			return offer, nil
		case ev, ok := <-client.Events():
			if !ok {
				return nil, nil
			}
			if err := ev(); err != nil {
				return nil, err
			}
		}
	}
}

func (p Paste) listData(ctx context.Context, pr *preset) ([]string, error) {
	dc := &dataDeviceCollector{selected: make(chan *WlDataOffer, 1)}
	device := pr.dataManager.GetDataDevice(pr.seat)
	device.Listener = dc

	if err := pr.client.RoundTrip(); err != nil {
		return nil, err
	}

	offer, err := waitDataSelection(ctx, pr.client, dc)
	if err != nil || offer == nil {
		return nil, err
	}
	return dc.collector.mimes, nil
}

func (p Paste) fetchData(ctx context.Context, pr *preset, mime string) ([]byte, error) {
	dc := &dataDeviceCollector{selected: make(chan *WlDataOffer, 1)}
	device := pr.dataManager.GetDataDevice(pr.seat)
	device.Listener = dc

	if err := pr.client.RoundTrip(); err != nil {
		return nil, err
	}

	offer, err := waitDataSelection(ctx, pr.client, dc)
	if err != nil || offer == nil {
		return nil, err
	}

	chosen, err := pickMime(dc.collector.mimes, mime)
	if err != nil {
		if errors.Is(err, rcerrors.ErrNoSuchMime) && mime != "" {
			return nil, err
		}
		return nil, nil
	}

	rw, err := pipeio.New()
	if err != nil {
		return nil, err
	}
	pipeio.Grow(rw.Fd(), pipeGrowSize)

	offer.Receive(chosen, rw.Fd())
	_ = rw.Fd().Close()

	if err := pr.client.RoundTrip(); err != nil {
		return nil, err
	}

	defer rw.Close()
	return pipeio.FromPipe(rw.ReadFd())
}

// --- primary selection ---

type primaryOfferCollector struct {
	mimes []string
}

func (c *primaryOfferCollector) Offer(mimeType string) {
	c.mimes = append(c.mimes, mimeType)
}

type primaryDeviceCollector struct {
	collector *primaryOfferCollector
	selected  chan *ZwpPrimarySelectionOfferV1
}

func (d *primaryDeviceCollector) DataOffer(id *ZwpPrimarySelectionOfferV1) {
	if id == nil {
		return
	}
	d.collector = &primaryOfferCollector{}
	id.Listener = d.collector
}

func (d *primaryDeviceCollector) Selection(id *ZwpPrimarySelectionOfferV1) {
	select {
	case d.selected <- id:
	default:
	}
}

func waitPrimarySelection(ctx context.Context, client *wl.Client, dc *primaryDeviceCollector) (*ZwpPrimarySelectionOfferV1, error) {
	ctx, cancel := context.WithTimeout(ctx, selectionWait)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil, nil
		case offer := <-dc.selected:
			return offer, nil
		case ev, ok := <-client.Events():
			if !ok {
				return nil, nil
			}
			if err := ev(); err != nil {
				return nil, err
			}
		}
	}
}

func (p Paste) listPrimary(ctx context.Context, pr *preset) ([]string, error) {
	if pr.primaryManager == nil {
		return nil, errors.New("wlselection: compositor has no primary selection support")
	}

	dc := &primaryDeviceCollector{selected: make(chan *ZwpPrimarySelectionOfferV1, 1)}
	device := pr.primaryManager.GetDevice(pr.seat)
	device.Listener = dc

	if err := pr.client.RoundTrip(); err != nil {
		return nil, err
	}

	offer, err := waitPrimarySelection(ctx, pr.client, dc)
	if err != nil || offer == nil {
		return nil, err
	}
	return dc.collector.mimes, nil
}

func (p Paste) fetchPrimary(ctx context.Context, pr *preset, mime string) ([]byte, error) {
	if pr.primaryManager == nil {
		return nil, errors.New("wlselection: compositor has no primary selection support")
	}

	dc := &primaryDeviceCollector{selected: make(chan *ZwpPrimarySelectionOfferV1, 1)}
	device := pr.primaryManager.GetDevice(pr.seat)
	device.Listener = dc

	if err := pr.client.RoundTrip(); err != nil {
		return nil, err
	}

	offer, err := waitPrimarySelection(ctx, pr.client, dc)
	if err != nil || offer == nil {
		return nil, err
	}

	chosen, err := pickMime(dc.collector.mimes, mime)
	if err != nil {
		if errors.Is(err, rcerrors.ErrNoSuchMime) && mime != "" {
			return nil, err
		}
		return nil, nil
	}

	rw, err := pipeio.New()
	if err != nil {
		return nil, err
	}
	pipeio.Grow(rw.Fd(), pipeGrowSize)

	offer.Receive(chosen, rw.Fd())
	_ = rw.Fd().Close()

	if err := pr.client.RoundTrip(); err != nil {
		return nil, err
	}

	defer rw.Close()
	return pipeio.FromPipe(rw.ReadFd())
}

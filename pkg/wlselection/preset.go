package wlselection

import (
	"errors"
	"fmt"

	wl "deedles.dev/wl/client"
	"github.com/rs/zerolog"
)

// preset binds the Wayland globals richclip needs: a seat to act on behalf
// of, the core clipboard manager, and — where the compositor offers it —
// the primary-selection manager. The primary-selection manager is optional
// since not every compositor implements it.
type preset struct {
	client         *wl.Client
	registry       *wl.Registry
	display        *wl.Display
	seat           *wl.Seat
	dataManager    *WlDataDeviceManager
	primaryManager *ZwpPrimarySelectionDeviceManagerV1
	logger         zerolog.Logger
}

func newPreset(client *wl.Client, log zerolog.Logger) *preset {
	return &preset{
		client: client,
		logger: log.With().Str("component", "wlselection.preset").Logger(),
	}
}

func (p *preset) Global(name uint32, inter string, version uint32) {
	switch inter {
	case wl.SeatInterface:
		p.seat = wl.BindSeat(p.client, p.registry, name, version)
	case WlDataDeviceManagerInterface:
		p.dataManager = BindWlDataDeviceManager(p.client, p.registry, name, version)
	case ZwpPrimarySelectionDeviceManagerV1Interface:
		p.primaryManager = BindZwpPrimarySelectionDeviceManagerV1(p.client, p.registry, name, version)
	}
}

func (p *preset) GlobalRemove(uint32) {}

// Setup round-trips the registry so every global above is resolved before
// the caller tries to use any of them. primaryManager may remain nil — not
// every compositor implements zwp_primary_selection — callers must check
// before using the primary selection role.
func (p *preset) Setup() error {
	p.display = p.client.Display()
	p.registry = p.display.GetRegistry()
	p.registry.Listener = p

	if err := p.client.RoundTrip(); err != nil {
		return fmt.Errorf("round trip: %w", err)
	}
	if p.seat == nil {
		return errors.New("wlselection: no wl_seat found")
	}
	if p.dataManager == nil {
		return errors.New("wlselection: compositor has no wl_data_device_manager")
	}
	return nil
}

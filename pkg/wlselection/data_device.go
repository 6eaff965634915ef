package wlselection

import (
	"fmt"
	"os"

	wl "deedles.dev/wl/client"
	"deedles.dev/wl/wire"
)

// Hand-written bindings for the core wl_data_device_manager protocol
// family, trimmed to the clipboard-relevant requests and events (no
// start_drag/enter/leave/motion/drop/accept — those are drag-and-drop only
// and richclip never initiates or accepts a drag). Written in the
// wire.State/wire.MessageBuffer idiom of deedles.dev/wl's generated
// bindings, with opcodes matching wayland.xml so a real compositor's
// framing stays in sync even for the requests/events this file does not
// expose a Go method for.

const (
	WlDataDeviceManagerInterface = "wl_data_device_manager"
	WlDataDeviceManagerVersion   = 3
)

type WlDataDeviceManager struct {
	OnDelete func()

	state wire.State
	id    uint32
}

func NewWlDataDeviceManager(state wire.State) *WlDataDeviceManager {
	return &WlDataDeviceManager{state: state}
}

func BindWlDataDeviceManager(state wire.State, registry wire.Binder, name, version uint32) *WlDataDeviceManager {
	obj := NewWlDataDeviceManager(state)
	state.Add(obj)
	registry.Bind(name, wire.NewID{Interface: WlDataDeviceManagerInterface, Version: version, ID: obj.ID()})
	return obj
}

func (obj *WlDataDeviceManager) State() wire.State { return obj.state }

func (obj *WlDataDeviceManager) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: WlDataDeviceManagerInterface, Type: "event", Op: msg.Op()}
}

func (obj *WlDataDeviceManager) ID() uint32         { return obj.id }
func (obj *WlDataDeviceManager) SetID(id uint32)    { obj.id = id }
func (obj *WlDataDeviceManager) Delete() {
	if obj.OnDelete != nil {
		obj.OnDelete()
	}
}
func (obj *WlDataDeviceManager) String() string { return fmt.Sprintf("%v(%v)", WlDataDeviceManagerInterface, obj.id) }
func (obj *WlDataDeviceManager) MethodName(op uint16) string {
	switch op {
	case 0:
		return "create_data_source"
	case 1:
		return "get_data_device"
	}
	return "unknown method"
}
func (obj *WlDataDeviceManager) Interface() string { return WlDataDeviceManagerInterface }
func (obj *WlDataDeviceManager) Version() uint32   { return WlDataDeviceManagerVersion }

// CreateDataSource creates a new, empty source that must have offer()
// called at least once before it is installed with SetSelection.
func (obj *WlDataDeviceManager) CreateDataSource() (id *WlDataSource) {
	builder := wire.NewMessage(obj, 0)

	id = NewWlDataSource(obj.state)
	obj.state.Add(id)
	builder.WriteObject(id)

	builder.Method = "create_data_source"
	builder.Args = []any{id}
	obj.state.Enqueue(builder)
	return id
}

// GetDataDevice creates a data device for the given seat.
func (obj *WlDataDeviceManager) GetDataDevice(seat *wl.Seat) (id *WlDataDevice) {
	builder := wire.NewMessage(obj, 1)

	id = NewWlDataDevice(obj.state)
	obj.state.Add(id)
	builder.WriteObject(id)
	builder.WriteObject(seat)

	builder.Method = "get_data_device"
	builder.Args = []any{id, seat}
	obj.state.Enqueue(builder)
	return id
}

const WlDataDeviceInterface = "wl_data_device"

// WlDataDeviceListener responds to incoming wl_data_device events. Only
// the clipboard-relevant ones are surfaced; enter/leave/motion/drop are
// drag-and-drop events this device never triggers.
type WlDataDeviceListener interface {
	// DataOffer introduces a new offer object, immediately followed by one
	// or more Offer events on it and then either a Selection event (this
	// device) naming it, or it is destroyed unused.
	DataOffer(id *WlDataOffer)

	// Selection announces the offer (or nil, to clear) that is now the
	// regular clipboard content for this seat.
	Selection(id *WlDataOffer)
}

type WlDataDevice struct {
	Listener WlDataDeviceListener
	OnDelete func()

	state wire.State
	id    uint32
}

func NewWlDataDevice(state wire.State) *WlDataDevice {
	return &WlDataDevice{state: state}
}

func (obj *WlDataDevice) State() wire.State { return obj.state }

func (obj *WlDataDevice) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // data_offer
		id := NewWlDataOffer(obj.state)
		id.SetID(msg.ReadUint())
		obj.state.Add(id)

		if err := msg.Err(); err != nil {
			return err
		}
		if obj.Listener == nil {
			return nil
		}
		obj.Listener.DataOffer(id)
		return nil

	case 5: // selection
		var id *WlDataOffer
		if raw := msg.ReadUint(); raw != 0 {
			offer, ok := obj.state.Get(raw).(*WlDataOffer)
			if ok {
				id = offer
			}
		}

		if err := msg.Err(); err != nil {
			return err
		}
		if obj.Listener == nil {
			return nil
		}
		obj.Listener.Selection(id)
		return nil
	}

	return wire.UnknownOpError{Interface: WlDataDeviceInterface, Type: "event", Op: msg.Op()}
}

func (obj *WlDataDevice) ID() uint32      { return obj.id }
func (obj *WlDataDevice) SetID(id uint32) { obj.id = id }
func (obj *WlDataDevice) Delete() {
	if obj.OnDelete != nil {
		obj.OnDelete()
	}
}
func (obj *WlDataDevice) String() string { return fmt.Sprintf("%v(%v)", WlDataDeviceInterface, obj.id) }
func (obj *WlDataDevice) MethodName(op uint16) string {
	switch op {
	case 1:
		return "set_selection"
	case 2:
		return "release"
	}
	return "unknown method"
}
func (obj *WlDataDevice) Interface() string { return WlDataDeviceInterface }
func (obj *WlDataDevice) Version() uint32   { return WlDataDeviceManagerVersion }

// SetSelection installs source as the regular clipboard content. serial
// must be the serial of the input event that licenses this request; a
// stale or wrong serial causes the compositor to ignore it.
func (obj *WlDataDevice) SetSelection(source *WlDataSource, serial uint32) {
	builder := wire.NewMessage(obj, 1)

	builder.WriteObject(source)
	builder.WriteUint(serial)

	builder.Method = "set_selection"
	builder.Args = []any{source, serial}
	obj.state.Enqueue(builder)
}

func (obj *WlDataDevice) Release() {
	builder := wire.NewMessage(obj, 2)

	builder.Method = "release"
	builder.Args = []any{}
	obj.state.Enqueue(builder)
}

const WlDataSourceInterface = "wl_data_source"

// WlDataSourceListener responds to incoming wl_data_source events.
type WlDataSourceListener interface {
	// Send is a request for data from the client holding the source. Write
	// the payload for mimeType to fd, in blocking mode, then close it.
	Send(mimeType string, fd int)

	// Cancelled means this source has been replaced by another and should
	// be destroyed.
	Cancelled()
}

type WlDataSource struct {
	Listener WlDataSourceListener
	OnDelete func()

	state wire.State
	id    uint32
}

func NewWlDataSource(state wire.State) *WlDataSource {
	return &WlDataSource{state: state}
}

func (obj *WlDataSource) State() wire.State { return obj.state }

func (obj *WlDataSource) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 1: // send
		mimeType := msg.ReadString()
		fd := msg.ReadFile()

		if err := msg.Err(); err != nil {
			return err
		}
		if obj.Listener == nil {
			return nil
		}
		obj.Listener.Send(mimeType, int(fd.Fd()))
		return nil

	case 2: // cancelled
		if err := msg.Err(); err != nil {
			return err
		}
		if obj.Listener == nil {
			return nil
		}
		obj.Listener.Cancelled()
		return nil
	}

	return wire.UnknownOpError{Interface: WlDataSourceInterface, Type: "event", Op: msg.Op()}
}

func (obj *WlDataSource) ID() uint32      { return obj.id }
func (obj *WlDataSource) SetID(id uint32) { obj.id = id }
func (obj *WlDataSource) Delete() {
	if obj.OnDelete != nil {
		obj.OnDelete()
	}
}
func (obj *WlDataSource) String() string { return fmt.Sprintf("%v(%v)", WlDataSourceInterface, obj.id) }
func (obj *WlDataSource) MethodName(op uint16) string {
	switch op {
	case 0:
		return "offer"
	case 1:
		return "destroy"
	}
	return "unknown method"
}
func (obj *WlDataSource) Interface() string { return WlDataSourceInterface }
func (obj *WlDataSource) Version() uint32   { return WlDataDeviceManagerVersion }

// Offer adds mimeType to the set advertised to potential targets. Call
// once per MIME before the source is installed with SetSelection.
func (obj *WlDataSource) Offer(mimeType string) {
	builder := wire.NewMessage(obj, 0)

	builder.WriteString(mimeType)

	builder.Method = "offer"
	builder.Args = []any{mimeType}
	obj.state.Enqueue(builder)
}

func (obj *WlDataSource) Destroy() {
	builder := wire.NewMessage(obj, 1)

	builder.Method = "destroy"
	builder.Args = []any{}
	obj.state.Enqueue(builder)
}

const WlDataOfferInterface = "wl_data_offer"

// WlDataOfferListener responds to incoming wl_data_offer events.
type WlDataOfferListener interface {
	// Offer announces one MIME type available from this offer. Sent once
	// per MIME, immediately after the offer is introduced.
	Offer(mimeType string)
}

type WlDataOffer struct {
	Listener WlDataOfferListener
	OnDelete func()

	state wire.State
	id    uint32
}

func NewWlDataOffer(state wire.State) *WlDataOffer {
	return &WlDataOffer{state: state}
}

func (obj *WlDataOffer) State() wire.State { return obj.state }

func (obj *WlDataOffer) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // offer
		mimeType := msg.ReadString()

		if err := msg.Err(); err != nil {
			return err
		}
		if obj.Listener == nil {
			return nil
		}
		obj.Listener.Offer(mimeType)
		return nil
	}

	return wire.UnknownOpError{Interface: WlDataOfferInterface, Type: "event", Op: msg.Op()}
}

func (obj *WlDataOffer) ID() uint32      { return obj.id }
func (obj *WlDataOffer) SetID(id uint32) { obj.id = id }
func (obj *WlDataOffer) Delete() {
	if obj.OnDelete != nil {
		obj.OnDelete()
	}
}
func (obj *WlDataOffer) String() string { return fmt.Sprintf("%v(%v)", WlDataOfferInterface, obj.id) }
func (obj *WlDataOffer) MethodName(op uint16) string {
	switch op {
	case 1:
		return "receive"
	case 2:
		return "destroy"
	}
	return "unknown method"
}
func (obj *WlDataOffer) Interface() string { return WlDataOfferInterface }
func (obj *WlDataOffer) Version() uint32   { return WlDataDeviceManagerVersion }

// Receive asks the source to stream mimeType's content over fd. Ownership
// of fd transfers to the compositor/source; the caller must close its own
// copy after enqueueing.
func (obj *WlDataOffer) Receive(mimeType string, fd *os.File) {
	builder := wire.NewMessage(obj, 1)

	builder.WriteString(mimeType)
	builder.WriteFile(fd)

	builder.Method = "receive"
	builder.Args = []any{mimeType, fd}
	obj.state.Enqueue(builder)
}

func (obj *WlDataOffer) Destroy() {
	builder := wire.NewMessage(obj, 2)

	builder.Method = "destroy"
	builder.Args = []any{}
	obj.state.Enqueue(builder)
}

package wlselection

import (
	"fmt"
	"os"

	wl "deedles.dev/wl/client"
	"deedles.dev/wl/wire"
)

// Hand-written bindings for zwp_primary_selection_device_manager_v1 and its
// device/source/offer objects — the primary-selection counterpart to
// data_device.go. Unlike wl_data_device, this protocol carries no
// drag-and-drop baggage, so every request and event in the upstream
// protocol has a Go method here.

const (
	ZwpPrimarySelectionDeviceManagerV1Interface = "zwp_primary_selection_device_manager_v1"
	ZwpPrimarySelectionDeviceManagerV1Version   = 1
)

type ZwpPrimarySelectionDeviceManagerV1 struct {
	OnDelete func()

	state wire.State
	id    uint32
}

func NewZwpPrimarySelectionDeviceManagerV1(state wire.State) *ZwpPrimarySelectionDeviceManagerV1 {
	return &ZwpPrimarySelectionDeviceManagerV1{state: state}
}

func BindZwpPrimarySelectionDeviceManagerV1(state wire.State, registry wire.Binder, name, version uint32) *ZwpPrimarySelectionDeviceManagerV1 {
	obj := NewZwpPrimarySelectionDeviceManagerV1(state)
	state.Add(obj)
	registry.Bind(name, wire.NewID{Interface: ZwpPrimarySelectionDeviceManagerV1Interface, Version: version, ID: obj.ID()})
	return obj
}

func (obj *ZwpPrimarySelectionDeviceManagerV1) State() wire.State { return obj.state }

func (obj *ZwpPrimarySelectionDeviceManagerV1) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: ZwpPrimarySelectionDeviceManagerV1Interface, Type: "event", Op: msg.Op()}
}

func (obj *ZwpPrimarySelectionDeviceManagerV1) ID() uint32      { return obj.id }
func (obj *ZwpPrimarySelectionDeviceManagerV1) SetID(id uint32) { obj.id = id }
func (obj *ZwpPrimarySelectionDeviceManagerV1) Delete() {
	if obj.OnDelete != nil {
		obj.OnDelete()
	}
}
func (obj *ZwpPrimarySelectionDeviceManagerV1) String() string {
	return fmt.Sprintf("%v(%v)", ZwpPrimarySelectionDeviceManagerV1Interface, obj.id)
}
func (obj *ZwpPrimarySelectionDeviceManagerV1) MethodName(op uint16) string {
	switch op {
	case 0:
		return "create_source"
	case 1:
		return "get_device"
	case 2:
		return "destroy"
	}
	return "unknown method"
}
func (obj *ZwpPrimarySelectionDeviceManagerV1) Interface() string {
	return ZwpPrimarySelectionDeviceManagerV1Interface
}
func (obj *ZwpPrimarySelectionDeviceManagerV1) Version() uint32 {
	return ZwpPrimarySelectionDeviceManagerV1Version
}

func (obj *ZwpPrimarySelectionDeviceManagerV1) CreateSource() (id *ZwpPrimarySelectionSourceV1) {
	builder := wire.NewMessage(obj, 0)

	id = NewZwpPrimarySelectionSourceV1(obj.state)
	obj.state.Add(id)
	builder.WriteObject(id)

	builder.Method = "create_source"
	builder.Args = []any{id}
	obj.state.Enqueue(builder)
	return id
}

func (obj *ZwpPrimarySelectionDeviceManagerV1) GetDevice(seat *wl.Seat) (id *ZwpPrimarySelectionDeviceV1) {
	builder := wire.NewMessage(obj, 1)

	id = NewZwpPrimarySelectionDeviceV1(obj.state)
	obj.state.Add(id)
	builder.WriteObject(id)
	builder.WriteObject(seat)

	builder.Method = "get_device"
	builder.Args = []any{id, seat}
	obj.state.Enqueue(builder)
	return id
}

func (obj *ZwpPrimarySelectionDeviceManagerV1) Destroy() {
	builder := wire.NewMessage(obj, 2)

	builder.Method = "destroy"
	builder.Args = []any{}
	obj.state.Enqueue(builder)
}

const ZwpPrimarySelectionDeviceV1Interface = "zwp_primary_selection_device_v1"

type ZwpPrimarySelectionDeviceV1Listener interface {
	DataOffer(id *ZwpPrimarySelectionOfferV1)
	Selection(id *ZwpPrimarySelectionOfferV1)
}

type ZwpPrimarySelectionDeviceV1 struct {
	Listener ZwpPrimarySelectionDeviceV1Listener
	OnDelete func()

	state wire.State
	id    uint32
}

func NewZwpPrimarySelectionDeviceV1(state wire.State) *ZwpPrimarySelectionDeviceV1 {
	return &ZwpPrimarySelectionDeviceV1{state: state}
}

func (obj *ZwpPrimarySelectionDeviceV1) State() wire.State { return obj.state }

func (obj *ZwpPrimarySelectionDeviceV1) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // data_offer
		id := NewZwpPrimarySelectionOfferV1(obj.state)
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

	case 1: // selection
		var id *ZwpPrimarySelectionOfferV1
		if raw := msg.ReadUint(); raw != 0 {
			offer, ok := obj.state.Get(raw).(*ZwpPrimarySelectionOfferV1)
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

	return wire.UnknownOpError{Interface: ZwpPrimarySelectionDeviceV1Interface, Type: "event", Op: msg.Op()}
}

func (obj *ZwpPrimarySelectionDeviceV1) ID() uint32      { return obj.id }
func (obj *ZwpPrimarySelectionDeviceV1) SetID(id uint32) { obj.id = id }
func (obj *ZwpPrimarySelectionDeviceV1) Delete() {
	if obj.OnDelete != nil {
		obj.OnDelete()
	}
}
func (obj *ZwpPrimarySelectionDeviceV1) String() string {
	return fmt.Sprintf("%v(%v)", ZwpPrimarySelectionDeviceV1Interface, obj.id)
}
func (obj *ZwpPrimarySelectionDeviceV1) MethodName(op uint16) string {
	switch op {
	case 0:
		return "set_selection"
	case 1:
		return "destroy"
	}
	return "unknown method"
}
func (obj *ZwpPrimarySelectionDeviceV1) Interface() string { return ZwpPrimarySelectionDeviceV1Interface }
func (obj *ZwpPrimarySelectionDeviceV1) Version() uint32   { return ZwpPrimarySelectionDeviceManagerV1Version }

func (obj *ZwpPrimarySelectionDeviceV1) SetSelection(source *ZwpPrimarySelectionSourceV1, serial uint32) {
	builder := wire.NewMessage(obj, 0)

	builder.WriteObject(source)
	builder.WriteUint(serial)

	builder.Method = "set_selection"
	builder.Args = []any{source, serial}
	obj.state.Enqueue(builder)
}

func (obj *ZwpPrimarySelectionDeviceV1) Destroy() {
	builder := wire.NewMessage(obj, 1)

	builder.Method = "destroy"
	builder.Args = []any{}
	obj.state.Enqueue(builder)
}

const ZwpPrimarySelectionSourceV1Interface = "zwp_primary_selection_source_v1"

type ZwpPrimarySelectionSourceV1Listener interface {
	Send(mimeType string, fd int)
	Cancelled()
}

type ZwpPrimarySelectionSourceV1 struct {
	Listener ZwpPrimarySelectionSourceV1Listener
	OnDelete func()

	state wire.State
	id    uint32
}

func NewZwpPrimarySelectionSourceV1(state wire.State) *ZwpPrimarySelectionSourceV1 {
	return &ZwpPrimarySelectionSourceV1{state: state}
}

func (obj *ZwpPrimarySelectionSourceV1) State() wire.State { return obj.state }

func (obj *ZwpPrimarySelectionSourceV1) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // send
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

	case 1: // cancelled
		if err := msg.Err(); err != nil {
			return err
		}
		if obj.Listener == nil {
			return nil
		}
		obj.Listener.Cancelled()
		return nil
	}

	return wire.UnknownOpError{Interface: ZwpPrimarySelectionSourceV1Interface, Type: "event", Op: msg.Op()}
}

func (obj *ZwpPrimarySelectionSourceV1) ID() uint32      { return obj.id }
func (obj *ZwpPrimarySelectionSourceV1) SetID(id uint32) { obj.id = id }
func (obj *ZwpPrimarySelectionSourceV1) Delete() {
	if obj.OnDelete != nil {
		obj.OnDelete()
	}
}
func (obj *ZwpPrimarySelectionSourceV1) String() string {
	return fmt.Sprintf("%v(%v)", ZwpPrimarySelectionSourceV1Interface, obj.id)
}
func (obj *ZwpPrimarySelectionSourceV1) MethodName(op uint16) string {
	switch op {
	case 0:
		return "offer"
	case 1:
		return "destroy"
	}
	return "unknown method"
}
func (obj *ZwpPrimarySelectionSourceV1) Interface() string { return ZwpPrimarySelectionSourceV1Interface }
func (obj *ZwpPrimarySelectionSourceV1) Version() uint32   { return ZwpPrimarySelectionDeviceManagerV1Version }

func (obj *ZwpPrimarySelectionSourceV1) Offer(mimeType string) {
	builder := wire.NewMessage(obj, 0)

	builder.WriteString(mimeType)

	builder.Method = "offer"
	builder.Args = []any{mimeType}
	obj.state.Enqueue(builder)
}

func (obj *ZwpPrimarySelectionSourceV1) Destroy() {
	builder := wire.NewMessage(obj, 1)

	builder.Method = "destroy"
	builder.Args = []any{}
	obj.state.Enqueue(builder)
}

const ZwpPrimarySelectionOfferV1Interface = "zwp_primary_selection_offer_v1"

type ZwpPrimarySelectionOfferV1Listener interface {
	Offer(mimeType string)
}

type ZwpPrimarySelectionOfferV1 struct {
	Listener ZwpPrimarySelectionOfferV1Listener
	OnDelete func()

	state wire.State
	id    uint32
}

func NewZwpPrimarySelectionOfferV1(state wire.State) *ZwpPrimarySelectionOfferV1 {
	return &ZwpPrimarySelectionOfferV1{state: state}
}

func (obj *ZwpPrimarySelectionOfferV1) State() wire.State { return obj.state }

func (obj *ZwpPrimarySelectionOfferV1) Dispatch(msg *wire.MessageBuffer) error {
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

	return wire.UnknownOpError{Interface: ZwpPrimarySelectionOfferV1Interface, Type: "event", Op: msg.Op()}
}

func (obj *ZwpPrimarySelectionOfferV1) ID() uint32      { return obj.id }
func (obj *ZwpPrimarySelectionOfferV1) SetID(id uint32) { obj.id = id }
func (obj *ZwpPrimarySelectionOfferV1) Delete() {
	if obj.OnDelete != nil {
		obj.OnDelete()
	}
}
func (obj *ZwpPrimarySelectionOfferV1) String() string {
	return fmt.Sprintf("%v(%v)", ZwpPrimarySelectionOfferV1Interface, obj.id)
}
func (obj *ZwpPrimarySelectionOfferV1) MethodName(op uint16) string {
	switch op {
	case 0:
		return "receive"
	case 1:
		return "destroy"
	}
	return "unknown method"
}
func (obj *ZwpPrimarySelectionOfferV1) Interface() string { return ZwpPrimarySelectionOfferV1Interface }
func (obj *ZwpPrimarySelectionOfferV1) Version() uint32   { return ZwpPrimarySelectionDeviceManagerV1Version }

func (obj *ZwpPrimarySelectionOfferV1) Receive(mimeType string, fd *os.File) {
	builder := wire.NewMessage(obj, 0)

	builder.WriteString(mimeType)
	builder.WriteFile(fd)

	builder.Method = "receive"
	builder.Args = []any{mimeType, fd}
	obj.state.Enqueue(builder)
}

func (obj *ZwpPrimarySelectionOfferV1) Destroy() {
	builder := wire.NewMessage(obj, 1)

	builder.Method = "destroy"
	builder.Args = []any{}
	obj.state.Enqueue(builder)
}

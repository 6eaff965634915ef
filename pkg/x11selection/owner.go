package x11selection

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/rs/zerolog"

	"github.com/labi-le/richclip/internal/clipsource"
	"github.com/labi-le/richclip/internal/rcerrors"
	"github.com/labi-le/richclip/internal/selection"
	"github.com/labi-le/richclip/pkg/ctxlog"
	"github.com/labi-le/richclip/pkg/storage"
	"github.com/labi-le/richclip/pkg/strutil"
)

const (
	// DefaultChunkSize is the INCR chunk size used when the CLI does not
	// override it via --chunk-size.
	DefaultChunkSize = 256 * 1024

	// maxDirectPropSize is the conservative bound under which a payload is
	// written to the requestor's property in one ChangeProperty call rather
	// than switched to INCR.
	maxDirectPropSize = 0x10000

	// drainTimeout bounds how long the owner waits for in-flight INCR
	// transfers to finish after SelectionClear before it gives up.
	drainTimeout = 5 * time.Second

	// incrAbandonAfter is the minimum idle time before a stalled INCR
	// transfer is swept.
	incrAbandonAfter = 5 * time.Second

	sweepInterval = time.Second
)

// Sink implements selection.Sink by holding ICCCM ownership of an X11
// selection (CLIPBOARD or PRIMARY) and serving its TARGETS/content on
// demand until the selection is stolen or the context is cancelled.
type Sink struct {
	Logger    zerolog.Logger
	ChunkSize uint32
}

func (s Sink) Publish(ctx context.Context, src *clipsource.Source, role selection.Role) error {
	chunkSize := s.ChunkSize
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}

	o, err := newOwner(s.Logger, src, role, chunkSize)
	if err != nil {
		return err
	}
	defer o.conn.Close()

	return o.run(ctx)
}

type incrKey struct {
	requestor xproto.Window
	property  xproto.Atom
	target    xproto.Atom
}

type incrTransfer struct {
	payload      []byte
	offset       int
	target       xproto.Atom
	requestor    xproto.Window
	property     xproto.Atom
	lastProgress time.Time
}

type owner struct {
	logger     zerolog.Logger
	conn       *xgb.Conn
	win        xproto.Window
	atoms      *atomCache
	selAtom    xproto.Atom
	src        *clipsource.Source
	chunkSize  uint32
	acquiredAt xproto.Timestamp

	transfers storage.Storage[incrKey, *incrTransfer]

	mu       sync.Mutex
	clearing bool
}

func newOwner(logger zerolog.Logger, src *clipsource.Source, role selection.Role, chunkSize uint32) (*owner, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("xgb connect: %w", err)
	}

	atoms, err := loadAtoms(conn, src.AllMimes())
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("load atoms: %w", err)
	}

	screen := xproto.Setup(conn).DefaultScreen(conn)
	win, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		win,
		screen.Root,
		0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwEventMask,
		[]uint32{xproto.EventMaskPropertyChange},
	).Check()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create window: %w", err)
	}

	o := &owner{
		logger:    ctxlog.Op(logger, "x11selection.owner").With().Str("role", role.String()).Logger(),
		conn:      conn,
		win:       win,
		atoms:     atoms,
		selAtom:   atoms.selectionAtom(role == selection.Primary),
		src:       src,
		chunkSize: chunkSize,
		transfers: storage.NewSyncMapStorage[incrKey, *incrTransfer](),
	}

	ts, err := o.acquireTimestamp()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("acquire timestamp: %w", err)
	}
	o.acquiredAt = ts

	if err := xproto.SetSelectionOwnerChecked(conn, win, o.selAtom, ts).Check(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set selection owner: %w", err)
	}

	reply, err := xproto.GetSelectionOwner(conn, o.selAtom).Reply()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("get selection owner: %w", err)
	}
	if reply.Owner != win {
		conn.Close()
		return nil, rcerrors.ErrOwnershipDenied
	}

	return o, nil
}

// acquireTimestamp applies the classic ICCCM timestamp trick: append a
// zero-length value to a property on our own window and read back the
// server-stamped time of the resulting PropertyNotify. That becomes the
// timestamp reported for the TIMESTAMP target.
func (o *owner) acquireTimestamp() (xproto.Timestamp, error) {
	err := xproto.ChangePropertyChecked(
		o.conn, xproto.PropModeAppend, o.win, o.atoms.timestamper, xproto.AtomInteger, 32, 0, nil,
	).Check()
	if err != nil {
		return 0, err
	}

	for {
		ev, err := o.conn.WaitForEvent()
		if err != nil {
			return 0, err
		}
		if pn, ok := ev.(xproto.PropertyNotifyEvent); ok && pn.Window == o.win && pn.Atom == o.atoms.timestamper {
			return pn.Time, nil
		}
	}
}

func (o *owner) run(ctx context.Context) error {
	events := make(chan xgb.Event)
	waitErrs := make(chan error, 1)
	go func() {
		for {
			ev, err := o.conn.WaitForEvent()
			if err != nil {
				waitErrs <- err
				return
			}
			if ev == nil {
				continue
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	var drainDeadline <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-waitErrs:
			return err
		case <-drainDeadline:
			return rcerrors.ErrSelectionLost
		case <-ticker.C:
			o.sweepAbandoned()
		case ev := <-events:
			switch e := ev.(type) {
			case xproto.SelectionRequestEvent:
				o.handleRequest(e)
			case xproto.SelectionClearEvent:
				if e.Selection != o.selAtom {
					continue
				}
				o.mu.Lock()
				o.clearing = true
				o.mu.Unlock()
				if o.transfers.Len() == 0 {
					return rcerrors.ErrSelectionLost
				}
				drainDeadline = time.After(drainTimeout)
			case xproto.PropertyNotifyEvent:
				if e.State == xproto.PropertyDelete {
					o.advanceIncr(e)
					if o.drainComplete() {
						return rcerrors.ErrSelectionLost
					}
				}
			}
		}
	}
}

func (o *owner) drainComplete() bool {
	o.mu.Lock()
	clearing := o.clearing
	o.mu.Unlock()
	return clearing && o.transfers.Len() == 0
}

func (o *owner) handleRequest(e xproto.SelectionRequestEvent) {
	if e.Selection != o.selAtom {
		return
	}

	resp := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  xproto.AtomNone,
	}

	switch {
	case e.Target == o.atoms.Targets:
		o.replyTargets(e, &resp)
	case e.Target == o.atoms.Timestamp:
		o.replyTimestamp(e, &resp)
	default:
		if mime, ok := o.atoms.mimeOf(e.Target); ok {
			if payload, ok := o.src.Lookup(mime); ok {
				o.servePayload(e, &resp, payload)
			}
		}
	}

	o.sendNotify(resp)
}

func (o *owner) replyTargets(e xproto.SelectionRequestEvent, resp *xproto.SelectionNotifyEvent) {
	mimes := o.src.AllMimes()
	targets := make([]xproto.Atom, 0, len(mimes)+1)
	targets = append(targets, o.atoms.Targets)
	for _, m := range mimes {
		if a, ok := o.atoms.atomOf(m); ok {
			targets = append(targets, a)
		}
	}

	data := make([]byte, 4*len(targets))
	for i, a := range targets {
		binary.LittleEndian.PutUint32(data[i*4:], uint32(a))
	}

	xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, e.Property, xproto.AtomAtom, 32, uint32(len(targets)), data)
	resp.Property = e.Property
}

func (o *owner) replyTimestamp(e xproto.SelectionRequestEvent, resp *xproto.SelectionNotifyEvent) {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, uint32(o.acquiredAt))
	xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, e.Property, xproto.AtomInteger, 32, 1, data)
	resp.Property = e.Property
}

func (o *owner) servePayload(e xproto.SelectionRequestEvent, resp *xproto.SelectionNotifyEvent, payload []byte) {
	if uint32(len(payload)) <= o.chunkSize && uint32(len(payload)) <= maxDirectPropSize {
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, e.Property, e.Target, 8, uint32(len(payload)), payload)
		resp.Property = e.Property
		return
	}

	o.mu.Lock()
	clearing := o.clearing
	o.mu.Unlock()
	if clearing {
		return
	}

	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(len(payload)))
	xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, e.Property, o.atoms.Incr, 32, 1, lenBuf)
	xproto.ChangeWindowAttributes(o.conn, e.Requestor, xproto.CwEventMask, []uint32{uint32(xproto.EventMaskPropertyChange)})

	key := incrKey{requestor: e.Requestor, property: e.Property, target: e.Target}
	o.transfers.Add(key, &incrTransfer{
		payload:      payload,
		target:       e.Target,
		requestor:    e.Requestor,
		property:     e.Property,
		lastProgress: time.Now(),
	})

	resp.Property = e.Property
}

func (o *owner) advanceIncr(e xproto.PropertyNotifyEvent) {
	var found *incrTransfer
	var foundKey incrKey
	o.transfers.Tap(func(k incrKey, t *incrTransfer) bool {
		if k.requestor == e.Window && k.property == e.Atom {
			found, foundKey = t, k
			return false
		}
		return true
	})
	if found == nil {
		return
	}

	remaining := len(found.payload) - found.offset
	if remaining == 0 {
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, found.requestor, found.property, found.target, 8, 0, nil)
		o.transfers.Delete(foundKey)
		return
	}

	n := remaining
	if n > int(o.chunkSize) {
		n = int(o.chunkSize)
	}

	chunk := found.payload[found.offset : found.offset+n]
	xproto.ChangeProperty(o.conn, xproto.PropModeReplace, found.requestor, found.property, found.target, 8, uint32(len(chunk)), chunk)
	found.offset += n
	found.lastProgress = time.Now()
}

func (o *owner) sweepAbandoned() {
	now := time.Now()
	var stale []incrKey
	o.transfers.Tap(func(k incrKey, t *incrTransfer) bool {
		if now.Sub(t.lastProgress) > incrAbandonAfter {
			stale = append(stale, k)
		}
		return true
	})
	for _, k := range stale {
		o.transfers.Delete(k)
		o.logger.Warn().Msg("abandoned incr transfer swept")
	}
}

func (o *owner) sendNotify(resp xproto.SelectionNotifyEvent) {
	buf := make([]byte, 32)
	buf[0] = 31 // SelectionNotify event code
	binary.LittleEndian.PutUint32(buf[4:8], uint32(resp.Time))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(resp.Requestor))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(resp.Selection))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(resp.Target))
	binary.LittleEndian.PutUint32(buf[20:24], uint32(resp.Property))

	xproto.SendEvent(o.conn, false, resp.Requestor, xproto.EventMaskNoEvent, strutil.BytesToString(buf))
}

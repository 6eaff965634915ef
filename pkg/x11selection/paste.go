package x11selection

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/rs/zerolog"

	"github.com/labi-le/richclip/internal/rcerrors"
	"github.com/labi-le/richclip/internal/selection"
	"github.com/labi-le/richclip/pkg/ctxlog"
)

// maxIncrChunk bounds a single GetProperty read while draining an INCR
// transfer on the paste side.
const maxIncrChunk = 4 * 1024 * 1024

// Paste implements selection.Source over one-shot ConvertSelection round
// trips against whichever client currently owns the X11 selection.
type Paste struct {
	Logger zerolog.Logger
}

func (p Paste) List(ctx context.Context, role selection.Role) ([]string, error) {
	c, err := openPasteConnFor(role)
	if err != nil {
		return nil, err
	}
	defer c.conn.Close()

	atomIDs, err := c.convertAndReadAtoms(ctx, c.atoms.Targets)
	if err != nil {
		return nil, err
	}
	if atomIDs == nil {
		return nil, nil
	}

	names := make([]string, 0, len(atomIDs))
	for _, a := range atomIDs {
		if c.atoms.isMeta(a) {
			continue
		}
		name, err := c.atomName(a)
		if err != nil {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func (p Paste) Fetch(ctx context.Context, role selection.Role, mime string) ([]byte, error) {
	c, err := openPasteConnFor(role)
	if err != nil {
		return nil, err
	}
	c.logger = ctxlog.Op(p.Logger, "x11selection.Paste.Fetch")
	defer c.conn.Close()

	atomIDs, err := c.convertAndReadAtoms(ctx, c.atoms.Targets)
	if err != nil {
		return nil, err
	}
	if atomIDs == nil {
		return nil, nil
	}

	chosen, err := c.pickTarget(atomIDs, mime)
	if err != nil {
		return nil, err
	}

	return c.convertAndReadBytes(ctx, chosen)
}

type pasteConn struct {
	conn   *xgb.Conn
	win    xproto.Window
	atoms  *atomCache
	role   selection.Role
	logger zerolog.Logger
}

func openPasteConnFor(role selection.Role) (*pasteConn, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("xgb connect: %w", err)
	}

	atoms, err := loadAtoms(conn, nil)
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

	return &pasteConn{conn: conn, win: win, atoms: atoms, role: role}, nil
}

// pickTarget resolves the requested MIME against the advertised target
// list: an explicit -t MIME must be present, otherwise the first non-meta
// target wins.
func (c *pasteConn) pickTarget(atomIDs []xproto.Atom, wantMime string) (xproto.Atom, error) {
	if wantMime != "" {
		for _, a := range atomIDs {
			name, err := c.atomName(a)
			if err == nil && name == wantMime {
				return a, nil
			}
		}
		return 0, rcerrors.ErrNoSuchMime
	}

	for _, a := range atomIDs {
		if c.atoms.isMeta(a) {
			continue
		}
		return a, nil
	}
	return 0, rcerrors.ErrNoSuchMime
}

func (c *pasteConn) atomName(a xproto.Atom) (string, error) {
	reply, err := xproto.GetAtomName(c.conn, a).Reply()
	if err != nil {
		return "", err
	}
	return reply.Name, nil
}

// convertSelectionAndWait issues ConvertSelection for target and blocks
// for the matching SelectionNotify.
func (c *pasteConn) convertSelectionAndWait(ctx context.Context, target xproto.Atom) (*xproto.SelectionNotifyEvent, error) {
	selAtom := c.atoms.selectionAtom(c.role == selection.Primary)
	xproto.ConvertSelection(c.conn, c.win, selAtom, target, c.atoms.pasteProp, xproto.TimeCurrentTime)

	type result struct {
		ev  *xproto.SelectionNotifyEvent
		err error
	}
	done := make(chan result, 1)
	go func() {
		for {
			ev, err := c.conn.WaitForEvent()
			if err != nil {
				done <- result{nil, err}
				return
			}
			if sn, ok := ev.(xproto.SelectionNotifyEvent); ok {
				done <- result{&sn, nil}
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.ev, r.err
	}
}

func (c *pasteConn) convertAndReadAtoms(ctx context.Context, target xproto.Atom) ([]xproto.Atom, error) {
	ev, err := c.convertSelectionAndWait(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rcerrors.ErrProtocol, err)
	}
	if ev.Property == xproto.AtomNone {
		return nil, nil
	}

	reply, err := xproto.GetProperty(c.conn, true, c.win, ev.Property, xproto.AtomAtom, 0, 1<<20).Reply()
	if err != nil || reply.Format != 32 {
		return nil, fmt.Errorf("%w: malformed TARGETS property", rcerrors.ErrProtocol)
	}

	atoms := make([]xproto.Atom, reply.ValueLen)
	for i := range atoms {
		atoms[i] = xproto.Atom(binary.LittleEndian.Uint32(reply.Value[i*4:]))
	}
	return atoms, nil
}

func (c *pasteConn) convertAndReadBytes(ctx context.Context, target xproto.Atom) ([]byte, error) {
	ev, err := c.convertSelectionAndWait(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rcerrors.ErrProtocol, err)
	}
	if ev.Property == xproto.AtomNone {
		return nil, nil
	}

	reply, err := xproto.GetProperty(c.conn, false, c.win, ev.Property, xproto.GetPropertyTypeAny, 0, 0).Reply()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rcerrors.ErrIO, err)
	}

	if reply.Type == c.atoms.Incr {
		return c.readIncr(ctx, ev.Property)
	}

	full, err := xproto.GetProperty(c.conn, true, c.win, ev.Property, xproto.GetPropertyTypeAny, 0, maxIncrChunk).Reply()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rcerrors.ErrIO, err)
	}
	return full.Value, nil
}

// readIncr drains an INCR transfer: delete the property to arm the owner,
// then repeatedly wait for PropertyNotify (state=NewValue) and concatenate
// chunks until a zero-length one arrives.
func (c *pasteConn) readIncr(ctx context.Context, prop xproto.Atom) ([]byte, error) {
	xproto.DeleteProperty(c.conn, c.win, prop)

	var out []byte
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		ev, err := c.conn.WaitForEvent()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", rcerrors.ErrIO, err)
		}
		pn, ok := ev.(xproto.PropertyNotifyEvent)
		if !ok || pn.Window != c.win || pn.Atom != prop || pn.State != xproto.PropertyNewValue {
			continue
		}

		reply, replyErr := xproto.GetProperty(c.conn, true, c.win, prop, xproto.GetPropertyTypeAny, 0, maxIncrChunk).Reply()
		if replyErr != nil {
			return nil, fmt.Errorf("%w: %v", rcerrors.ErrIO, replyErr)
		}
		if len(reply.Value) == 0 {
			return out, nil
		}
		c.logger.Trace().Int("bytes", len(reply.Value)).Msg("incr chunk received")
		out = append(out, reply.Value...)
	}
}

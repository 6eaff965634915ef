package x11selection

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// atomCache holds every atom the owner and paste client need interned up
// front: the fixed ICCCM set plus one atom per MIME type carried by the
// clipboard source being served.
type atomCache struct {
	Clipboard   xproto.Atom
	Primary     xproto.Atom
	Targets     xproto.Atom
	Timestamp   xproto.Atom
	Multiple    xproto.Atom
	SaveTargets xproto.Atom
	Incr        xproto.Atom
	timestamper xproto.Atom // _TIMESTAMP, used for the timestamp-trick on our own window
	pasteProp   xproto.Atom // _RICHCLIP_PASTE, destination property for ConvertSelection replies

	byMime map[string]xproto.Atom
	byAtom map[xproto.Atom]string
}

var fixedAtomNames = []string{
	"CLIPBOARD", "PRIMARY", "TARGETS", "TIMESTAMP", "MULTIPLE",
	"SAVE_TARGETS", "INCR", "_TIMESTAMP", "_RICHCLIP_PASTE",
}

// loadAtoms interns the fixed ICCCM atom set plus one atom per MIME string
// in mimes, firing every InternAtom request before blocking on any reply.
func loadAtoms(c *xgb.Conn, mimes []string) (*atomCache, error) {
	names := append(append([]string(nil), fixedAtomNames...), mimes...)

	cookies := make([]xproto.InternAtomCookie, len(names))
	for i, name := range names {
		cookies[i] = xproto.InternAtom(c, false, uint16(len(name)), name)
	}

	atoms := make([]xproto.Atom, len(names))
	for i, cookie := range cookies {
		reply, err := cookie.Reply()
		if err != nil {
			return nil, err
		}
		atoms[i] = reply.Atom
	}

	ac := &atomCache{
		Clipboard:   atoms[0],
		Primary:     atoms[1],
		Targets:     atoms[2],
		Timestamp:   atoms[3],
		Multiple:    atoms[4],
		SaveTargets: atoms[5],
		Incr:        atoms[6],
		timestamper: atoms[7],
		pasteProp:   atoms[8],
		byMime:      make(map[string]xproto.Atom, len(mimes)),
		byAtom:      make(map[xproto.Atom]string, len(mimes)),
	}

	for i, mime := range mimes {
		atom := atoms[len(fixedAtomNames)+i]
		ac.byMime[mime] = atom
		ac.byAtom[atom] = mime
	}

	return ac, nil
}

func (ac *atomCache) selectionAtom(primary bool) xproto.Atom {
	if primary {
		return ac.Primary
	}
	return ac.Clipboard
}

func (ac *atomCache) mimeOf(a xproto.Atom) (string, bool) {
	m, ok := ac.byAtom[a]
	return m, ok
}

func (ac *atomCache) atomOf(mime string) (xproto.Atom, bool) {
	a, ok := ac.byMime[mime]
	return a, ok
}

// isMeta reports whether a is one of the ICCCM meta-targets that never
// names real clipboard content, and so must be skipped when picking a
// default MIME on paste.
func (ac *atomCache) isMeta(a xproto.Atom) bool {
	return a == ac.Targets || a == ac.Multiple || a == ac.Timestamp || a == ac.SaveTargets
}

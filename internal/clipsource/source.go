// Package clipsource holds the ClipboardSource data model: an ordered,
// append-only sequence of MIME-tagged offers that becomes the published
// selection content once frozen.
package clipsource

// DefaultOneShotMimes is published when one-shot mode receives no -t flags.
var DefaultOneShotMimes = []string{
	"text/plain",
	"text/plain;charset=utf-8",
	"TEXT",
	"STRING",
	"UTF8_STRING",
}

// Offer is one (MIME-list, bytes) unit. MimeTypes is non-empty and ordered;
// duplicates are permitted and the first occurrence wins on ties. Content is
// never mutated after it is added to a Source.
type Offer struct {
	MimeTypes []string
	Content   []byte
}

// Source is an ordered sequence of Offer. It is append-only until Freeze is
// called; after that every accessor treats it as an immutable snapshot and
// never copies Content.
type Source struct {
	offers []Offer
	frozen bool
}

// New returns an empty, unfrozen Source.
func New() *Source {
	return &Source{}
}

// Add appends an offer. It panics if called after Freeze — that would be a
// programming error in the caller, not a runtime condition to recover from.
func (s *Source) Add(mimeTypes []string, content []byte) {
	if s.frozen {
		panic("clipsource: Add called on a frozen Source")
	}
	if len(mimeTypes) == 0 {
		panic("clipsource: Add called with no mime types")
	}
	s.offers = append(s.offers, Offer{MimeTypes: mimeTypes, Content: content})
}

// Freeze marks the source as complete. Subsequent Add calls panic.
func (s *Source) Freeze() *Source {
	s.frozen = true
	return s
}

// Frozen reports whether Freeze has been called.
func (s *Source) Frozen() bool {
	return s.frozen
}

// Offers returns the underlying slice of offers in insertion order. Callers
// must not mutate it.
func (s *Source) Offers() []Offer {
	return s.offers
}

// Len returns the number of offers.
func (s *Source) Len() int {
	return len(s.offers)
}

// AllMimes returns the union of every offer's MIME types, in first-appearance
// order, with duplicates removed. This is the order advertised on X11
// TARGETS and as Wayland offer() calls.
func (s *Source) AllMimes() []string {
	seen := make(map[string]struct{}, len(s.offers))
	out := make([]string, 0, len(s.offers))
	for _, o := range s.offers {
		for _, m := range o.MimeTypes {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

// Lookup returns the content for the first offer whose MimeTypes contains an
// exact, case-sensitive match for mime. When several offers claim the same
// MIME, the first offer in order wins.
func (s *Source) Lookup(mime string) ([]byte, bool) {
	for _, o := range s.offers {
		for _, m := range o.MimeTypes {
			if m == mime {
				return o.Content, true
			}
		}
	}
	return nil, false
}

// OneShot builds a single-offer Source from raw stdin bytes. When mimeTypes
// is empty, DefaultOneShotMimes is used instead.
func OneShot(mimeTypes []string, content []byte) *Source {
	if len(mimeTypes) == 0 {
		mimeTypes = append([]string(nil), DefaultOneShotMimes...)
	}
	s := New()
	s.Add(mimeTypes, content)
	return s.Freeze()
}

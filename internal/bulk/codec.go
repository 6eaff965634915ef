// Package bulk implements the framed multi-MIME wire protocol that carries
// several (MIME, content) offers on a single input stream, as read by
// `richclip copy` and written by producers such as the neovim-side client.
//
// Wire format:
//
//	[Magic:4 = 0x20 0x09 0x02 0x14]
//	[Version:1 = 0x00]
//	repeat:
//	  [SectionType:1 in {'M','C'}]
//	  [SectionLength:4, big-endian uint32]
//	  [SectionData:SectionLength bytes]
package bulk

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/labi-le/richclip/internal/clipsource"
	"github.com/labi-le/richclip/internal/rcerrors"
)

var (
	magic          = [4]byte{0x20, 0x09, 0x02, 0x14}
	currentVersion = byte(0x00)
)

const (
	sectionMime    = 'M'
	sectionContent = 'C'
)

// decodeState is the stream decoder's state machine: fixed transitions keep
// it testable without any display connection.
type decodeState int

const (
	expectHeader decodeState = iota
	expectSectionType
	expectLength
	expectMimeBody
	expectContentBody
)

// Decode parses a bulk stream into a frozen clipsource.Source. EOF exactly
// at a section boundary ends parsing successfully; EOF inside a section
// returns ErrTruncated. Trailing 'M' sections with no following 'C' are
// discarded silently.
func Decode(r io.Reader) (*clipsource.Source, error) {
	src := clipsource.New()

	state := expectHeader
	var pendingMimes []string
	var sectionType byte
	var sectionLen uint32

	for {
		switch state {
		case expectHeader:
			var hdr [5]byte
			if _, err := io.ReadFull(r, hdr[:]); err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
					return nil, fmt.Errorf("bulk: read header: %w", rcerrors.ErrTruncated)
				}
				return nil, fmt.Errorf("bulk: read header: %w", err)
			}
			if [4]byte(hdr[:4]) != magic {
				return nil, rcerrors.ErrBadMagic
			}
			if hdr[4] != currentVersion {
				return nil, rcerrors.ErrBadVersion
			}
			state = expectSectionType

		case expectSectionType:
			var b [1]byte
			n, err := io.ReadFull(r, b[:])
			if n == 0 && errors.Is(err, io.EOF) {
				// Clean end-of-stream at a section boundary.
				return src.Freeze(), nil
			}
			if err != nil {
				return nil, fmt.Errorf("bulk: read section type: %w", rcerrors.ErrTruncated)
			}
			sectionType = b[0]
			if sectionType != sectionMime && sectionType != sectionContent {
				return nil, fmt.Errorf("%w: unknown section type %q", rcerrors.ErrProtocol, sectionType)
			}
			state = expectLength

		case expectLength:
			var lenBuf [4]byte
			if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
				return nil, fmt.Errorf("bulk: read section length: %w", rcerrors.ErrTruncated)
			}
			sectionLen = binary.BigEndian.Uint32(lenBuf[:])
			if sectionType == sectionMime {
				state = expectMimeBody
			} else {
				state = expectContentBody
			}

		case expectMimeBody:
			body := make([]byte, sectionLen)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("bulk: read mime section: %w", rcerrors.ErrTruncated)
			}
			pendingMimes = append(pendingMimes, string(body))
			state = expectSectionType

		case expectContentBody:
			if len(pendingMimes) == 0 {
				return nil, fmt.Errorf("%w: content section with no preceding mime section", rcerrors.ErrProtocol)
			}
			body := make([]byte, sectionLen)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("bulk: read content section: %w", rcerrors.ErrTruncated)
			}
			src.Add(pendingMimes, body)
			pendingMimes = nil
			state = expectSectionType
		}
	}
}

// Encode serializes a source into the bulk wire format. It is the inverse
// of Decode and exists to build test fixtures and to let producers written
// in Go reuse this codec.
func Encode(src *clipsource.Source) ([]byte, error) {
	var buf []byte
	buf = append(buf, magic[:]...)
	buf = append(buf, currentVersion)

	for _, offer := range src.Offers() {
		for _, m := range offer.MimeTypes {
			buf = appendSection(buf, sectionMime, []byte(m))
		}
		buf = appendSection(buf, sectionContent, offer.Content)
	}

	return buf, nil
}

// EncodeTo writes the bulk wire format for src directly to w.
func EncodeTo(w io.Writer, src *clipsource.Source) error {
	data, err := Encode(src)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func appendSection(buf []byte, typ byte, data []byte) []byte {
	buf = append(buf, typ)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, data...)
	return buf
}

package bulk_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/labi-le/richclip/internal/bulk"
	"github.com/labi-le/richclip/internal/clipsource"
	"github.com/labi-le/richclip/internal/rcerrors"
)

func section(typ byte, data []byte) []byte {
	var out []byte
	out = append(out, typ)
	n := uint32(len(data))
	lenBuf := [4]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
	out = append(out, lenBuf[:]...)
	out = append(out, data...)
	return out
}

func rawStream(sections ...[]byte) []byte {
	out := []byte{0x20, 0x09, 0x02, 0x14, 0x00}
	for _, s := range sections {
		out = append(out, s...)
	}
	return out
}

func TestDecode_TwoMimeOffers(t *testing.T) {
	stream := rawStream(
		section('M', []byte("text/plain")),
		section('C', []byte("GOOD")),
		section('M', []byte("text/html")),
		section('C', []byte("BAD")),
	)

	src, err := bulk.Decode(bytes.NewReader(stream))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	got, ok := src.Lookup("text/plain")
	if !ok || string(got) != "GOOD" {
		t.Errorf("Lookup(text/plain) = %q, %v", got, ok)
	}

	got, ok = src.Lookup("text/html")
	if !ok || string(got) != "BAD" {
		t.Errorf("Lookup(text/html) = %q, %v", got, ok)
	}

	if diff := cmp.Diff([]string{"text/plain", "text/html"}, src.AllMimes()); diff != "" {
		t.Errorf("AllMimes() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_TrailingMimeDiscarded(t *testing.T) {
	stream := rawStream(
		section('M', []byte("text/plain")),
		section('C', []byte("hello")),
		section('M', []byte("text/html")),
	)

	src, err := bulk.Decode(bytes.NewReader(stream))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if src.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", src.Len())
	}
	if _, ok := src.Lookup("text/html"); ok {
		t.Error("dangling M section published content, want it discarded")
	}
}

func TestDecode_BadMagic(t *testing.T) {
	stream := append([]byte{0x00, 0x00, 0x00, 0x00, 0x00}, section('M', []byte("x"))...)

	_, err := bulk.Decode(bytes.NewReader(stream))
	if !errors.Is(err, rcerrors.ErrBadMagic) {
		t.Errorf("Decode() error = %v, want ErrBadMagic", err)
	}
}

func TestDecode_BadVersion(t *testing.T) {
	stream := []byte{0x20, 0x09, 0x02, 0x14, 0x01}

	_, err := bulk.Decode(bytes.NewReader(stream))
	if !errors.Is(err, rcerrors.ErrBadVersion) {
		t.Errorf("Decode() error = %v, want ErrBadVersion", err)
	}
}

func TestDecode_TruncatedMidSection(t *testing.T) {
	full := rawStream(section('M', []byte("text/plain")), section('C', []byte("hello")))
	truncated := full[:len(full)-2]

	_, err := bulk.Decode(bytes.NewReader(truncated))
	if !errors.Is(err, rcerrors.ErrTruncated) {
		t.Errorf("Decode() error = %v, want ErrTruncated", err)
	}
}

func TestDecode_ContentWithoutMime(t *testing.T) {
	stream := rawStream(section('C', []byte("orphan")))

	_, err := bulk.Decode(bytes.NewReader(stream))
	if !errors.Is(err, rcerrors.ErrProtocol) {
		t.Errorf("Decode() error = %v, want ErrProtocol", err)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	src := clipsource.New()
	src.Add([]string{"text/plain", "TEXT"}, []byte("payload one"))
	src.Add([]string{"image/png"}, bytes.Repeat([]byte{0xAB}, 1024))
	src.Freeze()

	encoded, err := bulk.Encode(src)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	decoded, err := bulk.Decode(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if diff := cmp.Diff(src.Offers(), decoded.Offers()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

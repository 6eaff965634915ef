// Package rcerrors collects the sentinel errors shared across richclip's
// codec, selection backends and dispatcher, so callers can branch with
// errors.Is instead of string matching.
package rcerrors

import "errors"

var (
	// ErrBadMagic is returned by the bulk codec when the stream does not
	// start with the expected 4-byte magic.
	ErrBadMagic = errors.New("richclip: bad bulk stream magic")
	// ErrBadVersion is returned when the bulk stream declares an unknown
	// protocol version.
	ErrBadVersion = errors.New("richclip: unsupported bulk stream version")
	// ErrTruncated is returned when EOF is hit in the middle of a section.
	ErrTruncated = errors.New("richclip: truncated bulk stream")

	// ErrNoDisplay is returned by the dispatcher when neither a Wayland nor
	// an X11 display handle can be found and the platform is not macOS.
	ErrNoDisplay = errors.New("richclip: no X11, Wayland or macOS display found")

	// ErrOwnershipDenied is returned by the X11 owner when SetSelectionOwner
	// is not reflected by a subsequent GetSelectionOwner.
	ErrOwnershipDenied = errors.New("richclip: selection ownership denied")

	// ErrProtocol covers malformed or unexpected X11/Wayland protocol
	// traffic that aborts the current operation only.
	ErrProtocol = errors.New("richclip: protocol error")

	// ErrIO covers stdin/stdout/fd failures.
	ErrIO = errors.New("richclip: i/o error")

	// ErrNoSuchMime is returned when a paste -t request names a MIME the
	// selection does not advertise. Callers must treat it as exit code 0
	// with empty output, not a failure.
	ErrNoSuchMime = errors.New("richclip: requested mime type not offered")

	// ErrTimeout marks an abandoned INCR transfer. It never aborts the
	// owner — only the one transfer is dropped.
	ErrTimeout = errors.New("richclip: incr transfer timed out")

	// ErrSelectionLost is returned when SelectionClear (X11) or cancelled
	// (Wayland) ends ownership. Normal termination, not a failure.
	ErrSelectionLost = errors.New("richclip: selection ownership lost")
)

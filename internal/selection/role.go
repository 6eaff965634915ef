// Package selection defines the cross-backend contracts (ClipboardSink /
// ClipboardSource) and the platform dispatcher that picks an X11, Wayland
// or macOS implementation of them.
package selection

// Role distinguishes the regular clipboard from the auxiliary primary
// selection. Regular maps to X11 CLIPBOARD / Wayland wl_data_device; Primary
// maps to X11 PRIMARY / Wayland zwp_primary_selection_device_manager_v1.
type Role int

const (
	Regular Role = iota
	Primary
)

func (r Role) String() string {
	switch r {
	case Primary:
		return "primary"
	default:
		return "regular"
	}
}

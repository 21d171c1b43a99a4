package controller

import "fmt"

// Kind identifies a remote resource family on the controller.
type Kind string

const (
	// KindSite is the campus site resource.
	KindSite Kind = "site"
	// KindDevice is the managed network device resource.
	KindDevice Kind = "device"
)

// ParseKind converts a string into a Kind, accepting singular and plural forms.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "site", "sites":
		return KindSite, nil
	case "device", "devices":
		return KindDevice, nil
	default:
		return "", fmt.Errorf("unknown object kind %q (expected site or device)", s)
	}
}

// Valid reports whether the kind is one of the supported resource families.
func (k Kind) Valid() bool {
	return k == KindSite || k == KindDevice
}

// String returns the kind name.
func (k Kind) String() string { return string(k) }

// CollectionPath returns the controller API path for the kind's collection.
func (k Kind) CollectionPath() string {
	switch k {
	case KindSite:
		return "/controller/campus/v3/sites"
	case KindDevice:
		return "/controller/campus/v3/devices"
	default:
		return ""
	}
}

// envelopeKey is the key wrapping object lists in create payloads,
// e.g. {"sites": [...]} or {"devices": [...]}.
func (k Kind) envelopeKey() string {
	switch k {
	case KindSite:
		return "sites"
	case KindDevice:
		return "devices"
	default:
		return ""
	}
}

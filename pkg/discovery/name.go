package discovery

import (
	"strings"
)

// Name is a parsed discovery name.
type Name struct {
	Kind NameKind

	// Instance is set for NameKindInstance.
	Instance string

	// Host is set for NameKindHost, fully qualified with a trailing dot
	// as zeroconf reports it ("sensor.local.").
	Host string
}

// ParseName classifies name. Matching is case-insensitive and a trailing
// dot is ignored.
func ParseName(name string) (Name, error) {
	s := strings.TrimSuffix(name, ".")
	lower := strings.ToLower(s)

	trimmed := strings.TrimSuffix(lower, ".local")
	if strings.HasSuffix(trimmed, "."+ServiceCoAP) {
		n := len(trimmed) - len(ServiceCoAP) - 1
		if n == 0 {
			return Name{}, ErrInvalidName
		}
		return Name{Kind: NameKindInstance, Instance: s[:n]}, nil
	}

	if strings.HasSuffix(lower, ".local") && len(lower) > len(".local") {
		return Name{Kind: NameKindHost, Host: lower + "."}, nil
	}

	return Name{}, ErrInvalidName
}

// sameHost compares mDNS host names ignoring case and the trailing dot.
func sameHost(a, b string) bool {
	return strings.EqualFold(strings.TrimSuffix(a, "."), strings.TrimSuffix(b, "."))
}

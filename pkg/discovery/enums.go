// Package discovery finds CoAP endpoints advertised over DNS-SD (mDNS).
//
// A name such as "kitchen._coap._udp.local" resolves through an instance
// lookup; a host name such as "sensor.local" resolves by browsing
// "_coap._udp" and matching the advertised host. The Resolver satisfies
// transport.ServiceLookup and plugs into transport.Resolver.
package discovery

// DNS-SD service and domain strings.
const (
	// ServiceCoAP is the DNS-SD service type for CoAP over UDP (RFC 7252 §7).
	ServiceCoAP = "_coap._udp"

	// DefaultDomain is the default mDNS domain.
	DefaultDomain = "local."
)

// NameKind classifies a discovery name.
type NameKind int

// NameKind constants.
const (
	// NameKindUnknown represents a name discovery cannot resolve.
	NameKindUnknown NameKind = iota

	// NameKindInstance is a service instance: "<instance>._coap._udp[.local]".
	NameKindInstance

	// NameKindHost is a multicast DNS host name: "<host>.local".
	NameKindHost
)

// String returns a human-readable string for the name kind.
func (k NameKind) String() string {
	switch k {
	case NameKindInstance:
		return "Instance"
	case NameKindHost:
		return "Host"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the name kind is valid.
func (k NameKind) IsValid() bool {
	return k == NameKindInstance || k == NameKindHost
}

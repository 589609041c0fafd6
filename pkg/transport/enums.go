package transport

// Family identifies the address family of a candidate endpoint.
type Family int

const (
	// FamilyUnknown is the zero value for an unset address.
	FamilyUnknown Family = iota
	// FamilyIPv4 indicates an IPv4 endpoint.
	FamilyIPv4
	// FamilyIPv6 indicates an IPv6 endpoint.
	FamilyIPv6
)

// String returns the string representation of the family.
func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "IPv4"
	case FamilyIPv6:
		return "IPv6"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the family is a known valid family.
func (f Family) IsValid() bool {
	return f == FamilyIPv4 || f == FamilyIPv6
}

// Source records how a candidate endpoint was obtained.
type Source int

const (
	// SourceUnknown is the zero value.
	SourceUnknown Source = iota
	// SourceLiteral means the host was already an IP address.
	SourceLiteral
	// SourceDNS means the host was resolved by a HostLookup.
	SourceDNS
	// SourceNet means the host was resolved by Net.ResolveUDPAddr.
	SourceNet
	// SourceDiscovery means the endpoint came from a DNS-SD lookup.
	SourceDiscovery
)

// String returns the string representation of the source.
func (s Source) String() string {
	switch s {
	case SourceLiteral:
		return "literal"
	case SourceDNS:
		return "dns"
	case SourceNet:
		return "net"
	case SourceDiscovery:
		return "dns-sd"
	default:
		return "unknown"
	}
}

package transport

import (
	"fmt"
	"net"
)

// Candidate is one resolved datagram endpoint for a remote host.
type Candidate struct {
	// Addr is the remote IP, zone and port.
	Addr *net.UDPAddr
	// Source records how the address was obtained.
	Source Source
}

// NewCandidate creates a candidate for addr.
func NewCandidate(addr *net.UDPAddr, source Source) Candidate {
	return Candidate{Addr: addr, Source: source}
}

// Family returns the address family of the candidate.
func (c Candidate) Family() Family {
	if c.Addr == nil || c.Addr.IP == nil {
		return FamilyUnknown
	}
	if c.Addr.IP.To4() != nil {
		return FamilyIPv4
	}
	if len(c.Addr.IP) == net.IPv6len {
		return FamilyIPv6
	}
	return FamilyUnknown
}

// Network returns the socket network name for the candidate's family.
func (c Candidate) Network() string {
	if c.Family() == FamilyIPv6 {
		return "udp6"
	}
	return "udp4"
}

// ListenAddress returns the unspecified local address, with an ephemeral
// port, of the candidate's family.
func (c Candidate) ListenAddress() string {
	if c.Family() == FamilyIPv6 {
		return "[::]:0"
	}
	return "0.0.0.0:0"
}

// IsValid returns true if the candidate has a usable address.
func (c Candidate) IsValid() bool {
	return c.Family().IsValid() && c.Addr.Port > 0 && c.Addr.Port <= 0xFFFF
}

// String returns a human-readable representation of the candidate.
func (c Candidate) String() string {
	if c.Addr == nil {
		return fmt.Sprintf("%s:<nil>", c.Source)
	}
	return fmt.Sprintf("%s:%s", c.Source, c.Addr)
}

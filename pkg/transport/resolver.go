package transport

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/pion/logging"
)

// HostLookup resolves a host name to IP addresses. *net.Resolver satisfies it.
type HostLookup interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// ServiceLookup finds CoAP endpoints advertised over DNS-SD.
// The discovery package provides the zeroconf-backed implementation.
type ServiceLookup interface {
	// LookupService resolves a service instance or .local host name.
	// Returned addresses carry the advertised port.
	LookupService(ctx context.Context, name string) ([]*net.UDPAddr, error)
}

// ResolverConfig configures a Resolver.
type ResolverConfig struct {
	// Net resolves names when Lookup is nil. Required in that case.
	Net Net

	// Lookup resolves host names. Typically net.DefaultResolver.
	Lookup HostLookup

	// Discovery, when set, handles "._coap._udp" instance names and
	// ".local" hosts.
	Discovery ServiceLookup

	// LoggerFactory is the factory for creating loggers.
	// If nil, logging is disabled.
	LoggerFactory logging.LoggerFactory
}

// Resolver turns a host/port pair into an ordered list of candidates.
// Nothing is cached: every call resolves afresh.
type Resolver struct {
	net       Net
	lookup    HostLookup
	discovery ServiceLookup
	log       logging.LeveledLogger
}

// NewResolver creates a resolver.
// With neither Net nor Lookup configured, net.DefaultResolver is used.
func NewResolver(config ResolverConfig) *Resolver {
	r := &Resolver{
		net:       config.Net,
		lookup:    config.Lookup,
		discovery: config.Discovery,
	}
	if r.net == nil && r.lookup == nil {
		r.lookup = net.DefaultResolver
	}
	if config.LoggerFactory != nil {
		r.log = config.LoggerFactory.NewLogger("transport")
	}
	return r
}

// Resolve returns the candidates for host and port in resolution order.
// Duplicate addresses are dropped. An empty result is an error wrapping
// ErrResolve.
func (r *Resolver) Resolve(ctx context.Context, host string, port uint16) ([]Candidate, error) {
	if host == "" {
		return nil, fmt.Errorf("%w: empty host", ErrResolve)
	}
	if port == 0 {
		return nil, fmt.Errorf("%w %q: port 0", ErrResolve, host)
	}

	cands, err := r.resolve(ctx, host, port)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrResolve, host, err)
	}
	if len(cands) == 0 {
		return nil, fmt.Errorf("%w %q: no addresses", ErrResolve, host)
	}

	if r.log != nil {
		r.log.Debugf("resolved %s to %d candidate(s), first %s", host, len(cands), cands[0])
	}
	return cands, nil
}

func (r *Resolver) resolve(ctx context.Context, host string, port uint16) ([]Candidate, error) {
	if ip, zone, ok := parseLiteral(host); ok {
		addr := &net.UDPAddr{IP: ip, Zone: zone, Port: int(port)}
		return []Candidate{NewCandidate(addr, SourceLiteral)}, nil
	}

	if r.discovery != nil && IsDiscoveryName(host) {
		addrs, err := r.discovery.LookupService(ctx, host)
		if err != nil {
			return nil, err
		}
		var out []Candidate
		for _, a := range addrs {
			addr := *a
			if addr.Port == 0 {
				addr.Port = int(port)
			}
			out = appendUnique(out, NewCandidate(&addr, SourceDiscovery))
		}
		return out, nil
	}

	if r.lookup != nil {
		ips, err := r.lookup.LookupIPAddr(ctx, host)
		if err != nil {
			return nil, err
		}
		var out []Candidate
		for _, ip := range ips {
			addr := &net.UDPAddr{IP: ip.IP, Zone: ip.Zone, Port: int(port)}
			out = appendUnique(out, NewCandidate(addr, SourceDNS))
		}
		return out, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	addr, err := r.net.ResolveUDPAddr("udp", net.JoinHostPort(host, strconv.Itoa(int(port))))
	if err != nil {
		return nil, err
	}
	return []Candidate{NewCandidate(addr, SourceNet)}, nil
}

// IsDiscoveryName reports whether host names a DNS-SD service instance
// ("<instance>._coap._udp[.local]") or a multicast DNS host ("*.local").
func IsDiscoveryName(host string) bool {
	h := strings.TrimSuffix(strings.ToLower(host), ".")
	return strings.HasSuffix(h, "._coap._udp") ||
		strings.HasSuffix(h, ".local")
}

// parseLiteral accepts IPv4, IPv6 and zoned IPv6 ("fe80::1%eth0") literals,
// optionally in brackets.
func parseLiteral(host string) (net.IP, string, bool) {
	h := strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	zone := ""
	if i := strings.LastIndexByte(h, '%'); i >= 0 {
		h, zone = h[:i], h[i+1:]
	}
	ip := net.ParseIP(h)
	if ip == nil {
		return nil, "", false
	}
	if zone != "" && ip.To4() != nil {
		return nil, "", false
	}
	return ip, zone, true
}

func appendUnique(list []Candidate, c Candidate) []Candidate {
	for _, existing := range list {
		if existing.Addr.IP.Equal(c.Addr.IP) && existing.Addr.Zone == c.Addr.Zone && existing.Addr.Port == c.Addr.Port {
			return list
		}
	}
	return append(list, c)
}

package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/pion/logging"
)

// DefaultBrowseTimeout is the default timeout for browse operations.
const DefaultBrowseTimeout = 3 * time.Second

// DefaultLookupTimeout is the default timeout for lookup operations.
const DefaultLookupTimeout = 2 * time.Second

// ResolvedService contains information about a discovered CoAP service.
type ResolvedService struct {
	// InstanceName is the DNS-SD instance name.
	InstanceName string

	// HostName is the target host name.
	HostName string

	// Port is the service port.
	Port int

	// IPs contains the resolved IP addresses, sorted by preference.
	IPs []net.IP

	// Text contains the TXT record key-value pairs.
	Text map[string]string
}

// PreferredIP returns the most preferred IP address (first in the sorted list).
// Returns nil if no addresses are available.
func (r *ResolvedService) PreferredIP() net.IP {
	if len(r.IPs) > 0 {
		return r.IPs[0]
	}
	return nil
}

// UDPAddrs returns one UDP address per IP, in preference order.
func (r *ResolvedService) UDPAddrs() []*net.UDPAddr {
	out := make([]*net.UDPAddr, 0, len(r.IPs))
	for _, ip := range r.IPs {
		out = append(out, &net.UDPAddr{IP: ip, Port: r.Port})
	}
	return out
}

// MDNSResolver is the interface for mDNS service resolution.
// This allows for dependency injection in tests.
//
// Implementations follow grandcat/zeroconf: the calls return once the
// query is sent, deliver results on entries, and close entries after ctx
// is done. Callers must drain entries until it is closed.
type MDNSResolver interface {
	// Browse browses for services of the given type.
	Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error

	// Lookup looks up a specific service instance.
	Lookup(ctx context.Context, instance, service, domain string, entries chan<- *zeroconf.ServiceEntry) error
}

// zeroconfResolver is the production implementation using grandcat/zeroconf.
// A zeroconf.Resolver shuts its sockets down when a query's context ends,
// so one is created per query.
type zeroconfResolver struct {
	opts []zeroconf.ClientOption
}

func (z *zeroconfResolver) Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error {
	r, err := zeroconf.NewResolver(z.opts...)
	if err != nil {
		return err
	}
	return r.Browse(ctx, service, domain, entries)
}

func (z *zeroconfResolver) Lookup(ctx context.Context, instance, service, domain string, entries chan<- *zeroconf.ServiceEntry) error {
	r, err := zeroconf.NewResolver(z.opts...)
	if err != nil {
		return err
	}
	return r.Lookup(ctx, instance, service, domain, entries)
}

// ResolverConfig holds configuration for the Resolver.
type ResolverConfig struct {
	// MDNSResolver is the underlying mDNS resolver implementation.
	// If nil, the default zeroconf resolver is used.
	MDNSResolver MDNSResolver

	// BrowseTimeout is the timeout for browse operations.
	// If zero, DefaultBrowseTimeout is used.
	BrowseTimeout time.Duration

	// LookupTimeout is the timeout for lookup operations.
	// If zero, DefaultLookupTimeout is used.
	LookupTimeout time.Duration

	// ClientOptions configure the default zeroconf resolver, for example
	// zeroconf.SelectIfaces. Ignored when MDNSResolver is set.
	ClientOptions []zeroconf.ClientOption

	// LoggerFactory is the factory for creating loggers.
	// If nil, logging is disabled.
	LoggerFactory logging.LoggerFactory
}

// Resolver discovers CoAP services via DNS-SD.
type Resolver struct {
	config   ResolverConfig
	resolver MDNSResolver
	log      logging.LeveledLogger
}

// NewResolver creates a new Resolver with the given configuration.
func NewResolver(config ResolverConfig) *Resolver {
	resolver := config.MDNSResolver
	if resolver == nil {
		resolver = &zeroconfResolver{opts: config.ClientOptions}
	}

	if config.BrowseTimeout == 0 {
		config.BrowseTimeout = DefaultBrowseTimeout
	}
	if config.LookupTimeout == 0 {
		config.LookupTimeout = DefaultLookupTimeout
	}

	r := &Resolver{
		config:   config,
		resolver: resolver,
	}
	if config.LoggerFactory != nil {
		r.log = config.LoggerFactory.NewLogger("discovery")
	}
	return r
}

// Browse discovers "_coap._udp" services on the local network.
// The returned channel receives services until the context is cancelled
// or the browse timeout expires, then closes.
func (r *Resolver) Browse(ctx context.Context) (<-chan ResolvedService, error) {
	// Apply browse timeout if context doesn't have a deadline
	cancel := context.CancelFunc(func() {})
	if _, ok := ctx.Deadline(); !ok {
		ctx, cancel = context.WithTimeout(ctx, r.config.BrowseTimeout)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	if err := r.resolver.Browse(ctx, ServiceCoAP, DefaultDomain, entries); err != nil {
		cancel()
		return nil, fmt.Errorf("discovery: browse %s: %w", ServiceCoAP, err)
	}

	results := make(chan ResolvedService)
	go func() {
		defer close(results)
		defer cancel()

		for entry := range entries {
			if entry == nil || ctx.Err() != nil {
				continue
			}
			select {
			case results <- entryToResolvedService(entry):
			case <-ctx.Done():
			}
		}
	}()

	return results, nil
}

// Lookup looks up a "_coap._udp" service instance by name.
func (r *Resolver) Lookup(ctx context.Context, instanceName string) (*ResolvedService, error) {
	if instanceName == "" {
		return nil, ErrInvalidName
	}

	// Apply lookup timeout if context doesn't have a deadline
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.LookupTimeout)
		defer cancel()
	}
	parent := ctx
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	entries := make(chan *zeroconf.ServiceEntry)
	if err := r.resolver.Lookup(ctx, instanceName, ServiceCoAP, DefaultDomain, entries); err != nil {
		return nil, fmt.Errorf("discovery: lookup %s: %w", instanceName, err)
	}

	var found *ResolvedService
	for entry := range entries {
		if entry == nil || found != nil {
			continue
		}
		svc := entryToResolvedService(entry)
		found = &svc
		stop()
	}
	if found != nil {
		return found, nil
	}

	switch err := parent.Err(); {
	case errors.Is(err, context.DeadlineExceeded):
		return nil, ErrTimeout
	case err != nil:
		return nil, err
	}
	return nil, ErrServiceNotFound
}

// LookupHost browses for the first "_coap._udp" service advertised by
// host ("sensor.local").
func (r *Resolver) LookupHost(ctx context.Context, host string) (*ResolvedService, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	services, err := r.Browse(ctx)
	if err != nil {
		return nil, err
	}

	var found *ResolvedService
	for svc := range services {
		if found == nil && sameHost(svc.HostName, host) {
			found = &svc
			cancel()
		}
	}
	if found != nil {
		return found, nil
	}
	return nil, ErrServiceNotFound
}

// LookupService resolves an instance name or .local host to the UDP
// addresses of its CoAP service. It satisfies transport.ServiceLookup.
func (r *Resolver) LookupService(ctx context.Context, name string) ([]*net.UDPAddr, error) {
	parsed, err := ParseName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, name)
	}

	var svc *ResolvedService
	switch parsed.Kind {
	case NameKindInstance:
		svc, err = r.Lookup(ctx, parsed.Instance)
	case NameKindHost:
		svc, err = r.LookupHost(ctx, parsed.Host)
	}
	if err != nil {
		return nil, err
	}

	if len(svc.IPs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoAddresses, svc.InstanceName)
	}
	if r.log != nil {
		r.log.Debugf("%s resolved to %s on %s port %d", name, svc.InstanceName, svc.HostName, svc.Port)
	}
	return svc.UDPAddrs(), nil
}

// entryToResolvedService converts a zeroconf.ServiceEntry to ResolvedService.
func entryToResolvedService(entry *zeroconf.ServiceEntry) ResolvedService {
	var allIPs []net.IP
	allIPs = append(allIPs, entry.AddrIPv6...)
	allIPs = append(allIPs, entry.AddrIPv4...)

	return ResolvedService{
		InstanceName: entry.Instance,
		HostName:     entry.HostName,
		Port:         entry.Port,
		IPs:          SortIPsByPreference(allIPs),
		Text:         ParseTXT(entry.Text),
	}
}

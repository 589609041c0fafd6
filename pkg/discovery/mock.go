package discovery

import (
	"context"
	"net"
	"sync"

	"github.com/grandcat/zeroconf"
)

// MockMDNSResolver provides a mock mDNS resolver for testing without real network I/O.
// It replays registered services and, like zeroconf, closes the entries
// channel once the query context is done.
type MockMDNSResolver struct {
	mu       sync.RWMutex
	services map[string][]*zeroconf.ServiceEntry
	queries  int
}

// NewMockMDNSResolver creates a new mock resolver.
func NewMockMDNSResolver() *MockMDNSResolver {
	return &MockMDNSResolver{
		services: make(map[string][]*zeroconf.ServiceEntry),
	}
}

// RegisterService registers a service that will be returned by Browse/Lookup.
func (m *MockMDNSResolver) RegisterService(service string, entry *zeroconf.ServiceEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.services[service] = append(m.services[service], entry)
}

// ClearServices removes all registered services.
func (m *MockMDNSResolver) ClearServices() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.services = make(map[string][]*zeroconf.ServiceEntry)
}

// Queries returns the number of Browse and Lookup calls made.
func (m *MockMDNSResolver) Queries() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.queries
}

func (m *MockMDNSResolver) snapshot(service string) []*zeroconf.ServiceEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++
	return append([]*zeroconf.ServiceEntry(nil), m.services[service]...)
}

// Browse implements MDNSResolver.
func (m *MockMDNSResolver) Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error {
	go m.replay(ctx, m.snapshot(service), "", entries)
	return nil
}

// Lookup implements MDNSResolver.
func (m *MockMDNSResolver) Lookup(ctx context.Context, instance, service, domain string, entries chan<- *zeroconf.ServiceEntry) error {
	go m.replay(ctx, m.snapshot(service), instance, entries)
	return nil
}

func (m *MockMDNSResolver) replay(ctx context.Context, svcEntries []*zeroconf.ServiceEntry, instance string, entries chan<- *zeroconf.ServiceEntry) {
	defer close(entries)
	for _, entry := range svcEntries {
		if instance != "" && entry.Instance != instance {
			continue
		}
		select {
		case entries <- entry:
		case <-ctx.Done():
			return
		}
	}
	<-ctx.Done()
}

// MockCoAPService creates a "_coap._udp" service entry for testing.
func MockCoAPService(instance, host string, port int, ips ...net.IP) *zeroconf.ServiceEntry {
	entry := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{
			Instance: instance,
			Service:  ServiceCoAP,
			Domain:   DefaultDomain,
		},
		HostName: host,
		Port:     port,
		TTL:      120,
	}
	for _, ip := range ips {
		if ip.To4() != nil {
			entry.AddrIPv4 = append(entry.AddrIPv4, ip)
		} else {
			entry.AddrIPv6 = append(entry.AddrIPv6, ip)
		}
	}
	return entry
}

var _ MDNSResolver = (*MockMDNSResolver)(nil)

package discovery

import (
	"net"
	"sort"
)

// SortIPsByPreference orders addresses for unicast CoAP, best first:
//  1. Global unicast IPv6
//  2. Global unicast IPv4
//  3. Unique local IPv6 (fc00::/7) and private IPv4
//  4. Link-local IPv6 (fe80::/10), usable only with a zone
//  5. Everything else, then loopback, then multicast
//
// The input slice is not modified.
func SortIPsByPreference(ips []net.IP) []net.IP {
	if len(ips) <= 1 {
		return ips
	}

	sorted := make([]net.IP, len(ips))
	copy(sorted, ips)

	sort.SliceStable(sorted, func(i, j int) bool {
		return ipPriority(sorted[i]) < ipPriority(sorted[j])
	})

	return sorted
}

// ipPriority returns the priority of an IP address (lower is better).
func ipPriority(ip net.IP) int {
	if ip.To16() == nil {
		return 99
	}

	switch {
	case ip.IsLoopback():
		return 80
	case ip.IsMulticast():
		return 90
	case ip.To4() != nil:
		if ip.IsPrivate() {
			return 2
		}
		if ip.IsGlobalUnicast() {
			return 1
		}
		return 10
	case isUniqueLocal(ip):
		return 2
	case ip.IsGlobalUnicast():
		return 0
	case ip.IsLinkLocalUnicast():
		return 3
	}
	return 10
}

// isUniqueLocal returns true if the IP is an IPv6 Unique Local Address.
func isUniqueLocal(ip net.IP) bool {
	if ip.To4() != nil {
		return false
	}
	ip = ip.To16()
	if ip == nil {
		return false
	}
	return ip[0] == 0xfc || ip[0] == 0xfd
}

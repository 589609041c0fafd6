// Package transport turns host/port pairs into datagram endpoints and owns
// the sockets used to reach them.
//
// Socket creation goes through the Net interface so the same code runs on
// the host network stack (pion stdnet) and on a pion vnet virtual network.
package transport

import (
	"net"

	"github.com/pion/transport/v3/stdnet"
)

// Net is the part of a pion transport.Net this package needs.
// Both *stdnet.Net and *vnet.Net satisfy it.
type Net interface {
	ListenPacket(network, address string) (net.PacketConn, error)
	ResolveUDPAddr(network, address string) (*net.UDPAddr, error)
}

// NewStdNet returns a Net backed by the host network stack.
func NewStdNet() (*stdnet.Net, error) {
	return stdnet.NewNet()
}

package coaptest

import (
	"github.com/pion/logging"
	"github.com/pion/transport/v3/vnet"
)

// Addresses on the virtual network.
const (
	VirtualCIDR     = "10.0.0.0/24"
	VirtualClientIP = "10.0.0.2"
	VirtualServerIP = "10.0.0.3"
	VirtualHostName = "coap.test"
)

// VirtualNetwork is a pion vnet router with a client and a server host.
// VirtualHostName resolves to the server on the router's resolver.
type VirtualNetwork struct {
	Router *vnet.Router
	Client *vnet.Net
	Server *vnet.Net
}

// NewVirtualNetwork creates and starts a virtual network.
func NewVirtualNetwork(loggerFactory logging.LoggerFactory) (*VirtualNetwork, error) {
	router, err := vnet.NewRouter(&vnet.RouterConfig{
		CIDR:          VirtualCIDR,
		LoggerFactory: loggerFactory,
	})
	if err != nil {
		return nil, err
	}

	client, err := vnet.NewNet(&vnet.NetConfig{StaticIPs: []string{VirtualClientIP}})
	if err != nil {
		return nil, err
	}
	server, err := vnet.NewNet(&vnet.NetConfig{StaticIPs: []string{VirtualServerIP}})
	if err != nil {
		return nil, err
	}

	if err := router.AddNet(client); err != nil {
		return nil, err
	}
	if err := router.AddNet(server); err != nil {
		return nil, err
	}
	if err := router.AddHost(VirtualHostName, VirtualServerIP); err != nil {
		return nil, err
	}
	if err := router.Start(); err != nil {
		return nil, err
	}

	return &VirtualNetwork{Router: router, Client: client, Server: server}, nil
}

// DropWhere discards datagrams whose payload satisfies drop.
func (v *VirtualNetwork) DropWhere(drop func(data []byte) bool) {
	v.Router.AddChunkFilter(func(c vnet.Chunk) bool {
		return !drop(c.UserData())
	})
}

// Close stops the router.
func (v *VirtualNetwork) Close() error {
	return v.Router.Stop()
}

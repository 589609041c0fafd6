package transport

import (
	"math/rand/v2"
	"net"
	"sync"
	"time"
)

// NetworkCondition configures adverse network behaviour for outgoing
// datagrams. Use it to exercise retry and matching logic.
type NetworkCondition struct {
	// DropRate is the probability of dropping a datagram (0.0 - 1.0).
	DropRate float64

	// DropFirst drops this many datagrams before DropRate applies.
	DropFirst int

	// DelayMin is the minimum delay to add to each datagram.
	DelayMin time.Duration

	// DelayMax is the maximum delay to add to each datagram.
	// Actual delay is uniformly distributed between DelayMin and DelayMax.
	DelayMax time.Duration

	// DuplicateRate is the probability of sending a datagram twice (0.0 - 1.0).
	DuplicateRate float64
}

// LossyNet wraps a Net so that every socket it opens applies a
// NetworkCondition to its writes. Counters are shared by all sockets.
type LossyNet struct {
	inner Net

	mu        sync.Mutex
	condition NetworkCondition
	rng       *rand.Rand
	sent      int
	dropped   int
}

// NewLossyNet wraps inner. The seed makes the random choices reproducible.
func NewLossyNet(inner Net, cond NetworkCondition, seed uint64) *LossyNet {
	return &LossyNet{
		inner:     inner,
		condition: cond,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// SetCondition replaces the network condition.
func (n *LossyNet) SetCondition(cond NetworkCondition) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.condition = cond
}

// Condition returns the current network condition.
func (n *LossyNet) Condition() NetworkCondition {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.condition
}

// Stats returns the number of datagrams written and dropped so far.
func (n *LossyNet) Stats() (sent, dropped int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sent, n.dropped
}

// ListenPacket opens a socket on the inner Net and wraps it.
func (n *LossyNet) ListenPacket(network, address string) (net.PacketConn, error) {
	conn, err := n.inner.ListenPacket(network, address)
	if err != nil {
		return nil, err
	}
	return &lossyPacketConn{PacketConn: conn, net: n}, nil
}

// ResolveUDPAddr delegates to the inner Net.
func (n *LossyNet) ResolveUDPAddr(network, address string) (*net.UDPAddr, error) {
	return n.inner.ResolveUDPAddr(network, address)
}

// decide returns whether to drop, the delay to apply and whether to
// duplicate the next datagram.
func (n *LossyNet) decide() (drop bool, delay time.Duration, dup bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	cond := n.condition
	n.sent++

	if n.dropped < cond.DropFirst || (cond.DropRate > 0 && n.rng.Float64() < cond.DropRate) {
		n.dropped++
		return true, 0, false
	}

	if cond.DelayMax > 0 {
		delay = cond.DelayMin
		if cond.DelayMax > cond.DelayMin {
			delay += time.Duration(n.rng.Int64N(int64(cond.DelayMax - cond.DelayMin)))
		}
	}

	dup = cond.DuplicateRate > 0 && n.rng.Float64() < cond.DuplicateRate
	return false, delay, dup
}

type lossyPacketConn struct {
	net.PacketConn
	net *LossyNet
}

// WriteTo applies the network condition before writing.
// A dropped datagram still reports a full write.
func (c *lossyPacketConn) WriteTo(b []byte, addr net.Addr) (int, error) {
	drop, delay, dup := c.net.decide()
	if drop {
		return len(b), nil
	}
	if delay > 0 {
		time.Sleep(delay)
	}
	if dup {
		if _, err := c.PacketConn.WriteTo(b, addr); err != nil {
			return 0, err
		}
	}
	return c.PacketConn.WriteTo(b, addr)
}

var (
	_ Net            = (*LossyNet)(nil)
	_ net.PacketConn = (*lossyPacketConn)(nil)
)

package transport

import (
	"net"
	"sync"
	"time"

	"github.com/pion/logging"
)

// MaxDatagramSize is the largest datagram a Socket sends or receives.
const MaxDatagramSize = 1280

// Socket is a single-use datagram socket bound to one candidate endpoint.
// It lives for one exchange attempt: open, send once, receive once, close.
type Socket struct {
	conn   net.PacketConn
	remote *net.UDPAddr
	log    logging.LeveledLogger

	mu     sync.Mutex
	closed bool
}

// OpenSocket opens a socket on an ephemeral local port of the candidate's
// address family.
func OpenSocket(n Net, c Candidate, loggerFactory logging.LoggerFactory) (*Socket, error) {
	if !c.IsValid() {
		return nil, ErrInvalidAddress
	}

	conn, err := n.ListenPacket(c.Network(), c.ListenAddress())
	if err != nil {
		return nil, err
	}

	s := &Socket{
		conn:   conn,
		remote: c.Addr,
	}
	if loggerFactory != nil {
		s.log = loggerFactory.NewLogger("transport")
	}
	if s.log != nil {
		s.log.Tracef("opened %s socket %s for %s", c.Network(), conn.LocalAddr(), c.Addr)
	}
	return s, nil
}

// Send writes data to the candidate endpoint as one datagram.
// A partial write is reported as ErrShortWrite.
func (s *Socket) Send(data []byte) error {
	if s.isClosed() {
		return ErrClosed
	}
	if len(data) > MaxDatagramSize {
		return ErrMessageTooLarge
	}

	n, err := s.conn.WriteTo(data, s.remote)
	if err != nil {
		if s.log != nil {
			s.log.Warnf("send to %s failed: %v", s.remote, err)
		}
		return err
	}
	if n != len(data) {
		return ErrShortWrite
	}

	if s.log != nil {
		s.log.Debugf("sent %d bytes to %s", n, s.remote)
	}
	return nil
}

// SetReadDeadline bounds the wait of the next Receive.
func (s *Socket) SetReadDeadline(t time.Time) error {
	return s.conn.SetReadDeadline(t)
}

// Receive waits for one datagram and returns a copy of it along with the
// sender's address. The sender is not checked against the candidate
// endpoint. A passed read deadline yields a net.Error with Timeout() true.
func (s *Socket) Receive() ([]byte, net.Addr, error) {
	if s.isClosed() {
		return nil, nil, ErrClosed
	}

	// One spare byte lets the decoder see, and reject, oversized datagrams.
	buf := make([]byte, MaxDatagramSize+1)
	n, addr, err := s.conn.ReadFrom(buf)
	if err != nil {
		return nil, nil, err
	}

	if s.log != nil {
		s.log.Debugf("received %d bytes from %v", n, addr)
	}

	data := make([]byte, n)
	copy(data, buf[:n])
	return data, addr, nil
}

// Interrupt unblocks a pending Receive.
func (s *Socket) Interrupt() {
	s.conn.SetReadDeadline(time.Now())
}

// LocalAddr returns the local address of the socket.
func (s *Socket) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

// Close releases the socket. It is safe to call more than once.
func (s *Socket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	return s.conn.Close()
}

func (s *Socket) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

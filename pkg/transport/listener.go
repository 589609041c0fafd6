package transport

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/pion/logging"
)

// Listener is a datagram read loop. It calls the configured MessageHandler
// for every datagram received and can send replies from the same socket.
// The client never listens; Listener backs the test responder and the
// example light device.
type Listener struct {
	conn    net.PacketConn
	handler MessageHandler
	closeCh chan struct{}
	wg      sync.WaitGroup
	log     logging.LeveledLogger

	mu      sync.RWMutex
	started bool
	closed  bool
}

// ListenerConfig configures a Listener.
type ListenerConfig struct {
	// Conn is an optional pre-existing PacketConn to use.
	// If nil, a new connection is opened on Net at ListenAddr.
	Conn net.PacketConn

	// Net opens the connection when Conn is nil.
	// If nil, the host network stack is used.
	Net Net

	// ListenAddr is the address to listen on (e.g., "127.0.0.1:5683").
	// Ignored if Conn is provided.
	ListenAddr string

	// MessageHandler is called for each received datagram.
	// Required.
	MessageHandler MessageHandler

	// LoggerFactory is the factory for creating loggers.
	// If nil, logging is disabled.
	LoggerFactory logging.LoggerFactory
}

// NewListener creates a listener with the given configuration.
func NewListener(config ListenerConfig) (*Listener, error) {
	if config.MessageHandler == nil {
		return nil, ErrNoHandler
	}

	l := &Listener{
		conn:    config.Conn,
		handler: config.MessageHandler,
		closeCh: make(chan struct{}),
	}

	if config.LoggerFactory != nil {
		l.log = config.LoggerFactory.NewLogger("transport")
	}

	if l.conn == nil {
		addr := config.ListenAddr
		if addr == "" {
			addr = "127.0.0.1:0"
		}

		n := config.Net
		if n == nil {
			std, err := NewStdNet()
			if err != nil {
				return nil, err
			}
			n = std
		}

		conn, err := n.ListenPacket("udp4", addr)
		if err != nil {
			return nil, err
		}
		l.conn = conn
	}

	return l, nil
}

// Start begins the read loop.
func (l *Listener) Start() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	if l.started {
		l.mu.Unlock()
		return ErrAlreadyStarted
	}
	l.started = true
	l.mu.Unlock()

	if l.log != nil {
		l.log.Infof("listening on %s", l.conn.LocalAddr())
	}

	l.wg.Add(1)
	go l.readLoop()

	return nil
}

// Stop closes the listener and waits for the read loop to exit.
func (l *Listener) Stop() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.closed = true
	l.mu.Unlock()

	close(l.closeCh)

	// Unblock any pending read
	l.conn.SetReadDeadline(time.Now())
	l.conn.Close()
	l.wg.Wait()

	return nil
}

// Send writes data to addr.
func (l *Listener) Send(data []byte, addr net.Addr) error {
	l.mu.RLock()
	if l.closed {
		l.mu.RUnlock()
		return ErrClosed
	}
	l.mu.RUnlock()

	if addr == nil {
		return ErrInvalidAddress
	}
	if len(data) > MaxDatagramSize {
		return ErrMessageTooLarge
	}

	if _, err := l.conn.WriteTo(data, addr); err != nil {
		if l.log != nil {
			l.log.Warnf("send to %v failed: %v", addr, err)
		}
		return err
	}
	return nil
}

// LocalAddr returns the local address the listener is bound to.
func (l *Listener) LocalAddr() net.Addr {
	return l.conn.LocalAddr()
}

func (l *Listener) readLoop() {
	defer l.wg.Done()

	buf := make([]byte, MaxDatagramSize+1)

	for {
		select {
		case <-l.closeCh:
			return
		default:
		}

		n, addr, err := l.conn.ReadFrom(buf)
		if err != nil {
			select {
			case <-l.closeCh:
				return
			default:
				if errors.Is(err, net.ErrClosed) {
					return
				}
				if l.log != nil {
					l.log.Warnf("read error: %v", err)
				}
				continue
			}
		}

		if n == 0 {
			continue
		}

		data := make([]byte, n)
		copy(data, buf[:n])

		if l.log != nil {
			l.log.Debugf("received %d bytes from %v", n, addr)
		}

		l.handler(&ReceivedMessage{Data: data, PeerAddr: addr})
	}
}

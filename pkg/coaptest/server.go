// Package coaptest provides a scriptable CoAP responder and a virtual
// network for exercising clients in tests.
package coaptest

import (
	"fmt"
	"net"
	"sync"

	"github.com/backkem/teleclient/pkg/message"
	"github.com/backkem/teleclient/pkg/transport"
	"github.com/pion/logging"
)

// Handler produces the datagrams to send back for one request.
// n is the 1-based index of the request among all decodable requests the
// server has seen. Returning nil sends nothing.
type Handler func(req *message.Message, n int) [][]byte

// Config configures a Server.
type Config struct {
	// Net opens the listening socket. If nil, the host stack is used.
	Net transport.Net

	// ListenAddr defaults to "127.0.0.1:0".
	ListenAddr string

	// Handler answers requests. Required.
	Handler Handler

	// LoggerFactory is the factory for creating loggers.
	// If nil, logging is disabled.
	LoggerFactory logging.LoggerFactory
}

// Server is a UDP responder driven by a Handler.
type Server struct {
	listener *transport.Listener
	handler  Handler
	log      logging.LeveledLogger

	mu       sync.Mutex
	requests []*message.Message
	raw      [][]byte
}

// NewServer starts a responder.
func NewServer(config Config) (*Server, error) {
	if config.Handler == nil {
		return nil, transport.ErrNoHandler
	}

	s := &Server{handler: config.Handler}
	if config.LoggerFactory != nil {
		s.log = config.LoggerFactory.NewLogger("coaptest")
	}

	l, err := transport.NewListener(transport.ListenerConfig{
		Net:            config.Net,
		ListenAddr:     config.ListenAddr,
		MessageHandler: s.handle,
		LoggerFactory:  config.LoggerFactory,
	})
	if err != nil {
		return nil, err
	}
	s.listener = l

	if err := l.Start(); err != nil {
		l.Stop()
		return nil, err
	}
	return s, nil
}

func (s *Server) handle(msg *transport.ReceivedMessage) {
	s.mu.Lock()
	s.raw = append(s.raw, msg.Data)
	s.mu.Unlock()

	req, err := message.Decode(msg.Data)
	if err != nil {
		if s.log != nil {
			s.log.Warnf("dropping undecodable request from %v: %v", msg.PeerAddr, err)
		}
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	n := len(s.requests)
	s.mu.Unlock()

	for _, out := range s.handler(req, n) {
		if err := s.listener.Send(out, msg.PeerAddr); err != nil && s.log != nil {
			s.log.Warnf("reply to %v failed: %v", msg.PeerAddr, err)
		}
	}
}

// Addr returns the server's UDP address.
func (s *Server) Addr() *net.UDPAddr {
	addr, _ := s.listener.LocalAddr().(*net.UDPAddr)
	return addr
}

// Host returns the server's IP as a string.
func (s *Server) Host() string {
	return s.Addr().IP.String()
}

// Port returns the server's UDP port.
func (s *Server) Port() uint16 {
	return uint16(s.Addr().Port)
}

// Requests returns the decoded requests received so far.
func (s *Server) Requests() []*message.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*message.Message(nil), s.requests...)
}

// Datagrams returns every datagram received so far, decodable or not.
func (s *Server) Datagrams() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.raw...)
}

// Count returns the number of datagrams received.
func (s *Server) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.raw)
}

// Close stops the server.
func (s *Server) Close() error {
	return s.listener.Stop()
}

// String identifies the server in test output.
func (s *Server) String() string {
	return fmt.Sprintf("coaptest.Server(%s)", s.listener.LocalAddr())
}

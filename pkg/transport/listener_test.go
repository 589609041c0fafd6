package transport

import (
	"bytes"
	"net"
	"testing"
	"time"
)

func TestNewListener(t *testing.T) {
	t.Run("with handler", func(t *testing.T) {
		l, err := NewListener(ListenerConfig{
			ListenAddr:     "127.0.0.1:0",
			MessageHandler: func(*ReceivedMessage) {},
		})
		if err != nil {
			t.Fatalf("NewListener() error = %v", err)
		}
		defer l.Stop()

		if l.conn == nil {
			t.Error("NewListener() conn is nil")
		}
	})

	t.Run("without handler", func(t *testing.T) {
		_, err := NewListener(ListenerConfig{ListenAddr: "127.0.0.1:0"})
		if err != ErrNoHandler {
			t.Errorf("NewListener() error = %v, want %v", err, ErrNoHandler)
		}
	})

	t.Run("with injected conn", func(t *testing.T) {
		conn, err := net.ListenPacket("udp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("ListenPacket() error = %v", err)
		}

		l, err := NewListener(ListenerConfig{
			Conn:           conn,
			MessageHandler: func(*ReceivedMessage) {},
		})
		if err != nil {
			t.Fatalf("NewListener() error = %v", err)
		}
		defer l.Stop()

		if l.conn != conn {
			t.Error("NewListener() did not use injected conn")
		}
	})
}

func TestListenerStartStop(t *testing.T) {
	l, err := NewListener(ListenerConfig{
		ListenAddr:     "127.0.0.1:0",
		MessageHandler: func(*ReceivedMessage) {},
	})
	if err != nil {
		t.Fatalf("NewListener() error = %v", err)
	}

	if err := l.Start(); err != nil {
		t.Errorf("Start() error = %v", err)
	}
	if err := l.Start(); err != ErrAlreadyStarted {
		t.Errorf("Start() second call error = %v, want %v", err, ErrAlreadyStarted)
	}
	if err := l.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := l.Stop(); err != ErrClosed {
		t.Errorf("Stop() second call error = %v, want %v", err, ErrClosed)
	}
	if err := l.Start(); err != ErrClosed {
		t.Errorf("Start() after Stop error = %v, want %v", err, ErrClosed)
	}
}

func TestListenerEcho(t *testing.T) {
	var l *Listener
	l, err := NewListener(ListenerConfig{
		ListenAddr: "127.0.0.1:0",
		MessageHandler: func(msg *ReceivedMessage) {
			l.Send(append([]byte("re:"), msg.Data...), msg.PeerAddr)
		},
	})
	if err != nil {
		t.Fatalf("NewListener() error = %v", err)
	}
	if err := l.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer l.Stop()

	std, _ := NewStdNet()
	s, err := OpenSocket(std, NewCandidate(l.LocalAddr().(*net.UDPAddr), SourceLiteral), nil)
	if err != nil {
		t.Fatalf("OpenSocket() error = %v", err)
	}
	defer s.Close()

	if err := s.Send([]byte("hi")); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	s.SetReadDeadline(time.Now().Add(time.Second))
	data, from, err := s.Receive()
	if err != nil {
		t.Fatalf("Receive() error = %v", err)
	}
	if !bytes.Equal(data, []byte("re:hi")) {
		t.Errorf("Receive() = %q, want %q", data, "re:hi")
	}
	if from.String() != l.LocalAddr().String() {
		t.Errorf("reply from %v, want %v", from, l.LocalAddr())
	}
}

func TestListenerSendErrors(t *testing.T) {
	l, err := NewListener(ListenerConfig{
		ListenAddr:     "127.0.0.1:0",
		MessageHandler: func(*ReceivedMessage) {},
	})
	if err != nil {
		t.Fatalf("NewListener() error = %v", err)
	}

	if err := l.Send([]byte{0x01}, nil); err != ErrInvalidAddress {
		t.Errorf("Send() error = %v, want %v", err, ErrInvalidAddress)
	}
	if err := l.Send(make([]byte, MaxDatagramSize+1), l.LocalAddr()); err != ErrMessageTooLarge {
		t.Errorf("Send() error = %v, want %v", err, ErrMessageTooLarge)
	}

	l.Stop()
	if err := l.Send([]byte{0x01}, l.LocalAddr()); err != ErrClosed {
		t.Errorf("Send() after Stop error = %v, want %v", err, ErrClosed)
	}
}

package message

import (
	"bytes"
	"testing"
)

// Wire vectors built from RFC 7252 Appendix A and Section 3.1.
var frameVectors = []struct {
	name string
	msg  func() *Message
	wire []byte
}{
	{
		name: "GET /temperature (Appendix A)",
		msg: func() *Message {
			m := New(Confirmable, GET)
			m.MessageID = 0x7d34
			m.AddStringOption(URIPath, "temperature")
			return m
		},
		wire: append([]byte{0x40, 0x01, 0x7d, 0x34, 0xBB}, "temperature"...),
	},
	{
		name: "2.05 Content piggybacked (Appendix A)",
		msg: func() *Message {
			m := New(Acknowledgement, Content)
			m.MessageID = 0x7d34
			m.SetPayload([]byte("22.3 C"))
			return m
		},
		wire: append([]byte{0x60, 0x45, 0x7d, 0x34, 0xFF}, "22.3 C"...),
	},
	{
		name: "GET with one byte token",
		msg: func() *Message {
			m := New(Confirmable, GET)
			m.MessageID = 0x55AA
			m.Token = []byte{0x77}
			m.AddStringOption(URIPath, "hello")
			return m
		},
		wire: append([]byte{0x41, 0x01, 0x55, 0xAA, 0x77, 0xB5}, "hello"...),
	},
	{
		name: "NON POST with text/plain payload",
		msg: func() *Message {
			m := New(NonConfirmable, POST)
			m.MessageID = 0x0001
			m.Token = []byte{0x01}
			m.AddStringOption(URIPath, "echo")
			m.AddUintOption(ContentFormat, uint32(TextPlain))
			m.SetPayload([]byte("abc"))
			return m
		},
		wire: []byte{
			0x51, 0x02, 0x00, 0x01, 0x01,
			0xB4, 'e', 'c', 'h', 'o',
			0x10,
			0xFF, 'a', 'b', 'c',
		},
	},
	{
		name: "8-bit extended delta",
		msg: func() *Message {
			m := New(Confirmable, GET)
			m.AddUintOption(Size1, 1024)
			return m
		},
		wire: []byte{0x40, 0x01, 0x00, 0x00, 0xD2, 0x2F, 0x04, 0x00},
	},
	{
		name: "16-bit extended delta",
		msg: func() *Message {
			m := New(Confirmable, GET)
			m.AddOption(OptionID(300), nil)
			return m
		},
		wire: []byte{0x40, 0x01, 0x00, 0x00, 0xE0, 0x00, 0x1F},
	},
	{
		name: "8-bit extended length",
		msg: func() *Message {
			m := New(Confirmable, GET)
			m.AddStringOption(URIPath, "abcdefghijklmnop")
			return m
		},
		wire: append([]byte{0x40, 0x01, 0x00, 0x00, 0xBD, 0x03}, "abcdefghijklmnop"...),
	},
}

func TestFrameVectors(t *testing.T) {
	for _, tc := range frameVectors {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := tc.msg().Encode()
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if !bytes.Equal(encoded, tc.wire) {
				t.Errorf("Encode() = %x, want %x", encoded, tc.wire)
			}

			decoded, err := Decode(tc.wire)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			reencoded, err := decoded.Encode()
			if err != nil {
				t.Fatalf("re-Encode() error = %v", err)
			}
			if !bytes.Equal(reencoded, tc.wire) {
				t.Errorf("re-Encode() = %x, want %x", reencoded, tc.wire)
			}
		})
	}
}

func TestEncodeIdempotent(t *testing.T) {
	m := New(Confirmable, POST)
	m.MessageID = 0xBEEF
	m.Token = []byte{0x42}
	m.AddStringOption(URIPath, "a")
	m.AddStringOption(URIPath, "b")
	m.AddUintOption(ContentFormat, 0)
	m.SetPayload([]byte("payload"))

	first, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	second, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("Encode() not deterministic: %x vs %x", first, second)
	}
}

func TestEncodeSortsOptionsStably(t *testing.T) {
	m := New(Confirmable, GET)
	// Content-Format inserted before the Uri-Path segments.
	m.AddUintOption(ContentFormat, uint32(AppJSON))
	m.AddStringOption(URIPath, "x")
	m.AddUintOption(Accept, uint32(AppJSON))
	m.AddStringOption(URIPath, "y")

	encoded, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	wantIDs := []OptionID{URIPath, URIPath, ContentFormat, Accept}
	if len(decoded.Options) != len(wantIDs) {
		t.Fatalf("len(Options) = %d, want %d", len(decoded.Options), len(wantIDs))
	}
	for i, id := range wantIDs {
		if decoded.Options[i].ID != id {
			t.Errorf("Options[%d].ID = %v, want %v", i, decoded.Options[i].ID, id)
		}
	}
	if got := decoded.URIPath(); got != "x/y" {
		t.Errorf("URIPath() = %q, want %q", got, "x/y")
	}
}

func TestEncodeErrors(t *testing.T) {
	t.Run("token too long", func(t *testing.T) {
		m := New(Confirmable, GET)
		m.Token = make([]byte, 9)
		if _, err := m.Encode(); err != ErrInvalidTokenLen {
			t.Errorf("Encode() error = %v, want %v", err, ErrInvalidTokenLen)
		}
	})

	t.Run("invalid type", func(t *testing.T) {
		m := New(Type(4), GET)
		if _, err := m.Encode(); err != ErrInvalidType {
			t.Errorf("Encode() error = %v, want %v", err, ErrInvalidType)
		}
	})

	t.Run("payload over buffer", func(t *testing.T) {
		m := New(Confirmable, POST)
		m.Payload = make([]byte, MaxPayloadSize+1)
		if _, err := m.Encode(); err != ErrPayloadTooLarge {
			t.Errorf("Encode() error = %v, want %v", err, ErrPayloadTooLarge)
		}
	})

	t.Run("frame over MTU", func(t *testing.T) {
		m := New(Confirmable, POST)
		for i := 0; i < 2; i++ {
			if err := m.AddOption(URIPath, make([]byte, MaxOptionValueSize)); err != nil {
				t.Fatalf("AddOption() error = %v", err)
			}
		}
		m.Payload = make([]byte, MaxPayloadSize)
		if _, err := m.Encode(); err != ErrMessageTooLong {
			t.Errorf("Encode() error = %v, want %v", err, ErrMessageTooLong)
		}
	})
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"short header", []byte{0x40, 0x01}, ErrMessageTooShort},
		{"bad version", []byte{0xC0, 0x01, 0x00, 0x00}, ErrInvalidVersion},
		{"token truncated", []byte{0x42, 0x01, 0x00, 0x00, 0xAA}, ErrMessageTooShort},
		{"reserved TKL", []byte{0x4A, 0x01, 0x00, 0x00}, ErrInvalidTokenLen},
		{"empty with token", []byte{0x41, 0x00, 0x00, 0x00, 0x01}, ErrInvalidEmpty},
		{"empty with payload", []byte{0x40, 0x00, 0x00, 0x00, 0xFF, 0x01}, ErrInvalidEmpty},
		{"marker without payload", []byte{0x40, 0x01, 0x00, 0x00, 0xFF}, ErrEmptyPayload},
		{"reserved delta", []byte{0x40, 0x01, 0x00, 0x00, 0xF1, 0x00}, ErrInvalidOptionDelta},
		{"reserved length", []byte{0x40, 0x01, 0x00, 0x00, 0xBF}, ErrInvalidOptionLen},
		{"missing 8-bit extension", []byte{0x40, 0x01, 0x00, 0x00, 0xD0}, ErrOptionTruncated},
		{"missing 16-bit extension", []byte{0x40, 0x01, 0x00, 0x00, 0xE0, 0x00}, ErrOptionTruncated},
		{"value truncated", []byte{0x40, 0x01, 0x00, 0x00, 0xB5, 'h', 'e'}, ErrOptionTruncated},
		{"option number overflow", []byte{0x40, 0x01, 0x00, 0x00, 0xE0, 0xFF, 0xFF, 0xE0, 0xFF, 0xFF}, ErrOptionOutOfRange},
		{"oversized datagram", make([]byte, MaxMessageSize+1), ErrMessageTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.data)
			if err != tc.wantErr {
				t.Errorf("Decode() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestDecodeOwnsBuffers(t *testing.T) {
	wire := append([]byte{0x61, 0x45, 0x00, 0x01, 0x07, 0xB1, 'a', 0xFF}, "xyz"...)
	m, err := Decode(wire)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	for i := range wire {
		wire[i] = 0
	}

	if !bytes.Equal(m.Token, []byte{0x07}) {
		t.Errorf("Token = %x, want 07", m.Token)
	}
	if m.URIPath() != "a" {
		t.Errorf("URIPath() = %q, want %q", m.URIPath(), "a")
	}
	if string(m.Payload) != "xyz" {
		t.Errorf("Payload = %q, want %q", m.Payload, "xyz")
	}
}

func TestDecodeArbitraryBytesDoesNotPanic(t *testing.T) {
	seed := []byte{0x40, 0x01, 0x12, 0x34, 0xB3, 'f', 'o', 'o', 0xFF, 'b', 'a', 'r'}
	for cut := 0; cut <= len(seed); cut++ {
		for flip := 0; flip < 256; flip++ {
			data := append([]byte(nil), seed[:cut]...)
			if cut > 4 {
				data[4] = byte(flip)
			}
			Decode(data)
		}
	}
}

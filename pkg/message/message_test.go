package message

import (
	"bytes"
	"testing"
)

func TestAddOptionLimits(t *testing.T) {
	m := New(Confirmable, GET)
	for i := 0; i < MaxOptions; i++ {
		if err := m.AddStringOption(URIPath, "s"); err != nil {
			t.Fatalf("AddStringOption() #%d error = %v", i, err)
		}
	}
	if err := m.AddStringOption(URIPath, "s"); err != ErrTooManyOptions {
		t.Errorf("AddStringOption() over capacity error = %v, want %v", err, ErrTooManyOptions)
	}

	m = New(Confirmable, GET)
	if err := m.AddOption(URIPath, make([]byte, MaxOptionValueSize+1)); err != ErrOptionTooLong {
		t.Errorf("AddOption() long value error = %v, want %v", err, ErrOptionTooLong)
	}
}

func TestAddOptionCopiesValue(t *testing.T) {
	value := []byte("abc")
	m := New(Confirmable, GET)
	if err := m.AddOption(URIPath, value); err != nil {
		t.Fatalf("AddOption() error = %v", err)
	}
	value[0] = 'z'
	if got := m.URIPath(); got != "abc" {
		t.Errorf("URIPath() = %q, want %q", got, "abc")
	}
}

func TestAddUintOption(t *testing.T) {
	tests := []struct {
		value uint32
		want  []byte
	}{
		{0, nil},
		{1, []byte{0x01}},
		{255, []byte{0xFF}},
		{256, []byte{0x01, 0x00}},
		{1024, []byte{0x04, 0x00}},
		{0x01000000, []byte{0x01, 0x00, 0x00, 0x00}},
	}

	for _, tc := range tests {
		m := New(Confirmable, GET)
		if err := m.AddUintOption(ContentFormat, tc.value); err != nil {
			t.Fatalf("AddUintOption(%d) error = %v", tc.value, err)
		}
		opt, ok := m.FindOption(ContentFormat)
		if !ok {
			t.Fatalf("FindOption() missing option")
		}
		if !bytes.Equal(opt.Value, tc.want) {
			t.Errorf("AddUintOption(%d) value = %x, want %x", tc.value, opt.Value, tc.want)
		}
		if opt.Uint() != tc.value {
			t.Errorf("Uint() = %d, want %d", opt.Uint(), tc.value)
		}
	}
}

func TestContentFormat(t *testing.T) {
	m := New(Confirmable, POST)
	if _, ok := m.ContentFormat(); ok {
		t.Error("ContentFormat() reported a value on an empty message")
	}
	m.AddUintOption(ContentFormat, uint32(AppJSON))
	cf, ok := m.ContentFormat()
	if !ok || cf != AppJSON {
		t.Errorf("ContentFormat() = %v, %v; want %v, true", cf, ok, AppJSON)
	}
}

func TestSetPayload(t *testing.T) {
	m := New(Confirmable, POST)

	src := []byte("hello")
	if err := m.SetPayload(src); err != nil {
		t.Fatalf("SetPayload() error = %v", err)
	}
	src[0] = 'j'
	if string(m.Payload) != "hello" {
		t.Errorf("Payload = %q, want private copy %q", m.Payload, "hello")
	}

	if err := m.SetPayload(make([]byte, MaxPayloadSize)); err != nil {
		t.Errorf("SetPayload(max) error = %v", err)
	}
	if err := m.SetPayload(make([]byte, MaxPayloadSize+1)); err != ErrPayloadTooLarge {
		t.Errorf("SetPayload(max+1) error = %v, want %v", err, ErrPayloadTooLarge)
	}
	if err := m.SetPayload(nil); err != nil || m.Payload != nil {
		t.Errorf("SetPayload(nil) = %v, payload %v", err, m.Payload)
	}
}

func TestSetToken(t *testing.T) {
	m := New(Confirmable, GET)
	if err := m.SetToken(make([]byte, 9)); err != ErrInvalidTokenLen {
		t.Errorf("SetToken(9 bytes) error = %v, want %v", err, ErrInvalidTokenLen)
	}
	tok := []byte{1, 2, 3}
	if err := m.SetToken(tok); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}
	tok[0] = 9
	if !bytes.Equal(m.Token, []byte{1, 2, 3}) {
		t.Errorf("Token = %x, want 010203", m.Token)
	}
}

func TestSameIdentity(t *testing.T) {
	a := New(Confirmable, GET)
	a.MessageID = 7
	a.Token = []byte{0xAB}

	tests := []struct {
		name  string
		mid   uint16
		token []byte
		want  bool
	}{
		{"match", 7, []byte{0xAB}, true},
		{"different mid", 8, []byte{0xAB}, false},
		{"different token", 7, []byte{0xAC}, false},
		{"missing token", 7, nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := New(Acknowledgement, Content)
			b.MessageID = tc.mid
			b.Token = tc.token
			if got := a.SameIdentity(b); got != tc.want {
				t.Errorf("SameIdentity() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestUDPCodec(t *testing.T) {
	var c Codec = NewUDPCodec()

	m := New(Confirmable, GET)
	m.MessageID = 0x7d34
	m.AddStringOption(URIPath, "temperature")

	data, err := c.Encode(m)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := c.Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !got.SameIdentity(m) || got.URIPath() != "temperature" || got.Code != GET {
		t.Errorf("Decode() = %v, want %v", got, m)
	}
}

package message

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// Option is a single CoAP option instance.
type Option struct {
	ID    OptionID
	Value []byte
}

// Uint interprets the option value as a big-endian unsigned integer
// (RFC 7252 Section 3.2). Empty values decode to 0.
func (o Option) Uint() uint32 {
	var v uint32
	for _, b := range o.Value {
		v = v<<8 | uint32(b)
	}
	return v
}

// String returns the option name with its value.
func (o Option) String() string {
	return fmt.Sprintf("%s=%q", o.ID, o.Value)
}

// Message is a CoAP message: header fields, token, ordered options and payload.
//
// Options are kept in insertion order. Encoding sorts them by option number
// with a stable sort, so repeated options (e.g. Uri-Path) keep their relative
// order on the wire.
type Message struct {
	Type      Type
	Code      Code
	MessageID uint16

	// Token correlates responses to requests (0-8 bytes).
	Token []byte

	// Options holds at most MaxOptions entries. Use AddOption to append.
	Options []Option

	// Payload is owned by the message; SetPayload stores a private copy.
	Payload []byte
}

// New creates an empty message with the given type and code.
func New(t Type, c Code) *Message {
	return &Message{
		Type:    t,
		Code:    c,
		Options: make([]Option, 0, MaxOptions),
	}
}

// AddOption appends an option, copying value.
// Returns ErrTooManyOptions when the option storage is full and
// ErrOptionTooLong when value exceeds MaxOptionValueSize.
func (m *Message) AddOption(id OptionID, value []byte) error {
	if len(m.Options) >= MaxOptions {
		return ErrTooManyOptions
	}
	if len(value) > MaxOptionValueSize {
		return ErrOptionTooLong
	}

	var v []byte
	if len(value) > 0 {
		v = make([]byte, len(value))
		copy(v, value)
	}

	m.Options = append(m.Options, Option{ID: id, Value: v})
	return nil
}

// AddStringOption appends a string-valued option.
func (m *Message) AddStringOption(id OptionID, value string) error {
	return m.AddOption(id, []byte(value))
}

// AddUintOption appends a uint-valued option using the minimal encoding:
// leading zero bytes are dropped and 0 is encoded as an empty value.
func (m *Message) AddUintOption(id OptionID, value uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], value)
	i := 0
	for i < len(buf) && buf[i] == 0 {
		i++
	}
	return m.AddOption(id, buf[i:])
}

// FindOption returns the first option with the given number.
func (m *Message) FindOption(id OptionID) (Option, bool) {
	for _, opt := range m.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// FindOptions returns all options with the given number, in message order.
func (m *Message) FindOptions(id OptionID) []Option {
	var out []Option
	for _, opt := range m.Options {
		if opt.ID == id {
			out = append(out, opt)
		}
	}
	return out
}

// URIPath joins the Uri-Path options with "/" (no leading slash).
func (m *Message) URIPath() string {
	segs := m.FindOptions(URIPath)
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = string(s.Value)
	}
	return strings.Join(parts, "/")
}

// ContentFormat returns the Content-Format option value, if present.
func (m *Message) ContentFormat() (MediaType, bool) {
	opt, ok := m.FindOption(ContentFormat)
	if !ok {
		return 0, false
	}
	return MediaType(opt.Uint()), true
}

// SetToken stores a private copy of token.
func (m *Message) SetToken(token []byte) error {
	if len(token) > MaxTokenSize {
		return ErrInvalidTokenLen
	}
	m.Token = append([]byte(nil), token...)
	return nil
}

// SetPayload stores a private copy of payload.
// Payloads larger than MaxPayloadSize are rejected, not truncated.
func (m *Message) SetPayload(payload []byte) error {
	if len(payload) > MaxPayloadSize {
		return ErrPayloadTooLarge
	}
	if len(payload) == 0 {
		m.Payload = nil
		return nil
	}
	m.Payload = make([]byte, len(payload))
	copy(m.Payload, payload)
	return nil
}

// SameIdentity reports whether other carries the same message ID and token.
func (m *Message) SameIdentity(other *Message) bool {
	return m.MessageID == other.MessageID && bytes.Equal(m.Token, other.Token)
}

// String returns a compact one-line description for logs.
func (m *Message) String() string {
	return fmt.Sprintf("%s %s mid=0x%04x token=%x options=%d payload=%dB",
		m.Type, m.Code, m.MessageID, m.Token, len(m.Options), len(m.Payload))
}

package message

import (
	"encoding/binary"
	"sort"
)

// Size returns the encoded size of the message in bytes.
func (m *Message) Size() int {
	size := HeaderSize + len(m.Token)

	prev := 0
	for _, opt := range m.sortedOptions() {
		delta := int(opt.ID) - prev
		size += 1 + extSize(delta) + extSize(len(opt.Value)) + len(opt.Value)
		prev = int(opt.ID)
	}

	if len(m.Payload) > 0 {
		size += 1 + len(m.Payload)
	}

	return size
}

// Encode serializes the message to its UDP wire format.
// Encoding is deterministic: the same message always yields the same bytes.
func (m *Message) Encode() ([]byte, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}

	size := m.Size()
	if size > MaxMessageSize {
		return nil, ErrMessageTooLong
	}

	buf := make([]byte, size)
	m.encodeTo(buf)
	return buf, nil
}

func (m *Message) validate() error {
	if !m.Type.IsValid() {
		return ErrInvalidType
	}
	if len(m.Token) > MaxTokenSize {
		return ErrInvalidTokenLen
	}
	if len(m.Options) > MaxOptions {
		return ErrTooManyOptions
	}
	for _, opt := range m.Options {
		if len(opt.Value) > MaxOptionValueSize {
			return ErrOptionTooLong
		}
	}
	if len(m.Payload) > MaxPayloadSize {
		return ErrPayloadTooLarge
	}
	return nil
}

func (m *Message) encodeTo(buf []byte) int {
	h := Header{
		Type:        m.Type,
		TokenLength: uint8(len(m.Token)),
		Code:        m.Code,
		MessageID:   m.MessageID,
	}
	offset := h.EncodeTo(buf)
	offset += copy(buf[offset:], m.Token)

	prev := 0
	for _, opt := range m.sortedOptions() {
		delta := int(opt.ID) - prev
		length := len(opt.Value)

		first := offset
		offset++
		dn, n := putExt(buf[offset:], delta)
		offset += n
		ln, n := putExt(buf[offset:], length)
		offset += n
		buf[first] = dn<<4 | ln

		offset += copy(buf[offset:], opt.Value)
		prev = int(opt.ID)
	}

	if len(m.Payload) > 0 {
		buf[offset] = PayloadMarker
		offset++
		offset += copy(buf[offset:], m.Payload)
	}

	return offset
}

// sortedOptions returns the options ordered by number, keeping insertion
// order for repeated options.
func (m *Message) sortedOptions() []Option {
	opts := make([]Option, len(m.Options))
	copy(opts, m.Options)
	sort.SliceStable(opts, func(i, j int) bool {
		return opts[i].ID < opts[j].ID
	})
	return opts
}

// extSize returns the number of extended bytes needed for a delta or length.
func extSize(v int) int {
	switch {
	case v < ext8BitBase:
		return 0
	case v < ext16BitBase:
		return 1
	default:
		return 2
	}
}

// putExt writes the extended bytes for v and returns its nibble and the
// number of bytes written.
func putExt(buf []byte, v int) (uint8, int) {
	switch {
	case v < ext8BitBase:
		return uint8(v), 0
	case v < ext16BitBase:
		buf[0] = uint8(v - ext8BitBase)
		return nibble8BitExt, 1
	default:
		binary.BigEndian.PutUint16(buf, uint16(v-ext16BitBase))
		return nibble16BitExt, 2
	}
}

// readExt decodes a delta or length nibble with its extended bytes.
// Returns the value and the number of extended bytes consumed.
func readExt(nibble uint8, data []byte, reserved error) (int, int, error) {
	switch nibble {
	case nibble8BitExt:
		if len(data) < 1 {
			return 0, 0, ErrOptionTruncated
		}
		return int(data[0]) + ext8BitBase, 1, nil
	case nibble16BitExt:
		if len(data) < 2 {
			return 0, 0, ErrOptionTruncated
		}
		return int(binary.BigEndian.Uint16(data)) + ext16BitBase, 2, nil
	case nibbleReserved:
		return 0, 0, reserved
	default:
		return int(nibble), 0, nil
	}
}

// Decode parses a UDP wire-format message.
// The returned message owns copies of the token, option values and payload.
// Malformed input yields an error; Decode never panics on arbitrary bytes.
func Decode(data []byte) (*Message, error) {
	if len(data) > MaxMessageSize {
		return nil, ErrMessageTooLong
	}

	var h Header
	offset, err := h.Decode(data)
	if err != nil {
		return nil, err
	}

	// An Empty message has no token, options or payload (Section 4.1)
	if h.Code == Empty && (h.TokenLength != 0 || len(data) > HeaderSize) {
		return nil, ErrInvalidEmpty
	}

	if len(data) < offset+int(h.TokenLength) {
		return nil, ErrMessageTooShort
	}

	m := New(h.Type, h.Code)
	m.MessageID = h.MessageID
	if h.TokenLength > 0 {
		m.Token = make([]byte, h.TokenLength)
		copy(m.Token, data[offset:])
		offset += int(h.TokenLength)
	}

	optionID := 0
	for offset < len(data) {
		if data[offset] == PayloadMarker {
			offset++
			if offset == len(data) {
				return nil, ErrEmptyPayload
			}
			if len(data)-offset > MaxPayloadSize {
				return nil, ErrPayloadTooLarge
			}
			m.Payload = make([]byte, len(data)-offset)
			copy(m.Payload, data[offset:])
			break
		}

		first := data[offset]
		offset++

		delta, n, err := readExt(first>>4, data[offset:], ErrInvalidOptionDelta)
		if err != nil {
			return nil, err
		}
		offset += n

		length, n, err := readExt(first&0x0F, data[offset:], ErrInvalidOptionLen)
		if err != nil {
			return nil, err
		}
		offset += n

		optionID += delta
		if optionID > 0xFFFF {
			return nil, ErrOptionOutOfRange
		}
		if len(data)-offset < length {
			return nil, ErrOptionTruncated
		}

		if err := m.AddOption(OptionID(optionID), data[offset:offset+length]); err != nil {
			return nil, err
		}
		offset += length
	}

	return m, nil
}

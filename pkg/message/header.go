package message

import (
	"encoding/binary"
)

// Header represents the fixed 4-byte CoAP header (RFC 7252 Section 3).
// All multi-byte fields are big-endian on the wire.
type Header struct {
	// Type is the message type (CON, NON, ACK, RST).
	Type Type

	// TokenLength is the length of the token that follows the header.
	TokenLength uint8

	// Code is the request method or response code.
	Code Code

	// MessageID detects duplicates and matches ACK/RST to CON/NON.
	MessageID uint16
}

// EncodeTo serializes the header into the provided buffer.
// The buffer must be at least HeaderSize bytes long.
// Returns the number of bytes written.
func (h *Header) EncodeTo(buf []byte) int {
	buf[0] = Version<<hdrVersionShift |
		(uint8(h.Type)&hdrTypeMask)<<hdrTypeShift |
		h.TokenLength&hdrTokenLenMask
	buf[1] = uint8(h.Code)
	binary.BigEndian.PutUint16(buf[2:], h.MessageID)
	return HeaderSize
}

// Decode deserializes a header from bytes.
// Returns the number of bytes consumed from data.
func (h *Header) Decode(data []byte) (int, error) {
	if len(data) < HeaderSize {
		return 0, ErrMessageTooShort
	}

	first := data[0]

	if first>>hdrVersionShift != Version {
		return 0, ErrInvalidVersion
	}

	h.Type = Type((first >> hdrTypeShift) & hdrTypeMask)
	h.TokenLength = first & hdrTokenLenMask

	// TKL 9-15 are reserved and must be processed as a format error
	if h.TokenLength > MaxTokenSize {
		return 0, ErrInvalidTokenLen
	}

	h.Code = Code(data[1])
	h.MessageID = binary.BigEndian.Uint16(data[2:])

	return HeaderSize, nil
}

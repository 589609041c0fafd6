package message

import "errors"

// Message layer errors.
var (
	// Header decoding errors
	ErrMessageTooShort = errors.New("message: data too short")
	ErrInvalidVersion  = errors.New("message: invalid version (must be 1)")
	ErrInvalidTokenLen = errors.New("message: invalid token length (must be 0-8)")
	ErrInvalidType     = errors.New("message: invalid message type")

	// Option errors
	ErrTooManyOptions     = errors.New("message: option capacity exceeded")
	ErrOptionTooLong      = errors.New("message: option value too long")
	ErrInvalidOptionDelta = errors.New("message: invalid option delta (reserved nibble)")
	ErrInvalidOptionLen   = errors.New("message: invalid option length (reserved nibble)")
	ErrOptionTruncated    = errors.New("message: option extends past end of message")
	ErrOptionOutOfRange   = errors.New("message: option number out of range")

	// Frame errors
	ErrMessageTooLong  = errors.New("message: exceeds maximum size")
	ErrPayloadTooLarge = errors.New("message: payload exceeds buffer size")
	ErrEmptyPayload    = errors.New("message: payload marker followed by empty payload")
	ErrInvalidEmpty    = errors.New("message: empty message carries token, options or payload")
)

// Message format constants from RFC 7252.
const (
	// Version is the only supported protocol version (Section 3).
	Version uint8 = 1

	// HeaderSize is the fixed header size in bytes.
	// Ver/T/TKL (1) + Code (1) + Message ID (2) = 4
	HeaderSize = 4

	// MaxTokenSize is the largest token length encodable in TKL.
	MaxTokenSize = 8

	// MaxMessageSize is the largest datagram sent or accepted.
	// This is the IPv6 minimum MTU.
	MaxMessageSize = 1280

	// MaxPayloadSize is the size of the message's private payload buffer.
	MaxPayloadSize = 1024

	// MaxOptions is the option storage capacity of a message.
	MaxOptions = 16

	// MaxOptionValueSize is the longest option value a message accepts.
	MaxOptionValueSize = 255

	// PayloadMarker separates options from the payload (Section 3).
	PayloadMarker byte = 0xFF
)

// Header byte layout (Section 3).
const (
	// hdrVersionShift is the bit shift for the Ver field (bits 6-7).
	hdrVersionShift = 6

	// hdrTypeShift is the bit shift for the T field (bits 4-5).
	hdrTypeShift = 4

	// hdrTypeMask is the mask for the T field after shifting.
	hdrTypeMask uint8 = 0x03

	// hdrTokenLenMask is the mask for the TKL field (bits 0-3).
	hdrTokenLenMask uint8 = 0x0F
)

// Option nibble encoding (Section 3.1).
const (
	nibble8BitExt  = 13
	nibble16BitExt = 14
	nibbleReserved = 15

	ext8BitBase  = 13
	ext16BitBase = 269
)

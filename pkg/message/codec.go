package message

// Codec converts messages to and from datagram bytes.
// The exchange engine depends on this interface rather than on the package
// functions so tests can substitute a failing or recording codec.
type Codec interface {
	// Encode serializes a message into a bounded-size frame.
	Encode(m *Message) ([]byte, error)

	// Decode parses a frame, rejecting malformed input with an error.
	Decode(data []byte) (*Message, error)
}

// UDPCodec encodes and decodes the RFC 7252 UDP message format.
type UDPCodec struct{}

// NewUDPCodec creates a codec for UDP datagrams.
func NewUDPCodec() *UDPCodec {
	return &UDPCodec{}
}

// Encode serializes m to wire format.
func (UDPCodec) Encode(m *Message) ([]byte, error) {
	return m.Encode()
}

// Decode parses a wire-format datagram.
func (UDPCodec) Decode(data []byte) (*Message, error) {
	return Decode(data)
}

// Verify UDPCodec implements Codec.
var _ Codec = UDPCodec{}

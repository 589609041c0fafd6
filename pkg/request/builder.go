package request

import (
	"fmt"

	"github.com/backkem/teleclient/pkg/message"
)

// Supported method names, as accepted on the command line.
const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

// BuildGet creates a GET request for path.
// The message type is NON when nonConfirmable is set, CON otherwise.
// The exchange identity is left unset.
func BuildGet(path string, nonConfirmable bool) (*message.Message, error) {
	m := message.New(messageType(nonConfirmable), message.GET)
	if err := EncodePath(m, path); err != nil {
		return nil, err
	}
	return m, nil
}

// BuildPost creates a POST request for path carrying payload.
// A non-empty payload is copied and tagged with a text/plain Content-Format;
// payloads over message.MaxPayloadSize are rejected.
func BuildPost(path string, payload []byte, nonConfirmable bool) (*message.Message, error) {
	if len(payload) > message.MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, len(payload), message.MaxPayloadSize)
	}

	m := message.New(messageType(nonConfirmable), message.POST)
	if err := EncodePath(m, path); err != nil {
		return nil, err
	}

	if len(payload) > 0 {
		if err := m.SetPayload(payload); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPayloadTooLarge, err)
		}
		if err := m.AddUintOption(message.ContentFormat, uint32(message.TextPlain)); err != nil {
			return nil, fmt.Errorf("%w: content format: %w", ErrOption, err)
		}
	}

	return m, nil
}

// Build dispatches on a method name. Method names are case-sensitive.
func Build(method, path string, payload []byte, nonConfirmable bool) (*message.Message, error) {
	switch method {
	case MethodGet:
		return BuildGet(path, nonConfirmable)
	case MethodPost:
		return BuildPost(path, payload, nonConfirmable)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}
}

func messageType(nonConfirmable bool) message.Type {
	if nonConfirmable {
		return message.NonConfirmable
	}
	return message.Confirmable
}

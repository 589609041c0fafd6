package transport

import "errors"

// Transport errors.
var (
	// ErrResolve is returned when a host cannot be turned into any candidate.
	ErrResolve = errors.New("transport: cannot resolve host")

	// ErrClosed is returned when an operation is attempted on a closed socket or listener.
	ErrClosed = errors.New("transport: closed")

	// ErrInvalidAddress is returned when an invalid candidate or peer address is provided.
	ErrInvalidAddress = errors.New("transport: invalid address")

	// ErrNoHandler is returned when no message handler is configured.
	ErrNoHandler = errors.New("transport: no message handler configured")

	// ErrAlreadyStarted is returned when Start is called on a running listener.
	ErrAlreadyStarted = errors.New("transport: already started")

	// ErrShortWrite is returned when a datagram was only partially written.
	ErrShortWrite = errors.New("transport: short write")

	// ErrMessageTooLarge is returned when a datagram exceeds the maximum size.
	ErrMessageTooLarge = errors.New("transport: message too large")
)

// Package exchange implements the reliable request/response exchange of a
// CoAP client over UDP.
//
// One call to Client.Send resolves the remote host, encodes the request once
// and then makes up to Retries+1 sequential attempts. Each attempt opens a
// fresh socket, sends the same bytes, waits at most Timeout for one datagram
// and accepts it only when its message ID and token equal the request's.
//
// The exchange identity (message ID and token) is assigned by the caller
// before Send, typically through an IdentityGenerator, and never changes
// across attempts.
package exchange

// State is the position of an exchange in its lifecycle:
//
//	Resolving -> Encoding -> Attempting* -> Matched | Exhausted
//
// Resolving and Encoding failures end the exchange in that state.
type State int

const (
	// StateUnknown indicates an uninitialized state.
	StateUnknown State = iota

	// StateResolving turns host and port into candidate endpoints.
	StateResolving

	// StateEncoding serializes the request once.
	StateEncoding

	// StateAttempting performs one send/receive/match round.
	StateAttempting

	// StateMatched is terminal: a matching response was received.
	StateMatched

	// StateExhausted is terminal: every attempt failed.
	StateExhausted
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateResolving:
		return "Resolving"
	case StateEncoding:
		return "Encoding"
	case StateAttempting:
		return "Attempting"
	case StateMatched:
		return "Matched"
	case StateExhausted:
		return "Exhausted"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the state is a defined value.
func (s State) IsValid() bool {
	return s >= StateResolving && s <= StateExhausted
}

// IsTerminal returns true for Matched and Exhausted.
func (s State) IsTerminal() bool {
	return s == StateMatched || s == StateExhausted
}

// FailureKind categorises why a single attempt did not produce a response.
type FailureKind int

const (
	// FailureUnknown is the zero value.
	FailureUnknown FailureKind = iota

	// FailureSocket means the per-attempt socket could not be opened.
	FailureSocket

	// FailureSend means the datagram could not be written in full.
	FailureSend

	// FailureTimeout means no datagram arrived before the deadline.
	FailureTimeout

	// FailureDecode means the received datagram was malformed.
	FailureDecode

	// FailureMismatch means the response carried another message ID or token.
	FailureMismatch

	// FailureCanceled means the caller's context ended the attempt.
	FailureCanceled
)

// String returns a short label for the kind, used in logs and metrics.
func (k FailureKind) String() string {
	switch k {
	case FailureSocket:
		return "socket"
	case FailureSend:
		return "send"
	case FailureTimeout:
		return "timeout"
	case FailureDecode:
		return "decode"
	case FailureMismatch:
		return "mismatch"
	case FailureCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Sentinel returns the package error that errors.Is matches for the kind.
func (k FailureKind) Sentinel() error {
	switch k {
	case FailureSocket:
		return ErrSocket
	case FailureSend:
		return ErrSend
	case FailureTimeout:
		return ErrTimeout
	case FailureDecode:
		return ErrDecode
	case FailureMismatch:
		return ErrMismatch
	case FailureCanceled:
		return ErrCanceled
	default:
		return nil
	}
}

// Connectionless reports whether the failure happened before anything was
// received, i.e. the candidate endpoint itself may be unusable.
func (k FailureKind) Connectionless() bool {
	return k == FailureSocket || k == FailureSend
}

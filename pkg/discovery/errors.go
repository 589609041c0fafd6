package discovery

import "errors"

// Package-level sentinel errors for discovery operations.
var (
	// ErrInvalidName is returned for names that are neither a "_coap._udp"
	// instance nor a ".local" host.
	ErrInvalidName = errors.New("discovery: invalid name")

	// ErrServiceNotFound is returned when a requested service is not found.
	ErrServiceNotFound = errors.New("discovery: service not found")

	// ErrTimeout is returned when an operation times out.
	ErrTimeout = errors.New("discovery: operation timed out")

	// ErrNoAddresses is returned when a service was found without any
	// IP address.
	ErrNoAddresses = errors.New("discovery: service has no addresses")
)

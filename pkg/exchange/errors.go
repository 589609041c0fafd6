package exchange

import (
	"errors"
	"fmt"
)

// Errors returned by the exchange package.
var (
	// ErrInvalidConfig is returned before any work when Config is unusable.
	ErrInvalidConfig = errors.New("exchange: invalid configuration")

	// ErrResolve is matched by ResolveError.
	ErrResolve = errors.New("exchange: resolve failed")

	// ErrEncode is matched by EncodeError.
	ErrEncode = errors.New("exchange: encode failed")

	// ErrSocket is matched by an AttemptError whose socket could not be opened.
	ErrSocket = errors.New("exchange: socket open failed")

	// ErrSend is matched by an AttemptError whose datagram was not sent in full.
	ErrSend = errors.New("exchange: send failed")

	// ErrTimeout is matched by an AttemptError that received nothing in time.
	ErrTimeout = errors.New("exchange: timeout or receive error")

	// ErrDecode is matched by an AttemptError that received a malformed datagram.
	ErrDecode = errors.New("exchange: decode failed")

	// ErrMismatch is matched by an AttemptError whose response identity differed.
	ErrMismatch = errors.New("exchange: mismatched message ID or token")

	// ErrCanceled is returned when the caller's context ends the exchange.
	ErrCanceled = errors.New("exchange: canceled")

	// ErrExhausted is matched by ExhaustedError.
	ErrExhausted = errors.New("exchange: attempts exhausted")
)

// ResolveError reports that the host could not be resolved. No attempt was made.
type ResolveError struct {
	Host string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("exchange: resolve %q: %v", e.Host, e.Err)
}

// Unwrap returns ErrResolve and the underlying cause.
func (e *ResolveError) Unwrap() []error {
	return []error{ErrResolve, e.Err}
}

// EncodeError reports that the request could not be serialized.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("exchange: encode request: %v", e.Err)
}

// Unwrap returns ErrEncode and the underlying cause.
func (e *EncodeError) Unwrap() []error {
	return []error{ErrEncode, e.Err}
}

// AttemptError describes why one attempt failed. Attempt is 1-based.
type AttemptError struct {
	Attempt int
	Kind    FailureKind
	Err     error
}

func (e *AttemptError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exchange: attempt %d: %s", e.Attempt, e.Kind)
	}
	return fmt.Sprintf("exchange: attempt %d: %s: %v", e.Attempt, e.Kind, e.Err)
}

// Unwrap returns the sentinel for Kind and the underlying cause.
func (e *AttemptError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.Sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// ExhaustedError is returned when every attempt failed.
// Last holds the failure of the final attempt.
type ExhaustedError struct {
	Attempts int
	Last     *AttemptError
}

func (e *ExhaustedError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("exchange: no response after %d attempt(s)", e.Attempts)
	}
	return fmt.Sprintf("exchange: no response after %d attempt(s), last: %s", e.Attempts, e.Last.Kind)
}

// Unwrap returns ErrExhausted and the last attempt's failure.
func (e *ExhaustedError) Unwrap() []error {
	if e.Last == nil {
		return []error{ErrExhausted}
	}
	return []error{ErrExhausted, e.Last}
}

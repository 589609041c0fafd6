package exchange

import (
	"time"

	"github.com/backkem/teleclient/pkg/message"
)

// Result summarises a finished exchange for observers.
type Result struct {
	// State is where the exchange stopped: Matched, Exhausted, or the
	// pre-flight state that failed.
	State State

	// Attempts is the number of attempts started.
	Attempts int

	// Duration covers resolution through the final attempt.
	Duration time.Duration

	// Code is the response code when State is Matched.
	Code message.Code

	// Err is nil only when State is Matched.
	Err error
}

// Observer receives exchange events. Calls are made synchronously from
// Send, so implementations must be quick and safe for concurrent use when
// the Client is shared.
type Observer interface {
	// AttemptStarted is called before attempt n (1-based) of total.
	AttemptStarted(cfg Config, n, total int)

	// AttemptFailed is called for every failed attempt.
	AttemptFailed(cfg Config, err *AttemptError)

	// ExchangeFinished is called once per Send that passed validation.
	ExchangeFinished(cfg Config, res Result)
}

package exchange

import (
	"math"
	"time"
)

// Defaults used by the command line and by Config zero values in tests.
const (
	// DefaultPort is the CoAP UDP port (RFC 7252 Section 6.1).
	DefaultPort = 5683

	// DefaultTimeout is the per-attempt receive timeout.
	DefaultTimeout = 1000 * time.Millisecond

	// DefaultRetries is the number of attempts after the first.
	DefaultRetries = 2

	// MaxRetries bounds Config.Retries so that Retries+1 stays representable.
	MaxRetries = math.MaxInt32
)

package exchange

import (
	"fmt"
	"time"
)

// Config describes one exchange.
type Config struct {
	// Host is a host name, an IP literal or a DNS-SD instance name.
	Host string

	// Port is the remote UDP port.
	Port uint16

	// Timeout bounds the wait for a response in each attempt.
	Timeout time.Duration

	// Retries is the number of attempts after the first.
	// Total attempts are Retries+1.
	Retries int

	// NonConfirmable records that the request is NON. It does not change
	// the engine's behaviour: the request type is chosen at build time.
	NonConfirmable bool

	// Verbose enables per-attempt diagnostics on the client's
	// diagnostic writer.
	Verbose bool
}

// DefaultConfig returns a config for host with the default port, timeout
// and retries.
func DefaultConfig(host string) Config {
	return Config{
		Host:    host,
		Port:    DefaultPort,
		Timeout: DefaultTimeout,
		Retries: DefaultRetries,
	}
}

// Attempts returns the total number of attempts, Retries+1.
func (c Config) Attempts() int {
	return c.Retries + 1
}

// Validate reports an error wrapping ErrInvalidConfig for unusable values.
func (c Config) Validate() error {
	switch {
	case c.Host == "":
		return fmt.Errorf("%w: empty host", ErrInvalidConfig)
	case c.Port == 0:
		return fmt.Errorf("%w: port must be non-zero", ErrInvalidConfig)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive, got %v", ErrInvalidConfig, c.Timeout)
	case c.Retries < 0:
		return fmt.Errorf("%w: retries must not be negative, got %d", ErrInvalidConfig, c.Retries)
	case c.Retries > MaxRetries:
		return fmt.Errorf("%w: retries must be at most %d, got %d", ErrInvalidConfig, MaxRetries, c.Retries)
	}
	return nil
}

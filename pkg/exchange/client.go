package exchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/backkem/teleclient/pkg/message"
	"github.com/backkem/teleclient/pkg/transport"
	"github.com/pion/logging"
)

var errNilRequest = errors.New("nil request")

// Resolver turns a host/port pair into ordered candidate endpoints.
// *transport.Resolver satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, host string, port uint16) ([]transport.Candidate, error)
}

// ClientConfig configures a Client.
type ClientConfig struct {
	// Net opens the per-attempt sockets.
	// If nil, the host network stack is used.
	Net transport.Net

	// Resolver resolves Config.Host.
	// If nil, a transport.Resolver is built: over net.DefaultResolver when
	// Net is nil, over Net.ResolveUDPAddr otherwise.
	Resolver Resolver

	// Codec serializes requests and parses responses.
	// If nil, message.UDPCodec is used.
	Codec message.Codec

	// Observer, when set, is notified of attempts and outcomes.
	Observer Observer

	// Diagnostics receives the per-attempt lines of verbose exchanges.
	// If nil, os.Stderr is used.
	Diagnostics io.Writer

	// CandidateFallback moves to the next resolved candidate after an
	// attempt whose socket could not be opened or whose send failed.
	// The attempt still counts. When false only the first candidate is used.
	CandidateFallback bool

	// LoggerFactory is the factory for creating loggers.
	// If nil, logging is disabled.
	LoggerFactory logging.LoggerFactory
}

// Client performs exchanges. It holds no per-exchange state and is safe for
// concurrent use.
type Client struct {
	net           transport.Net
	resolver      Resolver
	codec         message.Codec
	observer      Observer
	diag          logging.LeveledLogger
	fallback      bool
	loggerFactory logging.LoggerFactory
	log           logging.LeveledLogger
}

// NewClient creates a client with the given configuration.
func NewClient(config ClientConfig) (*Client, error) {
	c := &Client{
		net:           config.Net,
		resolver:      config.Resolver,
		codec:         config.Codec,
		observer:      config.Observer,
		fallback:      config.CandidateFallback,
		loggerFactory: config.LoggerFactory,
	}

	if config.LoggerFactory != nil {
		c.log = config.LoggerFactory.NewLogger("exchange")
	}

	if c.resolver == nil {
		c.resolver = transport.NewResolver(transport.ResolverConfig{
			Net:           config.Net,
			LoggerFactory: config.LoggerFactory,
		})
	}

	if c.net == nil {
		std, err := transport.NewStdNet()
		if err != nil {
			return nil, err
		}
		c.net = std
	}

	if c.codec == nil {
		c.codec = message.NewUDPCodec()
	}

	w := config.Diagnostics
	if w == nil {
		w = os.Stderr
	}
	c.diag = logging.NewDefaultLeveledLoggerForScope("teleclient", logging.LogLevelInfo, w)

	return c, nil
}

// Send performs one exchange of req as described by cfg and returns the
// first response whose message ID and token equal req's.
//
// req must already carry its identity (see Stamp). It is encoded once and
// the same bytes are sent on every attempt. Send blocks for at most
// cfg.Attempts()*cfg.Timeout plus resolution time, less if ctx ends first.
//
// Errors: a wrapped ErrInvalidConfig, *ResolveError or *EncodeError before
// any attempt; *ExhaustedError when every attempt failed; an error wrapping
// ErrCanceled and ctx.Err() on cancellation.
func (c *Client) Send(ctx context.Context, cfg Config, req *message.Message) (*message.Message, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	x := &run{
		client: c,
		cfg:    cfg,
		start:  time.Now(),
	}
	if cfg.Verbose {
		x.diag = c.diag
	}

	resp, err := x.do(ctx, req)

	res := Result{
		State:    x.state,
		Attempts: x.attempts,
		Duration: time.Since(x.start),
		Err:      err,
	}
	if resp != nil {
		res.Code = resp.Code
	}
	if c.observer != nil {
		c.observer.ExchangeFinished(cfg, res)
	}
	if c.log != nil {
		if res.State.IsTerminal() {
			c.log.Debugf("exchange with %s:%d finished in state %s after %d attempt(s)", cfg.Host, cfg.Port, res.State, res.Attempts)
		} else {
			c.log.Debugf("exchange with %s:%d aborted in state %s after %d attempt(s): %v", cfg.Host, cfg.Port, res.State, res.Attempts, err)
		}
	}

	return resp, err
}

// run holds the state of one Send call.
type run struct {
	client   *Client
	cfg      Config
	diag     logging.LeveledLogger
	start    time.Time
	state    State
	attempts int
}

func (x *run) enter(s State) {
	if x.client.log != nil {
		x.client.log.Tracef("%s -> %s", x.state, s)
	}
	x.state = s
}

func (x *run) do(ctx context.Context, req *message.Message) (*message.Message, error) {
	c := x.client

	x.enter(StateResolving)
	cands, err := c.resolver.Resolve(ctx, x.cfg.Host, x.cfg.Port)
	if err != nil {
		if x.diag != nil {
			x.diag.Infof("resolve failed: %v", err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w after %d attempt(s): %w", ErrCanceled, 0, ctxErr)
		}
		return nil, &ResolveError{Host: x.cfg.Host, Err: err}
	}
	if len(cands) == 0 {
		return nil, &ResolveError{Host: x.cfg.Host, Err: transport.ErrResolve}
	}

	x.enter(StateEncoding)
	if req == nil {
		return nil, &EncodeError{Err: errNilRequest}
	}
	data, err := c.codec.Encode(req)
	if err != nil {
		return nil, &EncodeError{Err: err}
	}

	total := x.cfg.Attempts()
	idx := 0
	var last *AttemptError

	for n := 1; n <= total; n++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w after %d attempt(s): %w", ErrCanceled, x.attempts, err)
		}

		x.enter(StateAttempting)
		x.attempts = n
		if c.observer != nil {
			c.observer.AttemptStarted(x.cfg, n, total)
		}
		if x.diag != nil {
			x.diag.Infof("attempt %d/%d to %s", n, total, cands[idx].Addr)
		}

		resp, aerr := x.attempt(ctx, n, cands[idx], data, req)
		if aerr == nil {
			x.enter(StateMatched)
			return resp, nil
		}

		last = aerr
		if c.observer != nil {
			c.observer.AttemptFailed(x.cfg, aerr)
		}
		if x.diag != nil {
			x.diag.Infof("attempt %d/%d: %s: %v", n, total, aerr.Kind, aerr.Err)
		}

		if aerr.Kind == FailureCanceled {
			return nil, fmt.Errorf("%w after %d attempt(s): %w", ErrCanceled, n, ctx.Err())
		}

		if c.fallback && aerr.Kind.Connectionless() && idx+1 < len(cands) {
			idx++
			if c.log != nil {
				c.log.Debugf("falling back to candidate %s", cands[idx])
			}
		}
	}

	x.enter(StateExhausted)
	return nil, &ExhaustedError{Attempts: total, Last: last}
}

// attempt runs one socket lifecycle: open, send, receive once, decode, match.
// The socket is closed on every path.
func (x *run) attempt(ctx context.Context, n int, cand transport.Candidate, data []byte, req *message.Message) (*message.Message, *AttemptError) {
	c := x.client
	fail := func(kind FailureKind, err error) (*message.Message, *AttemptError) {
		return nil, &AttemptError{Attempt: n, Kind: kind, Err: err}
	}

	sock, err := transport.OpenSocket(c.net, cand, c.loggerFactory)
	if err != nil {
		return fail(FailureSocket, err)
	}
	defer sock.Close()

	if err := sock.SetReadDeadline(time.Now().Add(x.cfg.Timeout)); err != nil {
		return fail(FailureSocket, err)
	}

	if err := sock.Send(data); err != nil {
		return fail(FailureSend, err)
	}

	stop := context.AfterFunc(ctx, sock.Interrupt)
	defer stop()

	raw, from, err := sock.Receive()
	if err != nil {
		if ctx.Err() != nil {
			return fail(FailureCanceled, ctx.Err())
		}
		return fail(FailureTimeout, err)
	}

	resp, err := c.codec.Decode(raw)
	if err != nil {
		return fail(FailureDecode, err)
	}

	if !resp.SameIdentity(req) {
		return fail(FailureMismatch, fmt.Errorf("from %v: mid=0x%04x token=%x, want mid=0x%04x token=%x",
			from, resp.MessageID, resp.Token, req.MessageID, req.Token))
	}

	return resp, nil
}

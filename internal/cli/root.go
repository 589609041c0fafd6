// Package cli implements the teleclient command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/backkem/teleclient/pkg/discovery"
	"github.com/backkem/teleclient/pkg/exchange"
	"github.com/backkem/teleclient/pkg/metrics"
	"github.com/backkem/teleclient/pkg/render"
	"github.com/backkem/teleclient/pkg/request"
	"github.com/backkem/teleclient/pkg/transport"
	"github.com/pion/logging"
	"github.com/spf13/cobra"
)

// Process exit statuses.
const (
	ExitOK      = 0
	ExitFailure = 1
)

const usageLine = "teleclient --host HOST --port N --method GET|POST --path /p [--payload STR] [--timeout MS] [--retries N] [--non] [--verbose]"

// Execute runs the command line with args and returns the exit status.
// Only the response goes to stdout; usage, errors and diagnostics go to
// stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		report(stderr, err)
		return ExitFailure
	}
	return ExitOK
}

// NewRootCommand creates the teleclient command.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           usageLine,
		Short:         "teleclient sends one CoAP request and prints the matching response",
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd.Flags(), configPath)
			if err != nil {
				return err
			}
			return run(cmd.Context(), opts, stdout, stderr)
		},
	}
	rootCmd.SetOut(stderr)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	f := rootCmd.Flags()
	f.String("host", "", "remote host: IP literal, DNS name, or DNS-SD name")
	f.Int("port", 0, "remote UDP port")
	f.String("method", "", "request method (GET or POST)")
	f.String("path", "", "resource path, e.g. /sensors/temp")
	f.String("payload", "", "POST payload, sent as text/plain")
	f.Int("timeout", int(exchange.DefaultTimeout.Milliseconds()), "per-attempt timeout in milliseconds")
	f.Int("retries", exchange.DefaultRetries, "retries after the first attempt")
	f.Bool("non", false, "send a non-confirmable request")
	f.Bool("verbose", false, "print per-attempt diagnostics to stderr")
	f.String("output", "raw", "response rendering: raw, table, json or yaml")
	f.Bool("metrics", false, "print exchange metrics in Prometheus text format to stderr")
	f.String("log-level", "error", "log level: disabled, error, warn, info, debug or trace")
	f.Bool("fallback", false, "try the next resolved address when a socket cannot be used")
	f.Bool("mdns", true, "resolve ._coap._udp and .local names with DNS-SD")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (YAML, TOML or JSON)")

	rootCmd.AddCommand(newBrowseCommand(stdout, stderr, &configPath))

	return rootCmd
}

// usageError asks report to print the usage line.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &usageError{err}
	}
	return nil
}

// methodError reports a method name the builder does not support.
type methodError struct{ method string }

func (e *methodError) Error() string { return "Unsupported method: " + e.method }
func (e *methodError) Unwrap() error { return request.ErrUnsupportedMethod }

func report(w io.Writer, err error) {
	var ue *usageError
	switch {
	case errors.As(err, &ue):
		fmt.Fprintf(w, "Usage: %s\n", usageLine)
		fmt.Fprintf(w, "teleclient: %v\n", ue.err)
	case errors.Is(err, request.ErrUnsupportedMethod):
		fmt.Fprintln(w, err)
	default:
		fmt.Fprintf(w, "teleclient: %v\n", err)
	}
}

func run(ctx context.Context, opts Options, stdout, stderr io.Writer) error {
	if err := opts.Validate(); err != nil {
		return &usageError{err}
	}

	format, err := render.ParseFormat(opts.Output)
	if err != nil {
		return &usageError{err}
	}
	level, err := parseLogLevel(opts.LogLevel)
	if err != nil {
		return &usageError{err}
	}

	req, err := request.Build(opts.Method, opts.Path, []byte(opts.Payload), opts.NonConf)
	if err != nil {
		if errors.Is(err, request.ErrUnsupportedMethod) {
			return &methodError{opts.Method}
		}
		return fmt.Errorf("build %s failed: %w", opts.Method, err)
	}
	exchange.Stamp(req, exchange.NewProcessIdentity())

	loggerFactory := newLoggerFactory(stderr, level)

	var collector *metrics.ExchangeCollector
	clientConfig := exchange.ClientConfig{
		Resolver:          newResolver(opts, loggerFactory),
		Diagnostics:       stderr,
		CandidateFallback: opts.Fallback,
		LoggerFactory:     loggerFactory,
	}
	if opts.Metrics {
		collector = metrics.NewExchangeCollector("")
		clientConfig.Observer = collector
	}

	client, err := exchange.NewClient(clientConfig)
	if err != nil {
		return err
	}

	resp, err := client.Send(ctx, opts.ExchangeConfig(), req)
	if collector != nil {
		if werr := collector.WriteText(stderr); werr != nil {
			return werr
		}
	}
	if err != nil {
		return err
	}

	return render.Write(stdout, format, resp)
}

func newLoggerFactory(w io.Writer, level logging.LogLevel) logging.LoggerFactory {
	lf := logging.NewDefaultLoggerFactory()
	lf.Writer = w
	lf.DefaultLogLevel = level
	return lf
}

func newResolver(opts Options, lf logging.LoggerFactory) *transport.Resolver {
	config := transport.ResolverConfig{
		Lookup:        net.DefaultResolver,
		LoggerFactory: lf,
	}
	if opts.MDNS {
		config.Discovery = discovery.NewResolver(discovery.ResolverConfig{LoggerFactory: lf})
	}
	return transport.NewResolver(config)
}

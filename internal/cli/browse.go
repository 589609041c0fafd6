package cli

import (
	"context"
	"io"
	"time"

	"github.com/backkem/teleclient/pkg/discovery"
	"github.com/backkem/teleclient/pkg/render"
	"github.com/spf13/cobra"
)

// browseOptions configures the browse subcommand.
type browseOptions struct {
	WaitMS   int    `mapstructure:"wait"`
	Output   string `mapstructure:"output"`
	LogLevel string `mapstructure:"log-level"`
}

func newBrowseCommand(stdout, stderr io.Writer, configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "list CoAP services advertised over DNS-SD (_coap._udp)",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := initViper(cmd.Flags(), *configPath)
			if err != nil {
				return err
			}
			var opts browseOptions
			if err := v.Unmarshal(&opts); err != nil {
				return err
			}
			return browse(cmd.Context(), opts, nil, stdout, stderr)
		},
	}

	f := cmd.Flags()
	f.Int("wait", int(discovery.DefaultBrowseTimeout.Milliseconds()), "how long to listen for announcements, in milliseconds")
	f.String("output", "table", "rendering: raw, table, json or yaml")
	f.String("log-level", "error", "log level: disabled, error, warn, info, debug or trace")

	return cmd
}

// browse collects services for opts.WaitMS and renders them sorted by
// instance name. mdns overrides the zeroconf resolver in tests.
func browse(ctx context.Context, opts browseOptions, mdns discovery.MDNSResolver, stdout, stderr io.Writer) error {
	if opts.WaitMS <= 0 {
		return &usageError{errUsageWait}
	}
	format, err := render.ParseFormat(opts.Output)
	if err != nil {
		return &usageError{err}
	}
	level, err := parseLogLevel(opts.LogLevel)
	if err != nil {
		return &usageError{err}
	}

	r := discovery.NewResolver(discovery.ResolverConfig{
		MDNSResolver:  mdns,
		LoggerFactory: newLoggerFactory(stderr, level),
	})

	ctx, cancel := context.WithTimeout(ctx, time.Duration(opts.WaitMS)*time.Millisecond)
	defer cancel()

	services, err := r.Browse(ctx)
	if err != nil {
		return err
	}
	var found []discovery.ResolvedService
	for svc := range services {
		found = append(found, svc)
	}

	return render.WriteServices(stdout, format, found)
}

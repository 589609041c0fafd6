// Package integration provides end-to-end tests that drive the teleclient
// command line against scripted CoAP responders.
package integration

import (
	"bytes"
	"context"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/backkem/teleclient/internal/cli"
	"github.com/backkem/teleclient/pkg/coaptest"
)

// Run is the result of one command-line invocation.
type Run struct {
	Code   int
	Stdout string
	Stderr string
}

// Harness runs the command line in-process against one responder.
type Harness struct {
	t      *testing.T
	Server *coaptest.Server
}

// NewHarness starts a loopback responder driven by h and isolates the
// command line from the user's config file and TELECLIENT_* environment.
func NewHarness(t *testing.T, h coaptest.Handler) *Harness {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, kv := range os.Environ() {
		if k, _, _ := strings.Cut(kv, "="); strings.HasPrefix(k, cli.EnvPrefix+"_") {
			t.Setenv(k, "")
			os.Unsetenv(k)
		}
	}

	srv, err := coaptest.NewServer(coaptest.Config{Handler: h})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	t.Cleanup(func() { srv.Close() })

	return &Harness{t: t, Server: srv}
}

// Target returns the --host and --port flags addressing the responder.
func (h *Harness) Target() []string {
	return []string{"--host", h.Server.Host(), "--port", strconv.Itoa(int(h.Server.Port()))}
}

// Run invokes the command line with the target flags followed by args.
func (h *Harness) Run(args ...string) Run {
	return h.RunContext(context.Background(), args...)
}

// RunContext is Run with a caller-supplied context.
func (h *Harness) RunContext(ctx context.Context, args ...string) Run {
	var stdout, stderr bytes.Buffer
	code := cli.Execute(ctx, append(h.Target(), args...), &stdout, &stderr)
	return Run{Code: code, Stdout: stdout.String(), Stderr: stderr.String()}
}

//go:build binary

// The tests in this file run the real cmd/teleclient binary as a child
// process, so they exercise flag parsing, exit statuses and stream
// separation exactly as a shell would see them.
//
// Build with: go test -tags=binary ./test/integration/...
// Set TELECLIENT_BINARY to a prebuilt binary to skip `go run`.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/backkem/teleclient/pkg/coaptest"
	"github.com/backkem/teleclient/pkg/message"
	"github.com/backkem/teleclient/test/integration/framework"
)

func newClientProcess(t *testing.T) *framework.ClientProcess {
	t.Helper()

	config := framework.ClientProcessConfig{
		PackagePath: filepath.Join("..", "..", "cmd", "teleclient"),
		BinaryPath:  os.Getenv("TELECLIENT_BINARY"),
		Env:         []string{"XDG_CONFIG_HOME=" + t.TempDir()},
		LogFile:     filepath.Join(t.TempDir(), "teleclient.log"),
	}
	p, err := framework.NewClientProcess(config)
	if err != nil {
		t.Fatalf("NewClientProcess() error = %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestBinary_ExitStatus(t *testing.T) {
	srv, err := coaptest.NewServer(coaptest.Config{
		Handler: coaptest.Respond(message.Content, []byte("on")),
	})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	defer srv.Close()

	target := []string{"--host", srv.Host(), "--port", strconv.Itoa(int(srv.Port()))}
	p := newClientProcess(t)

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "get",
			args:       append(target, "--method", "GET", "--path", "/light"),
			wantStdout: "2.05 Content\non\n",
		},
		{
			name:       "unsupported method",
			args:       append(target, "--method", "DELETE", "--path", "/light"),
			wantCode:   1,
			wantStderr: "Unsupported method: DELETE\n",
		},
		{
			name:     "missing path",
			args:     append(target, "--method", "GET"),
			wantCode: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := p.Run(context.Background(), tc.args...)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if res.ExitCode != tc.wantCode {
				t.Errorf("exit = %d, want %d (stderr %q)", res.ExitCode, tc.wantCode, res.Stderr)
			}
			if res.Stdout != tc.wantStdout {
				t.Errorf("stdout = %q, want %q", res.Stdout, tc.wantStdout)
			}
			if tc.wantStderr != "" && res.Stderr != tc.wantStderr {
				t.Errorf("stderr = %q, want %q", res.Stderr, tc.wantStderr)
			}
		})
	}
}

func TestBinary_Environment(t *testing.T) {
	srv, err := coaptest.NewServer(coaptest.Config{Handler: coaptest.Echo()})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	defer srv.Close()

	p, err := framework.NewClientProcess(framework.ClientProcessConfig{
		PackagePath: filepath.Join("..", "..", "cmd", "teleclient"),
		BinaryPath:  os.Getenv("TELECLIENT_BINARY"),
		Env: []string{
			"XDG_CONFIG_HOME=" + t.TempDir(),
			"TELECLIENT_HOST=" + srv.Host(),
			"TELECLIENT_PORT=" + strconv.Itoa(int(srv.Port())),
			"TELECLIENT_METHOD=POST",
			"TELECLIENT_PAYLOAD=from env",
		},
	})
	if err != nil {
		t.Fatalf("NewClientProcess() error = %v", err)
	}
	defer p.Close()

	res, err := p.Run(context.Background(), "--path", "/e")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.ExitCode != 0 || res.Stdout != "2.05 Content\nfrom env\n" {
		t.Errorf("exit = %d, stdout = %q, stderr = %q", res.ExitCode, res.Stdout, res.Stderr)
	}
}

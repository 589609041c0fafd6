// Package framework runs the teleclient binary as a child process for
// integration tests.
package framework

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
)

// ClientProcessConfig holds configuration for a client process.
type ClientProcessConfig struct {
	// PackagePath is the directory of the main package (e.g., "cmd/teleclient").
	// It is run with `go run .` unless BinaryPath is set.
	PackagePath string

	// BinaryPath is an already built binary. Takes precedence over PackagePath.
	BinaryPath string

	// Env holds extra KEY=VALUE pairs appended to the inherited environment.
	Env []string

	// Timeout bounds one invocation, build time included (default: 60s).
	Timeout time.Duration

	// LogFile is an optional path to write both output streams to.
	LogFile string
}

// ClientProcess launches the client binary once per Run.
type ClientProcess struct {
	config ClientProcessConfig

	mu      sync.Mutex
	logFile *os.File
}

// Result is the outcome of one invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Elapsed  time.Duration
}

// NewClientProcess creates a client process runner.
func NewClientProcess(config ClientProcessConfig) (*ClientProcess, error) {
	if config.PackagePath == "" && config.BinaryPath == "" {
		return nil, errors.New("framework: PackagePath or BinaryPath is required")
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	p := &ClientProcess{config: config}
	if config.LogFile != "" {
		f, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		p.logFile = f
	}
	return p, nil
}

// Run invokes the client with args and waits for it to exit.
// A non-zero exit status is reported in Result, not as an error.
func (p *ClientProcess) Run(ctx context.Context, args ...string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	cmd, err := p.command(ctx, args)
	if err != nil {
		return nil, err
	}
	cmd.Env = append(os.Environ(), p.config.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = p.tee(&stdout, "[teleclient stdout] ")
	cmd.Stderr = p.tee(&stderr, "[teleclient stderr] ")

	start := time.Now()
	err = cmd.Run()
	res := &Result{
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Elapsed: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		return res, fmt.Errorf("failed to run client: %w", err)
	}
	return res, nil
}

func (p *ClientProcess) command(ctx context.Context, args []string) (*exec.Cmd, error) {
	if p.config.BinaryPath != "" {
		return exec.CommandContext(ctx, p.config.BinaryPath, args...), nil
	}

	absPath, err := filepath.Abs(p.config.PackagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	cmd := exec.CommandContext(ctx, "go", append([]string{"run", "."}, args...)...)
	cmd.Dir = absPath
	return cmd, nil
}

func (p *ClientProcess) tee(buf *bytes.Buffer, prefix string) io.Writer {
	if p.logFile == nil {
		return buf
	}
	return io.MultiWriter(buf, &logWriter{prefix: prefix, process: p})
}

// Close releases the log file, if any.
func (p *ClientProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.logFile == nil {
		return nil
	}
	err := p.logFile.Close()
	p.logFile = nil
	return err
}

// logWriter prefixes each write with a stream label before it reaches the
// shared log file.
type logWriter struct {
	prefix  string
	process *ClientProcess
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.process.mu.Lock()
	defer w.process.mu.Unlock()

	if w.process.logFile != nil {
		fmt.Fprintf(w.process.logFile, "%s%s", w.prefix, p)
	}
	return len(p), nil
}

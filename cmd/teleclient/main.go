// teleclient sends one CoAP request over UDP and prints the matching
// response.
//
// Usage:
//
//	teleclient --host HOST --port N --method GET|POST --path /p [options]
//
// Options:
//
//	--payload   POST payload, sent as text/plain
//	--timeout   per-attempt timeout in milliseconds (default: 1000)
//	--retries   retries after the first attempt (default: 2)
//	--non       send a non-confirmable request
//	--verbose   per-attempt diagnostics on stderr
//	--output    raw, table, json or yaml (default: raw)
//	--metrics   Prometheus text metrics on stderr
//	--config    config file; TELECLIENT_* variables override it
//
// Example:
//
//	teleclient --host coap.me --port 5683 --method GET --path /hello
//	teleclient browse --output table
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/backkem/teleclient/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

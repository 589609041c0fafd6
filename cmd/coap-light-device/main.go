// coap-light-device is a CoAP on/off light example.
//
// It serves /light and /.well-known/core over UDP and advertises itself as
// a _coap._udp service so that `teleclient browse` can find it.
//
// Usage:
//
//	coap-light-device [options]
//
// Options:
//
//	-port       UDP port (default: 5683)
//	-name       DNS-SD instance name (default: "CoAP Light")
//	-advertise  register a _coap._udp service (default: true)
//	-log-level  pion log level (default: info)
//
// Example:
//
//	coap-light-device -port 5683 -name "Desk Lamp"
//	teleclient --host "Desk Lamp._coap._udp.local" --port 5683 --method POST --path /light --payload toggle
package main

import (
	"log"

	"github.com/backkem/teleclient/examples/common"
	"github.com/backkem/teleclient/examples/light"
)

func main() {
	opts := common.ParseFlags()
	if opts.Name == common.DefaultOptions().Name {
		opts.Name = "CoAP Light"
	}
	if err := opts.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	device, err := light.NewDevice(opts, &light.Config{
		LoggerFactory: common.NewLoggerFactory(opts.LogLevel),
		OnStateChange: func(on bool) {
			state := "OFF"
			if on {
				state = "ON"
			}
			log.Printf("Light is now %s", state)
		},
	})
	if err != nil {
		log.Fatalf("Failed to create light device: %v", err)
	}

	if err := common.RunDevice(device, opts); err != nil {
		log.Fatalf("Device error: %v", err)
	}
}

// h2scaffold serves a handful of static routes on a plaintext HTTP/1.1
// listener and a TLS listener that negotiates HTTP/2, recording the latency
// of every application request in a Prometheus histogram.
//
// Usage:
//
//	# Start both listeners (:3000 and :3001) with the default configuration
//	h2scaffold run
//
//	# Start with a configuration file and a .env file
//	h2scaffold run --config config.yaml --env-file .env
//
//	# Generate a development certificate at certs/server.crt and certs/server.key
//	h2scaffold certs generate
//
//	# Show version information
//	h2scaffold version
package main

import "os"

func main() {
	os.Exit(Execute(os.Args[1:]))
}

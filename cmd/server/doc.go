// Package main runs an example HTTP service traced with B3 propagation.
//
// Every request is recorded as a server span. Sampled or debug spans are
// encoded and handed to a background collector, which either POSTs them
// to a Zipkin-compatible collector or writes them as base64 lines through
// the "zipkin" logger.
//
// Configuration:
//   - Environment variables (12-factor)
//   - Optional YAML/TOML file (-config)
//   - CLI flags (override both)
//
// Usage:
//
//	# Log spans locally
//	ZIPKIN_SERVICE_NAME=hello ./server -port 8000
//
//	# Ship spans to a collector
//	./server -config ziptrace.yaml -collector http://zipkin:9411/api/spans
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown, queued spans are drained
package main

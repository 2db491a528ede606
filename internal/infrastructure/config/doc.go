// Package config provides 12-factor configuration for the tracing service.
//
// Values come from three layers, later layers winning:
//   - Default(): built-in defaults
//   - an optional YAML or TOML file (LoadFile)
//   - environment variables
//
// Environment Variables:
//   - ZIPKIN_SERVICE_NAME, ZIPKIN_LOGGER_NAME
//   - ZIPKIN_COLLECTOR_URL, ZIPKIN_COLLECTOR_TIMEOUT, ZIPKIN_GZIP
//   - ZIPKIN_QUEUE_SIZE, ZIPKIN_SEND_RPS
//   - PORT, HOST, LOG_LEVEL, LOG_DEV
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("reporting %s to %s\n", cfg.Zipkin.ServiceName, cfg.Zipkin.CollectorURL)
package config

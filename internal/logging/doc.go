// Package logging builds the uber/zap loggers used across the service.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for humans
//
// Span log lines are written through a child logger named after the
// configured zipkin logger name, so they can be routed or filtered on the
// "logger" key:
//
//	logger := logging.NewDefault()
//	spans := logger.Spans("zipkin")
//	spans.Info("span", zap.String("span", encoded))
package logging

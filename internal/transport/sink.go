package transport

import (
	"context"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/ziptrace/internal/codec"
)

// Sink delivers one encoded span.
type Sink interface {
	Send(ctx context.Context, payload []byte) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, payload []byte) error

// Send calls f.
func (f SinkFunc) Send(ctx context.Context, payload []byte) error {
	return f(ctx, payload)
}

// LogSink writes spans as base64 log lines.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a sink logging through a child of logger with the
// given name, e.g. "zipkin".
func NewLogSink(logger *zap.Logger, name string) *LogSink {
	if name != "" {
		logger = logger.Named(name)
	}
	return &LogSink{logger: logger}
}

// Send logs the payload at info level.
func (s *LogSink) Send(_ context.Context, payload []byte) error {
	s.logger.Info(codec.LogLine(payload))
	return nil
}

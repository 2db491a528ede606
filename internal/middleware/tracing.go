package middleware

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/ziptrace/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ziptrace/internal/propagation"
	"github.com/GriffinCanCode/ziptrace/internal/recorder"
	"github.com/GriffinCanCode/ziptrace/internal/trace"
)

// SpanReporter receives reportable spans.
type SpanReporter interface {
	Report(span *trace.Span) error
}

// Tracing holds what the HTTP and gRPC adapters share.
type Tracing struct {
	tracer   *recorder.Tracer
	reporter SpanReporter
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewTracing creates the adapters for tracer, reporting finished spans to
// reporter.
func NewTracing(tracer *recorder.Tracer, reporter SpanReporter) *Tracing {
	return &Tracing{
		tracer:   tracer,
		reporter: reporter,
		logger:   tracer.Logger(),
		metrics:  tracer.Metrics(),
	}
}

// guard runs fn and converts a panic into a log record.
func (t *Tracing) guard(stage string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("tracing fault isolated",
				zap.String("stage", stage),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
		}
	}()
	fn()
}

// start parses inbound propagation data and starts rec.
func (t *Tracing) start(rec *recorder.Recorder, c propagation.Carrier, name string) {
	inbound, err := propagation.Extract(c)
	if err != nil {
		t.logHeaderErrors(err)
	}
	rec.Start(inbound, name)
}

// finish ends the span and reports it when reportable.
func (t *Tracing) finish(rec *recorder.Recorder) {
	span, ok := rec.Finish()
	if !ok {
		return
	}
	if err := t.reporter.Report(span); err != nil {
		t.logger.Error("failed to report span",
			zap.Error(err),
			zap.String("trace_id", span.TraceID.Hex()),
			zap.String("span_id", span.ID.Hex()),
		)
	}
}

func (t *Tracing) logHeaderErrors(err error) {
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}
	for _, e := range errs {
		var herr *propagation.HeaderError
		if errors.As(e, &herr) {
			t.metrics.IncMalformedHeader(herr.Header)
			t.logger.Warn("ignoring malformed trace header",
				zap.String("header", herr.Header),
				zap.String("value", herr.Value),
			)
			continue
		}
		t.logger.Warn("ignoring malformed trace header", zap.Error(e))
	}
}

// InjectHTTP writes the child context of the recorder carried by req's
// context into req's headers. It reports whether anything was written.
func InjectHTTP(req *http.Request) bool {
	rec, ok := recorder.FromContext(req.Context())
	if !ok {
		return false
	}
	child, ok := rec.ChildContext()
	if !ok {
		return false
	}
	propagation.InjectHeaders(child, req.Header)
	return true
}

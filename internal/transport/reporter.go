package transport

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/ziptrace/internal/codec"
	"github.com/GriffinCanCode/ziptrace/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ziptrace/internal/trace"
)

// Submitter accepts encoded spans without blocking.
type Submitter interface {
	Submit(payload []byte) bool
}

// Reporter encodes finished spans and hands them to a Submitter.
type Reporter struct {
	out     Submitter
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewReporter creates a reporter. logger and metrics may be nil.
func NewReporter(out Submitter, logger *zap.Logger, metrics *monitoring.Metrics) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{out: out, logger: logger, metrics: metrics}
}

// Report encodes span and submits it. Encoding failures are returned so
// the caller can record them; a full queue is not an error.
func (r *Reporter) Report(span *trace.Span) error {
	payload, err := codec.Encode(span)
	if err != nil {
		r.metrics.IncEncodingErrors()
		r.metrics.RecordSpanFinished(monitoring.OutcomeEncodeFail)
		return fmt.Errorf("report span: %w", err)
	}
	r.metrics.ObserveSpanBytes(len(payload))

	if !r.out.Submit(payload) {
		r.logger.Debug("span not queued",
			zap.String("trace_id", span.TraceID.Hex()),
			zap.String("span_id", span.ID.Hex()),
		)
	}
	return nil
}

package recorder

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/ziptrace/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ziptrace/internal/trace"
)

// ErrMissingContext describes a recorder call made before a context was
// established. It is logged, never returned to callers.
var ErrMissingContext = errors.New("no trace context established")

// Phase is the lifecycle position of a Recorder.
type Phase int

const (
	PhaseUnstarted Phase = iota
	PhaseActive
	PhaseFinished
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseUnstarted:
		return "unstarted"
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Recorder accumulates the events and annotations of one unit of work.
// Its methods are safe for concurrent sub-operations of that unit.
type Recorder struct {
	store   trace.Store
	gen     trace.Generator
	host    *trace.Endpoint
	now     func() time.Time
	logger  *zap.Logger
	metrics *monitoring.Metrics

	mu sync.Mutex
	// poolGen changes each time the recorder goes back to its pool.
	poolGen uint64
	phase   Phase
	name    string
	events  []trace.Annotation
	values  []trace.BinaryAnnotation
}

// Reset clears the store and all recorded data and returns the recorder
// to PhaseUnstarted.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetLocked()
}

func (r *Recorder) resetLocked() {
	r.store.Clear()
	r.phase = PhaseUnstarted
	r.name = ""
	r.events = r.events[:0]
	r.values = r.values[:0]
}

// Start establishes the context for this unit of work from inbound
// propagation data and records the "sr" event. A non-empty name becomes
// the rpc name.
func (r *Recorder) Start(inbound trace.Context, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.startLocked(inbound, name)
}

func (r *Recorder) startLocked(inbound trace.Context, name string) {
	r.resetLocked()

	ctx := trace.Context{
		TraceID:      inbound.TraceID,
		ParentSpanID: inbound.SpanID,
		Sampled:      inbound.Sampled,
		Flags:        inbound.Flags,
	}
	if !ctx.TraceID.IsValid() {
		ctx.TraceID = r.gen.TraceID()
	}
	// Every hop is a new child span, even when the caller sent a span id.
	ctx.SpanID = r.gen.SpanID()

	r.store.Set(ctx)
	r.phase = PhaseActive
	r.name = name
	r.metrics.IncSpansStarted()
	r.appendEventLocked(trace.ServerRecv)
}

// RecordEvent appends a timestamped event.
func (r *Recorder) RecordEvent(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recordEventLocked(name)
}

func (r *Recorder) recordEventLocked(name string) {
	if !r.activeLocked("record_event", zap.String("event", name)) {
		return
	}
	r.appendEventLocked(name)
}

// generation returns the pool generation the recorder is serving.
func (r *Recorder) generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.poolGen
}

// retire moves the recorder to a new generation and clears it, so calls
// made through contexts of the finished unit of work are dropped.
func (r *Recorder) retire() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.poolGen++
	r.resetLocked()
}

// currentLocked reports whether gen is still the recorder's generation,
// logging the stale call otherwise.
func (r *Recorder) currentLocked(gen uint64, op string) bool {
	if r.poolGen == gen {
		return true
	}
	r.logger.Warn("dropping call through released recorder",
		zap.Error(ErrMissingContext),
		zap.String("operation", op),
	)
	r.metrics.IncMissingContext("stale_context")
	return false
}

// RecordKeyValue appends a key/value annotation. The value keeps its Go
// type until the span is encoded.
func (r *Recorder) RecordKeyValue(key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recordKeyValueLocked(key, value)
}

func (r *Recorder) recordKeyValueLocked(key string, value any) {
	if !r.activeLocked("record_key_value", zap.String("key", key)) {
		return
	}
	r.values = append(r.values, trace.BinaryAnnotation{Key: key, Value: value, Host: r.host})
}

// SetRPCName sets or replaces the operation name of the span.
func (r *Recorder) SetRPCName(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.activeLocked("set_rpc_name", zap.String("name", name)) {
		return
	}
	r.name = name
}

// Finish records the "ss" event and ends the unit of work. It returns the
// frozen span and true when the context is reportable, otherwise nil and
// false. Calling Finish without Start starts an empty context first and
// marks the span with trace.NoPriorContext.
func (r *Recorder) Finish() (*trace.Span, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase == PhaseFinished {
		r.logger.Warn("recorder already finished")
		return nil, false
	}

	if r.phase == PhaseUnstarted || !r.store.Get().Established() {
		r.logger.Warn("finishing span without trace context",
			zap.Error(ErrMissingContext),
			zap.Stringer("state", r.store.Get().State()),
		)
		r.metrics.IncMissingContext("finish")
		r.startLocked(trace.Context{}, "")
		r.appendEventLocked(trace.NoPriorContext)
	}

	r.appendEventLocked(trace.ServerSend)
	r.phase = PhaseFinished

	ctx := r.store.Get()
	if !ctx.Reportable() {
		r.metrics.RecordSpanFinished(monitoring.OutcomeUnsampled)
		return nil, false
	}
	r.metrics.RecordSpanFinished(monitoring.OutcomeReported)
	return r.spanLocked(ctx), true
}

// Span returns a copy of everything recorded so far, whether or not the
// context is reportable.
func (r *Recorder) Span() *trace.Span {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.spanLocked(r.store.Get())
}

// Context returns the active trace context.
func (r *Recorder) Context() trace.Context {
	return r.store.Get()
}

// Reportable reports whether the active context will be emitted on Finish.
func (r *Recorder) Reportable() bool {
	return r.store.Get().Reportable()
}

// State describes how much of the trace context has been established.
func (r *Recorder) State() trace.State {
	return r.store.Get().State()
}

// Phase returns the lifecycle phase.
func (r *Recorder) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// ChildContext returns the context to propagate to a downstream call made
// during this unit of work. The second result is false when no context has
// been established.
func (r *Recorder) ChildContext() (trace.Context, bool) {
	ctx := r.store.Get()
	if !ctx.Established() {
		return trace.Context{}, false
	}
	return ctx.Child(r.gen.SpanID()), true
}

func (r *Recorder) activeLocked(op string, field zap.Field) bool {
	if r.phase == PhaseActive && r.store.Get().Established() {
		return true
	}
	r.logger.Warn("dropping annotation without trace context",
		zap.Error(ErrMissingContext),
		zap.String("operation", op),
		zap.Stringer("phase", r.phase),
		zap.Stringer("state", r.store.Get().State()),
		field,
	)
	r.metrics.IncMissingContext(op)
	return false
}

func (r *Recorder) appendEventLocked(name string) {
	r.events = append(r.events, trace.Annotation{
		Value:     name,
		Timestamp: trace.Micros(r.now()),
		Host:      r.host,
	})
}

func (r *Recorder) spanLocked(ctx trace.Context) *trace.Span {
	span := &trace.Span{
		TraceID:  ctx.TraceID,
		ID:       ctx.SpanID,
		ParentID: ctx.ParentSpanID,
		Name:     r.name,
		Debug:    ctx.Debug(),
	}
	if len(r.events) > 0 {
		span.Annotations = append([]trace.Annotation(nil), r.events...)
		first, last := r.events[0].Timestamp, r.events[len(r.events)-1].Timestamp
		span.Timestamp = first
		span.Duration = last - first
	}
	if len(r.values) > 0 {
		span.BinaryAnnotations = append([]trace.BinaryAnnotation(nil), r.values...)
	}
	return span
}

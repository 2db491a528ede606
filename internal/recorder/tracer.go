package recorder

import (
	"encoding/binary"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/ziptrace/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ziptrace/internal/trace"
)

// Config configures a Tracer.
type Config struct {
	// ServiceName is attached to every annotation when set.
	ServiceName string
	// IP and Port describe the local host in annotations. Optional.
	IP   net.IP
	Port int
	// Generator defaults to trace.DefaultGenerator().
	Generator trace.Generator
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Tracer builds recorders that share a generator, host endpoint, logger
// and metrics.
type Tracer struct {
	gen     trace.Generator
	host    *trace.Endpoint
	now     func() time.Time
	logger  *zap.Logger
	metrics *monitoring.Metrics
	pool    sync.Pool
}

// NewTracer creates a tracer. logger and metrics may be nil.
func NewTracer(cfg Config, logger *zap.Logger, metrics *monitoring.Metrics) *Tracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracer{
		gen:     cfg.Generator,
		host:    endpoint(cfg),
		now:     cfg.Clock,
		logger:  logger,
		metrics: metrics,
	}
	if t.gen == nil {
		t.gen = trace.DefaultGenerator()
	}
	if t.now == nil {
		t.now = time.Now
	}
	t.pool.New = func() any {
		return t.NewRecorder(trace.NewLocalStore())
	}
	return t
}

// NewRecorder creates a recorder over the given store.
func (t *Tracer) NewRecorder(store trace.Store) *Recorder {
	return &Recorder{
		store:   store,
		gen:     t.gen,
		host:    t.host,
		now:     t.now,
		logger:  t.logger,
		metrics: t.metrics,
	}
}

// Acquire returns a cleared recorder from the pool.
func (t *Tracer) Acquire() *Recorder {
	r := t.pool.Get().(*Recorder)
	r.Reset()
	return r
}

// Release returns a recorder to the pool. The caller must not use it
// afterwards.
func (t *Tracer) Release(r *Recorder) {
	if r == nil {
		return
	}
	r.retire()
	t.pool.Put(r)
}

// Logger returns the tracer's logger.
func (t *Tracer) Logger() *zap.Logger { return t.logger }

// Metrics returns the tracer's metrics, possibly nil.
func (t *Tracer) Metrics() *monitoring.Metrics { return t.metrics }

// Endpoint returns the host endpoint attached to annotations, or nil.
func (t *Tracer) Endpoint() *trace.Endpoint { return t.host }

func endpoint(cfg Config) *trace.Endpoint {
	ep := trace.Endpoint{
		ServiceName: cfg.ServiceName,
		Port:        int16(uint16(cfg.Port)),
	}
	if ip4 := cfg.IP.To4(); ip4 != nil {
		ep.IPv4 = int32(binary.BigEndian.Uint32(ip4))
	}
	if ep.IsZero() {
		return nil
	}
	return &ep
}

package transport

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/ziptrace/internal/infrastructure/monitoring"
)

// CollectorConfig configures a Collector.
type CollectorConfig struct {
	// QueueSize is the number of spans buffered for delivery.
	QueueSize int
	// SendTimeout bounds each Sink.Send call.
	SendTimeout time.Duration
}

// DefaultCollectorConfig returns production-ready collector settings.
func DefaultCollectorConfig() CollectorConfig {
	return CollectorConfig{
		QueueSize:   1000,
		SendTimeout: 10 * time.Second,
	}
}

// Collector delivers encoded spans to a Sink on a background goroutine.
type Collector struct {
	sink    Sink
	timeout time.Duration
	logger  *zap.Logger
	metrics *monitoring.Metrics

	mu     sync.RWMutex
	closed bool
	queue  chan []byte
	done   chan struct{}
}

// NewCollector starts a collector. logger and metrics may be nil.
func NewCollector(sink Sink, cfg CollectorConfig, logger *zap.Logger, metrics *monitoring.Metrics) *Collector {
	defaults := DefaultCollectorConfig()
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaults.QueueSize
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaults.SendTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Collector{
		sink:    sink,
		timeout: cfg.SendTimeout,
		logger:  logger,
		metrics: metrics,
		queue:   make(chan []byte, cfg.QueueSize),
		done:    make(chan struct{}),
	}

	go c.run()

	return c
}

// Submit enqueues an encoded span without blocking. It returns false when
// the span was dropped because the queue is full or the collector closed.
func (c *Collector) Submit(payload []byte) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		c.drop("collector closed", len(payload))
		return false
	}

	select {
	case c.queue <- payload:
		c.metrics.SetQueueDepth(len(c.queue))
		return true
	default:
		c.drop("span buffer full, dropping span", len(payload))
		return false
	}
}

// Close stops accepting spans and waits until queued spans are delivered
// or ctx is done.
func (c *Collector) Close(ctx context.Context) error {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.queue)
	}
	c.mu.Unlock()

	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Collector) run() {
	defer close(c.done)

	for payload := range c.queue {
		c.metrics.SetQueueDepth(len(c.queue))
		c.deliver(payload)
	}
}

func (c *Collector) deliver(payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	timer := monitoring.NewTimer(c.metrics)
	if err := c.sink.Send(ctx, payload); err != nil {
		timer.Stop(monitoring.StatusError)
		c.logger.Warn("span delivery failed", zap.Error(err), zap.Int("bytes", len(payload)))
		return
	}
	timer.Stop(monitoring.StatusOK)
}

func (c *Collector) drop(reason string, size int) {
	c.metrics.RecordSend(monitoring.StatusDropped, 0)
	c.logger.Warn(reason, zap.Int("bytes", size))
}

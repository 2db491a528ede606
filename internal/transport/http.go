package transport

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/ziptrace/internal/infrastructure/resilience"
)

// ContentType is sent with every span POST.
const ContentType = "application/x-zipkin-span"

// HTTPConfig configures an HTTPSink.
type HTTPConfig struct {
	URL     string
	Timeout time.Duration
	// RetryMax is the number of retries after the first attempt.
	RetryMax int
	// Gzip compresses request bodies.
	Gzip bool
	// RequestsPerSecond caps the send rate. Zero means unlimited.
	RequestsPerSecond float64
	Burst             int
	// Breaker overrides the default collector breaker settings.
	Breaker resilience.Settings
}

// DefaultHTTPConfig returns production-ready sink settings for url.
func DefaultHTTPConfig(url string) HTTPConfig {
	return HTTPConfig{
		URL:      url,
		Timeout:  5 * time.Second,
		RetryMax: 2,
		Gzip:     true,
	}
}

// HTTPSink POSTs encoded spans to a collector.
type HTTPSink struct {
	url     string
	gzip    bool
	client  *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
}

// NewHTTPSink creates a sink for cfg.URL.
func NewHTTPSink(cfg HTTPConfig, logger *zap.Logger) *HTTPSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = 50 * time.Millisecond
	retryClient.RetryWaitMax = time.Second
	retryClient.Logger = nil

	restyClient := resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", ContentType).
		SetHeader("User-Agent", "ziptrace/1.0")

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	settings := cfg.Breaker
	if settings.OnStateChange == nil {
		settings.OnStateChange = func(name string, from, to resilience.State) {
			logger.Warn("collector breaker state change",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		}
	}

	return &HTTPSink{
		url:     cfg.URL,
		gzip:    cfg.Gzip,
		client:  restyClient,
		limiter: limiter,
		breaker: resilience.New("collector", settings),
	}
}

// Send posts one span. It waits for the rate limiter and fails fast while
// the breaker is open.
func (s *HTTPSink) Send(ctx context.Context, payload []byte) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	req := s.client.R().SetContext(ctx)
	body := payload
	if s.gzip {
		compressed, err := compress(payload)
		if err != nil {
			return err
		}
		body = compressed
		req.SetHeader("Content-Encoding", "gzip")
	}
	req.SetBody(body)

	return s.breaker.Execute(func() error {
		resp, err := req.Post(s.url)
		if err != nil {
			return fmt.Errorf("post span: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("collector returned %s", resp.Status())
		}
		return nil
	})
}

// Breaker exposes the sink's circuit breaker.
func (s *HTTPSink) Breaker() *resilience.Breaker { return s.breaker }

func compress(payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		return nil, fmt.Errorf("gzip span: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip span: %w", err)
	}
	return buf.Bytes(), nil
}

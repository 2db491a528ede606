package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/GriffinCanCode/ziptrace/internal/infrastructure/config"
	"github.com/GriffinCanCode/ziptrace/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ziptrace/internal/logging"
	"github.com/GriffinCanCode/ziptrace/internal/middleware"
	"github.com/GriffinCanCode/ziptrace/internal/recorder"
	"github.com/GriffinCanCode/ziptrace/internal/transport"
)

// Server wraps the HTTP server and its tracing dependencies
type Server struct {
	cfg       *config.Config
	logger    *logging.Logger
	registry  *prometheus.Registry
	metrics   *monitoring.Metrics
	tracer    *recorder.Tracer
	tracing   *middleware.Tracing
	collector *transport.Collector
	router    *gin.Engine
	http      *http.Server
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = logging.Nop()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(registry)

	sink := newSink(cfg.Zipkin, logger)
	collector := transport.NewCollector(sink, transport.CollectorConfig{
		QueueSize: cfg.Zipkin.QueueSize,
	}, logger.Logger, metrics)
	reporter := transport.NewReporter(collector, logger.Logger, metrics)

	port, _ := strconv.Atoi(cfg.Server.Port)
	tracer := recorder.NewTracer(recorder.Config{
		ServiceName: cfg.Zipkin.ServiceName,
		IP:          net.ParseIP(cfg.Server.Host),
		Port:        port,
	}, logger.Logger, metrics)
	tracing := middleware.NewTracing(tracer, reporter)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(tracing.Gin())

	s := &Server{
		cfg:       cfg,
		logger:    logger,
		registry:  registry,
		metrics:   metrics,
		tracer:    tracer,
		tracing:   tracing,
		collector: collector,
		router:    router,
	}
	s.routes()

	s.http = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("tracing configured",
		zap.String("service", cfg.Zipkin.ServiceName),
		zap.String("collector", collectorTarget(cfg.Zipkin)),
		zap.Int("queue_size", cfg.Zipkin.QueueSize),
	)
	return s, nil
}

func newSink(cfg config.ZipkinConfig, logger *logging.Logger) transport.Sink {
	if cfg.CollectorURL == "" {
		return transport.NewLogSink(logger.Logger, cfg.LoggerName)
	}
	httpCfg := transport.DefaultHTTPConfig(cfg.CollectorURL)
	httpCfg.Timeout = cfg.CollectorTimeout.Std()
	httpCfg.Gzip = cfg.Gzip
	httpCfg.RequestsPerSecond = cfg.SendRPS
	return transport.NewHTTPSink(httpCfg, logger.Named("collector"))
}

func collectorTarget(cfg config.ZipkinConfig) string {
	if cfg.CollectorURL != "" {
		return cfg.CollectorURL
	}
	return "log:" + cfg.LoggerName
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.health)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	s.router.GET("/hello/:name", s.hello)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// hello is a demo handler showing in-request annotation.
func (s *Server) hello(c *gin.Context) {
	ctx := c.Request.Context()
	name := c.Param("name")

	recorder.Annotate(ctx, "hello.name_length", int32(len(name)))
	recorder.Event(ctx, "hello.rendered")

	c.JSON(http.StatusOK, gin.H{"message": "hello, " + name})
}

// Handler returns the HTTP handler, for embedding and tests.
func (s *Server) Handler() http.Handler { return s.router }

// Tracing returns the adapters shared by HTTP and gRPC.
func (s *Server) Tracing() *middleware.Tracing { return s.tracing }

// GRPCServerOptions returns the options tracing a gRPC server with the
// same tracer and reporter as the HTTP routes.
func (s *Server) GRPCServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(s.tracing.UnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(s.tracing.StreamServerInterceptor()),
	}
}

// Run starts the server and blocks until it is closed.
func (s *Server) Run() error {
	s.logger.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops the HTTP server, then drains queued spans.
func (s *Server) Close(ctx context.Context) error {
	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http: %w", err))
	}
	if err := s.collector.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("drain spans: %w", err))
	}
	_ = s.logger.Sync()
	return errors.Join(errs...)
}

package server

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/GriffinCanCode/ziptrace/internal/codec"
	"github.com/GriffinCanCode/ziptrace/internal/infrastructure/config"
	"github.com/GriffinCanCode/ziptrace/internal/logging"
	"github.com/GriffinCanCode/ziptrace/internal/recorder"
	"github.com/GriffinCanCode/ziptrace/internal/trace"
)

type fakeCollector struct {
	mu    sync.Mutex
	spans []*trace.Span
	types []string
}

func (f *fakeCollector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	span, err := codec.Decode(body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.spans = append(f.spans, span)
	f.types = append(f.types, r.Header.Get("Content-Type"))
	f.mu.Unlock()
	w.WriteHeader(http.StatusAccepted)
}

func (f *fakeCollector) Spans() []*trace.Span {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*trace.Span(nil), f.spans...)
}

func (f *fakeCollector) ContentTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.types...)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Zipkin.ServiceName = "hello-svc"
	return cfg
}

func closeServer(t *testing.T, srv *Server) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Close(ctx))
}

func TestServerReportsToHTTPCollector(t *testing.T) {
	collector := &fakeCollector{}
	ts := httptest.NewServer(collector)
	defer ts.Close()

	cfg := testConfig()
	cfg.Zipkin.CollectorURL = ts.URL
	cfg.Zipkin.Gzip = false

	srv, err := NewServer(cfg, logging.Nop())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/hello/world", nil)
	req.Header.Set("X-B3-TraceId", "00000000000004d2")
	req.Header.Set("X-B3-Sampled", "1")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"hello, world"}`, w.Body.String())
	assert.Equal(t, "00000000000004d2", w.Header().Get("X-B3-TraceId"))

	closeServer(t, srv)

	spans := collector.Spans()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, int64(1234), span.TraceID.Binary())
	assert.Equal(t, "GET", span.Name)

	length, ok := span.BinaryAnnotation("hello.name_length")
	require.True(t, ok)
	assert.Equal(t, int32(5), length.Value)
	require.NotNil(t, length.Host)
	assert.Equal(t, "hello-svc", length.Host.ServiceName)

	_, ok = span.Annotation("hello.rendered")
	assert.True(t, ok)

	assert.Equal(t, []string{"application/x-zipkin-span"}, collector.ContentTypes())
}

func TestServerLogsSpansWithoutCollector(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	srv, err := NewServer(testConfig(), logging.Wrap(zap.New(core)))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/hello/x", nil)
	req.Header.Set("X-B3-Flags", "1")
	srv.Handler().ServeHTTP(httptest.NewRecorder(), req)

	closeServer(t, srv)

	var lines []observer.LoggedEntry
	for _, e := range logs.All() {
		if e.LoggerName == "zipkin" {
			lines = append(lines, e)
		}
	}
	require.Len(t, lines, 1)

	raw, err := base64.StdEncoding.DecodeString(lines[0].Message)
	require.NoError(t, err)
	span, err := codec.Decode(raw)
	require.NoError(t, err)
	assert.True(t, span.Debug)
}

func TestServerHealthAndMetrics(t *testing.T) {
	srv, err := NewServer(testConfig(), logging.Nop())
	require.NoError(t, err)
	defer closeServer(t, srv)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ziptrace_spans_started_total")
	assert.Contains(t, w.Body.String(), "ziptrace_http_requests_total")
}

func TestServerUnsampledRequestsAreNotDelivered(t *testing.T) {
	collector := &fakeCollector{}
	ts := httptest.NewServer(collector)
	defer ts.Close()

	cfg := testConfig()
	cfg.Zipkin.CollectorURL = ts.URL

	srv, err := NewServer(cfg, logging.Nop())
	require.NoError(t, err)

	srv.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/hello/quiet", nil))
	closeServer(t, srv)

	assert.Empty(t, collector.Spans())
}

func TestNewServerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Zipkin.QueueSize = 0

	_, err := NewServer(cfg, nil)
	assert.ErrorContains(t, err, "queue size")
}

func TestGRPCServerOptions(t *testing.T) {
	srv, err := NewServer(testConfig(), logging.Nop())
	require.NoError(t, err)
	defer closeServer(t, srv)

	opts := srv.GRPCServerOptions()
	assert.Len(t, opts, 2)

	gs := grpc.NewServer(opts...)
	gs.Stop()
}

func TestServerTracingSharedWithGRPC(t *testing.T) {
	collector := &fakeCollector{}
	ts := httptest.NewServer(collector)
	defer ts.Close()

	cfg := testConfig()
	cfg.Zipkin.CollectorURL = ts.URL
	cfg.Zipkin.Gzip = false

	srv, err := NewServer(cfg, logging.Nop())
	require.NoError(t, err)

	interceptor := srv.Tracing().UnaryServerInterceptor()
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-b3-sampled", "1"))
	info := &grpc.UnaryServerInfo{FullMethod: "/hello.Greeter/SayHello"}

	_, err = interceptor(ctx, nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		recorder.Event(ctx, "greeter.called")
		return nil, nil
	})
	require.NoError(t, err)

	closeServer(t, srv)

	spans := collector.Spans()
	require.Len(t, spans, 1)
	assert.Equal(t, "/hello.Greeter/SayHello", spans[0].Name)
	_, ok := spans[0].Annotation("greeter.called")
	assert.True(t, ok)
	require.NotNil(t, spans[0].Annotations[0].Host)
	assert.Equal(t, "hello-svc", spans[0].Annotations[0].Host.ServiceName)
}

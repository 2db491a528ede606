package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncSpansStarted()
		m.RecordSpanFinished(OutcomeReported)
		m.IncMissingContext("record_event")
		m.IncMalformedHeader("X-B3-TraceId")
		m.IncEncodingErrors()
		m.ObserveSpanBytes(10)
		m.SetQueueDepth(3)
		m.RecordSend(StatusOK, time.Millisecond)
		m.RecordHTTPRequest("GET", "/", "200", time.Millisecond)
		NewTimer(m).Stop(StatusOK)
	})
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.IncSpansStarted()
	m.IncSpansStarted()
	m.RecordSpanFinished(OutcomeReported)
	m.RecordSpanFinished(OutcomeUnsampled)
	m.RecordSpanFinished(OutcomeUnsampled)
	m.IncMissingContext("finish")
	m.RecordSend(StatusDropped, 0)
	m.SetQueueDepth(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SpansStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SpansFinished.WithLabelValues(OutcomeReported)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SpansFinished.WithLabelValues(OutcomeUnsampled)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MissingContext.WithLabelValues("finish")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Sends.WithLabelValues(StatusDropped)))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.QueueDepth))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics(prometheus.NewRegistry())

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/items/:id", func(c *gin.Context) {
		c.Status(http.StatusAccepted)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/7", nil))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/items/:id", "202")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

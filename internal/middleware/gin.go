package middleware

import (
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ziptrace/internal/propagation"
	"github.com/GriffinCanCode/ziptrace/internal/recorder"
	"github.com/GriffinCanCode/ziptrace/internal/trace"
)

// Gin creates Gin middleware tracing each request.
func (t *Tracing) Gin() gin.HandlerFunc {
	return func(c *gin.Context) {
		rec := t.tracer.Acquire()
		defer t.tracer.Release(rec)

		t.guard("request", func() { t.processRequest(c, rec) })
		t.guard("view", func() { t.processView(c, rec) })

		c.Request = c.Request.WithContext(recorder.NewContext(c.Request.Context(), rec))

		defer func() {
			if p := recover(); p != nil {
				t.guard("response", func() { t.processPanic(rec, p) })
				panic(p)
			}
			t.guard("response", func() { t.processResponse(c, rec) })
		}()
		c.Next()
	}
}

func (t *Tracing) processRequest(c *gin.Context, rec *recorder.Recorder) {
	t.start(rec, propagation.HeaderCarrier(c.Request.Header), c.Request.Method)
	rec.RecordKeyValue(trace.AnnotationHTTPURI, c.Request.URL.RequestURI())
	if c.Request.Host != "" {
		rec.RecordKeyValue(trace.AnnotationHTTPHost, c.Request.Host)
	}

	if ctx := rec.Context(); ctx.Established() {
		c.Header(trace.TraceIDHeader, ctx.TraceID.Hex())
	}
}

func (t *Tracing) processView(c *gin.Context, rec *recorder.Recorder) {
	if route := c.FullPath(); route != "" {
		rec.RecordKeyValue(trace.AnnotationRoute, route)
	}
	rec.RecordKeyValue(trace.AnnotationHandler, c.HandlerName())

	if len(c.Params) == 0 {
		return
	}
	params := make(map[string]string, len(c.Params))
	for _, p := range c.Params {
		params[p.Key] = p.Value
	}
	encoded, err := sonic.ConfigStd.MarshalToString(params)
	if err != nil {
		t.logger.Warn("failed to encode route params", zap.Error(err))
		return
	}
	rec.RecordKeyValue(trace.AnnotationParams, encoded)
}

func (t *Tracing) processResponse(c *gin.Context, rec *recorder.Recorder) {
	rec.RecordKeyValue(trace.AnnotationHTTPStatusCode, c.Writer.Status())
	if err := c.Errors.Last(); err != nil {
		rec.RecordKeyValue(trace.AnnotationError, err.Error())
	}
	t.finish(rec)
}

// processPanic finishes the span of a handler that panicked. Recovery
// middleware further up writes the 500 after this runs.
func (t *Tracing) processPanic(rec *recorder.Recorder, p any) {
	rec.RecordKeyValue(trace.AnnotationHTTPStatusCode, http.StatusInternalServerError)
	rec.RecordKeyValue(trace.AnnotationError, fmt.Sprint(p))
	t.finish(rec)
}

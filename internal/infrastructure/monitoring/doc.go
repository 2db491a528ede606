/*
Package monitoring provides Prometheus metrics for the tracing engine.

# Overview

Tracing is best-effort, so its faults never reach callers. These metrics
are where they show up instead: spans that could not be encoded, recorder
calls made without a context, malformed propagation headers, and spans the
collector had to drop.

# Metrics

  - ziptrace_spans_started_total
  - ziptrace_spans_finished_total{outcome}
  - ziptrace_missing_context_total{operation}
  - ziptrace_malformed_headers_total{header}
  - ziptrace_encoding_errors_total
  - ziptrace_span_bytes
  - ziptrace_collector_queue_depth
  - ziptrace_collector_sends_total{status}
  - ziptrace_collector_send_duration_seconds
  - ziptrace_http_requests_total{method,path,status}
  - ziptrace_http_request_duration_seconds{method,path}

# Usage

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

A nil *Metrics is valid and records nothing.
*/
package monitoring

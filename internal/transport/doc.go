/*
Package transport ships encoded spans to a tracing collector.

# Overview

Delivery is best-effort and never blocks a request:

	Reporter.Report(span)      encode on the request goroutine
	   -> Collector.Submit     non-blocking enqueue, drop when full
	      -> Sink.Send         background goroutine, bounded by a timeout

# Sinks

  - LogSink writes each span as one base64 log line through a named zap
    logger, for shipping by a log daemon.
  - HTTPSink POSTs the encoded bytes to a collector endpoint with retries,
    a rate limit, optional gzip and a circuit breaker.

# Usage

	sink := transport.NewHTTPSink(transport.HTTPConfig{URL: url}, logger)
	collector := transport.NewCollector(sink, transport.CollectorConfig{}, logger, metrics)
	defer collector.Close(ctx)

	reporter := transport.NewReporter(collector, logger, metrics)
	reporter.Report(span)
*/
package transport

// Package server wires the tracing engine into an example HTTP service.
//
// Server Lifecycle:
//  1. Load configuration from file/environment
//  2. Build the logger and a private Prometheus registry
//  3. Choose the span sink: HTTP collector when a URL is configured,
//     otherwise the named span logger
//  4. Start the asynchronous collector and reporter
//  5. Install metrics and tracing middleware, register routes
//  6. Serve until Close, then drain queued spans
//
// Routes:
//   - GET /healthz
//   - GET /metrics
//   - GET /hello/:name (annotated demo handler)
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg, logging.NewDefault())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server

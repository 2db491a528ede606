// Package middleware connects HTTP and gRPC servers to the span recorder.
//
// Each request gets a pooled recorder. The middleware drives it through
// three lifecycle points:
//   - Inbound received: B3 headers are parsed and the recorder started
//     with the HTTP method (or gRPC method) as rpc name and "http.uri".
//   - Metadata available: route template, handler name and path params.
//   - Outbound about to send: status code recorded, span finished and,
//     when reportable, encoded and queued for delivery.
//
// Tracing never breaks a request. Every lifecycle step runs inside a guard
// that recovers panics and logs them; header and encoding errors are
// logged and counted. The handler always runs.
//
// Example Usage:
//
//	tracing := middleware.NewTracing(tracer, reporter)
//	router.Use(tracing.Gin())
//
//	grpc.NewServer(
//		grpc.UnaryInterceptor(tracing.UnaryServerInterceptor()),
//		grpc.StreamInterceptor(tracing.StreamServerInterceptor()),
//	)
//	grpc.NewClient(addr, grpc.WithUnaryInterceptor(middleware.UnaryClientInterceptor()))
package middleware

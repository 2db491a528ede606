// Package propagation reads and writes B3 trace headers.
//
// Inbound, Extract turns X-B3-* headers into a trace.Context. A malformed
// identifier is treated as absent and reported through the returned error
// so the caller can log it; it never prevents the request from being
// traced. Outbound, Inject writes a context for the next hop.
//
// Carriers adapt the two transports the middleware serves:
//
//	propagation.HeaderCarrier(req.Header)
//	propagation.MetadataCarrier(md)
package propagation

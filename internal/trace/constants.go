package trace

// Core event names.
const (
	ServerSend     = "ss"
	ServerRecv     = "sr"
	NoPriorContext = "recorder.no_prior_context"
)

// Well-known key/value annotations.
const (
	AnnotationHTTPURI        = "http.uri"
	AnnotationHTTPStatusCode = "http.statuscode"
	AnnotationHTTPHost       = "http.host"
	AnnotationHandler        = "gin.handler"
	AnnotationRoute          = "gin.route"
	AnnotationParams         = "gin.params"
	AnnotationRPCMethod      = "rpc.method"
	AnnotationError          = "error"
)

// B3 propagation header names.
const (
	TraceIDHeader      = "X-B3-TraceId"
	SpanIDHeader       = "X-B3-SpanId"
	ParentSpanIDHeader = "X-B3-ParentSpanId"
	SampledHeader      = "X-B3-Sampled"
	FlagsHeader        = "X-B3-Flags"
)

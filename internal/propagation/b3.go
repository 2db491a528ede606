package propagation

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/grpc/metadata"

	"github.com/GriffinCanCode/ziptrace/internal/trace"
)

// Carrier is a string key/value store such as HTTP headers or gRPC metadata.
// Keys are matched case-insensitively.
type Carrier interface {
	Get(key string) string
	Set(key, value string)
}

// HeaderCarrier adapts http.Header.
type HeaderCarrier http.Header

// Get returns the first value for key.
func (h HeaderCarrier) Get(key string) string { return http.Header(h).Get(key) }

// Set replaces the values for key.
func (h HeaderCarrier) Set(key, value string) { http.Header(h).Set(key, value) }

// MetadataCarrier adapts gRPC metadata.
type MetadataCarrier metadata.MD

// Get returns the first value for key.
func (m MetadataCarrier) Get(key string) string {
	if vals := metadata.MD(m).Get(key); len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Set replaces the values for key.
func (m MetadataCarrier) Set(key, value string) { metadata.MD(m).Set(key, value) }

// HeaderError reports a malformed propagation header.
type HeaderError struct {
	Header string
	Value  string
	Err    error
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("header %s: %v", e.Header, e.Err)
}

func (e *HeaderError) Unwrap() error { return e.Err }

// Extract reads a trace context from the carrier. Malformed identifiers are
// left absent and returned as *HeaderError values joined into err; the
// context is usable either way.
func Extract(c Carrier) (trace.Context, error) {
	var (
		ctx  trace.Context
		errs []error
	)
	parse := func(header string) trace.ID {
		raw := strings.TrimSpace(c.Get(header))
		id, err := trace.FromHex(raw)
		if err != nil {
			errs = append(errs, &HeaderError{Header: header, Value: raw, Err: err})
		}
		return id
	}

	ctx.TraceID = parse(trace.TraceIDHeader)
	ctx.SpanID = parse(trace.SpanIDHeader)
	ctx.ParentSpanID = parse(trace.ParentSpanIDHeader)
	ctx.Sampled = ParseBool(c.Get(trace.SampledHeader))
	ctx.Flags = c.Get(trace.FlagsHeader)

	return ctx, errors.Join(errs...)
}

// FromHeaders extracts a trace context from HTTP headers.
func FromHeaders(h http.Header) (trace.Context, error) {
	return Extract(HeaderCarrier(h))
}

// FromMetadata extracts a trace context from gRPC metadata.
func FromMetadata(md metadata.MD) (trace.Context, error) {
	return Extract(MetadataCarrier(md))
}

// Inject writes ctx to the carrier. Absent identifiers and an empty flags
// token are omitted; the sampled header is always written.
func Inject(ctx trace.Context, c Carrier) {
	if ctx.TraceID.IsValid() {
		c.Set(trace.TraceIDHeader, ctx.TraceID.Hex())
	}
	if ctx.SpanID.IsValid() {
		c.Set(trace.SpanIDHeader, ctx.SpanID.Hex())
	}
	if ctx.ParentSpanID.IsValid() {
		c.Set(trace.ParentSpanIDHeader, ctx.ParentSpanID.Hex())
	}
	if ctx.Sampled {
		c.Set(trace.SampledHeader, "1")
	} else {
		c.Set(trace.SampledHeader, "0")
	}
	if ctx.Flags != "" {
		c.Set(trace.FlagsHeader, ctx.Flags)
	}
}

// InjectHeaders writes ctx to HTTP headers.
func InjectHeaders(ctx trace.Context, h http.Header) {
	Inject(ctx, HeaderCarrier(h))
}

// InjectMetadata writes ctx to gRPC metadata.
func InjectMetadata(ctx trace.Context, md metadata.MD) {
	Inject(ctx, MetadataCarrier(md))
}

// ParseBool reports whether s is one of "true", "t", "1" or "yes",
// ignoring case. Anything else, including "", is false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "1", "yes":
		return true
	default:
		return false
	}
}

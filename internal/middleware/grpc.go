package middleware

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/GriffinCanCode/ziptrace/internal/propagation"
	"github.com/GriffinCanCode/ziptrace/internal/recorder"
	"github.com/GriffinCanCode/ziptrace/internal/trace"
)

// AnnotationGRPCCode records the gRPC status code of a call.
const AnnotationGRPCCode = "grpc.code"

// UnaryServerInterceptor creates a gRPC unary interceptor for tracing
func (t *Tracing) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		rec := t.tracer.Acquire()
		defer t.tracer.Release(rec)

		t.guard("request", func() { t.startRPC(ctx, rec, info.FullMethod) })

		resp, err := handler(recorder.NewContext(ctx, rec), req)

		t.guard("response", func() { t.finishRPC(rec, err) })
		return resp, err
	}
}

// StreamServerInterceptor creates a gRPC stream interceptor for tracing
func (t *Tracing) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		rec := t.tracer.Acquire()
		defer t.tracer.Release(rec)

		ctx := ss.Context()
		t.guard("request", func() {
			t.startRPC(ctx, rec, info.FullMethod)
			rec.RecordKeyValue("rpc.streaming", true)
		})

		err := handler(srv, &tracedServerStream{
			ServerStream: ss,
			ctx:          recorder.NewContext(ctx, rec),
		})

		t.guard("response", func() { t.finishRPC(rec, err) })
		return err
	}
}

// tracedServerStream wraps grpc.ServerStream with tracing context
type tracedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *tracedServerStream) Context() context.Context {
	return s.ctx
}

func (t *Tracing) startRPC(ctx context.Context, rec *recorder.Recorder, method string) {
	md, _ := metadata.FromIncomingContext(ctx)
	t.start(rec, propagation.MetadataCarrier(md), method)
	rec.RecordKeyValue(trace.AnnotationRPCMethod, method)
}

func (t *Tracing) finishRPC(rec *recorder.Recorder, err error) {
	rec.RecordKeyValue(AnnotationGRPCCode, status.Code(err).String())
	if err != nil {
		rec.RecordKeyValue(trace.AnnotationError, err.Error())
	}
	t.finish(rec)
}

// UnaryClientInterceptor creates a gRPC client interceptor that propagates
// the caller's trace as B3 metadata.
func UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		return invoker(outgoing(ctx), method, req, reply, cc, opts...)
	}
}

func outgoing(ctx context.Context) context.Context {
	rec, ok := recorder.FromContext(ctx)
	if !ok {
		return ctx
	}
	child, ok := rec.ChildContext()
	if !ok {
		return ctx
	}
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	propagation.InjectMetadata(child, md)
	return metadata.NewOutgoingContext(ctx, md)
}

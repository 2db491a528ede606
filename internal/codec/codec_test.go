package codec

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/ziptrace/internal/trace"
)

func testSpan() *trace.Span {
	host := &trace.Endpoint{ServiceName: "checkout", IPv4: 0x7f000001, Port: 8000}
	return &trace.Span{
		TraceID:  trace.FromBinary(42),
		ID:       trace.FromBinary(-42),
		ParentID: trace.FromBinary(53),
		Name:     "GET",
		Annotations: []trace.Annotation{
			{Value: trace.ServerRecv, Timestamp: 1_700_000_000_000_000, Host: host},
			{Value: trace.ServerSend, Timestamp: 1_700_000_000_250_000, Host: host},
		},
		BinaryAnnotations: []trace.BinaryAnnotation{
			{Key: trace.AnnotationHTTPURI, Value: "/foo/bar?x=y", Host: host},
			{Key: trace.AnnotationHTTPStatusCode, Value: int64(200), Host: host},
			{Key: "cache.hit", Value: true, Host: host},
		},
		Timestamp: 1_700_000_000_000_000,
		Duration:  250_000,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	span := testSpan()

	b, err := Encode(span)
	require.NoError(t, err)
	require.NotEmpty(t, b)

	got, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, span, got)
}

func TestEncodePreservesValueTypes(t *testing.T) {
	span := testSpan()

	b, err := Encode(span)
	require.NoError(t, err)
	got, err := Decode(b)
	require.NoError(t, err)

	uri, ok := got.BinaryAnnotation(trace.AnnotationHTTPURI)
	require.True(t, ok)
	assert.IsType(t, "", uri.Value)
	assert.Equal(t, "/foo/bar?x=y", uri.Value)

	status, ok := got.BinaryAnnotation(trace.AnnotationHTTPStatusCode)
	require.True(t, ok)
	assert.IsType(t, int64(0), status.Value)
	assert.Equal(t, int64(200), status.Value)

	hit, ok := got.BinaryAnnotation("cache.hit")
	require.True(t, ok)
	assert.IsType(t, false, hit.Value)
	assert.Equal(t, true, hit.Value)
}

func TestEncodeIsDeterministic(t *testing.T) {
	a, err := Encode(testSpan())
	require.NoError(t, err)
	b, err := Encode(testSpan())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncodeRootSpanOmitsParent(t *testing.T) {
	span := testSpan()
	span.ParentID = trace.ID{}

	b, err := Encode(span)
	require.NoError(t, err)
	got, err := Decode(b)
	require.NoError(t, err)
	assert.False(t, got.ParentID.IsValid())
}

func TestEncodeUnsupportedValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"struct", struct{ A int }{1}},
		{"map", map[string]string{"a": "b"}},
		{"nil", nil},
		{"duration pointer", new(time.Duration)},
		{"uint64 overflow", uint64(math.MaxUint64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span := testSpan()
			span.BinaryAnnotations = append(span.BinaryAnnotations, trace.BinaryAnnotation{Key: "bad", Value: tt.value})

			b, err := Encode(span)
			require.Error(t, err)
			assert.Nil(t, b)
			assert.ErrorIs(t, err, ErrUnsupportedValue)

			var encErr *EncodingError
			require.ErrorAs(t, err, &encErr)
			assert.Equal(t, "bad", encErr.Key)
		})
	}
}

func TestEncodeIncompleteSpan(t *testing.T) {
	_, err := Encode(nil)
	assert.ErrorIs(t, err, ErrIncompleteSpan)

	_, err = Encode(&trace.Span{TraceID: trace.FromBinary(1)})
	assert.ErrorIs(t, err, ErrIncompleteSpan)
}

func TestValueEncodings(t *testing.T) {
	tests := []struct {
		in      any
		wantTyp AnnotationType
		wantOut any
	}{
		{"s", TypeString, "s"},
		{false, TypeBool, false},
		{[]byte{1, 2}, TypeBytes, []byte{1, 2}},
		{int16(-3), TypeI16, int16(-3)},
		{int32(-70000), TypeI32, int32(-70000)},
		{int64(math.MinInt64), TypeI64, int64(math.MinInt64)},
		{42, TypeI64, int64(42)},
		{int8(-1), TypeI64, int64(-1)},
		{uint8(255), TypeI64, int64(255)},
		{uint32(math.MaxUint32), TypeI64, int64(math.MaxUint32)},
		{uint(7), TypeI64, int64(7)},
		{1.5, TypeDouble, 1.5},
		{float32(0.25), TypeDouble, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.wantTyp.String(), func(t *testing.T) {
			b, typ, err := EncodeValue(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTyp, typ)

			out, err := DecodeValue(b, typ)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOut, out)
		})
	}
}

func TestDecodeCorrupt(t *testing.T) {
	b, err := Encode(testSpan())
	require.NoError(t, err)

	_, err = Decode(b[:len(b)-1])
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = Decode(nil)
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = DecodeValue([]byte{1, 2, 3}, TypeI64)
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = DecodeValue(nil, AnnotationType(99))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestBase64RoundTrip(t *testing.T) {
	s, err := EncodeBase64(testSpan())
	require.NoError(t, err)

	got, err := DecodeBase64(s)
	require.NoError(t, err)
	assert.Equal(t, testSpan(), got)

	raw, err := Encode(testSpan())
	require.NoError(t, err)
	assert.Equal(t, s, LogLine(raw))

	_, err = DecodeBase64("not base64!")
	assert.ErrorIs(t, err, ErrCorrupt)
}

func BenchmarkEncode(b *testing.B) {
	span := testSpan()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Encode(span)
	}
}

package codec

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/GriffinCanCode/ziptrace/internal/trace"
)

// Span field numbers.
const (
	spanTraceID           protowire.Number = 1
	spanName              protowire.Number = 3
	spanID                protowire.Number = 4
	spanParentID          protowire.Number = 5
	spanAnnotations       protowire.Number = 6
	spanBinaryAnnotations protowire.Number = 8
	spanDebug             protowire.Number = 9
	spanTimestamp         protowire.Number = 10
	spanDuration          protowire.Number = 11
)

// Annotation field numbers.
const (
	annTimestamp protowire.Number = 1
	annValue     protowire.Number = 2
	annHost      protowire.Number = 3
)

// BinaryAnnotation field numbers.
const (
	binKey   protowire.Number = 1
	binValue protowire.Number = 2
	binType  protowire.Number = 3
	binHost  protowire.Number = 4
)

// Endpoint field numbers.
const (
	epIPv4        protowire.Number = 1
	epPort        protowire.Number = 2
	epServiceName protowire.Number = 3
)

// Encode serializes a finished span. The output depends only on the span.
func Encode(span *trace.Span) ([]byte, error) {
	if span == nil || !span.TraceID.IsValid() || !span.ID.IsValid() {
		return nil, ErrIncompleteSpan
	}

	// Values are checked first so a failing span costs no framing work.
	values := make([][]byte, len(span.BinaryAnnotations))
	types := make([]AnnotationType, len(span.BinaryAnnotations))
	for i, ba := range span.BinaryAnnotations {
		v, typ, err := EncodeValue(ba.Value)
		if err != nil {
			return nil, &EncodingError{Key: ba.Key, Value: ba.Value, Err: err}
		}
		values[i], types[i] = v, typ
	}

	b := make([]byte, 0, 64+32*len(span.Annotations)+48*len(span.BinaryAnnotations))
	b = appendID(b, spanTraceID, span.TraceID)
	if span.Name != "" {
		b = protowire.AppendTag(b, spanName, protowire.BytesType)
		b = protowire.AppendString(b, span.Name)
	}
	b = appendID(b, spanID, span.ID)
	if span.ParentID.IsValid() {
		b = appendID(b, spanParentID, span.ParentID)
	}
	for _, a := range span.Annotations {
		b = protowire.AppendTag(b, spanAnnotations, protowire.BytesType)
		b = protowire.AppendBytes(b, appendAnnotation(nil, a))
	}
	for i, ba := range span.BinaryAnnotations {
		b = protowire.AppendTag(b, spanBinaryAnnotations, protowire.BytesType)
		b = protowire.AppendBytes(b, appendBinaryAnnotation(nil, ba.Key, values[i], types[i], ba.Host))
	}
	if span.Debug {
		b = protowire.AppendTag(b, spanDebug, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	if span.Timestamp != 0 {
		b = protowire.AppendTag(b, spanTimestamp, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(span.Timestamp))
	}
	if span.Duration != 0 {
		b = protowire.AppendTag(b, spanDuration, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(span.Duration))
	}
	return b, nil
}

// EncodeBase64 encodes a span and returns it as a standard base64 string,
// the form used when spans travel inside log lines.
func EncodeBase64(span *trace.Span) (string, error) {
	b, err := Encode(span)
	if err != nil {
		return "", err
	}
	return LogLine(b), nil
}

// LogLine formats already encoded span bytes for a log line.
func LogLine(encoded []byte) string {
	return base64.StdEncoding.EncodeToString(encoded)
}

// EncodeValue converts an annotation value to its wire bytes and type.
func EncodeValue(v any) ([]byte, AnnotationType, error) {
	switch x := v.(type) {
	case string:
		return []byte(x), TypeString, nil
	case bool:
		if x {
			return []byte{1}, TypeBool, nil
		}
		return []byte{0}, TypeBool, nil
	case []byte:
		return append([]byte(nil), x...), TypeBytes, nil
	case int16:
		return binary.BigEndian.AppendUint16(nil, uint16(x)), TypeI16, nil
	case int32:
		return binary.BigEndian.AppendUint32(nil, uint32(x)), TypeI32, nil
	case int:
		return i64(int64(x)), TypeI64, nil
	case int64:
		return i64(x), TypeI64, nil
	case int8:
		return i64(int64(x)), TypeI64, nil
	case uint8:
		return i64(int64(x)), TypeI64, nil
	case uint16:
		return i64(int64(x)), TypeI64, nil
	case uint32:
		return i64(int64(x)), TypeI64, nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return nil, 0, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedValue, x)
		}
		return i64(int64(x)), TypeI64, nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, 0, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedValue, x)
		}
		return i64(int64(x)), TypeI64, nil
	case float32:
		return binary.BigEndian.AppendUint64(nil, math.Float64bits(float64(x))), TypeDouble, nil
	case float64:
		return binary.BigEndian.AppendUint64(nil, math.Float64bits(x)), TypeDouble, nil
	default:
		return nil, 0, ErrUnsupportedValue
	}
}

func i64(n int64) []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(n))
}

func appendID(b []byte, num protowire.Number, id trace.ID) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, uint64(id.Binary()))
}

func appendAnnotation(b []byte, a trace.Annotation) []byte {
	b = protowire.AppendTag(b, annTimestamp, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(a.Timestamp))
	b = protowire.AppendTag(b, annValue, protowire.BytesType)
	b = protowire.AppendString(b, a.Value)
	if a.Host != nil {
		b = protowire.AppendTag(b, annHost, protowire.BytesType)
		b = protowire.AppendBytes(b, appendEndpoint(nil, *a.Host))
	}
	return b
}

func appendBinaryAnnotation(b []byte, key string, value []byte, typ AnnotationType, host *trace.Endpoint) []byte {
	b = protowire.AppendTag(b, binKey, protowire.BytesType)
	b = protowire.AppendString(b, key)
	b = protowire.AppendTag(b, binValue, protowire.BytesType)
	b = protowire.AppendBytes(b, value)
	b = protowire.AppendTag(b, binType, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(typ))
	if host != nil {
		b = protowire.AppendTag(b, binHost, protowire.BytesType)
		b = protowire.AppendBytes(b, appendEndpoint(nil, *host))
	}
	return b
}

func appendEndpoint(b []byte, ep trace.Endpoint) []byte {
	b = protowire.AppendTag(b, epIPv4, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, uint32(ep.IPv4))
	b = protowire.AppendTag(b, epPort, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(uint16(ep.Port)))
	b = protowire.AppendTag(b, epServiceName, protowire.BytesType)
	return protowire.AppendString(b, ep.ServiceName)
}

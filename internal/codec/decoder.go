package codec

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/GriffinCanCode/ziptrace/internal/trace"
)

// Decode parses a record produced by Encode. Unknown fields are skipped.
func Decode(b []byte) (*trace.Span, error) {
	span := &trace.Span{}
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == spanTraceID && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			span.TraceID = trace.FromBinary(int64(v))
			return n, nil
		case num == spanID && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			span.ID = trace.FromBinary(int64(v))
			return n, nil
		case num == spanParentID && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			span.ParentID = trace.FromBinary(int64(v))
			return n, nil
		case num == spanName && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			span.Name = v
			return n, nil
		case num == spanAnnotations && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			a, err := decodeAnnotation(v)
			if err != nil {
				return 0, err
			}
			span.Annotations = append(span.Annotations, a)
			return n, nil
		case num == spanBinaryAnnotations && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			ba, err := decodeBinaryAnnotation(v)
			if err != nil {
				return 0, err
			}
			span.BinaryAnnotations = append(span.BinaryAnnotations, ba)
			return n, nil
		case num == spanDebug && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			span.Debug = protowire.DecodeBool(v)
			return n, nil
		case num == spanTimestamp && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			span.Timestamp = int64(v)
			return n, nil
		case num == spanDuration && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			span.Duration = int64(v)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	if err != nil {
		return nil, err
	}
	if !span.TraceID.IsValid() || !span.ID.IsValid() {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, ErrIncompleteSpan)
	}
	return span, nil
}

// DecodeBase64 reverses EncodeBase64.
func DecodeBase64(s string) (*trace.Span, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return Decode(b)
}

// DecodeValue converts wire bytes of the given type back to a Go value.
func DecodeValue(b []byte, typ AnnotationType) (any, error) {
	switch typ {
	case TypeString:
		return string(b), nil
	case TypeBytes:
		return append([]byte(nil), b...), nil
	case TypeBool:
		if len(b) != 1 {
			break
		}
		return b[0] != 0, nil
	case TypeI16:
		if len(b) != 2 {
			break
		}
		return int16(binary.BigEndian.Uint16(b)), nil
	case TypeI32:
		if len(b) != 4 {
			break
		}
		return int32(binary.BigEndian.Uint32(b)), nil
	case TypeI64:
		if len(b) != 8 {
			break
		}
		return int64(binary.BigEndian.Uint64(b)), nil
	case TypeDouble:
		if len(b) != 8 {
			break
		}
		return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
	default:
		return nil, fmt.Errorf("%w: unknown annotation type %d", ErrCorrupt, typ)
	}
	return nil, fmt.Errorf("%w: %s value has %d bytes", ErrCorrupt, typ, len(b))
}

type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

// walk calls fn for every field in b. fn returns the number of bytes it
// consumed from the field value.
func walk(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrCorrupt, protowire.ParseError(n))
		}
		b = b[n:]
		m, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if m < 0 {
			return fmt.Errorf("%w: field %d: %v", ErrCorrupt, num, protowire.ParseError(m))
		}
		b = b[m:]
	}
	return nil
}

func decodeAnnotation(b []byte) (trace.Annotation, error) {
	var a trace.Annotation
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == annTimestamp && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			a.Timestamp = int64(v)
			return n, nil
		case num == annValue && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			a.Value = v
			return n, nil
		case num == annHost && typ == protowire.BytesType:
			return consumeEndpoint(b, &a.Host)
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return a, err
}

func decodeBinaryAnnotation(b []byte) (trace.BinaryAnnotation, error) {
	var (
		ba  trace.BinaryAnnotation
		raw []byte
		typ AnnotationType
	)
	err := walk(b, func(num protowire.Number, wt protowire.Type, b []byte) (int, error) {
		switch {
		case num == binKey && wt == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			ba.Key = v
			return n, nil
		case num == binValue && wt == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			raw = v
			return n, nil
		case num == binType && wt == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			typ = AnnotationType(v)
			return n, nil
		case num == binHost && wt == protowire.BytesType:
			return consumeEndpoint(b, &ba.Host)
		}
		return protowire.ConsumeFieldValue(num, wt, b), nil
	})
	if err != nil {
		return ba, err
	}
	ba.Value, err = DecodeValue(raw, typ)
	if err != nil {
		return ba, fmt.Errorf("annotation %q: %w", ba.Key, err)
	}
	return ba, nil
}

func consumeEndpoint(b []byte, dst **trace.Endpoint) (int, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return n, nil
	}
	ep := &trace.Endpoint{}
	err := walk(v, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == epIPv4 && typ == protowire.Fixed32Type:
			x, n := protowire.ConsumeFixed32(b)
			ep.IPv4 = int32(x)
			return n, nil
		case num == epPort && typ == protowire.VarintType:
			x, n := protowire.ConsumeVarint(b)
			ep.Port = int16(uint16(x))
			return n, nil
		case num == epServiceName && typ == protowire.BytesType:
			x, n := protowire.ConsumeString(b)
			ep.ServiceName = x
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	if err != nil {
		return 0, err
	}
	*dst = ep
	return n, nil
}

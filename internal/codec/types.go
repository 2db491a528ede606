package codec

import (
	"errors"
	"fmt"
)

// AnnotationType tags the representation of a binary annotation value.
type AnnotationType int32

const (
	TypeBool   AnnotationType = 0
	TypeBytes  AnnotationType = 1
	TypeI16    AnnotationType = 2
	TypeI32    AnnotationType = 3
	TypeI64    AnnotationType = 4
	TypeDouble AnnotationType = 5
	TypeString AnnotationType = 6
)

// String returns the string representation of the type
func (t AnnotationType) String() string {
	switch t {
	case TypeBool:
		return "BOOL"
	case TypeBytes:
		return "BYTES"
	case TypeI16:
		return "I16"
	case TypeI32:
		return "I32"
	case TypeI64:
		return "I64"
	case TypeDouble:
		return "DOUBLE"
	case TypeString:
		return "STRING"
	default:
		return fmt.Sprintf("AnnotationType(%d)", int32(t))
	}
}

var (
	// ErrUnsupportedValue is wrapped by EncodingError when a key/value
	// annotation holds a type the wire format cannot represent.
	ErrUnsupportedValue = errors.New("unsupported annotation value")
	// ErrIncompleteSpan is returned for spans without a trace id or span id.
	ErrIncompleteSpan = errors.New("span has no trace id or span id")
	// ErrCorrupt is returned by Decode for records that cannot be parsed.
	ErrCorrupt = errors.New("corrupt span record")
)

// EncodingError reports an annotation value that could not be serialized.
type EncodingError struct {
	Key   string
	Value any
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode annotation %q (%T): %v", e.Key, e.Value, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

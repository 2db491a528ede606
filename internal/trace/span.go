package trace

import "time"

// Endpoint identifies the host that recorded an annotation.
type Endpoint struct {
	ServiceName string
	// IPv4 is the address packed big-endian into an int32, as Zipkin expects.
	IPv4 int32
	Port int16
}

// IsZero reports whether the endpoint carries no information.
func (e Endpoint) IsZero() bool {
	return e == Endpoint{}
}

// Annotation is a timestamped event such as "sr" or "ss".
type Annotation struct {
	Value string
	// Timestamp is microseconds since the Unix epoch.
	Timestamp int64
	Host      *Endpoint
}

// BinaryAnnotation is a key/value pair. Value keeps its Go type until the
// codec decides how to represent it.
type BinaryAnnotation struct {
	Key   string
	Value any
	Host  *Endpoint
}

// Span is the finished record of one unit of work.
type Span struct {
	TraceID           ID
	ID                ID
	ParentID          ID
	Name              string
	Debug             bool
	Annotations       []Annotation
	BinaryAnnotations []BinaryAnnotation
	// Timestamp and Duration are microseconds, derived from the first and
	// last annotation. Zero when unknown.
	Timestamp int64
	Duration  int64
}

// Micros converts a time to Zipkin's microsecond timestamps.
func Micros(t time.Time) int64 {
	return t.UnixNano() / int64(time.Microsecond)
}

// Annotation returns the first event with the given value.
func (s *Span) Annotation(value string) (Annotation, bool) {
	for _, a := range s.Annotations {
		if a.Value == value {
			return a, true
		}
	}
	return Annotation{}, false
}

// BinaryAnnotation returns the first key/value pair with the given key.
func (s *Span) BinaryAnnotation(key string) (BinaryAnnotation, bool) {
	for _, b := range s.BinaryAnnotations {
		if b.Key == key {
			return b, true
		}
	}
	return BinaryAnnotation{}, false
}

// Package codec serializes finished spans into the binary record handed to
// a collector, and decodes such records back.
//
// Records are framed with protobuf wire primitives. Field numbers follow
// the Zipkin core span schema so the layout reads the same as the Thrift
// definition collectors are built around:
//
//	Span              1 trace_id  3 name  4 id  5 parent_id  6 annotations
//	                  8 binary_annotations  9 debug  10 timestamp  11 duration
//	Annotation        1 timestamp  2 value  3 host
//	BinaryAnnotation  1 key  2 value  3 annotation_type  4 host
//	Endpoint          1 ipv4  2 port  3 service_name
//
// Key/value annotations keep their Go type: the annotation_type field
// records it and the value bytes hold the big-endian representation.
// Values of any other type fail with an *EncodingError.
package codec

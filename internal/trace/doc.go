/*
Package trace holds the data model of the tracing engine.

# Overview

Everything the recorder, codec and propagation layers share lives here:

  - ID: a 64-bit trace/span identifier with hex and binary forms
  - Generator: pluggable source of fresh identifiers
  - Context: trace id, span id, parent span id, sampling and debug flags
  - Store: per-unit-of-work cell holding the active Context
  - Span: the finished, encodable record of one unit of work

# Identifiers

IDs are signed 64-bit integers. Their hex form is always 16 lowercase
characters of the two's-complement bit pattern, so negative values survive
a trip through an X-B3-SpanId header:

	id := trace.FromBinary(-42)
	id.Hex()                 // "ffffffffffffffd6"
	trace.FromHex(id.Hex())  // == id

The zero ID is "absent". FromHex("") returns it without an error.

# Reportability

A Context is reportable when it is sampled or carries a debug flag. The
value is always derived, never stored.
*/
package trace

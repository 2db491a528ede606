package trace

// State describes how much of a Context has been established.
type State int

const (
	// StateNoData means nothing was stored for the unit of work, usually
	// because the request phase never ran.
	StateNoData State = iota
	// StatePartial means some fields are set but trace and span id are not both present.
	StatePartial
	// StateEstablished means trace id and span id are both present.
	StateEstablished
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateNoData:
		return "no-data"
	case StatePartial:
		return "partial"
	case StateEstablished:
		return "established"
	default:
		return "unknown"
	}
}

// Context is the trace lineage of one unit of work.
type Context struct {
	TraceID      ID
	SpanID       ID
	ParentSpanID ID
	Sampled      bool
	// Flags is propagated verbatim from X-B3-Flags. Empty means no debug flag.
	Flags string
}

// Debug reports whether the debug flag is set. "0" counts as unset.
func (c Context) Debug() bool {
	return c.Flags != "" && c.Flags != "0"
}

// Reportable reports whether a span for this context should be emitted.
func (c Context) Reportable() bool {
	return c.Sampled || c.Debug()
}

// Established reports whether trace id and span id are both present.
func (c Context) Established() bool {
	return c.TraceID.IsValid() && c.SpanID.IsValid()
}

// IsEmpty reports whether nothing has been set on the context.
func (c Context) IsEmpty() bool {
	return c == Context{}
}

// State classifies the context for diagnostics.
func (c Context) State() State {
	switch {
	case c.Established():
		return StateEstablished
	case c.IsEmpty():
		return StateNoData
	default:
		return StatePartial
	}
}

// Child derives the context a downstream hop should receive: same trace,
// this span as parent, sampling and flags unchanged.
func (c Context) Child(spanID ID) Context {
	return Context{
		TraceID:      c.TraceID,
		SpanID:       spanID,
		ParentSpanID: c.SpanID,
		Sampled:      c.Sampled,
		Flags:        c.Flags,
	}
}

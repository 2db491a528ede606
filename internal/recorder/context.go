package recorder

import "context"

type contextKey struct{}

// handle pins a recorder to the generation it had when it entered a
// context.
type handle struct {
	r   *Recorder
	gen uint64
}

// NewContext returns a copy of ctx carrying r. Once r is released to its
// tracer, calls through the returned context are dropped.
func NewContext(ctx context.Context, r *Recorder) context.Context {
	return context.WithValue(ctx, contextKey{}, handle{r: r, gen: r.generation()})
}

func handleFrom(ctx context.Context) (handle, bool) {
	h, ok := ctx.Value(contextKey{}).(handle)
	return h, ok && h.r != nil
}

// FromContext returns the recorder carried by ctx. It returns false when
// ctx carries no recorder or the recorder has since been released.
func FromContext(ctx context.Context) (*Recorder, bool) {
	h, ok := handleFrom(ctx)
	if !ok {
		return nil, false
	}
	h.r.mu.Lock()
	defer h.r.mu.Unlock()
	if !h.r.currentLocked(h.gen, "from_context") {
		return nil, false
	}
	return h.r, true
}

// Annotate records a key/value pair on the recorder carried by ctx.
// It does nothing when ctx carries no recorder.
func Annotate(ctx context.Context, key string, value any) {
	h, ok := handleFrom(ctx)
	if !ok {
		return
	}
	h.r.mu.Lock()
	defer h.r.mu.Unlock()
	if h.r.currentLocked(h.gen, "record_key_value") {
		h.r.recordKeyValueLocked(key, value)
	}
}

// Event records a timestamped event on the recorder carried by ctx.
func Event(ctx context.Context, name string) {
	h, ok := handleFrom(ctx)
	if !ok {
		return
	}
	h.r.mu.Lock()
	defer h.r.mu.Unlock()
	if h.r.currentLocked(h.gen, "record_event") {
		h.r.recordEventLocked(name)
	}
}

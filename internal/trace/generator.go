package trace

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Generator produces fresh identifiers for traces and spans.
type Generator interface {
	TraceID() ID
	SpanID() ID
}

// ============================================================================
// Random Generator
// ============================================================================

// RandomGenerator draws identifiers from the full signed 64-bit range.
type RandomGenerator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
	buf       [8]byte
}

var (
	defaultGenerator *RandomGenerator
	once             sync.Once

	// Used only when the entropy source fails.
	fallbackCounter atomic.Uint64
)

// DefaultGenerator returns the process-wide generator backed by crypto/rand.
func DefaultGenerator() *RandomGenerator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator with cryptographically secure entropy.
func NewGenerator() *RandomGenerator {
	return &RandomGenerator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator reading from a custom source.
// Useful for testing with deterministic entropy.
func NewGeneratorWithEntropy(entropy io.Reader) *RandomGenerator {
	return &RandomGenerator{entropy: entropy}
}

// TraceID returns a new random trace identifier.
func (g *RandomGenerator) TraceID() ID { return FromBinary(g.next()) }

// SpanID returns a new random span identifier.
func (g *RandomGenerator) SpanID() ID { return FromBinary(g.next()) }

func (g *RandomGenerator) next() int64 {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	if _, err := io.ReadFull(g.entropy, g.buf[:]); err != nil {
		// Mix wall clock and a counter so ids stay distinct within the process.
		n := uint64(time.Now().UnixNano()) ^ (fallbackCounter.Add(1) << 48)
		return int64(n)
	}
	return int64(binary.BigEndian.Uint64(g.buf[:]))
}

// ============================================================================
// Sequence Generator (deterministic)
// ============================================================================

// SequenceGenerator hands out consecutive identifiers. It is meant for tests.
// Trace and span ids share one counter so no two results collide.
type SequenceGenerator struct {
	next atomic.Int64
}

// NewSequenceGenerator returns a generator whose first id is start+1.
func NewSequenceGenerator(start int64) *SequenceGenerator {
	g := &SequenceGenerator{}
	g.next.Store(start)
	return g
}

// TraceID returns the next identifier in sequence.
func (g *SequenceGenerator) TraceID() ID { return FromBinary(g.next.Add(1)) }

// SpanID returns the next identifier in sequence.
func (g *SequenceGenerator) SpanID() ID { return FromBinary(g.next.Add(1)) }

package trace

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomGeneratorUnique(t *testing.T) {
	gen := NewGenerator()

	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		id := gen.SpanID()
		assert.True(t, id.IsValid())
		assert.False(t, seen[id.Binary()], "duplicate span id %s", id)
		seen[id.Binary()] = true
	}
}

func TestRandomGeneratorUsesFullRange(t *testing.T) {
	entropy := bytes.NewReader([]byte{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xd6,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x2a,
	})
	gen := NewGeneratorWithEntropy(entropy)

	assert.Equal(t, int64(-42), gen.TraceID().Binary())
	assert.Equal(t, int64(42), gen.SpanID().Binary())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestRandomGeneratorFallback(t *testing.T) {
	gen := NewGeneratorWithEntropy(failingReader{})

	a, b := gen.TraceID(), gen.TraceID()
	assert.True(t, a.IsValid())
	assert.True(t, b.IsValid())
	assert.NotEqual(t, a.Binary(), b.Binary())
}

func TestSequenceGenerator(t *testing.T) {
	gen := NewSequenceGenerator(100)

	assert.Equal(t, int64(101), gen.TraceID().Binary())
	assert.Equal(t, int64(102), gen.SpanID().Binary())
	assert.Equal(t, int64(103), gen.SpanID().Binary())
}

func TestDefaultGenerator(t *testing.T) {
	assert.Same(t, DefaultGenerator(), DefaultGenerator())
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()

	const goroutines = 50
	const idsPerGoroutine = 100

	var wg sync.WaitGroup
	ids := make(chan int64, goroutines*idsPerGoroutine)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < idsPerGoroutine; j++ {
				ids <- gen.SpanID().Binary()
			}
		}()
	}

	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		if seen[id] {
			t.Errorf("Duplicate ID found in concurrent generation: %x", id)
		}
		seen[id] = true
	}
	assert.Len(t, seen, goroutines*idsPerGoroutine)
}

func BenchmarkRandomGenerator(b *testing.B) {
	gen := NewGenerator()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = gen.SpanID()
		}
	})
}

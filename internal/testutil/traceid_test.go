package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedTraceIDGenerator_ReturnsSameID(t *testing.T) {
	gen := NewFixedTraceIDGenerator("trace-123")

	assert.Equal(t, "trace-123", gen.Generate())
	assert.Equal(t, "trace-123", gen.Generate())
}

func TestFixedTraceIDGenerator_EmptyIDDefault(t *testing.T) {
	gen := NewFixedTraceIDGenerator("")

	assert.Equal(t, "00000000-0000-0000-0000-000000000000", gen.Generate())
}

func TestFixedTraceIDGenerator_ThreadSafe(t *testing.T) {
	gen := NewFixedTraceIDGenerator("thread-safe-id")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "thread-safe-id", gen.Generate())
			}
		}()
	}
	wg.Wait()
}

// Package id generates record identifiers for ledger entries, letters and
// sales. IDs are millisecond Unix timestamps, so they sort chronologically
// and survive round trips through the backend as plain integers. Correction
// pairs and batch members rely on contiguous IDs (id, id+1, ...), so the
// generator reserves blocks instead of handing out single values when asked
// for more than one.
package id

import (
	"sync"
	"time"
)

// ID identifies a persisted record.
type ID = int64

// Generator issues monotonically increasing millisecond IDs. Two calls in
// the same millisecond never collide: the generator bumps past the last
// issued value.
type Generator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewGenerator creates a Generator using the wall clock.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// NewGeneratorWithClock creates a Generator with an injected clock, for tests.
func NewGeneratorWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Next returns a single fresh ID.
func (g *Generator) Next() ID {
	return g.Reserve(1)
}

// Reserve returns the first ID of a contiguous block of n IDs. The whole
// block [id, id+n-1] belongs to the caller; subsequent calls start after it.
func (g *Generator) Reserve(n int) ID {
	if n < 1 {
		n = 1
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	candidate := g.now().UnixMilli()
	if candidate <= g.last {
		candidate = g.last + 1
	}
	g.last = candidate + int64(n) - 1
	return candidate
}

var defaultGenerator = NewGenerator()

// Next returns a fresh ID from the process-wide generator.
func Next() ID {
	return defaultGenerator.Next()
}

// Reserve returns the first ID of a contiguous block from the process-wide
// generator.
func Reserve(n int) ID {
	return defaultGenerator.Reserve(n)
}

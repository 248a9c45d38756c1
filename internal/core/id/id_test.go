package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time {
		return time.UnixMilli(ms)
	}
}

func TestNextIsMonotonic(t *testing.T) {
	g := NewGeneratorWithClock(fixedClock(1700000000000))

	first := g.Next()
	second := g.Next()
	third := g.Next()

	assert.EqualValues(t, 1700000000000, first)
	assert.Equal(t, first+1, second, "same-millisecond calls bump past the last value")
	assert.Equal(t, second+1, third)
}

func TestReserveBlocksAreContiguous(t *testing.T) {
	g := NewGeneratorWithClock(fixedClock(1700000000000))

	parent := g.Reserve(4)
	next := g.Next()

	assert.EqualValues(t, 1700000000000, parent)
	assert.Equal(t, parent+4, next, "block [id, id+3] belongs to the first caller")
}

func TestReserveClampsNonPositive(t *testing.T) {
	g := NewGeneratorWithClock(fixedClock(1700000000000))

	first := g.Reserve(0)
	second := g.Next()

	assert.Equal(t, first+1, second)
}

func TestGeneratorFollowsClock(t *testing.T) {
	ms := int64(1700000000000)
	g := NewGeneratorWithClock(func() time.Time {
		ms += 1000
		return time.UnixMilli(ms)
	})

	first := g.Next()
	second := g.Next()

	assert.EqualValues(t, 1700000001000, first)
	assert.EqualValues(t, 1700000002000, second, "advancing clock wins over the bump")
}

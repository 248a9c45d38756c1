package numbering

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tatausaha/internal/core/entity"
)

func letter(level entity.Level, month, year, seq int) entity.Letter {
	return entity.Letter{Level: level, Month: month, Year: year, Sequence: seq}
}

func TestNextSequence(t *testing.T) {
	scope := Scope{Level: entity.LevelSD, Month: 3, Year: 2025}

	t.Run("empty scope starts at one", func(t *testing.T) {
		assert.Equal(t, 1, NextSequence(nil, scope))
	})

	t.Run("continues past the highest issued", func(t *testing.T) {
		letters := []entity.Letter{
			letter(entity.LevelSD, 3, 2025, 2),
			letter(entity.LevelSD, 3, 2025, 7),
			letter(entity.LevelSD, 3, 2025, 4),
		}
		assert.Equal(t, 8, NextSequence(letters, scope))
	})

	t.Run("ignores other scopes", func(t *testing.T) {
		letters := []entity.Letter{
			letter(entity.LevelSD, 2, 2025, 9),  // other month
			letter(entity.LevelSD, 3, 2024, 9),  // other year
			letter(entity.LevelSMP, 3, 2025, 9), // other tier
		}
		assert.Equal(t, 1, NextSequence(letters, scope))
	})

	t.Run("does not backfill gaps", func(t *testing.T) {
		letters := []entity.Letter{
			letter(entity.LevelSD, 3, 2025, 1),
			letter(entity.LevelSD, 3, 2025, 5),
		}
		assert.Equal(t, 6, NextSequence(letters, scope))
	})
}

func TestEffectiveSequence(t *testing.T) {
	scope := Scope{Level: entity.LevelSMA, Month: 6, Year: 2025}
	letters := []entity.Letter{letter(entity.LevelSMA, 6, 2025, 3)}

	t.Run("floor below next has no effect", func(t *testing.T) {
		assert.Equal(t, 4, EffectiveSequence(letters, scope, 2))
	})

	t.Run("floor lifts the sequence", func(t *testing.T) {
		assert.Equal(t, 51, EffectiveSequence(letters, scope, 50))
	})

	t.Run("floor equal to next lifts by one", func(t *testing.T) {
		assert.Equal(t, 5, EffectiveSequence(letters, scope, 4))
	})

	t.Run("empty scope with floor", func(t *testing.T) {
		assert.Equal(t, 101, EffectiveSequence(nil, scope, 100))
	})
}

func TestFormatParts(t *testing.T) {
	t.Run("single letter", func(t *testing.T) {
		got := FormatParts("K", entity.LevelSD, 3, 2025, 3, 0)
		assert.Equal(t, "003/I.PB.1/K/III/2025", got)
	})

	t.Run("batch member", func(t *testing.T) {
		got := FormatParts("A.1", entity.LevelUmum, 12, 2025, 12, 3)
		assert.Equal(t, "012.3/SPB.1/A.1/XII/2025", got)
	})

	t.Run("sequence above three digits", func(t *testing.T) {
		got := FormatParts("B", entity.LevelSMP, 1, 2026, 1024, 0)
		assert.Equal(t, "1024/II.PB.1/B/I/2026", got)
	})
}

func TestFormat(t *testing.T) {
	l := entity.Letter{
		Sequence: 7,
		Code:     "C",
		Level:    entity.LevelSMA,
		Month:    10,
		Year:     2025,
		SubIndex: 2,
	}
	assert.Equal(t, "007.2/V.PB.1/C/X/2025", Format(l))
}

func TestParseSequence(t *testing.T) {
	assert.Equal(t, 3, ParseSequence("003/I.PB.1/K/III/2025"))
	assert.Equal(t, 12, ParseSequence("012.3/SPB.1/A.1/XII/2025"))
	assert.Equal(t, 1024, ParseSequence("1024/II.PB.1/B/I/2026"))
	assert.Equal(t, 0, ParseSequence("not a number"))
	assert.Equal(t, 0, ParseSequence(""))
}

func TestRomanMonth(t *testing.T) {
	assert.Equal(t, "I", RomanMonth(1))
	assert.Equal(t, "XII", RomanMonth(12))
	assert.Equal(t, "", RomanMonth(0))
	assert.Equal(t, "", RomanMonth(13))
}

package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tatausaha/internal/core/entity"
)

func TestFromLetterRegeneratesNumber(t *testing.T) {
	l := entity.Letter{
		ID:       1700000000001,
		Sequence: 3,
		Code:     "K",
		Level:    entity.LevelSD,
		Month:    3,
		Year:     2025,
	}

	resp := FromLetter(l)
	assert.Equal(t, "003/I.PB.1/K/III/2025", resp.Number)
}

func TestGroupLetters(t *testing.T) {
	batch := func(sub int) entity.Letter {
		return entity.Letter{
			ID:       1700000000010 + int64(sub),
			Sequence: 5,
			Code:     "B",
			Level:    entity.LevelSMP,
			Month:    4,
			Year:     2025,
			ParentID: 1700000000009,
			SubIndex: sub,
		}
	}
	single := entity.Letter{
		ID:       1700000000001,
		Sequence: 4,
		Code:     "K",
		Level:    entity.LevelSMP,
		Month:    4,
		Year:     2025,
	}

	groups := GroupLetters([]entity.Letter{batch(1), batch(2), batch(3), single})
	require.Len(t, groups, 2)

	assert.EqualValues(t, 1700000000009, groups[0].ParentID)
	assert.Equal(t, "005/II.PB.1/B/IV/2025", groups[0].Number, "group number carries no sub-number")
	require.Len(t, groups[0].Letters, 3)
	assert.Equal(t, "005.1/II.PB.1/B/IV/2025", groups[0].Letters[0].Number)
	assert.Equal(t, "005.3/II.PB.1/B/IV/2025", groups[0].Letters[2].Number)

	assert.Zero(t, groups[1].ParentID)
	require.Len(t, groups[1].Letters, 1)
	assert.Equal(t, "004/II.PB.1/K/IV/2025", groups[1].Number)

	// After a restart letters arrive ordered by id descending, which puts
	// batch members in reverse; the grouping must still list them 1..n.
	reloaded := GroupLetters([]entity.Letter{batch(3), batch(2), batch(1), single})
	require.Len(t, reloaded, 2)
	require.Len(t, reloaded[0].Letters, 3)
	assert.Equal(t, 1, reloaded[0].Letters[0].SubIndex)
	assert.Equal(t, 3, reloaded[0].Letters[2].SubIndex)
}

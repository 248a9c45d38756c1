package numbering

import "tatausaha/internal/core/entity"

// NextSequence returns the next free sequence for a scope: 1 for an empty
// scope, otherwise one past the highest sequence already issued in it.
// Gaps are never back-filled.
func NextSequence(letters []entity.Letter, scope Scope) int {
	max := 0
	for _, l := range letters {
		if scope.Matches(l) && l.Sequence > max {
			max = l.Sequence
		}
	}
	return max + 1
}

// EffectiveSequence applies the administrative floor for the tier: the
// issued sequence is never at or below the floor, even when the scope
// itself has not reached it yet.
func EffectiveSequence(letters []entity.Letter, scope Scope, floor int) int {
	next := NextSequence(letters, scope)
	if next <= floor {
		return floor + 1
	}
	return next
}

package dto

import (
	"sort"

	"tatausaha/internal/core/entity"
	"tatausaha/internal/core/id"
	"tatausaha/internal/numbering"
)

// LetterResponse is one issued letter with its formatted number. The
// number is regenerated from the stored fields on every response, so it
// can never drift from them.
type LetterResponse struct {
	entity.Letter
	Number string `json:"nomor"`
}

// FromLetter builds a LetterResponse.
func FromLetter(l entity.Letter) LetterResponse {
	return LetterResponse{Letter: l, Number: numbering.Format(l)}
}

// FromLetters builds responses for a slice of letters.
func FromLetters(letters []entity.Letter) []LetterResponse {
	out := make([]LetterResponse, len(letters))
	for i, l := range letters {
		out[i] = FromLetter(l)
	}
	return out
}

// LetterGroup bundles the members of one batch under their shared parent.
// A single letter is a one-element group with a zero ParentID.
type LetterGroup struct {
	ParentID id.ID            `json:"parentId,omitempty"`
	Number   string           `json:"nomor"`
	Letters  []LetterResponse `json:"letters"`
}

// GroupLetters groups batch members by parent, preserving the newest-first
// order of the input. Members are listed by ascending sub-number no matter
// which order they arrived in; the group number carries no batch sub-number.
func GroupLetters(letters []entity.Letter) []LetterGroup {
	groups := make([]LetterGroup, 0, len(letters))
	index := make(map[id.ID]int)

	for _, l := range letters {
		if !l.IsBatchMember() {
			groups = append(groups, LetterGroup{
				Number:  numbering.Format(l),
				Letters: []LetterResponse{FromLetter(l)},
			})
			continue
		}
		i, ok := index[l.ParentID]
		if !ok {
			i = len(groups)
			index[l.ParentID] = i
			groups = append(groups, LetterGroup{
				ParentID: l.ParentID,
				Number:   numbering.FormatParts(l.Code, l.Level, l.Month, l.Year, l.Sequence, 0),
			})
		}
		groups[i].Letters = append(groups[i].Letters, FromLetter(l))
	}

	for i := range groups {
		members := groups[i].Letters
		sort.Slice(members, func(a, b int) bool {
			return members[a].SubIndex < members[b].SubIndex
		})
	}
	return groups
}

// FloorUpdateRequest sets the sequence floor of one tier.
type FloorUpdateRequest struct {
	Level entity.Level `json:"tingkat" binding:"required"`
	Floor int          `json:"baseNomor"`
}

// CatalogResponse lists the allocation form options.
type CatalogResponse struct {
	Codes  []numbering.Code `json:"codes"`
	Levels []LevelOption    `json:"levels"`
}

// LevelOption is one numbering tier with its display form.
type LevelOption struct {
	Value   entity.Level `json:"value"`
	Display string       `json:"display"`
}

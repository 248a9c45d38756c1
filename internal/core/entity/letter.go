// Package entity holds the persisted record types shared across domain
// services and the in-memory state store.
package entity

import (
	"time"

	"tatausaha/internal/core/id"
)

// Level is the numbering tier a letter belongs to.
type Level string

const (
	LevelSD   Level = "I"
	LevelSMP  Level = "II"
	LevelSMA  Level = "V"
	LevelUmum Level = "SPB"
)

// Levels lists all tiers in display order.
var Levels = []Level{LevelSD, LevelSMP, LevelSMA, LevelUmum}

// Valid reports whether l is one of the known tiers.
func (l Level) Valid() bool {
	for _, known := range Levels {
		if l == known {
			return true
		}
	}
	return false
}

// Display returns the form of the tier used inside a formatted letter
// number. All school tiers gain a ".PB" suffix; the general tier does not.
func (l Level) Display() string {
	switch l {
	case LevelSD:
		return "I.PB"
	case LevelSMP:
		return "II.PB"
	case LevelSMA:
		return "V.PB"
	case LevelUmum:
		return "SPB"
	}
	return string(l)
}

// Letter is one issued document number. Letters are historical records:
// created once, never mutated or deleted. The formatted number is derived
// from the fields and is not a source of truth.
type Letter struct {
	ID       id.ID  `db:"id" json:"id"`
	Sequence int    `db:"nomor_urut" json:"nomorUrut"`
	Code     string `db:"kode" json:"kode"`
	Level    Level  `db:"tingkat" json:"tingkat"`
	Month    int    `db:"bulan" json:"bulan"`
	Year     int    `db:"tahun" json:"tahun"`
	Note     string `db:"catatan" json:"catatan,omitempty"`

	// Batch members share one Sequence and ParentID; SubIndex (1..N)
	// disambiguates them. Zero values on single letters.
	ParentID id.ID `db:"parent_id" json:"parentId,omitempty"`
	SubIndex int   `db:"sub_index" json:"subIndex,omitempty"`

	CreatedAt time.Time `db:"tanggal_dibuat" json:"tanggalDibuat"`
}

// IsBatchMember reports whether the letter belongs to a batch.
func (l Letter) IsBatchMember() bool {
	return l.ParentID != 0
}

package numbering

import (
	"context"
	"fmt"
	"time"

	"tatausaha/internal/core/apperror"
	"tatausaha/internal/core/entity"
	"tatausaha/internal/core/id"
	"tatausaha/internal/gateway"
	"tatausaha/internal/gateway/audit"
	"tatausaha/internal/state"
	"tatausaha/pkg/logger"
)

// maxBatchSize caps one batch allocation request.
const maxBatchSize = 100

// AllocateRequest asks for one letter number, or a batch sharing one
// sequence. Month and year default to the current date when zero.
type AllocateRequest struct {
	Code  string       `json:"kode" binding:"required"`
	Level entity.Level `json:"tingkat" binding:"required"`
	Month int          `json:"bulan"`
	Year  int          `json:"tahun"`
	Note  string       `json:"catatan"`
	Count int          `json:"jumlah"`
}

// Stats summarizes issued letters for the dashboard. LastNumbers holds the
// most recently issued formatted number per tier.
type Stats struct {
	Total       int                     `json:"total"`
	Today       int                     `json:"today"`
	ByLevel     map[entity.Level]int    `json:"byLevel"`
	ByCode      map[string]int          `json:"byCode"`
	LastNumbers map[entity.Level]string `json:"lastNumbers"`
}

// Service allocates letter numbers against the in-memory working set and
// queues the records for persistence.
type Service struct {
	store      *state.Store
	dispatcher *gateway.Dispatcher
	ids        *id.Generator
	audit      *audit.Service
	batchDelay time.Duration
	now        func() time.Time
}

// NewService creates a numbering service. batchDelay spaces out the
// backend writes of one batch.
func NewService(store *state.Store, dispatcher *gateway.Dispatcher, ids *id.Generator, auditSvc *audit.Service, batchDelay time.Duration) *Service {
	return &Service{
		store:      store,
		dispatcher: dispatcher,
		ids:        ids,
		audit:      auditSvc,
		batchDelay: batchDelay,
		now:        time.Now,
	}
}

// Allocate issues one letter number or a batch. The sequence decision and
// the optimistic state update happen atomically; persistence is queued
// afterwards and never awaited.
func (s *Service) Allocate(ctx context.Context, req AllocateRequest) ([]entity.Letter, error) {
	if req.Code == "" {
		return nil, apperror.NewScopeMissing("kode")
	}
	if !ValidCode(req.Code) {
		return nil, apperror.NewValidation(fmt.Sprintf("unknown letter code %q", req.Code))
	}
	if req.Level == "" {
		return nil, apperror.NewScopeMissing("tingkat")
	}
	if !req.Level.Valid() {
		return nil, apperror.NewValidation(fmt.Sprintf("unknown tier %q", req.Level))
	}

	createdAt := s.now()
	if req.Month == 0 {
		req.Month = int(createdAt.Month())
	}
	if req.Year == 0 {
		req.Year = createdAt.Year()
	}
	if req.Month < 1 || req.Month > 12 {
		return nil, apperror.NewValidation(fmt.Sprintf("month %d out of range", req.Month))
	}

	count := req.Count
	if count < 1 {
		count = 1
	}
	if count > maxBatchSize {
		return nil, apperror.NewInvalidQuantity(fmt.Sprintf("batch size %d exceeds the maximum of %d", count, maxBatchSize))
	}

	scope := Scope{Level: req.Level, Month: req.Month, Year: req.Year}

	var letters []entity.Letter
	s.store.Apply(func(snap *state.Snapshot) {
		sequence := EffectiveSequence(snap.Letters, scope, snap.Floors[req.Level])

		if count == 1 {
			letters = []entity.Letter{{
				ID:        s.ids.Next(),
				Sequence:  sequence,
				Code:      req.Code,
				Level:     req.Level,
				Month:     req.Month,
				Year:      req.Year,
				Note:      req.Note,
				CreatedAt: createdAt,
			}}
		} else {
			note := req.Note
			if note == "" {
				note = fmt.Sprintf("(Bagian dari %d surat)", count)
			}
			// The parent ID itself is never a record; members get the
			// next count IDs of the reserved block.
			parent := s.ids.Reserve(count + 1)
			letters = make([]entity.Letter, count)
			for i := range letters {
				letters[i] = entity.Letter{
					ID:        parent + int64(i) + 1,
					Sequence:  sequence,
					Code:      req.Code,
					Level:     req.Level,
					Month:     req.Month,
					Year:      req.Year,
					Note:      note,
					ParentID:  parent,
					SubIndex:  i + 1,
					CreatedAt: createdAt,
				}
			}
		}

		snap.Letters = append(letters, snap.Letters...)
	})

	for i, l := range letters {
		rec := gateway.Marshal(l)
		rec["nomor"] = Format(l)
		if i == 0 {
			s.dispatcher.Insert(ctx, gateway.TableLetters, rec)
		} else {
			s.dispatcher.InsertAfter(ctx, s.batchDelay, gateway.TableLetters, rec)
		}
	}

	logger.Info(ctx, "letter numbers allocated",
		"count", len(letters),
		"tingkat", req.Level,
		"bulan", req.Month,
		"tahun", req.Year,
		"nomor", Format(letters[0]),
	)
	return letters, nil
}

// Letters returns all letter records, newest-first.
func (s *Service) Letters(ctx context.Context) []entity.Letter {
	return s.store.Letters()
}

// Floors returns the per-tier sequence floors.
func (s *Service) Floors(ctx context.Context) map[entity.Level]int {
	return s.store.Floors()
}

// SetFloor updates the administrative floor for one tier. Sequences in
// that tier start above the floor from the next allocation on.
func (s *Service) SetFloor(ctx context.Context, level entity.Level, value int) error {
	if !level.Valid() {
		return apperror.NewValidation(fmt.Sprintf("unknown tier %q", level))
	}
	if value < 0 {
		return apperror.NewInvalidQuantity("floor must not be negative")
	}

	var old int
	s.store.Apply(func(snap *state.Snapshot) {
		old = snap.Floors[level]
		snap.Floors[level] = value
	})

	s.dispatcher.Upsert(ctx, gateway.TableSettings, gateway.Record{
		"tingkat":    string(level),
		"base_nomor": value,
	}, "tingkat")

	s.audit.Log(ctx, "numbering_floor", 0, audit.ActionUpdate, audit.Diff(
		map[string]any{"tingkat": string(level), "base_nomor": old},
		map[string]any{"tingkat": string(level), "base_nomor": value},
	))

	logger.Info(ctx, "sequence floor updated", "tingkat", level, "base_nomor", value)
	return nil
}

// Stats aggregates issued letters for the dashboard.
func (s *Service) Stats(ctx context.Context) Stats {
	stats := Stats{
		ByLevel:     make(map[entity.Level]int),
		ByCode:      make(map[string]int),
		LastNumbers: make(map[entity.Level]string),
	}
	today := s.now()

	s.store.View(func(snap state.Snapshot) {
		stats.Total = len(snap.Letters)
		// Letters are kept newest-first, so the first hit per tier is the
		// last issued number.
		for _, l := range snap.Letters {
			stats.ByLevel[l.Level]++
			stats.ByCode[l.Code]++
			if sameDay(l.CreatedAt, today) {
				stats.Today++
			}
			if _, ok := stats.LastNumbers[l.Level]; !ok {
				stats.LastNumbers[l.Level] = Format(l)
			}
		}
	})

	return stats
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

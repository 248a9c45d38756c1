// Package state holds the authoritative in-memory working set. Services
// compute against it and apply their results here before any persistence
// call resolves; the backend is an async replica, not the read path.
package state

import (
	"sync"

	"tatausaha/internal/core/entity"
)

// Snapshot is the full working set. Record slices are kept newest-first,
// matching the order reads are served in.
type Snapshot struct {
	Letters []entity.Letter
	Floors  map[entity.Level]int
	Items   []entity.Item
	Ledger  []entity.LedgerEntry
	Sales   []entity.Sale
	Trash   []entity.TrashRecord
}

// Store guards a Snapshot with a single lock. One Apply call is one atomic
// user action: everything it reads and writes happens under the lock, so
// two concurrent actions never observe each other's partial results.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewStore returns an empty store with initialized maps.
func NewStore() *Store {
	return &Store{snap: Snapshot{Floors: make(map[entity.Level]int)}}
}

// Load replaces the entire working set, e.g. after the initial backend read.
func (s *Store) Load(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.Floors == nil {
		snap.Floors = make(map[entity.Level]int)
	}
	s.snap = snap
}

// Apply runs fn with exclusive access to the snapshot. fn must not retain
// references to snapshot internals past its return.
func (s *Store) Apply(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.snap)
}

// View runs fn with shared read access to the snapshot.
func (s *Store) View(fn func(Snapshot)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.snap)
}

// Letters returns a copy of the letter records.
func (s *Store) Letters() []entity.Letter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Letter, len(s.snap.Letters))
	copy(out, s.snap.Letters)
	return out
}

// Items returns a copy of the inventory catalog.
func (s *Store) Items() []entity.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Item, len(s.snap.Items))
	copy(out, s.snap.Items)
	return out
}

// Ledger returns a copy of the stock ledger, newest-first.
func (s *Store) Ledger() []entity.LedgerEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.LedgerEntry, len(s.snap.Ledger))
	copy(out, s.snap.Ledger)
	return out
}

// Sales returns a copy of the live sales records.
func (s *Store) Sales() []entity.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Sale, len(s.snap.Sales))
	copy(out, s.snap.Sales)
	return out
}

// Trash returns a copy of the soft-deleted sales.
func (s *Store) Trash() []entity.TrashRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.TrashRecord, len(s.snap.Trash))
	copy(out, s.snap.Trash)
	return out
}

// Floors returns a copy of the per-tier sequence floors.
func (s *Store) Floors() map[entity.Level]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[entity.Level]int, len(s.snap.Floors))
	for k, v := range s.snap.Floors {
		out[k] = v
	}
	return out
}

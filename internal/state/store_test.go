package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"tatausaha/internal/core/entity"
)

func TestLoadReplacesWorkingSet(t *testing.T) {
	s := NewStore()
	s.Load(Snapshot{
		Items:  []entity.Item{{ID: 1, Name: "Paper A", Stock: 20}},
		Floors: map[entity.Level]int{entity.LevelSD: 40},
	})

	items := s.Items()
	assert.Len(t, items, 1)
	assert.Equal(t, "Paper A", items[0].Name)
	assert.Equal(t, 40, s.Floors()[entity.LevelSD])
}

func TestLoadInitializesNilFloors(t *testing.T) {
	s := NewStore()
	s.Load(Snapshot{})

	s.Apply(func(snap *Snapshot) {
		snap.Floors[entity.LevelSMP] = 10
	})
	assert.Equal(t, 10, s.Floors()[entity.LevelSMP])
}

func TestGettersReturnCopies(t *testing.T) {
	s := NewStore()
	s.Load(Snapshot{Items: []entity.Item{{ID: 1, Name: "Paper A", Stock: 20}}})

	items := s.Items()
	items[0].Stock = 0

	assert.Equal(t, 20, s.Items()[0].Stock, "mutating a returned slice leaves the store untouched")
}

func TestApplyIsAtomic(t *testing.T) {
	s := NewStore()
	s.Load(Snapshot{Items: []entity.Item{{ID: 1, Name: "Paper A", Stock: 0}}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Apply(func(snap *Snapshot) {
				snap.Items[0].Stock++
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.Items()[0].Stock)
}

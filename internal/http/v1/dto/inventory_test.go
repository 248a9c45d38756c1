package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tatausaha/internal/core/entity"
	"tatausaha/internal/inventory"
)

func TestFromItemsFlagsLowStock(t *testing.T) {
	items := FromItems([]entity.Item{
		{Name: "Paper A", Stock: 10},
		{Name: "Paper B", Stock: 11},
	})

	require.Len(t, items, 2)
	assert.True(t, items[0].LowStock)
	assert.False(t, items[1].LowStock)
}

func TestFromLedger(t *testing.T) {
	original := entity.LedgerEntry{ID: 100, Item: "Paper A", Change: -5, Reason: inventory.ReasonSale}
	reversing := entity.LedgerEntry{ID: 200, Item: "Paper A", Change: 5,
		Reason: inventory.ReversalReason("salah input", 100)}
	correcting := entity.LedgerEntry{ID: 201, Item: "Paper A", Change: -3,
		Reason: inventory.CorrectionReason("salah input", 100)}

	resp := FromLedger([]entity.LedgerEntry{correcting, reversing, original})
	require.Len(t, resp, 3)

	assert.True(t, resp[0].Correctable, "correcting entry may be corrected again")
	assert.Equal(t, "-3", resp[0].ChangeDisplay)
	assert.False(t, resp[1].Correctable, "reversing entries are final")
	assert.Equal(t, "+5", resp[1].ChangeDisplay)
	assert.False(t, resp[2].Correctable, "already-corrected entries are final")
}

package postgres

import (
	"context"
	"fmt"

	"tatausaha/internal/core/entity"
	"tatausaha/internal/gateway"
	"tatausaha/internal/state"
)

// LoadSnapshot reads the full working set from the backend at startup.
// Each table is read independently; one failed read fails the whole load,
// because serving from a partial snapshot would silently drop records.
func (g *Gateway) LoadSnapshot(ctx context.Context) (state.Snapshot, error) {
	snap := state.Snapshot{Floors: make(map[entity.Level]int)}

	// Ordered by id, not creation time: batch members share one timestamp
	// but carry contiguous IDs, so this order is stable across restarts.
	if err := g.SelectInto(ctx, &snap.Letters, gateway.TableLetters,
		gateway.Columns(entity.Letter{}), "id", true); err != nil {
		return state.Snapshot{}, fmt.Errorf("load letters: %w", err)
	}
	if err := g.SelectInto(ctx, &snap.Items, gateway.TableInventory,
		gateway.Columns(entity.Item{}), "nama", false); err != nil {
		return state.Snapshot{}, fmt.Errorf("load inventory: %w", err)
	}
	if err := g.SelectInto(ctx, &snap.Ledger, gateway.TableLedger,
		gateway.Columns(entity.LedgerEntry{}), "id", true); err != nil {
		return state.Snapshot{}, fmt.Errorf("load ledger: %w", err)
	}
	if err := g.SelectInto(ctx, &snap.Sales, gateway.TableSales,
		gateway.Columns(entity.Sale{}), "date", true); err != nil {
		return state.Snapshot{}, fmt.Errorf("load sales: %w", err)
	}
	if err := g.SelectInto(ctx, &snap.Trash, gateway.TableTrash,
		gateway.Columns(entity.TrashRecord{}), "deleted_at", true); err != nil {
		return state.Snapshot{}, fmt.Errorf("load trash: %w", err)
	}

	settings, err := g.Select(ctx, gateway.TableSettings, nil, "tingkat", false)
	if err != nil {
		return state.Snapshot{}, fmt.Errorf("load settings: %w", err)
	}
	for _, rec := range settings {
		level, _ := rec["tingkat"].(string)
		if level == "" {
			continue
		}
		switch v := rec["base_nomor"].(type) {
		case int64:
			snap.Floors[entity.Level(level)] = int(v)
		case int32:
			snap.Floors[entity.Level(level)] = int(v)
		case int:
			snap.Floors[entity.Level(level)] = v
		}
	}

	return snap, nil
}

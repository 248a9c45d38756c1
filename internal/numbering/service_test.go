package numbering

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tatausaha/internal/core/apperror"
	"tatausaha/internal/core/entity"
	"tatausaha/internal/core/id"
	"tatausaha/internal/gateway"
	"tatausaha/internal/gateway/audit"
	"tatausaha/internal/gateway/gatewaytest"
	"tatausaha/internal/state"
	"tatausaha/pkg/logger"
)

type serviceFixture struct {
	svc        *Service
	store      *state.Store
	fake       *gatewaytest.Fake
	dispatcher *gateway.Dispatcher
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	fake := gatewaytest.New()
	dispatcher := gateway.NewDispatcher(fake, logger.Default(), 16)
	t.Cleanup(dispatcher.Close)

	auditSvc, err := audit.NewService(dispatcher)
	require.NoError(t, err)

	store := state.NewStore()
	clock := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	ids := id.NewGeneratorWithClock(func() time.Time { return clock })

	svc := NewService(store, dispatcher, ids, auditSvc, 0)
	svc.now = func() time.Time { return clock }

	return &serviceFixture{svc: svc, store: store, fake: fake, dispatcher: dispatcher}
}

func TestAllocateSingle(t *testing.T) {
	f := newServiceFixture(t)

	letters, err := f.svc.Allocate(context.Background(), AllocateRequest{
		Code:  "K",
		Level: entity.LevelSD,
		Month: 3,
		Year:  2025,
		Note:  "undangan rapat",
	})
	require.NoError(t, err)
	require.Len(t, letters, 1)

	l := letters[0]
	assert.Equal(t, 1, l.Sequence)
	assert.Equal(t, 0, l.SubIndex)
	assert.Zero(t, l.ParentID)
	assert.Equal(t, "001/I.PB.1/K/III/2025", Format(l))

	stored := f.store.Letters()
	require.Len(t, stored, 1)
	assert.Equal(t, l.ID, stored[0].ID)

	f.dispatcher.Close()
	calls := f.fake.CallsTo(gateway.TableLetters)
	require.Len(t, calls, 1)
	assert.Equal(t, "insert", calls[0].Op)
	assert.Equal(t, "001/I.PB.1/K/III/2025", calls[0].Record["nomor"])
	assert.Equal(t, entity.LevelSD, calls[0].Record["tingkat"])
}

func TestAllocateSequencesAreIndependentPerScope(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	first, err := f.svc.Allocate(ctx, AllocateRequest{Code: "B", Level: entity.LevelSD, Month: 3, Year: 2025})
	require.NoError(t, err)
	second, err := f.svc.Allocate(ctx, AllocateRequest{Code: "C", Level: entity.LevelSD, Month: 3, Year: 2025})
	require.NoError(t, err)
	otherMonth, err := f.svc.Allocate(ctx, AllocateRequest{Code: "B", Level: entity.LevelSD, Month: 4, Year: 2025})
	require.NoError(t, err)
	otherTier, err := f.svc.Allocate(ctx, AllocateRequest{Code: "B", Level: entity.LevelSMP, Month: 3, Year: 2025})
	require.NoError(t, err)

	// Codes share the tier's counter; month and tier changes reset it.
	assert.Equal(t, 1, first[0].Sequence)
	assert.Equal(t, 2, second[0].Sequence)
	assert.Equal(t, 1, otherMonth[0].Sequence)
	assert.Equal(t, 1, otherTier[0].Sequence)
}

func TestAllocateBatch(t *testing.T) {
	f := newServiceFixture(t)

	letters, err := f.svc.Allocate(context.Background(), AllocateRequest{
		Code:  "I",
		Level: entity.LevelSMA,
		Month: 6,
		Year:  2025,
		Count: 3,
	})
	require.NoError(t, err)
	require.Len(t, letters, 3)

	parent := letters[0].ParentID
	require.NotZero(t, parent)
	for i, l := range letters {
		assert.Equal(t, 1, l.Sequence, "batch shares one sequence")
		assert.Equal(t, i+1, l.SubIndex)
		assert.Equal(t, parent, l.ParentID)
		assert.Equal(t, parent+int64(i)+1, l.ID, "member IDs are contiguous after the parent")
		assert.Equal(t, "(Bagian dari 3 surat)", l.Note)
	}
	assert.Equal(t, "001.1/V.PB.1/I/VI/2025", Format(letters[0]))
	assert.Equal(t, "001.3/V.PB.1/I/VI/2025", Format(letters[2]))

	// A following single allocation continues after the batch sequence.
	next, err := f.svc.Allocate(context.Background(), AllocateRequest{
		Code: "I", Level: entity.LevelSMA, Month: 6, Year: 2025,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, next[0].Sequence)

	f.dispatcher.Close()
	assert.Len(t, f.fake.CallsTo(gateway.TableLetters), 4)
}

func TestAllocateBatchKeepsExplicitNote(t *testing.T) {
	f := newServiceFixture(t)

	letters, err := f.svc.Allocate(context.Background(), AllocateRequest{
		Code:  "I",
		Level: entity.LevelSMA,
		Month: 6,
		Year:  2025,
		Note:  "tugas pengawas ujian",
		Count: 2,
	})
	require.NoError(t, err)
	for _, l := range letters {
		assert.Equal(t, "tugas pengawas ujian", l.Note)
	}
}

func TestAllocateAppliesFloor(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SetFloor(ctx, entity.LevelUmum, 120))

	letters, err := f.svc.Allocate(ctx, AllocateRequest{
		Code: "A.1", Level: entity.LevelUmum, Month: 1, Year: 2026,
	})
	require.NoError(t, err)
	assert.Equal(t, 121, letters[0].Sequence)

	// Once the scope is past the floor the counter proceeds normally.
	letters, err = f.svc.Allocate(ctx, AllocateRequest{
		Code: "A.1", Level: entity.LevelUmum, Month: 1, Year: 2026,
	})
	require.NoError(t, err)
	assert.Equal(t, 122, letters[0].Sequence)
}

func TestAllocateValidation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  AllocateRequest
		code string
	}{
		{"missing code", AllocateRequest{Level: entity.LevelSD}, apperror.CodeScopeMissing},
		{"missing tier", AllocateRequest{Code: "B"}, apperror.CodeScopeMissing},
		{"unknown code", AllocateRequest{Code: "ZZ", Level: entity.LevelSD}, apperror.CodeValidation},
		{"unknown tier", AllocateRequest{Code: "B", Level: "IX"}, apperror.CodeValidation},
		{"month out of range", AllocateRequest{Code: "B", Level: entity.LevelSD, Month: 13}, apperror.CodeValidation},
		{"oversized batch", AllocateRequest{Code: "B", Level: entity.LevelSD, Count: 101}, apperror.CodeInvalidQuantity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Allocate(ctx, tc.req)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tc.code, appErr.Code)
		})
	}

	assert.Empty(t, f.store.Letters(), "failed allocations must not touch state")
}

func TestAllocateDefaultsMonthAndYear(t *testing.T) {
	f := newServiceFixture(t)

	letters, err := f.svc.Allocate(context.Background(), AllocateRequest{
		Code: "B", Level: entity.LevelSD,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, letters[0].Month)
	assert.Equal(t, 2025, letters[0].Year)
}

func TestSetFloorPersistsSetting(t *testing.T) {
	f := newServiceFixture(t)

	require.NoError(t, f.svc.SetFloor(context.Background(), entity.LevelSD, 42))
	assert.Equal(t, 42, f.store.Floors()[entity.LevelSD])

	f.dispatcher.Close()
	calls := f.fake.CallsTo(gateway.TableSettings)
	require.Len(t, calls, 1)
	assert.Equal(t, "upsert", calls[0].Op)
	assert.Equal(t, "tingkat", calls[0].ConflictKey)
	assert.Equal(t, 42, calls[0].Record["base_nomor"])

	auditCalls := f.fake.CallsTo(gateway.TableAudit)
	require.Len(t, auditCalls, 1)
	assert.Equal(t, "update", auditCalls[0].Record["action"])
}

func TestSetFloorValidation(t *testing.T) {
	f := newServiceFixture(t)

	err := f.svc.SetFloor(context.Background(), "IX", 10)
	require.Error(t, err)

	err = f.svc.SetFloor(context.Background(), entity.LevelSD, -1)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidQuantity, appErr.Code)
}

func TestStats(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Allocate(ctx, AllocateRequest{Code: "B", Level: entity.LevelSD, Month: 3, Year: 2025})
	require.NoError(t, err)
	_, err = f.svc.Allocate(ctx, AllocateRequest{Code: "K", Level: entity.LevelSD, Month: 3, Year: 2025, Count: 2})
	require.NoError(t, err)

	stats := f.svc.Stats(ctx)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 3, stats.Today)
	assert.Equal(t, 3, stats.ByLevel[entity.LevelSD])
	assert.Equal(t, 1, stats.ByCode["B"])
	assert.Equal(t, 2, stats.ByCode["K"])
	assert.Equal(t, "002.1/I.PB.1/K/III/2025", stats.LastNumbers[entity.LevelSD])
}

package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tatausaha/pkg/logger"
)

// recordingGateway is a minimal in-package fake; gatewaytest depends on
// this package and cannot be imported here.
type recordingGateway struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (r *recordingGateway) record(s string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, s)
	return r.err
}

func (r *recordingGateway) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *recordingGateway) Insert(_ context.Context, table string, _ Record) error {
	return r.record("insert:" + table)
}

func (r *recordingGateway) Upsert(_ context.Context, table string, _ Record, _ string) error {
	return r.record("upsert:" + table)
}

func (r *recordingGateway) Update(_ context.Context, table string, _ Filter, _ Record) error {
	return r.record("update:" + table)
}

func (r *recordingGateway) Delete(_ context.Context, table string, _ Filter) error {
	return r.record("delete:" + table)
}

func (r *recordingGateway) Select(_ context.Context, _ string, _ Filter, _ string, _ bool) ([]Record, error) {
	return nil, nil
}

func TestDispatcherPreservesEnqueueOrder(t *testing.T) {
	gw := &recordingGateway{}
	d := NewDispatcher(gw, logger.Default(), 16)
	ctx := context.Background()

	d.Insert(ctx, "sales", Record{"id": 1})
	d.Insert(ctx, "inventory_log", Record{"id": 2})
	d.Upsert(ctx, "inventory", Record{"nama": "Paper A"}, "nama")
	d.Delete(ctx, "sales", Filter{"id": 1})

	d.Close()

	require.Equal(t, []string{
		"insert:sales",
		"insert:inventory_log",
		"upsert:inventory",
		"delete:sales",
	}, gw.Calls())
}

func TestDispatcherSurvivesWriteFailures(t *testing.T) {
	gw := &recordingGateway{err: errors.New("connection reset")}
	d := NewDispatcher(gw, logger.Default(), 16)
	ctx := context.Background()

	// Failures are logged, never returned; later writes still run.
	d.Insert(ctx, "sales", Record{"id": 1})
	d.Insert(ctx, "sales", Record{"id": 2})

	d.Close()
	assert.Len(t, gw.Calls(), 2)
}

func TestDispatcherInsertAfterDelays(t *testing.T) {
	gw := &recordingGateway{}
	d := NewDispatcher(gw, logger.Default(), 16)
	ctx := context.Background()

	start := time.Now()
	d.Insert(ctx, "nomor_surat", Record{"id": 1})
	d.InsertAfter(ctx, 30*time.Millisecond, "nomor_surat", Record{"id": 2})
	d.InsertAfter(ctx, 30*time.Millisecond, "nomor_surat", Record{"id": 3})
	d.Close()

	assert.Len(t, gw.Calls(), 3)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond,
		"delayed writes space out the queue")
}

func TestDispatcherCloseIsIdempotent(t *testing.T) {
	gw := &recordingGateway{}
	d := NewDispatcher(gw, logger.Default(), 16)

	d.Insert(context.Background(), "sales", Record{"id": 1})
	d.Close()
	d.Close()

	// Writes after close are dropped, not executed.
	d.Insert(context.Background(), "sales", Record{"id": 2})
	assert.Len(t, gw.Calls(), 1)
}

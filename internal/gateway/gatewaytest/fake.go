// Package gatewaytest provides an in-memory Gateway for service tests.
package gatewaytest

import (
	"context"
	"sync"

	"tatausaha/internal/gateway"
)

// Call is one recorded gateway invocation.
type Call struct {
	Op          string
	Table       string
	Record      gateway.Record
	Key         gateway.Filter
	Patch       gateway.Record
	ConflictKey string
}

// Fake records every call and optionally fails them. Safe for concurrent
// use; the dispatcher drives it from a background goroutine.
type Fake struct {
	mu    sync.Mutex
	calls []Call

	// Err, when set, is returned by every write.
	Err error

	// Rows is returned by Select.
	Rows []gateway.Record
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{}
}

func (f *Fake) record(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

// Calls returns a copy of all recorded calls in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo returns the recorded calls against one table.
func (f *Fake) CallsTo(table string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Table == table {
			out = append(out, c)
		}
	}
	return out
}

func (f *Fake) Insert(_ context.Context, table string, rec gateway.Record) error {
	f.record(Call{Op: "insert", Table: table, Record: rec})
	return f.Err
}

func (f *Fake) Upsert(_ context.Context, table string, rec gateway.Record, conflictKey string) error {
	f.record(Call{Op: "upsert", Table: table, Record: rec, ConflictKey: conflictKey})
	return f.Err
}

func (f *Fake) Update(_ context.Context, table string, key gateway.Filter, patch gateway.Record) error {
	f.record(Call{Op: "update", Table: table, Key: key, Patch: patch})
	return f.Err
}

func (f *Fake) Delete(_ context.Context, table string, key gateway.Filter) error {
	f.record(Call{Op: "delete", Table: table, Key: key})
	return f.Err
}

func (f *Fake) Select(_ context.Context, table string, _ gateway.Filter, _ string, _ bool) ([]gateway.Record, error) {
	f.record(Call{Op: "select", Table: table})
	return f.Rows, f.Err
}

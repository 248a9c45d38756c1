package gateway

import (
	"context"
	"sync"
	"time"

	"tatausaha/internal/core/appctx"
	"tatausaha/internal/core/apperror"
	"tatausaha/pkg/logger"
)

const (
	opInsert = "insert"
	opUpsert = "upsert"
	opUpdate = "update"
	opDelete = "delete"
)

// op is one queued write. Actor and request ID are captured at enqueue
// time because the request context is gone by the time the op executes.
type op struct {
	kind        string
	table       string
	rec         Record
	key         Filter
	patch       Record
	conflictKey string
	delay       time.Duration
	actor       string
	requestID   string
}

// Dispatcher executes writes asynchronously, in enqueue order, on a single
// background worker. Callers never wait for the backend and never see a
// write error: failures are logged and the in-memory state stays as the
// caller left it.
type Dispatcher struct {
	gw      Gateway
	log     *logger.Logger
	timeout time.Duration

	mu     sync.Mutex
	queue  chan op
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher starts a dispatcher with the given queue capacity. Enqueue
// blocks once the queue is full, which back-pressures a flood of writes
// without dropping any.
func NewDispatcher(gw Gateway, log *logger.Logger, buffer int) *Dispatcher {
	if buffer < 1 {
		buffer = 64
	}
	d := &Dispatcher{
		gw:      gw,
		log:     log.WithComponent("dispatcher"),
		timeout: 30 * time.Second,
		queue:   make(chan op, buffer),
	}
	d.wg.Add(1)
	go d.drain()
	return d
}

// Insert queues an insert.
func (d *Dispatcher) Insert(ctx context.Context, table string, rec Record) {
	d.enqueue(ctx, op{kind: opInsert, table: table, rec: rec})
}

// InsertAfter queues an insert that waits the given delay before executing.
// The worker is single-threaded, so the delay also spaces out everything
// queued behind it; batch letter writes use this to throttle the backend.
func (d *Dispatcher) InsertAfter(ctx context.Context, delay time.Duration, table string, rec Record) {
	d.enqueue(ctx, op{kind: opInsert, table: table, rec: rec, delay: delay})
}

// Upsert queues an upsert keyed on conflictKey.
func (d *Dispatcher) Upsert(ctx context.Context, table string, rec Record, conflictKey string) {
	d.enqueue(ctx, op{kind: opUpsert, table: table, rec: rec, conflictKey: conflictKey})
}

// Update queues a partial update of the rows matching key.
func (d *Dispatcher) Update(ctx context.Context, table string, key Filter, patch Record) {
	d.enqueue(ctx, op{kind: opUpdate, table: table, key: key, patch: patch})
}

// Delete queues a delete of the rows matching key.
func (d *Dispatcher) Delete(ctx context.Context, table string, key Filter) {
	d.enqueue(ctx, op{kind: opDelete, table: table, key: key})
}

// Close stops accepting writes, drains the queue and waits for the worker.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) enqueue(ctx context.Context, o op) {
	o.actor = appctx.Actor(ctx)
	o.requestID = appctx.GetRequestID(ctx)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.log.Warnw("write dropped, dispatcher closed", "table", o.table, "op", o.kind)
		return
	}
	d.queue <- o
	d.mu.Unlock()
}

func (d *Dispatcher) drain() {
	defer d.wg.Done()
	for o := range d.queue {
		if o.delay > 0 {
			time.Sleep(o.delay)
		}
		d.execute(o)
	}
}

func (d *Dispatcher) execute(o op) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	var err error
	switch o.kind {
	case opInsert:
		err = d.gw.Insert(ctx, o.table, o.rec)
	case opUpsert:
		err = d.gw.Upsert(ctx, o.table, o.rec, o.conflictKey)
	case opUpdate:
		err = d.gw.Update(ctx, o.table, o.key, o.patch)
	case opDelete:
		err = d.gw.Delete(ctx, o.table, o.key)
	}

	if err != nil {
		pErr := apperror.NewPersistence(o.table, err)
		d.log.Errorw("background write failed",
			"op", o.kind,
			"table", o.table,
			"actor", o.actor,
			"request_id", o.requestID,
			"error", pErr.Error(),
		)
		return
	}

	d.log.Debugw("background write applied",
		"op", o.kind,
		"table", o.table,
		"actor", o.actor,
	)
}

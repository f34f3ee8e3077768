// internal/app/system/activitylog/recorder.go

// Package activitylog records human-readable group actions. Recording is
// best-effort by contract: a full queue or a store failure must never fail
// or delay the business operation that triggered it, so entries flow
// through a background worker instead of an inline write.
package activitylog

import (
	"context"
	"sync"

	"github.com/communa-dev/communa/internal/app/store/activity"
	"github.com/communa-dev/communa/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const queueSize = 256

type entry struct {
	action   string
	actorID  primitive.ObjectID
	threadID *primitive.ObjectID
}

// Recorder appends activity entries from a single background worker.
// A nil Recorder is a no-op, which lets tests pass nil where activity
// output is irrelevant.
type Recorder struct {
	store *activity.Store
	log   *zap.Logger

	ch        chan entry
	wg        sync.WaitGroup
	closeOnce sync.Once

	mu     sync.RWMutex
	closed bool
}

// NewRecorder starts the worker goroutine. Call Close during shutdown to
// drain queued entries.
func NewRecorder(store *activity.Store, log *zap.Logger) *Recorder {
	r := &Recorder{
		store: store,
		log:   log,
		ch:    make(chan entry, queueSize),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// Record enqueues one entry without blocking. When the queue is full, or
// the recorder is already closed, the entry is dropped and the drop is
// logged; callers never see an error.
func (r *Recorder) Record(action string, actorID primitive.ObjectID, threadID *primitive.ObjectID) {
	if r == nil {
		return
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.log.Warn("activity log closed, entry dropped",
			zap.String("action", action),
			zap.String("actor_id", actorID.Hex()),
		)
		return
	}
	select {
	case r.ch <- entry{action: action, actorID: actorID, threadID: threadID}:
	default:
		r.log.Warn("activity log queue full, entry dropped",
			zap.String("action", action),
			zap.String("actor_id", actorID.Hex()),
		)
	}
}

// Close stops accepting entries, drains the queue, and waits for the worker.
func (r *Recorder) Close() {
	if r == nil {
		return
	}
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()
		close(r.ch)
	})
	r.wg.Wait()
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for e := range r.ch {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
		err := r.store.Append(ctx, e.action, e.actorID, e.threadID)
		cancel()
		if err != nil {
			// The log is advisory; callers never see this failure.
			r.log.Error("activity log append failed",
				zap.String("action", e.action),
				zap.String("actor_id", e.actorID.Hex()),
				zap.Error(err),
			)
		}
	}
}

// Package worker runs best-effort audit emission off the request path.
// Operational events (borrower intake, sweeps) are queued on a bounded
// channel and persisted by a single goroutine; a full queue drops the event.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	audit "lendmatch/pkg/platform/audit"
)

const defaultBuffer = 256

// Worker drains queued events into the store.
type Worker struct {
	store   audit.Store
	inbox   chan audit.Event
	logger  *slog.Logger
	dropped atomic.Int64

	closeOnce sync.Once
	done      chan struct{}
}

type Option func(*Worker)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) { w.logger = logger }
}

// WithBuffer sets the queue capacity.
func WithBuffer(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.inbox = make(chan audit.Event, n)
		}
	}
}

func NewWorker(store audit.Store, opts ...Option) *Worker {
	w := &Worker{
		store:  store,
		inbox:  make(chan audit.Event, defaultBuffer),
		logger: slog.Default(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Track queues an event without blocking. It reports false when the queue is
// full or the worker is closed.
func (w *Worker) Track(event audit.Event) (queued bool) {
	defer func() {
		// send on a closed inbox after Close
		if recover() != nil {
			queued = false
		}
	}()
	event = event.Normalize(time.Now())
	select {
	case w.inbox <- event:
		return true
	default:
		w.dropped.Add(1)
		return false
	}
}

// Dropped returns how many events were discarded because the queue was full.
func (w *Worker) Dropped() int64 {
	return w.dropped.Load()
}

// Run persists queued events until the inbox is closed. Store errors are
// logged and the event is discarded.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)
	for event := range w.inbox {
		if err := w.store.Append(ctx, event); err != nil {
			w.logger.WarnContext(ctx, "failed to persist audit event",
				"action", event.Action,
				"aggregate_id", event.AggregateID,
				"error", err,
			)
		}
	}
}

// Close stops accepting events and waits for Run to drain the queue or for
// ctx to expire.
func (w *Worker) Close(ctx context.Context) error {
	w.closeOnce.Do(func() { close(w.inbox) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Package dispatch implements the bounded worker-pool and dirty-queue
// primitives the world orchestrator uses to fan terrain, lighting, and
// meshing tasks out across goroutines, and to track which chunks need a
// mesh rebuild and in what priority order.
package dispatch

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Pool runs submitted tasks with at most `size` running concurrently. It
// is a thin wrapper over errgroup.Group plus a counting semaphore channel,
// so callers get bounded fan-out without hand-rolling a channel-of-jobs
// worker loop per pool.
type Pool struct {
	sem   chan struct{}
	group *errgroup.Group
	ctx   context.Context
	log   *slog.Logger
}

// NewPool returns a Pool bound to ctx that runs at most size tasks
// concurrently. size <= 0 is treated as 1. log (may be nil) receives a
// record for any task that panics.
func NewPool(ctx context.Context, size int, log *slog.Logger) *Pool {
	if size <= 0 {
		size = 1
	}
	group, gctx := errgroup.WithContext(ctx)
	return &Pool{
		sem:   make(chan struct{}, size),
		group: group,
		ctx:   gctx,
		log:   log,
	}
}

// Submit runs fn on a pool goroutine once a slot is free. It returns
// immediately; fn's error (if any) surfaces from Wait. Submit itself
// blocks only long enough to acquire a slot or observe ctx cancellation.
//
// A panic inside fn is recovered here: it is logged and the task is
// simply dropped rather than crashing the process or tearing down the
// rest of the pool. The recovered panic is deliberately not returned as
// an error, since errgroup cancels its derived context on the first
// non-nil error, which would silently stop every future Submit on this
// pool (the ctx.Done() case below) over a single task's failure.
func (p *Pool) Submit(fn func(ctx context.Context) error) {
	select {
	case p.sem <- struct{}{}:
	case <-p.ctx.Done():
		return
	}
	p.group.Go(func() error {
		defer func() { <-p.sem }()
		defer func() {
			if r := recover(); r != nil && p.log != nil {
				p.log.Error("worker task panicked, task dropped", "panic", r)
			}
		}()
		return fn(p.ctx)
	})
}

// Wait blocks until every submitted task has returned, and returns the
// first non-nil error any of them produced.
func (p *Pool) Wait() error {
	return p.group.Wait()
}

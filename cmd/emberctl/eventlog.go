package main

import (
	"log/slog"
	"sync"
	"time"

	"github.com/embercore/ember/server/voxel"
	"github.com/embercore/ember/server/world/chunk"
)

// eventRouter logs every event the orchestrator emits and lets runScenario
// block until a scripted step's effect has actually landed (chunk
// generated, lighting settled, mesh rebuilt) instead of guessing a sleep
// duration.
type eventRouter struct {
	log *slog.Logger

	mu       sync.Mutex
	watchers []*watcher
}

type watcher struct {
	kind      voxel.EventKind
	coord     *chunk.Pos // nil matches any coord
	remaining int
	done      chan struct{}
}

func newEventRouter(log *slog.Logger) *eventRouter {
	return &eventRouter{log: log}
}

// run drains ch, logging each event and waking any matching watcher. It
// returns when ch closes.
func (r *eventRouter) run(ch <-chan voxel.Event) {
	for ev := range ch {
		r.logEvent(ev)
		r.wake(ev)
	}
}

func (r *eventRouter) logEvent(ev voxel.Event) {
	switch ev.Kind {
	case voxel.EventChunkGenerated:
		r.log.Info("chunk generated", "chunk", ev.Coord)
	case voxel.EventLightingCalculated:
		r.log.Info("lighting calculated", "chunk", ev.Coord, "bytes", len(ev.Buffer))
	case voxel.EventChunkMeshBuilt:
		r.log.Info("mesh built", "chunk", ev.Coord, "materials", len(ev.Streams))
	case voxel.EventChunkUnloaded:
		r.log.Info("chunk unloaded", "chunk", ev.Coord)
	case voxel.EventBlockPlaced:
		r.log.Info("block placed", "pos", ev.Pos, "id", ev.ID, "chunk", ev.Coord)
	case voxel.EventBlockRemoved:
		r.log.Info("block removed", "pos", ev.Pos, "chunk", ev.Coord)
	case voxel.EventWorkerTaskFailed:
		r.log.Error("worker task failed", "chunk", ev.Coord, "err", ev.Err)
	}
}

func (r *eventRouter) wake(ev voxel.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.watchers[:0]
	for _, w := range r.watchers {
		if w.kind == ev.Kind && (w.coord == nil || *w.coord == ev.Coord) {
			w.remaining--
			if w.remaining <= 0 {
				close(w.done)
				continue
			}
		}
		kept = append(kept, w)
	}
	r.watchers = kept
}

// waitN blocks until count events of kind matching coord (nil for any
// coord) have been observed, or timeout elapses.
func (r *eventRouter) waitN(kind voxel.EventKind, coord *chunk.Pos, count int, timeout time.Duration) bool {
	w := &watcher{kind: kind, coord: coord, remaining: count, done: make(chan struct{})}
	r.mu.Lock()
	r.watchers = append(r.watchers, w)
	r.mu.Unlock()

	select {
	case <-w.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

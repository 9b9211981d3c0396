package voxel

import (
	"context"
	"fmt"

	"github.com/embercore/ember/server/world/chunk"
	"github.com/embercore/ember/server/world/dispatch"
	"github.com/embercore/ember/server/world/light"
	"github.com/embercore/ember/server/world/mesh"
)

// recoverTask must be deferred at the top of every pool task body. It
// clears pos's pending entry for st and publishes WorkerTaskFailed
// instead of letting a panic strand the pending key or reach the pool
// (dispatch.Pool recovers too, but has no pending map of its own to
// clean up).
func (w *World) recoverTask(pos chunk.Pos, st stage) {
	r := recover()
	if r == nil {
		return
	}
	w.mu.Lock()
	delete(w.pending, pendingKey{pos, st})
	w.mu.Unlock()

	err := fmt.Errorf("%w: %v", ErrWorkerTaskFailed, r)
	w.log.Error("worker task panicked, task dropped", "chunk", pos, "stage", st, "err", err)
	w.bus.Publish(newWorkerTaskFailed(pos, err))
}

// onTerrainDone stores a freshly generated chunk, publishes
// ChunkGenerated, and enqueues lighting for it.
func (w *World) onTerrainDone(pos chunk.Pos, data *chunk.Data) {
	w.mu.Lock()
	w.chunks[pos] = &chunkEntry{data: data, generated: true}
	delete(w.pending, pendingKey{pos, stageTerrain})
	w.mu.Unlock()

	w.bus.Publish(newChunkGenerated(pos, w.cfg.RenderRadius))
	w.submitLight(pos)
}

// submitLight dispatches a lighting pass for pos unless one is already in
// flight. The task receives clones of the center and any loaded
// neighbours (standing in for serialized neighbour buffers crossing a
// process boundary) and never touches the canonical map directly.
func (w *World) submitLight(pos chunk.Pos) {
	w.mu.Lock()
	entry, ok := w.chunks[pos]
	if !ok {
		w.mu.Unlock()
		return // NeighborMissing: nothing loaded yet for this coord, skip
	}
	key := pendingKey{pos, stageLight}
	if _, ok := w.pending[key]; ok {
		w.mu.Unlock()
		return
	}
	w.pending[key] = struct{}{}
	center := entry.data.Clone()
	nb := w.lightNeighboursLocked(pos)
	w.mu.Unlock()

	w.lightPool.Submit(func(ctx context.Context) error {
		defer w.recoverTask(pos, stageLight)
		light.SkyOcclusion(center, w.reg)
		res := light.Flood(center, nb, w.reg, w.cfg.LightQueueCap, w.log)
		w.onLightDone(pos, center, res)
		return nil
	})
}

// lightNeighboursLocked must be called with mu held.
func (w *World) lightNeighboursLocked(pos chunk.Pos) light.Neighbors {
	n := pos.Neighbours() // North, South, East, West
	var nb light.Neighbors
	if e, ok := w.chunks[n[0]]; ok {
		nb.North = e.data.Clone()
	}
	if e, ok := w.chunks[n[1]]; ok {
		nb.South = e.data.Clone()
	}
	if e, ok := w.chunks[n[2]]; ok {
		nb.East = e.data.Clone()
	}
	if e, ok := w.chunks[n[3]]; ok {
		nb.West = e.data.Clone()
	}
	return nb
}

// meshNeighboursLocked must be called with mu held.
func (w *World) meshNeighboursLocked(pos chunk.Pos) mesh.Neighbors {
	n := pos.Neighbours()
	var nb mesh.Neighbors
	if e, ok := w.chunks[n[0]]; ok {
		nb.North = e.data.Clone()
	}
	if e, ok := w.chunks[n[1]]; ok {
		nb.South = e.data.Clone()
	}
	if e, ok := w.chunks[n[2]]; ok {
		nb.East = e.data.Clone()
	}
	if e, ok := w.chunks[n[3]]; ok {
		nb.West = e.data.Clone()
	}
	return nb
}

// onLightDone applies the result of a lighting pass: only the updated
// center is committed. Any writes the pass made to neighbour clones are
// discarded; the seam is corrected later when that neighbour runs its own
// pass. A chunk that unloaded while the task was in flight is simply
// dropped.
func (w *World) onLightDone(pos chunk.Pos, data *chunk.Data, res light.FloodResult) {
	w.mu.Lock()
	entry, ok := w.chunks[pos]
	if !ok {
		delete(w.pending, pendingKey{pos, stageLight})
		w.mu.Unlock()
		return
	}
	entry.data = data
	delete(w.pending, pendingKey{pos, stageLight})

	fp := data.Fingerprint()
	changed := !entry.hasLightFingerprint || entry.lightFingerprint != fp
	entry.hasLightFingerprint = true
	entry.lightFingerprint = fp

	w.dirty.Mark(pos, dispatch.PriorityLight)
	for _, n := range pos.Neighbours() {
		if _, ok := w.chunks[n]; ok {
			w.dirty.Mark(n, dispatch.PriorityLight)
		}
	}
	w.mu.Unlock()

	if changed {
		w.bus.Publish(newLightingCalculated(pos, data.RawBuffer()))
	}
	// res.Overflowed, if set, was already logged by Flood itself.
}

// submitMesh dispatches a mesh build for pos unless one is already in
// flight or the chunk is no longer loaded.
func (w *World) submitMesh(pos chunk.Pos) {
	w.mu.Lock()
	entry, ok := w.chunks[pos]
	if !ok {
		w.mu.Unlock()
		return
	}
	key := pendingKey{pos, stageMesh}
	if _, ok := w.pending[key]; ok {
		w.mu.Unlock()
		return
	}
	w.pending[key] = struct{}{}
	center := entry.data.Clone()
	nb := w.meshNeighboursLocked(pos)
	w.mu.Unlock()

	w.meshPool.Submit(func(ctx context.Context) error {
		defer w.recoverTask(pos, stageMesh)
		streams := mesh.Build(center, nb, w.reg)
		w.onMeshDone(pos, streams)
		return nil
	})
}

// onMeshDone publishes the finished mesh unless the chunk unloaded while
// the task was in flight; chunk unload cancels any pending mesh rebuild
// for that coord.
func (w *World) onMeshDone(pos chunk.Pos, streams map[string]*mesh.Stream) {
	w.mu.Lock()
	_, ok := w.chunks[pos]
	delete(w.pending, pendingKey{pos, stageMesh})
	w.mu.Unlock()
	if !ok {
		return
	}
	w.bus.Publish(newChunkMeshBuilt(pos, streams))
}

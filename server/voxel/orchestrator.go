// Package voxel implements the World orchestrator: it owns the chunk map
// and event bus, dispatches terrain/lighting/meshing work to bounded
// worker pools, and drives a dirty-mesh queue under a per-frame time
// budget.
package voxel

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/embercore/ember/server/world/block"
	"github.com/embercore/ember/server/world/chunk"
	"github.com/embercore/ember/server/world/dispatch"
	"github.com/embercore/ember/server/world/generator/terrain"
)

type stage uint8

const (
	stageTerrain stage = iota
	stageLight
	stageMesh
)

type pendingKey struct {
	pos   chunk.Pos
	stage stage
}

type chunkEntry struct {
	data      *chunk.Data
	generated bool

	hasLightFingerprint bool
	lightFingerprint    uint64
}

// World is the orchestrator described by this package's doc comment. Its
// exported methods are safe for concurrent use; all chunk-map,
// dirty-queue and pending-map mutation happens while holding mu,
// serializing access to shared state the way a single coordinator would,
// without needing an actor loop of its own. Events are published after mu
// is released.
type World struct {
	id  uuid.UUID
	cfg Config
	log *slog.Logger
	reg *block.Registry
	gen *terrain.Generator
	bus *Bus

	mu      sync.Mutex
	chunks  map[chunk.Pos]*chunkEntry
	dirty   *dispatch.DirtyQueue
	pending map[pendingKey]struct{}

	terrainPool *dispatch.Pool
	lightPool   *dispatch.Pool
	meshPool    *dispatch.Pool
}

// New builds a World bound to reg and ready to accept commands. Its
// worker pools run until cfg.WorkerPoolContext is cancelled.
func New(cfg Config, reg *block.Registry) *World {
	cfg = cfg.fill()
	id := uuid.New()
	log := cfg.Log.With("world", id.String())
	return &World{
		id:          id,
		cfg:         cfg,
		log:         log,
		reg:         reg,
		gen:         terrain.New(cfg.Seed, reg),
		bus:         NewBus(),
		chunks:      make(map[chunk.Pos]*chunkEntry),
		dirty:       dispatch.NewDirtyQueue(),
		pending:     make(map[pendingKey]struct{}),
		terrainPool: dispatch.NewPool(cfg.WorkerPoolContext, 2, log),
		lightPool:   dispatch.NewPool(cfg.WorkerPoolContext, cfg.LightingWorkers, log),
		meshPool:    dispatch.NewPool(cfg.WorkerPoolContext, cfg.MeshingWorkers, log),
	}
}

// Subscribe returns a channel of every event this World emits from here
// on.
func (w *World) Subscribe() <-chan Event {
	return w.bus.Subscribe()
}

// Load enumerates the (2r+1)^2 coordinates around observer (r =
// cfg.RenderRadius), sorted by squared distance ascending, and dispatches
// Generate for any not yet generated or in flight.
func (w *World) Load(observer chunk.Pos) {
	r := int32(w.cfg.RenderRadius)
	type candidate struct {
		pos  chunk.Pos
		dist int64
	}
	candidates := make([]candidate, 0, (2*r+1)*(2*r+1))
	for dx := -r; dx <= r; dx++ {
		for dz := -r; dz <= r; dz++ {
			pos := chunk.Pos{observer.X() + dx, observer.Z() + dz}
			candidates = append(candidates, candidate{pos, int64(dx)*int64(dx) + int64(dz)*int64(dz)})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].pos.Morton() < candidates[j].pos.Morton()
	})
	for _, c := range candidates {
		w.Generate(c.pos)
	}
}

// Generate dispatches terrain generation for pos unless it is already
// generated or already has a terrain task in flight.
func (w *World) Generate(pos chunk.Pos) {
	w.mu.Lock()
	if e, ok := w.chunks[pos]; ok && e.generated {
		w.mu.Unlock()
		return
	}
	key := pendingKey{pos, stageTerrain}
	if _, ok := w.pending[key]; ok {
		w.mu.Unlock()
		return
	}
	w.pending[key] = struct{}{}
	w.mu.Unlock()

	w.terrainPool.Submit(func(ctx context.Context) error {
		defer w.recoverTask(pos, stageTerrain)
		data := w.gen.Generate(pos)
		w.onTerrainDone(pos, data)
		return nil
	})
}

// Unload drops every loaded chunk farther (Chebyshev) than cfg.RenderRadius
// from observer, removing it from the chunk map and dirty queue and
// emitting ChunkUnloaded.
func (w *World) Unload(observer chunk.Pos) {
	r := int32(w.cfg.RenderRadius)
	w.mu.Lock()
	var drop []chunk.Pos
	for pos := range w.chunks {
		dx, dz := pos.X()-observer.X(), pos.Z()-observer.Z()
		if abs32(dx) > r || abs32(dz) > r {
			drop = append(drop, pos)
		}
	}
	for _, pos := range drop {
		delete(w.chunks, pos)
		w.dirty.Remove(pos)
	}
	w.mu.Unlock()

	for _, pos := range drop {
		w.bus.Publish(newChunkUnloaded(pos))
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// PlaceBlock validates 0 <= wy < 256, writes id into the owning chunk,
// and enqueues re-lighting for that chunk and, if the local coordinate
// touches a chunk face, the corresponding neighbour(s). A target chunk
// that isn't loaded is a rejected command: no events are emitted.
func (w *World) PlaceBlock(wx, wy, wz int, id uint16) error {
	if wy < 0 || wy >= chunk.SizeY {
		w.log.Warn("place block rejected: y out of bounds", "y", wy)
		return fmt.Errorf("%w: y=%d", ErrOutOfBounds, wy)
	}
	pos, lx, lz := worldToChunk(wx, wz)

	w.mu.Lock()
	entry, ok := w.chunks[pos]
	if !ok {
		w.mu.Unlock()
		w.log.Warn("place block rejected: chunk not loaded", "chunk", pos)
		return fmt.Errorf("%w: %v", ErrChunkNotLoaded, pos)
	}
	entry.data.SetBlock(lx, wy, lz, id)
	touched := touchedNeighbours(pos, lx, lz)
	// An edit immediately dirties its own chunk's mesh (and a touched
	// neighbour's, since face culling across the shared border depends on
	// the block that just changed) at the highest priority; the lighting
	// ripple below will try to mark the same coords at PriorityLight,
	// which the dirty queue's coalescing rule leaves no-op'd.
	w.dirty.Mark(pos, dispatch.PriorityBlock)
	for _, n := range touched {
		w.dirty.Mark(n, dispatch.PriorityBlock)
	}
	w.mu.Unlock()

	if id == block.Air {
		w.bus.Publish(newBlockRemoved(BlockPos{wx, wy, wz}, id, pos))
	} else {
		w.bus.Publish(newBlockPlaced(BlockPos{wx, wy, wz}, id, pos))
	}

	w.submitLight(pos)
	for _, n := range touched {
		w.submitLight(n)
	}
	return nil
}

// RemoveBlock is PlaceBlock with block.Air.
func (w *World) RemoveBlock(wx, wy, wz int) error {
	return w.PlaceBlock(wx, wy, wz, block.Air)
}

// worldToChunk converts a world block (x, z) into its owning chunk
// coordinate and local (x, z) within that chunk, using floor division so
// negative world coordinates resolve correctly.
func worldToChunk(wx, wz int) (chunk.Pos, int, int) {
	cx, lx := floorDivMod(wx, chunk.SizeX)
	cz, lz := floorDivMod(wz, chunk.SizeZ)
	return chunk.Pos{int32(cx), int32(cz)}, lx, lz
}

func floorDivMod(v, size int) (int, int) {
	q := v / size
	r := v % size
	if r < 0 {
		q--
		r += size
	}
	return q, r
}

// touchedNeighbours returns the neighbouring chunk coordinates a local
// edit at (lx, lz) borders, per the x in {0, SizeX-1} / z in {0, SizeZ-1}
// face rule. A corner cell touches two neighbours.
func touchedNeighbours(pos chunk.Pos, lx, lz int) []chunk.Pos {
	var out []chunk.Pos
	if lx == 0 {
		out = append(out, chunk.Pos{pos.X() - 1, pos.Z()})
	} else if lx == chunk.SizeX-1 {
		out = append(out, chunk.Pos{pos.X() + 1, pos.Z()})
	}
	if lz == 0 {
		out = append(out, chunk.Pos{pos.X(), pos.Z() - 1})
	} else if lz == chunk.SizeZ-1 {
		out = append(out, chunk.Pos{pos.X(), pos.Z() + 1})
	}
	return out
}

// ProcessDirtyQueue spends up to cfg.RebuildBudget wall time dispatching
// entries from the dirty-mesh queue, in insertion order, and returns how
// many it dispatched. Dispatch itself is cheap (a pool submission); the
// budget bounds dispatch, not worker execution.
func (w *World) ProcessDirtyQueue() int {
	start := time.Now()
	dispatched := 0
	for time.Since(start) < w.cfg.RebuildBudget {
		w.mu.Lock()
		entries := w.dirty.Drain(1)
		w.mu.Unlock()
		if len(entries) == 0 {
			break
		}
		w.submitMesh(entries[0])
		dispatched++
	}
	return dispatched
}

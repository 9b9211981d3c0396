package voxel

import (
	"testing"
	"time"

	"github.com/embercore/ember/server/world/block"
	"github.com/embercore/ember/server/world/chunk"
)

func newTestWorld(t *testing.T) (*World, <-chan Event) {
	t.Helper()
	reg := block.NewDefaultRegistry()
	w := New(Config{Seed: 1, RenderRadius: 1}, reg)
	return w, w.Subscribe()
}

func awaitKind(t *testing.T, ch <-chan Event, kind EventKind, timeout time.Duration) Event {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case ev := <-ch:
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event kind %d", kind)
		}
	}
}

func TestGenerateEmitsChunkGeneratedThenLighting(t *testing.T) {
	w, events := newTestWorld(t)
	pos := chunk.Pos{0, 0}

	w.Generate(pos)

	awaitKind(t, events, EventChunkGenerated, time.Second)
	awaitKind(t, events, EventLightingCalculated, time.Second)
}

func TestLoadFillsRadiusAroundObserver(t *testing.T) {
	w, events := newTestWorld(t)
	w.Load(chunk.Pos{0, 0})

	seen := make(map[chunk.Pos]bool)
	deadline := time.After(2 * time.Second)
	for len(seen) < 9 {
		select {
		case ev := <-events:
			if ev.Kind == EventChunkGenerated {
				seen[ev.Coord] = true
			}
		case <-deadline:
			t.Fatalf("only saw %d of 9 expected ChunkGenerated events", len(seen))
		}
	}
}

func TestPlaceBlockOnUnloadedChunkIsRejected(t *testing.T) {
	w, _ := newTestWorld(t)
	err := w.PlaceBlock(5, 64, 5, block.Stone)
	if err == nil {
		t.Fatal("expected an error placing a block in an unloaded chunk")
	}
}

func TestPlaceBlockOutOfBoundsYIsRejected(t *testing.T) {
	w, _ := newTestWorld(t)
	if err := w.PlaceBlock(0, 256, 0, block.Stone); err == nil {
		t.Fatal("expected an error for y out of bounds")
	}
	if err := w.PlaceBlock(0, -1, 0, block.Stone); err == nil {
		t.Fatal("expected an error for negative y")
	}
}

func TestPlaceBlockAtChunkEdgeMarksNeighbourDirty(t *testing.T) {
	w, events := newTestWorld(t)
	w.Generate(chunk.Pos{0, 0})
	w.Generate(chunk.Pos{1, 0})
	awaitKind(t, events, EventLightingCalculated, time.Second)
	awaitKind(t, events, EventLightingCalculated, time.Second)

	// x = SizeX-1 is the east edge of chunk (0,0): touches chunk (1,0).
	if err := w.PlaceBlock(chunk.SizeX-1, 64, 5, block.Stone); err != nil {
		t.Fatalf("PlaceBlock failed: %v", err)
	}

	w.mu.Lock()
	_, selfDirty := w.dirty.Peek(chunk.Pos{0, 0})
	_, neighbourDirty := w.dirty.Peek(chunk.Pos{1, 0})
	w.mu.Unlock()
	if !selfDirty || !neighbourDirty {
		t.Fatalf("expected both (0,0) and (1,0) dirty, got self=%v neighbour=%v", selfDirty, neighbourDirty)
	}
}

func TestProcessDirtyQueueDispatchesMarkedChunk(t *testing.T) {
	w, events := newTestWorld(t)
	w.Generate(chunk.Pos{0, 0})
	awaitKind(t, events, EventLightingCalculated, time.Second)

	w.mu.Lock()
	w.dirty.Mark(chunk.Pos{0, 0}, 0)
	w.mu.Unlock()

	n := w.ProcessDirtyQueue()
	if n == 0 {
		t.Fatal("expected at least one dispatch")
	}
	awaitKind(t, events, EventChunkMeshBuilt, time.Second)
}

func TestUnloadDropsDistantChunksAndEmitsEvent(t *testing.T) {
	w, events := newTestWorld(t)
	w.Generate(chunk.Pos{5, 5})
	awaitKind(t, events, EventLightingCalculated, time.Second)

	w.Unload(chunk.Pos{0, 0})

	ev := awaitKind(t, events, EventChunkUnloaded, time.Second)
	if ev.Coord != (chunk.Pos{5, 5}) {
		t.Fatalf("unloaded coord = %v, want {5 5}", ev.Coord)
	}
	w.mu.Lock()
	_, stillLoaded := w.chunks[chunk.Pos{5, 5}]
	w.mu.Unlock()
	if stillLoaded {
		t.Fatal("chunk (5,5) should have been dropped from the map")
	}
}

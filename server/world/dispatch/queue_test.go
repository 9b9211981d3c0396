package dispatch

import (
	"testing"

	"github.com/embercore/ember/server/world/chunk"
)

func TestDirtyQueueBlockOutranksLight(t *testing.T) {
	q := NewDirtyQueue()
	pos := chunk.Pos{0, 0}
	q.Mark(pos, PriorityBlock)
	q.Mark(pos, PriorityLight)
	if q.priority[pos] != PriorityBlock {
		t.Fatalf("light mark overwrote an existing block mark: got %v", q.priority[pos])
	}
}

func TestDirtyQueueNewerReasonOverwrites(t *testing.T) {
	q := NewDirtyQueue()
	pos := chunk.Pos{0, 0}
	q.Mark(pos, PriorityGlobal)
	q.Mark(pos, PriorityLight)
	if q.priority[pos] != PriorityLight {
		t.Fatalf("light mark did not overwrite global: got %v", q.priority[pos])
	}
}

func TestDirtyQueueDrainIsInsertionOrder(t *testing.T) {
	q := NewDirtyQueue()
	a, b, c := chunk.Pos{0, 0}, chunk.Pos{1, 0}, chunk.Pos{0, 1}
	q.Mark(a, PriorityGlobal)
	q.Mark(b, PriorityBlock)
	q.Mark(c, PriorityLight)

	got := q.Drain(2)
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("drain order = %v, want [%v %v]", got, a, b)
	}
	if q.Len() != 1 {
		t.Fatalf("residual queue length = %d, want 1", q.Len())
	}
	rest := q.Drain(10)
	if len(rest) != 1 || rest[0] != c {
		t.Fatalf("second drain = %v, want [%v]", rest, c)
	}
}

func TestDirtyQueueRemove(t *testing.T) {
	q := NewDirtyQueue()
	a, b := chunk.Pos{0, 0}, chunk.Pos{1, 0}
	q.Mark(a, PriorityGlobal)
	q.Mark(b, PriorityGlobal)
	q.Remove(a)
	if q.Len() != 1 {
		t.Fatalf("queue length after remove = %d, want 1", q.Len())
	}
	got := q.Drain(10)
	if len(got) != 1 || got[0] != b {
		t.Fatalf("drain after remove = %v, want [%v]", got, b)
	}
}

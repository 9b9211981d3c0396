package terrain

import (
	"bytes"
	"testing"

	"github.com/embercore/ember/server/world/block"
	"github.com/embercore/ember/server/world/chunk"
)

func TestGenerateDeterministic(t *testing.T) {
	reg := block.NewDefaultRegistry()
	g := New(42, reg)
	pos := chunk.Pos{3, -2}

	a := g.Generate(pos)
	b := g.Generate(pos)

	if !bytes.Equal(a.RawBuffer(), b.RawBuffer()) {
		t.Fatal("two Generate calls with the same seed and pos produced different buffers")
	}
}

func TestGenerateDiffersAcrossCoords(t *testing.T) {
	reg := block.NewDefaultRegistry()
	g := New(7, reg)

	a := g.Generate(chunk.Pos{0, 0})
	b := g.Generate(chunk.Pos{1, 0})

	if bytes.Equal(a.RawBuffer(), b.RawBuffer()) {
		t.Fatal("distinct chunk coordinates produced identical buffers")
	}
}

func TestGenerateBedrockFloor(t *testing.T) {
	reg := block.NewDefaultRegistry()
	g := New(1, reg)
	c := g.Generate(chunk.Pos{0, 0})

	for x := 0; x < chunk.SizeX; x++ {
		for z := 0; z < chunk.SizeZ; z++ {
			if got := c.Block(x, 0, z); got != block.Bedrock {
				t.Fatalf("(%d,0,%d) = %d, want bedrock", x, z, got)
			}
		}
	}
}

func TestGenerateStaysInBounds(t *testing.T) {
	reg := block.NewDefaultRegistry()
	g := New(99, reg)
	// Generate should never panic regardless of coordinate magnitude.
	g.Generate(chunk.Pos{10000, -10000})
}

func TestIsCliffDetection(t *testing.T) {
	var h [chunk.SizeX][chunk.SizeZ]int
	for x := range h {
		for z := range h[x] {
			h[x][z] = 64
		}
	}
	if isCliff(h, 5, 5) {
		t.Fatal("flat height field should not be a cliff")
	}
	h[6][5] = 64 + cliffStep
	if !isCliff(h, 5, 5) {
		t.Fatal("expected a cliff where a neighbour height jumps by cliffStep")
	}
}

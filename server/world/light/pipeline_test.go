package light

import (
	"testing"

	"github.com/embercore/ember/server/world/block"
	"github.com/embercore/ember/server/world/chunk"
)

func TestSkyOcclusionMonotonic(t *testing.T) {
	reg := block.NewDefaultRegistry()
	c := chunk.New()
	for y := 0; y < 32; y++ {
		for x := 0; x < chunk.SizeX; x++ {
			for z := 0; z < chunk.SizeZ; z++ {
				c.SetBlock(x, y, z, block.Stone)
			}
		}
	}
	SkyOcclusion(c, reg)

	for x := 0; x < chunk.SizeX; x++ {
		for z := 0; z < chunk.SizeZ; z++ {
			prev := uint8(chunk.MaxLight)
			for y := chunk.SizeY - 1; y >= 0; y-- {
				got := c.SkyLight(x, y, z)
				if got > prev {
					t.Fatalf("sky light increased going down at (%d,%d,%d): %d > %d", x, y, z, got, prev)
				}
				prev = got
			}
			if got := c.SkyLight(x, 31, z); got != 0 {
				t.Fatalf("sky at y=31 (top stone layer) = %d, want 0", got)
			}
			for y := 32; y < chunk.SizeY; y++ {
				if got := c.SkyLight(x, y, z); got != chunk.MaxLight {
					t.Fatalf("sky above stone at y=%d = %d, want %d", y, got, chunk.MaxLight)
				}
			}
		}
	}
}

// TestFloodGlowstoneDecayNoNeighbours checks the decay of a single
// glowstone block in an otherwise empty chunk, with no neighbours.
func TestFloodGlowstoneDecayNoNeighbours(t *testing.T) {
	reg := block.NewDefaultRegistry()
	c := chunk.New()
	c.SetBlock(5, 64, 5, block.Glowstone)

	Flood(c, Neighbors{}, reg, 0, nil)

	cases := []struct {
		x, y, z    int
		r, g, b uint8
	}{
		{5, 64, 5, 15, 12, 8},
		{8, 64, 5, 12, 9, 5},
		{5, 64, 10, 10, 7, 3},
		{5, 64, 21, 0, 0, 0},
	}
	for _, tc := range cases {
		r, g, b := c.BlockLight(tc.x, tc.y, tc.z)
		if r != tc.r || g != tc.g || b != tc.b {
			t.Fatalf("BlockLight(%d,%d,%d) = (%d,%d,%d), want (%d,%d,%d)", tc.x, tc.y, tc.z, r, g, b, tc.r, tc.g, tc.b)
		}
	}
}

// TestFloodLeafAbsorption checks glowstone, a leaf block, then air in a
// straight line; the leaf absorbs 3 (floor(0.2*15)).
func TestFloodLeafAbsorption(t *testing.T) {
	reg := block.NewDefaultRegistry()
	c := chunk.New()
	c.SetBlock(5, 64, 5, block.Glowstone)
	c.SetBlock(6, 64, 5, block.Leaves)

	Flood(c, Neighbors{}, reg, 0, nil)

	r, _, _ := c.BlockLight(7, 64, 5)
	if r != 11 {
		t.Fatalf("red light past leaf = %d, want 11 (15-1-3)", r)
	}
}

func TestFloodQueueOverflowIsNonFatal(t *testing.T) {
	reg := block.NewDefaultRegistry()
	c := chunk.New()
	c.SetBlock(5, 64, 5, block.Glowstone)

	res := Flood(c, Neighbors{}, reg, 1, nil)
	if !res.Overflowed {
		t.Fatal("expected a 1-entry queue cap to overflow")
	}
}

func TestFloodCrossChunkPropagation(t *testing.T) {
	reg := block.NewDefaultRegistry()
	center := chunk.New()
	west := chunk.New()
	// Put a bright source at the west neighbour's eastern edge.
	west.SetBlock(chunk.SizeX-1, 64, 5, block.Glowstone)
	Flood(west, Neighbors{}, reg, 0, nil)

	Flood(center, Neighbors{West: west}, reg, 0, nil)

	r, _, _ := center.BlockLight(0, 64, 5)
	if r == 0 {
		t.Fatal("light did not propagate from the west neighbour into center")
	}
}

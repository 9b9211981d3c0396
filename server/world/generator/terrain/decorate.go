package terrain

import (
	"github.com/embercore/ember/server/world/block"
	"github.com/embercore/ember/server/world/chunk"
)

// Decorators run in fixed order: sand patches, then trees, then rocks. None
// may write outside the chunk's own 24x24x256 box; all draw from the same
// per-chunk PRNG stream so the combined result is deterministic in (seed,
// pos).

// applySandPatches turns isolated surface columns to sand, biased by each
// biome's SandPatchChance.
func applySandPatches(c *chunk.Data, biomes [chunk.SizeX][chunk.SizeZ]Biome, heights [chunk.SizeX][chunk.SizeZ]int, r *chunkRandom) {
	for x := 0; x < chunk.SizeX; x++ {
		for z := 0; z < chunk.SizeZ; z++ {
			b := biomes[x][z]
			if b.SandPatchChance <= 0 || r.float64() >= b.SandPatchChance {
				continue
			}
			h := heights[x][z]
			if h < 0 || h >= chunk.SizeY {
				continue
			}
			c.SetBlock(x, h, z, sandBlockFor(b))
		}
	}
}

func sandBlockFor(b Biome) uint16 {
	// Sand patches replace whatever the biome's own surface block is; for
	// biomes whose surface already is sand this is a no-op swap.
	return block.Sand
}

// The trunk height range and leaf radius are fixed for the naive decorator; a richer
// generator could vary these per biome or per tree.
const (
	treeTrunkMinHeight = 4
	treeTrunkMaxHeight = 6
	treeLeafRadius     = 2
)

// applyTrees grows a trunk column followed by an axis-aligned
// taxicab-radius leaf cluster at each chosen column, biased by each
// biome's TreeChance. Leaves never overwrite existing non-air blocks.
func applyTrees(c *chunk.Data, biomes [chunk.SizeX][chunk.SizeZ]Biome, heights [chunk.SizeX][chunk.SizeZ]int, r *chunkRandom) {
	const trunkBlock, leafBlock = block.Wood, block.Leaves

	for x := 0; x < chunk.SizeX; x++ {
		for z := 0; z < chunk.SizeZ; z++ {
			b := biomes[x][z]
			if b.TreeChance <= 0 || r.float64() >= b.TreeChance {
				continue
			}
			groundY := heights[x][z]
			if groundY <= 0 || groundY >= chunk.SizeY-treeTrunkMaxHeight-treeLeafRadius-1 {
				continue
			}
			// Trees only take root on the biome's own surface block.
			if c.Block(x, groundY, z) != b.Surface {
				continue
			}

			trunkHeight := treeTrunkMinHeight + r.intn(treeTrunkMaxHeight-treeTrunkMinHeight+1)
			topY := groundY + trunkHeight
			for y := groundY + 1; y <= topY; y++ {
				c.SetBlock(x, y, z, trunkBlock)
			}

			for dx := -treeLeafRadius; dx <= treeLeafRadius; dx++ {
				for dz := -treeLeafRadius; dz <= treeLeafRadius; dz++ {
					for dy := -treeLeafRadius; dy <= treeLeafRadius; dy++ {
						taxicab := abs(dx) + abs(dy) + abs(dz)
						if taxicab > treeLeafRadius+1 || taxicab == 0 {
							continue
						}
						lx, ly, lz := x+dx, topY+dy, z+dz
						if lx < 0 || lx >= chunk.SizeX || lz < 0 || lz >= chunk.SizeZ || ly < 0 || ly >= chunk.SizeY {
							continue // edge policy: never write outside the chunk box
						}
						if c.Block(lx, ly, lz) != 0 {
							continue // leaves never overwrite existing non-air
						}
						c.SetBlock(lx, ly, lz, leafBlock)
					}
				}
			}
		}
	}
}

// applyRocks scatters single stone blocks on top of the surface, biased by
// each biome's RockChance.
func applyRocks(c *chunk.Data, biomes [chunk.SizeX][chunk.SizeZ]Biome, heights [chunk.SizeX][chunk.SizeZ]int, r *chunkRandom) {
	for x := 0; x < chunk.SizeX; x++ {
		for z := 0; z < chunk.SizeZ; z++ {
			b := biomes[x][z]
			if b.RockChance <= 0 || r.float64() >= b.RockChance {
				continue
			}
			h := heights[x][z]
			if h+1 >= chunk.SizeY || h < 0 {
				continue
			}
			if c.Block(x, h+1, z) != 0 {
				continue
			}
			c.SetBlock(x, h+1, z, b.Stone)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Package terrain implements the deterministic, seed-driven terrain
// generator: biome selection over 2D noise, height-field column fill, and
// ordered decorators (sand patches, trees, rocks).
package terrain

import (
	"github.com/segmentio/fasthash/fnv1a"

	"github.com/embercore/ember/server/world/block"
	"github.com/embercore/ember/server/world/chunk"
)

const (
	frequency = 1.0 / 96.0
	cliffStep = 4
)

// Generator is a pure function of (seed, chunk.Pos) -> populated chunk.Data.
// A Generator is safe for concurrent use by many workers: it holds only
// read-only noise fields and a registry reference.
type Generator struct {
	seed int64

	height      *noise2D
	heightFine  *noise2D
	temperature *noise2D
	humidity    *noise2D

	registry *block.Registry
}

// New builds a Generator bound to seed and reg. reg is read-only from this
// point forward, matching the rest of the module's read-only-registry
// convention.
func New(seed int64, reg *block.Registry) *Generator {
	return &Generator{
		seed:        seed,
		height:      newNoise2D(seed ^ 0x51ed270b),
		heightFine:  newNoise2D(seed ^ 0x27d4eb2d),
		temperature: newNoise2D(seed ^ 0x165667b1),
		humidity:    newNoise2D(seed ^ 0x9e3779b9),
		registry:    reg,
	}
}

// Generate populates a fresh chunk.Data for pos. Two calls with the same
// seed and pos always produce byte-identical chunks.
func (g *Generator) Generate(pos chunk.Pos) *chunk.Data {
	c := chunk.New()

	var heights [chunk.SizeX][chunk.SizeZ]int
	var columnBiome [chunk.SizeX][chunk.SizeZ]Biome

	for x := 0; x < chunk.SizeX; x++ {
		for z := 0; z < chunk.SizeZ; z++ {
			wx := float64(int(pos.X())*chunk.SizeX + x)
			wz := float64(int(pos.Z())*chunk.SizeZ + z)

			t := clamp01(0.5 + 0.5*g.temperature.fbm(wx*frequency, wz*frequency, 3, 2.0, 0.5))
			h := clamp01(0.5 + 0.5*g.humidity.fbm(wx*frequency*1.3, wz*frequency*1.3, 3, 2.0, 0.5))
			b := selectBiome(t, h)
			columnBiome[x][z] = b

			height := b.BaseHeight +
				b.Amplitude1*g.height.fbm(wx*frequency, wz*frequency, 4, 2.0, 0.5) +
				b.Amplitude2*g.heightFine.fbm(wx*frequency*4, wz*frequency*4, 2, 2.0, 0.5)
			if height < 1 {
				height = 1
			}
			heights[x][z] = int(height)
		}
	}

	for x := 0; x < chunk.SizeX; x++ {
		for z := 0; z < chunk.SizeZ; z++ {
			b := columnBiome[x][z]
			h := heights[x][z]

			surface := b.Surface
			if isCliff(heights, x, z) {
				surface = block.Stone
			}

			for y := 0; y <= h && y < chunk.SizeY; y++ {
				switch {
				case y == 0:
					c.SetBlock(x, y, z, block.Bedrock)
				case y < h-cliffStep:
					c.SetBlock(x, y, z, b.Stone)
				case y < h:
					c.SetBlock(x, y, z, b.Subsurface)
				default: // y == h
					c.SetBlock(x, y, z, surface)
				}
			}
		}
	}

	r := newChunkRandom(g.seed, pos)
	applySandPatches(c, columnBiome, heights, r)
	applyTrees(c, columnBiome, heights, r)
	applyRocks(c, columnBiome, heights, r)

	return c
}

// isCliff reports whether the column at (x,z) differs in height from any
// of its 4-connected neighbours (clamped to the chunk's own edge) by at
// least cliffStep.
func isCliff(heights [chunk.SizeX][chunk.SizeZ]int, x, z int) bool {
	h := heights[x][z]
	maxDiff := 0
	for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		nx, nz := x+d[0], z+d[1]
		if nx < 0 || nx >= chunk.SizeX || nz < 0 || nz >= chunk.SizeZ {
			continue
		}
		diff := heights[nx][nz] - h
		if diff < 0 {
			diff = -diff
		}
		if diff > maxDiff {
			maxDiff = diff
		}
	}
	return maxDiff >= cliffStep
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// chunkSeedMix derives the per-chunk PRNG seed as seed XOR 374761393*cx XOR
// 668265263*cz, further XORed with a 32-bit FNV-1a hash of (cx, cz) so
// nearby chunk coordinates don't produce correlated low bits.
func chunkSeedMix(seed int64, pos chunk.Pos) uint64 {
	h := fnv1a.Init32
	h = fnv1a.AddUint32(h, uint32(pos.X()))
	h = fnv1a.AddUint32(h, uint32(pos.Z()))
	mixed := int64(374761393)*int64(pos.X()) ^ int64(668265263)*int64(pos.Z())
	return uint64(seed) ^ uint64(mixed) ^ uint64(h)
}

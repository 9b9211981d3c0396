// Package light implements the two-pass lighting pipeline: top-down sky
// occlusion, followed by a colored BFS flood that propagates across chunk
// boundaries via neighbour chunk views.
package light

import (
	"log/slog"

	"github.com/brentp/intintmap"

	"github.com/embercore/ember/server/world/block"
	"github.com/embercore/ember/server/world/chunk"
)

// DefaultQueueCap bounds the total pushes of one Flood call. It is set
// above the worst-case sky flood of one chunk, 147,456 voxels times 6
// expansion directions (about 885K).
const DefaultQueueCap = 2_000_000

// sixNeighbourDeltas enumerates the 6 axis-aligned steps from a voxel.
var sixNeighbourDeltas = [6][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// SkyOcclusion runs Pass A on c in isolation: for every column, sky light
// starts at 15 at the top of the world and is reduced by each block's
// absorption scanning downward. Block light is left untouched.
func SkyOcclusion(c *chunk.Data, reg *block.Registry) {
	for x := 0; x < chunk.SizeX; x++ {
		for z := 0; z < chunk.SizeZ; z++ {
			sky := uint8(chunk.MaxLight)
			for y := chunk.SizeY - 1; y >= 0; y-- {
				a := reg.Absorption(c.Block(x, y, z))
				sky = subClamp(sky, a)
				c.SetSkyLight(x, y, z, sky)
			}
		}
	}
}

// FloodResult reports whether the flood's bounded queue overflowed.
type FloodResult struct {
	Overflowed bool
	Dropped    int
}

// Flood runs Pass B on center, seeding from center's own emissive blocks
// and stored light, and from the border columns of any loaded neighbours
// in nb. It writes updated light directly into center and into any loaded
// neighbour cell the flood reaches: propagation writes back into
// whichever chunk owns the target cell. A neighbour that is nil
// (unloaded) is simply not propagated into or from; that is not an error.
func Flood(center *chunk.Data, nb Neighbors, reg *block.Registry, queueCap int, log *slog.Logger) FloodResult {
	if queueCap <= 0 {
		queueCap = DefaultQueueCap
	}

	type entry struct {
		s    slot
		x, y, z int
		t    tuple
	}

	queue := make([]entry, 0, 1024)
	result := FloodResult{}

	push := func(e entry) {
		if len(queue) >= queueCap {
			result.Overflowed = true
			result.Dropped++
			return
		}
		queue = append(queue, e)
	}

	// visited holds the max-seen (r,g,b,s) tuple for every cell touched by
	// propagation, keyed by a packed (slot, local index). It is lazily
	// seeded from the target chunk's actual stored light the first time a
	// cell is reached, so the dominance check is always against ground
	// truth rather than an empty baseline.
	visited := intintmap.New(1<<16, 0.75)

	storedFor := func(s slot, data *chunk.Data, x, y, z int) tuple {
		key := globalIndex(s, x, y, z)
		if raw, ok := visited.Get(key); ok {
			return unpackTuple(raw)
		}
		r, g, b := data.BlockLight(x, y, z)
		t := tuple{r, g, b, data.SkyLight(x, y, z)}
		visited.Put(key, packTuple(t))
		return t
	}

	// Internal seed: every voxel in center is a potential source. Emissive
	// blocks are folded into the stored block light before seeding.
	for x := 0; x < chunk.SizeX; x++ {
		for z := 0; z < chunk.SizeZ; z++ {
			for y := 0; y < chunk.SizeY; y++ {
				id := center.Block(x, y, z)
				def, err := reg.Lookup(id)
				if err == nil && (def.Emissive.R|def.Emissive.G|def.Emissive.B) != 0 {
					r, g, b := center.BlockLight(x, y, z)
					nr, ng, nb2 := maxU8(r, def.Emissive.R), maxU8(g, def.Emissive.G), maxU8(b, def.Emissive.B)
					if nr != r || ng != g || nb2 != b {
						center.SetBlockLight(x, y, z, nr, ng, nb2)
					}
				}
				r, g, b := center.BlockLight(x, y, z)
				s := center.SkyLight(x, y, z)
				t := tuple{r, g, b, s}
				if t.zero() {
					continue
				}
				visited.Put(globalIndex(slotCenter, x, y, z), packTuple(t))
				push(entry{s: slotCenter, x: x, y: y, z: z, t: t})
			}
		}
	}

	// Border seed: any loaded neighbour's shared-face column becomes a set
	// of sources expressed in that neighbour's own local coordinates.
	type border struct {
		s    slot
		data *chunk.Data
		face int // the neighbour's local x or z on the shared face
	}
	for _, b := range []border{
		{slotNorth, nb.North, chunk.SizeZ - 1}, // neighbour's south edge touches center's z=0
		{slotSouth, nb.South, 0},
		{slotEast, nb.East, 0},
		{slotWest, nb.West, chunk.SizeX - 1},
	} {
		if b.data == nil {
			continue // NeighborUnloaded: swallowed, that direction just doesn't propagate
		}
		for a := 0; a < chunk.SizeX; a++ {
			for y := 0; y < chunk.SizeY; y++ {
				var x, z int
				if b.s == slotNorth || b.s == slotSouth {
					x, z = a, b.face
				} else {
					x, z = b.face, a
				}
				r, g, bl := b.data.BlockLight(x, y, z)
				t := tuple{r, g, bl, b.data.SkyLight(x, y, z)}
				if t.zero() {
					continue
				}
				visited.Put(globalIndex(b.s, x, y, z), packTuple(t))
				push(entry{s: b.s, x: x, y: y, z: z, t: t})
			}
		}
	}

	chunkFor := func(s slot) *chunk.Data {
		d, _ := dataFor(center, nb, s)
		return d
	}

	for i := 0; i < len(queue); i++ {
		cur := queue[i]
		for _, d := range sixNeighbourDeltas {
			ny := cur.y + d[1]
			if ny < 0 || ny >= chunk.SizeY {
				continue
			}
			ns, nx, nz, ok := crossChunk(cur.s, cur.x+d[0], cur.z+d[2])
			if !ok {
				continue // second-ring neighbour we never loaded: skip, a later re-light fixes the seam
			}
			ndata := chunkFor(ns)
			if ndata == nil {
				continue // NeighborUnloaded
			}

			a := reg.Absorption(ndata.Block(nx, ny, nz))
			if a >= chunk.MaxLight {
				continue
			}
			cand := tuple{
				subClamp(cur.t.r, 1+a),
				subClamp(cur.t.g, 1+a),
				subClamp(cur.t.b, 1+a),
				subClamp(cur.t.s, 1+a),
			}
			if cand.zero() {
				continue
			}

			base := storedFor(ns, ndata, nx, ny, nz)
			if !dominates(cand, base) {
				continue
			}
			merged := maxTuple(base, cand)
			visited.Put(globalIndex(ns, nx, ny, nz), packTuple(merged))
			ndata.SetBlockLight(nx, ny, nz, merged.r, merged.g, merged.b)
			ndata.SetSkyLight(nx, ny, nz, merged.s)
			push(entry{s: ns, x: nx, y: ny, z: nz, t: merged})
		}
	}

	if result.Overflowed && log != nil {
		log.Warn("lighting queue overflow", "dropped", result.Dropped)
	}
	return result
}

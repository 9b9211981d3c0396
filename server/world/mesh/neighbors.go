package mesh

import "github.com/embercore/ember/server/world/chunk"

// Neighbors holds the 4 orthogonally adjacent chunks the mesher reads
// across chunk boundaries for face culling and AO sampling. Any field may
// be nil if that neighbour isn't currently loaded.
type Neighbors struct {
	North, South, East, West *chunk.Data
}

// resolve looks up the chunk and local coordinate that (x, y, z) -
// expressed relative to center - actually refers to, crossing into at most
// one orthogonal neighbour. A coordinate that would need a diagonal
// neighbour chunk (out of range on both X and Z at once) has none loaded
// by construction, so it resolves to "unavailable" and the caller treats
// it as air, matching the documented out-of-range default.
func resolve(nb Neighbors, x, y, z int) (*chunk.Data, int, int, int, bool) {
	if y < 0 || y >= chunk.SizeY {
		return nil, 0, 0, 0, false
	}
	xIn := x >= 0 && x < chunk.SizeX
	zIn := z >= 0 && z < chunk.SizeZ

	switch {
	case xIn && zIn:
		return nil, x, y, z, true // caller substitutes center
	case !xIn && zIn:
		if x < 0 {
			return nb.West, chunk.SizeX - 1, y, z, nb.West != nil
		}
		return nb.East, 0, y, z, nb.East != nil
	case xIn && !zIn:
		if z < 0 {
			return nb.North, x, y, chunk.SizeZ - 1, nb.North != nil
		}
		return nb.South, x, y, 0, nb.South != nil
	default:
		return nil, 0, 0, 0, false
	}
}

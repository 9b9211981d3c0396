package light

import "github.com/embercore/ember/server/world/chunk"

// slot identifies which of the 5 chunks (center plus its 4 orthogonal
// neighbours) a queue entry or visited-map key refers to.
type slot uint8

const (
	slotCenter slot = iota
	slotNorth       // -Z
	slotSouth       // +Z
	slotEast        // +X
	slotWest        // -X
)

var slotOffset = map[slot][2]int32{
	slotCenter: {0, 0},
	slotNorth:  {0, -1},
	slotSouth:  {0, 1},
	slotEast:   {1, 0},
	slotWest:   {-1, 0},
}

var offsetSlot = map[[2]int32]slot{
	{0, 0}:  slotCenter,
	{0, -1}: slotNorth,
	{0, 1}:  slotSouth,
	{1, 0}:  slotEast,
	{-1, 0}: slotWest,
}

// Neighbors holds the 4 orthogonally adjacent chunks to a center chunk, any
// of which may be nil if that neighbour isn't currently loaded.
type Neighbors struct {
	North, South, East, West *chunk.Data
}

func (n Neighbors) byDirection(s slot) (*chunk.Data, bool) {
	switch s {
	case slotNorth:
		return n.North, n.North != nil
	case slotSouth:
		return n.South, n.South != nil
	case slotEast:
		return n.East, n.East != nil
	case slotWest:
		return n.West, n.West != nil
	}
	return nil, false
}

// dataFor resolves a chunk pointer for slot s, given the center chunk and
// its neighbours.
func dataFor(center *chunk.Data, nb Neighbors, s slot) (*chunk.Data, bool) {
	if s == slotCenter {
		return center, true
	}
	return nb.byDirection(s)
}

// crossChunk resolves a tentative local coordinate that has stepped one
// unit outside [0, SizeX) or [0, SizeZ) of the chunk identified by s into
// the (slot, wrapped-local-coordinate) of whichever of the 5 known chunks
// now owns that coordinate. ok is false if the step would leave the known
// 5-chunk window (a neighbour-of-neighbour we never loaded).
func crossChunk(s slot, x, z int) (slot, int, int, bool) {
	off := slotOffset[s]
	ox, oz := off[0], off[1]

	if x < 0 {
		ox--
		x = chunk.SizeX - 1
	} else if x >= chunk.SizeX {
		ox++
		x = 0
	}
	if z < 0 {
		oz--
		z = chunk.SizeZ - 1
	} else if z >= chunk.SizeZ {
		oz++
		z = 0
	}

	ns, ok := offsetSlot[[2]int32{ox, oz}]
	return ns, x, z, ok
}

// globalIndex packs a (slot, local voxel coordinate) into a single key for
// the visited map.
func globalIndex(s slot, x, y, z int) int64 {
	const voxelsPerChunk = chunk.SizeX * chunk.SizeY * chunk.SizeZ
	local := x + z*chunk.SizeX + y*chunk.SizeX*chunk.SizeZ
	return int64(s)*voxelsPerChunk + int64(local)
}

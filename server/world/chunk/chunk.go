// Package chunk implements the bit-packed voxel+light column store that
// backs one 24x256x24 region of the world.
package chunk

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Dimensions of every chunk. Changing these is a rebuild-the-world change:
// every bitwise accessor and the wire format below are derived from them.
const (
	SizeX = 24
	SizeY = 256
	SizeZ = 24

	wordCount = SizeX * SizeY * SizeZ
	byteCount = wordCount * 4
)

// Bit layout of a single voxel word, least significant bit first.
const (
	blockIDBits  = 16
	skyLightBits = 4
	redBits      = 4
	greenBits    = 4
	blueBits     = 4

	blockIDShift  = 0
	skyLightShift = blockIDShift + blockIDBits
	redShift      = skyLightShift + skyLightBits
	greenShift    = redShift + redBits
	blueShift     = greenShift + greenBits

	blockIDMask = uint32(1)<<blockIDBits - 1
	nibbleMask  = uint32(0xF)
)

// MaxLight is the maximum value any light channel (sky, red, green, blue)
// may hold.
const MaxLight = 15

// Data is the fixed-shape 24x256x24 unified voxel+light column. The zero
// value is a fully air, fully dark chunk of the correct size.
//
// A Data is exclusively owned by a single goroutine at a time: the
// orchestrator while it sits in the chunk map, or a worker while it holds a
// transferred copy. No method here takes a lock.
type Data struct {
	words [wordCount]uint32
	meta  map[int]any
}

// New returns an empty (all-air, all-dark) chunk.
func New() *Data {
	return &Data{}
}

// index converts a local voxel coordinate into a word index, following the
// column-major-in-Y layout x + z*SizeX + y*SizeX*SizeZ so that a vertical
// scan of one column touches consecutive words.
func index(x, y, z int) (int, bool) {
	if x < 0 || x >= SizeX || z < 0 || z >= SizeZ || y < 0 || y >= SizeY {
		return 0, false
	}
	return x + z*SizeX + y*SizeX*SizeZ, true
}

// Block returns the block id stored at (x, y, z). Out-of-range coordinates
// return air (0), never an error: reads never fail.
func (d *Data) Block(x, y, z int) uint16 {
	i, ok := index(x, y, z)
	if !ok {
		return 0
	}
	return uint16(d.words[i] >> blockIDShift & blockIDMask)
}

// SetBlock stores id at (x, y, z). Out-of-range coordinates are a silent
// no-op: writes are bounds-checked, not faulting.
func (d *Data) SetBlock(x, y, z int, id uint16) {
	i, ok := index(x, y, z)
	if !ok {
		return
	}
	d.words[i] = d.words[i]&^(blockIDMask<<blockIDShift) | uint32(id)&blockIDMask<<blockIDShift
}

// SkyLight returns the sky light nibble at (x, y, z). Out-of-range
// coordinates return full sky light above the chunk (y >= SizeY) or
// darkness below it (y < 0), per the documented default-return convention.
func (d *Data) SkyLight(x, y, z int) uint8 {
	if y >= SizeY {
		return MaxLight
	}
	i, ok := index(x, y, z)
	if !ok {
		return 0
	}
	return uint8(d.words[i] >> skyLightShift & nibbleMask)
}

// SetSkyLight stores the sky light nibble v (clamped to 0-15) at (x, y, z).
func (d *Data) SetSkyLight(x, y, z int, v uint8) {
	i, ok := index(x, y, z)
	if !ok {
		return
	}
	if v > MaxLight {
		v = MaxLight
	}
	d.words[i] = d.words[i]&^(nibbleMask<<skyLightShift) | uint32(v)<<skyLightShift
}

// BlockLight returns the colored block-light channels at (x, y, z).
func (d *Data) BlockLight(x, y, z int) (r, g, b uint8) {
	i, ok := index(x, y, z)
	if !ok {
		return 0, 0, 0
	}
	w := d.words[i]
	return uint8(w >> redShift & nibbleMask), uint8(w >> greenShift & nibbleMask), uint8(w >> blueShift & nibbleMask)
}

// SetBlockLight stores the colored block-light channels (each clamped to
// 0-15) at (x, y, z).
func (d *Data) SetBlockLight(x, y, z int, r, g, b uint8) {
	i, ok := index(x, y, z)
	if !ok {
		return
	}
	r, g, b = clampNibble(r), clampNibble(g), clampNibble(b)
	w := d.words[i]
	w = w&^(nibbleMask<<redShift) | uint32(r)<<redShift
	w = w&^(nibbleMask<<greenShift) | uint32(g)<<greenShift
	w = w&^(nibbleMask<<blueShift) | uint32(b)<<blueShift
	d.words[i] = w
}

func clampNibble(v uint8) uint8 {
	if v > MaxLight {
		return MaxLight
	}
	return v
}

// Metadata returns the sparse metadata attached to the voxel at (x, y, z),
// and whether any was set.
func (d *Data) Metadata(x, y, z int) (any, bool) {
	i, ok := index(x, y, z)
	if !ok || d.meta == nil {
		return nil, false
	}
	v, ok := d.meta[i]
	return v, ok
}

// SetMetadata attaches arbitrary metadata to the voxel at (x, y, z),
// replacing anything previously stored there. Passing nil clears it.
func (d *Data) SetMetadata(x, y, z int, v any) {
	i, ok := index(x, y, z)
	if !ok {
		return
	}
	if v == nil {
		if d.meta != nil {
			delete(d.meta, i)
		}
		return
	}
	if d.meta == nil {
		d.meta = make(map[int]any)
	}
	d.meta[i] = v
}

// RawBuffer returns the chunk's packed voxel words as a little-endian byte
// buffer suitable for handing to a worker or serializing over the wire. The
// returned slice is a fresh copy; mutating it does not affect the chunk.
func (d *Data) RawBuffer() []byte {
	buf := make([]byte, byteCount)
	for i, w := range d.words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return buf
}

// FromBuffer constructs a Data from a little-endian byte buffer of exactly
// SizeX*SizeY*SizeZ*4 bytes, as produced by RawBuffer. Metadata is carried
// out-of-band and is not part of buf.
func FromBuffer(buf []byte) (*Data, error) {
	if len(buf) != byteCount {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidBufferLength, len(buf), byteCount)
	}
	d := &Data{}
	for i := range d.words {
		d.words[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return d, nil
}

// Clone returns a deep copy of d, including its metadata map. The
// orchestrator clones a chunk before handing it to a worker, so its own
// copy is never aliased.
func (d *Data) Clone() *Data {
	c := &Data{words: d.words}
	if d.meta != nil {
		c.meta = make(map[int]any, len(d.meta))
		for k, v := range d.meta {
			c.meta[k] = v
		}
	}
	return c
}

// Fingerprint returns a stable hash of the chunk's packed voxel words,
// independent of metadata. The orchestrator uses it to skip re-emitting an
// event whose payload is unchanged from the last one sent for this chunk.
func (d *Data) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [4]byte
	for _, w := range d.words {
		binary.LittleEndian.PutUint32(buf[:], w)
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

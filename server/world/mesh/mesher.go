// Package mesh implements the per-chunk face-visibility mesher: it walks
// every voxel and emits a unit quad per visible face, grouped into
// per-material vertex streams ready for GPU upload.
//
// This is the naive, one-quad-per-face baseline. Greedy face merging is
// left unimplemented (see DESIGN.md): a future pass may merge coplanar
// same-block quads along an axis as long as it reproduces exactly the
// tint this mesher computes per vertex.
package mesh

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/embercore/ember/server/world/block"
	"github.com/embercore/ember/server/world/chunk"
)

// Stream holds one material's worth of vertex data, ready for GPU upload:
// 4 parallel arrays plus an index buffer.
type Stream struct {
	Positions []float32
	Colors    []float32
	UVs       []float32
	Indices   []uint16
}

// faceSpec describes one of the 6 axis-aligned faces: its outward normal,
// the tangent axes (u, v) it sweeps over to build a quad, and whether its
// natural winding needs flipping to keep the triangle normal outward
// (+X, +Y and -Z flip; the other three don't).
type faceSpec struct {
	face   block.Face
	normal [3]int
	u, v   [3]int // tangent axis unit vectors, corners walk (0,0)->(1,0)->(1,1)->(0,1)
	flip   bool
}

var faceSpecs = [6]faceSpec{
	{block.FacePosX, [3]int{1, 0, 0}, [3]int{0, 0, 1}, [3]int{0, 1, 0}, true},
	{block.FaceNegX, [3]int{-1, 0, 0}, [3]int{0, 0, 1}, [3]int{0, 1, 0}, false},
	{block.FacePosY, [3]int{0, 1, 0}, [3]int{1, 0, 0}, [3]int{0, 0, 1}, true},
	{block.FaceNegY, [3]int{0, -1, 0}, [3]int{1, 0, 0}, [3]int{0, 0, 1}, false},
	{block.FacePosZ, [3]int{0, 0, 1}, [3]int{1, 0, 0}, [3]int{0, 1, 0}, false},
	{block.FaceNegZ, [3]int{0, 0, -1}, [3]int{1, 0, 0}, [3]int{0, 1, 0}, true},
}

// Build meshes one chunk's interior against its 4 orthogonal neighbours,
// returning one Stream per "{blockId}:{faceIndex}" material key.
func Build(center *chunk.Data, nb Neighbors, reg *block.Registry) map[string]*Stream {
	streams := make(map[string]*Stream)

	for x := 0; x < chunk.SizeX; x++ {
		for y := 0; y < chunk.SizeY; y++ {
			for z := 0; z < chunk.SizeZ; z++ {
				id := center.Block(x, y, z)
				if id == block.Air {
					continue
				}
				for _, spec := range faceSpecs {
					nx, ny, nz := x+spec.normal[0], y+spec.normal[1], z+spec.normal[2]
					neighborID := blockAt(center, nb, nx, ny, nz)
					if !faceVisible(reg, id, neighborID) {
						continue
					}
					key := materialKey(id, spec.face)
					s := streams[key]
					if s == nil {
						s = &Stream{}
						streams[key] = s
					}
					emitQuad(s, reg, center, nb, x, y, z, spec, id)
				}
			}
		}
	}
	return streams
}

func materialKey(id uint16, face block.Face) string {
	return strconv.Itoa(int(id)) + ":" + strconv.Itoa(int(face))
}

// blockAt resolves a (possibly cross-chunk) block id, defaulting to air
// for any coordinate that is out of range in a dimension with no loaded
// neighbour.
func blockAt(center *chunk.Data, nb Neighbors, x, y, z int) uint16 {
	d, lx, ly, lz, ok := resolve(nb, x, y, z)
	if !ok {
		return block.Air
	}
	if d == nil {
		return center.Block(lx, ly, lz)
	}
	return d.Block(lx, ly, lz)
}

// lightAt returns the combined (max of sky, block) light at a coordinate,
// normalized to 0..1 per channel. A coordinate above the top of the world
// is always full sky light; anything else unresolved is dark.
func lightAt(center *chunk.Data, nb Neighbors, x, y, z int) mgl32.Vec3 {
	d, lx, ly, lz, ok := resolve(nb, x, y, z)
	var r, g, b, s uint8
	switch {
	case ok && d == nil:
		r, g, b = center.BlockLight(lx, ly, lz)
		s = center.SkyLight(lx, ly, lz)
	case ok:
		r, g, b = d.BlockLight(lx, ly, lz)
		s = d.SkyLight(lx, ly, lz)
	case y >= chunk.SizeY:
		s = chunk.MaxLight
	}
	cr, cg, cb := maxU8(r, s), maxU8(g, s), maxU8(b, s)
	const inv = 1.0 / float32(chunk.MaxLight)
	return mgl32.Vec3{float32(cr) * inv, float32(cg) * inv, float32(cb) * inv}
}

func maxU8(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}

// isOpaque reports whether the voxel at (x,y,z) is registered and
// non-transparent. Air and anything unresolved (out of the loaded window)
// counts as not opaque, since an AO occluder outside the loaded chunks
// can't be known and defaulting to "open" is the conservative choice.
func isOpaque(reg *block.Registry, center *chunk.Data, nb Neighbors, x, y, z int) bool {
	id := blockAt(center, nb, x, y, z)
	if id == block.Air {
		return false
	}
	def, err := reg.Lookup(id)
	return err == nil && !def.Transparent
}

// faceVisible applies the face-culling rule: draw against air, cull
// against an opaque neighbour, draw an opaque face against a transparent
// neighbour, and cull two transparent faces of the same block id (so a
// block of glass touching another block of glass shows neither face,
// while glass next to water shows both).
func faceVisible(reg *block.Registry, id, neighborID uint16) bool {
	if neighborID == block.Air {
		return true
	}
	if !reg.IsTransparent(neighborID) {
		return false
	}
	if !reg.IsTransparent(id) {
		return true
	}
	return id != neighborID
}

// ao computes ambient occlusion for one quad corner from the two voxels
// edge-adjacent to the corner (in the face plane) and the one diagonally
// adjacent, all offset one step along the face normal. This is the
// standard 3-sample voxel AO scheme: two occluding edges force maximum
// occlusion even if the corner itself is open.
//
// The two edge samples must look toward the corner's own side of the
// voxel, not always toward +u/+v: a corner at cu==0 sits on the -u side,
// so its side1 sample has to step by -1 along u, not 0.
func ao(reg *block.Registry, center *chunk.Data, nb Neighbors, base [3]int, spec faceSpec, cu, cv int) float32 {
	su, sv := 2*cu-1, 2*cv-1
	side1 := [3]int{
		base[0] + spec.normal[0] + spec.u[0]*su,
		base[1] + spec.normal[1] + spec.u[1]*su,
		base[2] + spec.normal[2] + spec.u[2]*su,
	}
	side2 := [3]int{
		base[0] + spec.normal[0] + spec.v[0]*sv,
		base[1] + spec.normal[1] + spec.v[1]*sv,
		base[2] + spec.normal[2] + spec.v[2]*sv,
	}
	corner := [3]int{
		base[0] + spec.normal[0] + spec.u[0]*su + spec.v[0]*sv,
		base[1] + spec.normal[1] + spec.u[1]*su + spec.v[1]*sv,
		base[2] + spec.normal[2] + spec.u[2]*su + spec.v[2]*sv,
	}
	s1 := isOpaque(reg, center, nb, side1[0], side1[1], side1[2])
	s2 := isOpaque(reg, center, nb, side2[0], side2[1], side2[2])
	var c bool
	if s1 && s2 {
		c = true
	} else {
		c = isOpaque(reg, center, nb, corner[0], corner[1], corner[2])
	}

	var raw int
	if s1 && s2 {
		raw = 0
	} else {
		raw = 3 - b2i(s1) - b2i(s2) - b2i(c)
	}
	return 0.7 + float32(raw)/6
}

func b2i(v bool) int {
	if v {
		return 1
	}
	return 0
}

// faceTint returns the directional shading multiplier for the given face
// (top +12%, bottom -25%, sides -4%) combined with a small per-voxel
// jitter so that large flat runs of the same block don't read as
// perfectly flat-shaded. The combined factor is clamped to never drop
// below 0.5.
func faceTint(spec faceSpec, x, y, z int) float32 {
	var dir float32
	switch spec.face {
	case block.FacePosY:
		dir = 1.12
	case block.FaceNegY:
		dir = 0.75
	default:
		dir = 0.96
	}
	t := dir * (1 + positionJitter(x, y, z))
	if t < 0.5 {
		t = 0.5
	}
	return t
}

// positionJitter returns a deterministic value in [-0.04, 0.04] for a
// chunk-local voxel position (the chunk's origin is not part of the hash,
// so the same pattern repeats in every chunk), via a splitmix32 mix of
// x*374761393 + y*668265263 + z*3266489917.
func positionJitter(x, y, z int) float32 {
	h := uint32(x)*374761393 + uint32(y)*668265263 + uint32(z)*3266489917
	h ^= h >> 16
	h *= 0x7feb352d
	h ^= h >> 15
	h *= 0x846ca68b
	h ^= h >> 16
	frac := float32(h) / 4294967296.0
	return (frac - 0.5) * 0.08
}

// emitQuad appends one face's vertices and indices to s.
func emitQuad(s *Stream, reg *block.Registry, center *chunk.Data, nb Neighbors, x, y, z int, spec faceSpec, id uint16) {
	base := [3]int{x, y, z}
	tint := reg.FaceColor(id, spec.face)

	var overlayColor block.Color
	var overlayHeight float32
	if def, err := reg.Lookup(id); err == nil && def.SideOverlay != nil && spec.face != block.FacePosY && spec.face != block.FaceNegY {
		overlayColor = def.SideOverlay.Color
		overlayHeight = def.SideOverlay.Height
	}

	type corner struct{ cu, cv int }
	corners := [4]corner{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	start := uint16(len(s.Positions) / 3)
	for _, c := range corners {
		pos := mgl32.Vec3{
			float32(base[0]) + cornerOffset(spec.normal[0], spec.u[0], spec.v[0], c.cu, c.cv),
			float32(base[1]) + cornerOffset(spec.normal[1], spec.u[1], spec.v[1], c.cu, c.cv),
			float32(base[2]) + cornerOffset(spec.normal[2], spec.u[2], spec.v[2], c.cu, c.cv),
		}
		s.Positions = append(s.Positions, pos.X(), pos.Y(), pos.Z())

		light := lightAt(center, nb, base[0]+spec.normal[0], base[1]+spec.normal[1], base[2]+spec.normal[2])
		occlusion := ao(reg, center, nb, base, spec, c.cu, c.cv)
		ft := faceTint(spec, base[0], base[1], base[2])

		// A corner inside the top overlayHeight fraction of a side face takes
		// the overlay color in place of the base color.
		color := tint
		if overlayHeight > 0 && float32(verticalCorner(spec, c.cu, c.cv)) >= 1-overlayHeight {
			color = overlayColor
		}
		col := mgl32.Vec3{light.X() * color.R, light.Y() * color.G, light.Z() * color.B}.Mul(occlusion * ft)
		s.Colors = append(s.Colors, col.X(), col.Y(), col.Z())

		s.UVs = append(s.UVs, float32(c.cu), float32(c.cv))
	}

	if spec.flip {
		s.Indices = append(s.Indices,
			start, start+2, start+1,
			start, start+3, start+2,
		)
	} else {
		s.Indices = append(s.Indices,
			start, start+1, start+2,
			start, start+2, start+3,
		)
	}
}

// verticalCorner returns the corner coordinate (0 or 1) along whichever
// tangent axis is Y, for a side face's overlay band. Top and bottom faces
// never reach here (the caller only applies an overlay to side faces).
func verticalCorner(spec faceSpec, cu, cv int) int {
	if spec.u[1] != 0 {
		return cu
	}
	return cv
}

// cornerOffset computes one axis's contribution to a quad corner's world
// position: the face plane sits at the voxel's + side when normal is +1
// and the - side (0) when normal is -1, and the two tangent axes
// each contribute their corner coordinate directly (0 or 1) when that
// axis is the tangent's nonzero component.
func cornerOffset(normal, u, v, cu, cv int) float32 {
	if normal > 0 {
		return 1
	}
	if normal < 0 {
		return 0
	}
	return float32(u*cu + v*cv)
}

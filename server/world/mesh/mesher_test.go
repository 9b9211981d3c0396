package mesh

import (
	"testing"

	"github.com/embercore/ember/server/world/block"
	"github.com/embercore/ember/server/world/chunk"
)

// TestGlassGlassNoSharedFace checks that two adjacent glass blocks share
// no face between them: culling two transparent faces of the same block
// id is the documented rule.
func TestGlassGlassNoSharedFace(t *testing.T) {
	reg := block.NewDefaultRegistry()
	c := chunk.New()
	c.SetBlock(5, 64, 5, block.Glass)
	c.SetBlock(6, 64, 5, block.Glass)

	streams := Build(c, Neighbors{}, reg)
	key := materialKey(block.Glass, block.FacePosX)
	if s, ok := streams[key]; ok && quadCountAt(s, 5, 64, 5) > 0 {
		t.Fatalf("glass at (5,64,5) drew a +X face against neighbouring glass")
	}
	key = materialKey(block.Glass, block.FaceNegX)
	if s, ok := streams[key]; ok && quadCountAt(s, 6, 64, 5) > 0 {
		t.Fatalf("glass at (6,64,5) drew a -X face against neighbouring glass")
	}
}

// TestGlassStoneOnlyStoneFaceDrawn matches the other half of scenario 5:
// glass next to stone draws the stone's face (opaque neighbour culls the
// glass's own face, since glass is transparent and stone is not) but not
// the glass's face toward the stone.
func TestGlassStoneOnlyStoneFaceDrawn(t *testing.T) {
	reg := block.NewDefaultRegistry()
	c := chunk.New()
	c.SetBlock(5, 64, 5, block.Glass)
	c.SetBlock(6, 64, 5, block.Stone)

	streams := Build(c, Neighbors{}, reg)

	if s, ok := streams[materialKey(block.Glass, block.FacePosX)]; ok && quadCountAt(s, 5, 64, 5) > 0 {
		t.Fatal("glass drew a face against an opaque neighbour, want culled")
	}
	s, ok := streams[materialKey(block.Stone, block.FaceNegX)]
	if !ok || quadCountAt(s, 6, 64, 5) == 0 {
		t.Fatal("stone's face toward the glass was not drawn")
	}
}

// TestFaceWindingIsCounterClockwiseAroundOutwardNormal checks every face's
// emitted triangle winds so that (v1-v0) x (v2-v0) points along the face's
// declared outward normal, for all 6 faces of a single exposed block.
func TestFaceWindingIsCounterClockwiseAroundOutwardNormal(t *testing.T) {
	reg := block.NewDefaultRegistry()
	c := chunk.New()
	c.SetBlock(5, 64, 5, block.Stone)

	streams := Build(c, Neighbors{}, reg)
	for _, spec := range faceSpecs {
		s, ok := streams[materialKey(block.Stone, spec.face)]
		if !ok {
			t.Fatalf("face %d missing from output", spec.face)
		}
		v0, v1, v2 := triangle(s, 0)
		normal := cross(sub(v1, v0), sub(v2, v0))
		want := [3]float32{float32(spec.normal[0]), float32(spec.normal[1]), float32(spec.normal[2])}
		if dot(normal, want) <= 0 {
			t.Fatalf("face %d: triangle normal %v does not point along declared normal %v", spec.face, normal, want)
		}
	}
}

func quadCountAt(s *Stream, x, y, z int) int {
	if s == nil {
		return 0
	}
	count := 0
	for i := 0; i+2 < len(s.Positions); i += 3 {
		px, py, pz := s.Positions[i], s.Positions[i+1], s.Positions[i+2]
		if int(px) == x || int(px) == x+1 {
			if int(py) == y || int(py) == y+1 {
				if int(pz) == z || int(pz) == z+1 {
					count++
				}
			}
		}
	}
	return count
}

func triangle(s *Stream, quadIndex int) ([3]float32, [3]float32, [3]float32) {
	i0, i1, i2 := s.Indices[quadIndex*6], s.Indices[quadIndex*6+1], s.Indices[quadIndex*6+2]
	return vertex(s, i0), vertex(s, i1), vertex(s, i2)
}

func vertex(s *Stream, idx uint16) [3]float32 {
	return [3]float32{s.Positions[int(idx)*3], s.Positions[int(idx)*3+1], s.Positions[int(idx)*3+2]}
}

func sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

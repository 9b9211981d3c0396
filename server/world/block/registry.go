// Package block implements the catalog of registered block types: their
// opacity, collision, emission, and face appearance.
package block

import (
	"fmt"
	"math"
)

// Face indexes the six axis-aligned faces of a voxel in the fixed order
// the mesher and texture resolution agree on.
type Face uint8

const (
	FacePosX Face = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

// Color is a straight (non-premultiplied) RGB color with channels in 0..1.
type Color struct {
	R, G, B float32
}

// RGB15 is a 0-15 per-channel color, used for block-light emission.
type RGB15 struct {
	R, G, B uint8
}

// TextureKind distinguishes how a block's six faces resolve to texture
// names.
type TextureKind uint8

const (
	// TextureSingle uses the same texture on all six faces.
	TextureSingle TextureKind = iota
	// TextureSixFace gives every face its own texture.
	TextureSixFace
	// TextureTopBottomSide gives top, bottom, and the four sides distinct
	// textures (the classic grass-block layout).
	TextureTopBottomSide
)

// Texture describes how a block resolves a face index to a texture name.
type Texture struct {
	Kind TextureKind

	Single string

	// SixFace is indexed by Face when Kind == TextureSixFace.
	SixFace [6]string

	Top, Bottom, Side string
}

// Resolve returns the texture name for the given face.
func (t Texture) Resolve(f Face) string {
	switch t.Kind {
	case TextureSixFace:
		return t.SixFace[f]
	case TextureTopBottomSide:
		switch f {
		case FacePosY:
			return t.Top
		case FaceNegY:
			return t.Bottom
		default:
			return t.Side
		}
	default:
		return t.Single
	}
}

// SideOverlay describes the vertical color-gradient overlay applied to the
// top fraction of a block's side faces (for example, the grass fringe on a
// dirt block's sides).
type SideOverlay struct {
	Color  Color
	Height float32 // fraction of the face height covered by the overlay, 0..1
}

// Definition is an immutable, registered-once block type.
type Definition struct {
	ID       uint16
	Category string

	Transparent bool
	Collidable  bool

	// Absorption is the block's declared light-propagation cost in 0..15.
	// For opaque (non-transparent) blocks this is overridden to 15 by
	// Registry.Absorption regardless of the declared value: a block can't
	// declare itself both opaque and light-permeable.
	Absorption uint8

	Emissive RGB15

	Texture Texture

	BaseColor Color
	FaceTint  map[Face]Color

	SideOverlay *SideOverlay

	// Icon/inventory metadata is opaque to the simulation core; it is
	// surfaced to UI collaborators verbatim.
	DisplayName string
	Icon        string
}

// Registry is an append-only catalog of block Definitions, indexed by id
// and by category. It is built once before any worker pool starts and is
// read-only thereafter: concurrent reads from many goroutines are safe.
type Registry struct {
	byID       map[uint16]Definition
	byCategory map[string][]uint16
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:       make(map[uint16]Definition),
		byCategory: make(map[string][]uint16),
	}
}

// Register adds def to the catalog. It returns ErrDuplicateBlock if the id
// is already registered.
func (r *Registry) Register(def Definition) error {
	if _, ok := r.byID[def.ID]; ok {
		return fmt.Errorf("%w: id %d", ErrDuplicateBlock, def.ID)
	}
	r.byID[def.ID] = def
	r.byCategory[def.Category] = append(r.byCategory[def.Category], def.ID)
	return nil
}

// MustRegister is like Register but panics on error. It is intended only
// for building the default, start-up-time registry, never for runtime use.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Lookup returns the Definition for id.
func (r *Registry) Lookup(id uint16) (Definition, error) {
	def, ok := r.byID[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: id %d", ErrUnknownBlock, id)
	}
	return def, nil
}

// ByCategory returns the ids of every block registered under category, in
// registration order.
func (r *Registry) ByCategory(category string) []uint16 {
	return r.byCategory[category]
}

// Absorption returns the light-propagation cost of id in 0..15: 15 for any
// non-transparent block regardless of its declared value, the declared
// absorption (clamped to 15) for transparent blocks, and 15 for an
// unregistered id — an id the registry doesn't know is treated as opaque,
// the conservative default a lighting or meshing pass falls back to when
// it meets a block from a newer registry version.
func (r *Registry) Absorption(id uint16) uint8 {
	if id == Air {
		return 0
	}
	def, err := r.Lookup(id)
	if err != nil {
		return 15
	}
	if !def.Transparent {
		return 15
	}
	a := def.Absorption
	if a > 15 {
		a = 15
	}
	return a
}

// TransparentAbsorption converts a fractional light-absorption coefficient
// in [0,1] to the 0-15 nibble scale used by Definition.Absorption via
// floor(fraction * 15).
func TransparentAbsorption(fraction float64) uint8 {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return uint8(math.Floor(fraction * 15))
}

// FaceColor returns the base color a face of id should be tinted with,
// preferring a per-face override if one is registered.
func (r *Registry) FaceColor(id uint16, face Face) Color {
	def, err := r.Lookup(id)
	if err != nil {
		return Color{1, 1, 1}
	}
	if def.FaceTint != nil {
		if c, ok := def.FaceTint[face]; ok {
			return c
		}
	}
	return def.BaseColor
}

// FaceTexture returns the texture name for the given id and face.
func (r *Registry) FaceTexture(id uint16, face Face) (string, error) {
	def, err := r.Lookup(id)
	if err != nil {
		return "", err
	}
	return def.Texture.Resolve(face), nil
}

// IsSolid reports whether id is collidable. An unknown id is conservatively
// treated as solid.
func (r *Registry) IsSolid(id uint16) bool {
	def, err := r.Lookup(id)
	if err != nil {
		return true
	}
	return def.Collidable
}

// IsTransparent reports whether id is transparent (for face-culling
// purposes). An unknown id is conservatively treated as opaque.
func (r *Registry) IsTransparent(id uint16) bool {
	def, err := r.Lookup(id)
	if err != nil {
		return false
	}
	return def.Transparent
}

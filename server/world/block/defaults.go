package block

// Well-known ids used by the terrain generator, lighting pipeline, and
// mesher tests. Id 0 is air by convention throughout this module; the only
// place a -1 "absent" sentinel appears is at the IVoxelQuery boundary, not
// in memory.
const (
	Air       uint16 = 0
	Bedrock   uint16 = 1
	Stone     uint16 = 2
	Dirt      uint16 = 3
	Grass     uint16 = 4
	Sand      uint16 = 5
	Sandstone uint16 = 6
	Water     uint16 = 7
	Leaves    uint16 = 8
	Wood      uint16 = 9
	Glass     uint16 = 10
	Glowstone uint16 = 11
	Gravel    uint16 = 12
)

// NewDefaultRegistry builds the standard block catalog used by the demo
// binary and by tests. Panics (via MustRegister) are acceptable here: this
// runs once at process start-up, before any worker pool exists.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(Definition{
		ID: Air, Category: "gas", Transparent: true, Collidable: false,
		Absorption: 0,
	})
	r.MustRegister(Definition{
		ID: Bedrock, Category: "solid", Collidable: true,
		Texture:   Texture{Kind: TextureSingle, Single: "bedrock"},
		BaseColor: Color{0.3, 0.3, 0.3},
	})
	r.MustRegister(Definition{
		ID: Stone, Category: "solid", Collidable: true,
		Texture:   Texture{Kind: TextureSingle, Single: "stone"},
		BaseColor: Color{0.5, 0.5, 0.5},
	})
	r.MustRegister(Definition{
		ID: Dirt, Category: "solid", Collidable: true,
		Texture:   Texture{Kind: TextureSingle, Single: "dirt"},
		BaseColor: Color{0.45, 0.3, 0.15},
	})
	r.MustRegister(Definition{
		ID: Grass, Category: "solid", Collidable: true,
		Texture: Texture{
			Kind:   TextureTopBottomSide,
			Top:    "grass_top",
			Bottom: "dirt",
			Side:   "grass_side",
		},
		BaseColor: Color{0.45, 0.3, 0.15},
		FaceTint:  map[Face]Color{FacePosY: {0.4, 0.75, 0.25}},
		SideOverlay: &SideOverlay{
			Color:  Color{0.4, 0.75, 0.25},
			Height: 0.2,
		},
	})
	r.MustRegister(Definition{
		ID: Sand, Category: "solid", Collidable: true,
		Texture:   Texture{Kind: TextureSingle, Single: "sand"},
		BaseColor: Color{0.85, 0.8, 0.55},
	})
	r.MustRegister(Definition{
		ID: Sandstone, Category: "solid", Collidable: true,
		Texture:   Texture{Kind: TextureSingle, Single: "sandstone"},
		BaseColor: Color{0.8, 0.75, 0.55},
	})
	r.MustRegister(Definition{
		ID: Water, Category: "fluid", Transparent: true, Collidable: false,
		Absorption: TransparentAbsorption(0.1),
		Texture:    Texture{Kind: TextureSingle, Single: "water"},
		BaseColor:  Color{0.2, 0.35, 0.8},
	})
	r.MustRegister(Definition{
		ID: Leaves, Category: "foliage", Transparent: true, Collidable: true,
		Absorption: TransparentAbsorption(0.2),
		Texture:    Texture{Kind: TextureSingle, Single: "leaves"},
		BaseColor:  Color{0.25, 0.55, 0.2},
	})
	r.MustRegister(Definition{
		ID: Wood, Category: "solid", Collidable: true,
		Texture: Texture{
			Kind: TextureTopBottomSide,
			Top:  "log_top", Bottom: "log_top", Side: "log_side",
		},
		BaseColor: Color{0.4, 0.28, 0.15},
	})
	r.MustRegister(Definition{
		ID: Glass, Category: "solid", Transparent: true, Collidable: true,
		Absorption: TransparentAbsorption(0.05),
		Texture:    Texture{Kind: TextureSingle, Single: "glass"},
		BaseColor:  Color{0.9, 0.95, 1.0},
	})
	r.MustRegister(Definition{
		ID: Glowstone, Category: "solid", Collidable: true,
		Emissive:  RGB15{R: 15, G: 12, B: 8},
		Texture:   Texture{Kind: TextureSingle, Single: "glowstone"},
		BaseColor: Color{1, 0.9, 0.6},
	})
	r.MustRegister(Definition{
		ID: Gravel, Category: "solid", Collidable: true,
		Texture:   Texture{Kind: TextureSingle, Single: "gravel"},
		BaseColor: Color{0.55, 0.5, 0.5},
	})

	return r
}

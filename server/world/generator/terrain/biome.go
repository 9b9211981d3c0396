package terrain

import "github.com/embercore/ember/server/world/block"

// Biome describes the terrain-generation parameters sampled for one column:
// surface layering, height parameters and decorator densities. Biomes are
// selected by nearest neighbour in (temperature, humidity) space.
type Biome struct {
	Name string

	Temperature float64
	Humidity    float64

	Surface    uint16
	Subsurface uint16
	Stone      uint16

	BaseHeight float64
	Amplitude1 float64
	Amplitude2 float64

	SandPatchChance float64
	TreeChance      float64
	RockChance      float64
}

// biomes is the fixed biome table. Order is irrelevant to selection (which
// is a nearest-neighbour search) but fixed here for deterministic
// iteration in tests.
var biomes = []Biome{
	{
		Name: "ocean", Temperature: 0.5, Humidity: 0.5,
		Surface: block.Sand, Subsurface: block.Sand, Stone: block.Stone,
		BaseHeight: 40, Amplitude1: 4, Amplitude2: 1,
	},
	{
		Name: "plains", Temperature: 0.6, Humidity: 0.4,
		Surface: block.Grass, Subsurface: block.Dirt, Stone: block.Stone,
		BaseHeight: 64, Amplitude1: 6, Amplitude2: 2,
		SandPatchChance: 0.01, TreeChance: 0.004, RockChance: 0.02,
	},
	{
		Name: "desert", Temperature: 0.9, Humidity: 0.1,
		Surface: block.Sand, Subsurface: block.Sandstone, Stone: block.Stone,
		BaseHeight: 62, Amplitude1: 5, Amplitude2: 2,
		SandPatchChance: 0.4, RockChance: 0.03,
	},
	{
		Name: "forest", Temperature: 0.55, Humidity: 0.7,
		Surface: block.Grass, Subsurface: block.Dirt, Stone: block.Stone,
		BaseHeight: 66, Amplitude1: 8, Amplitude2: 3,
		TreeChance: 0.09, RockChance: 0.01,
	},
	{
		Name: "mountains", Temperature: 0.3, Humidity: 0.3,
		Surface: block.Stone, Subsurface: block.Stone, Stone: block.Stone,
		BaseHeight: 84, Amplitude1: 24, Amplitude2: 10,
		RockChance: 0.08,
	},
	{
		Name: "tundra", Temperature: 0.1, Humidity: 0.2,
		Surface: block.Grass, Subsurface: block.Dirt, Stone: block.Stone,
		BaseHeight: 64, Amplitude1: 5, Amplitude2: 2,
		RockChance: 0.04,
	},
}

// selectBiome returns the biome whose (temperature, humidity) is closest in
// Euclidean distance to (t, h). Ties resolve to the earliest entry in the
// table, making selection a pure function of (t, h) and the fixed table.
func selectBiome(t, h float64) Biome {
	best := biomes[0]
	bestDist := distSq(best.Temperature, best.Humidity, t, h)
	for _, b := range biomes[1:] {
		d := distSq(b.Temperature, b.Humidity, t, h)
		if d < bestDist {
			best, bestDist = b, d
		}
	}
	return best
}

func distSq(t1, h1, t2, h2 float64) float64 {
	dt := t1 - t2
	dh := h1 - h2
	return dt*dt + dh*dh
}

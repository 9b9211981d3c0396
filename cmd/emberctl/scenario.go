package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/embercore/ember/server/world/block"
)

// Scenario is a scripted sequence of orchestrator commands, loaded from a
// YAML file passed via -scenario. It exists so emberctl can demonstrate a
// fixed load/edit script without a renderer attached, per the
// cmd/emberctl binary's role as a CLI harness over WorldOrchestrator.
// Spawn is decoded but runScenario does not act on it; the seed comes
// from the config file or the -seed flag.
type Scenario struct {
	Spawn ChunkCoord `yaml:"spawn"`
	Steps []Step     `yaml:"steps"`
}

// ChunkCoord is a chunk column coordinate as it appears in scenario YAML.
type ChunkCoord struct {
	X int32 `yaml:"x"`
	Z int32 `yaml:"z"`
}

// BlockEdit is a world-space block coordinate plus, for a place step, the
// block name to resolve against the default registry.
type BlockEdit struct {
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	Z     int    `yaml:"z"`
	Block string `yaml:"block,omitempty"`
}

// Step is one scripted command. Exactly one field should be set; main.go's
// runScenario dispatches on whichever is non-nil.
type Step struct {
	Load     *ChunkCoord `yaml:"load"`
	Generate *ChunkCoord `yaml:"generate"`
	Place    *BlockEdit  `yaml:"place"`
	Remove   *BlockEdit  `yaml:"remove"`
}

// DefaultScenario is used when -scenario is not given: it loads a small
// area around the origin and pokes a block so the event log shows the
// generate, lighting, mesh, place and remove events. It has no unload
// step, so ChunkUnloaded does not appear.
func DefaultScenario() *Scenario {
	return &Scenario{
		Steps: []Step{
			{Load: &ChunkCoord{X: 0, Z: 0}},
			{Place: &BlockEdit{X: 0, Y: 80, Z: 0, Block: "glowstone"}},
			{Remove: &BlockEdit{X: 0, Y: 80, Z: 0}},
		},
	}
}

// LoadScenario reads and decodes the YAML scenario file at path.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	return &s, nil
}

var blockByName = map[string]uint16{
	"air":       block.Air,
	"bedrock":   block.Bedrock,
	"stone":     block.Stone,
	"dirt":      block.Dirt,
	"grass":     block.Grass,
	"sand":      block.Sand,
	"sandstone": block.Sandstone,
	"water":     block.Water,
	"leaves":    block.Leaves,
	"wood":      block.Wood,
	"glass":     block.Glass,
	"glowstone": block.Glowstone,
	"gravel":    block.Gravel,
}

// resolveBlock looks up a scenario block name against the default
// registry's catalog, case-insensitively.
func resolveBlock(name string) (uint16, error) {
	id, ok := blockByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown block name %q", name)
	}
	return id, nil
}

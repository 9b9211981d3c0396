package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml"

	"github.com/embercore/ember/server/voxel"
)

// UserConfig is the on-disk TOML shape for emberctl. DefaultUserConfig
// sets every field explicitly (with a render radius of 4, where the
// orchestrator's own default is 3); a field set to zero in the file means
// "use the orchestrator's default", filled in by voxel.Config.fill at
// World construction.
type UserConfig struct {
	World struct {
		Seed         int64 `toml:"seed"`
		RenderRadius int   `toml:"renderRadius"`
	} `toml:"world"`

	Workers struct {
		Lighting int `toml:"lighting"`
		Meshing  int `toml:"meshing"`
	} `toml:"workers"`

	Scheduling struct {
		RebuildBudgetMillis int `toml:"rebuildBudgetMillis"`
		UnloadIntervalSecs  int `toml:"unloadIntervalSecs"`
		LightQueueCap       int `toml:"lightQueueCap"`
	} `toml:"scheduling"`
}

// DefaultUserConfig returns the configuration emberctl uses when no
// -config flag is given.
func DefaultUserConfig() UserConfig {
	var uc UserConfig
	uc.World.Seed = 1
	uc.World.RenderRadius = 4
	uc.Workers.Lighting = 6
	uc.Workers.Meshing = 6
	uc.Scheduling.RebuildBudgetMillis = 3
	uc.Scheduling.UnloadIntervalSecs = 5
	uc.Scheduling.LightQueueCap = 2_000_000
	return uc
}

// LoadConfig reads a TOML config file at path. An empty path returns
// DefaultUserConfig.
func LoadConfig(path string) (UserConfig, error) {
	uc := DefaultUserConfig()
	if path == "" {
		return uc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return uc, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &uc); err != nil {
		return uc, fmt.Errorf("decode config: %w", err)
	}
	return uc, nil
}

// VoxelConfig converts uc to a voxel.Config bound to log. Fields left at
// their TOML zero value fall through to voxel.Config.fill's defaults.
func (uc UserConfig) VoxelConfig(log *slog.Logger) voxel.Config {
	return voxel.Config{
		Seed:            uc.World.Seed,
		RenderRadius:    uc.World.RenderRadius,
		LightingWorkers: uc.Workers.Lighting,
		MeshingWorkers:  uc.Workers.Meshing,
		RebuildBudget:   time.Duration(uc.Scheduling.RebuildBudgetMillis) * time.Millisecond,
		UnloadInterval:  time.Duration(uc.Scheduling.UnloadIntervalSecs) * time.Second,
		LightQueueCap:   uc.Scheduling.LightQueueCap,
		Log:             log,
	}
}

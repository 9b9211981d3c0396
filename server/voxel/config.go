package voxel

import (
	"context"
	"log/slog"
	"time"
)

// Config configures a World's worker pools, scheduling budgets, and
// generation seed. The zero value is not ready to use; call Config.fill
// (applied automatically by New) to get the documented defaults.
type Config struct {
	Seed int64

	// RenderRadius is the chunk radius (in chunks, Chebyshev distance)
	// around an observer that Load fills in.
	RenderRadius int

	LightingWorkers int
	MeshingWorkers  int

	// RebuildBudget bounds wall time spent dispatching dirty-mesh entries
	// per ProcessDirtyQueue call, default 3ms.
	RebuildBudget time.Duration

	// UnloadInterval is how often Unload should be invoked by a caller
	// driving the orchestrator's tick loop, default 5s.
	UnloadInterval time.Duration

	// LightQueueCap bounds the per-task BFS queue inside the lighting
	// pipeline (a different structure from the worker pools' task slots),
	// default light.DefaultQueueCap.
	LightQueueCap int

	Log *slog.Logger

	// WorkerPoolContext governs the lifetime of the worker pools; the
	// pools shut down when it's cancelled. Defaults to
	// context.Background().
	WorkerPoolContext context.Context
}

func (c Config) fill() Config {
	if c.RenderRadius <= 0 {
		c.RenderRadius = 3
	}
	if c.LightingWorkers <= 0 {
		c.LightingWorkers = 6
	}
	if c.MeshingWorkers <= 0 {
		c.MeshingWorkers = 6
	}
	if c.RebuildBudget <= 0 {
		c.RebuildBudget = 3 * time.Millisecond
	}
	if c.UnloadInterval <= 0 {
		c.UnloadInterval = 5 * time.Second
	}
	if c.LightQueueCap <= 0 {
		c.LightQueueCap = 2_000_000
	}
	if c.Log == nil {
		c.Log = slog.Default()
	}
	if c.WorkerPoolContext == nil {
		c.WorkerPoolContext = context.Background()
	}
	return c
}

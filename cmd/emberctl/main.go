// Command emberctl is a CLI harness that drives a WorldOrchestrator through
// a scripted sequence of Generate/PlaceBlock commands, logging every event
// the orchestrator emits. It does not render anything: the renderer is an
// external collaborator out of this module's scope.
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/embercore/ember/server/voxel"
	"github.com/embercore/ember/server/world/block"
	"github.com/embercore/ember/server/world/chunk"
)

func main() {
	var (
		configPath   = flag.String("config", "", "path to a TOML config file (defaults built in if omitted)")
		scenarioPath = flag.String("scenario", "", "path to a YAML scenario file (a small built-in demo runs if omitted)")
		seedFlag     = flag.Int64("seed", 0, "override the configured world seed (0 means: use config)")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	uc, err := LoadConfig(*configPath)
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}
	if *seedFlag != 0 {
		uc.World.Seed = *seedFlag
	}

	scenario := DefaultScenario()
	if *scenarioPath != "" {
		scenario, err = LoadScenario(*scenarioPath)
		if err != nil {
			log.Error("load scenario", "error", err)
			os.Exit(1)
		}
	}

	reg := block.NewDefaultRegistry()
	w := voxel.New(uc.VoxelConfig(log), reg)

	router := newEventRouter(log)
	go router.run(w.Subscribe())

	log.Info("starting scripted run", "seed", uc.World.Seed, "renderRadius", uc.World.RenderRadius, "steps", len(scenario.Steps))
	runScenario(w, router, scenario, uc.World.RenderRadius, log)

	// Drain whatever mesh rebuilds the scenario's edits queued up before
	// exiting, mirroring the budgeted per-tick dispatch a long-running
	// caller would do on a timer.
	for dispatched := w.ProcessDirtyQueue(); dispatched > 0; dispatched = w.ProcessDirtyQueue() {
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)
	log.Info("scripted run complete")
}

func runScenario(w *voxel.World, router *eventRouter, s *Scenario, renderRadius int, log *slog.Logger) {
	area := (2*renderRadius + 1) * (2*renderRadius + 1)
	for i, step := range s.Steps {
		switch {
		case step.Load != nil:
			pos := chunk.Pos{step.Load.X, step.Load.Z}
			w.Load(pos)
			if !router.waitN(voxel.EventLightingCalculated, nil, area, 10*time.Second) {
				log.Warn("step timed out waiting for load to settle", "step", i, "chunk", pos)
			}

		case step.Generate != nil:
			pos := chunk.Pos{step.Generate.X, step.Generate.Z}
			w.Generate(pos)
			if !router.waitN(voxel.EventLightingCalculated, &pos, 1, 5*time.Second) {
				log.Warn("step timed out waiting for generate", "step", i, "chunk", pos)
			}

		case step.Place != nil:
			id, err := resolveBlock(step.Place.Block)
			if err != nil {
				log.Error("scenario step: resolve block", "step", i, "error", err)
				continue
			}
			if err := w.PlaceBlock(step.Place.X, step.Place.Y, step.Place.Z, id); err != nil {
				log.Error("scenario step: place block", "step", i, "error", err)
			}

		case step.Remove != nil:
			if err := w.RemoveBlock(step.Remove.X, step.Remove.Y, step.Remove.Z); err != nil {
				log.Error("scenario step: remove block", "step", i, "error", err)
			}
		}
	}
}

package voxel

import "errors"

// Sentinel errors for the orchestrator's command plane, wrapped with
// fmt.Errorf at the point of detection and checked with errors.Is by
// callers, matching the rest of this module's error-handling style.
var (
	ErrOutOfBounds      = errors.New("voxel: coordinate out of bounds")
	ErrChunkNotLoaded   = errors.New("voxel: chunk not loaded")
	ErrWorkerTaskFailed = errors.New("voxel: worker task failed")
)

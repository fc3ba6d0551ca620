package app

import (
	"context"
	"time"
)

const (
	// StageProvision defines the stage that ensures the requested runtime is available.
	StageProvision = "provision"
	// StageBuild defines the stage that installs the dependencies and produces the artifacts.
	StageBuild = "build"
	// StageTest defines the stage that executes the test suite.
	StageTest = "test"
	// StagePublish defines the stage that uploads the artifacts to the registry.
	StagePublish = "publish"

	// StageStatusRunning defines the status that means the stage is executing.
	StageStatusRunning = "running"
	// StageStatusSucceeded defines the status that means the stage finished successfully.
	StageStatusSucceeded = "succeeded"
	// StageStatusFailed defines the status that means the stage exited with an error.
	StageStatusFailed = "failed"
	// StageStatusSkipped defines the status that means the stage was gated out and never executed.
	StageStatusSkipped = "skipped"
)

// Stage is a model that represents a single ordered unit of work within a run.
type Stage struct {
	ID         uint64     `json:"id"`
	RunID      uint64     `json:"runId"`
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	Log        string     `json:"log"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt"`
}

// StageRepo describes interactions with the stage DB.
type StageRepo interface {
	FindByRun(ctx context.Context, runID uint64) ([]Stage, error)
	Add(ctx context.Context, s Stage) (Stage, error)
	Update(ctx context.Context, s Stage) (Stage, error)
}

package app

import (
	"context"
	"time"
)

const (
	// TriggerTag defines the trigger for the runs caused by a tag push.
	TriggerTag = "tag"
	// TriggerBranch defines the trigger for the runs caused by a branch push.
	TriggerBranch = "branch"
	// TriggerPullRequest defines the trigger for the runs caused by a pull request event.
	TriggerPullRequest = "pull_request"

	// RunStatusEnqueued defines the status that means the run is created and awaiting execution.
	RunStatusEnqueued = "enqueued"
	// RunStatusRunning defines the status that means the pipeline is executing the run stages.
	RunStatusRunning = "running"
	// RunStatusSucceeded defines the status that means all run stages finished successfully.
	RunStatusSucceeded = "succeeded"
	// RunStatusFailed defines the status that means one of the run stages failed.
	RunStatusFailed = "failed"
	// RunStatusCanceled defines the status that means the run was aborted by the operator.
	RunStatusCanceled = "canceled"

	// EventPush defines the trigger event for branch and tag pushes.
	EventPush = "push"
	// EventPullRequest defines the trigger event for pull requests.
	EventPullRequest = "pull_request"
)

// Run is a model that represents a single pipeline run.
type Run struct {
	ID         uint64     `json:"id"`
	ProjectID  uint64     `json:"projectId"`
	Trigger    string     `json:"trigger"`
	Ref        string     `json:"ref"`
	Hash       string     `json:"hash"`
	Status     string     `json:"status"`
	ErrorMsg   *string    `json:"errorMsg"`
	CreatedAt  time.Time  `json:"createdAt"`
	FinishedAt *time.Time `json:"finishedAt"`
}

// FormTriggerRun represents a trigger event delivered to the hook endpoint.
type FormTriggerRun struct {
	Event string `json:"event"`
	Ref   string `json:"ref"`
	Hash  string `json:"hash"`
}

// RunSvc describes the pipeline run service.
type RunSvc interface {
	List(context.Context) ([]Run, error)
	Find(ctx context.Context, id uint64) (Run, error)
	Stages(ctx context.Context, id uint64) ([]Stage, error)
	Trigger(ctx context.Context, alias string, f FormTriggerRun) (Run, error)
	Cancel(ctx context.Context, id uint64) error
	PipelineJob(ctx context.Context) error
}

// RunRepo describes interactions with the run DB.
type RunRepo interface {
	FindAll(ctx context.Context) ([]Run, error)
	FindByID(ctx context.Context, id uint64) (Run, error)
	FindEnqueued(ctx context.Context) (Run, error)
	Add(ctx context.Context, r Run) (Run, error)
	Update(ctx context.Context, r Run) (Run, error)
	UpdateStatus(ctx context.Context, r Run) error
}

// RunnerSvc describes the service that executes the stage sequence of a single run.
type RunnerSvc interface {
	Execute(ctx context.Context, p Project, r Run) error
}

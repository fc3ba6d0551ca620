package svc

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/beldeveloper/go-errors-context"
	"github.com/beldeveloper/pkg-conveyor/internal/app"
	"github.com/beldeveloper/pkg-conveyor/internal/app/errtype"
)

// NewRun creates a new instance of the pipeline run service.
func NewRun(
	runnerSvc app.RunnerSvc,
	projectRepo app.ProjectRepo,
	runRepo app.RunRepo,
	stageRepo app.StageRepo,
) app.RunSvc {
	return Run{
		runnerSvc:   runnerSvc,
		projectRepo: projectRepo,
		runRepo:     runRepo,
		stageRepo:   stageRepo,
		pushRefRx:   regexp.MustCompile(`^refs/(heads|tags)/(.+)$`),
	}
}

// Run is a service that manages the pipeline runs.
type Run struct {
	runnerSvc   app.RunnerSvc
	projectRepo app.ProjectRepo
	runRepo     app.RunRepo
	stageRepo   app.StageRepo
	pushRefRx   *regexp.Regexp
}

// List all runs.
func (s Run) List(ctx context.Context) ([]app.Run, error) {
	res, err := s.runRepo.FindAll(ctx)
	return res, errors.WrapContext(err, errors.Context{Path: "svc.Run.List.FindAll"})
}

// Find the run by ID.
func (s Run) Find(ctx context.Context, id uint64) (app.Run, error) {
	res, err := s.runRepo.FindByID(ctx, id)
	return res, errors.WrapContext(err, errors.Context{
		Path:   "svc.Run.Find.FindByID",
		Params: errors.Params{"run": id},
	})
}

// Stages returns the stage rows of the run.
func (s Run) Stages(ctx context.Context, id uint64) ([]app.Stage, error) {
	_, err := s.runRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.WrapContext(err, errors.Context{
			Path:   "svc.Run.Stages.FindByID",
			Params: errors.Params{"run": id},
		})
	}
	res, err := s.stageRepo.FindByRun(ctx, id)
	return res, errors.WrapContext(err, errors.Context{
		Path:   "svc.Run.Stages.FindByRun",
		Params: errors.Params{"run": id},
	})
}

// Trigger classifies the delivered event and enqueues a new run for the project.
func (s Run) Trigger(ctx context.Context, alias string, f app.FormTriggerRun) (app.Run, error) {
	p, err := s.projectRepo.FindByAlias(ctx, alias)
	if err != nil {
		return app.Run{}, errors.WrapContext(err, errors.Context{
			Path:   "svc.Run.Trigger.FindByAlias",
			Params: errors.Params{"alias": alias},
		})
	}
	trigger, ref, err := s.classify(f)
	if err != nil {
		return app.Run{}, errors.WrapContext(err, errors.Context{
			Path:   "svc.Run.Trigger.classify",
			Params: errors.Params{"project": p.ID, "event": f.Event},
		})
	}
	r, err := s.runRepo.Add(ctx, app.Run{
		ProjectID: p.ID,
		Trigger:   trigger,
		Ref:       ref,
		Hash:      f.Hash,
		Status:    app.RunStatusEnqueued,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return r, errors.WrapContext(err, errors.Context{
			Path:   "svc.Run.Trigger.Add",
			Params: errors.Params{"project": p.ID},
		})
	}
	log.Printf("The run #%d is triggered (%s %s)\n", r.ID, r.Trigger, r.Ref)
	return r, nil
}

// Cancel aborts the run; allowed for enqueued and running runs only.
func (s Run) Cancel(ctx context.Context, id uint64) error {
	r, err := s.runRepo.FindByID(ctx, id)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Run.Cancel.FindByID",
			Params: errors.Params{"run": id},
		})
	}
	if r.Status != app.RunStatusEnqueued && r.Status != app.RunStatusRunning {
		err = fmt.Errorf("%w: the run is already finished; status=%s", errtype.ErrBadInput, r.Status)
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Run.Cancel.status",
			Params: errors.Params{"run": id},
		})
	}
	now := time.Now()
	r.Status = app.RunStatusCanceled
	r.FinishedAt = &now
	_, err = s.runRepo.Update(ctx, r)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Run.Cancel.Update",
			Params: errors.Params{"run": id},
		})
	}
	log.Printf("The run #%d is canceled\n", r.ID)
	return nil
}

// PipelineJob fetches the next enqueued run and executes the stage sequence.
func (s Run) PipelineJob(ctx context.Context) error {
	r, err := s.runRepo.FindEnqueued(ctx)
	if err != nil {
		if !errors.Is(err, errtype.ErrNotFound) {
			return errors.WrapContext(err, errors.Context{Path: "svc.Run.PipelineJob.FindEnqueued"})
		}
		return nil
	}
	p, err := s.projectRepo.FindByID(ctx, r.ProjectID)
	if err != nil {
		s.finalize(ctx, r, app.RunStatusFailed, fmt.Sprintf("can't find project id=%d; err=%v", r.ProjectID, err))
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Run.PipelineJob.FindByID",
			Params: errors.Params{"project": r.ProjectID},
		})
	}
	r.Status = app.RunStatusRunning
	err = s.runRepo.UpdateStatus(ctx, r)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Run.PipelineJob.UpdateStatus",
			Params: errors.Params{"run": r.ID, "status": r.Status},
		})
	}
	err = s.runnerSvc.Execute(ctx, p, r)
	switch {
	case err == nil:
		s.finalize(ctx, r, app.RunStatusSucceeded, "")
		log.Printf("The run #%d succeeded\n", r.ID)
	case errors.Is(err, errtype.ErrRunCanceled):
		s.finalize(ctx, r, app.RunStatusCanceled, "")
		log.Printf("The run #%d execution is aborted\n", r.ID)
	default:
		s.finalize(ctx, r, app.RunStatusFailed, err.Error())
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Run.PipelineJob.Execute",
			Params: errors.Params{"run": r.ID},
		})
	}
	return nil
}

func (s Run) classify(f app.FormTriggerRun) (trigger, ref string, err error) {
	if strings.TrimSpace(f.Hash) == "" {
		return "", "", fmt.Errorf("%w: commit hash must not be empty", errtype.ErrBadInput)
	}
	switch f.Event {
	case app.EventPullRequest:
		if strings.TrimSpace(f.Ref) == "" {
			return "", "", fmt.Errorf("%w: target branch must not be empty", errtype.ErrBadInput)
		}
		return app.TriggerPullRequest, f.Ref, nil
	case app.EventPush:
		matches := s.pushRefRx.FindStringSubmatch(f.Ref)
		if len(matches) < 3 {
			return "", "", fmt.Errorf("%w: invalid push ref: %s", errtype.ErrBadInput, f.Ref)
		}
		if matches[1] == "tags" {
			return app.TriggerTag, matches[2], nil
		}
		return app.TriggerBranch, matches[2], nil
	default:
		return "", "", fmt.Errorf("%w: unknown event: %s", errtype.ErrBadInput, f.Event)
	}
}

func (s Run) finalize(ctx context.Context, r app.Run, status, errorMsg string) {
	now := time.Now()
	r.Status = status
	r.FinishedAt = &now
	r.ErrorMsg = nil
	if errorMsg != "" {
		r.ErrorMsg = &errorMsg
	}
	_, err := s.runRepo.Update(ctx, r)
	if err != nil {
		log.Println(errors.WrapContext(err, errors.Context{
			Path:   "svc.Run.finalize",
			Params: errors.Params{"run": r.ID, "status": status},
		}))
	}
}

package svc

import (
	"context"
	"strings"
	"time"

	"github.com/beldeveloper/go-errors-context"
	"github.com/beldeveloper/pkg-conveyor/internal/app"
	"github.com/beldeveloper/pkg-conveyor/internal/app/errtype"
	"github.com/beldeveloper/pkg-conveyor/pkg/os"
)

// NewRunner creates a new instance of the runner service.
func NewRunner(
	workspaceDir app.WorkspaceDir,
	vcsSvc app.VcsSvc,
	cfgSvc app.CfgSvc,
	provisionSvc app.ProvisionSvc,
	publisherSvc app.PublisherSvc,
	execSvc app.ExecSvc,
	runRepo app.RunRepo,
	stageRepo app.StageRepo,
) app.RunnerSvc {
	return Runner{
		workspaceDir: string(workspaceDir),
		vcsSvc:       vcsSvc,
		cfgSvc:       cfgSvc,
		provisionSvc: provisionSvc,
		publisherSvc: publisherSvc,
		execSvc:      execSvc,
		runRepo:      runRepo,
		stageRepo:    stageRepo,
	}
}

// Runner is a service that executes the stage sequence of a single run.
// The stages are strictly linear; the first failure aborts the remaining sequence.
type Runner struct {
	workspaceDir string
	vcsSvc       app.VcsSvc
	cfgSvc       app.CfgSvc
	provisionSvc app.ProvisionSvc
	publisherSvc app.PublisherSvc
	execSvc      app.ExecSvc
	runRepo      app.RunRepo
	stageRepo    app.StageRepo
}

// Execute checks the project out at the run commit and walks the stage sequence.
func (s Runner) Execute(ctx context.Context, p app.Project, r app.Run) error {
	err := s.vcsSvc.Checkout(ctx, p, r)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Runner.Execute.Checkout",
			Params: errors.Params{"run": r.ID},
		})
	}
	cfg, err := s.cfgSvc.Read(ctx, p)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Runner.Execute.Read",
			Params: errors.Params{"run": r.ID},
		})
	}
	err = s.runStage(ctx, r, app.StageProvision, func(ctx context.Context) (string, error) {
		return s.provisionSvc.Ensure(ctx, p, cfg.Runtime)
	})
	if err != nil {
		return err
	}
	err = s.runStage(ctx, r, app.StageBuild, func(ctx context.Context) (string, error) {
		return s.runCommands(ctx, p, append(append([]app.PipelineCmd{}, cfg.Install...), cfg.Build...))
	})
	if err != nil {
		return err
	}
	err = s.runStage(ctx, r, app.StageTest, func(ctx context.Context) (string, error) {
		return s.runCommands(ctx, p, cfg.Test)
	})
	if err != nil {
		return err
	}
	if r.Trigger == app.TriggerPullRequest {
		return s.skipStage(ctx, r, app.StagePublish)
	}
	return s.runStage(ctx, r, app.StagePublish, func(ctx context.Context) (string, error) {
		return s.publisherSvc.Publish(ctx, p, cfg.Publish)
	})
}

// runStage records the stage row, executes the action, and persists the outcome.
// The operator abort is observed before the stage starts.
func (s Runner) runStage(ctx context.Context, r app.Run, name string, action func(ctx context.Context) (string, error)) error {
	err := s.checkCanceled(ctx, r)
	if err != nil {
		return err
	}
	stage, err := s.stageRepo.Add(ctx, app.Stage{
		RunID:     r.ID,
		Name:      name,
		Status:    app.StageStatusRunning,
		StartedAt: time.Now(),
	})
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Runner.runStage.Add",
			Params: errors.Params{"run": r.ID, "stage": name},
		})
	}
	out, actionErr := action(ctx)
	now := time.Now()
	stage.Log = out
	stage.FinishedAt = &now
	stage.Status = app.StageStatusSucceeded
	if actionErr != nil {
		stage.Status = app.StageStatusFailed
		stage.Log = strings.TrimSpace(out + "\n" + actionErr.Error())
	}
	_, err = s.stageRepo.Update(ctx, stage)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Runner.runStage.Update",
			Params: errors.Params{"run": r.ID, "stage": name, "status": stage.Status},
		})
	}
	return errors.WrapContext(actionErr, errors.Context{
		Path:   "svc.Runner.runStage",
		Params: errors.Params{"run": r.ID, "stage": name},
	})
}

// skipStage records the gated-out stage so the decision stays auditable.
func (s Runner) skipStage(ctx context.Context, r app.Run, name string) error {
	now := time.Now()
	_, err := s.stageRepo.Add(ctx, app.Stage{
		RunID:      r.ID,
		Name:       name,
		Status:     app.StageStatusSkipped,
		StartedAt:  now,
		FinishedAt: &now,
	})
	return errors.WrapContext(err, errors.Context{
		Path:   "svc.Runner.skipStage.Add",
		Params: errors.Params{"run": r.ID, "stage": name},
	})
}

func (s Runner) runCommands(ctx context.Context, p app.Project, cmds []app.PipelineCmd) (string, error) {
	dir := s.workspaceDir + "/" + p.Alias
	var sb strings.Builder
	for _, c := range cmds {
		out, err := s.execSvc.RunCmd(ctx, os.Cmd{
			Name: c.Name,
			Args: c.Args,
			Dir:  dir,
			Log:  true,
		})
		sb.WriteString(out)
		if err != nil {
			return sb.String(), errors.WrapContext(err, errors.Context{
				Path:   "svc.Runner.runCommands",
				Params: errors.Params{"project": p.ID, "cmd": c.Name},
			})
		}
	}
	return sb.String(), nil
}

func (s Runner) checkCanceled(ctx context.Context, r app.Run) error {
	fresh, err := s.runRepo.FindByID(ctx, r.ID)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Runner.checkCanceled.FindByID",
			Params: errors.Params{"run": r.ID},
		})
	}
	if fresh.Status == app.RunStatusCanceled {
		return errtype.ErrRunCanceled
	}
	return nil
}

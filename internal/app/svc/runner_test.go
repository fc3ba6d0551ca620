package svc

import (
	"context"
	"errors"
	"fmt"
	stdos "os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beldeveloper/pkg-conveyor/internal/app"
	"github.com/beldeveloper/pkg-conveyor/internal/app/errtype"
	"github.com/beldeveloper/pkg-conveyor/pkg/os"
)

type runnerEnv struct {
	runner  app.RunnerSvc
	exec    *fakeExec
	vcs     *fakeVcs
	runs    *memRuns
	stages  *memStages
	project app.Project
}

func newRunnerEnv(t *testing.T) runnerEnv {
	t.Helper()
	workspace := t.TempDir()
	distDir := filepath.Join(workspace, "demo", "dist")
	if err := stdos.MkdirAll(distDir, 0755); err != nil {
		t.Fatalf("prepare dist dir: %v", err)
	}
	artifact := filepath.Join(distDir, "demo-1.2.3.tar.gz")
	if err := stdos.WriteFile(artifact, []byte("pkg"), 0644); err != nil {
		t.Fatalf("prepare artifact: %v", err)
	}
	exec := &fakeExec{handler: func(cmd os.Cmd) (string, error) {
		if cmd.Name == "python3" && len(cmd.Args) > 0 && cmd.Args[0] == "--version" {
			return "Python 3.6.9", nil
		}
		return "", nil
	}}
	cfg := app.PipelineCfg{
		Runtime: app.RuntimeCfg{Command: "python3", Version: "3.6"},
		Install: []app.PipelineCmd{{Name: "pip", Args: []string{"install", "pipenv"}}},
		Build:   []app.PipelineCmd{{Name: "python3", Args: []string{"setup.py", "sdist"}}},
		Test:    []app.PipelineCmd{{Name: "pipenv", Args: []string{"run", "pytest"}}},
		Publish: app.PublishCfg{Tool: "twine", Dir: "dist"},
	}
	dir := app.WorkspaceDir(workspace)
	creds := app.RegistryCredentials{Username: "ci-bot", Password: "sw0rdfish"}
	vcs := &fakeVcs{}
	runs := newMemRuns()
	stages := newMemStages()
	return runnerEnv{
		runner: NewRunner(
			dir,
			vcs,
			fixedCfg{cfg: cfg},
			NewProvision(dir, exec),
			NewPublisher(dir, creds, exec),
			exec,
			runs,
			stages,
		),
		exec:    exec,
		vcs:     vcs,
		runs:    runs,
		stages:  stages,
		project: app.Project{ID: 1, Type: app.ProjectTypeGit, Alias: "demo", Status: app.ProjectStatusReady},
	}
}

func (e runnerEnv) addRun(t *testing.T, trigger string) app.Run {
	t.Helper()
	r, err := e.runs.Add(context.Background(), app.Run{
		ProjectID: e.project.ID,
		Trigger:   trigger,
		Ref:       "v1.2.3",
		Hash:      "a1b2c3",
		Status:    app.RunStatusRunning,
	})
	if err != nil {
		t.Fatalf("add run: %v", err)
	}
	return r
}

func (e runnerEnv) stageStatuses(t *testing.T, runID uint64) map[string]string {
	t.Helper()
	stages, err := e.stages.FindByRun(context.Background(), runID)
	if err != nil {
		t.Fatalf("find stages: %v", err)
	}
	res := make(map[string]string, len(stages))
	for _, s := range stages {
		res[s.Name] = s.Status
	}
	return res
}

func TestRunnerPublishesOnTagPush(t *testing.T) {
	e := newRunnerEnv(t)
	r := e.addRun(t, app.TriggerTag)
	err := e.runner.Execute(context.Background(), e.project, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	statuses := e.stageStatuses(t, r.ID)
	for _, name := range []string{app.StageProvision, app.StageBuild, app.StageTest, app.StagePublish} {
		if statuses[name] != app.StageStatusSucceeded {
			t.Errorf("stage %s: want %s, got %s", name, app.StageStatusSucceeded, statuses[name])
		}
	}
	uploads := e.exec.calls("twine")
	if len(uploads) != 1 {
		t.Fatalf("want exactly one upload invocation, got %d", len(uploads))
	}
	args := strings.Join(uploads[0].Args, " ")
	if !strings.Contains(args, "--skip-existing") {
		t.Errorf("upload must be idempotent: %s", args)
	}
	if !strings.Contains(args, "demo-1.2.3.tar.gz") {
		t.Errorf("upload must carry the artifact: %s", args)
	}
	if len(e.vcs.checkouts) != 1 || e.vcs.checkouts[0].ID != r.ID {
		t.Errorf("the project must be checked out at the run commit")
	}
}

func TestRunnerSkipsPublishForPullRequest(t *testing.T) {
	e := newRunnerEnv(t)
	r := e.addRun(t, app.TriggerPullRequest)
	err := e.runner.Execute(context.Background(), e.project, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(e.exec.calls("twine")); got != 0 {
		t.Fatalf("publish must never execute for pull requests, got %d uploads", got)
	}
	statuses := e.stageStatuses(t, r.ID)
	if statuses[app.StagePublish] != app.StageStatusSkipped {
		t.Errorf("publish stage: want %s, got %s", app.StageStatusSkipped, statuses[app.StagePublish])
	}
	if statuses[app.StageTest] != app.StageStatusSucceeded {
		t.Errorf("test stage must still run for pull requests, got %s", statuses[app.StageTest])
	}
}

func TestRunnerAbortsOnTestFailure(t *testing.T) {
	e := newRunnerEnv(t)
	base := e.exec.handler
	e.exec.handler = func(cmd os.Cmd) (string, error) {
		if cmd.Name == "pipenv" && len(cmd.Args) > 0 && cmd.Args[0] == "run" {
			return "1 failed", fmt.Errorf("exit status 1")
		}
		return base(cmd)
	}
	r := e.addRun(t, app.TriggerBranch)
	err := e.runner.Execute(context.Background(), e.project, r)
	if err == nil {
		t.Fatal("want error, got nil")
	}
	if got := len(e.exec.calls("twine")); got != 0 {
		t.Fatalf("publish must never execute after a test failure, got %d uploads", got)
	}
	statuses := e.stageStatuses(t, r.ID)
	if statuses[app.StageTest] != app.StageStatusFailed {
		t.Errorf("test stage: want %s, got %s", app.StageStatusFailed, statuses[app.StageTest])
	}
	if _, exists := statuses[app.StagePublish]; exists {
		t.Error("publish stage must not be recorded after a test failure")
	}
}

func TestRunnerAbortsOnBuildFailure(t *testing.T) {
	e := newRunnerEnv(t)
	base := e.exec.handler
	e.exec.handler = func(cmd os.Cmd) (string, error) {
		if cmd.Name == "python3" && len(cmd.Args) > 0 && cmd.Args[0] == "setup.py" {
			return "", fmt.Errorf("exit status 1")
		}
		return base(cmd)
	}
	r := e.addRun(t, app.TriggerTag)
	err := e.runner.Execute(context.Background(), e.project, r)
	if err == nil {
		t.Fatal("want error, got nil")
	}
	statuses := e.stageStatuses(t, r.ID)
	if statuses[app.StageBuild] != app.StageStatusFailed {
		t.Errorf("build stage: want %s, got %s", app.StageStatusFailed, statuses[app.StageBuild])
	}
	for _, name := range []string{app.StageTest, app.StagePublish} {
		if _, exists := statuses[name]; exists {
			t.Errorf("stage %s must not be recorded after a build failure", name)
		}
	}
}

func TestRunnerFailsOnRuntimeVersionMismatch(t *testing.T) {
	e := newRunnerEnv(t)
	e.exec.handler = func(cmd os.Cmd) (string, error) {
		if cmd.Name == "python3" && len(cmd.Args) > 0 && cmd.Args[0] == "--version" {
			return "Python 3.9.1", nil
		}
		return "", nil
	}
	r := e.addRun(t, app.TriggerTag)
	err := e.runner.Execute(context.Background(), e.project, r)
	if err == nil {
		t.Fatal("want error, got nil")
	}
	statuses := e.stageStatuses(t, r.ID)
	if statuses[app.StageProvision] != app.StageStatusFailed {
		t.Errorf("provision stage: want %s, got %s", app.StageStatusFailed, statuses[app.StageProvision])
	}
	if len(statuses) != 1 {
		t.Errorf("no further stage may run after a provisioning failure, got %v", statuses)
	}
}

func TestRunnerObservesOperatorAbort(t *testing.T) {
	e := newRunnerEnv(t)
	r := e.addRun(t, app.TriggerBranch)
	r.Status = app.RunStatusCanceled
	if _, err := e.runs.Update(context.Background(), r); err != nil {
		t.Fatalf("cancel run: %v", err)
	}
	err := e.runner.Execute(context.Background(), e.project, r)
	if !errors.Is(err, errtype.ErrRunCanceled) {
		t.Fatalf("want ErrRunCanceled, got %v", err)
	}
	if len(e.stageStatuses(t, r.ID)) != 0 {
		t.Error("no stage may start after the operator abort")
	}
}

func TestRunnerCredentialsStayOutOfArgv(t *testing.T) {
	e := newRunnerEnv(t)
	r := e.addRun(t, app.TriggerTag)
	if err := e.runner.Execute(context.Background(), e.project, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, cmd := range e.exec.cmds {
		for _, arg := range cmd.Args {
			if strings.Contains(arg, "sw0rdfish") || strings.Contains(arg, "ci-bot") {
				t.Fatalf("credential leaked into argv: %s %v", cmd.Name, cmd.Args)
			}
		}
	}
	stages, err := e.stages.FindByRun(context.Background(), r.ID)
	if err != nil {
		t.Fatalf("find stages: %v", err)
	}
	for _, s := range stages {
		if strings.Contains(s.Log, "sw0rdfish") {
			t.Fatalf("credential leaked into the %s stage log", s.Name)
		}
	}
}

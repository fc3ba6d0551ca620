package svc

import (
	"context"
	"sort"

	"github.com/beldeveloper/pkg-conveyor/internal/app"
	"github.com/beldeveloper/pkg-conveyor/internal/app/errtype"
	"github.com/beldeveloper/pkg-conveyor/pkg/os"
)

// fakeExec records every executed command and answers via the scripted handler.
type fakeExec struct {
	cmds    []os.Cmd
	handler func(cmd os.Cmd) (string, error)
}

func (f *fakeExec) RunCmd(ctx context.Context, cmd os.Cmd) (string, error) {
	f.cmds = append(f.cmds, cmd)
	if f.handler != nil {
		return f.handler(cmd)
	}
	return "", nil
}

func (f *fakeExec) calls(name string) []os.Cmd {
	res := make([]os.Cmd, 0)
	for _, c := range f.cmds {
		if c.Name == name {
			res = append(res, c)
		}
	}
	return res
}

type memProjects struct {
	items map[uint64]app.Project
	seq   uint64
}

func newMemProjects() *memProjects {
	return &memProjects{items: make(map[uint64]app.Project)}
}

func (m *memProjects) FindAll(ctx context.Context) ([]app.Project, error) {
	res := make([]app.Project, 0, len(m.items))
	for _, p := range m.items {
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *memProjects) FindByID(ctx context.Context, id uint64) (app.Project, error) {
	p, ok := m.items[id]
	if !ok {
		return p, errtype.ErrNotFound
	}
	return p, nil
}

func (m *memProjects) FindByAlias(ctx context.Context, alias string) (app.Project, error) {
	for _, p := range m.items {
		if p.Alias == alias {
			return p, nil
		}
	}
	return app.Project{}, errtype.ErrNotFound
}

func (m *memProjects) FindPending(ctx context.Context) (app.Project, error) {
	for _, p := range m.items {
		if p.Status == app.ProjectStatusPending {
			return p, nil
		}
	}
	return app.Project{}, errtype.ErrNotFound
}

func (m *memProjects) Add(ctx context.Context, p app.Project) (app.Project, error) {
	m.seq++
	p.ID = m.seq
	m.items[p.ID] = p
	return p, nil
}

func (m *memProjects) Update(ctx context.Context, p app.Project) (app.Project, error) {
	m.items[p.ID] = p
	return p, nil
}

type memRuns struct {
	items map[uint64]app.Run
	seq   uint64
}

func newMemRuns() *memRuns {
	return &memRuns{items: make(map[uint64]app.Run)}
}

func (m *memRuns) FindAll(ctx context.Context) ([]app.Run, error) {
	res := make([]app.Run, 0, len(m.items))
	for _, r := range m.items {
		res = append(res, r)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return res, nil
}

func (m *memRuns) FindByID(ctx context.Context, id uint64) (app.Run, error) {
	r, ok := m.items[id]
	if !ok {
		return r, errtype.ErrNotFound
	}
	return r, nil
}

func (m *memRuns) FindEnqueued(ctx context.Context) (app.Run, error) {
	var found app.Run
	for _, r := range m.items {
		if r.Status != app.RunStatusEnqueued && r.Status != app.RunStatusRunning {
			continue
		}
		if found.ID == 0 || r.ID < found.ID {
			found = r
		}
	}
	if found.ID == 0 {
		return found, errtype.ErrNotFound
	}
	return found, nil
}

func (m *memRuns) Add(ctx context.Context, r app.Run) (app.Run, error) {
	m.seq++
	r.ID = m.seq
	m.items[r.ID] = r
	return r, nil
}

func (m *memRuns) Update(ctx context.Context, r app.Run) (app.Run, error) {
	m.items[r.ID] = r
	return r, nil
}

func (m *memRuns) UpdateStatus(ctx context.Context, r app.Run) error {
	stored := m.items[r.ID]
	stored.Status = r.Status
	m.items[r.ID] = stored
	return nil
}

type memStages struct {
	items map[uint64]app.Stage
	seq   uint64
}

func newMemStages() *memStages {
	return &memStages{items: make(map[uint64]app.Stage)}
}

func (m *memStages) FindByRun(ctx context.Context, runID uint64) ([]app.Stage, error) {
	res := make([]app.Stage, 0)
	for _, s := range m.items {
		if s.RunID == runID {
			res = append(res, s)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *memStages) Add(ctx context.Context, s app.Stage) (app.Stage, error) {
	m.seq++
	s.ID = m.seq
	m.items[s.ID] = s
	return s, nil
}

func (m *memStages) Update(ctx context.Context, s app.Stage) (app.Stage, error) {
	m.items[s.ID] = s
	return s, nil
}

// fakeVcs records the checkouts instead of touching git.
type fakeVcs struct {
	downloaded []app.Project
	checkouts  []app.Run
	err        error
}

func (f *fakeVcs) DownloadProject(ctx context.Context, p app.Project) error {
	f.downloaded = append(f.downloaded, p)
	return f.err
}

func (f *fakeVcs) Checkout(ctx context.Context, p app.Project, r app.Run) error {
	f.checkouts = append(f.checkouts, r)
	return f.err
}

// fixedCfg serves a static pipeline configuration.
type fixedCfg struct {
	cfg app.PipelineCfg
}

func (f fixedCfg) Read(ctx context.Context, p app.Project) (app.PipelineCfg, error) {
	return f.cfg, nil
}

// fakeRunner records the executed runs and returns the scripted error.
type fakeRunner struct {
	executed []app.Run
	err      error
}

func (f *fakeRunner) Execute(ctx context.Context, p app.Project, r app.Run) error {
	f.executed = append(f.executed, r)
	return f.err
}

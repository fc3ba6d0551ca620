package svc

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/beldeveloper/go-errors-context"
	"github.com/beldeveloper/pkg-conveyor/internal/app"
	"github.com/beldeveloper/pkg-conveyor/internal/app/errtype"
)

// NewProject creates a new instance of the project service.
func NewProject(vcsSvc app.VcsSvc, repo app.ProjectRepo) app.ProjectSvc {
	return Project{
		vcsSvc: vcsSvc,
		repo:   repo,
	}
}

// Project is a service that manages the registered projects.
type Project struct {
	vcsSvc app.VcsSvc
	repo   app.ProjectRepo
}

// List all projects.
func (s Project) List(ctx context.Context) ([]app.Project, error) {
	res, err := s.repo.FindAll(ctx)
	return res, errors.WrapContext(err, errors.Context{Path: "svc.Project.List.FindAll"})
}

// Add new project.
func (s Project) Add(ctx context.Context, f app.FormAddProject) (app.Project, error) {
	f, err := s.validateAddForm(f)
	if err != nil {
		return app.Project{}, errors.WrapContext(err, errors.Context{Path: "svc.Project.Add.validateAddForm"})
	}
	p, err := s.repo.Add(ctx, app.Project{
		Type:      f.Type,
		Alias:     f.Alias,
		Name:      f.Name,
		Status:    app.ProjectStatusPending,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return p, errors.WrapContext(err, errors.Context{Path: "svc.Project.Add.Add"})
	}
	log.Printf("The project #%d is added\n", p.ID)
	return p, nil
}

// DownloadJob looks for recently added projects and downloads them.
func (s Project) DownloadJob(ctx context.Context) error {
	p, err := s.repo.FindPending(ctx)
	if err != nil {
		if !errors.Is(err, errtype.ErrNotFound) {
			return errors.WrapContext(err, errors.Context{Path: "svc.Project.DownloadJob.FindPending"})
		}
		return nil
	}
	p.Status = app.ProjectStatusDownloading
	p, err = s.repo.Update(ctx, p)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Project.DownloadJob.preUpdate",
			Params: errors.Params{"project": p.ID, "status": p.Status},
		})
	}
	err = s.vcsSvc.DownloadProject(ctx, p)
	p.Status = app.ProjectStatusReady
	if err != nil {
		p.Status = app.ProjectStatusFailed
		if _, uErr := s.repo.Update(ctx, p); uErr != nil {
			log.Println(errors.WrapContext(uErr, errors.Context{
				Path:   "svc.Project.DownloadJob.failUpdate",
				Params: errors.Params{"project": p.ID},
			}))
		}
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Project.DownloadJob.DownloadProject",
			Params: errors.Params{"project": p.ID},
		})
	}
	p, err = s.repo.Update(ctx, p)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Project.DownloadJob.postUpdate",
			Params: errors.Params{"project": p.ID, "status": p.Status},
		})
	}
	log.Printf("The project #%d is downloaded\n", p.ID)
	return nil
}

func (s Project) validateAddForm(f app.FormAddProject) (app.FormAddProject, error) {
	if f.Type != app.ProjectTypeGit {
		return f, fmt.Errorf("%w: project type is invalid; allowed values: %s", errtype.ErrBadInput, app.ProjectTypeGit)
	}
	f.Alias = strings.TrimSpace(f.Alias)
	f.Name = strings.TrimSpace(f.Name)
	if f.Alias == "" {
		return f, fmt.Errorf("%w: project alias must not be empty", errtype.ErrBadInput)
	}
	if f.Name == "" {
		return f, fmt.Errorf("%w: project name must not be empty", errtype.ErrBadInput)
	}
	return f, nil
}

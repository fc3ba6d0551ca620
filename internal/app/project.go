package app

import (
	"context"
	"time"
)

const (
	// ProjectTypeGit defines the type for Git projects.
	ProjectTypeGit = "git"

	// ProjectStatusPending defines the status that means the project was recently added and awaiting downloading.
	ProjectStatusPending = "pending"
	// ProjectStatusDownloading defines the status that means the project sources are downloading.
	ProjectStatusDownloading = "downloading"
	// ProjectStatusReady defines the status that means the project is ready for pipeline runs.
	ProjectStatusReady = "ready"
	// ProjectStatusFailed defines the status that means the project was added with an error.
	ProjectStatusFailed = "failed"
)

// Project is a model that represents a registered project which pipeline runs are executed for.
type Project struct {
	ID        uint64    `json:"id"`
	Type      string    `json:"type"`
	Alias     string    `json:"alias"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FormAddProject is a new project form.
type FormAddProject struct {
	Type  string `json:"type"`
	Alias string `json:"alias"`
	Name  string `json:"name"`
}

// ProjectSvc describes the project service.
type ProjectSvc interface {
	List(context.Context) ([]Project, error)
	Add(context.Context, FormAddProject) (Project, error)
	DownloadJob(ctx context.Context) error
}

// ProjectRepo describes interactions with the project DB.
type ProjectRepo interface {
	FindAll(ctx context.Context) ([]Project, error)
	FindByID(ctx context.Context, id uint64) (Project, error)
	FindByAlias(ctx context.Context, alias string) (Project, error)
	FindPending(ctx context.Context) (Project, error)
	Add(ctx context.Context, p Project) (Project, error)
	Update(ctx context.Context, p Project) (Project, error)
}

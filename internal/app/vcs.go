package app

import "context"

// WorkspaceDir is a data type for storing the projects' checkout directory, used for DI.
type WorkspaceDir string

// VcsSvc describes the version control service.
type VcsSvc interface {
	DownloadProject(ctx context.Context, p Project) error
	Checkout(ctx context.Context, p Project, r Run) error
}

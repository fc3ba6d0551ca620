package svc

import (
	"context"
	"log"

	"github.com/beldeveloper/go-errors-context"
	"github.com/beldeveloper/pkg-conveyor/internal/app"
	"github.com/beldeveloper/pkg-conveyor/pkg/os"
)

// NewGit creates a new instance of the git service.
func NewGit(workspaceDir app.WorkspaceDir, execSvc app.ExecSvc) app.VcsSvc {
	return Git{
		workspaceDir: string(workspaceDir),
		execSvc:      execSvc,
	}
}

// Git is a service that manages VCS checkouts.
type Git struct {
	workspaceDir string
	execSvc      app.ExecSvc
}

// DownloadProject clones the project repository to the workspace directory.
func (s Git) DownloadProject(ctx context.Context, p app.Project) error {
	_, err := s.execSvc.RunCmd(ctx, os.Cmd{
		Name: "git",
		Args: []string{"clone", p.Name, p.Alias},
		Dir:  s.workspaceDir,
		Log:  true,
	})
	return errors.WrapContext(err, errors.Context{
		Path:   "svc.Git.DownloadProject",
		Params: errors.Params{"project": p.ID},
	})
}

// Checkout fetches the remote updates and puts the working tree at the run commit.
func (s Git) Checkout(ctx context.Context, p app.Project, r app.Run) error {
	dir := s.workspaceDir + "/" + p.Alias
	_, err := s.execSvc.RunCmd(ctx, os.Cmd{
		Name: "git",
		Args: []string{"fetch", "--tags", "--force"},
		Dir:  dir,
		Log:  true,
	})
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Git.Checkout.fetch",
			Params: errors.Params{"project": p.ID},
		})
	}
	_, err = s.execSvc.RunCmd(ctx, os.Cmd{
		Name: "git",
		Args: []string{"reset", "--hard"},
		Dir:  dir,
		Log:  true,
	})
	if err != nil {
		log.Println(errors.WrapContext(err, errors.Context{
			Path:   "svc.Git.Checkout.reset",
			Params: errors.Params{"project": p.ID},
		}))
	}
	_, err = s.execSvc.RunCmd(ctx, os.Cmd{
		Name: "git",
		Args: []string{"checkout", r.Hash},
		Dir:  dir,
		Log:  true,
	})
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Git.Checkout.checkout",
			Params: errors.Params{"project": p.ID, "run": r.ID, "hash": r.Hash},
		})
	}
	return nil
}

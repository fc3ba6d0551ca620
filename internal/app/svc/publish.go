package svc

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/beldeveloper/go-errors-context"
	"github.com/beldeveloper/pkg-conveyor/internal/app"
	"github.com/beldeveloper/pkg-conveyor/internal/app/errtype"
	"github.com/beldeveloper/pkg-conveyor/pkg/os"
)

// NewPublisher creates a new instance of the publisher service.
func NewPublisher(workspaceDir app.WorkspaceDir, creds app.RegistryCredentials, execSvc app.ExecSvc) app.PublisherSvc {
	return Publisher{
		workspaceDir: string(workspaceDir),
		creds:        creds,
		execSvc:      execSvc,
	}
}

// Publisher is a service that uploads the produced artifacts to the package registry.
// The credentials are handed to the upload tool via its environment and never via argv.
type Publisher struct {
	workspaceDir string
	creds        app.RegistryCredentials
	execSvc      app.ExecSvc
}

// Publish uploads every artifact from the configured directory.
// An artifact version that already exists at the registry is skipped rather than treated as a failure.
func (s Publisher) Publish(ctx context.Context, p app.Project, cfg app.PublishCfg) (string, error) {
	dir := s.workspaceDir + "/" + p.Alias
	artifacts, err := os.ListFiles(dir + "/" + cfg.Dir)
	if err != nil {
		return "", errors.WrapContext(err, errors.Context{
			Path:   "svc.Publisher.Publish.ListFiles",
			Params: errors.Params{"project": p.ID, "dir": cfg.Dir},
		})
	}
	if len(artifacts) == 0 {
		err = fmt.Errorf("%w: no artifacts in %s", errtype.ErrBadInput, cfg.Dir)
		return "", errors.WrapContext(err, errors.Context{
			Path:   "svc.Publisher.Publish.artifacts",
			Params: errors.Params{"project": p.ID, "dir": cfg.Dir},
		})
	}
	args := []string{"upload", "--skip-existing", "--non-interactive"}
	if cfg.Repository != "" {
		args = append(args, "--repository-url", cfg.Repository)
	}
	args = append(args, artifacts...)
	out, err := s.execSvc.RunCmd(ctx, os.Cmd{
		Name: cfg.Tool,
		Args: args,
		Env: []string{
			"TWINE_USERNAME=" + s.creds.Username,
			"TWINE_PASSWORD=" + s.creds.Password,
		},
		Dir: dir,
		Log: true,
	})
	if err != nil {
		if alreadyExists(out, err) {
			log.Printf("The project #%d artifacts already exist at the registry; skipping\n", p.ID)
			return out, nil
		}
		return out, errors.WrapContext(err, errors.Context{
			Path:   "svc.Publisher.Publish.RunCmd",
			Params: errors.Params{"project": p.ID, "tool": cfg.Tool},
		})
	}
	return out, nil
}

// alreadyExists reports whether the upload tool rejected the artifacts only because they are
// already present at the registry.
func alreadyExists(out string, err error) bool {
	combined := strings.ToLower(out + " " + err.Error())
	return strings.Contains(combined, "already exists")
}

package svc

import (
	"context"
	"fmt"
	"strings"

	"github.com/beldeveloper/go-errors-context"
	"github.com/beldeveloper/pkg-conveyor/internal/app"
	"github.com/beldeveloper/pkg-conveyor/pkg/os"
)

// NewProvision creates a new instance of the provision service.
func NewProvision(workspaceDir app.WorkspaceDir, execSvc app.ExecSvc) app.ProvisionSvc {
	return Provision{
		workspaceDir: string(workspaceDir),
		execSvc:      execSvc,
	}
}

// Provision is a service that guarantees the requested runtime is available before the build starts.
type Provision struct {
	workspaceDir string
	execSvc      app.ExecSvc
}

// Ensure runs the runtime executable and verifies it matches the pinned version.
func (s Provision) Ensure(ctx context.Context, p app.Project, cfg app.RuntimeCfg) (string, error) {
	out, err := s.execSvc.RunCmd(ctx, os.Cmd{
		Name: cfg.Command,
		Args: []string{"--version"},
		Dir:  s.workspaceDir + "/" + p.Alias,
		Log:  true,
	})
	if err != nil {
		return out, errors.WrapContext(err, errors.Context{
			Path:   "svc.Provision.Ensure.RunCmd",
			Params: errors.Params{"project": p.ID, "runtime": cfg.Command},
		})
	}
	if cfg.Version != "" && !strings.Contains(out, cfg.Version) {
		err = fmt.Errorf("runtime version mismatch: want %s, have %s", cfg.Version, strings.TrimSpace(out))
		return out, errors.WrapContext(err, errors.Context{
			Path:   "svc.Provision.Ensure.version",
			Params: errors.Params{"project": p.ID, "runtime": cfg.Command},
		})
	}
	return out, nil
}

package svc

import (
	"context"

	"github.com/beldeveloper/pkg-conveyor/internal/app"
	"github.com/beldeveloper/pkg-conveyor/pkg/os"
)

// NewExec creates a new instance of the exec service.
func NewExec() app.ExecSvc {
	return Exec{}
}

// Exec is a service that runs the external executables.
type Exec struct {
}

// RunCmd executes the system command and returns the system output.
func (s Exec) RunCmd(ctx context.Context, cmd os.Cmd) (string, error) {
	return os.Exec(ctx, cmd)
}

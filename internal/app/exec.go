package app

import (
	"context"

	"github.com/beldeveloper/pkg-conveyor/pkg/os"
)

// ExecSvc describes the service that is in charge of running the external executables.
type ExecSvc interface {
	RunCmd(ctx context.Context, cmd os.Cmd) (string, error)
}

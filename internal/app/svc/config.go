package svc

import (
	"context"
	"fmt"
	stdos "os"

	"github.com/beldeveloper/go-errors-context"
	"github.com/beldeveloper/pkg-conveyor/internal/app"
	"github.com/beldeveloper/pkg-conveyor/internal/app/marshaller"
)

// NewConfig creates a new instance of the pipeline configuration service.
func NewConfig(workspaceDir app.WorkspaceDir, cfgMarshaller marshaller.Service) app.CfgSvc {
	return Config{
		workspaceDir:  string(workspaceDir),
		cfgMarshaller: cfgMarshaller,
	}
}

// Config is a service that reads the pipeline configuration from the project checkout.
type Config struct {
	workspaceDir  string
	cfgMarshaller marshaller.Service
}

// Read the configuration file from the checkout; the defaults apply when the file is absent.
func (s Config) Read(ctx context.Context, p app.Project) (app.PipelineCfg, error) {
	cfg := app.DefaultPipelineCfg()
	data, err := stdos.ReadFile(fmt.Sprintf("%s/%s/%s", s.workspaceDir, p.Alias, app.CfgFileName))
	if err != nil {
		if stdos.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.WrapContext(err, errors.Context{
			Path:   "svc.Config.Read.ReadFile",
			Params: errors.Params{"project": p.ID},
		})
	}
	err = s.cfgMarshaller.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, errors.WrapContext(err, errors.Context{
			Path:   "svc.Config.Read.Unmarshal",
			Params: errors.Params{"project": p.ID},
		})
	}
	return s.withDefaults(cfg), nil
}

// withDefaults fills the fields the project configuration left empty.
func (s Config) withDefaults(cfg app.PipelineCfg) app.PipelineCfg {
	def := app.DefaultPipelineCfg()
	if cfg.Runtime.Command == "" {
		cfg.Runtime.Command = def.Runtime.Command
	}
	if cfg.Publish.Tool == "" {
		cfg.Publish.Tool = def.Publish.Tool
	}
	if cfg.Publish.Dir == "" {
		cfg.Publish.Dir = def.Publish.Dir
	}
	return cfg
}

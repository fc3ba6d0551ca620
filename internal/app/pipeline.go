package app

import "context"

// CfgFileName defines the name of the pipeline configuration file in the project checkout.
const CfgFileName = "conveyor.yml"

// PipelineCmd is a model of a single configured pipeline command.
type PipelineCmd struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args"`
}

// RuntimeCfg describes the runtime requested by the project.
type RuntimeCfg struct {
	Command string `yaml:"command"`
	Version string `yaml:"version"`
	Arch    string `yaml:"arch"`
}

// PublishCfg describes how the produced artifacts are uploaded.
type PublishCfg struct {
	Tool       string `yaml:"tool"`
	Dir        string `yaml:"dir"`
	Repository string `yaml:"repository"`
}

// PipelineCfg is a model that represents the project pipeline configuration.
type PipelineCfg struct {
	Runtime RuntimeCfg    `yaml:"runtime"`
	Install []PipelineCmd `yaml:"install"`
	Build   []PipelineCmd `yaml:"build"`
	Test    []PipelineCmd `yaml:"test"`
	Publish PublishCfg    `yaml:"publish"`
}

// DefaultPipelineCfg returns the configuration used when the project ships no conveyor.yml.
// The defaults reproduce the conventional Python packaging flow.
func DefaultPipelineCfg() PipelineCfg {
	return PipelineCfg{
		Runtime: RuntimeCfg{Command: "python3"},
		Install: []PipelineCmd{
			{Name: "pip", Args: []string{"install", "pipenv"}},
			{Name: "pipenv", Args: []string{"install", "--dev"}},
		},
		Build: []PipelineCmd{
			{Name: "python3", Args: []string{"setup.py", "sdist"}},
		},
		Test: []PipelineCmd{
			{Name: "pipenv", Args: []string{"run", "pytest"}},
		},
		Publish: PublishCfg{Tool: "twine", Dir: "dist"},
	}
}

// CfgSvc describes the service that reads the pipeline configuration from the project checkout.
type CfgSvc interface {
	Read(ctx context.Context, p Project) (PipelineCfg, error)
}

// ProvisionSvc describes the service that guarantees the requested runtime availability.
type ProvisionSvc interface {
	Ensure(ctx context.Context, p Project, cfg RuntimeCfg) (string, error)
}

// PublisherSvc describes the service that uploads the produced artifacts to the registry.
type PublisherSvc interface {
	Publish(ctx context.Context, p Project, cfg PublishCfg) (string, error)
}

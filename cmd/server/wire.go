//go:build wireinject
// +build wireinject

package main

import (
	"github.com/beldeveloper/pkg-conveyor/internal/app/http"
	"github.com/beldeveloper/pkg-conveyor/internal/app/marshaller"
	"github.com/beldeveloper/pkg-conveyor/internal/app/postgres"
	"github.com/beldeveloper/pkg-conveyor/internal/app/svc"
	"github.com/google/wire"
)

func initializeContainer() (container, error) {
	wire.Build(
		postgres.NewProject,
		postgres.NewRun,
		postgres.NewStage,
		marshaller.NewYaml,
		svc.NewExec,
		svc.NewGit,
		svc.NewConfig,
		svc.NewProvision,
		svc.NewPublisher,
		svc.NewRunner,
		svc.NewProject,
		svc.NewRun,
		http.NewHandler,
		http.NewRouter,
		newContainer,
		newWatcher,
		newPostgresConn,
		workspaceDir,
		newAccessKey,
		newRegistryCredentials,
	)
	return container{}, nil
}

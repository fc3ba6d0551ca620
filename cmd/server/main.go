package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/beldeveloper/pkg-conveyor/internal/app"
	"github.com/beldeveloper/pkg-conveyor/internal/app/svc"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/julienschmidt/httprouter"
)

func main() {
	// get watcher and router using DI wire
	c, err := initializeContainer()
	if err != nil {
		log.Fatalf("main: %v\n", err)
	}
	// run watcher that maintains the project checkouts and executes the pipeline runs in background
	go c.watcher.Watch()
	// run http server
	runHttpServer(c.router)
}

type container struct {
	watcher svc.Watcher
	router  *httprouter.Router
}

func newContainer(watcher svc.Watcher, router *httprouter.Router) container {
	return container{
		watcher: watcher,
		router:  router,
	}
}

func workspaceDir() app.WorkspaceDir {
	return app.WorkspaceDir(strings.TrimRight(os.Getenv("CONVEYOR_WORKSPACE_DIR"), "/"))
}

func newAccessKey() app.ApiAccessKey {
	return app.ApiAccessKey(os.Getenv("CONVEYOR_ACCESS_KEY"))
}

// newRegistryCredentials reads the credential pair supplied by the external secret store.
// The values stay in memory only and are scoped to the publisher.
func newRegistryCredentials() app.RegistryCredentials {
	return app.RegistryCredentials{
		Username: os.Getenv("CONVEYOR_REGISTRY_USER"),
		Password: os.Getenv("CONVEYOR_REGISTRY_PASSWORD"),
	}
}

func newWatcher(project app.ProjectSvc, run app.RunSvc) svc.Watcher {
	return svc.NewWatcher([]app.WatcherJob{
		{
			Name: "downloadProject",
			Do:   project.DownloadJob,
		},
		{
			Name: "runPipeline",
			Do:   run.PipelineJob,
		},
	})
}

func newPostgresConn() *pgxpool.Pool {
	pgs := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("CONVEYOR_DB_HOST"),
		os.Getenv("CONVEYOR_DB_PORT"),
		os.Getenv("CONVEYOR_DB_USER"),
		os.Getenv("CONVEYOR_DB_PASSWORD"),
		os.Getenv("CONVEYOR_DB_NAME"),
	)
	conn, err := pgxpool.Connect(context.Background(), pgs)
	if err != nil {
		log.Fatalf("main.newPostgresConn: %v\n", err)
	}
	return conn
}

func runHttpServer(router *httprouter.Router) {
	httpPort := os.Getenv("CONVEYOR_HTTP_PORT")
	crtFile := os.Getenv("CONVEYOR_HTTPS_CRT")
	keyFile := os.Getenv("CONVEYOR_HTTPS_KEY")
	srv := &http.Server{
		Addr:    ":" + httpPort,
		Handler: router,
	}
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		var err error
		if len(crtFile) > 0 {
			err = srv.ListenAndServeTLS(crtFile, keyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("main.runHttpServer: serve http: %v; port = %s\n", err, httpPort)
		}
	}()
	log.Printf("Listening :%s for HTTP connections...\n", httpPort)
	<-done
	log.Print("Stopping the application...\n")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("main.runHttpServer: server shutdown: %v\n", err)
	}
}

// Package server initializes and runs the mirror service: it picks the
// storage backend, wires the document service to the HTTP API and handles
// graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hvlab/settlement/internal/logging"
	"github.com/hvlab/settlement/internal/server/config"
	"github.com/hvlab/settlement/internal/server/documents"
	"github.com/hvlab/settlement/internal/server/httpapi"
	"github.com/hvlab/settlement/internal/server/shared/db"
)

type App struct {
	config *config.Config
	logger logging.Logger
	docs   *documents.Service
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewDefault()

	var m db.RepositoryManager
	if c.DatabaseDSN == "" {
		logger.Warn(context.Background(), "no database DSN configured, documents are kept in memory")
		m = db.NewInMemoryRepositoryManager()
	} else {
		var err error
		m, err = db.NewPostgresRepositoryManager(c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
	}

	docs := documents.NewService(m.Documents())

	return &App{config: c, logger: logger, docs: docs}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config, app.docs, app.logger)

	srv := &http.Server{Addr: app.config.Addr, Handler: s.Router()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "listening", "addr", app.config.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}

package graft

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/graft-dev/graft/internal/config"
	"github.com/graft-dev/graft/internal/errors"
	"github.com/graft-dev/graft/pkg/server"
	"github.com/graft-dev/graft/pkg/session"
)

// App wires configuration, logging, session persistence, and the
// server behind one constructor. It is an http.Handler, so it mounts
// inside a larger mux as easily as it runs standalone:
//
//	app := graft.New(Counter, graft.Config{Name: "counter"})
//	http.Handle("/", app)
//
// or
//
//	graft.New(Counter, graft.Config{Name: "counter"}).Run()
type App struct {
	config  Config
	file    *config.Config
	logger  *slog.Logger
	store   session.Store
	server  *server.Server
	handler http.Handler
	err     error
}

// New builds the application for the given root producer. Construction
// problems (unreadable config, invalid values, store backends that
// fail to open) are deferred to Run and Err rather than returned here,
// keeping one-line startup possible.
func New(root RenderFunc, cfg Config) *App {
	a := &App{config: cfg}

	file, err := loadFileConfig(cfg)
	if err != nil {
		a.err = err
		return a
	}
	if cfg.Addr != "" {
		file.Server.Addr = cfg.Addr
	}
	if err := file.Validate(); err != nil {
		a.err = err
		return a
	}
	a.file = file

	a.logger = cfg.Logger
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: file.SlogLevel(),
		}))
	}

	a.store = cfg.Store
	if a.store == nil {
		store, err := openStore(file)
		if err != nil {
			a.err = err
			return a
		}
		a.store = store
	}

	name := cfg.Name
	if name == "" {
		name = "root"
	}

	a.server = server.New(buildServerConfig(file, a.logger, a.store))
	a.server.SetRoot(name, root)
	a.server.SetPage(cfg.Page)
	a.handler = a.server.Handler()
	return a
}

func loadFileConfig(cfg Config) (*config.Config, error) {
	if cfg.ConfigFile != "" {
		return config.LoadFile(cfg.ConfigFile)
	}
	return config.Load(".")
}

// Err returns the construction error, if any.
func (a *App) Err() error {
	return a.err
}

// Server returns the underlying server for advanced use.
func (a *App) Server() *server.Server {
	return a.server
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if a.err != nil {
		http.Error(w, "application failed to start", http.StatusInternalServerError)
		return
	}
	a.handler.ServeHTTP(w, r)
}

// Run starts the server and blocks until SIGINT/SIGTERM or a listener
// error, then shuts down gracefully.
func (a *App) Run() error {
	if a.err != nil {
		return a.err
	}
	if err := a.server.Run(); err != nil {
		return errors.FromError(err, "E300")
	}
	return nil
}

// Shutdown stops the server, persists every session, and closes the
// store. Safe to call when construction failed.
func (a *App) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

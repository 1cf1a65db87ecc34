package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/conduit/internal/conduit"
	"github.com/specialistvlad/conduit/internal/ctxlog"
	"github.com/specialistvlad/conduit/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	registry   *registry.Registry
	config     *Config
	graph      *conduit.Conduit
	ctx        context.Context
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It loads the graph
// file and registers the given modules, or the core modules when none are
// given. Results go to outW and logs go to logW.
//
// Registering two modules with the same task name panics.
func NewApp(ctx context.Context, outW, logW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules(outW)
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "actions", reg.Names())

	graph, err := loadGraph(ctx, cfg.GraphPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfg,
		graph:    graph,
		ctx:      ctx,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Graph returns the loaded graph without behavior.
func (a *App) Graph() *conduit.Conduit {
	return a.graph
}

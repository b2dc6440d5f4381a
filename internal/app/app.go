package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/vk/gantrain/internal/config"
	"github.com/vk/gantrain/internal/ctxlog"
	"github.com/vk/gantrain/internal/override"
	"github.com/vk/gantrain/internal/registry"
	"github.com/vk/gantrain/internal/trainer"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx       context.Context
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	registry  *registry.Registry
	loader    config.Loader
	converter config.Converter
	overrides []override.Spec

	metrics    *trainer.Metrics
	promReg    *prometheus.Registry
	httpServer *http.Server

	now func() time.Time
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger, registry and
// metrics registry. Without modules the core modules are registered.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, converter config.Converter, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.New(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "components", reg.Summary())

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := trainer.NewMetrics()
	if err := metrics.Register(promReg); err != nil {
		// Fresh registry; a collision is a programmer error.
		panic(err)
	}

	return &App{
		ctx:       ctxlog.WithLogger(context.Background(), logger),
		outW:      outW,
		logger:    logger,
		config:    cfg,
		registry:  reg,
		loader:    loader,
		converter: converter,
		overrides: DefaultOverrides,
		metrics:   metrics,
		promReg:   promReg,
		now:       time.Now,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Metrics returns the training collectors.
func (a *App) Metrics() *trainer.Metrics {
	return a.metrics
}

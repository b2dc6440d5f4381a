package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vk/gantrain/internal/assembler"
	"github.com/vk/gantrain/internal/ctxlog"
	"github.com/vk/gantrain/internal/override"
	"github.com/vk/gantrain/internal/seed"
	"github.com/vk/gantrain/internal/trainer"
)

// Run loads, overrides and assembles the configured session and trains it.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	seed.Init(a.config.Seed)
	a.logger.Debug("Random seed fixed.", "seed", a.config.Seed)

	path, err := a.configPath()
	if err != nil {
		return err
	}
	doc, err := a.loader.Load(ctx, path)
	if err != nil {
		return err
	}
	a.logger.Info("Configuration loaded.", "path", path, "sections", doc.Sections())

	doc, err = override.Apply(ctx, doc, a.overrides, a.config.Overrides)
	if err != nil {
		return err
	}
	// Names are checked before the run directories exist.
	if err := assembler.Preflight(doc, a.registry); err != nil {
		return err
	}

	run, err := a.prepareRun(ctx, doc)
	if err != nil {
		return err
	}
	logFile, err := os.OpenFile(filepath.Join(run.LogDir, TrainLog), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open train log: %w", err)
	}
	defer func() { err = errors.Join(err, logFile.Close()) }()

	logger := newLogger(a.config.LogLevel, a.config.LogFormat, io.MultiWriter(a.outW, logFile)).
		With("run", run.Name, "run_id", run.RunID)
	ctx = ctxlog.WithLogger(ctx, logger)

	a.healthCheckServer()
	defer func() { err = errors.Join(err, a.closeHealthCheckServer()) }()

	sess, err := assembler.Assemble(ctx, doc, a.registry, a.converter, run)
	if err != nil {
		return err
	}
	tr, err := trainer.New(ctx, sess, a.converter, a.metrics)
	if err != nil {
		return err
	}

	logger.Info("🚀 Training run starting.", "models", run.ModelDir)
	if err := tr.Train(ctx); err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	logger.Info("🏁 Training run finished.")
	return nil
}

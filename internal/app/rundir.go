package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/gantrain/internal/config"
	"github.com/vk/gantrain/internal/ctxlog"
	"github.com/vk/gantrain/internal/fsutil"
	"github.com/vk/gantrain/internal/session"
	"github.com/vk/gantrain/internal/trainer"
)

// File names inside the run directories.
const (
	ConfigSnapshot = "config.json"
	TrainLog       = "train.log"
	runIDLayout    = "0102_150405"
)

// configPath picks the document to load. A resumed run without an explicit
// document reuses the snapshot stored next to its checkpoint.
func (a *App) configPath() (string, error) {
	if a.config.ConfigPath != "" {
		return a.config.ConfigPath, nil
	}
	if a.config.Resume == "" {
		return DefaultConfigPath, nil
	}
	ck, err := trainer.ResolveCheckpoint(a.config.Resume)
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(ck), ConfigSnapshot), nil
}

// prepareRun creates the model and log directories and writes the final
// document into the model directory.
func (a *App) prepareRun(ctx context.Context, doc *config.Document) (*session.RunConfig, error) {
	runID := a.config.RunID
	if runID == "" {
		runID = a.now().Format(runIDLayout)
	}
	name := doc.Name()
	run := &session.RunConfig{
		Name:     name,
		RunID:    runID,
		ModelDir: filepath.Join(a.config.SaveDir, "models", name, runID),
		LogDir:   filepath.Join(a.config.SaveDir, "log", name, runID),
		Resume:   a.config.Resume,
		Device:   a.config.Device,
		Document: doc,
	}
	if err := fsutil.EnsureDirs(run.ModelDir, run.LogDir); err != nil {
		return nil, err
	}

	raw, err := doc.JSON()
	if err != nil {
		return nil, fmt.Errorf("render configuration: %w", err)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("render configuration: %w", err)
	}
	pretty.WriteByte('\n')
	snapshot := filepath.Join(run.ModelDir, ConfigSnapshot)
	if err := os.WriteFile(snapshot, pretty.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write configuration snapshot: %w", err)
	}

	ctxlog.FromContext(ctx).Debug("Run directories ready.", "models", run.ModelDir, "log", run.LogDir, "snapshot", snapshot)
	return run, nil
}

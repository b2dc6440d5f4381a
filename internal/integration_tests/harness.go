// Package integration_tests holds the harness shared by the end-to-end test
// packages below it. Every scenario drives the real CLI parser and App.
package integration_tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/gantrain/internal/app"
	"github.com/vk/gantrain/internal/cli"
	"github.com/vk/gantrain/internal/hcl_adapter"
	"github.com/vk/gantrain/internal/registry"
	"github.com/vk/gantrain/internal/testutil"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	// Root is the temporary directory the files were written to; relative
	// paths in args resolve against it.
	Root string
	App  *app.App
}

// ModelDir is the run's model directory under Root/saved.
func (r *HarnessResult) ModelDir(name, runID string) string {
	return filepath.Join(r.Root, "saved", "models", name, runID)
}

// RunIntegrationTest writes files into a temporary directory, parses args
// as the binary would and runs the app from that directory. The save
// directory defaults to Root/saved. Without modules the core modules are
// used.
func RunIntegrationTest(t *testing.T, files map[string]string, args []string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	root := testutil.WriteFiles(t, files)
	return RunInDir(t, root, args, modules...)
}

// RunInDir runs against an existing directory, e.g. a second run that
// resumes the first.
func RunInDir(t *testing.T, root string, args []string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	full := append([]string{"--save-dir", filepath.Join(root, "saved"), "--log-level", "debug"}, args...)
	cfg, exit, err := cli.Parse(full, &testutil.SafeBuffer{})
	require.NoError(t, err)
	require.False(t, exit)
	if cfg.ConfigPath != "" && !filepath.IsAbs(cfg.ConfigPath) {
		cfg.ConfigPath = filepath.Join(root, cfg.ConfigPath)
	}
	if cfg.Resume != "" && !filepath.IsAbs(cfg.Resume) {
		cfg.Resume = filepath.Join(root, cfg.Resume)
	}

	logBuffer := &testutil.SafeBuffer{}
	a := app.NewApp(logBuffer, cfg, hcl_adapter.NewLoader(), hcl_adapter.NewConverter(), modules...)
	runErr := a.Run(context.Background())

	if os.Getenv("GANTRAIN_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}
	return &HarnessResult{LogOutput: logBuffer.String(), Err: runErr, Root: root, App: a}
}

// ToyHCL is a small, fast configuration used across scenarios.
const ToyHCL = `
name = "Toy"

data_loader = {
  type = "GaussianDataLoader"
  args = { batch_size = 8, num_batches = 2, mean = 4, std = 1 }
}
test_data_loader = {
  type = "GaussianDataLoader"
  args = { batch_size = 8, num_batches = 1, mean = 4, std = 1, seed_offset = 1 }
}
arch         = { type = "LinearGAN", args = {} }
loss         = "bce_loss"
metrics      = ["accuracy", "f1"]
optimizer    = { type = "SGD", args = { lr = 0.01 } }
lr_scheduler = { type = "StepLR", args = { step_size = 1, gamma = 0.5 } }
trainer      = { epochs = 2, save_period = 1 }
`

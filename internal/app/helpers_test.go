package app

import (
	"os"
	"testing"
	"time"

	"github.com/vk/gantrain/internal/hcl_adapter"
	"github.com/vk/gantrain/internal/registry"
	"github.com/vk/gantrain/internal/testutil"
)

const toyConfig = `{
  "name": "Toy_GAN",
  "data_loader": {"type": "GaussianDataLoader", "args": {"batch_size": 8, "num_batches": 2}},
  "test_data_loader": {"type": "GaussianDataLoader", "args": {"batch_size": 8, "num_batches": 1, "seed_offset": 1}},
  "arch": {"type": "LinearGAN", "args": {}},
  "loss": "bce_loss",
  "metrics": ["accuracy", "f1"],
  "optimizer": {"type": "SGD", "args": {"lr": 0.01, "momentum": 0.5}},
  "lr_scheduler": {"type": "StepLR", "args": {"step_size": 1, "gamma": 0.9}},
  "trainer": {"epochs": 2, "save_period": 1, "monitor": "min val_loss"}
}`

// setupAppTest creates an app with a debug logger writing to a buffer.
func setupAppTest(t *testing.T, cfg Config, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.SaveDir == "" {
		cfg.SaveDir = t.TempDir()
	}

	logBuffer := &testutil.SafeBuffer{}
	a := NewApp(logBuffer, &cfg, hcl_adapter.NewLoader(), hcl_adapter.NewConverter(), modules...)
	a.now = func() time.Time { return time.Date(2026, 3, 7, 14, 5, 9, 0, time.UTC) }

	t.Cleanup(func() {
		if os.Getenv("GANTRAIN_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})
	return a, logBuffer
}

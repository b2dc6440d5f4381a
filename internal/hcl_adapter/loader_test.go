package hcl_adapter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/gantrain/internal/config"
	"github.com/vk/gantrain/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

const validJSON = `{
  "name": "Mnist_GAN",
  "data_loader": {"type": "GaussianDataLoader", "args": {"batch_size": 32, "shuffle": true}},
  "test_data_loader": {"type": "GaussianDataLoader", "args": {"batch_size": 16}},
  "arch": {"type": "LinearGAN", "args": {}},
  "loss": "bce_loss",
  "metrics": ["accuracy", "f1"],
  "optimizer": {"type": "Adam", "args": {"lr": 0.001, "betas": [0.5, 0.999]}},
  "lr_scheduler": {"type": "StepLR", "args": {"step_size": 50, "gamma": 0.1}}
}`

const validHCL = `
name = "Mnist_GAN"
data_loader = {
  type = "GaussianDataLoader"
  args = { batch_size = 32, shuffle = true }
}
test_data_loader = {
  type = "GaussianDataLoader"
  args = { batch_size = 16 }
}
arch = { type = "LinearGAN" }
loss = "bce_loss"
metrics = ["accuracy", "f1"]
optimizer = {
  type = "Adam"
  args = { lr = 0.0005 * 2, betas = [0.5, 0.999] }
}
lr_scheduler = {
  type = "StepLR"
  args = { step_size = max(10, 50), gamma = 0.1 }
}
`

const validYAML = `
name: Mnist_GAN
data_loader:
  type: GaussianDataLoader
  args:
    batch_size: 32
    shuffle: true
test_data_loader:
  type: GaussianDataLoader
  args:
    batch_size: 16
arch:
  type: LinearGAN
loss: bce_loss
metrics: [accuracy, f1]
optimizer:
  type: Adam
  args:
    lr: 0.001
    betas: [0.5, 0.999]
lr_scheduler:
  type: StepLR
  args:
    step_size: 50
    gamma: 0.1
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoader_Load_AllFormats(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		file    string
		content string
	}{
		{name: "json", file: "config.json", content: validJSON},
		{name: "hcl", file: "config.hcl", content: validHCL},
		{name: "yaml", file: "config.yaml", content: validYAML},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			path := writeFile(t, tc.file, tc.content)
			ctx := ctxlog.Discard(context.Background())

			// --- Act ---
			doc, err := NewLoader().Load(ctx, path)

			// --- Assert ---
			require.NoError(t, err)
			require.Equal(t, path, doc.Source())
			require.Equal(t, "Mnist_GAN", doc.Name())

			opt, err := doc.Section(config.SectionOptimizer)
			require.NoError(t, err)
			require.Equal(t, "Adam", opt.Type)
			require.True(t, opt.Args["lr"].Equals(cty.NumberFloatVal(0.001)).True(), "lr was %#v", opt.Args["lr"])

			metrics, err := doc.Strings(config.SectionMetrics)
			require.NoError(t, err)
			require.Equal(t, []string{"accuracy", "f1"}, metrics)

			sched, err := doc.Section(config.SectionLRScheduler)
			require.NoError(t, err)
			require.True(t, sched.Args["step_size"].Equals(cty.NumberIntVal(50)).True())
		})
	}
}

func TestLoader_Load_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		file        string
		content     string
		wantSection string
	}{
		{
			name:    "hcl syntax error",
			file:    "broken.hcl",
			content: "arch = { type = \"LinearGAN\"\n",
		},
		{
			name:    "json syntax error",
			file:    "broken.json",
			content: `{"arch": `,
		},
		{
			name:    "yaml syntax error",
			file:    "broken.yaml",
			content: "arch: [unclosed\n",
		},
		{
			name:    "unsupported extension",
			file:    "config.toml",
			content: "arch = 1",
		},
		{
			name:        "missing loss",
			file:        "noloss.json",
			content:     `{"data_loader": {"type": "A"}, "test_data_loader": {"type": "A"}, "arch": {"type": "M"}, "metrics": [], "optimizer": {"type": "SGD"}, "lr_scheduler": {"type": "StepLR"}}`,
			wantSection: "loss",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, tc.file, tc.content)

			_, err := NewLoader().Load(ctxlog.Discard(context.Background()), path)

			var malformed *config.MalformedConfigError
			require.True(t, errors.As(err, &malformed), "expected MalformedConfigError, got %v", err)
			require.Equal(t, path, malformed.Source)
			if tc.wantSection != "" {
				require.Equal(t, tc.wantSection, malformed.Section)
			}
		})
	}
}

func TestLoader_Load_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load(ctxlog.Discard(context.Background()), filepath.Join(t.TempDir(), "absent.json"))

	require.ErrorIs(t, err, os.ErrNotExist)
}

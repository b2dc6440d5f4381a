package trainer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gantrain/internal/assembler"
	"github.com/vk/gantrain/internal/config"
	"github.com/vk/gantrain/internal/ctxlog"
	"github.com/vk/gantrain/internal/hcl_adapter"
	"github.com/vk/gantrain/internal/registry"
	"github.com/vk/gantrain/internal/seed"
	"github.com/vk/gantrain/internal/session"
	"github.com/vk/gantrain/internal/testutil"
	"github.com/vk/gantrain/modules/arch"
	"github.com/vk/gantrain/modules/data"
	"github.com/vk/gantrain/modules/loss"
	"github.com/vk/gantrain/modules/metric"
	"github.com/vk/gantrain/modules/optim"
	"github.com/zclconf/go-cty/cty"
)

const trainBatches = 4

func ganRoot(trainer map[string]cty.Value) cty.Value {
	root := testutil.StubRoot(map[string]cty.Value{
		"data_loader": testutil.Section("GaussianDataLoader", map[string]cty.Value{
			"batch_size": cty.NumberIntVal(8), "num_batches": cty.NumberIntVal(trainBatches),
		}),
		"test_data_loader": testutil.Section("GaussianDataLoader", map[string]cty.Value{
			"batch_size": cty.NumberIntVal(8), "num_batches": cty.NumberIntVal(2), "seed_offset": cty.NumberIntVal(1),
		}),
		"arch":    testutil.Section("LinearGAN", nil),
		"loss":    cty.StringVal("bce_loss"),
		"metrics": cty.TupleVal([]cty.Value{cty.StringVal("accuracy"), cty.StringVal("f1")}),
		"optimizer": testutil.Section("Adam", map[string]cty.Value{
			"lr": cty.NumberFloatVal(0.01),
		}),
		"lr_scheduler": testutil.Section("StepLR", map[string]cty.Value{
			"step_size": cty.NumberIntVal(2), "gamma": cty.NumberFloatVal(0.5),
		}),
	})
	if trainer == nil {
		return root
	}
	m := root.AsValueMap()
	m[config.SectionTrainer] = cty.ObjectVal(trainer)
	return cty.ObjectVal(m)
}

func build(t *testing.T, root cty.Value, run *session.RunConfig) (*Trainer, *session.Session, *Metrics) {
	t.Helper()
	seed.Init(seed.Default)
	ctx := ctxlog.Discard(context.Background())

	doc, err := config.NewDocument("test.json", root)
	require.NoError(t, err)
	run.Document = doc
	reg := registry.New(&data.Module{}, &arch.Module{}, &optim.Module{}, &loss.Module{}, &metric.Module{})
	conv := hcl_adapter.NewConverter()

	sess, err := assembler.Assemble(ctx, doc, reg, conv, run)
	require.NoError(t, err)

	metrics := NewMetrics()
	require.NoError(t, metrics.Register(prometheus.NewRegistry()))
	tr, err := New(ctx, sess, conv, metrics)
	require.NoError(t, err)
	return tr, sess, metrics
}

func TestNew_Options(t *testing.T) {
	tests := []struct {
		name    string
		trainer map[string]cty.Value
		want    Options
		wantErr string
	}{
		{name: "defaults", want: *DefaultOptions()},
		{
			name:    "overrides",
			trainer: map[string]cty.Value{"epochs": cty.NumberIntVal(3), "monitor": cty.StringVal("max val_f1")},
			want:    Options{Epochs: 3, SavePeriod: 5, Monitor: "max val_f1"},
		},
		{name: "bad monitor", trainer: map[string]cty.Value{"monitor": cty.StringVal("lowest loss")}, wantErr: "monitor"},
		{name: "zero epochs", trainer: map[string]cty.Value{"epochs": cty.NumberIntVal(0)}, wantErr: "epochs"},
		{name: "unknown key", trainer: map[string]cty.Value{"verbosity": cty.NumberIntVal(2)}, wantErr: "verbosity"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := ctxlog.Discard(context.Background())
			seed.Init(seed.Default)
			doc, err := config.NewDocument("test.json", ganRoot(tc.trainer))
			require.NoError(t, err)
			reg := registry.New(&data.Module{}, &arch.Module{}, &optim.Module{}, &loss.Module{}, &metric.Module{})
			sess, err := assembler.Assemble(ctx, doc, reg, hcl_adapter.NewConverter(), &session.RunConfig{Document: doc})
			require.NoError(t, err)

			tr, err := New(ctx, sess, hcl_adapter.NewConverter(), nil)

			if tc.wantErr != "" {
				var malformed *config.MalformedConfigError
				require.ErrorAs(t, err, &malformed)
				assert.Equal(t, config.SectionTrainer, malformed.Section)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, tr.Options())
		})
	}
}

func TestNew_RejectsNonAdversarialModel(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	doc, err := config.NewDocument("test.json", testutil.StubRoot(nil))
	require.NoError(t, err)
	sess, err := assembler.Assemble(ctx, doc, registry.New(testutil.NewStubModule()), hcl_adapter.NewConverter(), &session.RunConfig{Document: doc})
	require.NoError(t, err)

	_, err = New(ctx, sess, hcl_adapter.NewConverter(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "adversarial")
}

func TestTrain_RunsEveryEpoch(t *testing.T) {
	// --- Arrange ---
	tr, sess, metrics := build(t, ganRoot(map[string]cty.Value{"epochs": cty.NumberIntVal(3)}), &session.RunConfig{})
	before := append([]float64(nil), sess.Model.Parameters()[0].Data...)

	// --- Act ---
	err := tr.Train(ctxlog.Discard(context.Background()))

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, 3.0, promtest.ToFloat64(metrics.Epoch))
	assert.Equal(t, float64(3*trainBatches), promtest.ToFloat64(metrics.Batches))
	assert.Zero(t, promtest.ToFloat64(metrics.Checkpoints), "no model dir, no checkpoints")
	assert.NotEqual(t, before, sess.Model.Parameters()[0].Data)

	for _, p := range sess.Players() {
		assert.Equal(t, 3*trainBatches, p.Optimizer.Steps(), p.Role)
		assert.Equal(t, 3, p.Scheduler.Epoch(), p.Role)
		// StepLR(step_size=2, gamma=0.5) after three epochs.
		assert.InDelta(t, 0.005, p.Optimizer.LR(), 1e-12, p.Role)
		assert.InDelta(t, 0.005, promtest.ToFloat64(metrics.LearningRate.WithLabelValues(p.Role)), 1e-12)
	}
	// d_loss, g_loss, accuracy, f1, val_loss, val_accuracy, val_f1
	assert.Equal(t, 7, promtest.CollectAndCount(metrics.Values))
	dLoss := promtest.ToFloat64(metrics.Values.WithLabelValues(KeyDiscriminatorLoss))
	assert.Greater(t, dLoss, 0.0)
}

func TestTrain_WritesCheckpoints(t *testing.T) {
	dir := t.TempDir()
	tr, _, metrics := build(t, ganRoot(map[string]cty.Value{
		"epochs":      cty.NumberIntVal(4),
		"save_period": cty.NumberIntVal(2),
		"monitor":     cty.StringVal("min val_loss"),
	}), &session.RunConfig{ModelDir: dir})

	require.NoError(t, tr.Train(ctxlog.Discard(context.Background())))

	assert.FileExists(t, filepath.Join(dir, "checkpoint-epoch2.json"))
	assert.FileExists(t, filepath.Join(dir, "checkpoint-epoch4.json"))
	assert.NoFileExists(t, filepath.Join(dir, "checkpoint-epoch3.json"))
	assert.FileExists(t, filepath.Join(dir, BestCheckpoint))
	assert.GreaterOrEqual(t, promtest.ToFloat64(metrics.Checkpoints), 3.0)

	ck, err := LoadCheckpoint(filepath.Join(dir, "checkpoint-epoch4.json"))
	require.NoError(t, err)
	assert.Equal(t, 4, ck.Epoch)
	assert.Equal(t, "LinearGAN", ck.Arch)
	assert.Equal(t, "Adam", ck.OptimizerType)
	assert.Len(t, ck.Params, 4)
	assert.Equal(t, 4, ck.SchedulerEpochs["generator"])
	assert.Equal(t, 4*trainBatches, ck.Optimizers["discriminator"].Steps)
	require.NotNil(t, ck.MonitorBest)
	assert.JSONEq(t, mustJSON(t, tr.sess.Run.Document), string(ck.Config))
}

func mustJSON(t *testing.T, doc *config.Document) string {
	t.Helper()
	raw, err := doc.JSON()
	require.NoError(t, err)
	return string(raw)
}

func TestTrain_ResumesFromDirectory(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	first, _, _ := build(t, ganRoot(map[string]cty.Value{
		"epochs": cty.NumberIntVal(2), "save_period": cty.NumberIntVal(1),
	}), &session.RunConfig{ModelDir: dir})
	require.NoError(t, first.Train(ctxlog.Discard(context.Background())))

	second, sess, metrics := build(t, ganRoot(map[string]cty.Value{
		"epochs": cty.NumberIntVal(3), "save_period": cty.NumberIntVal(10),
	}), &session.RunConfig{Resume: dir})

	// --- Act ---
	err := second.Train(ctxlog.Discard(context.Background()))

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, float64(trainBatches), promtest.ToFloat64(metrics.Batches), "only epoch 3 runs")
	assert.Equal(t, 3.0, promtest.ToFloat64(metrics.Epoch))
	for _, p := range sess.Players() {
		assert.Equal(t, 3*trainBatches, p.Optimizer.Steps(), p.Role)
		assert.Equal(t, 3, p.Scheduler.Epoch(), p.Role)
	}
}

func TestTrain_ResumeRestoresParameters(t *testing.T) {
	dir := t.TempDir()
	first, firstSess, _ := build(t, ganRoot(map[string]cty.Value{
		"epochs": cty.NumberIntVal(2), "save_period": cty.NumberIntVal(2),
	}), &session.RunConfig{ModelDir: dir})
	require.NoError(t, first.Train(ctxlog.Discard(context.Background())))

	// Nothing left to run: the resumed session ends with the saved state.
	second, sess, metrics := build(t, ganRoot(map[string]cty.Value{
		"epochs": cty.NumberIntVal(2),
	}), &session.RunConfig{Resume: filepath.Join(dir, CheckpointName(2))})
	require.NoError(t, second.Train(ctxlog.Discard(context.Background())))

	assert.Zero(t, promtest.ToFloat64(metrics.Batches))
	for i, p := range sess.Model.Parameters() {
		assert.Equal(t, firstSess.Model.Parameters()[i].Data, p.Data, p.Name)
	}
	assert.Equal(t, firstSess.Generator.Optimizer.State(), sess.Generator.Optimizer.State())
}

func TestTrain_ResumeFailures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "checkpoint-epoch1.json"), []byte(`{"epoch": 1, "params": {}}`), 0o644))

	tests := []struct {
		name    string
		resume  string
		wantErr string
	}{
		{name: "missing path", resume: filepath.Join(dir, "nope"), wantErr: "resume"},
		{name: "empty directory", resume: t.TempDir(), wantErr: ErrNoCheckpoint.Error()},
		{name: "parameter missing", resume: dir, wantErr: `parameter "generator.weight" missing`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr, _, _ := build(t, ganRoot(nil), &session.RunConfig{Resume: tc.resume})

			err := tr.Train(ctxlog.Discard(context.Background()))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestTrain_StopsOnCancelledContext(t *testing.T) {
	tr, _, metrics := build(t, ganRoot(nil), &session.RunConfig{})
	ctx, cancel := context.WithCancel(ctxlog.Discard(context.Background()))
	cancel()

	err := tr.Train(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, promtest.ToFloat64(metrics.Batches))
}

func TestTrack(t *testing.T) {
	t.Parallel()
	logger := ctxlog.FromContext(ctxlog.Discard(context.Background()))
	logOf := func(v float64) *Log {
		l := newLog()
		l.Set(KeyValidationLoss, v)
		return l
	}

	tr := &Trainer{monitor: monitor{mode: "min", key: KeyValidationLoss}, opts: Options{EarlyStop: 1}}

	improved, stop := tr.track(logger, logOf(1))
	assert.True(t, improved)
	assert.False(t, stop)

	improved, stop = tr.track(logger, logOf(0.5))
	assert.True(t, improved)
	assert.False(t, stop)

	improved, stop = tr.track(logger, logOf(0.7))
	assert.False(t, improved)
	assert.False(t, stop, "one stale epoch is tolerated")

	_, stop = tr.track(logger, logOf(0.6))
	assert.True(t, stop)
	assert.Equal(t, 0.5, *tr.best)
}

func TestTrack_MissingKeyDisablesMonitoring(t *testing.T) {
	t.Parallel()
	logger := ctxlog.FromContext(ctxlog.Discard(context.Background()))
	tr := &Trainer{monitor: monitor{mode: "max", key: "val_auc"}}

	improved, stop := tr.track(logger, newLog())

	assert.False(t, improved)
	assert.False(t, stop)
	assert.True(t, tr.monitor.off())
}

func TestParseMonitor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    monitor
		wantErr bool
	}{
		{in: "off", want: monitor{}},
		{in: "", want: monitor{}},
		{in: "min val_loss", want: monitor{mode: "min", key: "val_loss"}},
		{in: "  max   val_f1 ", want: monitor{mode: "max", key: "val_f1"}},
		{in: "mean val_loss", wantErr: true},
		{in: "min", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := parseMonitor(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveCheckpoint(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	for _, name := range []string{"checkpoint-epoch2.json", "checkpoint-epoch10.json", BestCheckpoint, "checkpoint-epochX.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}

	got, err := ResolveCheckpoint(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "checkpoint-epoch10.json"), got)

	file := filepath.Join(dir, BestCheckpoint)
	got, err = ResolveCheckpoint(file)
	require.NoError(t, err)
	assert.Equal(t, file, got)

	_, err = ResolveCheckpoint(t.TempDir())
	require.ErrorIs(t, err, ErrNoCheckpoint)
}

func TestLog_KeepsInsertionOrder(t *testing.T) {
	t.Parallel()
	l := newLog()
	l.Set("b", 1)
	l.Set("a", 2)
	l.Set("b", 3)

	assert.Equal(t, []string{"b", "a"}, l.Keys())
	assert.Equal(t, []any{"b", 3.0, "a", 2.0}, l.Attrs())
}

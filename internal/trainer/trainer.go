package trainer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vk/gantrain/internal/component"
	"github.com/vk/gantrain/internal/config"
	"github.com/vk/gantrain/internal/ctxlog"
	"github.com/vk/gantrain/internal/session"
)

// Log keys written every epoch besides the configured metrics.
const (
	KeyDiscriminatorLoss = "d_loss"
	KeyGeneratorLoss     = "g_loss"
	KeyValidationLoss    = "val_loss"
	validationPrefix     = "val_"
)

// Trainer drives one session. It implements session.Trainer.
type Trainer struct {
	sess    *session.Session
	model   component.Adversarial
	opts    Options
	monitor monitor
	metrics *Metrics

	arch          string
	optimizerType string

	start       int // last completed epoch
	best        *float64
	notImproved int
}

var _ session.Trainer = (*Trainer)(nil)

// New prepares a trainer. metrics may be nil, in which case unregistered
// collectors are used.
func New(ctx context.Context, sess *session.Session, conv config.Converter, metrics *Metrics) (*Trainer, error) {
	model, ok := sess.Model.(component.Adversarial)
	if !ok {
		return nil, fmt.Errorf("model %T does not implement adversarial training steps", sess.Model)
	}

	t := &Trainer{sess: sess, model: model, metrics: metrics}
	if t.metrics == nil {
		t.metrics = NewMetrics()
	}

	opts := DefaultOptions()
	if doc := sess.Run.Document; doc != nil {
		args, err := doc.OptionalArgs(config.SectionTrainer)
		if err != nil {
			return nil, err
		}
		if err := conv.DecodeArgs(ctx, args, opts); err != nil {
			return nil, &config.MalformedConfigError{Source: doc.Source(), Section: config.SectionTrainer, Reason: "invalid arguments", Err: err}
		}
		if sec, err := doc.Section(config.SectionArch); err == nil {
			t.arch = sec.Type
		}
		if sec, err := doc.Section(config.SectionOptimizer); err == nil {
			t.optimizerType = sec.Type
		}
	}
	mon, err := parseMonitor(opts.Monitor)
	if err != nil {
		return nil, &config.MalformedConfigError{Section: config.SectionTrainer, Reason: "invalid arguments", Err: err}
	}
	t.opts, t.monitor = *opts, mon
	return t, nil
}

// Options returns the effective trainer options.
func (t *Trainer) Options() Options { return t.opts }

// Train runs epochs start+1 through Epochs, resuming first when the run
// config names a checkpoint.
func (t *Trainer) Train(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("session_id", t.sess.ID.String())
	run := t.sess.Run

	if run.Resume != "" {
		if err := t.resume(logger, run.Resume); err != nil {
			return err
		}
	}
	logger.Info("Training started.",
		"epochs", t.opts.Epochs, "start_epoch", t.start+1, "device", run.Device,
		"trainable", len(t.sess.Trainable), "loss", t.sess.LossName, "metrics", t.sess.MetricNames())

	for epoch := t.start + 1; epoch <= t.opts.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		log := t.trainEpoch(epoch)
		t.validate(log)
		for _, p := range t.sess.Players() {
			p.Scheduler.Step()
		}
		t.metrics.observe(epoch, log, t.sess)
		logger.Info("Epoch finished.", append([]any{"epoch", epoch}, log.Attrs()...)...)

		improved, stop := t.track(logger, log)
		if epoch%t.opts.SavePeriod == 0 {
			if err := t.save(logger, epoch, CheckpointName(epoch)); err != nil {
				return err
			}
		}
		if improved {
			if err := t.save(logger, epoch, BestCheckpoint); err != nil {
				return err
			}
		}
		if stop {
			logger.Info("Validation performance didn't improve; training stops.", "epochs_without_improvement", t.notImproved)
			break
		}
	}
	logger.Info("Training finished.")
	return nil
}

func (t *Trainer) trainEpoch(epoch int) *Log {
	gen, disc := t.sess.Generator.Optimizer, t.sess.Discriminator.Optimizer
	scores := make([]float64, len(t.sess.Metrics))
	var dLoss, gLoss float64

	batches := t.sess.TrainData.Batches(epoch)
	for _, b := range batches {
		disc.ZeroGrad()
		d := t.model.DiscriminatorStep(b.Samples, t.sess.Loss)
		disc.Step()

		gen.ZeroGrad()
		g := t.model.GeneratorStep(len(b.Samples), t.sess.Loss)
		gen.Step()

		dLoss += d.Loss
		gLoss += g.Loss
		for i, m := range t.sess.Metrics {
			scores[i] += m.Fn(d.Pred, d.Target)
		}
		t.metrics.Batches.Inc()
	}

	n := float64(max(len(batches), 1))
	log := newLog()
	log.Set(KeyDiscriminatorLoss, dLoss/n)
	log.Set(KeyGeneratorLoss, gLoss/n)
	for i, m := range t.sess.Metrics {
		log.Set(m.Name, scores[i]/n)
	}
	return log
}

// validate scores the validation source without touching gradients.
func (t *Trainer) validate(log *Log) {
	scores := make([]float64, len(t.sess.Metrics))
	var loss float64

	batches := t.sess.ValidData.Batches(0)
	for _, b := range batches {
		res := t.model.Evaluate(b.Samples, t.sess.Loss)
		loss += res.Loss
		for i, m := range t.sess.Metrics {
			scores[i] += m.Fn(res.Pred, res.Target)
		}
	}

	n := float64(max(len(batches), 1))
	log.Set(KeyValidationLoss, loss/n)
	for i, m := range t.sess.Metrics {
		log.Set(validationPrefix+m.Name, scores[i]/n)
	}
}

// track updates the monitored best and reports whether this epoch improved
// it and whether training should stop.
func (t *Trainer) track(logger *slog.Logger, log *Log) (improved, stop bool) {
	if t.monitor.off() {
		return false, false
	}
	v, ok := log.Get(t.monitor.key)
	if !ok {
		logger.Warn("Monitored metric is not logged; performance monitoring is disabled.", "metric", t.monitor.key)
		t.monitor = monitor{}
		return false, false
	}
	if t.best == nil || t.monitor.better(v, *t.best) {
		t.best = &v
		t.notImproved = 0
		return true, false
	}
	t.notImproved++
	return false, t.opts.EarlyStop > 0 && t.notImproved > t.opts.EarlyStop
}

func (t *Trainer) save(logger *slog.Logger, epoch int, name string) error {
	dir := t.sess.Run.ModelDir
	if dir == "" {
		logger.Debug("No model directory; checkpoint skipped.", "file", name)
		return nil
	}
	ck, err := t.snapshot(epoch)
	if err != nil {
		return err
	}
	path, err := writeCheckpoint(dir, name, ck)
	if err != nil {
		return err
	}
	t.metrics.Checkpoints.Inc()
	logger.Info("Checkpoint saved.", "path", path, "epoch", epoch)
	return nil
}

func (t *Trainer) snapshot(epoch int) (*Checkpoint, error) {
	ck := &Checkpoint{
		Arch:            t.arch,
		OptimizerType:   t.optimizerType,
		Epoch:           epoch,
		SessionID:       t.sess.ID.String(),
		Params:          make(map[string][]float64),
		Optimizers:      make(map[string]component.OptimizerState),
		SchedulerEpochs: make(map[string]int),
		MonitorBest:     t.best,
	}
	for _, p := range t.sess.Model.Parameters() {
		ck.Params[p.Name] = append([]float64(nil), p.Data...)
	}
	for _, p := range t.sess.Players() {
		ck.Optimizers[p.Role] = p.Optimizer.State()
		ck.SchedulerEpochs[p.Role] = p.Scheduler.Epoch()
	}
	if doc := t.sess.Run.Document; doc != nil {
		raw, err := doc.JSON()
		if err != nil {
			return nil, fmt.Errorf("checkpoint config: %w", err)
		}
		ck.Config = raw
	}
	return ck, nil
}

func (t *Trainer) resume(logger *slog.Logger, path string) error {
	file, err := ResolveCheckpoint(path)
	if err != nil {
		return err
	}
	logger.Info("Loading checkpoint.", "path", file)
	ck, err := LoadCheckpoint(file)
	if err != nil {
		return err
	}

	if ck.Arch != t.arch {
		logger.Warn("Architecture in the configuration differs from the checkpoint; parameters may not load.", "checkpoint", ck.Arch, "config", t.arch)
	}
	for _, p := range t.sess.Model.Parameters() {
		data, ok := ck.Params[p.Name]
		if !ok {
			return fmt.Errorf("resume %s: parameter %q missing from checkpoint", file, p.Name)
		}
		if len(data) != len(p.Data) {
			return fmt.Errorf("resume %s: parameter %q has %d values, model has %d", file, p.Name, len(data), len(p.Data))
		}
		copy(p.Data, data)
	}

	for _, p := range t.sess.Players() {
		p.Scheduler.SetEpoch(ck.SchedulerEpochs[p.Role])
	}
	if ck.OptimizerType != t.optimizerType {
		logger.Warn("Optimizer type in the configuration differs from the checkpoint; optimizer state is not resumed.", "checkpoint", ck.OptimizerType, "config", t.optimizerType)
	} else {
		for _, p := range t.sess.Players() {
			st, ok := ck.Optimizers[p.Role]
			if !ok {
				return fmt.Errorf("resume %s: no optimizer state for %s", file, p.Role)
			}
			if err := p.Optimizer.LoadState(st); err != nil {
				return fmt.Errorf("resume %s: %s: %w", file, p.Role, err)
			}
		}
	}

	t.start = ck.Epoch
	t.best = ck.MonitorBest
	logger.Info("Checkpoint loaded; training resumes.", "epoch", t.start+1)
	return nil
}

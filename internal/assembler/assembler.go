package assembler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vk/gantrain/internal/component"
	"github.com/vk/gantrain/internal/config"
	"github.com/vk/gantrain/internal/ctxlog"
	"github.com/vk/gantrain/internal/registry"
	"github.com/vk/gantrain/internal/resolver"
	"github.com/vk/gantrain/internal/session"
)

// Assemble builds a training session from doc. The order is fixed:
//
//  1. train and validation data sources
//  2. model, and its player split
//  3. loss handle
//  4. metric handles, in configured order
//  5. trainable parameter view
//  6. one optimizer per player, bound to that player's parameter group
//  7. one scheduler per optimizer
//  8. the session aggregate
//
// Before step 1 the document shape and every configured name are checked, so
// a misnamed component fails before any constructor runs.
func Assemble(ctx context.Context, doc *config.Document, reg *registry.Registry, conv config.Converter, run *session.RunConfig) (*session.Session, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Session assembly started.", "source", doc.Source())

	bound, err := preflight(doc, reg)
	if err != nil {
		return nil, err
	}
	r := resolver.New(doc, conv)

	trainData, err := resolver.Resolve(ctx, r, config.SectionDataLoader, reg.DataSources)
	if err != nil {
		return nil, err
	}
	validData, err := resolver.Resolve(ctx, r, config.SectionTestDataLoader, reg.DataSources)
	if err != nil {
		return nil, err
	}
	logger.Debug("Data sources ready.", "train_batches", trainData.Len(), "valid_batches", validData.Len())

	model, err := resolver.Resolve(ctx, r, config.SectionArch, reg.Models)
	if err != nil {
		return nil, err
	}
	players := model.Players()
	if err := players.Validate(model.Parameters()); err != nil {
		return nil, fmt.Errorf("section %q: invalid player split: %w", config.SectionArch, err)
	}

	trainable := component.Trainable(model.Parameters())
	logger.Debug("Model built.", "parameters", len(model.Parameters()), "trainable", len(trainable),
		"generator", players.Generator.Names(), "discriminator", players.Discriminator.Names())

	genOpt, err := resolver.Resolve(ctx, r, config.SectionOptimizer, reg.Optimizers, players.Generator)
	if err != nil {
		return nil, fmt.Errorf("%s optimizer: %w", component.Generator, err)
	}
	discOpt, err := resolver.Resolve(ctx, r, config.SectionOptimizer, reg.Optimizers, players.Discriminator)
	if err != nil {
		return nil, fmt.Errorf("%s optimizer: %w", component.Discriminator, err)
	}

	genSched, err := resolver.Resolve(ctx, r, config.SectionLRScheduler, reg.Schedulers, genOpt)
	if err != nil {
		return nil, fmt.Errorf("%s scheduler: %w", component.Generator, err)
	}
	discSched, err := resolver.Resolve(ctx, r, config.SectionLRScheduler, reg.Schedulers, discOpt)
	if err != nil {
		return nil, fmt.Errorf("%s scheduler: %w", component.Discriminator, err)
	}

	sess := &session.Session{
		ID:        uuid.New(),
		Model:     model,
		LossName:  bound.lossName,
		Loss:      bound.loss,
		Metrics:   bound.metrics,
		Trainable: trainable,
		Generator: session.Player{
			Role:      component.Generator,
			Group:     players.Generator,
			Optimizer: genOpt,
			Scheduler: genSched,
		},
		Discriminator: session.Player{
			Role:      component.Discriminator,
			Group:     players.Discriminator,
			Optimizer: discOpt,
			Scheduler: discSched,
		},
		TrainData: trainData,
		ValidData: validData,
		Run:       run,
	}
	if err := sess.Validate(); err != nil {
		return nil, fmt.Errorf("assembled session violates its contract: %w", err)
	}

	logger.Info("Training session assembled.", "session_id", sess.ID.String(), "loss", bound.lossName, "metrics", sess.MetricNames())
	return sess, nil
}

// handles are the loss and metric functions bound during preflight. They
// need no construction, so Assemble uses them as they are.
type handles struct {
	lossName string
	loss     component.LossFunc
	metrics  []session.Metric
}

// Preflight validates the document shape and checks every configured name
// against its namespace without constructing anything.
func Preflight(doc *config.Document, reg *registry.Registry) error {
	_, err := preflight(doc, reg)
	return err
}

func preflight(doc *config.Document, reg *registry.Registry) (*handles, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	checks := []struct {
		section string
		lookup  func(section, typeName string) error
	}{
		{config.SectionDataLoader, lookupIn(reg.DataSources)},
		{config.SectionTestDataLoader, lookupIn(reg.DataSources)},
		{config.SectionArch, lookupIn(reg.Models)},
		{config.SectionOptimizer, lookupIn(reg.Optimizers)},
		{config.SectionLRScheduler, lookupIn(reg.Schedulers)},
	}
	for _, c := range checks {
		sec, err := doc.Section(c.section)
		if err != nil {
			return nil, err
		}
		if err := c.lookup(c.section, sec.Type); err != nil {
			return nil, err
		}
	}

	lossName, err := doc.String(config.SectionLoss)
	if err != nil {
		return nil, err
	}
	loss, ok := reg.Losses.Lookup(lossName)
	if !ok {
		return nil, &UnknownLossError{Name: lossName, Known: reg.Losses.Names()}
	}

	metricNames, err := doc.Strings(config.SectionMetrics)
	if err != nil {
		return nil, err
	}
	metrics := make([]session.Metric, len(metricNames))
	for i, name := range metricNames {
		fn, ok := reg.Metrics.Lookup(name)
		if !ok {
			return nil, &UnknownMetricError{Name: name, Index: i, Known: reg.Metrics.Names()}
		}
		metrics[i] = session.Metric{Name: name, Fn: fn}
	}
	return &handles{lossName: lossName, loss: loss, metrics: metrics}, nil
}

func lookupIn[T any](ns *registry.Namespace[T]) func(section, typeName string) error {
	return func(section, typeName string) error {
		_, err := resolver.Lookup(section, typeName, ns)
		return err
	}
}

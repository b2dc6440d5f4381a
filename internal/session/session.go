package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vk/gantrain/internal/component"
	"github.com/vk/gantrain/internal/config"
)

// RunConfig is the per-invocation configuration a session carries besides
// its components.
type RunConfig struct {
	Name     string
	RunID    string
	ModelDir string // checkpoints and the config snapshot
	LogDir   string
	Resume   string // checkpoint file or directory, empty when starting fresh
	Device   string
	Document *config.Document
}

// Metric is a named metric handle, kept in configured order.
type Metric struct {
	Name string
	Fn   component.MetricFunc
}

// Player bundles the optimizer and scheduler of one adversary.
type Player struct {
	Role      string
	Group     component.ParamGroup
	Optimizer component.Optimizer
	Scheduler component.Scheduler
}

// Session is the assembled training graph.
type Session struct {
	ID        uuid.UUID
	Model     component.Model
	LossName  string
	Loss      component.LossFunc
	Metrics   []Metric
	Trainable []*component.Param

	Generator     Player
	Discriminator Player

	TrainData component.DataSource
	ValidData component.DataSource

	Run *RunConfig
}

// Trainer owns the iterative loop over a session.
type Trainer interface {
	Train(ctx context.Context) error
}

// Players returns both players, generator first.
func (s *Session) Players() []Player {
	return []Player{s.Generator, s.Discriminator}
}

// MetricNames lists metric names in configured order.
func (s *Session) MetricNames() []string {
	names := make([]string, len(s.Metrics))
	for i, m := range s.Metrics {
		names[i] = m.Name
	}
	return names
}

// Validate checks the hand-off contract: a valid player split, each
// optimizer bound to exactly its player's group, each scheduler bound to
// its player's optimizer, and every remaining component present.
func (s *Session) Validate() error {
	if s.Model == nil || s.Loss == nil || s.TrainData == nil || s.ValidData == nil || s.Run == nil {
		return errors.New("session is incomplete")
	}
	if err := s.Model.Players().Validate(s.Model.Parameters()); err != nil {
		return err
	}
	for _, p := range s.Players() {
		if p.Optimizer == nil || p.Scheduler == nil {
			return fmt.Errorf("%s: optimizer and scheduler are required", p.Role)
		}
		if !sameParams(p.Optimizer.Group(), p.Group) {
			return fmt.Errorf("%s: optimizer is not bound to the %s parameter group", p.Role, p.Role)
		}
		if p.Scheduler.Optimizer() != p.Optimizer {
			return fmt.Errorf("%s: scheduler is not bound to the %s optimizer", p.Role, p.Role)
		}
	}
	if s.Generator.Optimizer == s.Discriminator.Optimizer {
		return errors.New("players share one optimizer")
	}
	return nil
}

func sameParams(a, b component.ParamGroup) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	return true
}

package optim

import (
	"math"

	"github.com/vk/gantrain/internal/component"
)

// StepLROptions are the arguments of StepLR.
type StepLROptions struct {
	StepSize int     `cty:"step_size" validate:"gt=0"`
	Gamma    float64 `cty:"gamma" validate:"gt=0"`
}

func defaultStepLR() *StepLROptions {
	return &StepLROptions{StepSize: 1, Gamma: 0.1}
}

// ExponentialLROptions are the arguments of ExponentialLR.
type ExponentialLROptions struct {
	Gamma float64 `cty:"gamma" validate:"gt=0"`
}

func defaultExponentialLR() *ExponentialLROptions {
	return &ExponentialLROptions{Gamma: 0.95}
}

// schedule computes the learning rate for an epoch from the base rate.
type schedule func(baseLR float64, epoch int) float64

type scheduler struct {
	opt    component.Optimizer
	baseLR float64
	epoch  int
	rate   schedule
}

func newScheduler(opt component.Optimizer, rate schedule) *scheduler {
	return &scheduler{opt: opt, baseLR: opt.LR(), rate: rate}
}

func (s *scheduler) Optimizer() component.Optimizer { return s.opt }
func (s *scheduler) LastLR() float64                { return s.opt.LR() }
func (s *scheduler) Epoch() int                     { return s.epoch }

func (s *scheduler) Step() {
	s.SetEpoch(s.epoch + 1)
}

func (s *scheduler) SetEpoch(epoch int) {
	s.epoch = epoch
	s.opt.SetLR(s.rate(s.baseLR, epoch))
}

// NewStepLR decays the rate by gamma every step_size epochs.
func NewStepLR(opt component.Optimizer, o StepLROptions) component.Scheduler {
	return newScheduler(opt, func(lr float64, epoch int) float64 {
		return lr * math.Pow(o.Gamma, float64(epoch/o.StepSize))
	})
}

// NewExponentialLR decays the rate by gamma every epoch.
func NewExponentialLR(opt component.Optimizer, o ExponentialLROptions) component.Scheduler {
	return newScheduler(opt, func(lr float64, epoch int) float64 {
		return lr * math.Pow(o.Gamma, float64(epoch))
	})
}

// Package optim provides optimizers and learning-rate schedulers.
//
// Optimizers take the parameter group they own as their single positional
// argument; schedulers take the optimizer they drive.
package optim

import (
	"context"

	"github.com/vk/gantrain/internal/component"
	"github.com/vk/gantrain/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func group(positional []any) (component.ParamGroup, error) {
	if err := registry.ExpectArgs(positional, 1); err != nil {
		return component.ParamGroup{}, err
	}
	return registry.Arg[component.ParamGroup](positional, 0)
}

func target(positional []any) (component.Optimizer, error) {
	if err := registry.ExpectArgs(positional, 1); err != nil {
		return nil, err
	}
	return registry.Arg[component.Optimizer](positional, 0)
}

// Register registers the optimizers and schedulers with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Optimizers.Register("SGD", registry.Constructor(defaultSGD,
		func(ctx context.Context, positional []any, o *SGDOptions) (component.Optimizer, error) {
			g, err := group(positional)
			if err != nil {
				return nil, err
			}
			return NewSGD(g, *o), nil
		}))
	r.Optimizers.Register("Adam", registry.Constructor(defaultAdam,
		func(ctx context.Context, positional []any, o *AdamOptions) (component.Optimizer, error) {
			g, err := group(positional)
			if err != nil {
				return nil, err
			}
			return NewAdam(g, *o), nil
		}))

	r.Schedulers.Register("StepLR", registry.Constructor(defaultStepLR,
		func(ctx context.Context, positional []any, o *StepLROptions) (component.Scheduler, error) {
			opt, err := target(positional)
			if err != nil {
				return nil, err
			}
			return NewStepLR(opt, *o), nil
		}))
	r.Schedulers.Register("ExponentialLR", registry.Constructor(defaultExponentialLR,
		func(ctx context.Context, positional []any, o *ExponentialLROptions) (component.Scheduler, error) {
			opt, err := target(positional)
			if err != nil {
				return nil, err
			}
			return NewExponentialLR(opt, *o), nil
		}))
}

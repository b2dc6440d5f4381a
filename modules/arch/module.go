// Package arch provides model architectures.
package arch

import (
	"context"

	"github.com/vk/gantrain/internal/component"
	"github.com/vk/gantrain/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Options are the arguments of LinearGAN.
type Options struct {
	InitStd             float64 `cty:"init_std" validate:"gt=0"`
	FreezeGeneratorBias bool    `cty:"freeze_generator_bias"`
	SeedOffset          uint64  `cty:"seed_offset" validate:"lte=16777215"`
}

func defaultOptions() *Options {
	return &Options{InitStd: 0.1}
}

func build(ctx context.Context, positional []any, o *Options) (component.Model, error) {
	if err := registry.ExpectArgs(positional, 0); err != nil {
		return nil, err
	}
	return NewLinearGAN(*o), nil
}

// Register registers the architectures with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Models.Register("LinearGAN", registry.Constructor(defaultOptions, build))
}

// Package data provides synthetic one-dimensional data sources. Samples are
// drawn once at construction from a generator derived from the process seed,
// so two sources built with the same options and seed_offset are identical.
package data

import (
	"context"

	"github.com/vk/gantrain/internal/component"
	"github.com/vk/gantrain/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// GaussianOptions are the arguments of GaussianDataLoader.
type GaussianOptions struct {
	BatchSize  int     `cty:"batch_size" validate:"gt=0"`
	NumBatches int     `cty:"num_batches" validate:"gt=0"`
	Mean       float64 `cty:"mean"`
	Std        float64 `cty:"std" validate:"gt=0"`
	Shuffle    bool    `cty:"shuffle"`
	SeedOffset uint64  `cty:"seed_offset" validate:"lte=16777215"`
}

// UniformOptions are the arguments of UniformDataLoader.
type UniformOptions struct {
	BatchSize  int     `cty:"batch_size" validate:"gt=0"`
	NumBatches int     `cty:"num_batches" validate:"gt=0"`
	Low        float64 `cty:"low"`
	High       float64 `cty:"high" validate:"gtfield=Low"`
	Shuffle    bool    `cty:"shuffle"`
	SeedOffset uint64  `cty:"seed_offset" validate:"lte=16777215"`
}

func defaultGaussian() *GaussianOptions {
	return &GaussianOptions{BatchSize: 64, NumBatches: 16, Mean: 4, Std: 1.25, Shuffle: true}
}

func defaultUniform() *UniformOptions {
	return &UniformOptions{BatchSize: 64, NumBatches: 16, Low: -1, High: 1, Shuffle: true}
}

// NewGaussian draws batch_size*num_batches samples from N(mean, std²).
func NewGaussian(ctx context.Context, positional []any, o *GaussianOptions) (component.DataSource, error) {
	if err := registry.ExpectArgs(positional, 0); err != nil {
		return nil, err
	}
	rng := sampler(o.SeedOffset)
	samples := make([]float64, o.BatchSize*o.NumBatches)
	for i := range samples {
		samples[i] = o.Mean + o.Std*rng.NormFloat64()
	}
	return newSampled(samples, o.BatchSize, o.Shuffle, o.SeedOffset), nil
}

// NewUniform draws batch_size*num_batches samples from U[low, high).
func NewUniform(ctx context.Context, positional []any, o *UniformOptions) (component.DataSource, error) {
	if err := registry.ExpectArgs(positional, 0); err != nil {
		return nil, err
	}
	rng := sampler(o.SeedOffset)
	samples := make([]float64, o.BatchSize*o.NumBatches)
	for i := range samples {
		samples[i] = o.Low + (o.High-o.Low)*rng.Float64()
	}
	return newSampled(samples, o.BatchSize, o.Shuffle, o.SeedOffset), nil
}

// Register registers the data sources with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.DataSources.Register("GaussianDataLoader", registry.Constructor(defaultGaussian, NewGaussian))
	r.DataSources.Register("UniformDataLoader", registry.Constructor(defaultUniform, NewUniform))
}

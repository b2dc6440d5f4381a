package data

import (
	"math/rand/v2"

	"github.com/vk/gantrain/internal/component"
	"github.com/vk/gantrain/internal/seed"
)

// Shuffling uses the epoch as its stream slot; sampling takes the last slot.
const samplingSlot = 0xffffffff

func sampler(offset uint64) *rand.Rand {
	return seed.New(seed.Stream(seed.RoleData, offset, samplingSlot))
}

type sampled struct {
	samples   []float64
	batchSize int
	shuffle   bool
	offset    uint64
}

func newSampled(samples []float64, batchSize int, shuffle bool, offset uint64) *sampled {
	return &sampled{samples: samples, batchSize: batchSize, shuffle: shuffle, offset: offset}
}

func (s *sampled) Len() int {
	return (len(s.samples) + s.batchSize - 1) / s.batchSize
}

func (s *sampled) BatchSize() int { return s.batchSize }

func (s *sampled) Batches(epoch int) []component.Batch {
	order := make([]float64, len(s.samples))
	copy(order, s.samples)
	if s.shuffle {
		rng := seed.New(seed.Stream(seed.RoleData, s.offset, uint64(uint32(epoch))))
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	batches := make([]component.Batch, 0, s.Len())
	for start, idx := 0, 0; start < len(order); start, idx = start+s.batchSize, idx+1 {
		end := min(start+s.batchSize, len(order))
		batches = append(batches, component.Batch{Index: idx, Samples: order[start:end]})
	}
	return batches
}

package optim

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/vk/gantrain/internal/component"
)

// base carries the bookkeeping shared by every optimizer.
type base struct {
	group   component.ParamGroup
	lr      float64
	steps   int
	buffers map[string][]float64
}

func newBase(g component.ParamGroup, lr float64) base {
	return base{group: g, lr: lr, buffers: make(map[string][]float64)}
}

func (b *base) Group() component.ParamGroup { return b.group }
func (b *base) LR() float64                 { return b.lr }
func (b *base) SetLR(lr float64)            { b.lr = lr }
func (b *base) Steps() int                  { return b.steps }

func (b *base) ZeroGrad() {
	for _, p := range b.group.Params {
		p.ZeroGrad()
	}
}

// buffer returns the named state slot for p, allocating it on first use.
func (b *base) buffer(kind string, p *component.Param) []float64 {
	key := kind + ":" + p.Name
	buf, ok := b.buffers[key]
	if !ok {
		buf = make([]float64, len(p.Data))
		b.buffers[key] = buf
	}
	return buf
}

func (b *base) State() component.OptimizerState {
	st := component.OptimizerState{LR: b.lr, Steps: b.steps}
	if len(b.buffers) > 0 {
		st.Buffers = make(map[string][]float64, len(b.buffers))
		for k, v := range b.buffers {
			st.Buffers[k] = slices.Clone(v)
		}
	}
	return st
}

func (b *base) LoadState(st component.OptimizerState) error {
	sizes := make(map[string]int, len(b.group.Params))
	for _, p := range b.group.Params {
		sizes[p.Name] = len(p.Data)
	}

	buffers := make(map[string][]float64, len(st.Buffers))
	for _, key := range slices.Sorted(maps.Keys(st.Buffers)) {
		v := st.Buffers[key]
		kind, name, ok := strings.Cut(key, ":")
		if !ok || kind == "" || name == "" {
			return fmt.Errorf("optimizer state: malformed buffer key %q", key)
		}
		size, known := sizes[name]
		if !known {
			return fmt.Errorf("optimizer state: buffer %q refers to parameter %q outside group %s", key, name, b.group.Name)
		}
		if len(v) != size {
			return fmt.Errorf("optimizer state: buffer %q has %d values, parameter has %d", key, len(v), size)
		}
		buffers[key] = slices.Clone(v)
	}

	b.lr = st.LR
	b.steps = st.Steps
	b.buffers = buffers
	return nil
}

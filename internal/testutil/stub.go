package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/vk/gantrain/internal/component"
	"github.com/vk/gantrain/internal/registry"
)

// Type names registered by StubModule.
const (
	StubData      = "StubData"
	StubModel     = "StubModel"
	StubOptimizer = "StubOptimizer"
	StubScheduler = "StubScheduler"
	StubLoss      = "stub_loss"
	StubMetric    = "stub_metric"
	StubMetricAlt = "stub_metric_alt"
	// FailingModel always fails to construct.
	FailingModel = "FailingModel"
)

// ErrStubConstruction is returned by FailingModel.
var ErrStubConstruction = errors.New("stub construction failed")

// StubModule registers minimal components and counts constructor calls.
type StubModule struct {
	mu    sync.Mutex
	calls map[string]int
}

// NewStubModule creates a module with zeroed counters.
func NewStubModule() *StubModule {
	return &StubModule{calls: make(map[string]int)}
}

// Calls returns how many times the constructor for typeName ran.
func (m *StubModule) Calls(typeName string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[typeName]
}

// Total returns the number of constructor calls across all types.
func (m *StubModule) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

func (m *StubModule) record(typeName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[typeName]++
}

// StubDataOptions are the arguments of StubData.
type StubDataOptions struct {
	BatchSize int `cty:"batch_size" validate:"gt=0"`
}

// StubModelOptions are the arguments of StubModel.
type StubModelOptions struct {
	// Overlap puts the discriminator weight in both groups.
	Overlap bool `cty:"overlap"`
}

// StubOptimizerOptions are the arguments of StubOptimizer.
type StubOptimizerOptions struct {
	LR float64 `cty:"lr" validate:"gt=0"`
}

// Register registers the stub components with the registry.
func (m *StubModule) Register(r *registry.Registry) {
	r.DataSources.Register(StubData, registry.Constructor(
		func() *StubDataOptions { return &StubDataOptions{BatchSize: 4} },
		func(ctx context.Context, positional []any, o *StubDataOptions) (component.DataSource, error) {
			m.record(StubData)
			return &stubData{batchSize: o.BatchSize}, nil
		}))

	r.Models.Register(StubModel, registry.Constructor(nil,
		func(ctx context.Context, positional []any, o *StubModelOptions) (component.Model, error) {
			m.record(StubModel)
			return newStubModel(o.Overlap), nil
		}))
	r.Models.Register(FailingModel, &registry.Factory[component.Model]{
		New: func(ctx context.Context, positional []any, options any) (component.Model, error) {
			m.record(FailingModel)
			return nil, ErrStubConstruction
		},
	})

	r.Optimizers.Register(StubOptimizer, registry.Constructor(
		func() *StubOptimizerOptions { return &StubOptimizerOptions{LR: 0.1} },
		func(ctx context.Context, positional []any, o *StubOptimizerOptions) (component.Optimizer, error) {
			m.record(StubOptimizer)
			g, err := registry.Arg[component.ParamGroup](positional, 0)
			if err != nil {
				return nil, err
			}
			return &StubOptim{group: g, lr: o.LR}, nil
		}))

	r.Schedulers.Register(StubScheduler, &registry.Factory[component.Scheduler]{
		New: func(ctx context.Context, positional []any, options any) (component.Scheduler, error) {
			m.record(StubScheduler)
			opt, err := registry.Arg[component.Optimizer](positional, 0)
			if err != nil {
				return nil, err
			}
			return &stubScheduler{opt: opt}, nil
		},
	})

	r.Losses.Register(StubLoss, func(pred, target []float64) (float64, []float64) {
		return 0, make([]float64, len(pred))
	})
	r.Metrics.Register(StubMetric, func(pred, target []float64) float64 { return 1 })
	r.Metrics.Register(StubMetricAlt, func(pred, target []float64) float64 { return 0 })
}

type stubData struct{ batchSize int }

func (d *stubData) Len() int       { return 1 }
func (d *stubData) BatchSize() int { return d.batchSize }
func (d *stubData) Batches(epoch int) []component.Batch {
	return []component.Batch{{Index: 0, Samples: make([]float64, d.batchSize)}}
}

type stubModel struct {
	params  []*component.Param
	players component.Players
}

func newStubModel(overlap bool) *stubModel {
	gw := component.NewParam("g.w", true, 1)
	gb := component.NewParam("g.b", true, 0)
	dw := component.NewParam("d.w", true, 1)
	db := component.NewParam("d.b", true, 0)
	gen := []*component.Param{gw, gb}
	if overlap {
		gen = append(gen, dw)
	}
	return &stubModel{
		params: []*component.Param{gw, gb, dw, db},
		players: component.Players{
			Generator:     component.ParamGroup{Name: component.Generator, Params: gen},
			Discriminator: component.ParamGroup{Name: component.Discriminator, Params: []*component.Param{dw, db}},
		},
	}
}

func (s *stubModel) Parameters() []*component.Param { return s.params }
func (s *stubModel) Players() component.Players     { return s.players }

// StubOptim is the optimizer built by StubOptimizer. Step counts calls and
// leaves parameters untouched.
type StubOptim struct {
	group component.ParamGroup
	lr    float64
	steps int
}

func (o *StubOptim) Group() component.ParamGroup { return o.group }
func (o *StubOptim) Step()                       { o.steps++ }
func (o *StubOptim) LR() float64                 { return o.lr }
func (o *StubOptim) SetLR(lr float64)            { o.lr = lr }
func (o *StubOptim) Steps() int                  { return o.steps }

func (o *StubOptim) ZeroGrad() {
	for _, p := range o.group.Params {
		p.ZeroGrad()
	}
}

func (o *StubOptim) State() component.OptimizerState {
	return component.OptimizerState{LR: o.lr, Steps: o.steps}
}

func (o *StubOptim) LoadState(st component.OptimizerState) error {
	o.lr, o.steps = st.LR, st.Steps
	return nil
}

type stubScheduler struct {
	opt   component.Optimizer
	epoch int
}

func (s *stubScheduler) Optimizer() component.Optimizer { return s.opt }
func (s *stubScheduler) Step()                          { s.epoch++ }
func (s *stubScheduler) LastLR() float64                { return s.opt.LR() }
func (s *stubScheduler) Epoch() int                     { return s.epoch }
func (s *stubScheduler) SetEpoch(epoch int)             { s.epoch = epoch }

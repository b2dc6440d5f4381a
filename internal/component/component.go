package component

// Param is a named, flat block of trainable values with its gradient buffer.
type Param struct {
	Name      string
	Data      []float64
	Grad      []float64
	Trainable bool
}

// NewParam creates a parameter holding a copy of values and a zeroed gradient.
func NewParam(name string, trainable bool, values ...float64) *Param {
	data := make([]float64, len(values))
	copy(data, values)
	return &Param{
		Name:      name,
		Data:      data,
		Grad:      make([]float64, len(values)),
		Trainable: trainable,
	}
}

// ZeroGrad resets the gradient buffer in place.
func (p *Param) ZeroGrad() {
	for i := range p.Grad {
		p.Grad[i] = 0
	}
}

// Trainable filters params down to those that take part in optimization.
func Trainable(params []*Param) []*Param {
	out := make([]*Param, 0, len(params))
	for _, p := range params {
		if p.Trainable {
			out = append(out, p)
		}
	}
	return out
}

// Batch is one mini-batch of real samples.
type Batch struct {
	Index   int
	Samples []float64
}

// DataSource yields the batches of one epoch.
type DataSource interface {
	// Len is the number of batches per epoch.
	Len() int
	BatchSize() int
	// Batches returns the batches for the given epoch. Sources that shuffle
	// derive the order from the epoch so that runs are reproducible.
	Batches(epoch int) []Batch
}

// Model is the constructed architecture. Its Players split is a structural
// property of the model and is queried after construction.
type Model interface {
	Parameters() []*Param
	Players() Players
}

// OptimizerState is the serializable part of an optimizer.
type OptimizerState struct {
	LR      float64              `json:"lr"`
	Steps   int                  `json:"steps"`
	Buffers map[string][]float64 `json:"buffers,omitempty"`
}

// Optimizer updates exactly one parameter group.
type Optimizer interface {
	Group() ParamGroup
	// Step applies the accumulated gradients and advances the step counter.
	Step()
	ZeroGrad()
	LR() float64
	SetLR(lr float64)
	Steps() int
	State() OptimizerState
	LoadState(OptimizerState) error
}

// Scheduler adjusts the learning rate of exactly one optimizer.
type Scheduler interface {
	Optimizer() Optimizer
	// Step advances the schedule by one epoch.
	Step()
	LastLR() float64
	// Epoch is the number of completed schedule steps.
	Epoch() int
	// SetEpoch restores the schedule position and reapplies the learning rate.
	SetEpoch(epoch int)
}

// LossFunc reports the loss of pred against target and its gradient with
// respect to pred.
type LossFunc func(pred, target []float64) (loss float64, grad []float64)

// MetricFunc scores pred against target.
type MetricFunc func(pred, target []float64) float64

// StepResult is the outcome of one forward pass of the discriminator.
type StepResult struct {
	Loss   float64
	Pred   []float64
	Target []float64
}

// Adversarial is implemented by models that know how to compute the
// gradients of both players. Steps accumulate into Param.Grad and never
// update Param.Data.
type Adversarial interface {
	Model
	// DiscriminatorStep scores the batch against as many generated ones.
	DiscriminatorStep(batch []float64, loss LossFunc) StepResult
	// GeneratorStep generates n samples and pushes the discriminator towards
	// labelling them real.
	GeneratorStep(n int, loss LossFunc) StepResult
	// Evaluate is DiscriminatorStep without gradient accumulation.
	Evaluate(batch []float64, loss LossFunc) StepResult
}

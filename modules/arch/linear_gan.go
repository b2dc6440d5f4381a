package arch

import (
	"math"
	"math/rand/v2"

	"github.com/vk/gantrain/internal/component"
	"github.com/vk/gantrain/internal/seed"
)

// Parameter names exposed by LinearGAN.
const (
	GeneratorWeight     = "generator.weight"
	GeneratorBias       = "generator.bias"
	DiscriminatorWeight = "discriminator.weight"
	DiscriminatorBias   = "discriminator.bias"
)

// Seed stream slots.
const (
	initSlot  = 0
	noiseSlot = 1
)

// LinearGAN is a one-dimensional GAN. The generator maps noise z to a*z + b;
// the discriminator scores x as sigmoid(w*x + c).
type LinearGAN struct {
	genWeight  *component.Param
	genBias    *component.Param
	discWeight *component.Param
	discBias   *component.Param
	noise      *rand.Rand
}

// NewLinearGAN initializes every parameter from N(0, init_std²).
func NewLinearGAN(o Options) *LinearGAN {
	rng := seed.New(seed.Stream(seed.RoleModel, o.SeedOffset, initSlot))
	draw := func() float64 { return o.InitStd * rng.NormFloat64() }
	return &LinearGAN{
		genWeight:  component.NewParam(GeneratorWeight, true, 1+draw()),
		genBias:    component.NewParam(GeneratorBias, !o.FreezeGeneratorBias, draw()),
		discWeight: component.NewParam(DiscriminatorWeight, true, draw()),
		discBias:   component.NewParam(DiscriminatorBias, true, draw()),
		noise:      seed.New(seed.Stream(seed.RoleModel, o.SeedOffset, noiseSlot)),
	}
}

// Parameters returns every parameter, frozen ones included.
func (m *LinearGAN) Parameters() []*component.Param {
	return []*component.Param{m.genWeight, m.genBias, m.discWeight, m.discBias}
}

// Players splits the parameters by network. A frozen generator bias stays
// in the generator group and is skipped by its optimizer.
func (m *LinearGAN) Players() component.Players {
	return component.Players{
		Generator: component.ParamGroup{
			Name:   component.Generator,
			Params: []*component.Param{m.genWeight, m.genBias},
		},
		Discriminator: component.ParamGroup{
			Name:   component.Discriminator,
			Params: []*component.Param{m.discWeight, m.discBias},
		},
	}
}

// Generate maps noise to samples.
func (m *LinearGAN) Generate(z []float64) []float64 {
	out := make([]float64, len(z))
	for i, v := range z {
		out[i] = m.genWeight.Data[0]*v + m.genBias.Data[0]
	}
	return out
}

// Discriminate returns the probability that each x is real.
func (m *LinearGAN) Discriminate(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = sigmoid(m.discWeight.Data[0]*v + m.discBias.Data[0])
	}
	return out
}

func (m *LinearGAN) DiscriminatorStep(batch []float64, loss component.LossFunc) component.StepResult {
	x, pred, target := m.discriminate(batch)
	l, grad := loss(pred, target)
	for i, g := range grad {
		dlogit := g * pred[i] * (1 - pred[i])
		m.discWeight.Grad[0] += dlogit * x[i]
		m.discBias.Grad[0] += dlogit
	}
	return component.StepResult{Loss: l, Pred: pred, Target: target}
}

func (m *LinearGAN) GeneratorStep(n int, loss component.LossFunc) component.StepResult {
	z := m.sample(n)
	pred := m.Discriminate(m.Generate(z))
	target := fill(n, 1)
	l, grad := loss(pred, target)

	w := m.discWeight.Data[0]
	for i, g := range grad {
		dx := g * pred[i] * (1 - pred[i]) * w
		if m.genWeight.Trainable {
			m.genWeight.Grad[0] += dx * z[i]
		}
		if m.genBias.Trainable {
			m.genBias.Grad[0] += dx
		}
	}
	return component.StepResult{Loss: l, Pred: pred, Target: target}
}

func (m *LinearGAN) Evaluate(batch []float64, loss component.LossFunc) component.StepResult {
	_, pred, target := m.discriminate(batch)
	l, _ := loss(pred, target)
	return component.StepResult{Loss: l, Pred: pred, Target: target}
}

// discriminate scores batch samples followed by as many generated ones.
func (m *LinearGAN) discriminate(batch []float64) (x, pred, target []float64) {
	fake := m.Generate(m.sample(len(batch)))
	x = make([]float64, 0, 2*len(batch))
	x = append(x, batch...)
	x = append(x, fake...)

	target = fill(len(x), 0)
	for i := range batch {
		target[i] = 1
	}
	return x, m.Discriminate(x), target
}

func (m *LinearGAN) sample(n int) []float64 {
	z := make([]float64, n)
	for i := range z {
		z[i] = m.noise.NormFloat64()
	}
	return z
}

func sigmoid(v float64) float64 {
	if v >= 0 {
		return 1 / (1 + math.Exp(-v))
	}
	e := math.Exp(v)
	return e / (1 + e)
}

func fill(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

var _ component.Adversarial = (*LinearGAN)(nil)

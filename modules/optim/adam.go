package optim

import (
	"math"

	"github.com/vk/gantrain/internal/component"
)

// AdamOptions are the arguments of Adam.
type AdamOptions struct {
	LR          float64   `cty:"lr" validate:"gt=0"`
	Betas       []float64 `cty:"betas" validate:"len=2,dive,gte=0,lt=1"`
	Eps         float64   `cty:"eps" validate:"gt=0"`
	WeightDecay float64   `cty:"weight_decay" validate:"gte=0"`
	AMSGrad     bool      `cty:"amsgrad"`
}

func defaultAdam() *AdamOptions {
	return &AdamOptions{LR: 0.001, Betas: []float64{0.9, 0.999}, Eps: 1e-8}
}

// Adam implements the Adam update with bias correction.
type Adam struct {
	base
	opts AdamOptions
}

// NewAdam binds an Adam optimizer to g.
func NewAdam(g component.ParamGroup, o AdamOptions) *Adam {
	return &Adam{base: newBase(g, o.LR), opts: o}
}

func (a *Adam) Step() {
	b1, b2 := a.opts.Betas[0], a.opts.Betas[1]
	t := float64(a.steps + 1)
	c1 := 1 - math.Pow(b1, t)
	c2 := 1 - math.Pow(b2, t)

	for _, p := range a.group.Params {
		if !p.Trainable {
			continue
		}
		m := a.buffer("exp_avg", p)
		v := a.buffer("exp_avg_sq", p)
		var vmax []float64
		if a.opts.AMSGrad {
			vmax = a.buffer("max_exp_avg_sq", p)
		}
		for i, g := range p.Grad {
			g += a.opts.WeightDecay * p.Data[i]
			m[i] = b1*m[i] + (1-b1)*g
			v[i] = b2*v[i] + (1-b2)*g*g
			second := v[i]
			if vmax != nil {
				vmax[i] = math.Max(vmax[i], v[i])
				second = vmax[i]
			}
			p.Data[i] -= a.lr * (m[i] / c1) / (math.Sqrt(second/c2) + a.opts.Eps)
		}
	}
	a.steps++
}

var _ component.Optimizer = (*Adam)(nil)

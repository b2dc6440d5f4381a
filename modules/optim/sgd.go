package optim

import "github.com/vk/gantrain/internal/component"

// SGDOptions are the arguments of SGD.
type SGDOptions struct {
	LR          float64 `cty:"lr" validate:"gt=0"`
	Momentum    float64 `cty:"momentum" validate:"gte=0,lt=1"`
	WeightDecay float64 `cty:"weight_decay" validate:"gte=0"`
	Nesterov    bool    `cty:"nesterov"`
}

func defaultSGD() *SGDOptions {
	return &SGDOptions{LR: 0.01}
}

// SGD is stochastic gradient descent with optional momentum.
type SGD struct {
	base
	opts SGDOptions
}

// NewSGD binds an SGD optimizer to g.
func NewSGD(g component.ParamGroup, o SGDOptions) *SGD {
	return &SGD{base: newBase(g, o.LR), opts: o}
}

func (s *SGD) Step() {
	for _, p := range s.group.Params {
		if !p.Trainable {
			continue
		}
		for i, g := range p.Grad {
			g += s.opts.WeightDecay * p.Data[i]
			if s.opts.Momentum > 0 {
				v := s.buffer("momentum", p)
				if s.steps == 0 {
					v[i] = g
				} else {
					v[i] = s.opts.Momentum*v[i] + g
				}
				if s.opts.Nesterov {
					g += s.opts.Momentum * v[i]
				} else {
					g = v[i]
				}
			}
			p.Data[i] -= s.lr * g
		}
	}
	s.steps++
}

var _ component.Optimizer = (*SGD)(nil)

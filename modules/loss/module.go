// Package loss provides loss functions. Each returns the mean loss over the
// batch and its gradient with respect to the predictions.
package loss

import (
	"math"

	"github.com/vk/gantrain/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

const clamp = 1e-12

// BCE is the binary cross-entropy of probabilities pred against 0/1 targets.
func BCE(pred, target []float64) (float64, []float64) {
	grad := make([]float64, len(pred))
	if len(pred) == 0 {
		return 0, grad
	}
	n := float64(len(pred))
	var total float64
	for i, p := range pred {
		p = math.Min(math.Max(p, clamp), 1-clamp)
		total -= target[i]*math.Log(p) + (1-target[i])*math.Log(1-p)
		grad[i] = (p - target[i]) / (p * (1 - p)) / n
	}
	return total / n, grad
}

// MSE is the mean squared error.
func MSE(pred, target []float64) (float64, []float64) {
	grad := make([]float64, len(pred))
	if len(pred) == 0 {
		return 0, grad
	}
	n := float64(len(pred))
	var total float64
	for i, p := range pred {
		d := p - target[i]
		total += d * d
		grad[i] = 2 * d / n
	}
	return total / n, grad
}

// Register registers the loss functions with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Losses.Register("bce_loss", BCE)
	r.Losses.Register("mse_loss", MSE)
}

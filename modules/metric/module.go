// Package metric provides evaluation metrics for binary predictions.
// Predictions and targets at or above Threshold count as positive.
package metric

import "github.com/vk/gantrain/internal/registry"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Threshold separates positive from negative predictions.
const Threshold = 0.5

type confusion struct{ tp, fp, tn, fn float64 }

func count(pred, target []float64) confusion {
	var c confusion
	for i, p := range pred {
		switch yp, yt := p >= Threshold, target[i] >= Threshold; {
		case yp && yt:
			c.tp++
		case yp:
			c.fp++
		case yt:
			c.fn++
		default:
			c.tn++
		}
	}
	return c
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Accuracy is the fraction of correct predictions.
func Accuracy(pred, target []float64) float64 {
	c := count(pred, target)
	return ratio(c.tp+c.tn, float64(len(pred)))
}

// Precision is tp / (tp + fp).
func Precision(pred, target []float64) float64 {
	c := count(pred, target)
	return ratio(c.tp, c.tp+c.fp)
}

// Recall is tp / (tp + fn).
func Recall(pred, target []float64) float64 {
	c := count(pred, target)
	return ratio(c.tp, c.tp+c.fn)
}

// F1 is the harmonic mean of precision and recall.
func F1(pred, target []float64) float64 {
	c := count(pred, target)
	return ratio(2*c.tp, 2*c.tp+c.fp+c.fn)
}

// Register registers the metric functions with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Metrics.Register("accuracy", Accuracy)
	r.Metrics.Register("precision", Precision)
	r.Metrics.Register("recall", Recall)
	r.Metrics.Register("f1", F1)
}

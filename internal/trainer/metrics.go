package trainer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vk/gantrain/internal/session"
)

// Metric label constants.
const (
	labelKey    = "key"
	labelPlayer = "player"
)

// Metrics publishes training progress.
type Metrics struct {
	Epoch        prometheus.Gauge
	Values       *prometheus.GaugeVec
	LearningRate *prometheus.GaugeVec
	Batches      prometheus.Counter
	Checkpoints  prometheus.Counter
}

// NewMetrics creates unregistered collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		Epoch: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gantrain_epoch",
			Help: "Last completed training epoch",
		}),
		Values: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gantrain_epoch_value",
			Help: "Epoch-averaged losses and metrics, by log key",
		}, []string{labelKey}),
		LearningRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gantrain_learning_rate",
			Help: "Current learning rate, by player",
		}, []string{labelPlayer}),
		Batches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gantrain_batches_total",
			Help: "Total number of training batches processed",
		}),
		Checkpoints: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gantrain_checkpoints_total",
			Help: "Total number of checkpoint files written",
		}),
	}
}

// Register registers all collectors with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Epoch, m.Values, m.LearningRate, m.Batches, m.Checkpoints} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) observe(epoch int, log *Log, sess *session.Session) {
	m.Epoch.Set(float64(epoch))
	for _, k := range log.Keys() {
		v, _ := log.Get(k)
		m.Values.WithLabelValues(k).Set(v)
	}
	for _, p := range sess.Players() {
		m.LearningRate.WithLabelValues(p.Role).Set(p.Optimizer.LR())
	}
}

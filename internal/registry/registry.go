package registry

import (
	"github.com/vk/gantrain/internal/component"
)

// Role names, matching the document sections they serve.
const (
	RoleDataSource = "data_loader"
	RoleModel      = "arch"
	RoleOptimizer  = "optimizer"
	RoleScheduler  = "lr_scheduler"
	RoleLoss       = "loss"
	RoleMetric     = "metrics"
)

// Module is implemented by every package that contributes components.
type Module interface {
	Register(r *Registry)
}

// Registry holds one namespace per role for a single application instance.
type Registry struct {
	DataSources *Namespace[component.DataSource]
	Models      *Namespace[component.Model]
	Optimizers  *Namespace[component.Optimizer]
	Schedulers  *Namespace[component.Scheduler]
	Losses      *Handles[component.LossFunc]
	Metrics     *Handles[component.MetricFunc]
}

// New creates a registry with empty namespaces and registers modules into it.
func New(modules ...Module) *Registry {
	r := &Registry{
		DataSources: NewNamespace[component.DataSource](RoleDataSource),
		Models:      NewNamespace[component.Model](RoleModel),
		Optimizers:  NewNamespace[component.Optimizer](RoleOptimizer),
		Schedulers:  NewNamespace[component.Scheduler](RoleScheduler),
		Losses:      NewHandles[component.LossFunc](RoleLoss),
		Metrics:     NewHandles[component.MetricFunc](RoleMetric),
	}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Summary reports the registered names per role, for startup logging.
func (r *Registry) Summary() map[string][]string {
	return map[string][]string{
		RoleDataSource: r.DataSources.Names(),
		RoleModel:      r.Models.Names(),
		RoleOptimizer:  r.Optimizers.Names(),
		RoleScheduler:  r.Schedulers.Names(),
		RoleLoss:       r.Losses.Names(),
		RoleMetric:     r.Metrics.Names(),
	}
}

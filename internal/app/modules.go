package app

import (
	"github.com/vk/gantrain/internal/registry"
	"github.com/vk/gantrain/modules/arch"
	"github.com/vk/gantrain/modules/data"
	"github.com/vk/gantrain/modules/loss"
	"github.com/vk/gantrain/modules/metric"
	"github.com/vk/gantrain/modules/optim"
)

// coreModules is the definitive list of all modules that are compiled into
// the gantrain binary.
var coreModules = []registry.Module{
	&data.Module{},
	&arch.Module{},
	&optim.Module{},
	&loss.Module{},
	&metric.Module{},
}

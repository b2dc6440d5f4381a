package app

import (
	"github.com/vk/gantrain/internal/config"
	"github.com/vk/gantrain/internal/override"
)

// DefaultOverrides are the command-line overrides the binary accepts.
var DefaultOverrides = []override.Spec{
	{
		Flags:  []string{"lr", "learning_rate"},
		Type:   override.Float,
		Target: config.MustParsePath("optimizer;args;lr"),
		Help:   "Override the optimizer learning rate (optimizer;args;lr).",
	},
	{
		Flags:  []string{"bs", "batch_size"},
		Type:   override.Int,
		Target: config.MustParsePath("data_loader;args;batch_size"),
		Help:   "Override the training batch size (data_loader;args;batch_size).",
	},
}

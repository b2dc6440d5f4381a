package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vk/gantrain/internal/override"
)

// Defaults for paths the user may leave out.
const (
	DefaultConfigPath = "config.json"
	DefaultSaveDir    = "saved"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ConfigPath is the document to load. When empty it defaults to the
	// config.json next to the resumed checkpoint, or DefaultConfigPath.
	ConfigPath string
	Resume     string
	Device     string
	// RunID names the run directories; empty means a timestamp.
	RunID     string `validate:"omitempty,excludesall=/\\"`
	SaveDir   string `validate:"required"`
	Overrides []override.Value
	Seed      uint64

	LogFormat       string `validate:"oneof=text json"`
	LogLevel        string `validate:"oneof=debug info warn error"`
	HealthcheckPort int    `validate:"gte=0,lte=65535"`
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(&cfg)
	if err == nil {
		return &cfg, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs = append(msgs, fmt.Sprintf("%s fails %s (got %q)", fe.Field(), rule, fmt.Sprint(fe.Value())))
	}
	return nil, fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/gantrain/internal/app"
	"github.com/vk/gantrain/internal/override"
	"github.com/vk/gantrain/internal/seed"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an error.
// Usage errors are ExitErrors; an override value its coercion rejects is an
// *override.InvalidOverrideError naming the target path.
// Override flags are recorded in command-line order so that a repeated
// override resolves to its last value.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("gantrain", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
gantrain - Config-driven GAN training.

Usage:
  gantrain [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	var configPath, resume, device, runID string
	flagSet.StringVar(&configPath, "config", "", "Config file path (default \""+app.DefaultConfigPath+"\", or the config.json next to --resume).")
	flagSet.StringVar(&configPath, "c", "", "Config file path (shorthand).")
	flagSet.StringVar(&resume, "resume", "", "Path to a checkpoint file or checkpoint directory to resume from.")
	flagSet.StringVar(&resume, "r", "", "Resume path (shorthand).")
	flagSet.StringVar(&device, "device", "", "Device label recorded with the run.")
	flagSet.StringVar(&device, "d", "", "Device label (shorthand).")
	flagSet.StringVar(&runID, "log", "", "Run label naming the run directories. Defaults to a timestamp.")
	flagSet.StringVar(&runID, "l", "", "Run label (shorthand).")

	saveDirFlag := flagSet.String("save-dir", app.DefaultSaveDir, "Root directory for models and logs.")
	seedFlag := flagSet.Uint64("seed", seed.Default, "Random seed.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	var overrides []override.Value
	var overrideErr *override.InvalidOverrideError
	for _, spec := range app.DefaultOverrides {
		for _, alias := range spec.Flags {
			flagSet.Func(alias, spec.Usage(), func(raw string) error {
				if _, err := spec.Type(raw); err != nil {
					overrideErr = &override.InvalidOverrideError{Flag: alias, Target: spec.Target.String(), Raw: raw, Err: err}
					return overrideErr
				}
				overrides = append(overrides, override.Value{Flag: alias, Raw: raw})
				return nil
			})
		}
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		if overrideErr != nil {
			return nil, false, overrideErr
		}
		return nil, false, usageError("%s", err.Error())
	}
	if flagSet.NArg() > 0 {
		return nil, false, usageError("unexpected arguments: %s", strings.Join(flagSet.Args(), " "))
	}
	slog.Debug("Arguments parsed successfully.", "overrides", len(overrides))

	cfg, err := app.NewConfig(app.Config{
		ConfigPath:      configPath,
		Resume:          resume,
		Device:          device,
		RunID:           runID,
		SaveDir:         *saveDirFlag,
		Overrides:       overrides,
		Seed:            *seedFlag,
		LogFormat:       strings.ToLower(*logFormatFlag),
		LogLevel:        strings.ToLower(*logLevelFlag),
		HealthcheckPort: *healthPortFlag,
	})
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}

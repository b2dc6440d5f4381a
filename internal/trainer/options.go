package trainer

import (
	"fmt"
	"strings"
)

// Options are read from the optional "trainer" section.
type Options struct {
	Epochs     int `cty:"epochs" validate:"gt=0"`
	SavePeriod int `cty:"save_period" validate:"gt=0"`
	// EarlyStop is the number of epochs without improvement tolerated
	// before stopping; 0 disables it.
	EarlyStop int `cty:"early_stop" validate:"gte=0"`
	// Monitor is "off" or "<min|max> <log key>", e.g. "min val_loss".
	Monitor string `cty:"monitor"`
}

// DefaultOptions are used for keys the document leaves out.
func DefaultOptions() *Options {
	return &Options{Epochs: 10, SavePeriod: 5, Monitor: "off"}
}

type monitor struct {
	mode string // "min", "max" or "" when off
	key  string
}

func parseMonitor(s string) (monitor, error) {
	fields := strings.Fields(s)
	switch {
	case len(fields) == 0, len(fields) == 1 && fields[0] == "off":
		return monitor{}, nil
	case len(fields) == 2 && (fields[0] == "min" || fields[0] == "max"):
		return monitor{mode: fields[0], key: fields[1]}, nil
	}
	return monitor{}, fmt.Errorf("monitor %q: expected \"off\" or \"<min|max> <metric>\"", s)
}

func (m monitor) off() bool { return m.mode == "" }

func (m monitor) better(v, best float64) bool {
	if m.mode == "min" {
		return v < best
	}
	return v > best
}

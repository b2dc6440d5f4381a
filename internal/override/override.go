package override

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/gantrain/internal/config"
	"github.com/vk/gantrain/internal/ctxlog"
)

var errUnknownFlag = errors.New("no override declares this flag")

// Spec declares a command-line override.
type Spec struct {
	// Flags are the aliases without leading dashes, e.g. "lr", "learning_rate".
	Flags  []string
	Type   Coercion
	Target config.Path
	Help   string
}

// Usage is the help text shown for each of the override's flags.
func (s Spec) Usage() string {
	if s.Help != "" {
		return s.Help
	}
	return fmt.Sprintf("override %s", s.Target)
}

// Value is one override flag as supplied on the command line.
type Value struct {
	Flag string
	Raw  string
}

// Index maps every alias to its spec, rejecting aliases declared twice.
func Index(specs []Spec) (map[string]Spec, error) {
	byFlag := make(map[string]Spec)
	for _, s := range specs {
		if len(s.Flags) == 0 {
			return nil, fmt.Errorf("override for %s declares no flags", s.Target)
		}
		if s.Type == nil {
			return nil, fmt.Errorf("override for %s declares no type", s.Target)
		}
		for _, f := range s.Flags {
			if prev, ok := byFlag[f]; ok {
				return nil, fmt.Errorf("flag --%s declared for both %s and %s", f, prev.Target, s.Target)
			}
			byFlag[f] = s
		}
	}
	return byFlag, nil
}

// Apply returns a document in which every supplied value replaces the content
// at its spec's target. Values are applied in order, so a later alias for the
// same target wins. doc is not modified.
func Apply(ctx context.Context, doc *config.Document, specs []Spec, values []Value) (*config.Document, error) {
	logger := ctxlog.FromContext(ctx)

	byFlag, err := Index(specs)
	if err != nil {
		return nil, err
	}

	out := doc
	for _, v := range values {
		spec, ok := byFlag[v.Flag]
		if !ok {
			return nil, &InvalidOverrideError{Flag: v.Flag, Raw: v.Raw, Err: errUnknownFlag}
		}

		coerced, err := spec.Type(v.Raw)
		if err != nil {
			return nil, &InvalidOverrideError{Flag: v.Flag, Target: spec.Target.String(), Raw: v.Raw, Err: err}
		}

		next, err := out.With(spec.Target, coerced)
		if err != nil {
			return nil, &InvalidOverrideError{Flag: v.Flag, Target: spec.Target.String(), Raw: v.Raw, Err: err}
		}
		logger.Debug("Applied configuration override.", "flag", v.Flag, "target", spec.Target.String(), "value", v.Raw)
		out = next
	}
	return out, nil
}

package resolver

import (
	"fmt"
	"strings"
)

// UnknownComponentError reports a configured type name that is not
// registered in the namespace for its section.
type UnknownComponentError struct {
	Section   string
	Namespace string
	Type      string
	Known     []string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("section %q: unknown %s type %q (known: %s)",
		e.Section, e.Namespace, e.Type, strings.Join(e.Known, ", "))
}

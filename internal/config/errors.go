package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPathNotFound is returned when a Path does not address an existing value.
var ErrPathNotFound = errors.New("path not found in configuration")

// MalformedConfigError reports a document that cannot be parsed or whose
// shape does not satisfy the harness, e.g. a missing required section.
type MalformedConfigError struct {
	Source  string // file the document came from, if any
	Section string // offending top-level section, if known
	Reason  string
	Err     error
}

func (e *MalformedConfigError) Error() string {
	var b strings.Builder
	b.WriteString("malformed configuration")
	if e.Source != "" {
		fmt.Fprintf(&b, " %s", e.Source)
	}
	if e.Section != "" {
		fmt.Fprintf(&b, ": section %q", e.Section)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *MalformedConfigError) Unwrap() error {
	return e.Err
}

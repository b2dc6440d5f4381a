package assembler

import (
	"fmt"
	"strings"
)

// UnknownLossError reports a loss name missing from the loss namespace.
type UnknownLossError struct {
	Name  string
	Known []string
}

func (e *UnknownLossError) Error() string {
	return fmt.Sprintf("section \"loss\": unknown loss %q (known: %s)", e.Name, strings.Join(e.Known, ", "))
}

// UnknownMetricError reports a metric name missing from the metric namespace.
type UnknownMetricError struct {
	Name  string
	Index int
	Known []string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("section \"metrics\"[%d]: unknown metric %q (known: %s)", e.Index, e.Name, strings.Join(e.Known, ", "))
}

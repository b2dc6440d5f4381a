package override

import "fmt"

// InvalidOverrideError reports a command-line value that cannot be coerced,
// a flag no Spec declares, or a target path absent from the document.
type InvalidOverrideError struct {
	Flag   string
	Target string
	Raw    string
	Err    error
}

func (e *InvalidOverrideError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("invalid override --%s=%q: %v", e.Flag, e.Raw, e.Err)
	}
	return fmt.Sprintf("invalid override --%s=%q for %s: %v", e.Flag, e.Raw, e.Target, e.Err)
}

func (e *InvalidOverrideError) Unwrap() error {
	return e.Err
}

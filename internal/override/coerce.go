package override

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Coercion converts the raw flag text into a document value.
type Coercion func(raw string) (cty.Value, error)

// Float parses a floating point number.
func Float(raw string) (cty.Value, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return cty.NilVal, fmt.Errorf("not a number: %w", err)
	}
	return cty.NumberFloatVal(f), nil
}

// Int parses a base-10 integer; fractional input is rejected.
func Int(raw string) (cty.Value, error) {
	i, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return cty.NilVal, fmt.Errorf("not an integer: %w", err)
	}
	return cty.NumberIntVal(i), nil
}

// Bool parses the forms accepted by strconv.ParseBool.
func Bool(raw string) (cty.Value, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return cty.NilVal, fmt.Errorf("not a boolean: %w", err)
	}
	return cty.BoolVal(b), nil
}

// String keeps the text as is.
func String(raw string) (cty.Value, error) {
	return cty.StringVal(raw), nil
}

package resolver

import "github.com/zclconf/go-cty/cty"

// MergeArgs returns a new map holding configured overlaid with overrides.
// On a key collision the override wins. Neither input is modified.
func MergeArgs(configured, overrides map[string]cty.Value) map[string]cty.Value {
	merged := make(map[string]cty.Value, len(configured)+len(overrides))
	for k, v := range configured {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

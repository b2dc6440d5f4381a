// Package override merges command-line flags into a configuration document
// before any component is resolved. Each Spec ties one or more flag aliases
// to a coercion function and a nested target path.
package override

package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the document at path. Syntax errors and missing required
	// sections are reported as *MalformedConfigError.
	Load(ctx context.Context, path string) (*Document, error)
}

// Converter binds configured keyword arguments to the Go option structs
// declared by component constructors.
type Converter interface {
	// DecodeArgs decodes args into target, which must be a pointer to a
	// struct with `cty` field tags. Fields without a matching key keep their
	// current (default) value; keys without a matching field are an error.
	// Validation tags on the struct are checked after decoding.
	DecodeArgs(ctx context.Context, args map[string]cty.Value, target any) error

	// ToCtyValue converts a native Go value into its cty.Value form.
	ToCtyValue(v any) (cty.Value, error)
}

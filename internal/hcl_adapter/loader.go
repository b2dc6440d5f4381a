package hcl_adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/gantrain/internal/config"
	"github.com/vk/gantrain/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"sigs.k8s.io/yaml"
)

// Loader is the HCL-backed implementation of config.Loader.
type Loader struct {
	functions map[string]function.Function
}

// NewLoader creates a loader whose HCL expressions may call a small set of
// numeric and collection functions (min, max, abs, ceil, floor, concat).
func NewLoader() *Loader {
	return &Loader{
		functions: map[string]function.Function{
			"abs":    stdlib.AbsoluteFunc,
			"ceil":   stdlib.CeilFunc,
			"concat": stdlib.ConcatFunc,
			"floor":  stdlib.FloorFunc,
			"max":    stdlib.MaxFunc,
			"min":    stdlib.MinFunc,
		},
	}
}

// Load reads, evaluates and validates the document at path.
func (l *Loader) Load(ctx context.Context, path string) (*config.Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Configuration loader started.", "path", path)

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read configuration %s: %w", path, err)
	}

	file, diags := l.parse(path)
	if diags.HasErrors() {
		return nil, &config.MalformedConfigError{Source: path, Reason: "failed to parse", Err: diags}
	}

	root, err := l.evaluate(file.Body)
	if err != nil {
		return nil, &config.MalformedConfigError{Source: path, Reason: "failed to evaluate", Err: err}
	}

	doc, err := config.NewDocument(path, root)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("Configuration loaded.", "path", path, "sections", doc.Sections())
	return doc, nil
}

// parse dispatches on the file extension.
func (l *Loader) parse(path string) (*hcl.File, hcl.Diagnostics) {
	parser := hclparse.NewParser()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		return parser.ParseHCLFile(path)
	case ".json":
		return parser.ParseJSONFile(path)
	case ".yaml", ".yml":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errorDiags(path, "Failed to read file", err)
		}
		js, err := yaml.YAMLToJSON(raw)
		if err != nil {
			return nil, errorDiags(path, "Invalid YAML", err)
		}
		return parser.ParseJSON(js, path)
	default:
		return nil, errorDiags(path, "Unsupported file type",
			fmt.Errorf("extension %q is not one of .hcl, .json, .yaml, .yml", ext))
	}
}

// evaluate turns the top-level attributes of body into a single object.
func (l *Loader) evaluate(body hcl.Body) (cty.Value, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return cty.NilVal, diags
	}

	evalCtx := &hcl.EvalContext{Functions: l.functions}
	values := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return cty.NilVal, fmt.Errorf("section %q: %w", name, diags)
		}
		values[name] = val
	}
	return cty.ObjectVal(values), nil
}

func errorDiags(path, summary string, err error) hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   err.Error(),
		Subject:  &hcl.Range{Filename: path},
	}}
}

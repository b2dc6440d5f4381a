package config

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Top-level section names understood by the harness.
const (
	SectionDataLoader     = "data_loader"
	SectionTestDataLoader = "test_data_loader"
	SectionArch           = "arch"
	SectionLoss           = "loss"
	SectionMetrics        = "metrics"
	SectionOptimizer      = "optimizer"
	SectionLRScheduler    = "lr_scheduler"
	SectionTrainer        = "trainer"
	SectionName           = "name"
)

// RequiredSections must be present in every document.
var RequiredSections = []string{
	SectionDataLoader,
	SectionTestDataLoader,
	SectionArch,
	SectionLoss,
	SectionMetrics,
	SectionOptimizer,
	SectionLRScheduler,
}

// DefaultRunName is used when the document carries no "name".
const DefaultRunName = "GAN"

// Document is an immutable configuration tree.
type Document struct {
	source string
	root   cty.Value
}

// Section is a resolvable block of the shape {type = "...", args = {...}}.
type Section struct {
	Name string
	Type string
	Args map[string]cty.Value
}

// NewDocument wraps root, which must be a known, non-null object or map.
// Required sections are not checked here; see Validate.
func NewDocument(source string, root cty.Value) (*Document, error) {
	if root == cty.NilVal || root.IsNull() || !root.IsWhollyKnown() {
		return nil, &MalformedConfigError{Source: source, Reason: "document is empty"}
	}
	if ty := root.Type(); !ty.IsObjectType() && !ty.IsMapType() {
		return nil, &MalformedConfigError{Source: source, Reason: fmt.Sprintf("document root must be an object, got %s", ty.FriendlyName())}
	}
	return &Document{source: source, root: root}, nil
}

// Source is the file the document was loaded from.
func (d *Document) Source() string { return d.source }

// Value exposes the underlying tree.
func (d *Document) Value() cty.Value { return d.root }

// Has reports whether the top-level section exists.
func (d *Document) Has(name string) bool {
	_, ok := child(d.root, name)
	return ok
}

// Sections lists the top-level keys in sorted order.
func (d *Document) Sections() []string {
	keys := make([]string, 0)
	for k := range d.root.AsValueMap() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value at p.
func (d *Document) Get(p Path) (cty.Value, error) {
	return Lookup(d.root, p)
}

// With returns a new document in which the existing value at p is replaced by v.
func (d *Document) With(p Path, v cty.Value) (*Document, error) {
	root, err := Replace(d.root, p, v)
	if err != nil {
		return nil, err
	}
	return &Document{source: d.source, root: root}, nil
}

// Section decodes the named {type, args} block.
func (d *Document) Section(name string) (Section, error) {
	v, ok := child(d.root, name)
	if !ok {
		return Section{}, d.malformed(name, "missing required section", nil)
	}
	if v.IsNull() || !(v.Type().IsObjectType() || v.Type().IsMapType()) {
		return Section{}, d.malformed(name, "section must be an object with 'type' and 'args'", nil)
	}

	typeVal, ok := child(v, "type")
	if !ok || typeVal.IsNull() || typeVal.Type() != cty.String || typeVal.AsString() == "" {
		return Section{}, d.malformed(name, "'type' must be a non-empty string", nil)
	}

	args := map[string]cty.Value{}
	if argsVal, ok := child(v, "args"); ok && !argsVal.IsNull() {
		if !argsVal.Type().IsObjectType() && !argsVal.Type().IsMapType() {
			return Section{}, d.malformed(name, "'args' must be an object", nil)
		}
		for k, av := range argsVal.AsValueMap() {
			args[k] = av
		}
	}

	return Section{Name: name, Type: typeVal.AsString(), Args: args}, nil
}

// String returns a top-level string value, such as the loss name.
func (d *Document) String(name string) (string, error) {
	v, ok := child(d.root, name)
	if !ok {
		return "", d.malformed(name, "missing required section", nil)
	}
	if v.IsNull() || v.Type() != cty.String {
		return "", d.malformed(name, "value must be a string", nil)
	}
	return v.AsString(), nil
}

// Strings returns a top-level ordered sequence of strings, such as the
// metric names. Order and duplicates are preserved.
func (d *Document) Strings(name string) ([]string, error) {
	v, ok := child(d.root, name)
	if !ok {
		return nil, d.malformed(name, "missing required section", nil)
	}
	ty := v.Type()
	if v.IsNull() || !(ty.IsListType() || ty.IsTupleType()) {
		return nil, d.malformed(name, "value must be a list of strings", nil)
	}
	out := make([]string, 0, v.LengthInt())
	for i, elem := range v.AsValueSlice() {
		if elem.IsNull() || elem.Type() != cty.String {
			return nil, d.malformed(name, fmt.Sprintf("element %d must be a string", i), nil)
		}
		out = append(out, elem.AsString())
	}
	return out, nil
}

// Name is the run name, DefaultRunName when unset.
func (d *Document) Name() string {
	if v, ok := child(d.root, SectionName); ok && !v.IsNull() && v.Type() == cty.String && v.AsString() != "" {
		return v.AsString()
	}
	return DefaultRunName
}

// OptionalArgs returns the args of an optional section; a missing section
// yields an empty map and no error.
func (d *Document) OptionalArgs(name string) (map[string]cty.Value, error) {
	v, ok := child(d.root, name)
	if !ok || v.IsNull() {
		return map[string]cty.Value{}, nil
	}
	if !v.Type().IsObjectType() && !v.Type().IsMapType() {
		return nil, d.malformed(name, "section must be an object", nil)
	}
	out := map[string]cty.Value{}
	for k, av := range v.AsValueMap() {
		out[k] = av
	}
	return out, nil
}

// JSON renders the document as plain JSON.
func (d *Document) JSON() ([]byte, error) {
	return ctyjson.SimpleJSONValue{Value: d.root}.MarshalJSON()
}

func (d *Document) malformed(section, reason string, err error) error {
	return &MalformedConfigError{Source: d.source, Section: section, Reason: reason, Err: err}
}

package resolver

import (
	"context"
	"fmt"

	"github.com/vk/gantrain/internal/config"
	"github.com/vk/gantrain/internal/ctxlog"
	"github.com/vk/gantrain/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Resolver binds a document to the converter used for keyword arguments.
type Resolver struct {
	doc  *config.Document
	conv config.Converter
}

// New creates a resolver over doc.
func New(doc *config.Document, conv config.Converter) *Resolver {
	return &Resolver{doc: doc, conv: conv}
}

// Document returns the document the resolver reads from.
func (r *Resolver) Document() *config.Document { return r.doc }

// Resolve constructs the component configured under section using ns.
func Resolve[T any](ctx context.Context, r *Resolver, section string, ns *registry.Namespace[T], positional ...any) (T, error) {
	return ResolveWith(ctx, r, section, ns, nil, positional...)
}

// ResolveWith is Resolve with keyword overrides that take precedence over
// the configured args. Overrides carry runtime-only values that cannot be
// written in the document.
func ResolveWith[T any](ctx context.Context, r *Resolver, section string, ns *registry.Namespace[T], overrides map[string]cty.Value, positional ...any) (T, error) {
	var zero T
	logger := ctxlog.FromContext(ctx).With("section", section, "namespace", ns.Role())

	sec, err := r.doc.Section(section)
	if err != nil {
		return zero, err
	}

	factory, err := Lookup(section, sec.Type, ns)
	if err != nil {
		return zero, err
	}

	args := MergeArgs(sec.Args, overrides)
	logger.Debug("Resolving component.", "type", sec.Type, "positional", len(positional), "args", len(args))

	var options any
	if factory.Options != nil {
		options = factory.Options()
		if err := r.conv.DecodeArgs(ctx, args, options); err != nil {
			return zero, fmt.Errorf("section %q (%s): %w", section, sec.Type, err)
		}
	} else if len(args) > 0 {
		return zero, fmt.Errorf("section %q (%s): type accepts no arguments", section, sec.Type)
	}

	instance, err := factory.New(ctx, positional, options)
	if err != nil {
		return zero, fmt.Errorf("section %q (%s): %w", section, sec.Type, err)
	}

	logger.Debug("Component constructed.", "type", sec.Type)
	return instance, nil
}

// Lookup finds typeName in ns, reporting a miss as *UnknownComponentError.
func Lookup[T any](section, typeName string, ns *registry.Namespace[T]) (*registry.Factory[T], error) {
	factory, ok := ns.Lookup(typeName)
	if !ok {
		return nil, &UnknownComponentError{
			Section:   section,
			Namespace: ns.Role(),
			Type:      typeName,
			Known:     ns.Names(),
		}
	}
	return factory, nil
}

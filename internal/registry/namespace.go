package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

// Factory is the compiled side of a constructible type.
type Factory[T any] struct {
	// Options returns a pointer to a fresh options struct pre-filled with
	// defaults. Keyword arguments from the document are decoded into it.
	// A nil Options means the type accepts no keyword arguments.
	Options func() any
	// New builds the instance from the positional arguments and the decoded
	// options (nil when Options is nil).
	New func(ctx context.Context, positional []any, options any) (T, error)
}

// Namespace is the closed set of constructible types for one role.
type Namespace[T any] struct {
	role      string
	factories map[string]*Factory[T]
}

// NewNamespace creates an empty namespace for role.
func NewNamespace[T any](role string) *Namespace[T] {
	return &Namespace[T]{role: role, factories: make(map[string]*Factory[T])}
}

// Role names the section family the namespace serves.
func (n *Namespace[T]) Role() string { return n.role }

// Register adds a factory under name.
func (n *Namespace[T]) Register(name string, f *Factory[T]) {
	if f == nil || f.New == nil {
		panic(fmt.Sprintf("%s factory '%s' has no constructor", n.role, name))
	}
	if _, exists := n.factories[name]; exists {
		panic(fmt.Sprintf("%s type '%s' already registered", n.role, name))
	}
	slog.Debug("Registering constructor.", "role", n.role, "name", name)
	n.factories[name] = f
}

// Lookup returns the factory registered under name.
func (n *Namespace[T]) Lookup(name string) (*Factory[T], bool) {
	f, ok := n.factories[name]
	return f, ok
}

// Names lists every registered name in sorted order.
func (n *Namespace[T]) Names() []string {
	return sortedNames(n.factories)
}

// Constructor adapts a typed build function into a Factory. defaults may be
// nil, in which case options start from the zero value of O.
func Constructor[O, T any](defaults func() *O, build func(ctx context.Context, positional []any, opts *O) (T, error)) *Factory[T] {
	return &Factory[T]{
		Options: func() any {
			if defaults == nil {
				return new(O)
			}
			return defaults()
		},
		New: func(ctx context.Context, positional []any, options any) (T, error) {
			opts, ok := options.(*O)
			if !ok {
				var zero T
				return zero, fmt.Errorf("options: expected %T, got %T", (*O)(nil), options)
			}
			return build(ctx, positional, opts)
		},
	}
}

// Arg returns positional argument i as a P.
func Arg[P any](positional []any, i int) (P, error) {
	var zero P
	if i >= len(positional) {
		return zero, fmt.Errorf("missing positional argument %d (%T)", i, zero)
	}
	v, ok := positional[i].(P)
	if !ok {
		return zero, fmt.Errorf("positional argument %d: expected %T, got %T", i, zero, positional[i])
	}
	return v, nil
}

// ExpectArgs fails unless exactly n positional arguments were supplied.
func ExpectArgs(positional []any, n int) error {
	if len(positional) != n {
		return fmt.Errorf("expected %d positional argument(s), got %d", n, len(positional))
	}
	return nil
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

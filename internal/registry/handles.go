package registry

import (
	"fmt"
	"log/slog"
)

// Handles is a namespace of plain values looked up by name, such as loss
// or metric functions. Nothing is constructed on lookup.
type Handles[T any] struct {
	role string
	all  map[string]T
}

// NewHandles creates an empty handle set for role.
func NewHandles[T any](role string) *Handles[T] {
	return &Handles[T]{role: role, all: make(map[string]T)}
}

// Role names the section the handles serve.
func (h *Handles[T]) Role() string { return h.role }

// Register adds a handle under name.
func (h *Handles[T]) Register(name string, handle T) {
	if _, exists := h.all[name]; exists {
		panic(fmt.Sprintf("%s handle '%s' already registered", h.role, name))
	}
	slog.Debug("Registering handle.", "role", h.role, "name", name)
	h.all[name] = handle
}

// Lookup returns the handle registered under name.
func (h *Handles[T]) Lookup(name string) (T, bool) {
	v, ok := h.all[name]
	return v, ok
}

// Names lists every registered name in sorted order.
func (h *Handles[T]) Names() []string {
	return sortedNames(h.all)
}

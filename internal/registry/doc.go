// Package registry maps the type names written in a configuration document
// to the compiled Go constructors and handles that implement them.
//
// Each role (data sources, models, optimizers, schedulers, losses, metrics)
// has its own closed namespace, so a name is only valid for the section it
// is meant for. Namespaces are populated once at startup by Modules and are
// read-only afterwards; registering the same name twice is a programmer error
// and panics.
package registry

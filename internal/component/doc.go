// Package component defines the contracts shared by every constructible
// training component: parameters and their player split, data sources,
// optimizers, schedulers, and the loss/metric handle signatures.
//
// The package is a leaf: registries, the resolver, the assembler and the
// concrete modules all depend on it, never the other way around.
package component

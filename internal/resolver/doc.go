// Package resolver implements the generic construction protocol: a section
// name is looked up in a document, its configured type is found in a
// role-scoped namespace, keyword arguments are merged with caller overrides
// and decoded into the constructor's options, and the constructor is invoked
// with the caller's positional arguments.
//
// Resolution is pure with respect to its inputs. Nothing is cached; resolving
// the same section twice yields two independent instances.
package resolver

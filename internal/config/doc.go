// Package config defines the format-agnostic configuration document that
// drives a training run, the nested path addressing used by command-line
// overrides, and the interfaces (Loader, Converter) implemented by concrete
// syntax adapters.
//
// A *Document is immutable. Operations that change content, such as applying
// an override, return a new *Document and leave the receiver untouched, so a
// document handed to the assembler can be shared freely.
package config

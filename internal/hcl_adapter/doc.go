// Package hcl_adapter implements config.Loader and config.Converter on top of
// HashiCorp HCL and go-cty.
//
// Documents may be written in native HCL syntax (.hcl), in JSON (.json, read
// through HCL's JSON syntax) or in YAML (.yaml/.yml, converted to JSON first).
// All three produce the same cty object tree, so the rest of the application
// never sees the on-disk format.
package hcl_adapter

package testutil

import (
	"github.com/zclconf/go-cty/cty"
)

// Section builds a {type, args} section value.
func Section(typeName string, args map[string]cty.Value) cty.Value {
	if len(args) == 0 {
		return cty.ObjectVal(map[string]cty.Value{
			"type": cty.StringVal(typeName),
			"args": cty.EmptyObjectVal,
		})
	}
	return cty.ObjectVal(map[string]cty.Value{
		"type": cty.StringVal(typeName),
		"args": cty.ObjectVal(args),
	})
}

// StubRoot returns a complete document root wired to StubModule types.
// Entries in replace substitute whole top-level sections and the keys in drop
// are removed.
func StubRoot(replace map[string]cty.Value, drop ...string) cty.Value {
	root := map[string]cty.Value{
		"name":             cty.StringVal("stub"),
		"data_loader":      Section(StubData, map[string]cty.Value{"batch_size": cty.NumberIntVal(4)}),
		"test_data_loader": Section(StubData, nil),
		"arch":             Section(StubModel, nil),
		"loss":             cty.StringVal(StubLoss),
		"metrics":          cty.TupleVal([]cty.Value{cty.StringVal(StubMetric)}),
		"optimizer":        Section(StubOptimizer, map[string]cty.Value{"lr": cty.NumberFloatVal(0.01)}),
		"lr_scheduler":     Section(StubScheduler, nil),
	}
	for k, v := range replace {
		root[k] = v
	}
	for _, k := range drop {
		delete(root, k)
	}
	return cty.ObjectVal(root)
}

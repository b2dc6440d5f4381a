package config

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func section(typ string, args map[string]cty.Value) cty.Value {
	if args == nil {
		return cty.ObjectVal(map[string]cty.Value{"type": cty.StringVal(typ)})
	}
	return cty.ObjectVal(map[string]cty.Value{
		"type": cty.StringVal(typ),
		"args": cty.ObjectVal(args),
	})
}

func validRoot() map[string]cty.Value {
	return map[string]cty.Value{
		"name":             cty.StringVal("Mnist_GAN"),
		"data_loader":      section("GaussianDataLoader", map[string]cty.Value{"batch_size": cty.NumberIntVal(32)}),
		"test_data_loader": section("GaussianDataLoader", map[string]cty.Value{"batch_size": cty.NumberIntVal(16)}),
		"arch":             section("LinearGAN", nil),
		"loss":             cty.StringVal("bce_loss"),
		"metrics":          cty.TupleVal([]cty.Value{cty.StringVal("accuracy"), cty.StringVal("f1")}),
		"optimizer":        section("SGD", map[string]cty.Value{"lr": cty.NumberFloatVal(0.01)}),
		"lr_scheduler":     section("StepLR", map[string]cty.Value{"step_size": cty.NumberIntVal(10)}),
	}
}

func newTestDocument(t *testing.T, root map[string]cty.Value) *Document {
	t.Helper()
	doc, err := NewDocument("test.json", cty.ObjectVal(root))
	require.NoError(t, err)
	return doc
}
